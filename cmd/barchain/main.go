// barchain — 1D mitred-bar cutting-stock optimizer.
//
// A thin CLI that wires stdin/stdout JSON to the engine facade: a
// request names parts, stock and (optionally) a config override;
// the response is the engine's canonical PlacementResult. The GUI the
// teacher shipped is out of scope here — this is the facade's own front
// door, for scripting and for the test suite to drive end to end.
//
// -preset and -template pull from the ~/.barchain project store
// (internal/project): saved stock presets and reusable run templates
// layer underneath whatever -in supplies, so a request JSON only needs
// to carry what's different about that run.
//
// Usage:
//
//	barchain -in request.json -out result.json
//	barchain -preset "6m Aluminium Extrusion" -in request.json
//	barchain -template ladder-frame -save-template ladder-frame-v2
//	barchain < request.json > result.json
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/piwi3910/barchain/internal/engine"
	"github.com/piwi3910/barchain/internal/model"
	"github.com/piwi3910/barchain/internal/project"
)

// request is the CLI's wire-level input: parts and stock to optimize,
// plus an optional config that, when present, replaces the base config
// (the saved AppConfig default, or the -template's config) as a whole.
type request struct {
	Parts  []model.Part  `json:"parts"`
	Stocks []model.Stock `json:"stocks"`
	Config *model.Config `json:"config,omitempty"`
}

func main() {
	inPath := flag.String("in", "", "path to request JSON (default: stdin)")
	outPath := flag.String("out", "", "path to write result JSON (default: stdout)")
	quiet := flag.Bool("quiet", false, "suppress progress lines on stderr")
	preset := flag.String("preset", "", "name of a saved stock preset (see ~/.barchain/inventory.json) to add as stock")
	presetQty := flag.Int("preset-qty", 1, "quantity to draw from -preset (0 = unlimited supply)")
	template := flag.String("template", "", "name of a saved run template to seed parts/stocks/config from")
	saveTemplate := flag.String("save-template", "", "save this run's parts/stocks/config as a new run template under this name")
	flag.Parse()

	if err := run(runArgs{
		inPath: *inPath, outPath: *outPath, quiet: *quiet,
		preset: *preset, presetQty: *presetQty,
		template: *template, saveTemplate: *saveTemplate,
	}); err != nil {
		fmt.Fprintln(os.Stderr, "barchain:", err)
		os.Exit(1)
	}
}

// runArgs bundles the CLI flags, since run has grown past a plain
// positional-argument list.
type runArgs struct {
	inPath, outPath string
	quiet           bool
	preset          string
	presetQty       int
	template        string
	saveTemplate    string
}

func run(args runArgs) error {
	appCfg, err := project.LoadOrCreateAppConfig()
	if err != nil {
		return fmt.Errorf("loading app config: %w", err)
	}
	cfg := appCfg.DefaultConfig

	var parts []model.Part
	var stocks []model.Stock

	if args.template != "" {
		store, err := project.LoadDefaultTemplates()
		if err != nil {
			return fmt.Errorf("loading templates: %w", err)
		}
		tmpl := findTemplateByName(store, args.template)
		if tmpl == nil {
			return fmt.Errorf("no saved run template named %q", args.template)
		}
		parts = append(parts, tmpl.Parts...)
		stocks = append(stocks, tmpl.Stocks...)
		cfg = tmpl.Config
	}

	req, err := readRequest(args.inPath)
	if err != nil {
		return fmt.Errorf("reading request: %w", err)
	}
	parts = append(parts, req.Parts...)
	stocks = append(stocks, req.Stocks...)
	if req.Config != nil {
		cfg = *req.Config
	}

	if args.preset != "" {
		inv, _, err := project.LoadOrCreateInventory()
		if err != nil {
			return fmt.Errorf("loading inventory: %w", err)
		}
		p := findPresetByName(inv, args.preset)
		if p == nil {
			return fmt.Errorf("no saved stock preset named %q", args.preset)
		}
		stocks = append(stocks, p.ToStock(args.presetQty))
	}

	var progress func(percent int, stage string)
	if !args.quiet {
		progress = func(percent int, stage string) {
			fmt.Fprintf(os.Stderr, "[%3d%%] %s\n", percent, stage)
		}
	}

	result, err := engine.New(cfg).Optimize(context.Background(), parts, stocks, progress)
	if err != nil {
		return fmt.Errorf("optimizing: %w", err)
	}

	if args.saveTemplate != "" {
		if err := saveRunAsTemplate(appCfg, args.saveTemplate, parts, stocks, cfg); err != nil {
			return fmt.Errorf("saving template: %w", err)
		}
	}

	return writeResult(args.outPath, result)
}

// findPresetByName looks up an inventory stock preset by its display name
// (StockPreset.ID is an opaque generated ID, not something a CLI user
// would type).
func findPresetByName(inv model.Inventory, name string) *model.StockPreset {
	for i := range inv.Stocks {
		if inv.Stocks[i].Name == name {
			return &inv.Stocks[i]
		}
	}
	return nil
}

// findTemplateByName mirrors findPresetByName for RunTemplate.Name.
func findTemplateByName(store model.TemplateStore, name string) *model.RunTemplate {
	for i := range store.Templates {
		if store.Templates[i].Name == name {
			return &store.Templates[i]
		}
	}
	return nil
}

// saveRunAsTemplate records this run's inputs as a reusable RunTemplate and
// notes its name in the AppConfig's recent-runs list.
func saveRunAsTemplate(appCfg model.AppConfig, name string, parts []model.Part, stocks []model.Stock, cfg model.Config) error {
	store, err := project.LoadDefaultTemplates()
	if err != nil {
		return err
	}
	store.Add(model.NewRunTemplate(name, "", parts, stocks, cfg))
	if err := project.SaveDefaultTemplates(store); err != nil {
		return err
	}

	appCfg.RecentRuns = append(appCfg.RecentRuns, name)
	return project.SaveAppConfig(project.DefaultConfigPath(), appCfg)
}

func readRequest(path string) (request, error) {
	var r io.Reader = os.Stdin
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return request{}, err
		}
		defer f.Close()
		r = f
	}

	var req request
	if err := json.NewDecoder(r).Decode(&req); err != nil {
		return request{}, err
	}
	return req, nil
}

func writeResult(path string, result model.PlacementResult) error {
	var w io.Writer = os.Stdout
	if path != "" {
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}
