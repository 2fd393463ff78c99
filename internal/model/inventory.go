package model

import "github.com/google/uuid"

// StockPreset is a reusable bar-stock definition a user can save and reuse
// across projects, adapted from the teacher's StockPreset (which held
// sheet width/height/material; here a bar only needs a length).
type StockPreset struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Length   int    `json:"length"`
	Material string `json:"material,omitempty"`
}

// NewStockPreset creates a StockPreset with a generated ID.
func NewStockPreset(name string, length int, material string) StockPreset {
	return StockPreset{
		ID:       uuid.New().String()[:8],
		Name:     name,
		Length:   length,
		Material: material,
	}
}

// ToStock converts a preset into a Stock with the given quantity (0 = unlimited).
func (sp StockPreset) ToStock(qty int) Stock {
	return NewStock(sp.Length, qty)
}

// Inventory holds a user's saved stock-bar presets.
type Inventory struct {
	Stocks []StockPreset `json:"stocks"`
}

// DefaultInventory returns an inventory populated with common mill lengths.
func DefaultInventory() Inventory {
	return Inventory{
		Stocks: []StockPreset{
			NewStockPreset("6m Aluminium Extrusion", 6000, "Aluminium"),
			NewStockPreset("4m Steel Box Section", 4000, "Steel"),
			NewStockPreset("3m Steel Angle", 3000, "Steel"),
			NewStockPreset("12ft (3660mm) Steel Bar", 3660, "Steel"),
		},
	}
}

// FindByID returns a pointer to the preset with the given ID, or nil.
func (inv *Inventory) FindByID(id string) *StockPreset {
	for i := range inv.Stocks {
		if inv.Stocks[i].ID == id {
			return &inv.Stocks[i]
		}
	}
	return nil
}

// Names returns the preset names, for CLI listing.
func (inv *Inventory) Names() []string {
	names := make([]string, len(inv.Stocks))
	for i, s := range inv.Stocks {
		names[i] = s.Name
	}
	return names
}
