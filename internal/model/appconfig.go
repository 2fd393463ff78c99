package model

// AppConfig holds application-wide preferences and default run settings,
// persisted by internal/project (adapted from the teacher's AppConfig,
// which stored CNC/UI defaults; here it stores engine-run defaults).
type AppConfig struct {
	DefaultConfig Config `json:"defaultConfig"`

	RecentRuns []string `json:"recentRuns"`
}

// DefaultAppConfig returns an AppConfig seeded from DefaultConfig().
func DefaultAppConfig() AppConfig {
	return AppConfig{
		DefaultConfig: DefaultConfig(),
		RecentRuns:    []string{},
	}
}
