package config

// GetDefaults returns the default configuration values
func GetDefaults() map[string]interface{} {
	return map[string]interface{}{
		"mbt_cmd":                "mbt",
		"cf_cmd":                 "cf",
		"cf_home":                "",
		"log_level":              "error",
		"exclude":                "**/node_modules/**",
		"command_timeout":        30,
		"revalidate_concurrency": 4,
		"debounce_ms":            0,
		"color":                  true,
		"state_dir":              "~/.mtatools/state",
		"max_history_entries":    100,
		"notify":                 false,
		"notify_threshold":       30,
	}
}
