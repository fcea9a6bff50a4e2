package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const exampleConfig = `# price-tracker configuration
# Copy this file to config.toml and fill in your Telegram credentials.

[telegram]
bot_token = "YOUR_BOT_TOKEN"
chat_id = "YOUR_CHAT_ID"

[intraday]
# Percentage move vs. today's open that triggers a spike/dip alert.
default_threshold_pct = 2.0

# Per-instrument overrides (optional).
# [intraday.thresholds]
# gold_gbp = 1.5

# Absolute GBP price alerts (optional, per instrument).
# [price_alerts.gold_gbp]
# above = 1650.0
# below = 1450.0

[provider]
timeout_sec = 30

[logging]
level = "info"
`

// WriteExample writes config.example.toml into the config directory.
// The live config.toml is never created automatically.
func WriteExample(configDir string) (string, error) {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return "", fmt.Errorf("creating config directory: %w", err)
	}
	path := filepath.Join(configDir, "config.example.toml")
	if err := os.WriteFile(path, []byte(exampleConfig), 0644); err != nil {
		return "", fmt.Errorf("writing example config: %w", err)
	}
	return path, nil
}
