package config

import (
	"encoding/json"
	"os"
)

// Config carries optional viewer defaults. CLI flags override any value
// set here.
type Config struct {
	LogFile    string `json:"log_file"`
	LogLevel   string `json:"log_level"`
	NumRecords int    `json:"num_records"`
	Wrap       int    `json:"wrap"`
	NoSeqColor bool   `json:"no_seq_color"`
	Legend     bool   `json:"legend"`
	RawQuality bool   `json:"raw_quality"`
}

// LoadConfig loads a JSON config from the given path. If path is empty, looks for ./config.json.
// A missing file is not an error: the viewer runs fine on defaults.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		path = "config.json"
	}
	f, err := os.Open(path)
	if err != nil {
		// not fatal: return defaults
		return &Config{}, nil
	}
	defer f.Close()
	var c Config
	dec := json.NewDecoder(f)
	if err := dec.Decode(&c); err != nil {
		return nil, err
	}
	return &c, nil
}
