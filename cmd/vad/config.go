package main

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

// fileConfig is the YAML file with flag defaults. Values use the flag
// syntax; explicitly passed flags take precedence.
type fileConfig struct {
	LogLevel      string `yaml:"log-level"`
	Backend       string `yaml:"backend"`
	Mode          string `yaml:"mode"`
	SampleRate    string `yaml:"sample-rate"`
	FrameDuration string `yaml:"frame-duration"`
	MinSpeech     string `yaml:"min-speech"`
	MinSilence    string `yaml:"min-silence"`
	PrintFrames   string `yaml:"print-frames"`
}

func readFileConfig(path string) (*fileConfig, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("unable to open the config file: %w", err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	var cfg fileConfig
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("unable to parse the config file '%s': %w", path, err)
	}
	return &cfg, nil
}

func (cfg *fileConfig) values() map[string]string {
	return map[string]string{
		"log-level":      cfg.LogLevel,
		"backend":        cfg.Backend,
		"mode":           cfg.Mode,
		"sample-rate":    cfg.SampleRate,
		"frame-duration": cfg.FrameDuration,
		"min-speech":     cfg.MinSpeech,
		"min-silence":    cfg.MinSilence,
		"print-frames":   cfg.PrintFrames,
	}
}

// apply sets the flags which were not set in the command line.
func (cfg *fileConfig) apply(flags *pflag.FlagSet) error {
	for name, value := range cfg.values() {
		if value == "" || flags.Changed(name) {
			continue
		}
		if err := flags.Set(name, value); err != nil {
			return fmt.Errorf("invalid value '%s' of '%s' in the config file: %w", value, name, err)
		}
	}
	return nil
}
