// config/overlay.go
package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

type rulesFile struct {
	Classify struct {
		Rules     []Rule    `yaml:"rules"`
		Penalties []Penalty `yaml:"penalties"`
	} `yaml:"classify"`
}

// OverlayClassifyRules replaces the classifier rule set from a standalone
// rules file when one exists. A missing file is not an error; rule sets are
// iterated on far more often than the rest of the config.
func OverlayClassifyRules(cfg *Config, rulesPath string) error {
	b, err := os.ReadFile(rulesPath)
	if err != nil {
		return nil
	}

	var rf rulesFile
	if err := yaml.Unmarshal(b, &rf); err != nil {
		return err
	}

	if len(rf.Classify.Rules) > 0 {
		cfg.Classify.Rules = rf.Classify.Rules
	}
	if len(rf.Classify.Penalties) > 0 {
		cfg.Classify.Penalties = rf.Classify.Penalties
	}
	return nil
}
