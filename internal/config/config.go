// engine/internal/config/config.go
package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

type Rule struct {
	Tag    string   `yaml:"tag" json:"tag"`
	Weight int      `yaml:"weight" json:"weight"`
	Any    []string `yaml:"any" json:"any"`
}

type Penalty struct {
	Reason string   `yaml:"reason" json:"reason"`
	Weight int      `yaml:"weight" json:"weight"`
	Any    []string `yaml:"any" json:"any"`
}

type Config struct {
	App struct {
		Port    int    `yaml:"port" json:"port"`
		DataDir string `yaml:"data_dir" json:"data_dir"`
	} `yaml:"app" json:"app"`

	Email struct {
		Enabled          bool     `yaml:"enabled" json:"enabled"`
		IMAPHost         string   `yaml:"imap_host" json:"imap_host"`
		IMAPPort         int      `yaml:"imap_port" json:"imap_port"`
		Username         string   `yaml:"username" json:"username"`
		Mailboxes        []string `yaml:"mailboxes" json:"mailboxes"`
		SearchSubjectAny []string `yaml:"search_subject_any" json:"search_subject_any"`
		MaxMessages      int      `yaml:"max_messages" json:"max_messages"`
	} `yaml:"email" json:"email"`

	Polling struct {
		IngestSeconds   int `yaml:"ingest_seconds" json:"ingest_seconds"`
		CleanupHours    int `yaml:"cleanup_hours" json:"cleanup_hours"`
		RetentionMonths int `yaml:"retention_months" json:"retention_months"`
	} `yaml:"polling" json:"polling"`

	Export struct {
		CSVPath string `yaml:"csv_path" json:"csv_path"`
	} `yaml:"export" json:"export"`

	Classify struct {
		Enabled   bool      `yaml:"enabled" json:"enabled"`
		Threshold int       `yaml:"threshold" json:"threshold"`
		Rules     []Rule    `yaml:"rules" json:"rules"`
		Penalties []Penalty `yaml:"penalties" json:"penalties"`
	} `yaml:"classify" json:"classify"`
}

func Load(path string) (Config, error) {
	var cfg Config
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	err = yaml.Unmarshal(b, &cfg)
	return cfg, err
}
