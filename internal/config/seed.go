package config

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// Seed is the reference data applied by `taskboard seed`.
type Seed struct {
	Creds          []SeedCred          `toml:"creds"`
	ReportCatalogs []SeedReportCatalog `toml:"report_catalogs"`
}

type SeedCred struct {
	Code        string `toml:"code"`
	Description string `toml:"description"`
}

type SeedReportCatalog struct {
	Key         string              `toml:"key"`
	Name        string              `toml:"name"`
	Description string              `toml:"description"`
	Sections    []SeedReportSection `toml:"sections"`
}

type SeedReportSection struct {
	Name     string             `toml:"name"`
	Position int                `toml:"position"`
	Filters  []SeedReportFilter `toml:"filters"`
}

type SeedReportFilter struct {
	Field    string `toml:"field"`
	Operator string `toml:"operator"`
	Label    string `toml:"label"`
}

// LoadSeed loads seed data from a TOML file
func LoadSeed(filename string) (*Seed, error) {
	seed := &Seed{}
	if _, err := toml.DecodeFile(filename, seed); err != nil {
		return nil, fmt.Errorf("failed to load seed file: %w", err)
	}
	if err := seed.Validate(); err != nil {
		return nil, err
	}
	return seed, nil
}

// Validate rejects duplicate or empty keys.
func (s *Seed) Validate() error {
	codes := make(map[string]bool)
	for _, c := range s.Creds {
		if c.Code == "" {
			return fmt.Errorf("seed cred with empty code")
		}
		if codes[c.Code] {
			return fmt.Errorf("duplicate seed cred %q", c.Code)
		}
		codes[c.Code] = true
	}

	keys := make(map[string]bool)
	for _, rc := range s.ReportCatalogs {
		if rc.Key == "" {
			return fmt.Errorf("seed report catalog with empty key")
		}
		if keys[rc.Key] {
			return fmt.Errorf("duplicate seed report catalog %q", rc.Key)
		}
		keys[rc.Key] = true
	}
	return nil
}
