package common

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/carlinhosvolpony-tech/RodadaDgrau/internal/models"

	"gopkg.in/yaml.v2"
)

type SlateMatch struct {
	League   string `yaml:"league"`
	HomeTeam string `yaml:"home_team"`
	AwayTeam string `yaml:"away_team"`
	Date     string `yaml:"date"`
}

type SlateConfig struct {
	Matches []SlateMatch `yaml:"matches"`
}

// LoadSlateConfig reads the fixture slate from a YAML file and converts it
// to match entities. The file must define exactly one full slate.
func LoadSlateConfig(slateFile string) ([]models.Match, error) {
	var slatePath string
	if filepath.IsAbs(slateFile) {
		slatePath = slateFile
	} else {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		slatePath = filepath.Join(wd, slateFile)
	}

	data, err := os.ReadFile(slatePath)
	if err != nil {
		return nil, fmt.Errorf("unable to read %s: %w", slateFile, err)
	}

	var config SlateConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("unable to parse %s: %w", slateFile, err)
	}

	if len(config.Matches) != models.SlateSize {
		return nil, fmt.Errorf("%s must define exactly %d matches, got %d",
			slateFile, models.SlateSize, len(config.Matches))
	}

	matches := make([]models.Match, len(config.Matches))
	for i, m := range config.Matches {
		matches[i] = models.Match{
			League:   m.League,
			HomeTeam: m.HomeTeam,
			AwayTeam: m.AwayTeam,
			Date:     m.Date,
			Position: i,
		}
	}
	return matches, nil
}
