package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/healthcalc/calcchain/pkg/domain"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// File is the on-disk layout of a chains file.
type File struct {
	Chains []domain.Chain `mapstructure:"chains"`
}

// Load reads chains from a YAML or JSON file (by extension, YAML by default)
// and returns a validated catalog.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read chains file: %w", err)
	}

	format := "yaml"
	if strings.ToLower(filepath.Ext(path)) == ".json" {
		format = "json"
	}
	return Parse(data, format)
}

// Parse decodes chains from raw bytes in the given format ("yaml" or "json").
func Parse(data []byte, format string) (*Catalog, error) {
	var raw map[string]any
	switch format {
	case "json":
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("failed to parse chains json: %w", err)
		}
	case "yaml", "yml":
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("failed to parse chains yaml: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported chains format %q", format)
	}

	var f File
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      &f,
		ErrorUnused: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build decoder: %w", err)
	}
	if err := dec.Decode(raw); err != nil {
		return nil, fmt.Errorf("failed to decode chains: %w", err)
	}

	return New(f.Chains...)
}
