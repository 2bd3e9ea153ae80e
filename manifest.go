package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/mitchellh/mapstructure"
)

// manifestEntry mirrors one [vars."ns/local"] table in a manifest.
// The default value is handled separately because its absence must be
// distinguishable from an explicit nil.
type manifestEntry struct {
	Required bool   `mapstructure:"required"`
	Doc      string `mapstructure:"doc"`
}

// LoadManifest declares every entry of a TOML declaration manifest:
//
//	[vars."com.example/timeout"]
//	default = 5000
//	doc = "Request timeout in milliseconds."
//
//	[vars."com.example/api-key"]
//	required = true
//	doc = "Upstream API credential."
//
// Manifests let a standalone generator know the declaration set
// without running the declaring process.
func (r *Registry) LoadManifest(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return ErrConfigNotFound
		}
		return fmt.Errorf("failed to read manifest '%s': %w", path, err)
	}

	var manifest struct {
		Vars map[string]map[string]any `toml:"vars"`
	}
	if err := toml.Unmarshal(data, &manifest); err != nil {
		return fmt.Errorf("%w: '%s': %v", ErrManifestParse, path, err)
	}

	for name, raw := range manifest.Vars {
		var entry manifestEntry
		if err := mapstructure.Decode(raw, &entry); err != nil {
			return fmt.Errorf("%w: entry %q: %v", ErrManifestParse, name, err)
		}

		defaultValue, hasDefault := raw["default"]
		if entry.Required && hasDefault {
			return fmt.Errorf("%w: entry %q is both required and defaulted", ErrManifestParse, name)
		}

		opts := DeclareOptions{
			Default:    defaultValue,
			HasDefault: hasDefault,
			Required:   entry.Required,
			Doc:        entry.Doc,
		}
		if err := r.Declare(name, opts); err != nil {
			return fmt.Errorf("manifest entry %q: %w", name, err)
		}
	}
	return nil
}
