package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the conventional config file name in the
// working directory.
const DefaultConfigFile = "config.edn"

// LoadOptions configures how a configuration source file is loaded.
type LoadOptions struct {
	// Format forces a source format: "edn", "toml", "json" or "yaml".
	// Empty or "auto" detects by extension, then by content.
	Format string

	// DotEnv optionally names a dotenv file loaded into the process
	// environment (without overriding existing variables) before any
	// #config/env substitution runs.
	DotEnv string
}

// LoadConfig reads the configured-values map from a file using format
// auto-detection. A missing file returns ErrConfigNotFound.
func LoadConfig(path string) (map[Name]any, error) {
	return LoadConfigWithOptions(path, LoadOptions{})
}

// LoadConfigWithOptions reads the configured-values map from a file.
// The canonical EDN format is the primary source; TOML, JSON and YAML
// sources are accepted for interop, with top-level keys read as
// qualified names and top-level tables read as namespaces.
func LoadConfigWithOptions(path string, opts LoadOptions) (map[Name]any, error) {
	if opts.DotEnv != "" {
		if err := godotenv.Load(opts.DotEnv); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to load dotenv file '%s': %w", opts.DotEnv, err)
		}
	}

	fileData, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrConfigNotFound
		}
		return nil, fmt.Errorf("failed to read config file '%s': %w", path, err)
	}

	format := opts.Format
	if format == "" || format == "auto" {
		format = detectFileFormat(path)
		if format == "" {
			format = detectFormatFromContent(fileData)
			if format == "" {
				return nil, fmt.Errorf("unable to determine config format for file '%s'", path)
			}
		}
	}

	switch format {
	case "edn":
		configured, err := ReadConfig(fileData)
		if err != nil {
			return nil, fmt.Errorf("failed to parse config file '%s': %w", path, err)
		}
		return configured, nil

	case "toml":
		raw := make(map[string]any)
		if err := toml.Unmarshal(fileData, &raw); err != nil {
			return nil, fmt.Errorf("failed to parse TOML config file '%s': %w", path, err)
		}
		return nameizeMap(raw)

	case "json":
		raw := make(map[string]any)
		decoder := json.NewDecoder(bytes.NewReader(fileData))
		decoder.UseNumber() // Preserve number precision
		if err := decoder.Decode(&raw); err != nil {
			return nil, fmt.Errorf("failed to parse JSON config file '%s': %w", path, err)
		}
		return nameizeMap(raw)

	case "yaml":
		raw := make(map[string]any)
		if err := yaml.Unmarshal(fileData, &raw); err != nil {
			return nil, fmt.Errorf("failed to parse YAML config file '%s': %w", path, err)
		}
		return nameizeMap(raw)

	default:
		return nil, fmt.Errorf("unsupported config format %q", format)
	}
}

// nameizeMap converts a decoded string-keyed document into the
// qualified-name map. Keys containing '/' are parsed as full names;
// other keys must hold a table whose entries become namespace/local
// pairs, nested tables contributing dotted locals.
func nameizeMap(raw map[string]any) (map[Name]any, error) {
	result := make(map[Name]any)

	for key, value := range raw {
		if strings.Contains(key, "/") {
			name, err := ParseName(key)
			if err != nil {
				return nil, err
			}
			result[name] = value
			continue
		}

		table, ok := value.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("top-level key %q is not a qualified name and not a namespace table", key)
		}
		flat := flattenTable(table, "")
		for local, v := range flat {
			name, err := ParseName(key + "/" + local)
			if err != nil {
				return nil, err
			}
			result[name] = v
		}
	}
	return result, nil
}

// flattenTable converts a nested table to dotted local names.
func flattenTable(nested map[string]any, prefix string) map[string]any {
	flat := make(map[string]any)

	for key, value := range nested {
		local := key
		if prefix != "" {
			local = prefix + "." + key
		}

		if subTable, isTable := value.(map[string]any); isTable {
			for subLocal, subValue := range flattenTable(subTable, local) {
				flat[subLocal] = subValue
			}
		} else {
			flat[local] = value
		}
	}
	return flat
}

// EnvTransformFunc converts a declared name to an environment variable
// name.
type EnvTransformFunc func(Name) string

// DefaultEnvTransform maps "com.example/http-port" with prefix "APP_"
// to "APP_COM_EXAMPLE_HTTP_PORT".
func DefaultEnvTransform(prefix string) EnvTransformFunc {
	replacer := strings.NewReplacer(".", "_", "/", "_", "-", "_")
	return func(n Name) string {
		return prefix + strings.ToUpper(replacer.Replace(n.String()))
	}
}

// EnvOverrides scans the environment for variables matching wanted
// declared names and returns the overrides found, for the caller to
// merge over the file-sourced values. Values are raw strings; type
// conversion is deferred to Scan or the typed getters.
func EnvOverrides(decls Declarations, transform EnvTransformFunc) map[Name]any {
	if transform == nil {
		transform = DefaultEnvTransform("")
	}

	overrides := make(map[Name]any)
	check := func(n Name) {
		if value, exists := os.LookupEnv(transform(n)); exists {
			overrides[n] = value
		}
	}
	for n := range decls.Defaults {
		check(n)
	}
	for n := range decls.Required {
		check(n)
	}
	return overrides
}

// detectFileFormat determines format from file extension
func detectFileFormat(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".edn":
		return "edn"
	case ".toml", ".tml":
		return "toml"
	case ".json":
		return "json"
	case ".yaml", ".yml":
		return "yaml"
	default:
		return ""
	}
}

// detectFormatFromContent attempts to detect format by parsing
func detectFormatFromContent(data []byte) string {
	// The canonical format opens with a map literal or a comment.
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == ';') {
		if _, err := ReadConfig(data); err == nil {
			return "edn"
		}
	}

	// Try JSON next (strict format)
	var jsonTest any
	if err := json.Unmarshal(data, &jsonTest); err == nil {
		return "json"
	}

	// Try YAML (superset of JSON, so check after JSON)
	var yamlTest any
	if err := yaml.Unmarshal(data, &yamlTest); err == nil {
		return "yaml"
	}

	// Try TOML last
	var tomlTest any
	if err := toml.Unmarshal(data, &tomlTest); err == nil {
		return "toml"
	}

	return ""
}
