package config

import (
	"errors"
	"fmt"
)

// Builder provides a fluent interface for wiring a registry, a config
// source file, and environment overrides into one generation or
// resolution pass.
type Builder struct {
	registry  *Registry
	manifests []string
	file      string
	opts      LoadOptions
	envPrefix string
	useEnv    bool
	strict    bool
}

// NewBuilder creates a builder writing to the conventional file name.
func NewBuilder() *Builder {
	return &Builder{
		registry: NewRegistry(),
		file:     DefaultConfigFile,
	}
}

// WithRegistry sets the declaration registry to reconcile against.
func (b *Builder) WithRegistry(r *Registry) *Builder {
	if r != nil {
		b.registry = r
	}
	return b
}

// WithManifest adds a TOML declaration manifest to load.
func (b *Builder) WithManifest(path string) *Builder {
	b.manifests = append(b.manifests, path)
	return b
}

// WithFile sets the configuration source/output file path.
func (b *Builder) WithFile(path string) *Builder {
	b.file = path
	return b
}

// WithFormat forces the source file format instead of auto-detection.
func (b *Builder) WithFormat(format string) *Builder {
	b.opts.Format = format
	return b
}

// WithDotEnv loads a dotenv file before env substitution runs.
func (b *Builder) WithDotEnv(path string) *Builder {
	b.opts.DotEnv = path
	return b
}

// WithEnvPrefix enables environment overrides for declared names,
// using the default name transformation under the given prefix.
func (b *Builder) WithEnvPrefix(prefix string) *Builder {
	b.envPrefix = prefix
	b.useEnv = true
	return b
}

// WithStrict makes Generate fail (after writing) when required names
// remain unbound.
func (b *Builder) WithStrict() *Builder {
	b.strict = true
	return b
}

// load assembles the declaration snapshot and the configured map from
// every wired source.
func (b *Builder) load() (Declarations, map[Name]any, error) {
	for _, m := range b.manifests {
		if err := b.registry.LoadManifest(m); err != nil {
			return Declarations{}, nil, fmt.Errorf("failed to load manifest: %w", err)
		}
	}

	decls := b.registry.Declarations()

	configured, err := LoadConfigWithOptions(b.file, b.opts)
	if err != nil {
		if !errors.Is(err, ErrConfigNotFound) {
			return Declarations{}, nil, err
		}
		configured = make(map[Name]any)
	}

	if b.useEnv {
		for n, v := range EnvOverrides(decls, DefaultEnvTransform(b.envPrefix)) {
			configured[n] = v
		}
	}

	return decls, configured, nil
}

// Generate reconciles and rewrites the config file. In strict mode the
// unbound check runs after the file has been written, so the generated
// placeholders are on disk even when Generate returns ErrUnboundVars.
func (b *Builder) Generate() error {
	decls, configured, err := b.load()
	if err != nil {
		return err
	}

	if err := WriteConfig(b.file, decls, configured); err != nil {
		return err
	}

	if b.strict {
		return CheckUnbound(decls, configured)
	}
	return nil
}

// Build resolves the merged configuration without writing anything.
func (b *Builder) Build() (Resolved, error) {
	decls, configured, err := b.load()
	if err != nil {
		return nil, err
	}
	return Resolve(decls, configured), nil
}

// BuildAndScan resolves the merged configuration and decodes one
// namespace into the target struct pointer.
func (b *Builder) BuildAndScan(namespace string, target any) error {
	decls, configured, err := b.load()
	if err != nil {
		return err
	}
	return Scan(decls, configured, namespace, target)
}
