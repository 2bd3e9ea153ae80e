// Package config reconciles declared configuration vars against an
// externally supplied configuration file and regenerates a canonical,
// comment-annotated config file that doubles as the next run's input.
//
// Applications declare named configuration vars (qualified symbols
// like "com.example/port") with optional defaults and documentation.
// Given the set of declarations and the currently configured values,
// the reconciler classifies every relevant name as unbound (required
// but neither configured nor defaulted), unused (configured or
// defaulted but no longer wanted), or used, and renders all three
// categories into a deterministic EDN-style map literal.
//
// Features:
//   - Explicit declaration registry, thread-safe via sync.RWMutex
//   - Struct declaration with tag support (`config:"..."`)
//   - TOML declaration manifests for out-of-process generation
//   - Config sources in EDN, TOML, JSON, or YAML with format detection
//   - Environment variable substitution (#config/env) and overrides
//   - Atomic file generation with a strict mode for unbound vars
//   - Builder pattern for wiring registry, sources, and output
//
// Quick Start:
//
//	reg := config.NewRegistry()
//	reg.DeclareDefault("app/port", int64(8080), "HTTP listen port.")
//	reg.DeclareRequired("app/api-key", "Upstream API credential.")
//
//	configured, err := config.LoadConfig(config.DefaultConfigFile)
//	if err != nil && !errors.Is(err, config.ErrConfigNotFound) {
//		log.Fatal(err)
//	}
//
//	err = config.WriteConfig(config.DefaultConfigFile, reg.Declarations(), configured)
//
// The generated file groups entries under three headed sections
// (unbound vars, unused entries, config entries), keeps defaults and
// placeholders inert behind the #_ discard marker, and sorts names
// lexicographically so output is reproducible run to run.
//
// Thread Safety:
// Reconciliation and rendering are pure functions over snapshots. The
// Registry is the only locked structure; it allows concurrent reads
// while protecting declaration updates.
package config
