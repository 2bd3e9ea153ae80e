// Command config-gen reconciles a declaration manifest against an
// existing config file and regenerates the canonical config file.
//
// Non-strict runs always exit 0 after writing. With --strict the exit
// code is non-zero when required vars remain unbound, but the file is
// written first so the generated placeholders are available to edit.
package main

import (
	"errors"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/mindbat/config"
)

var (
	manifests []string
	file      string
	format    string
	dotenv    string
	envPrefix string
	strict    bool
)

func main() {
	root := &cobra.Command{
		Use:           "config-gen",
		Short:         "Regenerate the canonical config file from declarations",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          run,
	}

	root.Flags().StringSliceVarP(&manifests, "manifest", "m", nil, "TOML declaration manifest (repeatable)")
	root.Flags().StringVarP(&file, "file", "f", config.DefaultConfigFile, "config file to read and regenerate")
	root.Flags().StringVar(&format, "format", "", "source format: edn, toml, json or yaml (default: auto)")
	root.Flags().StringVar(&dotenv, "dotenv", "", "dotenv file loaded before env substitution")
	root.Flags().StringVar(&envPrefix, "env-prefix", "", "enable env overrides for declared names under this prefix")
	root.Flags().BoolVar(&strict, "strict", false, "fail when required vars remain unbound")

	if err := root.Execute(); err != nil {
		log.Fatal(err)
	}
}

func run(cmd *cobra.Command, args []string) error {
	b := config.NewBuilder().WithFile(file).WithFormat(format)
	for _, m := range manifests {
		b = b.WithManifest(m)
	}
	if dotenv != "" {
		b = b.WithDotEnv(dotenv)
	}
	if envPrefix != "" {
		b = b.WithEnvPrefix(envPrefix)
	}
	if strict {
		b = b.WithStrict()
	}

	err := b.Generate()
	if err != nil && !errors.Is(err, config.ErrUnboundVars) {
		return err
	}

	log.Info("config file regenerated", "file", file)

	if err != nil {
		log.Error("unbound vars remain", "err", err)
		os.Exit(1)
	}
	return nil
}
