package config

import "errors"

var (
	// ErrConfigNotFound indicates the configuration source file does not
	// exist. Not fatal: generation proceeds from declarations alone.
	ErrConfigNotFound = errors.New("config file not found")

	// ErrUnboundVars indicates required vars with neither a configured
	// value nor a default. Returned by the strict check after generation.
	ErrUnboundVars = errors.New("unbound config vars")

	// ErrManifestParse indicates a declaration manifest could not be parsed.
	ErrManifestParse = errors.New("manifest parse failed")
)
