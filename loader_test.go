package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTestFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// TestLoadConfig tests multi-format source loading
func TestLoadConfig(t *testing.T) {
	t.Run("EDN", func(t *testing.T) {
		path := writeTestFile(t, "config.edn", `{app/port 8080 app/host "localhost"}`)
		m, err := LoadConfig(path)
		require.NoError(t, err)
		assert.Equal(t, int64(8080), m[MustParseName("app/port")])
		assert.Equal(t, "localhost", m[MustParseName("app/host")])
	})

	t.Run("TOMLQualifiedKeys", func(t *testing.T) {
		path := writeTestFile(t, "config.toml", `"app/port" = 8080`+"\n"+`"app/host" = "localhost"`)
		m, err := LoadConfig(path)
		require.NoError(t, err)
		assert.Equal(t, int64(8080), m[MustParseName("app/port")])
		assert.Equal(t, "localhost", m[MustParseName("app/host")])
	})

	t.Run("TOMLNamespaceTables", func(t *testing.T) {
		content := `["com.example"]
port = 8080

["com.example".db]
host = "db.internal"
`
		path := writeTestFile(t, "config.toml", content)
		m, err := LoadConfig(path)
		require.NoError(t, err)
		assert.Equal(t, int64(8080), m[MustParseName("com.example/port")])
		assert.Equal(t, "db.internal", m[MustParseName("com.example/db.host")])
	})

	t.Run("JSON", func(t *testing.T) {
		path := writeTestFile(t, "config.json", `{"app/port": 8080, "app": {"host": "localhost"}}`)
		m, err := LoadConfig(path)
		require.NoError(t, err)
		assert.Contains(t, m, MustParseName("app/port"))
		assert.Equal(t, "localhost", m[MustParseName("app/host")])
	})

	t.Run("YAML", func(t *testing.T) {
		content := "app/port: 8080\napp:\n  host: localhost\n"
		path := writeTestFile(t, "config.yaml", content)
		m, err := LoadConfig(path)
		require.NoError(t, err)
		assert.Equal(t, 8080, m[MustParseName("app/port")])
		assert.Equal(t, "localhost", m[MustParseName("app/host")])
	})

	t.Run("ContentDetectionEDN", func(t *testing.T) {
		path := writeTestFile(t, "app.conf", ";; generated\n{app/port 8080}")
		m, err := LoadConfig(path)
		require.NoError(t, err)
		assert.Equal(t, int64(8080), m[MustParseName("app/port")])
	})

	t.Run("ForcedFormat", func(t *testing.T) {
		path := writeTestFile(t, "app.conf", `{app/port 8080}`)
		m, err := LoadConfigWithOptions(path, LoadOptions{Format: "edn"})
		require.NoError(t, err)
		assert.Equal(t, int64(8080), m[MustParseName("app/port")])
	})

	t.Run("Missing", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.edn"))
		assert.ErrorIs(t, err, ErrConfigNotFound)
	})

	t.Run("UnsupportedFormat", func(t *testing.T) {
		path := writeTestFile(t, "config.edn", `{}`)
		_, err := LoadConfigWithOptions(path, LoadOptions{Format: "ini"})
		assert.Error(t, err)
	})
}

// TestLoadConfigDotEnv: dotenv preload feeds #config/env substitution
func TestLoadConfigDotEnv(t *testing.T) {
	dir := t.TempDir()
	dotenv := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(dotenv, []byte("CONFIG_DOTENV_TEST_KEY=sekrit\n"), 0644))
	t.Cleanup(func() { os.Unsetenv("CONFIG_DOTENV_TEST_KEY") })

	path := filepath.Join(dir, "config.edn")
	require.NoError(t, os.WriteFile(path, []byte(`{app/secret #config/env "CONFIG_DOTENV_TEST_KEY"}`), 0644))

	m, err := LoadConfigWithOptions(path, LoadOptions{DotEnv: dotenv})
	require.NoError(t, err)
	assert.Equal(t, "sekrit", m[MustParseName("app/secret")])
}

func TestDefaultEnvTransform(t *testing.T) {
	transform := DefaultEnvTransform("APP_")
	assert.Equal(t, "APP_COM_EXAMPLE_HTTP_PORT", transform(MustParseName("com.example/http-port")))
	assert.Equal(t, "APP_DEBUG", transform(MustParseName("debug")))
}

// TestEnvOverrides: declared names present in the environment override
// file values; unset names are untouched.
func TestEnvOverrides(t *testing.T) {
	t.Setenv("CFGTEST_APP_PORT", "9999")

	decls := Declarations{
		Defaults: map[Name]any{MustParseName("app/port"): int64(8080)},
		Required: map[Name]bool{MustParseName("app/api-key"): true},
	}

	overrides := EnvOverrides(decls, DefaultEnvTransform("CFGTEST_"))
	require.Len(t, overrides, 1)
	assert.Equal(t, "9999", overrides[MustParseName("app/port")])
}

func TestDetectFileFormat(t *testing.T) {
	tests := []struct {
		path     string
		expected string
	}{
		{"config.edn", "edn"},
		{"config.toml", "toml"},
		{"config.tml", "toml"},
		{"config.json", "json"},
		{"config.yaml", "yaml"},
		{"config.yml", "yaml"},
		{"config.conf", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, detectFileFormat(tt.path), tt.path)
	}
}
