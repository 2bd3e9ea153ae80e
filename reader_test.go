package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestReadConfig tests canonical file parsing
func TestReadConfig(t *testing.T) {
	t.Run("EmptyMap", func(t *testing.T) {
		m, err := ReadConfig([]byte("{\n}"))
		require.NoError(t, err)
		assert.Empty(t, m)
	})

	t.Run("ScalarValues", func(t *testing.T) {
		input := `{
app/port 8080
app/host "localhost"
app/ratio 1.5
app/debug true
app/off false
app/none nil
app/level :warn
}`
		m, err := ReadConfig([]byte(input))
		require.NoError(t, err)
		assert.Equal(t, int64(8080), m[MustParseName("app/port")])
		assert.Equal(t, "localhost", m[MustParseName("app/host")])
		assert.Equal(t, 1.5, m[MustParseName("app/ratio")])
		assert.Equal(t, true, m[MustParseName("app/debug")])
		assert.Equal(t, false, m[MustParseName("app/off")])
		assert.Contains(t, m, MustParseName("app/none"))
		assert.Nil(t, m[MustParseName("app/none")])
		assert.Equal(t, Keyword("warn"), m[MustParseName("app/level")])
	})

	t.Run("CollectionValues", func(t *testing.T) {
		input := `{app/tags [:a :b "c" 3] app/opts {:retries 2, :backoff 1.5}}`
		m, err := ReadConfig([]byte(input))
		require.NoError(t, err)
		assert.Equal(t, []any{Keyword("a"), Keyword("b"), "c", int64(3)}, m[MustParseName("app/tags")])
		assert.Equal(t,
			map[any]any{Keyword("retries"): int64(2), Keyword("backoff"): 1.5},
			m[MustParseName("app/opts")])
	})

	t.Run("CommentsAndDiscards", func(t *testing.T) {
		input := `{

;; UNBOUND CONFIG VARS:

;; Must be set in production.
#_app/api-key

;; CONFIG ENTRIES:

app/port 9090 #_8080

#_app/host #_"localhost"

}`
		m, err := ReadConfig([]byte(input))
		require.NoError(t, err)
		require.Len(t, m, 1)
		assert.Equal(t, int64(9090), m[MustParseName("app/port")])
	})

	t.Run("NegativeNumbers", func(t *testing.T) {
		m, err := ReadConfig([]byte(`{app/offset -42 app/temp -1.25}`))
		require.NoError(t, err)
		assert.Equal(t, int64(-42), m[MustParseName("app/offset")])
		assert.Equal(t, -1.25, m[MustParseName("app/temp")])
	})

	t.Run("MultilineString", func(t *testing.T) {
		m, err := ReadConfig([]byte("{app/motd \"line one\nline two\"}"))
		require.NoError(t, err)
		assert.Equal(t, "line one\nline two", m[MustParseName("app/motd")])
	})

	t.Run("StringEscapes", func(t *testing.T) {
		m, err := ReadConfig([]byte(`{app/s "a\"b\\c\nd"}`))
		require.NoError(t, err)
		assert.Equal(t, "a\"b\\c\nd", m[MustParseName("app/s")])
	})

	t.Run("EnvSubstitution", func(t *testing.T) {
		t.Setenv("CONFIG_READER_TEST_VAR", "from-env")
		m, err := ReadConfig([]byte(`{app/secret #config/env "CONFIG_READER_TEST_VAR"}`))
		require.NoError(t, err)
		assert.Equal(t, "from-env", m[MustParseName("app/secret")])
	})

	t.Run("EnvSubstitutionUnset", func(t *testing.T) {
		m, err := ReadConfig([]byte(`{app/secret #config/env "CONFIG_READER_TEST_UNSET"}`))
		require.NoError(t, err)
		assert.Nil(t, m[MustParseName("app/secret")])
	})
}

// TestReadConfigErrors tests malformed input handling
func TestReadConfigErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"NotAMap", `[1 2 3]`},
		{"UnterminatedMap", `{app/a 1`},
		{"UnterminatedString", `{app/a "oops}`},
		{"KeyWithoutValue", `{app/a}`},
		{"TrailingContent", `{app/a 1} extra`},
		{"NonSymbolKey", `{:keyword 1}`},
		{"UnsupportedTag", `{app/a #inst "2026-01-01"}`},
		{"EnvTagNonString", `{app/a #config/env 42}`},
		{"BadNumber", `{app/a 12x4}`},
		{"BadEscape", `{app/a "\q"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadConfig([]byte(tt.input))
			assert.Error(t, err)
		})
	}
}
