package i18n

import (
	"io/fs"
	"testing"

	"github.com/pelletier/go-toml/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranslator_LocaleAndFallback(t *testing.T) {
	tr := NewTranslator("en")

	assert.Equal(t, "Join", tr.T("", "ui.button_join", nil))
	assert.Equal(t, "Je participe", tr.T("fr", "ui.button_join", nil))
	assert.Equal(t, "Join", tr.T("de", "ui.button_join", nil))
	assert.Equal(t, "Accepted (2/5)", tr.T("en-US", "ui.field_accepted", map[string]any{"Count": 2, "Capacity": 5}))
	assert.Equal(t, "missing.key", tr.T("en", "missing.key", nil))
	assert.Empty(t, tr.T("en", "", nil))
}

func TestTranslator_DefaultLocale(t *testing.T) {
	assert.Equal(t, "Join", NewTranslator("not a tag!").T("", "ui.button_join", nil))
	assert.Equal(t, "Rejoindre l'événement", NewTranslator("fr").T("", "ui.modal_join_title", nil))
}

// Every locale must define the same keys as English.
func TestCatalogs_HaveSameKeys(t *testing.T) {
	load := func(name string) map[string]struct{} {
		raw, err := fs.ReadFile(localeFS, name)
		require.NoError(t, err)
		var doc map[string]map[string]string
		require.NoError(t, toml.Unmarshal(raw, &doc))
		keys := map[string]struct{}{}
		for section, entries := range doc {
			for k := range entries {
				keys[section+"."+k] = struct{}{}
			}
		}
		return keys
	}

	en := load("active.en.toml")
	files, err := fs.Glob(localeFS, "active.*.toml")
	require.NoError(t, err)
	for _, f := range files {
		assert.Equal(t, en, load(f), f)
	}
}
