package i18n

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalog(t *testing.T) {
	m := Default("en")

	tr := m.Translator("en")
	assert.Contains(t, tr.T("deposit.min_amount"), "minimum deposit")
	assert.Equal(t, "en", tr.Lang())

	sw := m.Translator("sw")
	assert.Equal(t, "sw", sw.Lang())
	assert.Contains(t, sw.T("deposit.min_amount"), "Kiwango")
}

func TestLanguages(t *testing.T) {
	m := Default("en")
	assert.ElementsMatch(t, []string{"en", "sw"}, m.Languages())
}

func TestTranslatorFallbacks(t *testing.T) {
	m := Default("en")

	// Unknown language falls back to the default.
	tr := m.Translator("fr")
	assert.Equal(t, "en", tr.Lang())

	// Telegram-style region tags resolve to the base language.
	tr = m.Translator("sw-TZ")
	assert.Equal(t, "sw", tr.Lang())

	// Missing keys surface the key itself.
	assert.Equal(t, "deposit.nope", tr.T("deposit.nope"))
}

func TestLoadOverlaysBuiltin(t *testing.T) {
	dir := t.TempDir()
	catalog := []byte("en:\n  deposit.welcome_anon: \"Karibu!\"\n  deposit.extra: \"extra\"\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "en.yaml"), catalog, 0o600))

	m, err := Load(dir, "en")
	require.NoError(t, err)

	tr := m.Translator("en")
	assert.Equal(t, "Karibu!", tr.T("deposit.welcome_anon"))
	assert.Equal(t, "extra", tr.T("deposit.extra"))
	// Untouched keys keep their built-in values.
	assert.Contains(t, tr.T("deposit.success"), "PIN")
}

func TestLoadMissingDirUsesBuiltin(t *testing.T) {
	m, err := Load("does/not/exist", "en")
	require.NoError(t, err)
	assert.Contains(t, m.Translator("en").T("deposit.cancelled"), "cancelled")
}
