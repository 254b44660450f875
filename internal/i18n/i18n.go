// Package i18n resolves localized prompt strings for the deposit flow.
package i18n

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Translator resolves localized strings using dot-separated keys.
type Translator interface {
	T(key string) string
	Lang() string
}

// Manager stores all available translations.
type Manager struct {
	translations map[string]map[string]string
	defaultLang  string
}

// Default returns a Manager backed only by the built-in catalog.
func Default(defaultLang string) *Manager {
	if defaultLang == "" {
		defaultLang = "en"
	}

	return &Manager{
		translations: cloneCatalog(builtinCatalog),
		defaultLang:  defaultLang,
	}
}

// Load builds a Manager from the built-in catalog overlaid with the YAML
// files found in dir. A missing directory leaves the built-in catalog as is.
func Load(dir, defaultLang string) (*Manager, error) {
	m := Default(defaultLang)

	if dir == "" {
		return m, nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return m, nil
		}
		return nil, fmt.Errorf("i18n: read dir %s: %w", dir, err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !isYAML(entry.Name()) {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		fileCatalog, err := parseFile(path)
		if err != nil {
			return nil, err
		}

		for lang, translations := range fileCatalog {
			if _, ok := m.translations[lang]; !ok {
				m.translations[lang] = make(map[string]string)
			}
			for key, value := range translations {
				m.translations[lang][key] = value
			}
		}
	}

	if _, ok := m.translations[m.defaultLang]; !ok {
		return nil, fmt.Errorf("i18n: default language %q is missing", m.defaultLang)
	}

	return m, nil
}

// Translator returns a translator for the requested language, falling back
// to the default language when the requested one is unknown.
func (m *Manager) Translator(lang string) Translator {
	if m == nil {
		return translator{}
	}

	norm := strings.ToLower(strings.TrimSpace(lang))
	if idx := strings.IndexByte(norm, '-'); idx > 0 {
		norm = norm[:idx]
	}
	if norm == "" || m.translations[norm] == nil {
		norm = m.defaultLang
	}

	return translator{
		lang:         norm,
		fallback:     m.defaultLang,
		translations: m.translations,
	}
}

// Languages returns all loaded languages.
func (m *Manager) Languages() []string {
	if m == nil {
		return nil
	}

	languages := make([]string, 0, len(m.translations))
	for lang := range m.translations {
		languages = append(languages, lang)
	}
	return languages
}

type translator struct {
	lang         string
	fallback     string
	translations map[string]map[string]string
}

func (t translator) Lang() string {
	return t.lang
}

// T resolves the key in the translator's language, then the fallback
// language, and finally returns the key itself so a missing entry is
// visible rather than silent.
func (t translator) T(key string) string {
	key = strings.TrimSpace(key)
	if key == "" {
		return ""
	}

	if value := t.lookup(t.lang, key); value != "" {
		return value
	}

	if value := t.lookup(t.fallback, key); value != "" {
		return value
	}

	return key
}

func (t translator) lookup(lang, key string) string {
	if lang == "" || t.translations == nil {
		return ""
	}

	if entries := t.translations[lang]; entries != nil {
		if value, ok := entries[key]; ok {
			return value
		}
	}

	return ""
}

func isYAML(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".yaml" || ext == ".yml"
}

// parseFile reads one YAML catalog shaped as lang -> key -> value.
func parseFile(path string) (map[string]map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("i18n: read %s: %w", path, err)
	}

	var catalog map[string]map[string]string
	if err := yaml.Unmarshal(data, &catalog); err != nil {
		return nil, fmt.Errorf("i18n: parse %s: %w", path, err)
	}

	return catalog, nil
}

func cloneCatalog(src map[string]map[string]string) map[string]map[string]string {
	out := make(map[string]map[string]string, len(src))
	for lang, entries := range src {
		copied := make(map[string]string, len(entries))
		for key, value := range entries {
			copied[key] = value
		}
		out[lang] = copied
	}
	return out
}
