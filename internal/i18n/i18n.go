// Package i18n holds the embedded message catalogs for user-facing error and
// status messages, selected per request from the Accept-Language header.
package i18n

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"golang.org/x/text/language"
)

//go:embed locales/*.json
var localeFS embed.FS

const fallbackLocale = "en"

type Bundle struct {
	matcher  language.Matcher
	locales  []string
	messages map[string]map[string]string
}

func NewBundle() (*Bundle, error) {
	entries, err := fs.ReadDir(localeFS, "locales")
	if err != nil {
		return nil, fmt.Errorf("failed to read locale catalogs: %w", err)
	}

	bundle := &Bundle{
		messages: make(map[string]map[string]string),
	}

	// The fallback locale must be first so the matcher defaults to it.
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		name := strings.TrimSuffix(entry.Name(), ".json")
		if name == fallbackLocale {
			names = append([]string{name}, names...)
		} else {
			names = append(names, name)
		}
	}

	tags := make([]language.Tag, 0, len(names))
	for _, name := range names {
		tag, err := language.Parse(name)
		if err != nil {
			return nil, fmt.Errorf("invalid locale name %q: %w", name, err)
		}

		data, err := localeFS.ReadFile(path.Join("locales", name+".json"))
		if err != nil {
			return nil, err
		}

		catalog := make(map[string]string)
		if err := json.Unmarshal(data, &catalog); err != nil {
			return nil, fmt.Errorf("failed to parse locale catalog %q: %w", name, err)
		}

		bundle.messages[name] = catalog
		bundle.locales = append(bundle.locales, name)
		tags = append(tags, tag)
	}

	bundle.matcher = language.NewMatcher(tags)
	return bundle, nil
}

// Locale picks the best supported locale for an Accept-Language header.
func (b *Bundle) Locale(acceptLanguage string) string {
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return fallbackLocale
	}

	_, index, _ := b.matcher.Match(tags...)
	return b.locales[index]
}

// T resolves a message key for a locale, falling back to the default locale
// and finally to the key itself.
func (b *Bundle) T(locale, key string) string {
	if catalog, ok := b.messages[locale]; ok {
		if msg, ok := catalog[key]; ok {
			return msg
		}
	}
	if msg, ok := b.messages[fallbackLocale][key]; ok {
		return msg
	}
	return key
}
