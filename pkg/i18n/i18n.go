// Package i18n resolves the language constants used in CRM notes and the admin field.
package i18n

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Translator looks up language constants for one language.
type Translator struct {
	tag     language.Tag
	printer *message.Printer
	keys    map[string]struct{}
}

var supported = []language.Tag{language.English, language.Russian}

// New builds a translator for the requested language, falling back to English.
func New(lang string) (*Translator, error) {
	tag := language.English
	if strings.TrimSpace(lang) != "" {
		parsed, err := language.Parse(lang)
		if err != nil {
			return nil, fmt.Errorf("parse language %q: %w", lang, err)
		}
		tag = parsed
	}
	_, idx, _ := language.NewMatcher(supported).Match(tag)
	tag = supported[idx]

	builder := catalog.NewBuilder(catalog.Fallback(language.English))
	entries := dictionaries[tag]
	keys := make(map[string]struct{}, len(entries))
	for key, msg := range entries {
		if err := builder.SetString(tag, key, msg); err != nil {
			return nil, fmt.Errorf("register %s: %w", key, err)
		}
		keys[key] = struct{}{}
	}

	return &Translator{
		tag:     tag,
		printer: message.NewPrinter(tag, message.Catalog(builder)),
		keys:    keys,
	}, nil
}

// MustNew is New for static languages known at compile time.
func MustNew(lang string) *Translator {
	t, err := New(lang)
	if err != nil {
		panic(err)
	}
	return t
}

// Language reports the resolved language tag.
func (t *Translator) Language() string {
	return t.tag.String()
}

// Has reports whether a constant exists. Keys are case-insensitive.
func (t *Translator) Has(key string) bool {
	if t == nil {
		return false
	}
	_, ok := t.keys[normalize(key)]
	return ok
}

// T translates key, returning key unchanged when no translation exists.
func (t *Translator) T(key string) string {
	if !t.Has(key) {
		return key
	}
	return t.printer.Sprintf(normalize(key))
}

// Format translates key and fills its placeholders with args. Args reach the
// printer as plain strings so ids and quantities are not digit-grouped.
// Unknown keys are used as the pattern themselves.
func (t *Translator) Format(key string, args ...any) string {
	plain := make([]any, len(args))
	for i, arg := range args {
		plain[i] = fmt.Sprint(arg)
	}
	if !t.Has(key) {
		return fmt.Sprintf(key, plain...)
	}
	return t.printer.Sprintf(normalize(key), plain...)
}

func normalize(key string) string {
	return strings.ToUpper(strings.TrimSpace(key))
}
