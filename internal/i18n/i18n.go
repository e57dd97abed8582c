// Package i18n renders warden message keys into participant-facing text.
package i18n

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Renderer resolves a participant locale to one of the bundled catalogs.
type Renderer struct {
	catalog   *catalog.Builder
	supported []language.Tag
	matcher   language.Matcher
	fallback  language.Tag
}

// NewRenderer builds a renderer over the bundled catalogs. defaultLocale is
// used for participants without a locale or with an unparseable one.
func NewRenderer(defaultLocale string) *Renderer {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	for tag, messages := range translations {
		for key, text := range messages {
			// Keys and texts are static; SetString only fails on malformed input.
			_ = b.SetString(tag, key, text)
		}
	}

	supported := []language.Tag{language.English, language.Spanish}
	r := &Renderer{
		catalog:   b,
		supported: supported,
		matcher:   language.NewMatcher(supported),
		fallback:  language.English,
	}
	r.fallback = r.resolve(defaultLocale)
	return r
}

// Render formats key for the given locale. Unknown keys render as the key itself.
func (r *Renderer) Render(locale, key string, args ...any) string {
	p := message.NewPrinter(r.resolve(locale), message.Catalog(r.catalog))
	return p.Sprintf(key, args...)
}

func (r *Renderer) resolve(locale string) language.Tag {
	if locale == "" {
		return r.fallback
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return r.fallback
	}
	_, index, confidence := r.matcher.Match(tag)
	if confidence == language.No {
		return r.fallback
	}
	return r.supported[index]
}
