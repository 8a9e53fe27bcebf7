// Package i18n translates export labels using golang.org/x/text message catalogs.
//
// Message ids are the English labels themselves, mirroring gettext: a label
// with no entry for the selected language is returned unchanged.
package i18n

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

var supported = []language.Tag{language.English, language.German}

var matcher = language.NewMatcher(supported)

var builder = newBuilder(german)

// newBuilder registers every label in both languages. Entries are printf
// formats, so a literal % is stored as %%.
func newBuilder(translations map[string]string) *catalog.Builder {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	for msg, tr := range translations {
		if err := b.SetString(language.English, msg, literal(msg)); err != nil {
			panic(err)
		}
		if err := b.SetString(language.German, msg, literal(tr)); err != nil {
			panic(err)
		}
	}
	return b
}

func literal(s string) string {
	return strings.ReplaceAll(s, "%", "%%")
}

// Catalog translates labels for one locale.
type Catalog struct {
	tag     language.Tag
	printer *message.Printer
	known   map[string]string
}

// New returns a Catalog for a WordPress-style locale such as "de_DE" or "en".
// Unsupported locales fall back to English.
func New(locale string) *Catalog {
	return newCatalog(locale, german, builder)
}

func newCatalog(locale string, known map[string]string, b *catalog.Builder) *Catalog {
	tag := language.English
	if t, err := language.Parse(locale); err == nil {
		if _, idx, conf := matcher.Match(t); conf != language.No {
			tag = supported[idx]
		}
	}
	return &Catalog{tag: tag, printer: message.NewPrinter(tag, message.Catalog(b)), known: known}
}

// T returns the translation of msg. Labels without an entry are returned
// as is.
func (c *Catalog) T(msg string) string {
	if _, ok := c.known[msg]; !ok {
		return msg
	}
	return c.printer.Sprintf(msg)
}

// Language reports the tag the catalog resolved to.
func (c *Catalog) Language() language.Tag {
	return c.tag
}

// Supported lists the languages with a catalog.
func Supported() []language.Tag {
	out := make([]language.Tag, len(supported))
	copy(out, supported)
	return out
}
