// Package content holds the bilingual post model, the publication predicate
// and the slug resolver used by the public list and detail pages.
package content

import (
	"fmt"
	"strings"
)

// Lang is a supported display language.
type Lang string

const (
	English   Lang = "en"
	Ukrainian Lang = "uk"
)

// Languages lists every supported language in fallback order.
var Languages = []Lang{English, Ukrainian}

// ParseLang returns the Lang for code or an error when it is not supported.
func ParseLang(code string) (Lang, error) {
	l := Lang(strings.ToLower(strings.TrimSpace(code)))
	if l.Valid() {
		return l, nil
	}
	return "", fmt.Errorf("unsupported language %q", code)
}

// Valid reports whether l is one of Languages.
func (l Lang) Valid() bool {
	for _, s := range Languages {
		if s == l {
			return true
		}
	}
	return false
}

func (l Lang) String() string { return string(l) }

// Name is the language's own name, used by the language switcher.
func (l Lang) Name() string {
	switch l {
	case English:
		return "English"
	case Ukrainian:
		return "Українська"
	}
	return string(l)
}
