// Package textutil implements the text case conversion commands.
package textutil

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Case is a text case conversion.
type Case string

const (
	CaseUpper Case = "uppercase"
	CaseLower Case = "lowercase"
	CaseTitle Case = "titlecase"
)

// Cases lists the conversions in display order.
func Cases() []Case {
	return []Case{CaseUpper, CaseLower, CaseTitle}
}

// Convert applies c to text.
func Convert(c Case, text string) (string, error) {
	switch c {
	case CaseUpper:
		return strings.ToUpper(text), nil
	case CaseLower:
		return strings.ToLower(text), nil
	case CaseTitle:
		return cases.Title(language.Und).String(text), nil
	default:
		return "", fmt.Errorf("unknown case %q", c)
	}
}

// CopyFunc writes text to the system clipboard.
type CopyFunc func(text string) error

// SystemClipboard uses xclip, xsel or wl-copy on Linux.
var SystemClipboard CopyFunc = clipboard.WriteAll
