package i18n

import "strings"

// Locale selects the language of labels, notices and the AI response.
type Locale string

const (
	LocaleThai    Locale = "th"
	LocaleEnglish Locale = "en"
)

// DefaultLocale is used when the client does not pick one.
const DefaultLocale = LocaleThai

// ParseLocale normalizes raw input, falling back to DefaultLocale.
func ParseLocale(raw string) Locale {
	switch Locale(strings.ToLower(strings.TrimSpace(raw))) {
	case LocaleEnglish:
		return LocaleEnglish
	case LocaleThai:
		return LocaleThai
	default:
		return DefaultLocale
	}
}

// Valid reports whether l is a supported locale.
func (l Locale) Valid() bool {
	return l == LocaleThai || l == LocaleEnglish
}

// LanguageName is the upper-case language name used in AI instructions.
func (l Locale) LanguageName() string {
	if l == LocaleEnglish {
		return "ENGLISH"
	}
	return "THAI"
}

// Text is a string with one rendering per locale.
type Text struct {
	TH string
	EN string
}

// In returns the rendering for l.
func (t Text) In(l Locale) string {
	if l == LocaleEnglish {
		return t.EN
	}
	return t.TH
}
