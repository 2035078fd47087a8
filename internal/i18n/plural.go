package i18n

import (
	"strings"

	"golang.org/x/text/feature/plural"
	"golang.org/x/text/language"
)

// pluralCategory returns the CLDR plural category name for count in the
// given locale. Unknown locales fall through to a small bundled rule table,
// and finally to one/other.
func pluralCategory(locale string, count int) string {
	tag, err := language.Parse(locale)
	if err == nil {
		switch plural.Cardinal.MatchPlural(tag, count, 0, 0, 0, 0) {
		case plural.Zero:
			return "zero"
		case plural.One:
			return "one"
		case plural.Two:
			return "two"
		case plural.Few:
			return "few"
		case plural.Many:
			return "many"
		default:
			return "other"
		}
	}
	return fallbackCategory(locale, count)
}

// fallbackCategory covers the locales the standard tables cannot parse.
func fallbackCategory(locale string, count int) string {
	lang := strings.ToLower(locale)
	if i := strings.IndexAny(lang, "-_"); i > 0 {
		lang = lang[:i]
	}

	switch lang {
	case "ja", "ko", "zh", "th", "vi", "id", "tr":
		return "other"
	case "fr", "pt":
		if count == 0 || count == 1 {
			return "one"
		}
		return "other"
	case "ru", "uk", "pl":
		mod10, mod100 := count%10, count%100
		switch {
		case mod10 == 1 && mod100 != 11:
			return "one"
		case mod10 >= 2 && mod10 <= 4 && (mod100 < 12 || mod100 > 14):
			return "few"
		default:
			return "many"
		}
	default:
		if count == 1 {
			return "one"
		}
		return "other"
	}
}
