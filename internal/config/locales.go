package config

const (
	LangEN = "en"
	LangZH = "zh"
)

// SupportedLanguages lists the locales with a bundled message file.
var SupportedLanguages = []string{LangEN, LangZH}

func IsSupportedLanguage(lang string) bool {
	for _, l := range SupportedLanguages {
		if l == lang {
			return true
		}
	}
	return false
}
