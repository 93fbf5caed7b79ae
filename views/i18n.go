package views

import "github.com/eringen/echofield/content"

var labels = map[content.Lang]map[string]string{
	content.English: {
		"posts":      "Posts",
		"all":        "All",
		"newer":      "Newer",
		"older":      "Older",
		"page":       "Page",
		"of":         "of",
		"not_found":  "Page not found",
		"go_home":    "Back to posts",
		"no_posts":   "Nothing published yet.",
		"server_err": "Something went wrong",
	},
	content.Ukrainian: {
		"posts":      "Дописи",
		"all":        "Усі",
		"newer":      "Новіші",
		"older":      "Старіші",
		"page":       "Сторінка",
		"of":         "з",
		"not_found":  "Сторінку не знайдено",
		"go_home":    "До дописів",
		"no_posts":   "Ще нічого не опубліковано.",
		"server_err": "Щось пішло не так",
	},
}

// T returns the interface label key in lang, falling back to English.
func T(lang content.Lang, key string) string {
	if v, ok := labels[lang][key]; ok {
		return v
	}
	return labels[content.English][key]
}
