package language

import (
	"github.com/abadojack/whatlanggo"
)

// Detect определяет язык текста. При ненадежном результате возвращается
// locale клиента, а если он пуст — fallback. Результат используется только
// как метаданные для отчетов администратора.
func Detect(text, locale, fallback string) string {
	info := whatlanggo.Detect(text)
	if info.IsReliable() {
		return whatlanggo.LangToString(info.Lang)
	}

	if locale != "" {
		return locale
	}
	return fallback
}
