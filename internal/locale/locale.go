// Package locale содержит фиксированные таблицы строк интерфейса:
// названия категорий на китайском и английском и метки языков.
// Это не движок локализации — только две таблицы.
package locale

import "github.com/hazadus/go-broadcaster/internal/catalog"

// categoryNames — названия категорий в двух языках отображения.
var categoryNames = map[catalog.Category]struct{ Zh, En string }{
	catalog.CategoryAll:       {"全部广播", "All Broadcasts"},
	catalog.CategoryBoarding:  {"登机广播", "Boarding"},
	catalog.CategoryOversized: {"三超行李", "Oversized Baggage"},
	catalog.CategoryDelay:     {"延误通知", "Delay Notice"},
	catalog.CategorySecurity:  {"安检提醒", "Security Check"},
	catalog.CategoryGeneral:   {"通用广播", "General"},
}

// langLabels — метки языков аудиоверсий.
var langLabels = map[catalog.Language]string{
	catalog.LangZh: "🇨🇳 中文",
	catalog.LangEn: "🇬🇧 English",
	catalog.LangMn: "🏠 闽南语",
}

// NoAudioLabel показывается у объявлений без единой аудиоверсии.
const NoAudioLabel = "无音频 No Audio"

// CategoryZh возвращает китайское название категории.
// Для неизвестной категории возвращается ее код.
func CategoryZh(c catalog.Category) string {
	if name, ok := categoryNames[c]; ok {
		return name.Zh
	}
	return string(c)
}

// CategoryEn возвращает английское название категории.
func CategoryEn(c catalog.Category) string {
	if name, ok := categoryNames[c]; ok {
		return name.En
	}
	return string(c)
}

// CategoryTitle возвращает двуязычный заголовок категории.
func CategoryTitle(c catalog.Category) string {
	if name, ok := categoryNames[c]; ok {
		return name.Zh + " " + name.En
	}
	return string(c)
}

// LangLabel возвращает метку языка с флагом.
func LangLabel(l catalog.Language) string {
	if label, ok := langLabels[l]; ok {
		return label
	}
	return string(l)
}
