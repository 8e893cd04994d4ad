// Package catalog владеет списком объявлений аэропорта и их сохранением.
package catalog

import "time"

// Category определяет тип объявления из фиксированного набора.
type Category string

// Допустимые категории объявлений.
const (
	CategoryBoarding  Category = "boarding"  // Посадка
	CategoryOversized Category = "oversized" // Негабаритный багаж
	CategoryDelay     Category = "delay"     // Задержка рейса
	CategorySecurity  Category = "security"  // Досмотр
	CategoryGeneral   Category = "general"   // Общие объявления

	// CategoryAll используется только в фильтрах и означает "без фильтра".
	CategoryAll Category = "all"
)

// Categories перечисляет допустимые категории в порядке отображения.
var Categories = []Category{
	CategoryBoarding,
	CategoryOversized,
	CategoryDelay,
	CategorySecurity,
	CategoryGeneral,
}

// Valid сообщает, входит ли категория в фиксированный набор.
// CategoryAll допустима только в фильтрах и здесь не считается валидной.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Language определяет язык аудиоверсии объявления.
type Language string

// Допустимые языки аудиоверсий.
const (
	LangZh Language = "zh" // Китайский
	LangEn Language = "en" // Английский
	LangMn Language = "mn" // Миньнаньский диалект

	// LangAll используется только в фильтрах и означает "без фильтра".
	LangAll Language = "all"
)

// Languages задает приоритетный порядок языков при воспроизведении.
var Languages = []Language{LangZh, LangEn, LangMn}

// Valid сообщает, входит ли язык в фиксированный набор.
func (l Language) Valid() bool {
	for _, known := range Languages {
		if l == known {
			return true
		}
	}
	return false
}

// Entry представляет одно именованное объявление.
type Entry struct {
	ID        int64               `json:"id"`
	Name      string              `json:"name"`
	Category  Category            `json:"category"`
	CreatedAt time.Time           `json:"createdAt"`
	// Audio отображает язык в самодостаточную ссылку data URL.
	// Отсутствие ключа означает отсутствие записи для языка.
	Audio map[Language]string `json:"audio,omitempty"`
}

// AudioFor возвращает ссылку на аудио для языка, если она есть.
// Пустая ссылка считается отсутствующей.
func (e *Entry) AudioFor(lang Language) (string, bool) {
	ref, ok := e.Audio[lang]
	if !ok || ref == "" {
		return "", false
	}
	return ref, true
}

// AvailableLanguages возвращает языки с имеющимся аудио в приоритетном порядке.
func (e *Entry) AvailableLanguages() []Language {
	langs := make([]Language, 0, len(Languages))
	for _, lang := range Languages {
		if _, ok := e.AudioFor(lang); ok {
			langs = append(langs, lang)
		}
	}
	return langs
}

// FirstLanguage возвращает первый язык с аудио в приоритетном порядке.
func (e *Entry) FirstLanguage() (Language, bool) {
	for _, lang := range Languages {
		if _, ok := e.AudioFor(lang); ok {
			return lang, true
		}
	}
	return "", false
}

// NextLanguage возвращает следующий язык с аудио строго после указанного.
// Если after не входит в фиксированный набор, поиск идет с начала списка.
func (e *Entry) NextLanguage(after Language) (Language, bool) {
	start := 0
	for i, lang := range Languages {
		if lang == after {
			start = i + 1
			break
		}
	}
	for _, lang := range Languages[start:] {
		if _, ok := e.AudioFor(lang); ok {
			return lang, true
		}
	}
	return "", false
}

// Playable сообщает, есть ли у объявления хотя бы одна аудиоверсия.
func (e *Entry) Playable() bool {
	_, ok := e.FirstLanguage()
	return ok
}

// normalize убирает из карты аудио пустые ссылки и неизвестные языки.
// Применяется при загрузке из хранилища, чтобы сохранить инвариант
// "ссылка либо есть, либо ключа нет".
func (e *Entry) normalize() {
	for lang, ref := range e.Audio {
		if ref == "" || !lang.Valid() {
			delete(e.Audio, lang)
		}
	}
}
