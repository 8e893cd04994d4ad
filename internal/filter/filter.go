// Package filter выводит видимое подмножество каталога из состояния фильтров.
package filter

import (
	"strings"

	"github.com/samber/lo"

	"github.com/hazadus/go-broadcaster/internal/catalog"
)

// State описывает активные фильтры списка объявлений.
// Состояние одно на приложение и меняется только действиями пользователя.
type State struct {
	Category catalog.Category // CategoryAll — без фильтра по категории
	Search   string           // пустая строка — без поиска
	Language catalog.Language // LangAll — без фильтра по наличию аудио
}

// NewState возвращает состояние фильтров по умолчанию: все видимо.
func NewState() *State {
	return &State{
		Category: catalog.CategoryAll,
		Language: catalog.LangAll,
	}
}

// CategoryOnly возвращает состояние только с фильтром категории.
// Навигация prev/next ходит по соседям внутри категории и не учитывает
// поиск и фильтр по языку.
func (st State) CategoryOnly() State {
	return State{Category: st.Category, Language: catalog.LangAll}
}

// Visible возвращает видимую последовательность объявлений.
// Функция чистая: порядок каталога сохраняется, фильтры соединяются по И.
func Visible(entries []catalog.Entry, st State) []catalog.Entry {
	result := entries

	if st.Category != catalog.CategoryAll {
		result = lo.Filter(result, func(e catalog.Entry, _ int) bool {
			return e.Category == st.Category
		})
	}

	if st.Search != "" {
		needle := strings.ToLower(st.Search)
		result = lo.Filter(result, func(e catalog.Entry, _ int) bool {
			return strings.Contains(strings.ToLower(e.Name), needle)
		})
	}

	if st.Language != catalog.LangAll {
		result = lo.Filter(result, func(e catalog.Entry, _ int) bool {
			_, ok := e.AudioFor(st.Language)
			return ok
		})
	}

	return result
}
