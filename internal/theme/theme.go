// Package theme управляет светлой и темной темами интерфейса.
// Выбор пользователя сохраняется в хранилище; без сохраненного
// выбора тема определяется по фону терминала.
package theme

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/hazadus/go-broadcaster/internal/storage"
)

// storageKey — ключ, под которым сохраняется выбранная тема.
const storageKey = "theme"

// Mode определяет вариант темы.
type Mode string

// Допустимые темы.
const (
	Light Mode = "light"
	Dark  Mode = "dark"
)

// Palette содержит цвета выбранной темы.
type Palette struct {
	Accent    lipgloss.Color // заголовки и активные элементы
	Text      lipgloss.Color // основной текст
	Muted     lipgloss.Color // второстепенный текст и подсказки
	Highlight lipgloss.Color // выделение активной карточки и языка
	Border    lipgloss.Color
	Error     lipgloss.Color
	Success   lipgloss.Color
}

var palettes = map[Mode]Palette{
	Light: {
		Accent:    lipgloss.Color("25"),
		Text:      lipgloss.Color("235"),
		Muted:     lipgloss.Color("245"),
		Highlight: lipgloss.Color("170"),
		Border:    lipgloss.Color("250"),
		Error:     lipgloss.Color("160"),
		Success:   lipgloss.Color("28"),
	},
	Dark: {
		Accent:    lipgloss.Color("39"),
		Text:      lipgloss.Color("252"),
		Muted:     lipgloss.Color("241"),
		Highlight: lipgloss.Color("170"),
		Border:    lipgloss.Color("238"),
		Error:     lipgloss.Color("196"),
		Success:   lipgloss.Color("46"),
	},
}

// Manager хранит текущую тему и отвечает за ее сохранение.
type Manager struct {
	storage storage.Store
	mode    Mode
}

// NewManager загружает сохраненную тему. Если темы в хранилище нет,
// она определяется по фону терминала.
func NewManager(st storage.Store) *Manager {
	mode := Light
	if lipgloss.HasDarkBackground() {
		mode = Dark
	}

	if st != nil {
		if saved, ok, err := st.Get(storageKey); err == nil && ok {
			if m := Mode(saved); m == Light || m == Dark {
				mode = m
			}
		}
	}
	return &Manager{storage: st, mode: mode}
}

// Mode возвращает текущую тему.
func (m *Manager) Mode() Mode {
	return m.mode
}

// Palette возвращает цвета текущей темы.
func (m *Manager) Palette() Palette {
	return palettes[m.mode]
}

// Toggle переключает тему и сохраняет выбор.
func (m *Manager) Toggle() Mode {
	if m.mode == Light {
		m.mode = Dark
	} else {
		m.mode = Light
	}
	if m.storage != nil {
		_ = m.storage.Set(storageKey, string(m.mode))
	}
	return m.mode
}
