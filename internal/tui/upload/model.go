// Package upload содержит модель экрана добавления объявления для TUI
package upload

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hazadus/go-broadcaster/internal/catalog"
	"github.com/hazadus/go-broadcaster/internal/ingest"
	"github.com/hazadus/go-broadcaster/internal/locale"
	"github.com/hazadus/go-broadcaster/internal/theme"
)

// SavedMsg отправляется когда объявление успешно сохранено
type SavedMsg struct{}

// GoBackMsg отправляется при отмене добавления
type GoBackMsg struct{}

// fieldType определяет тип поля формы
type fieldType int

const (
	nameField fieldType = iota
	categoryField
	zhField
	enField
	mnField
	numFields
)

// Model представляет модель экрана добавления объявления
type Model struct {
	catalog     *catalog.Store
	themes      *theme.Manager
	inputs      []textinput.Model
	categoryIdx int
	focusIndex  int
	err         string
	warning     string
	success     string
}

// NewModel создает новую модель формы добавления
func NewModel(cat *catalog.Store, themes *theme.Manager) *Model {
	inputs := make([]textinput.Model, numFields)

	// Поле названия
	inputs[nameField] = textinput.New()
	inputs[nameField].Placeholder = "名称 Название объявления"
	inputs[nameField].CharLimit = 64
	inputs[nameField].Focus()

	// Поле категории — не текстовое, место в слайсе не используется

	// Поля путей к аудиофайлам
	placeholders := map[fieldType]string{
		zhField: "Путь к файлу 中文 (mp3/wav)",
		enField: "Путь к файлу English (mp3/wav)",
		mnField: "Путь к файлу 闽南语 (mp3/wav)",
	}
	for _, f := range []fieldType{zhField, enField, mnField} {
		inputs[f] = textinput.New()
		inputs[f].Placeholder = placeholders[f]
		inputs[f].CharLimit = 256
	}

	return &Model{
		catalog: cat,
		themes:  themes,
		inputs:  inputs,
	}
}

// Init инициализирует модель
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update обрабатывает сообщения и обновляет модель
func (m *Model) Update(msg tea.Msg) (*Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			// Отменяем добавление
			return m, func() tea.Msg {
				return GoBackMsg{}
			}

		case "ctrl+s":
			return m, m.save()

		case "left", "right":
			// Влево/вправо листают категорию, когда она в фокусе
			if m.focusIndex == int(categoryField) {
				delta := 1
				if msg.String() == "left" {
					delta = -1
				}
				n := len(catalog.Categories)
				m.categoryIdx = (m.categoryIdx + delta + n) % n
				return m, nil
			}

		case "tab", "shift+tab", "enter", "up", "down":
			s := msg.String()

			if s == "enter" && m.focusIndex == int(numFields) {
				// Enter на кнопке Save
				return m, m.save()
			}

			if s == "up" || s == "shift+tab" {
				m.focusIndex--
			} else {
				m.focusIndex++
			}

			if m.focusIndex > int(numFields) {
				m.focusIndex = 0
			} else if m.focusIndex < 0 {
				m.focusIndex = int(numFields)
			}

			return m, m.applyFocus()
		}

	case tea.WindowSizeMsg:
		for i := range m.inputs {
			m.inputs[i].Width = msg.Width - 24
		}
		return m, nil
	}

	// Обновляем активное текстовое поле
	if m.focusIndex < len(m.inputs) && m.focusIndex != int(categoryField) {
		var cmd tea.Cmd
		m.inputs[m.focusIndex], cmd = m.inputs[m.focusIndex].Update(msg)
		return m, cmd
	}

	return m, nil
}

// applyFocus расставляет фокус по полям формы
func (m *Model) applyFocus() tea.Cmd {
	pal := m.themes.Palette()
	focusedStyle := lipgloss.NewStyle().Foreground(pal.Highlight)
	blurredStyle := lipgloss.NewStyle().Foreground(pal.Muted)

	cmds := make([]tea.Cmd, 0, len(m.inputs))
	for i := range m.inputs {
		if fieldType(i) == categoryField {
			continue
		}
		if i == m.focusIndex {
			cmds = append(cmds, m.inputs[i].Focus())
			m.inputs[i].PromptStyle = focusedStyle
			m.inputs[i].TextStyle = focusedStyle
		} else {
			m.inputs[i].Blur()
			m.inputs[i].PromptStyle = blurredStyle
			m.inputs[i].TextStyle = blurredStyle
		}
	}
	return tea.Batch(cmds...)
}

// save кодирует аудиофайлы и сохраняет объявление в каталог
func (m *Model) save() tea.Cmd {
	return func() tea.Msg {
		name := strings.TrimSpace(m.inputs[nameField].Value())
		if name == "" {
			m.err = "名称不能为空 Название не может быть пустым"
			m.success = ""
			return nil
		}

		files := map[catalog.Language]string{}
		paths := map[catalog.Language]fieldType{
			catalog.LangZh: zhField,
			catalog.LangEn: enField,
			catalog.LangMn: mnField,
		}
		for lang, f := range paths {
			if path := strings.TrimSpace(m.inputs[f].Value()); path != "" {
				files[lang] = path
			}
		}

		result := ingest.EncodeAll(files)

		// Ошибки отдельных версий не блокируют сохранение:
		// объявление допустимо и вовсе без аудио
		if len(result.Errors) > 0 {
			warnings := make([]string, 0, len(result.Errors))
			for lang, err := range result.Errors {
				warnings = append(warnings, fmt.Sprintf("%s: %v", locale.LangLabel(lang), err))
			}
			m.warning = "⚠️  " + strings.Join(warnings, "; ")
		} else {
			m.warning = ""
		}

		_, err := m.catalog.Add(catalog.Entry{
			Name:     name,
			Category: catalog.Categories[m.categoryIdx],
			Audio:    result.Audio,
		})
		if err != nil {
			m.err = fmt.Sprintf("Ошибка сохранения: %v", err)
			m.success = ""
			return nil
		}

		m.err = ""
		m.success = "✅ 广播已保存 Объявление сохранено!"

		// Возвращаемся к каталогу через небольшую задержку
		return tea.Tick(time.Second, func(time.Time) tea.Msg {
			return SavedMsg{}
		})()
	}
}

// View отображает форму добавления
func (m *Model) View() string {
	pal := m.themes.Palette()
	titleStyle := lipgloss.NewStyle().Foreground(pal.Accent).Bold(true).Margin(1, 0)
	labelStyle := lipgloss.NewStyle().Foreground(pal.Muted).Width(16)
	focusedStyle := lipgloss.NewStyle().Foreground(pal.Highlight)
	blurredStyle := lipgloss.NewStyle().Foreground(pal.Muted)
	errorStyle := lipgloss.NewStyle().Foreground(pal.Error).Margin(1, 0)
	warnStyle := lipgloss.NewStyle().Foreground(pal.Muted).Margin(1, 0)
	successStyle := lipgloss.NewStyle().Foreground(pal.Success).Margin(1, 0)
	helpStyle := lipgloss.NewStyle().Foreground(pal.Muted).Margin(1, 0)

	var b strings.Builder
	b.WriteString(titleStyle.Render("➕ 添加广播 Новое объявление"))
	b.WriteString("\n\n")

	labels := map[fieldType]string{
		nameField: "名称 Название:",
		zhField:   "中文 аудио:",
		enField:   "English аудио:",
		mnField:   "闽南语 аудио:",
	}

	writeField := func(f fieldType) {
		b.WriteString(labelStyle.Render(labels[f]))
		b.WriteString(" ")
		b.WriteString(m.inputs[f].View())
		b.WriteString("\n\n")
	}

	writeField(nameField)

	// Селектор категории
	category := locale.CategoryTitle(catalog.Categories[m.categoryIdx])
	selector := "  " + category
	if m.focusIndex == int(categoryField) {
		selector = focusedStyle.Render("◀ " + category + " ▶")
	} else {
		selector = blurredStyle.Render(selector)
	}
	b.WriteString(labelStyle.Render("分类 Категория:"))
	b.WriteString(" ")
	b.WriteString(selector)
	b.WriteString("\n\n")

	writeField(zhField)
	writeField(enField)
	writeField(mnField)

	// Кнопка сохранения
	saveButton := "[ 保存 Сохранить ]"
	if m.focusIndex == int(numFields) {
		saveButton = focusedStyle.Render(saveButton)
	} else {
		saveButton = blurredStyle.Render(saveButton)
	}
	b.WriteString(saveButton)
	b.WriteString("\n")

	if m.err != "" {
		b.WriteString(errorStyle.Render(m.err))
		b.WriteString("\n")
	}
	if m.warning != "" {
		b.WriteString(warnStyle.Render(m.warning))
		b.WriteString("\n")
	}
	if m.success != "" {
		b.WriteString(successStyle.Render(m.success))
		b.WriteString("\n")
	}

	b.WriteString(helpStyle.Render("Tab/Enter: следующее поле • ◀/▶: категория • Ctrl+S: сохранить • Esc: отмена"))
	return b.String()
}
