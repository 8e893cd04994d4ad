// Package browser содержит модель экрана каталога объявлений для TUI:
// карточки с фильтрами по категории, поиску и языку.
package browser

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hazadus/go-broadcaster/internal/catalog"
	"github.com/hazadus/go-broadcaster/internal/filter"
	"github.com/hazadus/go-broadcaster/internal/locale"
	"github.com/hazadus/go-broadcaster/internal/sequencer"
	"github.com/hazadus/go-broadcaster/internal/theme"
	"github.com/hazadus/go-broadcaster/internal/utils"
)

// EntrySelectedMsg отправляется при выборе объявления для воспроизведения.
// Язык пуст, если пользователь не выбрал конкретную версию.
type EntrySelectedMsg struct {
	ID   int64
	Lang catalog.Language
}

// EntryDeletedMsg отправляется после подтверждения удаления.
type EntryDeletedMsg struct {
	ID int64
}

// OpenUploadMsg отправляется для перехода к форме добавления.
type OpenUploadMsg struct{}

// PlayPauseMsg отправляется для переключения паузы.
type PlayPauseMsg struct{}

// NextMsg отправляется для перехода к следующему объявлению.
type NextMsg struct{}

// PrevMsg отправляется для перехода к предыдущему объявлению.
type PrevMsg struct{}

// SeekMsg отправляется для перемотки на указанное число секунд.
type SeekMsg struct {
	Seconds int
}

// VolumeMsg отправляется для изменения громкости на дельту.
type VolumeMsg struct {
	Delta float64
}

// MuteMsg отправляется для выключения и включения звука.
type MuteMsg struct{}

// cardWidth — ширина карточки в режиме сетки.
const cardWidth = 38

// Model представляет модель экрана каталога.
type Model struct {
	catalog *catalog.Store
	filters *filter.State
	seq     *sequencer.Sequencer
	themes  *theme.Manager

	search    textinput.Model
	cursor    int
	listView  bool
	confirmID int64 // ID объявления, ожидающего подтверждения удаления; 0 — нет
	width     int
	height    int
}

// NewModel создает новую модель экрана каталога.
func NewModel(cat *catalog.Store, filters *filter.State, seq *sequencer.Sequencer, themes *theme.Manager) *Model {
	search := textinput.New()
	search.Placeholder = "搜索广播 Поиск..."
	search.CharLimit = 64
	search.Width = 30

	return &Model{
		catalog: cat,
		filters: filters,
		seq:     seq,
		themes:  themes,
		search:  search,
	}
}

// Init инициализирует модель.
func (m *Model) Init() tea.Cmd {
	return nil
}

// RefreshData прижимает курсор к актуальному списку после внешних изменений.
func (m *Model) RefreshData() {
	m.clampCursor()
}

// SearchFocused сообщает, находится ли фокус в строке поиска.
func (m *Model) SearchFocused() bool {
	return m.search.Focused()
}

// Update обрабатывает сообщения и обновляет модель.
func (m *Model) Update(msg tea.Msg) (*Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if m.search.Focused() {
			return m.updateSearch(msg)
		}
		if m.confirmID != 0 {
			return m.updateConfirm(msg)
		}
		return m.updateKeys(msg)
	}

	return m, nil
}

// updateSearch обрабатывает ввод в строке поиска.
func (m *Model) updateSearch(msg tea.KeyMsg) (*Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "enter":
		m.search.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.filters.Search = m.search.Value()
	m.cursor = 0
	return m, cmd
}

// updateConfirm обрабатывает подтверждение удаления.
func (m *Model) updateConfirm(msg tea.KeyMsg) (*Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		id := m.confirmID
		m.confirmID = 0
		return m, func() tea.Msg {
			return EntryDeletedMsg{ID: id}
		}
	case "n", "N", "esc":
		m.confirmID = 0
	}
	return m, nil
}

// updateKeys обрабатывает клавиши каталога и транспорта.
func (m *Model) updateKeys(msg tea.KeyMsg) (*Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit

	case "/":
		m.search.Focus()
		return m, textinput.Blink

	case "up", "k":
		m.moveCursor(-m.columns())
	case "down", "j":
		m.moveCursor(m.columns())
	case "left":
		m.moveCursor(-1)
	case "right":
		m.moveCursor(1)

	case "enter":
		if entry, ok := m.currentEntry(); ok {
			return m, func() tea.Msg {
				return EntrySelectedMsg{ID: entry.ID}
			}
		}

	case "1", "2", "3":
		index := int(msg.String()[0] - '1')
		if entry, ok := m.currentEntry(); ok {
			lang := catalog.Languages[index]
			if _, ok := entry.AudioFor(lang); ok {
				return m, func() tea.Msg {
					return EntrySelectedMsg{ID: entry.ID, Lang: lang}
				}
			}
		}

	case "d":
		if entry, ok := m.currentEntry(); ok {
			m.confirmID = entry.ID
		}

	case "c":
		m.cycleCategory(1)
	case "C":
		m.cycleCategory(-1)
	case "l":
		m.cycleLanguageFilter()
	case "v":
		m.listView = !m.listView
		m.cursor = 0
	case "t":
		m.themes.Toggle()
	case "u":
		return m, func() tea.Msg {
			return OpenUploadMsg{}
		}

	case " ":
		return m, func() tea.Msg { return PlayPauseMsg{} }
	case "n":
		return m, func() tea.Msg { return NextMsg{} }
	case "p":
		return m, func() tea.Msg { return PrevMsg{} }
	case "[":
		return m, func() tea.Msg { return SeekMsg{Seconds: -5} }
	case "]":
		return m, func() tea.Msg { return SeekMsg{Seconds: 5} }
	case "+", "=":
		return m, func() tea.Msg { return VolumeMsg{Delta: 0.1} }
	case "-":
		return m, func() tea.Msg { return VolumeMsg{Delta: -0.1} }
	case "m":
		return m, func() tea.Msg { return MuteMsg{} }
	}

	return m, nil
}

// View отображает экран каталога.
func (m *Model) View() string {
	pal := m.themes.Palette()

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(pal.Accent).MarginBottom(1)
	mutedStyle := lipgloss.NewStyle().Foreground(pal.Muted)

	var b strings.Builder
	b.WriteString(titleStyle.Render("✈️  机场广播管理系统 Airport Broadcast System"))
	b.WriteString("\n")
	b.WriteString(m.categoryLine())
	b.WriteString("\n")
	b.WriteString(m.filterLine())
	b.WriteString("\n\n")

	visible := m.visible()
	if len(visible) == 0 {
		b.WriteString(mutedStyle.Render("没有找到广播 No broadcasts found"))
		b.WriteString("\n")
	} else if m.listView {
		b.WriteString(m.renderList(visible))
	} else {
		b.WriteString(m.renderGrid(visible))
	}

	if m.confirmID != 0 {
		confirmStyle := lipgloss.NewStyle().Bold(true).Foreground(pal.Error).MarginTop(1)
		b.WriteString(confirmStyle.Render("确定要删除此广播吗？ Удалить объявление? (y/n)"))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(mutedStyle.Render(
		"Enter: воспроизвести • 1/2/3: язык • u: добавить • d: удалить • c/C: категория\n" +
			"l: фильтр языка • /: поиск • v: вид • t: тема • q: выход"))

	return b.String()
}

// categoryLine отображает навигацию по категориям со счетчиками.
func (m *Model) categoryLine() string {
	pal := m.themes.Palette()
	activeStyle := lipgloss.NewStyle().Bold(true).Foreground(pal.Highlight)
	itemStyle := lipgloss.NewStyle().Foreground(pal.Text)

	counts := m.catalog.CountByCategory()
	parts := make([]string, 0, len(catalog.Categories)+1)

	render := func(c catalog.Category, count int) {
		label := fmt.Sprintf("%s (%d)", locale.CategoryZh(c), count)
		if m.filters.Category == c {
			parts = append(parts, activeStyle.Render("["+label+"]"))
		} else {
			parts = append(parts, itemStyle.Render(label))
		}
	}

	render(catalog.CategoryAll, m.catalog.Len())
	for _, c := range catalog.Categories {
		render(c, counts[c])
	}
	return strings.Join(parts, "  ")
}

// filterLine отображает строку поиска и фильтр по языку.
func (m *Model) filterLine() string {
	pal := m.themes.Palette()
	activeStyle := lipgloss.NewStyle().Bold(true).Foreground(pal.Highlight)
	mutedStyle := lipgloss.NewStyle().Foreground(pal.Muted)

	langParts := make([]string, 0, len(catalog.Languages)+1)
	renderLang := func(l catalog.Language, label string) {
		if m.filters.Language == l {
			langParts = append(langParts, activeStyle.Render("["+label+"]"))
		} else {
			langParts = append(langParts, mutedStyle.Render(label))
		}
	}
	renderLang(catalog.LangAll, "全部")
	for _, l := range catalog.Languages {
		renderLang(l, locale.LangLabel(l))
	}

	return "🔍 " + m.search.View() + "   " + strings.Join(langParts, " ")
}

// renderGrid отображает карточки в две колонки.
func (m *Model) renderGrid(visible []catalog.Entry) string {
	var b strings.Builder
	for row := 0; row*2 < len(visible); row++ {
		left := m.renderCard(visible[row*2], row*2 == m.cursor)
		if row*2+1 < len(visible) {
			right := m.renderCard(visible[row*2+1], row*2+1 == m.cursor)
			b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, left, " ", right))
		} else {
			b.WriteString(left)
		}
		b.WriteString("\n")
	}
	return b.String()
}

// renderCard отображает одну карточку объявления.
func (m *Model) renderCard(entry catalog.Entry, selected bool) string {
	pal := m.themes.Palette()
	state := m.seq.State()
	isActive := state.ActiveEntryID == entry.ID

	borderColor := pal.Border
	if selected {
		borderColor = pal.Highlight
	} else if isActive {
		borderColor = pal.Accent
	}

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(borderColor).
		Padding(0, 1).
		Width(cardWidth)

	nameStyle := lipgloss.NewStyle().Bold(true).Foreground(pal.Text)
	mutedStyle := lipgloss.NewStyle().Foreground(pal.Muted)

	lines := []string{
		nameStyle.Render(utils.TruncateString(entry.Name, cardWidth-4)),
		mutedStyle.Render(fmt.Sprintf("%s • 创建于 %s",
			locale.CategoryZh(entry.Category),
			entry.CreatedAt.Format("2006-01-02"))),
		m.renderLangTags(entry, isActive, state.ActiveLanguage),
	}
	return cardStyle.Render(strings.Join(lines, "\n"))
}

// renderList отображает объявления построчно.
func (m *Model) renderList(visible []catalog.Entry) string {
	pal := m.themes.Palette()
	itemStyle := lipgloss.NewStyle().PaddingLeft(4).Foreground(pal.Text)
	selectedStyle := lipgloss.NewStyle().PaddingLeft(2).Foreground(pal.Highlight)
	state := m.seq.State()

	var b strings.Builder
	for i, entry := range visible {
		line := fmt.Sprintf("%-30s %-10s %s  %s",
			utils.TruncateString(entry.Name, 30),
			locale.CategoryZh(entry.Category),
			entry.CreatedAt.Format("2006-01-02"),
			m.renderLangTags(entry, state.ActiveEntryID == entry.ID, state.ActiveLanguage))

		if i == m.cursor {
			b.WriteString(selectedStyle.Render("> " + line))
		} else {
			b.WriteString(itemStyle.Render(line))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// renderLangTags отображает метки доступных языков. Активная пара
// (объявление, язык) выделяется — всегда ровно одна на весь каталог.
func (m *Model) renderLangTags(entry catalog.Entry, isActive bool, activeLang catalog.Language) string {
	pal := m.themes.Palette()
	activeStyle := lipgloss.NewStyle().Bold(true).Foreground(pal.Highlight)
	tagStyle := lipgloss.NewStyle().Foreground(pal.Muted)

	available := entry.AvailableLanguages()
	if len(available) == 0 {
		return tagStyle.Render(locale.NoAudioLabel)
	}

	tags := make([]string, 0, len(available))
	for _, lang := range available {
		label := locale.LangLabel(lang)
		if isActive && lang == activeLang {
			tags = append(tags, activeStyle.Render("["+label+"]"))
		} else {
			tags = append(tags, tagStyle.Render(label))
		}
	}
	return strings.Join(tags, " ")
}

// visible возвращает видимый список с учетом всех фильтров.
func (m *Model) visible() []catalog.Entry {
	return filter.Visible(m.catalog.ListAll(), *m.filters)
}

// currentEntry возвращает объявление под курсором.
func (m *Model) currentEntry() (catalog.Entry, bool) {
	visible := m.visible()
	if len(visible) == 0 || m.cursor < 0 || m.cursor >= len(visible) {
		return catalog.Entry{}, false
	}
	return visible[m.cursor], true
}

// columns возвращает число колонок текущего режима отображения.
func (m *Model) columns() int {
	if m.listView {
		return 1
	}
	return 2
}

func (m *Model) moveCursor(delta int) {
	m.cursor += delta
	m.clampCursor()
}

func (m *Model) clampCursor() {
	count := len(m.visible())
	if count == 0 {
		m.cursor = 0
		return
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	if m.cursor >= count {
		m.cursor = count - 1
	}
}

// cycleCategory переключает фильтр категории по кругу.
func (m *Model) cycleCategory(delta int) {
	order := append([]catalog.Category{catalog.CategoryAll}, catalog.Categories...)
	index := 0
	for i, c := range order {
		if c == m.filters.Category {
			index = i
			break
		}
	}
	index = (index + delta + len(order)) % len(order)
	m.filters.Category = order[index]
	m.cursor = 0
}

// cycleLanguageFilter переключает фильтр наличия аудио по кругу.
func (m *Model) cycleLanguageFilter() {
	order := append([]catalog.Language{catalog.LangAll}, catalog.Languages...)
	index := 0
	for i, l := range order {
		if l == m.filters.Language {
			index = i
			break
		}
	}
	m.filters.Language = order[(index+1)%len(order)]
	m.cursor = 0
}
