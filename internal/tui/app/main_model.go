// Package app содержит главную модель TUI: маршрутизацию между экранами
// каталога и формы добавления и панель воспроизведения внизу.
package app

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hazadus/go-broadcaster/internal/catalog"
	"github.com/hazadus/go-broadcaster/internal/filter"
	"github.com/hazadus/go-broadcaster/internal/locale"
	"github.com/hazadus/go-broadcaster/internal/player"
	"github.com/hazadus/go-broadcaster/internal/sequencer"
	"github.com/hazadus/go-broadcaster/internal/theme"
	"github.com/hazadus/go-broadcaster/internal/tui/browser"
	"github.com/hazadus/go-broadcaster/internal/tui/upload"
	"github.com/hazadus/go-broadcaster/internal/utils"
)

// ScreenType определяет тип текущего экрана.
type ScreenType int

const (
	// BrowserScreen — экран каталога объявлений.
	BrowserScreen ScreenType = iota
	// UploadScreen — экран формы добавления.
	UploadScreen
)

// ProgressMsg содержит обновление прогресса воспроизведения.
type ProgressMsg struct {
	Status player.Status
}

// ClipEndedMsg отправляется по окончании клипа.
type ClipEndedMsg struct{}

// MainModel представляет главную модель TUI-приложения.
type MainModel struct {
	catalog   *catalog.Store
	filters   *filter.State
	transport *player.Player
	seq       *sequencer.Sequencer
	themes    *theme.Manager

	currentScreen ScreenType
	browserModel  *browser.Model
	uploadModel   *upload.Model

	status      player.Status
	progressBar progress.Model
	width       int
}

// NewMainModel создает главную модель со всеми экранами.
func NewMainModel(cat *catalog.Store, themes *theme.Manager, defaultVolume float64) *MainModel {
	filters := filter.NewState()
	transport := player.NewPlayer()
	seq := sequencer.New(cat, filters, transport)
	seq.SetVolume(defaultVolume)

	return &MainModel{
		catalog:       cat,
		filters:       filters,
		transport:     transport,
		seq:           seq,
		themes:        themes,
		currentScreen: BrowserScreen,
		browserModel:  browser.NewModel(cat, filters, seq, themes),
		progressBar:   progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
	}
}

// Init инициализирует модель.
func (m *MainModel) Init() tea.Cmd {
	return tea.Batch(
		m.browserModel.Init(),
		m.listenForProgress(),
		m.listenForDone(),
	)
}

// Close останавливает воспроизведение и освобождает плеер.
func (m *MainModel) Close() error {
	return m.transport.Close()
}

// listenForProgress ожидает обновлений прогресса от плеера.
func (m *MainModel) listenForProgress() tea.Cmd {
	return func() tea.Msg {
		return ProgressMsg{Status: <-m.transport.Progress()}
	}
}

// listenForDone ожидает окончания клипа.
func (m *MainModel) listenForDone() tea.Cmd {
	return func() tea.Msg {
		<-m.transport.Done()
		return ClipEndedMsg{}
	}
}

// Update обрабатывает сообщения и обновляет модель.
func (m *MainModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.progressBar.Width = msg.Width - 24
		if m.progressBar.Width < 10 {
			m.progressBar.Width = 10
		}

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.transport.Stop()
			return m, tea.Quit
		}

	case ProgressMsg:
		m.status = msg.Status
		return m, m.listenForProgress()

	case ClipEndedMsg:
		m.seq.OnClipEnded()
		m.status = player.Status{}
		return m, m.listenForDone()

	// Сообщения экрана каталога
	case browser.EntrySelectedMsg:
		m.seq.SelectEntry(msg.ID, msg.Lang)
		m.status = player.Status{}
		return m, nil
	case browser.EntryDeletedMsg:
		m.catalog.RemoveByID(msg.ID)
		m.browserModel.RefreshData()
		return m, nil
	case browser.PlayPauseMsg:
		m.seq.TogglePlayPause()
		return m, nil
	case browser.NextMsg:
		m.seq.Advance()
		return m, nil
	case browser.PrevMsg:
		m.seq.Retreat()
		return m, nil
	case browser.SeekMsg:
		m.seekRelative(msg.Seconds)
		return m, nil
	case browser.VolumeMsg:
		m.seq.SetVolume(m.seq.Volume() + msg.Delta)
		return m, nil
	case browser.MuteMsg:
		m.seq.ToggleMute()
		return m, nil
	case browser.OpenUploadMsg:
		m.currentScreen = UploadScreen
		m.uploadModel = upload.NewModel(m.catalog, m.themes)
		return m, m.uploadModel.Init()

	// Сообщения формы добавления
	case upload.GoBackMsg:
		m.currentScreen = BrowserScreen
		m.browserModel.RefreshData()
		return m, nil
	case upload.SavedMsg:
		m.currentScreen = BrowserScreen
		m.browserModel.RefreshData()
		return m, nil
	}

	var cmd tea.Cmd
	switch m.currentScreen {
	case BrowserScreen:
		m.browserModel, cmd = m.browserModel.Update(msg)
	case UploadScreen:
		m.uploadModel, cmd = m.uploadModel.Update(msg)
	}
	return m, cmd
}

// seekRelative перематывает клип на delta секунд от текущей позиции.
func (m *MainModel) seekRelative(deltaSeconds int) {
	if m.status.Total <= 0 {
		return
	}
	target := m.status.Current.Seconds() + float64(deltaSeconds)
	m.seq.Seek(target / m.status.Total.Seconds())
}

// View отображает текущий экран и панель воспроизведения.
func (m *MainModel) View() string {
	var screen string
	switch m.currentScreen {
	case UploadScreen:
		screen = m.uploadModel.View()
	default:
		screen = m.browserModel.View()
	}
	return screen + "\n" + m.transportBar()
}

// transportBar отображает панель воспроизведения внизу экрана.
func (m *MainModel) transportBar() string {
	pal := m.themes.Palette()
	barStyle := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder(), true, false, false, false).
		BorderForeground(pal.Border).
		Padding(0, 1)
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(pal.Text)
	mutedStyle := lipgloss.NewStyle().Foreground(pal.Muted)

	state := m.seq.State()
	entry, ok := m.seq.ActiveEntry()
	if !ok {
		return barStyle.Render(mutedStyle.Render("🔈 请选择广播 Select a broadcast to play"))
	}

	icon := "▶️"
	if state.IsPlaying {
		icon = "⏸️"
	}

	langLabel := locale.NoAudioLabel
	if state.ActiveLanguage != "" {
		langLabel = locale.LangLabel(state.ActiveLanguage)
	}
	title := fmt.Sprintf("%s %s", icon, titleStyle.Render(entry.Name))
	detail := mutedStyle.Render(fmt.Sprintf("%s • %s",
		locale.CategoryZh(entry.Category), langLabel))

	percent := 0.0
	if m.status.Total > 0 {
		percent = float64(m.status.Current) / float64(m.status.Total)
	}
	timeline := fmt.Sprintf("%s %s/%s",
		m.progressBar.ViewAs(percent),
		utils.FormatTime(m.status.Current),
		utils.FormatTime(m.status.Total))

	volume := fmt.Sprintf("%s %d%%", m.volumeIcon(), int(m.seq.Volume()*100+0.5))

	lines := []string{
		title + "  " + detail,
		timeline + "  " + mutedStyle.Render(volume),
		mutedStyle.Render("Space: пауза • n/p: след./пред. • [/]: перемотка • +/-: громкость • m: без звука"),
	}
	return barStyle.Render(strings.Join(lines, "\n"))
}

// volumeIcon возвращает иконку громкости по текущему уровню.
func (m *MainModel) volumeIcon() string {
	if m.seq.Muted() || m.seq.Volume() == 0 {
		return "🔇"
	}
	if m.seq.Volume() < 0.5 {
		return "🔉"
	}
	return "🔊"
}
