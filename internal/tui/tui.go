// Package tui содержит компоненты текстового пользовательского интерфейса
package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/hazadus/go-broadcaster/internal/catalog"
	"github.com/hazadus/go-broadcaster/internal/theme"
	"github.com/hazadus/go-broadcaster/internal/tui/app"
)

// App представляет основное TUI приложение
type App struct {
	catalog       *catalog.Store
	themes        *theme.Manager
	defaultVolume float64
}

// NewApp создает новый экземпляр TUI приложения
func NewApp(cat *catalog.Store, themes *theme.Manager, defaultVolume float64) *App {
	return &App{
		catalog:       cat,
		themes:        themes,
		defaultVolume: defaultVolume,
	}
}

// Run запускает TUI приложение
func (tuiApp *App) Run() error {
	model := app.NewMainModel(tuiApp.catalog, tuiApp.themes, tuiApp.defaultVolume)

	p := tea.NewProgram(model, tea.WithAltScreen())

	_, err := p.Run()

	// Закрываем плеер после завершения программы
	model.Close()

	return err
}
