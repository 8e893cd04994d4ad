package main

import (
	"github.com/spf13/cobra"

	"github.com/hazadus/go-broadcaster/internal/theme"
	"github.com/hazadus/go-broadcaster/internal/tui"
)

// createTUICommand создает команду tui с привязкой к экземпляру приложения
func (app *Application) createTUICommand() *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Launch TUI (Terminal User Interface)",
		Long:  `Launch interactive terminal user interface for managing and playing broadcast announcements.`,
		Run: func(_ *cobra.Command, _ []string) {
			app.launchTUI()
		},
	}
}

func (app *Application) launchTUI() {
	themes := theme.NewManager(app.Storage)
	tuiApp := tui.NewApp(app.Catalog, themes, app.Config.DefaultVolume)

	if err := tuiApp.Run(); err != nil {
		panic(err)
	}
}
