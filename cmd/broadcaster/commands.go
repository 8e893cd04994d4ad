package main

import (
	"context"

	"github.com/spf13/cobra"
)

// createRootCommand создает корневую команду с настроенными подкомандами
func (app *Application) createRootCommand(ctx context.Context) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "broadcaster",
		Short: "Manage and play airport broadcast announcements",
		Long:  `A command line tool to manage a catalog of airport broadcast announcements with audio in Chinese, English and Minnan.`,
	}

	// Добавляем команды, передавая в них экземпляр приложения и контекст
	rootCmd.AddCommand(app.createAddCommand())
	rootCmd.AddCommand(app.createListCommand())
	rootCmd.AddCommand(app.createPlayCommand(ctx))
	rootCmd.AddCommand(app.createDeleteCommand())
	rootCmd.AddCommand(app.createTUICommand())

	return rootCmd
}
