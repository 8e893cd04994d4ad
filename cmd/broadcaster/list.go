package main

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/hazadus/go-broadcaster/internal/catalog"
	"github.com/hazadus/go-broadcaster/internal/filter"
	"github.com/hazadus/go-broadcaster/internal/locale"
	"github.com/hazadus/go-broadcaster/internal/utils"
)

// createListCommand создает команду list с привязкой к экземпляру приложения
func (app *Application) createListCommand() *cobra.Command {
	var (
		category string
		search   string
		lang     string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List broadcast announcements from the catalog",
		Long:  `Display broadcast announcements, optionally filtered by category, name search and audio language.`,
		Run: func(cmd *cobra.Command, _ []string) {
			st := filter.State{
				Category: catalog.Category(category),
				Search:   search,
				Language: catalog.Language(lang),
			}
			app.listEntries(cmd, st)
		},
	}

	cmd.Flags().StringVar(&category, "category", string(catalog.CategoryAll),
		"фильтр по категории: all, boarding, oversized, delay, security, general")
	cmd.Flags().StringVar(&search, "search", "", "поиск по названию (без учета регистра)")
	cmd.Flags().StringVar(&lang, "lang", string(catalog.LangAll),
		"фильтр по наличию аудио: all, zh, en, mn")

	return cmd
}

func (app *Application) listEntries(cmd *cobra.Command, st filter.State) {
	out := cmd.OutOrStdout()
	visible := filter.Visible(app.Catalog.ListAll(), st)

	if len(visible) == 0 {
		fmt.Fprintln(out, "📚 Каталог пуст. Добавьте объявления с помощью команды 'add'.")
		return
	}

	fmt.Fprintf(out, "📚 Найдено объявлений: %d\n\n", len(visible))

	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"ID", "Название", "Категория", "Языки", "Создано"})

	for _, entry := range visible {
		langs := make([]string, 0, 3)
		for _, lang := range entry.AvailableLanguages() {
			langs = append(langs, locale.LangLabel(lang))
		}
		langCol := strings.Join(langs, " ")
		if langCol == "" {
			langCol = locale.NoAudioLabel
		}

		t.AppendRow(table.Row{
			entry.ID,
			utils.TruncateString(entry.Name, 30),
			locale.CategoryTitle(entry.Category),
			langCol,
			entry.CreatedAt.Format("2006-01-02 15:04"),
		})
	}
	t.Render()

	fmt.Fprintln(out)
	counts := app.Catalog.CountByCategory()
	parts := make([]string, 0, len(catalog.Categories))
	for _, c := range catalog.Categories {
		parts = append(parts, fmt.Sprintf("%s: %d", locale.CategoryZh(c), counts[c]))
	}
	fmt.Fprintln(out, "📊", strings.Join(parts, " • "))
	fmt.Fprintln(out, "💡 Используйте 'broadcaster play [ID]' для воспроизведения объявления")
}
