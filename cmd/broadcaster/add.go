package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hazadus/go-broadcaster/internal/catalog"
	"github.com/hazadus/go-broadcaster/internal/ingest"
	"github.com/hazadus/go-broadcaster/internal/locale"
	"github.com/hazadus/go-broadcaster/internal/utils"
)

// createAddCommand создает команду add с привязкой к экземпляру приложения
func (app *Application) createAddCommand() *cobra.Command {
	var (
		name     string
		category string
		zhPath   string
		enPath   string
		mnPath   string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a broadcast announcement to the catalog",
		Long:  `Add a broadcast announcement with up to three audio versions (Chinese, English, Minnan) encoded into the catalog.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			files := map[catalog.Language]string{}
			if zhPath != "" {
				files[catalog.LangZh] = zhPath
			}
			if enPath != "" {
				files[catalog.LangEn] = enPath
			}
			if mnPath != "" {
				files[catalog.LangMn] = mnPath
			}
			return app.addEntry(name, catalog.Category(category), files)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "название объявления (обязательно)")
	cmd.Flags().StringVar(&category, "category", string(catalog.CategoryGeneral),
		"категория: boarding, oversized, delay, security, general")
	cmd.Flags().StringVar(&zhPath, "zh", "", "путь к аудиофайлу 中文")
	cmd.Flags().StringVar(&enPath, "en", "", "путь к аудиофайлу English")
	cmd.Flags().StringVar(&mnPath, "mn", "", "путь к аудиофайлу 闽南语")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

// addEntry кодирует аудиофайлы и добавляет объявление в каталог
func (app *Application) addEntry(name string, category catalog.Category, files map[catalog.Language]string) error {
	// Показываем информацию о файлах перед кодированием
	for _, lang := range catalog.Languages {
		path, ok := files[lang]
		if !ok {
			continue
		}
		info, err := ingest.ProbeFile(path)
		if err != nil {
			fmt.Printf("⚠️  %s: не удалось прочитать файл: %v\n", locale.LangLabel(lang), err)
			continue
		}
		fmt.Printf("🎵 %s: %s (%s", locale.LangLabel(lang), path, utils.FormatFileSize(info.Size))
		if info.Duration > 0 {
			fmt.Printf(", %s", utils.FormatTime(info.Duration))
		}
		fmt.Println(")")
	}

	result := ingest.EncodeAll(files)
	for lang, err := range result.Errors {
		fmt.Printf("⚠️  %s: ошибка кодирования, версия пропущена: %v\n", locale.LangLabel(lang), err)
	}

	entry, err := app.Catalog.Add(catalog.Entry{
		Name:     name,
		Category: category,
		Audio:    result.Audio,
	})
	if err != nil {
		return fmt.Errorf("ошибка добавления объявления: %w", err)
	}

	fmt.Printf("✅ Объявление добавлено: ID %d, %s (%s), языков: %d\n",
		entry.ID, entry.Name, locale.CategoryTitle(entry.Category), len(entry.Audio))
	return nil
}
