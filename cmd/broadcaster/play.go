package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/hazadus/go-broadcaster/internal/catalog"
	"github.com/hazadus/go-broadcaster/internal/filter"
	"github.com/hazadus/go-broadcaster/internal/locale"
	"github.com/hazadus/go-broadcaster/internal/player"
	"github.com/hazadus/go-broadcaster/internal/sequencer"
	"github.com/hazadus/go-broadcaster/internal/utils"
)

// createPlayCommand создает команду play с привязкой к экземпляру приложения
func (app *Application) createPlayCommand(ctx context.Context) *cobra.Command {
	var lang string

	cmd := &cobra.Command{
		Use:   "play [id]",
		Short: "Play a broadcast announcement by its ID",
		Long:  `Play all audio versions of a broadcast announcement in order (Chinese, English, Minnan), then continue with the next announcement of the same category.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("неверный ID объявления: %s", args[0])
			}
			return app.playByID(ctx, id, catalog.Language(lang))
		},
	}

	cmd.Flags().StringVar(&lang, "lang", "", "начать с версии: zh, en, mn")
	return cmd
}

// enableRawMode включает режим raw для терминала (без буферизации и echo)
func enableRawMode() {
	cmd := exec.Command("stty", "-echo", "-icanon")
	cmd.Stdin = os.Stdin
	_ = cmd.Run() // Игнорируем ошибку, так как это не критично для работы плеера
}

// disableRawMode восстанавливает нормальный режим терминала
func disableRawMode() {
	cmd := exec.Command("stty", "echo", "icanon")
	cmd.Stdin = os.Stdin
	_ = cmd.Run()
}

// readSingleChar читает одиночный символ без ожидания Enter
func readSingleChar() (byte, error) {
	buffer := make([]byte, 1)
	_, err := os.Stdin.Read(buffer)
	return buffer[0], err
}

func (app *Application) playByID(ctx context.Context, id int64, lang catalog.Language) error {
	entry, ok := app.Catalog.ByID(id)
	if !ok {
		return fmt.Errorf("объявление с ID %d не найдено", id)
	}

	if !entry.Playable() {
		return fmt.Errorf("у объявления с ID %d нет аудиоверсий", id)
	}

	fmt.Printf("📢 Воспроизводим объявление:\n")
	fmt.Printf("   ID: %d\n", entry.ID)
	fmt.Printf("   Название: %s\n", entry.Name)
	fmt.Printf("   Категория: %s\n", locale.CategoryTitle(entry.Category))
	langs := ""
	for _, l := range entry.AvailableLanguages() {
		langs += locale.LangLabel(l) + " "
	}
	fmt.Printf("   Языки: %s\n", langs)
	fmt.Println()

	// Создаем плеер и секвенсор
	p := player.NewPlayer()
	defer p.Close()

	filters := filter.NewState()
	filters.Category = entry.Category
	seq := sequencer.New(app.Catalog, filters, p)
	seq.SetVolume(app.Config.DefaultVolume)

	seq.SelectEntry(id, lang)
	if !seq.State().IsPlaying {
		return fmt.Errorf("не удалось запустить воспроизведение объявления %d", id)
	}

	fmt.Printf("🎮 Управление:\n")
	fmt.Printf("   [Пробел] - пауза/воспроизведение\n")
	fmt.Printf("   [Ctrl+C] - остановить и выйти\n")
	fmt.Println()

	// Включаем raw режим для чтения одиночных клавиш
	enableRawMode()
	defer disableRawMode()

	// Создаем канал для обработки сигналов прерывания
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)

	// Запускаем горутину для обработки клавиш
	go func() {
		for {
			char, err := readSingleChar()
			if err != nil {
				continue
			}

			// Проверяем на пробел (ASCII 32) или Enter (ASCII 10/13)
			if char == 32 || char == 10 || char == 13 {
				seq.TogglePlayPause()
				fmt.Printf("\r\033[K") // Очищаем текущую строку
				if seq.State().IsPlaying {
					fmt.Printf("▶️  Воспроизведение\n")
				} else {
					fmt.Printf("⏸️  Пауза\n")
				}
			}
		}
	}()

	// Главный цикл обработки событий
	for {
		select {
		case status := <-p.Progress():
			app.displayProgress(seq, status)
		case <-p.Done():
			// Клип закончился: секвенсор переключает язык или объявление
			seq.OnClipEnded()
			if !seq.State().IsPlaying {
				fmt.Println("\n✅ Воспроизведение завершено")
				return nil
			}
			fmt.Println()
		case <-interrupt:
			fmt.Println("\n⏹️  Воспроизведение остановлено пользователем")
			p.Stop()
			return nil
		case <-ctx.Done():
			fmt.Println("\n🚫 Операция отменена")
			p.Stop()
			return ctx.Err()
		}
	}
}

// displayProgress отображает прогресс воспроизведения текущего клипа
func (app *Application) displayProgress(seq *sequencer.Sequencer, status player.Status) {
	state := seq.State()
	entry, ok := seq.ActiveEntry()
	if !ok {
		return
	}

	statusIcon := "⏱️"
	if !status.IsPlaying {
		statusIcon = "⏸️"
	}

	if status.Total > 0 {
		percent := float64(status.Current) / float64(status.Total) * 100
		fmt.Printf("\r%s  %s [%s] %.1f%% | %s / %s",
			statusIcon,
			utils.TruncateString(entry.Name, 20),
			locale.LangLabel(state.ActiveLanguage),
			percent,
			utils.FormatTime(status.Current),
			utils.FormatTime(status.Total))
	} else {
		fmt.Printf("\r%s  %s [%s] %s",
			statusIcon,
			utils.TruncateString(entry.Name, 20),
			locale.LangLabel(state.ActiveLanguage),
			utils.FormatTime(status.Current))
	}
}
