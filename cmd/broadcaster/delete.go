package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hazadus/go-broadcaster/internal/locale"
)

// createDeleteCommand создает команду delete с привязкой к экземпляру приложения
func (app *Application) createDeleteCommand() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete [id]",
		Short: "Delete a broadcast announcement by ID",
		Long:  `Delete a broadcast announcement and all its audio versions from the catalog by its ID.`,
		Args:  cobra.ExactArgs(1),
		Run: func(_ *cobra.Command, args []string) {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				fmt.Printf("❌ Ошибка: неверный ID '%s'. ID должен быть числом.\n", args[0])
				return
			}
			app.deleteEntry(id, yes)
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "удалить без подтверждения")
	return cmd
}

func (app *Application) deleteEntry(id int64, yes bool) {
	entry, ok := app.Catalog.ByID(id)
	if !ok {
		fmt.Printf("❌ Объявление с ID %d не найдено\n", id)
		return
	}

	fmt.Printf("🗑️  Удаляем объявление: %s (%s)\n", entry.Name, locale.CategoryTitle(entry.Category))

	if !yes {
		fmt.Print("确定要删除此广播吗？ Удалить? [y/N]: ")
		reader := bufio.NewReader(os.Stdin)
		answer, _ := reader.ReadString('\n')
		answer = strings.ToLower(strings.TrimSpace(answer))
		if answer != "y" && answer != "yes" {
			fmt.Println("🚫 Удаление отменено")
			return
		}
	}

	if err := app.Catalog.RemoveByID(id); err != nil {
		fmt.Printf("❌ Ошибка удаления объявления: %v\n", err)
		return
	}

	fmt.Println("✅ Объявление успешно удалено из каталога")
}
