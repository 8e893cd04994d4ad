package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/hazadus/go-broadcaster/internal/catalog"
	"github.com/hazadus/go-broadcaster/internal/config"
	"github.com/hazadus/go-broadcaster/internal/storage"
)

const (
	defaultConfigPath = "~/.broadcaster"
)

// Application объединяет зависимости команд CLI
type Application struct {
	Config  *config.Config
	Storage storage.Store
	Catalog *catalog.Store
}

func main() {
	// Загружаем конфигурацию
	cfg, err := config.LoadConfig(defaultConfigPath)
	if err != nil {
		log.Fatalf("Ошибка загрузки конфигурации: %v", err)
	}

	// Открываем хранилище каталога
	store, err := storage.NewFileStore(cfg.StorageDir)
	if err != nil {
		log.Fatalf("Ошибка открытия хранилища: %v", err)
	}

	cat := catalog.NewStore(store)
	if err := cat.Load(); err != nil {
		log.Fatalf("Ошибка загрузки каталога: %v", err)
	}

	// Пустой каталог заполняем демонстрационными объявлениями
	if err := cat.Seed(); err != nil {
		log.Fatalf("Ошибка заполнения каталога: %v", err)
	}

	app := &Application{
		Config:  cfg,
		Storage: store,
		Catalog: cat,
	}

	rootCmd := app.createRootCommand(context.Background())
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
