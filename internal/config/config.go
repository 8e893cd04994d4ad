// Package config содержит функции для загрузки конфигурации приложения
package config

import (
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config структура для хранения конфигурации приложения
type Config struct {
	StorageDir    string  `yaml:"storage_dir"`    // Каталог хранилища данных
	DefaultVolume float64 `yaml:"default_volume"` // Громкость при запуске, от 0 до 1
}

// LoadConfig загружает конфигурацию приложения из указанного файла.
// Отсутствующий файл не является ошибкой: приложение работает
// с настройками по умолчанию.
func LoadConfig(filePath string) (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	path := strings.Replace(filePath, "~", home, 1)

	config := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, err
	}
	if err == nil {
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, err
		}
	}

	// Устанавливаем значения по умолчанию, если они не заданы
	if config.StorageDir == "" {
		config.StorageDir = "~/.broadcaster.d"
	}
	if config.DefaultVolume <= 0 || config.DefaultVolume > 1 {
		config.DefaultVolume = 0.8
	}

	// Раскрываем тильду в пути хранилища
	config.StorageDir = strings.Replace(config.StorageDir, "~", home, 1)

	return config, nil
}
