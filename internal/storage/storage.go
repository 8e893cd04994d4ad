// Package storage реализует простое файловое хранилище ключ-значение.
package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Store описывает хранилище строковых значений по ключу.
// Отсутствие ключа не является ошибкой.
type Store interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Keys() ([]string, error)
}

// FileStore хранит каждое значение в отдельном файле внутри каталога.
type FileStore struct {
	dir string
}

// NewFileStore создает хранилище в указанном каталоге.
// Тильда в пути раскрывается в домашний каталог пользователя.
func NewFileStore(dir string) (*FileStore, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	path := strings.Replace(dir, "~", home, 1)

	if err := os.MkdirAll(path, 0755); err != nil {
		return nil, fmt.Errorf("ошибка создания каталога хранилища: %w", err)
	}
	return &FileStore{dir: path}, nil
}

// Get возвращает значение по ключу и признак его существования.
func (s *FileStore) Get(key string) (string, bool, error) {
	data, err := os.ReadFile(s.keyPath(key))
	if err != nil {
		if os.IsNotExist(err) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("ошибка чтения ключа %q: %w", key, err)
	}
	return string(data), true, nil
}

// Set записывает значение по ключу, перезаписывая существующее.
func (s *FileStore) Set(key, value string) error {
	if err := os.WriteFile(s.keyPath(key), []byte(value), 0644); err != nil {
		return fmt.Errorf("ошибка записи ключа %q: %w", key, err)
	}
	return nil
}

// Keys возвращает список существующих ключей.
func (s *FileStore) Keys() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("ошибка чтения каталога хранилища: %w", err)
	}

	keys := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		keys = append(keys, entry.Name())
	}
	return keys, nil
}

func (s *FileStore) keyPath(key string) string {
	return filepath.Join(s.dir, key)
}
