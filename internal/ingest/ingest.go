// Package ingest кодирует аудиофайлы в самодостаточные ссылки data URL
// и собирает карту аудио по языкам для нового объявления.
package ingest

import (
	"encoding/base64"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"
)

const (
	dataURLScheme = "data:"
	base64Marker  = ";base64"
)

// EncodeFile читает файл и возвращает ссылку вида data:<mime>;base64,...
// Ссылка самодостаточна: содержимое файла встроено в нее целиком.
func EncodeFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("ошибка чтения файла %q: %w", path, err)
	}
	return dataURLScheme + mimeByExt(path) + base64Marker + "," +
		base64.StdEncoding.EncodeToString(data), nil
}

// Decode разбирает ссылку data URL на MIME-тип и содержимое.
func Decode(ref string) (string, []byte, error) {
	if !strings.HasPrefix(ref, dataURLScheme) {
		return "", nil, fmt.Errorf("ссылка не является data URL")
	}
	meta, payload, ok := strings.Cut(strings.TrimPrefix(ref, dataURLScheme), ",")
	if !ok {
		return "", nil, fmt.Errorf("некорректный data URL: нет разделителя содержимого")
	}

	mimeType := strings.TrimSuffix(meta, base64Marker)
	if !strings.HasSuffix(meta, base64Marker) {
		return mimeType, []byte(payload), nil
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("ошибка декодирования base64: %w", err)
	}
	return mimeType, data, nil
}

// mimeByExt определяет MIME-тип по расширению файла.
func mimeByExt(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".mp3":
		return "audio/mpeg"
	case ".wav":
		return "audio/wav"
	case ".ogg":
		return "audio/ogg"
	}
	if byExt := mime.TypeByExtension(ext); byExt != "" {
		return byExt
	}
	return "application/octet-stream"
}
