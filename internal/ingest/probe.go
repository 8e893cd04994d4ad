package ingest

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dhowden/tag"
	"github.com/gopxl/beep/mp3"
)

// ClipInfo содержит сведения о загружаемом клипе для отображения.
type ClipInfo struct {
	Size     int64
	Duration time.Duration // нулевая, если длительность определить не удалось
	Title    string        // встроенное название, если оно есть в тегах
}

// ProbeFile собирает сведения о файле клипа. Теги и длительность
// извлекаются по возможности: их отсутствие не является ошибкой.
func ProbeFile(path string) (*ClipInfo, error) {
	stat, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения информации о файле: %w", err)
	}
	info := &ClipInfo{Size: stat.Size()}

	if file, err := os.Open(path); err == nil {
		if metadata, err := tag.ReadFrom(file); err == nil {
			info.Title = metadata.Title()
		}
		file.Close()
	}

	if strings.EqualFold(filepath.Ext(path), ".mp3") {
		if duration, err := mp3Duration(path); err == nil {
			info.Duration = duration
		}
	}
	return info, nil
}

// mp3Duration декодирует файл и вычисляет длительность по числу сэмплов.
func mp3Duration(path string) (time.Duration, error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, err
	}

	streamer, format, err := mp3.Decode(file)
	if err != nil {
		file.Close()
		return 0, err
	}
	defer streamer.Close()

	return format.SampleRate.D(streamer.Len()), nil
}
