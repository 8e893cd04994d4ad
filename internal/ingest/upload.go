package ingest

import (
	"sync"

	"github.com/hazadus/go-broadcaster/internal/catalog"
)

// Result содержит итог кодирования файлов для нового объявления.
// Ошибки отдельных языков не отменяют остальные: неудачный слот
// просто остается без аудио.
type Result struct {
	Audio  map[catalog.Language]string
	Errors map[catalog.Language]error
}

// EncodeAll кодирует указанные файлы по языкам и собирает карту аудио.
// Кодирование идет параллельно, но карта собирается только после того,
// как завершатся все слоты: частично собранное объявление наружу не
// выходит.
func EncodeAll(files map[catalog.Language]string) Result {
	result := Result{
		Audio:  make(map[catalog.Language]string),
		Errors: make(map[catalog.Language]error),
	}

	var (
		wg    sync.WaitGroup
		mutex sync.Mutex
	)
	for _, lang := range catalog.Languages {
		path := files[lang]
		if path == "" {
			continue
		}

		wg.Add(1)
		go func(lang catalog.Language, path string) {
			defer wg.Done()
			ref, err := EncodeFile(path)

			mutex.Lock()
			defer mutex.Unlock()
			if err != nil {
				result.Errors[lang] = err
				return
			}
			result.Audio[lang] = ref
		}(lang, path)
	}
	wg.Wait()

	return result
}
