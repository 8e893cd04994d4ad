// Package player реализует воспроизведение аудио объявлений через beep.
// Источником служит самодостаточная ссылка data URL: содержимое клипа
// уже находится в памяти, сетевых обращений нет.
package player

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/mp3"
	"github.com/gopxl/beep/speaker"
	"github.com/gopxl/beep/wav"

	"github.com/hazadus/go-broadcaster/internal/ingest"
)

// Status представляет текущий статус воспроизведения.
type Status struct {
	Current   time.Duration // Текущая позиция
	Total     time.Duration // Общая продолжительность клипа
	IsPlaying bool          // Идет ли воспроизведение
}

// Player управляет воспроизведением клипов. Загрузка новой ссылки
// просто замещает предыдущую: отдельной отмены нет.
type Player struct {
	// Каналы для обратной связи
	progressChan chan Status
	doneChan     chan bool

	// Внутреннее состояние
	ctx        context.Context
	cancel     context.CancelFunc
	mutex      sync.RWMutex
	initRate   beep.SampleRate // частота, с которой инициализирован speaker; 0 — не инициализирован
	isPaused   bool
	level      float64
	muted      bool
	generation int

	// Компоненты воспроизведения текущего клипа
	streamer beep.StreamSeekCloser
	format   beep.Format
	ctrl     *beep.Ctrl
	volume   *effects.Volume
}

// NewPlayer создает новый экземпляр плеера.
func NewPlayer() *Player {
	ctx, cancel := context.WithCancel(context.Background())
	return &Player{
		progressChan: make(chan Status, 1),
		doneChan:     make(chan bool, 1),
		ctx:          ctx,
		cancel:       cancel,
		level:        1.0,
	}
}

// Progress возвращает канал обновлений прогресса.
func (p *Player) Progress() <-chan Status {
	return p.progressChan
}

// Done возвращает канал, сообщающий о естественном окончании клипа.
// При остановке или замене клипа сообщение не отправляется.
func (p *Player) Done() <-chan bool {
	return p.doneChan
}

// Load декодирует ссылку data URL и сразу начинает воспроизведение,
// замещая предыдущий клип.
func (p *Player) Load(ref string) error {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	p.stopInternal()

	mimeType, data, err := ingest.Decode(ref)
	if err != nil {
		return fmt.Errorf("ошибка разбора аудиоссылки: %w", err)
	}

	streamer, format, err := decodeClip(mimeType, data)
	if err != nil {
		return fmt.Errorf("ошибка декодирования аудио: %w", err)
	}

	// Инициализируем speaker один раз; клипы с другой частотой
	// пересэмплируются под нее.
	if p.initRate == 0 {
		if err := speaker.Init(format.SampleRate, format.SampleRate.N(time.Second/10)); err != nil {
			streamer.Close()
			return fmt.Errorf("ошибка инициализации динамиков: %w", err)
		}
		p.initRate = format.SampleRate
	}

	p.streamer = streamer
	p.format = format
	p.isPaused = false
	p.generation++

	var source beep.Streamer = streamer
	if format.SampleRate != p.initRate {
		source = beep.Resample(4, format.SampleRate, p.initRate, streamer)
	}

	p.ctrl = &beep.Ctrl{Streamer: source}
	p.volume = &effects.Volume{
		Streamer: p.ctrl,
		Base:     2,
		Volume:   levelToVolume(p.level),
		Silent:   p.muted || p.level == 0,
	}

	speaker.Play(beep.Seq(p.volume, beep.Callback(func() {
		select {
		case p.doneChan <- true:
		default:
		}
	})))

	go p.monitorProgress(p.generation, format)
	return nil
}

// Play возобновляет воспроизведение после паузы.
func (p *Player) Play() {
	p.setPaused(false)
}

// Pause приостанавливает воспроизведение.
func (p *Player) Pause() {
	p.setPaused(true)
}

// Stop останавливает воспроизведение и выгружает клип.
func (p *Player) Stop() {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	p.stopInternal()
}

// Seek переводит позицию в долю клипа [0, 1].
// Пока клип не загружен или его длина неизвестна, ничего не делает.
func (p *Player) Seek(fraction float64) {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	if p.streamer == nil {
		return
	}

	speaker.Lock()
	defer speaker.Unlock()

	total := p.streamer.Len()
	if total <= 0 {
		return
	}
	position := int(fraction * float64(total))
	if position < 0 {
		position = 0
	}
	if position >= total {
		position = total - 1
	}
	_ = p.streamer.Seek(position)
}

// SetVolume устанавливает уровень громкости [0, 1].
func (p *Player) SetVolume(level float64) {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	p.level = level
	p.applyVolume()
}

// SetMuted выключает или включает звук, не меняя уровень громкости.
func (p *Player) SetMuted(muted bool) {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	p.muted = muted
	p.applyVolume()
}

// IsPlaying возвращает true, если клип загружен и не на паузе.
func (p *Player) IsPlaying() bool {
	p.mutex.RLock()
	defer p.mutex.RUnlock()
	return p.ctrl != nil && !p.isPaused
}

// Close закрывает плеер и освобождает ресурсы.
func (p *Player) Close() error {
	p.cancel()
	p.Stop()
	close(p.progressChan)
	close(p.doneChan)
	return nil
}

// setPaused выставляет состояние паузы, если клип загружен.
func (p *Player) setPaused(paused bool) {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	if p.ctrl == nil {
		return
	}
	speaker.Lock()
	p.isPaused = paused
	p.ctrl.Paused = paused
	speaker.Unlock()
}

// applyVolume применяет уровень и состояние звука к текущему клипу.
// Вызывается под мьютексом.
func (p *Player) applyVolume() {
	if p.volume == nil {
		return
	}
	speaker.Lock()
	p.volume.Volume = levelToVolume(p.level)
	p.volume.Silent = p.muted || p.level == 0
	speaker.Unlock()
}

// stopInternal выгружает текущий клип (должен вызываться под мьютексом).
func (p *Player) stopInternal() {
	if p.ctrl != nil {
		speaker.Clear()
		p.ctrl = nil
		p.volume = nil
	}
	if p.streamer != nil {
		p.streamer.Close()
		p.streamer = nil
	}
	p.isPaused = false
	p.generation++
}

// monitorProgress раз в секунду отправляет статус воспроизведения.
// Горутина завершается, когда клип замещен или плеер закрыт.
func (p *Player) monitorProgress(generation int, format beep.Format) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-p.ctx.Done():
			return
		case <-ticker.C:
			p.mutex.RLock()
			if p.streamer == nil || p.generation != generation {
				p.mutex.RUnlock()
				return
			}

			speaker.Lock()
			current := format.SampleRate.D(p.streamer.Position())
			total := format.SampleRate.D(p.streamer.Len())
			paused := p.isPaused
			speaker.Unlock()
			p.mutex.RUnlock()

			status := Status{
				Current:   current,
				Total:     total,
				IsPlaying: !paused,
			}

			select {
			case p.progressChan <- status:
			default:
				// Если канал занят, пропускаем обновление
			}
		}
	}
}

// decodeClip выбирает декодер по MIME-типу ссылки.
func decodeClip(mimeType string, data []byte) (beep.StreamSeekCloser, beep.Format, error) {
	reader := readCloser{bytes.NewReader(data)}
	switch {
	case strings.Contains(mimeType, "wav"):
		return wav.Decode(reader)
	default:
		// mp3 — основной формат объявлений
		return mp3.Decode(reader)
	}
}

// levelToVolume переводит линейный уровень [0, 1] в логарифмическую
// шкалу beep. Нулевой уровень обрабатывается флагом Silent.
func levelToVolume(level float64) float64 {
	if level <= 0 {
		return 0
	}
	return math.Log2(level)
}

// readCloser оборачивает bytes.Reader в io.ReadCloser для декодеров.
type readCloser struct {
	*bytes.Reader
}

func (readCloser) Close() error { return nil }
