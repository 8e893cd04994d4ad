// Package sequencer реализует логику выбора и последовательного
// воспроизведения объявлений: какой язык играть для выбранного
// объявления и что играть следующим внутри отфильтрованного списка.
package sequencer

import (
	"log"

	"github.com/samber/lo"

	"github.com/hazadus/go-broadcaster/internal/catalog"
	"github.com/hazadus/go-broadcaster/internal/filter"
)

// Transport описывает механизм воспроизведения, которым управляет
// секвенсор. Load загружает ссылку и сразу начинает воспроизведение.
// Seek игнорируется транспортом, пока длительность клипа неизвестна.
type Transport interface {
	Load(ref string) error
	Play()
	Pause()
	Stop()
	Seek(fraction float64)
	SetVolume(level float64)
	SetMuted(muted bool)
}

// State описывает текущее состояние воспроизведения.
// Ссылка на объявление хранится по ID: если объявление удалено,
// состояние сбрасывается в пустое.
type State struct {
	ActiveEntryID  int64            // 0 — ничего не выбрано
	ActiveLanguage catalog.Language // "" — язык не выбран
	IsPlaying      bool
}

// Sequencer владеет состоянием воспроизведения и решает, что играть
// дальше. Навигация prev/next ходит по списку той же категории;
// автопереход после окончания клипа сначала перебирает языки
// объявления, затем переходит к следующему объявлению.
type Sequencer struct {
	catalog   *catalog.Store
	filters   *filter.State
	transport Transport

	state  State
	volume float64
	muted  bool
}

// New создает секвенсор и подписывает его на удаления из каталога.
func New(cat *catalog.Store, filters *filter.State, transport Transport) *Sequencer {
	s := &Sequencer{
		catalog:   cat,
		filters:   filters,
		transport: transport,
		volume:    1.0,
	}
	cat.OnRemove(s.OnEntryDeleted)
	return s
}

// State возвращает текущее состояние воспроизведения.
func (s *Sequencer) State() State {
	return s.state
}

// ActiveEntry возвращает активное объявление, если оно есть.
func (s *Sequencer) ActiveEntry() (catalog.Entry, bool) {
	if s.state.ActiveEntryID == 0 {
		return catalog.Entry{}, false
	}
	return s.catalog.ByID(s.state.ActiveEntryID)
}

// Volume возвращает сохраненный уровень громкости.
func (s *Sequencer) Volume() float64 {
	return s.volume
}

// Muted сообщает, выключен ли звук.
func (s *Sequencer) Muted() bool {
	return s.muted
}

// SelectEntry выбирает объявление и запускает воспроизведение.
// Язык выбирается так: запрошенный, если для него есть аудио; иначе
// первый язык с аудио в приоритетном порядке; если аудио нет вовсе,
// объявление становится активным без воспроизведения.
func (s *Sequencer) SelectEntry(id int64, requested catalog.Language) {
	entry, ok := s.catalog.ByID(id)
	if !ok {
		return
	}

	lang, ok := resolveLanguage(&entry, requested)
	if !ok {
		// Объявление без аудио: показываем как выбранное, транспорт не трогаем.
		s.state = State{ActiveEntryID: entry.ID}
		return
	}

	ref, _ := entry.AudioFor(lang)
	s.state = State{ActiveEntryID: entry.ID, ActiveLanguage: lang}

	if err := s.transport.Load(ref); err != nil {
		// Объявление остается выбранным, воспроизведение не идет.
		// Повторных попыток нет.
		log.Printf("⚠️  ошибка загрузки аудио: %v", err)
		return
	}
	s.state.IsPlaying = true
}

// TogglePlayPause переключает паузу. Без активного объявления с
// выбранным языком ничего не делает.
func (s *Sequencer) TogglePlayPause() {
	if s.state.ActiveEntryID == 0 || s.state.ActiveLanguage == "" {
		return
	}
	if s.state.IsPlaying {
		s.transport.Pause()
		s.state.IsPlaying = false
	} else {
		s.transport.Play()
		s.state.IsPlaying = true
	}
}

// Seek переводит позицию воспроизведения в долю клипа [0, 1].
// Пока длительность неизвестна, транспорт игнорирует команду.
func (s *Sequencer) Seek(fraction float64) {
	if s.state.ActiveEntryID == 0 {
		return
	}
	if fraction < 0 {
		fraction = 0
	}
	if fraction > 1 {
		fraction = 1
	}
	s.transport.Seek(fraction)
}

// SetVolume устанавливает уровень громкости [0, 1].
// Уровень сохраняется независимо от выключенного звука.
func (s *Sequencer) SetVolume(level float64) {
	if level < 0 {
		level = 0
	}
	if level > 1 {
		level = 1
	}
	s.volume = level
	s.transport.SetVolume(level)
}

// ToggleMute выключает и включает звук, не меняя уровень громкости.
func (s *Sequencer) ToggleMute() {
	s.muted = !s.muted
	s.transport.SetMuted(s.muted)
}

// Advance переходит к следующему объявлению внутри списка категории.
// На границе списка ничего не делает, перехода по кругу нет.
func (s *Sequencer) Advance() {
	s.step(1)
}

// Retreat переходит к предыдущему объявлению внутри списка категории.
func (s *Sequencer) Retreat() {
	s.step(-1)
}

// OnClipEnded вызывается транспортом при естественном окончании клипа.
// Сначала доигрываются остальные языки объявления в приоритетном
// порядке, затем идет переход к следующему объявлению. В конце списка
// воспроизведение молча останавливается.
func (s *Sequencer) OnClipEnded() {
	s.state.IsPlaying = false

	entry, ok := s.ActiveEntry()
	if !ok {
		return
	}
	if next, ok := entry.NextLanguage(s.state.ActiveLanguage); ok {
		s.SelectEntry(entry.ID, next)
		return
	}
	s.Advance()
}

// OnEntryDeleted сбрасывает состояние, если удалено активное объявление.
// Транспорт останавливается немедленно.
func (s *Sequencer) OnEntryDeleted(id int64) {
	if s.state.ActiveEntryID == 0 || s.state.ActiveEntryID != id {
		return
	}
	s.transport.Stop()
	s.state = State{}
}

// navigationSequence возвращает список соседей для prev/next:
// та же категория, без учета поиска и фильтра по языку.
func (s *Sequencer) navigationSequence() []catalog.Entry {
	return filter.Visible(s.catalog.ListAll(), s.filters.CategoryOnly())
}

func (s *Sequencer) step(delta int) {
	if s.state.ActiveEntryID == 0 {
		return
	}
	sequence := s.navigationSequence()
	_, index, found := lo.FindIndexOf(sequence, func(e catalog.Entry) bool {
		return e.ID == s.state.ActiveEntryID
	})
	if !found {
		return
	}
	next := index + delta
	if next < 0 || next >= len(sequence) {
		return
	}
	s.SelectEntry(sequence[next].ID, "")
}

// resolveLanguage выбирает язык воспроизведения для объявления.
func resolveLanguage(entry *catalog.Entry, requested catalog.Language) (catalog.Language, bool) {
	if requested != "" && requested != catalog.LangAll {
		if _, ok := entry.AudioFor(requested); ok {
			return requested, true
		}
	}
	return entry.FirstLanguage()
}
