package sequencer

import (
	"errors"
	"testing"

	"github.com/hazadus/go-broadcaster/internal/catalog"
	"github.com/hazadus/go-broadcaster/internal/filter"
)

// memStore — хранилище в памяти для тестов секвенсора
type memStore struct {
	values map[string]string
}

func newMemStore() *memStore {
	return &memStore{values: make(map[string]string)}
}

func (s *memStore) Get(key string) (string, bool, error) {
	value, ok := s.values[key]
	return value, ok, nil
}

func (s *memStore) Set(key, value string) error {
	s.values[key] = value
	return nil
}

func (s *memStore) Keys() ([]string, error) {
	return nil, nil
}

// fakeTransport записывает команды секвенсора для проверок
type fakeTransport struct {
	loaded  []string
	loadErr error
	playing bool
	stopped int
	seeks   []float64
	volume  float64
	muted   bool
}

func (t *fakeTransport) Load(ref string) error {
	if t.loadErr != nil {
		return t.loadErr
	}
	t.loaded = append(t.loaded, ref)
	t.playing = true
	return nil
}

func (t *fakeTransport) Play()  { t.playing = true }
func (t *fakeTransport) Pause() { t.playing = false }
func (t *fakeTransport) Stop() {
	t.playing = false
	t.stopped++
}
func (t *fakeTransport) Seek(fraction float64)   { t.seeks = append(t.seeks, fraction) }
func (t *fakeTransport) SetVolume(level float64) { t.volume = level }
func (t *fakeTransport) SetMuted(muted bool)     { t.muted = muted }

// testSetup создает каталог, фильтры, транспорт и секвенсор для тестов
func testSetup(t *testing.T) (*catalog.Store, *filter.State, *fakeTransport, *Sequencer) {
	t.Helper()
	cat := catalog.NewStore(newMemStore())
	filters := filter.NewState()
	transport := &fakeTransport{}
	seq := New(cat, filters, transport)
	return cat, filters, transport, seq
}

func mustAdd(t *testing.T, cat *catalog.Store, entry catalog.Entry) catalog.Entry {
	t.Helper()
	added, err := cat.Add(entry)
	if err != nil {
		t.Fatalf("Ошибка добавления объявления: %v", err)
	}
	return *added
}

// TestSelectEntryLanguagePriority проверяет выбор языка по приоритету
func TestSelectEntryLanguagePriority(t *testing.T) {
	cat, _, transport, seq := testSetup(t)

	// Без китайской версии первым играет английский
	entry := mustAdd(t, cat, catalog.Entry{
		Name:     "объявление",
		Category: catalog.CategoryGeneral,
		Audio: map[catalog.Language]string{
			catalog.LangEn: "ref-en",
			catalog.LangMn: "ref-mn",
		},
	})

	seq.SelectEntry(entry.ID, "")

	state := seq.State()
	if state.ActiveEntryID != entry.ID || state.ActiveLanguage != catalog.LangEn {
		t.Errorf("Ожидался английский язык, получено %+v", state)
	}
	if !state.IsPlaying {
		t.Error("Воспроизведение должно идти")
	}
	if len(transport.loaded) != 1 || transport.loaded[0] != "ref-en" {
		t.Errorf("Транспорт загрузил не ту ссылку: %v", transport.loaded)
	}
}

// TestSelectEntryRequestedLanguage проверяет выбор конкретной версии
func TestSelectEntryRequestedLanguage(t *testing.T) {
	cat, _, _, seq := testSetup(t)

	entry := mustAdd(t, cat, catalog.Entry{
		Name:     "объявление",
		Category: catalog.CategoryGeneral,
		Audio: map[catalog.Language]string{
			catalog.LangZh: "ref-zh",
			catalog.LangMn: "ref-mn",
		},
	})

	seq.SelectEntry(entry.ID, catalog.LangMn)
	if seq.State().ActiveLanguage != catalog.LangMn {
		t.Errorf("Ожидался миньнаньский, получено %q", seq.State().ActiveLanguage)
	}

	// Запрошенный язык без аудио заменяется первым доступным
	seq.SelectEntry(entry.ID, catalog.LangEn)
	if seq.State().ActiveLanguage != catalog.LangZh {
		t.Errorf("Ожидался откат к китайскому, получено %q", seq.State().ActiveLanguage)
	}
}

// TestSelectEntryNoAudio проверяет выбор объявления без аудиоверсий
func TestSelectEntryNoAudio(t *testing.T) {
	cat, _, transport, seq := testSetup(t)

	entry := mustAdd(t, cat, catalog.Entry{
		Name:     "без аудио",
		Category: catalog.CategoryGeneral,
	})

	seq.SelectEntry(entry.ID, "")

	state := seq.State()
	if state.ActiveEntryID != entry.ID {
		t.Error("Объявление должно стать активным")
	}
	if state.ActiveLanguage != "" || state.IsPlaying {
		t.Errorf("Воспроизведение не должно начинаться: %+v", state)
	}
	// Транспорт не получает ни одной команды
	if len(transport.loaded) != 0 || transport.stopped != 0 {
		t.Error("Транспорт не должен получать команды для объявления без аудио")
	}
}

// TestSelectEntryLoadError проверяет поведение при ошибке загрузки аудио
func TestSelectEntryLoadError(t *testing.T) {
	cat, _, transport, seq := testSetup(t)
	transport.loadErr = errors.New("неподдерживаемый формат")

	entry := mustAdd(t, cat, catalog.Entry{
		Name:     "объявление",
		Category: catalog.CategoryGeneral,
		Audio:    map[catalog.Language]string{catalog.LangZh: "ref-zh"},
	})

	seq.SelectEntry(entry.ID, "")

	state := seq.State()
	if state.ActiveEntryID != entry.ID {
		t.Error("Объявление должно остаться выбранным после ошибки")
	}
	if state.IsPlaying {
		t.Error("Воспроизведение не должно идти после ошибки загрузки")
	}
}

// TestTogglePlayPause проверяет паузу и ее границы
func TestTogglePlayPause(t *testing.T) {
	cat, _, transport, seq := testSetup(t)

	// Без активного объявления переключение ничего не делает
	seq.TogglePlayPause()
	if transport.playing {
		t.Error("Пауза без активного объявления не должна трогать транспорт")
	}

	entry := mustAdd(t, cat, catalog.Entry{
		Name:     "объявление",
		Category: catalog.CategoryGeneral,
		Audio:    map[catalog.Language]string{catalog.LangZh: "ref-zh"},
	})
	seq.SelectEntry(entry.ID, "")

	seq.TogglePlayPause()
	if seq.State().IsPlaying || transport.playing {
		t.Error("Ожидалась пауза")
	}

	seq.TogglePlayPause()
	if !seq.State().IsPlaying || !transport.playing {
		t.Error("Ожидалось возобновление")
	}
}

// TestClipEndedAdvancesLanguage проверяет автопереход по языкам
func TestClipEndedAdvancesLanguage(t *testing.T) {
	cat, _, transport, seq := testSetup(t)

	// Миньнаньской версии нет: после китайского играет английский, затем стоп
	entry := mustAdd(t, cat, catalog.Entry{
		Name:     "объявление",
		Category: catalog.CategoryGeneral,
		Audio: map[catalog.Language]string{
			catalog.LangZh: "ref-zh",
			catalog.LangEn: "ref-en",
		},
	})

	seq.SelectEntry(entry.ID, "")
	if seq.State().ActiveLanguage != catalog.LangZh {
		t.Fatalf("Ожидался китайский, получено %q", seq.State().ActiveLanguage)
	}

	seq.OnClipEnded()
	state := seq.State()
	if state.ActiveLanguage != catalog.LangEn || !state.IsPlaying {
		t.Errorf("Ожидался переход к английскому: %+v", state)
	}

	// Единственное объявление: после последнего языка воспроизведение останавливается
	seq.OnClipEnded()
	state = seq.State()
	if state.IsPlaying {
		t.Error("После последнего языка воспроизведение должно остановиться")
	}
	if state.ActiveEntryID != entry.ID {
		t.Error("Объявление должно остаться выбранным")
	}

	wantLoads := []string{"ref-zh", "ref-en"}
	if len(transport.loaded) != len(wantLoads) {
		t.Fatalf("Ожидались загрузки %v, получено %v", wantLoads, transport.loaded)
	}
	for i, ref := range wantLoads {
		if transport.loaded[i] != ref {
			t.Errorf("Загрузка %d: ожидалось %q, получено %q", i, ref, transport.loaded[i])
		}
	}
}

// TestClipEndedAdvancesEntry проверяет автопереход к следующему объявлению
func TestClipEndedAdvancesEntry(t *testing.T) {
	cat, _, _, seq := testSetup(t)

	// Новые объявления встают в начало: second отображается перед first
	first := mustAdd(t, cat, catalog.Entry{
		Name:     "первое",
		Category: catalog.CategoryBoarding,
		Audio:    map[catalog.Language]string{catalog.LangZh: "ref-1-zh"},
	})
	second := mustAdd(t, cat, catalog.Entry{
		Name:     "второе",
		Category: catalog.CategoryBoarding,
		Audio:    map[catalog.Language]string{catalog.LangEn: "ref-2-en"},
	})

	seq.SelectEntry(second.ID, "")
	seq.OnClipEnded()

	state := seq.State()
	if state.ActiveEntryID != first.ID {
		t.Errorf("Ожидался переход к следующему объявлению: %+v", state)
	}
	if state.ActiveLanguage != catalog.LangZh || !state.IsPlaying {
		t.Errorf("Следующее объявление должно играть с первого языка: %+v", state)
	}

	// Конец списка: воспроизведение молча останавливается
	seq.OnClipEnded()
	if seq.State().IsPlaying {
		t.Error("В конце списка воспроизведение должно остановиться")
	}
	if seq.State().ActiveEntryID != first.ID {
		t.Error("Активное объявление не должно меняться в конце списка")
	}
}

// TestStepBoundaries проверяет навигацию prev/next на границах списка
func TestStepBoundaries(t *testing.T) {
	cat, _, _, seq := testSetup(t)

	first := mustAdd(t, cat, catalog.Entry{
		Name:     "первое",
		Category: catalog.CategoryGeneral,
		Audio:    map[catalog.Language]string{catalog.LangZh: "ref-1"},
	})
	second := mustAdd(t, cat, catalog.Entry{
		Name:     "второе",
		Category: catalog.CategoryGeneral,
		Audio:    map[catalog.Language]string{catalog.LangZh: "ref-2"},
	})

	// Без активного объявления навигация ничего не делает
	seq.Advance()
	if seq.State().ActiveEntryID != 0 {
		t.Error("Навигация без активного объявления должна быть нейтральной")
	}

	// Список отображается как [second, first]: second — начало
	seq.SelectEntry(second.ID, "")
	seq.Retreat()
	if seq.State().ActiveEntryID != second.ID {
		t.Error("Retreat на первой позиции не должен менять состояние")
	}

	seq.Advance()
	if seq.State().ActiveEntryID != first.ID {
		t.Error("Advance должен перейти к следующему объявлению")
	}

	seq.Advance()
	if seq.State().ActiveEntryID != first.ID {
		t.Error("Advance на последней позиции не должен менять состояние")
	}
}

// TestStepUsesCategoryOnly проверяет, что навигация игнорирует поиск и язык
func TestStepUsesCategoryOnly(t *testing.T) {
	cat, filters, _, seq := testSetup(t)

	first := mustAdd(t, cat, catalog.Entry{
		Name:     "登机广播",
		Category: catalog.CategoryBoarding,
		Audio:    map[catalog.Language]string{catalog.LangZh: "ref-1"},
	})
	second := mustAdd(t, cat, catalog.Entry{
		Name:     "延误通知",
		Category: catalog.CategoryDelay,
		Audio:    map[catalog.Language]string{catalog.LangEn: "ref-2"},
	})

	// Поиск и языковой фильтр скрыли бы соседа, но навигация их не учитывает
	filters.Search = "登机"
	filters.Language = catalog.LangZh

	seq.SelectEntry(second.ID, "")
	seq.Advance()
	if seq.State().ActiveEntryID != first.ID {
		t.Errorf("Навигация должна игнорировать поиск и фильтр языка: %+v", seq.State())
	}

	// Фильтр категории навигация учитывает
	filters.Category = catalog.CategoryDelay
	seq.SelectEntry(second.ID, "")
	seq.Advance()
	if seq.State().ActiveEntryID != second.ID {
		t.Error("Единственное объявление категории не имеет соседей")
	}
}

// TestEntryDeletedResetsState проверяет сброс при удалении активного объявления
func TestEntryDeletedResetsState(t *testing.T) {
	cat, _, transport, seq := testSetup(t)

	entry := mustAdd(t, cat, catalog.Entry{
		Name:     "объявление",
		Category: catalog.CategoryGeneral,
		Audio:    map[catalog.Language]string{catalog.LangZh: "ref-zh"},
	})
	other := mustAdd(t, cat, catalog.Entry{
		Name:     "другое",
		Category: catalog.CategoryGeneral,
		Audio:    map[catalog.Language]string{catalog.LangZh: "ref-other"},
	})

	seq.SelectEntry(entry.ID, "")

	// Удаление неактивного объявления состояние не трогает
	if err := cat.RemoveByID(other.ID); err != nil {
		t.Fatalf("Ошибка удаления: %v", err)
	}
	if seq.State().ActiveEntryID != entry.ID {
		t.Error("Удаление неактивного объявления не должно сбрасывать состояние")
	}

	// Удаление активного объявления останавливает транспорт и сбрасывает все
	if err := cat.RemoveByID(entry.ID); err != nil {
		t.Fatalf("Ошибка удаления: %v", err)
	}
	state := seq.State()
	if state.ActiveEntryID != 0 || state.ActiveLanguage != "" || state.IsPlaying {
		t.Errorf("Состояние должно быть сброшено: %+v", state)
	}
	if transport.stopped == 0 {
		t.Error("Транспорт должен быть остановлен")
	}
}

// TestSeekClamps проверяет ограничение перемотки долей [0, 1]
func TestSeekClamps(t *testing.T) {
	cat, _, transport, seq := testSetup(t)

	// Без активного объявления перемотка не доходит до транспорта
	seq.Seek(0.5)
	if len(transport.seeks) != 0 {
		t.Error("Перемотка без активного объявления не должна трогать транспорт")
	}

	entry := mustAdd(t, cat, catalog.Entry{
		Name:     "объявление",
		Category: catalog.CategoryGeneral,
		Audio:    map[catalog.Language]string{catalog.LangZh: "ref-zh"},
	})
	seq.SelectEntry(entry.ID, "")

	seq.Seek(-0.5)
	seq.Seek(1.5)
	seq.Seek(0.25)

	want := []float64{0, 1, 0.25}
	if len(transport.seeks) != len(want) {
		t.Fatalf("Ожидались перемотки %v, получено %v", want, transport.seeks)
	}
	for i, fraction := range want {
		if transport.seeks[i] != fraction {
			t.Errorf("Перемотка %d: ожидалось %v, получено %v", i, fraction, transport.seeks[i])
		}
	}
}

// TestVolumeAndMute проверяет независимость громкости и выключения звука
func TestVolumeAndMute(t *testing.T) {
	_, _, transport, seq := testSetup(t)

	seq.SetVolume(1.7)
	if seq.Volume() != 1 || transport.volume != 1 {
		t.Errorf("Громкость должна ограничиваться единицей: %v", seq.Volume())
	}

	seq.SetVolume(0.4)
	seq.ToggleMute()
	if !seq.Muted() || !transport.muted {
		t.Error("Звук должен быть выключен")
	}
	if seq.Volume() != 0.4 {
		t.Error("Выключение звука не должно менять уровень громкости")
	}

	seq.ToggleMute()
	if seq.Muted() || transport.muted {
		t.Error("Звук должен быть включен обратно")
	}
}
