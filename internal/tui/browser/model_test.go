package browser

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/hazadus/go-broadcaster/internal/catalog"
	"github.com/hazadus/go-broadcaster/internal/filter"
	"github.com/hazadus/go-broadcaster/internal/sequencer"
	"github.com/hazadus/go-broadcaster/internal/theme"
)

// memStore — хранилище в памяти для тестов экрана каталога
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

// nopTransport — транспорт-заглушка для секвенсора в тестах
type nopTransport struct{}

func (nopTransport) Load(string) error { return nil }
func (nopTransport) Play()             {}
func (nopTransport) Pause()            {}
func (nopTransport) Stop()             {}
func (nopTransport) Seek(float64)      {}
func (nopTransport) SetVolume(float64) {}
func (nopTransport) SetMuted(bool)     {}

func keyMsg(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func testModel(t *testing.T) (*Model, *catalog.Store, *filter.State) {
	t.Helper()
	cat := catalog.NewStore(newMemStore())
	filters := filter.NewState()
	seq := sequencer.New(cat, filters, nopTransport{})
	themes := theme.NewManager(newMemStore())
	return NewModel(cat, filters, seq, themes), cat, filters
}

func mustAdd(t *testing.T, cat *catalog.Store, entry catalog.Entry) catalog.Entry {
	t.Helper()
	added, err := cat.Add(entry)
	if err != nil {
		t.Fatalf("Ошибка добавления объявления: %v", err)
	}
	return *added
}

// runCmd выполняет команду и возвращает произведенное сообщение
func runCmd(cmd tea.Cmd) tea.Msg {
	if cmd == nil {
		return nil
	}
	return cmd()
}

// TestViewEmptyCatalog проверяет отображение пустого каталога
func TestViewEmptyCatalog(t *testing.T) {
	model, _, _ := testModel(t)

	view := model.View()
	if !strings.Contains(view, "没有找到广播") {
		t.Error("Пустой каталог должен показывать сообщение об отсутствии объявлений")
	}
	if !strings.Contains(view, "机场广播管理系统") {
		t.Error("Заголовок экрана должен отображаться")
	}
}

// TestEnterSelectsEntry проверяет выбор объявления клавишей Enter
func TestEnterSelectsEntry(t *testing.T) {
	model, cat, _ := testModel(t)
	entry := mustAdd(t, cat, catalog.Entry{
		Name:     "登机广播",
		Category: catalog.CategoryBoarding,
		Audio:    map[catalog.Language]string{catalog.LangZh: "data:audio/mpeg;base64,AAAA"},
	})

	model, cmd := model.Update(tea.KeyMsg{Type: tea.KeyEnter})
	msg := runCmd(cmd)

	selected, ok := msg.(EntrySelectedMsg)
	if !ok {
		t.Fatalf("Ожидалось EntrySelectedMsg, получено %T", msg)
	}
	if selected.ID != entry.ID || selected.Lang != "" {
		t.Errorf("Неверное сообщение выбора: %+v", selected)
	}
}

// TestDigitSelectsLanguage проверяет выбор конкретной языковой версии
func TestDigitSelectsLanguage(t *testing.T) {
	model, cat, _ := testModel(t)
	entry := mustAdd(t, cat, catalog.Entry{
		Name:     "объявление",
		Category: catalog.CategoryGeneral,
		Audio: map[catalog.Language]string{
			catalog.LangZh: "data:audio/mpeg;base64,AAAA",
			catalog.LangEn: "data:audio/mpeg;base64,BBBB",
		},
	})

	// "2" выбирает английскую версию
	model, cmd := model.Update(keyMsg("2"))
	msg := runCmd(cmd)
	selected, ok := msg.(EntrySelectedMsg)
	if !ok || selected.ID != entry.ID || selected.Lang != catalog.LangEn {
		t.Errorf("Ожидался выбор английской версии: %v", msg)
	}

	// "3" не дает сообщения — миньнаньской версии нет
	_, cmd = model.Update(keyMsg("3"))
	if msg := runCmd(cmd); msg != nil {
		t.Errorf("Выбор отсутствующей версии должен быть нейтральным: %v", msg)
	}
}

// TestDeleteConfirmFlow проверяет подтверждение удаления
func TestDeleteConfirmFlow(t *testing.T) {
	model, cat, _ := testModel(t)
	entry := mustAdd(t, cat, catalog.Entry{
		Name:     "объявление",
		Category: catalog.CategoryGeneral,
	})

	// "d" включает режим подтверждения
	model, _ = model.Update(keyMsg("d"))
	if !strings.Contains(model.View(), "确定要删除此广播吗") {
		t.Error("Должен отображаться вопрос подтверждения удаления")
	}

	// "n" отменяет удаление
	model, cmd := model.Update(keyMsg("n"))
	if msg := runCmd(cmd); msg != nil {
		t.Errorf("Отмена удаления не должна давать сообщений: %v", msg)
	}

	// "d" затем "y" подтверждает удаление
	model, _ = model.Update(keyMsg("d"))
	model, cmd = model.Update(keyMsg("y"))
	msg := runCmd(cmd)
	deleted, ok := msg.(EntryDeletedMsg)
	if !ok || deleted.ID != entry.ID {
		t.Errorf("Ожидалось EntryDeletedMsg для %d, получено %v", entry.ID, msg)
	}
}

// TestCategoryCycle проверяет переключение фильтра категории
func TestCategoryCycle(t *testing.T) {
	model, _, filters := testModel(t)

	model, _ = model.Update(keyMsg("c"))
	if filters.Category != catalog.Categories[0] {
		t.Errorf("Ожидалась первая категория, получено %q", filters.Category)
	}

	// Обратное переключение возвращает "все"
	model, _ = model.Update(keyMsg("C"))
	if filters.Category != catalog.CategoryAll {
		t.Errorf("Ожидался сброс фильтра категории, получено %q", filters.Category)
	}
}

// TestLanguageFilterCycle проверяет переключение фильтра по языку
func TestLanguageFilterCycle(t *testing.T) {
	model, _, filters := testModel(t)

	model, _ = model.Update(keyMsg("l"))
	if filters.Language != catalog.LangZh {
		t.Errorf("Ожидался фильтр zh, получено %q", filters.Language)
	}

	model, _ = model.Update(keyMsg("l"))
	model, _ = model.Update(keyMsg("l"))
	model, _ = model.Update(keyMsg("l"))
	if filters.Language != catalog.LangAll {
		t.Errorf("Цикл должен вернуться к значению без фильтра: %q", filters.Language)
	}
}

// TestSearchFocusAndInput проверяет фокус строки поиска и ввод запроса
func TestSearchFocusAndInput(t *testing.T) {
	model, cat, filters := testModel(t)
	mustAdd(t, cat, catalog.Entry{Name: "登机广播", Category: catalog.CategoryBoarding})

	model, _ = model.Update(keyMsg("/"))
	if !model.SearchFocused() {
		t.Fatal("Строка поиска должна получить фокус")
	}

	// В режиме поиска буквы идут в запрос, а не в горячие клавиши
	model, _ = model.Update(keyMsg("q"))
	if filters.Search != "q" {
		t.Errorf("Ввод должен попадать в фильтр поиска: %q", filters.Search)
	}

	model, _ = model.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if model.SearchFocused() {
		t.Error("Esc должен снимать фокус со строки поиска")
	}
}

// TestTransportKeys проверяет сообщения клавиш управления воспроизведением
func TestTransportKeys(t *testing.T) {
	model, cat, _ := testModel(t)
	mustAdd(t, cat, catalog.Entry{Name: "объявление", Category: catalog.CategoryGeneral})

	tests := []struct {
		key  string
		want tea.Msg
	}{
		{" ", PlayPauseMsg{}},
		{"n", NextMsg{}},
		{"p", PrevMsg{}},
		{"m", MuteMsg{}},
		{"[", SeekMsg{Seconds: -5}},
		{"]", SeekMsg{Seconds: 5}},
		{"+", VolumeMsg{Delta: 0.1}},
		{"-", VolumeMsg{Delta: -0.1}},
		{"u", OpenUploadMsg{}},
	}

	for _, tt := range tests {
		_, cmd := model.Update(keyMsg(tt.key))
		if msg := runCmd(cmd); msg != tt.want {
			t.Errorf("Клавиша %q дала %v, ожидалось %v", tt.key, msg, tt.want)
		}
	}
}

// TestRefreshDataClampsCursor проверяет прижатие курсора после удаления
func TestRefreshDataClampsCursor(t *testing.T) {
	model, cat, _ := testModel(t)
	first := mustAdd(t, cat, catalog.Entry{Name: "первое", Category: catalog.CategoryGeneral})
	mustAdd(t, cat, catalog.Entry{Name: "второе", Category: catalog.CategoryGeneral})

	// Курсор на втором элементе
	model, _ = model.Update(keyMsg("right"))
	model.cursor = 1

	if err := cat.RemoveByID(first.ID); err != nil {
		t.Fatalf("Ошибка удаления: %v", err)
	}
	model.RefreshData()

	if model.cursor != 0 {
		t.Errorf("Курсор должен прижаться к списку: %d", model.cursor)
	}
}
