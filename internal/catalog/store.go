package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/samber/lo"

	"github.com/hazadus/go-broadcaster/internal/storage"
)

// storageKey — ключ, под которым каталог сохраняется в хранилище.
const storageKey = "broadcasts"

// ErrCorruptData сообщает, что сохраненный каталог не удалось разобрать.
// Ошибка не фатальна: каталог в этом случае загружается пустым.
var ErrCorruptData = errors.New("поврежденные данные каталога")

// ValidationError описывает некорректные данные объявления при создании.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("некорректное поле %q: %s", e.Field, e.Reason)
}

// Store владеет упорядоченным списком объявлений и отвечает за его
// сохранение. Новые объявления вставляются в начало списка.
type Store struct {
	storage  storage.Store
	entries  []Entry
	onRemove []func(id int64)
	lastID   int64
}

// NewStore создает пустой каталог поверх указанного хранилища.
func NewStore(st storage.Store) *Store {
	return &Store{
		storage: st,
		entries: make([]Entry, 0),
	}
}

// Load поднимает каталог из хранилища. Отсутствие данных или их
// повреждение не фатальны: каталог остается пустым, повреждение
// попадает в журнал.
func (s *Store) Load() error {
	raw, ok, err := s.storage.Get(storageKey)
	if err != nil {
		return fmt.Errorf("ошибка чтения каталога: %w", err)
	}
	if !ok || raw == "" {
		s.entries = make([]Entry, 0)
		return nil
	}

	var entries []Entry
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		log.Printf("⚠️  %v: %v — каталог загружен пустым", ErrCorruptData, err)
		s.entries = make([]Entry, 0)
		return nil
	}

	for i := range entries {
		entries[i].normalize()
		if entries[i].ID > s.lastID {
			s.lastID = entries[i].ID
		}
	}
	s.entries = entries
	return nil
}

// Add проверяет и вставляет объявление в начало каталога.
// ID и время создания назначаются здесь и неизменяемы.
func (s *Store) Add(entry Entry) (*Entry, error) {
	if entry.Name == "" {
		return nil, &ValidationError{Field: "name", Reason: "название не может быть пустым"}
	}
	if !entry.Category.Valid() {
		return nil, &ValidationError{Field: "category", Reason: fmt.Sprintf("неизвестная категория %q", entry.Category)}
	}

	entry.ID = s.nextID()
	entry.CreatedAt = time.Now()
	if entry.Audio == nil {
		entry.Audio = make(map[Language]string)
	}
	(&entry).normalize()

	s.entries = append([]Entry{entry}, s.entries...)
	if err := s.save(); err != nil {
		return nil, err
	}

	added := s.entries[0]
	return &added, nil
}

// RemoveByID удаляет объявление. Отсутствие ID не является ошибкой.
// Зарегистрированные обработчики удаления вызываются до сохранения,
// чтобы секвенсор успел сбросить активную ссылку.
func (s *Store) RemoveByID(id int64) error {
	index := -1
	for i := range s.entries {
		if s.entries[i].ID == id {
			index = i
			break
		}
	}
	if index < 0 {
		return nil
	}

	s.entries = append(s.entries[:index], s.entries[index+1:]...)
	for _, fn := range s.onRemove {
		fn(id)
	}
	return s.save()
}

// ListAll возвращает копию текущего упорядоченного списка.
func (s *Store) ListAll() []Entry {
	entries := make([]Entry, len(s.entries))
	copy(entries, s.entries)
	return entries
}

// ByID возвращает объявление по ID.
func (s *Store) ByID(id int64) (Entry, bool) {
	for i := range s.entries {
		if s.entries[i].ID == id {
			return s.entries[i], true
		}
	}
	return Entry{}, false
}

// Len возвращает количество объявлений в каталоге.
func (s *Store) Len() int {
	return len(s.entries)
}

// OnRemove регистрирует обработчик, вызываемый при удалении объявления.
func (s *Store) OnRemove(fn func(id int64)) {
	s.onRemove = append(s.onRemove, fn)
}

// CountByCategory возвращает количество объявлений в каждой категории.
func (s *Store) CountByCategory() map[Category]int {
	return lo.CountValuesBy(s.entries, func(e Entry) Category {
		return e.Category
	})
}

// Seed добавляет демонстрационные объявления в пустой каталог.
// Для непустого каталога ничего не делает.
func (s *Store) Seed() error {
	if len(s.entries) > 0 {
		return nil
	}

	// Вставка идет в начало, поэтому порядок обратный отображаемому.
	demo := []Entry{
		{Name: "登机广播", Category: CategoryBoarding},
		{Name: "三超行李提醒", Category: CategoryOversized},
	}
	for _, entry := range demo {
		if _, err := s.Add(entry); err != nil {
			return fmt.Errorf("ошибка создания демонстрационных данных: %w", err)
		}
	}
	return nil
}

// save сериализует каталог и немедленно записывает его в хранилище.
func (s *Store) save() error {
	data, err := json.Marshal(s.entries)
	if err != nil {
		return fmt.Errorf("ошибка сериализации каталога: %w", err)
	}
	if err := s.storage.Set(storageKey, string(data)); err != nil {
		return fmt.Errorf("ошибка сохранения каталога: %w", err)
	}
	return nil
}

// nextID выдает идентификатор в миллисекундах Unix-времени.
// При совпадении с предыдущим берется следующее значение, чтобы
// идентификаторы оставались уникальными и сортируемыми по созданию.
func (s *Store) nextID() int64 {
	id := time.Now().UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	s.lastID = id
	return id
}
