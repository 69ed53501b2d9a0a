package client

import (
	"encoding/json"
	"fmt"
	"sync"
)

// Ключи локального кэша. Каждый ключ читается с явным значением
// по умолчанию, записи перетирают друг друга целиком — последняя
// запись по ключу побеждает, транзакций между ключами нет.
const (
	KeyCurrentUser   = "current_user"
	KeyRoster        = "user_roster"
	KeyGlobalConfig  = "global_config"
	KeyModules       = "content_modules"
	KeyMaterials     = "content_materials"
	KeyStreams       = "content_streams"
	KeyEvents        = "content_events"
	KeyScenarios     = "content_scenarios"
	KeyNotifications = "local_notifications"
)

// Storage — локальное хранилище "ключ-значение"
type Storage interface {
	GetRaw(key string) ([]byte, bool)
	SetRaw(key string, value []byte) error
	Close() error
}

// Get читает значение по ключу. Если значения нет или оно не
// разбирается, возвращается def — чтение никогда не падает.
func Get[T any](s Storage, key string, def T) T {
	raw, ok := s.GetRaw(key)
	if !ok {
		return def
	}

	var value T
	if err := json.Unmarshal(raw, &value); err != nil {
		return def
	}
	return value
}

// Set сериализует значение и безусловно перезаписывает ключ
func Set[T any](s Storage, key string, value T) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("ошибка сериализации значения для ключа %s: %w", key, err)
	}
	return s.SetRaw(key, raw)
}

// MemoryStorage — запасное in-memory хранилище на случай, когда
// SQLite недоступен. Данные живут до завершения процесса.
type MemoryStorage struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		data: make(map[string][]byte),
	}
}

func (m *MemoryStorage) GetRaw(key string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	raw, ok := m.data[key]
	return raw, ok
}

func (m *MemoryStorage) SetRaw(key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.data[key] = value
	return nil
}

func (m *MemoryStorage) Close() error {
	return nil
}
