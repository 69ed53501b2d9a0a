package client

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"
	"golang.org/x/exp/slog"
)

// Тип сигнала шины. Сигнал не несёт состояния — получатель должен
// перечитать локальный кэш, а не применять "событие".
const SignalSyncUpdate = "SYNC_UPDATE"

const signalFileName = "sync_signal.json"

// SyncSignal — сигнал "что-то изменилось, перечитай локальное состояние"
type SyncSignal struct {
	Type      string `json:"signal_type"`
	Timestamp int64  `json:"timestamp"`

	// Sender нужен только для самоисключения: процесс не получает
	// собственные публикации.
	Sender string `json:"sender"`
}

// SyncBus — широковещательная шина между процессами одного
// приложения. Публикация — атомарная перезапись сигнального файла в
// директории данных, получение — fsnotify-подписка на эту
// директорию. Гарантий доставки и порядка нет.
type SyncBus struct {
	path    string
	id      string
	log     *slog.Logger
	watcher *fsnotify.Watcher

	mu       sync.Mutex
	handlers []func(SyncSignal)

	done chan struct{}
	wg   sync.WaitGroup
}

// NewSyncBus создает шину поверх директории dir и запускает приём
func NewSyncBus(dir string, log *slog.Logger) (*SyncBus, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("ошибка создания наблюдателя: %w", err)
	}

	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("ошибка подписки на директорию %s: %w", dir, err)
	}

	b := &SyncBus{
		path:    filepath.Join(dir, signalFileName),
		id:      uuid.NewString(),
		log:     log,
		watcher: watcher,
		done:    make(chan struct{}),
	}

	b.wg.Add(1)
	go b.loop()

	return b, nil
}

// InstanceID возвращает идентификатор этого процесса на шине
func (b *SyncBus) InstanceID() string {
	return b.id
}

// Publish рассылает сигнал всем остальным процессам на шине.
// Собственный подписчик публикацию не получит.
func (b *SyncBus) Publish() error {
	signal := SyncSignal{
		Type:      SignalSyncUpdate,
		Timestamp: time.Now().UnixMilli(),
		Sender:    b.id,
	}

	raw, err := json.Marshal(signal)
	if err != nil {
		return fmt.Errorf("ошибка сериализации сигнала: %w", err)
	}

	// Пишем во временный файл и переименовываем, чтобы получатели
	// не увидели недописанный сигнал. Суффикс с id процесса: параллельные
	// публикации соседей не перетирают черновики друг друга.
	tmp := b.path + "." + b.id + ".tmp"
	if err := os.WriteFile(tmp, raw, 0600); err != nil {
		return fmt.Errorf("ошибка записи сигнала: %w", err)
	}
	if err := os.Rename(tmp, b.path); err != nil {
		return fmt.Errorf("ошибка публикации сигнала: %w", err)
	}

	b.log.Debug("Сигнал опубликован", "timestamp", signal.Timestamp)
	return nil
}

// Subscribe регистрирует обработчик входящих сигналов
func (b *SyncBus) Subscribe(fn func(SyncSignal)) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers = append(b.handlers, fn)
}

func (b *SyncBus) loop() {
	defer b.wg.Done()

	for {
		select {
		case <-b.done:
			return
		case event, ok := <-b.watcher.Events:
			if !ok {
				return
			}
			if event.Name != b.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			b.deliver()
		case err, ok := <-b.watcher.Errors:
			if !ok {
				return
			}
			b.log.Warn("Ошибка наблюдателя шины", "error", err)
		}
	}
}

func (b *SyncBus) deliver() {
	raw, err := os.ReadFile(b.path)
	if err != nil {
		// Файл мог быть перезаписан соседним процессом прямо сейчас
		return
	}

	var signal SyncSignal
	if err := json.Unmarshal(raw, &signal); err != nil {
		b.log.Warn("Не удалось разобрать сигнал", "error", err)
		return
	}

	// Самоисключение
	if signal.Sender == b.id {
		return
	}

	b.mu.Lock()
	handlers := make([]func(SyncSignal), len(b.handlers))
	copy(handlers, b.handlers)
	b.mu.Unlock()

	b.log.Debug("Получен сигнал", "sender", signal.Sender, "timestamp", signal.Timestamp)
	for _, fn := range handlers {
		fn(signal)
	}
}

// Close останавливает приём сигналов
func (b *SyncBus) Close() error {
	close(b.done)
	err := b.watcher.Close()
	b.wg.Wait()
	return err
}
