package client

import (
	"context"
	"sync"

	"golang.org/x/exp/slog"

	"github.com/sCOSTAkg/krauzzzz/internal/app/client/config"
)

// App — общий экземпляр приложения: владеет хранилищем, шиной,
// клиентом сервера и движком синхронизации. Создаётся один раз на
// старте и передаётся по ссылке; при завершении останавливает свои
// фоновые задачи.
type App struct {
	config  *config.Config
	log     *slog.Logger
	storage Storage
	bus     *SyncBus
	remote  *TableClient
	engine  *SyncEngine
	content *ContentCache

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func New(cfg *config.Config, log *slog.Logger) (*App, error) {
	ctx, cancel := context.WithCancel(context.Background())

	app := &App{
		config: cfg,
		log:    log,
		ctx:    ctx,
		cancel: cancel,
	}

	// Локальное хранилище: SQLite, при сбое — память
	sqliteStorage, err := NewSQLiteStorage(cfg.DataPath)
	if err != nil {
		log.Warn("Не удалось инициализировать SQLite, используем память", "error", err)
		app.storage = NewMemoryStorage()
	} else {
		app.storage = sqliteStorage
	}

	// Шина между процессами
	bus, err := NewSyncBus(cfg.ConfigDir, log)
	if err != nil {
		app.storage.Close()
		cancel()
		return nil, err
	}
	app.bus = bus

	app.remote = NewTableClient(app.settings, cfg.RemoteTimeout, log)
	app.engine = NewSyncEngine(app)
	app.content = NewContentCache(app)

	return app, nil
}

// settings собирает действующие реквизиты сервера: окружение плюс
// переопределения из кэшированного GlobalConfig. Снимается заново
// перед каждым сетевым вызовом.
func (a *App) settings() RemoteSettings {
	s := RemoteSettings{
		Endpoint: a.config.Endpoint,
		BaseID:   a.config.BaseID,
		APIKey:   a.config.APIKey,
	}

	global := Get(a.storage, KeyGlobalConfig, GlobalConfig{})
	if global.Endpoint != "" {
		s.Endpoint = global.Endpoint
	}
	if global.BaseID != "" {
		s.BaseID = global.BaseID
	}
	if global.APIKey != "" {
		s.APIKey = global.APIKey
	}
	s.Tables = global.Tables

	return s
}

// goAsync запускает отвязанную фоновую задачу. Задача живёт не
// дольше приложения, её сбой уходит только в лог.
func (a *App) goAsync(name string, fn func(ctx context.Context)) {
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				a.log.Warn("Паника в фоновой задаче", "task", name, "panic", r)
			}
		}()
		fn(a.ctx)
	}()
}

// Engine возвращает движок синхронизации
func (a *App) Engine() *SyncEngine {
	return a.engine
}

// Content возвращает кэш контента
func (a *App) Content() *ContentCache {
	return a.content
}

// Bus возвращает шину сигналов
func (a *App) Bus() *SyncBus {
	return a.bus
}

// Storage возвращает локальное хранилище
func (a *App) Storage() Storage {
	return a.storage
}

// Wait дожидается завершения запущенных фоновых задач
func (a *App) Wait() {
	a.wg.Wait()
}

// Shutdown останавливает фоновые задачи и освобождает ресурсы
func (a *App) Shutdown() {
	a.log.Debug("Завершение работы клиента")

	a.cancel()
	a.wg.Wait()

	if err := a.bus.Close(); err != nil {
		a.log.Warn("Ошибка остановки шины", "error", err)
	}
	if err := a.storage.Close(); err != nil {
		a.log.Warn("Ошибка закрытия хранилища", "error", err)
	}
}
