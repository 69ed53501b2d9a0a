package client

import (
	"context"
	"sort"
	"sync"

	"golang.org/x/exp/slog"

	"github.com/sCOSTAkg/krauzzzz/internal/domain/content"
)

// ContentCache обслуживает редко меняющиеся коллекции по трём
// ярусам: сервер → локальный снимок → встроенный набор. Успешная
// загрузка с сервера целиком заменяет снимок и рассылается сигнал;
// пополнения по одной записи не бывает.
type ContentCache struct {
	app *App
	log *slog.Logger
}

// ContentBundle — весь контент приложения за один проход
type ContentBundle struct {
	Modules   []content.Module        `json:"modules"`
	Materials []content.Material      `json:"materials"`
	Streams   []content.Stream        `json:"streams"`
	Events    []content.CalendarEvent `json:"events"`
	Scenarios []content.Scenario      `json:"scenarios"`
}

func NewContentCache(app *App) *ContentCache {
	return &ContentCache{
		app: app,
		log: app.log,
	}
}

// fetchCollection — общий трёхъярусный путь чтения коллекции.
// Пустой table означает, что серверного яруса у коллекции нет.
func fetchCollection[T any](ctx context.Context, c *ContentCache, table, key string,
	fromRows func([]Row) []T, defaults func() []T) []T {

	if table != "" {
		rows := c.app.remote.List(ctx, table)
		if len(rows) > 0 {
			items := fromRows(rows)
			if len(items) > 0 {
				if err := Set(c.app.storage, key, items); err != nil {
					c.log.Warn("Не удалось сохранить снимок коллекции", "key", key, "error", err)
				}
				if err := c.app.bus.Publish(); err != nil {
					c.log.Warn("Не удалось опубликовать сигнал", "error", err)
				}
				return items
			}
		}
	}

	if cached := Get(c.app.storage, key, []T(nil)); len(cached) > 0 {
		return cached
	}

	return defaults()
}

// Materials возвращает материалы
func (c *ContentCache) Materials(ctx context.Context) []content.Material {
	return fetchCollection(ctx, c, TableMaterials, KeyMaterials,
		func(rows []Row) []content.Material {
			items := make([]content.Material, 0, len(rows))
			for _, row := range rows {
				if m := materialFromRow(row); m.ID != "" {
					items = append(items, m)
				}
			}
			return items
		},
		content.DefaultMaterials)
}

// Streams возвращает эфиры
func (c *ContentCache) Streams(ctx context.Context) []content.Stream {
	return fetchCollection(ctx, c, TableStreams, KeyStreams,
		func(rows []Row) []content.Stream {
			items := make([]content.Stream, 0, len(rows))
			for _, row := range rows {
				if s := streamFromRow(row); s.ID != "" {
					items = append(items, s)
				}
			}
			return items
		},
		content.DefaultStreams)
}

// Events возвращает события календаря
func (c *ContentCache) Events(ctx context.Context) []content.CalendarEvent {
	return fetchCollection(ctx, c, TableEvents, KeyEvents,
		func(rows []Row) []content.CalendarEvent {
			items := make([]content.CalendarEvent, 0, len(rows))
			for _, row := range rows {
				if e := eventFromRow(row); e.ID != "" {
					items = append(items, e)
				}
			}
			return items
		},
		content.DefaultEvents)
}

// Scenarios возвращает сценарии практики
func (c *ContentCache) Scenarios(ctx context.Context) []content.Scenario {
	return fetchCollection(ctx, c, TableScenarios, KeyScenarios,
		func(rows []Row) []content.Scenario {
			items := make([]content.Scenario, 0, len(rows))
			for _, row := range rows {
				if s := scenarioFromRow(row); s.ID != "" {
					items = append(items, s)
				}
			}
			return items
		},
		content.DefaultScenarios)
}

// Notifications возвращает локальные уведомления. Серверного яруса
// у этой коллекции нет.
func (c *ContentCache) Notifications(ctx context.Context) []content.Notification {
	return fetchCollection(ctx, c, "", KeyNotifications,
		func([]Row) []content.Notification { return nil },
		content.DefaultNotifications)
}

// GlobalConfig возвращает настройки приложения по тем же трём ярусам
func (c *ContentCache) GlobalConfig(ctx context.Context) GlobalConfig {
	rows := c.app.remote.List(ctx, TableConfig)
	if len(rows) > 0 {
		cfg := globalConfigFromRows(rows)
		if err := Set(c.app.storage, KeyGlobalConfig, cfg); err != nil {
			c.log.Warn("Не удалось сохранить снимок настроек", "error", err)
		}
		if err := c.app.bus.Publish(); err != nil {
			c.log.Warn("Не удалось опубликовать сигнал", "error", err)
		}
		return cfg
	}

	return Get(c.app.storage, KeyGlobalConfig, GlobalConfig{})
}

// Modules возвращает модули с вложенными уроками. Уроки и модули
// лежат на сервере плоскими таблицами и связаны только внутренними
// id строк, поэтому обе таблицы загружаются параллельно и
// собираются в дерево на клиенте.
func (c *ContentCache) Modules(ctx context.Context) []content.Module {
	settings := c.app.settings()
	if settings.Configured() {
		var (
			wg         sync.WaitGroup
			lessonRows []Row
			moduleRows []Row
		)

		wg.Add(2)
		go func() {
			defer wg.Done()
			lessonRows = c.app.remote.List(ctx, TableLessons)
		}()
		go func() {
			defer wg.Done()
			moduleRows = c.app.remote.List(ctx, TableModules)
		}()
		wg.Wait()

		if len(moduleRows) > 0 {
			modules := assembleModules(moduleRows, lessonRows)
			if len(modules) > 0 {
				if err := Set(c.app.storage, KeyModules, modules); err != nil {
					c.log.Warn("Не удалось сохранить снимок модулей", "error", err)
				}
				if err := c.app.bus.Publish(); err != nil {
					c.log.Warn("Не удалось опубликовать сигнал", "error", err)
				}
				return modules
			}
		}
	}

	if cached := Get(c.app.storage, KeyModules, []content.Module(nil)); len(cached) > 0 {
		return cached
	}

	return content.DefaultModules()
}

// assembleModules собирает дерево модулей из плоских строк.
//
// Каждый урок раскладывается по корзинам всех модулей, на которые он
// ссылается (урок может входить в несколько модулей). Модуль без
// корзины добирает уроки по собственному ссылочному полю. Дубли
// модулей по названию отбрасываются: остаётся модуль с уроками либо
// первое пустое вхождение названия.
func assembleModules(moduleRows, lessonRows []Row) []content.Module {
	lessons := make([]content.Lesson, 0, len(lessonRows))
	for _, row := range lessonRows {
		lessons = append(lessons, lessonFromRow(row))
	}

	// Корзины уроков по внутреннему id строки модуля
	buckets := make(map[string][]content.Lesson)
	byRowID := make(map[string]content.Lesson, len(lessons))
	for _, lesson := range lessons {
		byRowID[lesson.RowID] = lesson
		for _, moduleRowID := range lesson.ModuleRowIDs {
			buckets[moduleRowID] = append(buckets[moduleRowID], lesson)
		}
	}

	seenTitles := make(map[string]bool)
	modules := make([]content.Module, 0, len(moduleRows))

	for _, row := range moduleRows {
		module := moduleFromRow(row)

		bucket := buckets[module.RowID]
		if len(bucket) == 0 {
			// Запасной путь: ссылочное поле на стороне модуля
			for _, lessonRowID := range fieldStrings(row.Fields, "lessons") {
				if lesson, ok := byRowID[lessonRowID]; ok {
					bucket = append(bucket, lesson)
				}
			}
		}

		sort.SliceStable(bucket, func(i, j int) bool {
			return bucket[i].Order < bucket[j].Order
		})
		module.Lessons = bucket

		// Подавление дублей-заглушек
		if len(module.Lessons) == 0 {
			if seenTitles[module.Title] {
				continue
			}
		}
		seenTitles[module.Title] = true

		modules = append(modules, module)
	}

	sort.SliceStable(modules, func(i, j int) bool {
		return modules[i].Order < modules[j].Order
	})

	return modules
}

// FetchAll загружает все коллекции за один проход
func (c *ContentCache) FetchAll(ctx context.Context) ContentBundle {
	return ContentBundle{
		Modules:   c.Modules(ctx),
		Materials: c.Materials(ctx),
		Streams:   c.Streams(ctx),
		Events:    c.Events(ctx),
		Scenarios: c.Scenarios(ctx),
	}
}
