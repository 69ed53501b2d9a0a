package client

import (
	"context"
	"sort"
	"time"

	"golang.org/x/exp/slog"

	"github.com/sCOSTAkg/krauzzzz/internal/domain/user"
)

// SyncEngine управляет жизненным циклом записи пользователя:
// загрузка с разрешением конфликтов, оптимистичная локальная запись
// с фоновой отправкой на сервер, список участников.
//
// Блокировок нет: два процесса, сохраняющие одного пользователя,
// могут отправить запросы одновременно. Допуск по меткам времени
// гасит такую гонку, а не исключает её.
type SyncEngine struct {
	app       *App
	log       *slog.Logger
	tolerance time.Duration
}

func NewSyncEngine(app *App) *SyncEngine {
	tolerance := app.config.SyncTolerance
	if tolerance <= 0 {
		tolerance = 2000 * time.Millisecond
	}

	return &SyncEngine{
		app:       app,
		log:       app.log,
		tolerance: tolerance,
	}
}

// LoadUser возвращает запись пользователя, сверив локальную копию с
// сервером. Побеждает та сторона, чей LastSync новее больше чем на
// допуск; разница внутри допуска считается "уже синхронизировано" и
// оставляет локальную копию (гасит дрожание часов и почти
// одновременные сохранения).
func (s *SyncEngine) LoadUser(ctx context.Context, telegramID string) *user.User {
	local := Get(s.app.storage, KeyCurrentUser, (*user.User)(nil))
	if local != nil && local.TelegramID != telegramID {
		// В кэше лежит другой пользователь — для этого id копии нет
		local = nil
	}

	row := s.app.remote.FindByField(ctx, TableUsers, user.FieldTelegramID, telegramID)
	if row == nil {
		if local != nil {
			// Сервер записи не знает — отправим нашу в фоне
			s.pushInBackground(*local)
			return local
		}

		fresh := user.Default(telegramID)
		if err := Set(s.app.storage, KeyCurrentUser, fresh); err != nil {
			s.log.Warn("Не удалось сохранить новую запись", "error", err)
		}
		s.log.Debug("Создана новая запись пользователя", "telegram_id", telegramID)
		return fresh
	}

	remote := user.FromFields(row.ID, row.Fields)
	if local == nil {
		if err := Set(s.app.storage, KeyCurrentUser, remote); err != nil {
			s.log.Warn("Не удалось сохранить запись с сервера", "error", err)
		}
		s.log.Debug("Запись пользователя получена с сервера", "telegram_id", telegramID)
		return remote
	}

	// Переносим привязку к строке, если локальная копия её ещё не знает
	if local.AirtableID == "" {
		local.AirtableID = row.ID
		if err := Set(s.app.storage, KeyCurrentUser, local); err != nil {
			s.log.Warn("Не удалось сохранить привязку к строке", "error", err)
		}
	}

	delta := time.Duration(local.LastSync-remote.LastSync) * time.Millisecond
	switch {
	case delta > s.tolerance:
		// Локальная копия строго новее — сервер догонит в фоне
		s.log.Debug("Локальная запись новее", "delta_ms", delta.Milliseconds())
		s.pushInBackground(*local)
		return local

	case delta < -s.tolerance:
		// Сервер строго новее — перетираем локальную копию
		s.log.Debug("Запись на сервере новее", "delta_ms", delta.Milliseconds())
		if err := Set(s.app.storage, KeyCurrentUser, remote); err != nil {
			s.log.Warn("Не удалось перезаписать локальную копию", "error", err)
		}
		return remote

	default:
		// Разница внутри допуска — считаем записи синхронизированными
		return local
	}
}

// SaveUser сохраняет запись: локальный кэш обновляется синхронно и
// состояние видно сразу, отправка на сервер идёт в фоне и её сбой до
// вызывающего кода не доходит — только в лог.
func (s *SyncEngine) SaveUser(record *user.User) error {
	record.Touch()

	if err := Set(s.app.storage, KeyCurrentUser, record); err != nil {
		return err
	}

	if err := s.app.bus.Publish(); err != nil {
		s.log.Warn("Не удалось опубликовать сигнал", "error", err)
	}

	s.pushInBackground(*record)
	return nil
}

// pushInBackground отправляет копию записи на сервер отдельной
// горутиной. Запись передаётся по значению: фоновая задача не должна
// видеть последующие правки вызывающего кода.
func (s *SyncEngine) pushInBackground(record user.User) {
	s.app.goAsync("push_user", func(ctx context.Context) {
		s.push(ctx, record)
	})
}

// push выполняет find-or-create/update записи на сервере
func (s *SyncEngine) push(ctx context.Context, record user.User) {
	fields, err := record.Fields()
	if err != nil {
		s.log.Warn("Не удалось подготовить поля записи", "error", err)
		return
	}

	rowID := record.AirtableID
	if rowID == "" {
		if row := s.app.remote.FindByField(ctx, TableUsers, user.FieldTelegramID, record.TelegramID); row != nil {
			rowID = row.ID
		}
	}

	if rowID != "" {
		if row := s.app.remote.Update(ctx, TableUsers, rowID, fields); row == nil {
			s.log.Warn("Не удалось обновить запись на сервере", "telegram_id", record.TelegramID)
			return
		}
		if record.AirtableID == "" {
			// Привязка нашлась поиском — закрепляем, чтобы следующие
			// сохранения не повторяли его
			s.persistLinkage(record.TelegramID, rowID)
		}
		return
	}

	row := s.app.remote.Create(ctx, TableUsers, fields)
	if row == nil {
		s.log.Warn("Не удалось создать запись на сервере", "telegram_id", record.TelegramID)
		return
	}

	s.persistLinkage(record.TelegramID, row.ID)
	s.log.Debug("Запись создана на сервере", "telegram_id", record.TelegramID, "row_id", row.ID)
}

// persistLinkage закрепляет привязку к строке в кэше и сообщает
// остальным процессам. Привязка пишется один раз и не меняется.
func (s *SyncEngine) persistLinkage(telegramID, rowID string) {
	current := Get(s.app.storage, KeyCurrentUser, (*user.User)(nil))
	if current == nil || current.TelegramID != telegramID || current.AirtableID != "" {
		return
	}

	current.AirtableID = rowID
	if err := Set(s.app.storage, KeyCurrentUser, current); err != nil {
		s.log.Warn("Не удалось сохранить привязку к строке", "error", err)
		return
	}
	if err := s.app.bus.Publish(); err != nil {
		s.log.Warn("Не удалось опубликовать сигнал", "error", err)
	}
}

// Leaderboard возвращает список участников по убыванию опыта.
// Успешный ответ сервера целиком заменяет локальный список; при
// сбое возвращается последний снимок, пусть и устаревший.
func (s *SyncEngine) Leaderboard(ctx context.Context) []user.User {
	rows := s.app.remote.List(ctx, TableUsers)
	if len(rows) > 0 {
		roster := make([]user.User, 0, len(rows))
		for _, row := range rows {
			u := user.FromFields(row.ID, row.Fields)
			if u.TelegramID == "" {
				continue
			}
			roster = append(roster, *u)
		}

		if len(roster) > 0 {
			sort.SliceStable(roster, func(i, j int) bool {
				return roster[i].XP > roster[j].XP
			})
			if err := Set(s.app.storage, KeyRoster, roster); err != nil {
				s.log.Warn("Не удалось сохранить список участников", "error", err)
			}
			return roster
		}
	}

	return Get(s.app.storage, KeyRoster, []user.User{})
}
