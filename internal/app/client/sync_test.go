package client

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/sCOSTAkg/krauzzzz/internal/domain/user"
)

func remoteUserRow(t *testing.T, rowID, telegramID, name string, xp int, lastSync int64) Row {
	t.Helper()

	u := user.Default(telegramID)
	u.Name = name
	u.XP = xp
	u.Level = xp/100 + 1
	u.LastSync = lastSync

	fields, err := u.Fields()
	if err != nil {
		t.Fatalf("Ошибка подготовки полей: %v", err)
	}
	return Row{ID: rowID, Fields: fields}
}

func TestLoadUserCreatesDefault(t *testing.T) {
	app := newTestApp(t, "")

	got := app.Engine().LoadUser(context.Background(), "100")
	if got == nil {
		t.Fatal("Ожидалась запись пользователя")
	}
	if got.TelegramID != "100" {
		t.Errorf("Ожидался telegram_id 100, получен %s", got.TelegramID)
	}
	if got.Name != "Ученик" || got.Level != 1 {
		t.Errorf("Ожидалась запись по умолчанию, получено %+v", got)
	}

	// Новая запись сразу попадает в кэш
	cached := Get(app.Storage(), KeyCurrentUser, (*user.User)(nil))
	if cached == nil || cached.TelegramID != "100" {
		t.Error("Новая запись не сохранена в кэше")
	}
}

func TestLoadUserConflictResolution(t *testing.T) {
	base := time.Now().UnixMilli()

	tests := []struct {
		name       string
		localSync  int64
		remoteSync int64
		wantName   string
	}{
		{
			name:       "Сервер строго новее",
			localSync:  base,
			remoteSync: base + 10000,
			wantName:   "Сервер",
		},
		{
			name:       "Локальная копия строго новее",
			localSync:  base + 10000,
			remoteSync: base,
			wantName:   "Локальная",
		},
		{
			name:       "Разница внутри допуска",
			localSync:  base,
			remoteSync: base + 500,
			wantName:   "Локальная",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := newFakeBackend()
			defer backend.close()
			backend.put(TableUsers, remoteUserRow(t, "rec001", "100", "Сервер", 900, tt.remoteSync))

			app := newTestApp(t, backend.server.URL)

			local := user.Default("100")
			local.Name = "Локальная"
			local.XP = 10
			local.LastSync = tt.localSync
			if err := Set(app.Storage(), KeyCurrentUser, local); err != nil {
				t.Fatalf("Ошибка подготовки кэша: %v", err)
			}

			got := app.Engine().LoadUser(context.Background(), "100")
			if got.Name != tt.wantName {
				t.Errorf("Ожидалась запись %q, получена %q", tt.wantName, got.Name)
			}

			// Победившая сторона лежит в кэше
			app.Wait()
			cached := Get(app.Storage(), KeyCurrentUser, (*user.User)(nil))
			if cached == nil || cached.Name != tt.wantName {
				t.Errorf("В кэше ожидалась запись %q", tt.wantName)
			}
		})
	}
}

// Конфликт разрешается по меткам времени, а не по содержимому:
// при победе сервера локальные правки перетираются целиком.
func TestLoadUserRemoteWinsWholesale(t *testing.T) {
	base := time.Now().UnixMilli()

	backend := newFakeBackend()
	defer backend.close()
	backend.put(TableUsers, remoteUserRow(t, "rec001", "100", "Сервер", 500, base+10000))

	app := newTestApp(t, backend.server.URL)

	local := user.Default("100")
	local.CompleteLesson("les-local-only", 20)
	local.LastSync = base
	if err := Set(app.Storage(), KeyCurrentUser, local); err != nil {
		t.Fatalf("Ошибка подготовки кэша: %v", err)
	}

	got := app.Engine().LoadUser(context.Background(), "100")
	for _, id := range got.CompletedLessons {
		if id == "les-local-only" {
			t.Error("Локальный урок пережил победу сервера, слияния быть не должно")
		}
	}
	if got.XP != 500 {
		t.Errorf("Ожидался опыт с сервера 500, получено %d", got.XP)
	}
}

func TestLoadUserPushesWhenRemoteMissing(t *testing.T) {
	backend := newFakeBackend()
	defer backend.close()
	backend.put(TableUsers)

	app := newTestApp(t, backend.server.URL)

	local := user.Default("100")
	local.Name = "Локальная"
	local.LastSync = time.Now().UnixMilli()
	if err := Set(app.Storage(), KeyCurrentUser, local); err != nil {
		t.Fatalf("Ошибка подготовки кэша: %v", err)
	}

	got := app.Engine().LoadUser(context.Background(), "100")
	if got.Name != "Локальная" {
		t.Errorf("Ожидалась локальная запись, получена %q", got.Name)
	}

	// Фоновая отправка создаёт строку и закрепляет привязку
	app.Wait()
	rows := backend.rows(TableUsers)
	if len(rows) != 1 {
		t.Fatalf("Ожидалась 1 созданная строка, получено %d", len(rows))
	}

	cached := Get(app.Storage(), KeyCurrentUser, (*user.User)(nil))
	if cached == nil || cached.AirtableID != rows[0].ID {
		t.Error("Привязка к созданной строке не сохранена в кэше")
	}
}

func TestSaveUserOptimistic(t *testing.T) {
	backend := newFakeBackend()
	defer backend.close()
	backend.setFail(true)

	app := newTestApp(t, backend.server.URL)

	record := user.Default("100")
	record.CompleteLesson("les-welcome", 20)

	// Сбой сервера сохранение не срывает
	if err := app.Engine().SaveUser(record); err != nil {
		t.Fatalf("Ожидалось успешное сохранение, получена ошибка: %v", err)
	}
	if record.LastSync == 0 {
		t.Error("Метка времени записи не обновлена")
	}

	app.Wait()
	cached := Get(app.Storage(), KeyCurrentUser, (*user.User)(nil))
	if cached == nil {
		t.Fatal("Запись не попала в кэш")
	}
	if cached.XP != 20 || len(cached.CompletedLessons) != 1 {
		t.Errorf("В кэше ожидалась обновлённая запись, получено %+v", cached)
	}
}

func TestSaveUserUpdatesExistingRow(t *testing.T) {
	backend := newFakeBackend()
	defer backend.close()
	backend.put(TableUsers, remoteUserRow(t, "rec001", "100", "Ученик", 0, 0))

	app := newTestApp(t, backend.server.URL)

	record := user.Default("100")
	record.AirtableID = "rec001"
	record.AddXP(120)

	if err := app.Engine().SaveUser(record); err != nil {
		t.Fatalf("Ошибка сохранения: %v", err)
	}
	app.Wait()

	rows := backend.rows(TableUsers)
	if len(rows) != 1 {
		t.Fatalf("Ожидалось обновление существующей строки, строк на сервере: %d", len(rows))
	}
	if xp := user.FieldInt(rows[0].Fields, user.FieldXP); xp != 120 {
		t.Errorf("Ожидался опыт 120 на сервере, получено %d", xp)
	}
	if lvl := user.FieldInt(rows[0].Fields, user.FieldLevel); lvl != 2 {
		t.Errorf("Ожидался уровень 2 на сервере, получено %d", lvl)
	}
}

// Повторное сохранение той же записи меняет только метку времени
func TestSaveUserIdempotent(t *testing.T) {
	app := newTestApp(t, "")

	record := user.Default("100")
	record.CompleteLesson("les-welcome", 20)
	if err := app.Engine().SaveUser(record); err != nil {
		t.Fatalf("Ошибка первого сохранения: %v", err)
	}
	first := Get(app.Storage(), KeyCurrentUser, (*user.User)(nil))

	if err := app.Engine().SaveUser(first); err != nil {
		t.Fatalf("Ошибка повторного сохранения: %v", err)
	}
	second := Get(app.Storage(), KeyCurrentUser, (*user.User)(nil))

	first.LastSync = 0
	second.LastSync = 0
	a, _ := json.Marshal(first)
	b, _ := json.Marshal(second)
	if string(a) != string(b) {
		t.Errorf("Записи различаются не только меткой времени:\n%s\n%s", a, b)
	}
}

// Привязка, найденная поиском при отправке, закрепляется в кэше:
// следующие сохранения обходятся без повторного поиска
func TestSaveUserPersistsDiscoveredLinkage(t *testing.T) {
	backend := newFakeBackend()
	defer backend.close()
	backend.put(TableUsers, remoteUserRow(t, "rec001", "100", "Ученик", 0, 0))

	app := newTestApp(t, backend.server.URL)

	record := user.Default("100")
	record.AddXP(30)
	if err := app.Engine().SaveUser(record); err != nil {
		t.Fatalf("Ошибка сохранения: %v", err)
	}
	app.Wait()

	rows := backend.rows(TableUsers)
	if len(rows) != 1 {
		t.Fatalf("Ожидалось обновление существующей строки, строк на сервере: %d", len(rows))
	}

	cached := Get(app.Storage(), KeyCurrentUser, (*user.User)(nil))
	if cached == nil || cached.AirtableID != "rec001" {
		t.Error("Найденная привязка к строке не сохранена в кэше")
	}
}

func TestLeaderboard(t *testing.T) {
	backend := newFakeBackend()
	defer backend.close()
	backend.put(TableUsers,
		remoteUserRow(t, "rec001", "100", "Анна", 50, 0),
		remoteUserRow(t, "rec002", "200", "Борис", 300, 0),
		Row{ID: "rec003", Fields: map[string]any{"name": "Без идентификатора"}},
	)

	app := newTestApp(t, backend.server.URL)

	roster := app.Engine().Leaderboard(context.Background())
	if len(roster) != 2 {
		t.Fatalf("Ожидалось 2 участника, получено %d", len(roster))
	}
	if roster[0].Name != "Борис" || roster[1].Name != "Анна" {
		t.Errorf("Ожидался порядок по убыванию опыта, получено %s, %s", roster[0].Name, roster[1].Name)
	}

	// При сбое сервера возвращается последний снимок
	backend.setFail(true)
	cached := app.Engine().Leaderboard(context.Background())
	if len(cached) != 2 || cached[0].Name != "Борис" {
		t.Errorf("Ожидался кэшированный список, получено %+v", cached)
	}
}

// Два независимых контекста сохраняют разных пользователей на один
// сервер; после завершения фоновых отправок список участников каждого
// контекста содержит обоих.
func TestLeaderboardSeesSavesFromOtherContexts(t *testing.T) {
	backend := newFakeBackend()
	defer backend.close()
	backend.put(TableUsers)

	first := newTestApp(t, backend.server.URL)
	second := newTestApp(t, backend.server.URL)

	anna := user.Default("100")
	anna.Name = "Анна"
	anna.AddXP(50)
	if err := first.Engine().SaveUser(anna); err != nil {
		t.Fatalf("Ошибка сохранения в первом контексте: %v", err)
	}

	boris := user.Default("200")
	boris.Name = "Борис"
	boris.AddXP(300)
	if err := second.Engine().SaveUser(boris); err != nil {
		t.Fatalf("Ошибка сохранения во втором контексте: %v", err)
	}

	first.Wait()
	second.Wait()

	for name, app := range map[string]*App{"первый": first, "второй": second} {
		roster := app.Engine().Leaderboard(context.Background())

		seen := make(map[string]bool, len(roster))
		for _, u := range roster {
			seen[u.TelegramID] = true
		}
		if !seen["100"] || !seen["200"] {
			t.Errorf("Контекст %q не видит обоих участников: %+v", name, seen)
			continue
		}
		if roster[0].TelegramID != "200" {
			t.Errorf("Контекст %q: ожидался лидер 200, получен %s", name, roster[0].TelegramID)
		}
	}
}
