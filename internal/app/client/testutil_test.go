package client

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"golang.org/x/exp/slog"

	"github.com/sCOSTAkg/krauzzzz/internal/app/client/config"
)

// fakeBackend — табличный сервер в памяти для тестов.
// Понимает list с filterByFormula, create и update.
type fakeBackend struct {
	mu     sync.Mutex
	tables map[string][]Row
	nextID int
	server *httptest.Server

	// fail переводит сервер в режим "всё сломано"
	fail bool
}

func newFakeBackend() *fakeBackend {
	b := &fakeBackend{
		tables: make(map[string][]Row),
		nextID: 1,
	}
	b.server = httptest.NewServer(http.HandlerFunc(b.handle))
	return b
}

func (b *fakeBackend) handle(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.fail {
		http.Error(w, `{"error":"boom"}`, http.StatusInternalServerError)
		return
	}

	if r.Header.Get("Authorization") != "Bearer test-key" {
		http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
		return
	}

	// Путь: /{base}/{table}[/{rowID}]
	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	if len(parts) < 2 {
		http.NotFound(w, r)
		return
	}
	table := parts[1]

	switch {
	case r.Method == http.MethodGet:
		rows, ok := b.tables[table]
		if !ok {
			http.Error(w, `{"error":"table not found"}`, http.StatusNotFound)
			return
		}
		if formula := r.URL.Query().Get("filterByFormula"); formula != "" {
			rows = filterRows(rows, formula)
		}
		json.NewEncoder(w).Encode(listResponse{Records: rows})

	case r.Method == http.MethodPost:
		fields := readFields(r)
		row := Row{ID: fmt.Sprintf("rec%03d", b.nextID), Fields: fields}
		b.nextID++
		b.tables[table] = append(b.tables[table], row)
		json.NewEncoder(w).Encode(row)

	case r.Method == http.MethodPatch && len(parts) == 3:
		fields := readFields(r)
		for i, row := range b.tables[table] {
			if row.ID == parts[2] {
				for k, v := range fields {
					b.tables[table][i].Fields[k] = v
				}
				json.NewEncoder(w).Encode(b.tables[table][i])
				return
			}
		}
		http.Error(w, `{"error":"row not found"}`, http.StatusNotFound)

	default:
		http.NotFound(w, r)
	}
}

// filterRows разбирает формулу вида {field}='value'
func filterRows(rows []Row, formula string) []Row {
	open := strings.Index(formula, "{")
	end := strings.Index(formula, "}")
	eq := strings.Index(formula, "='")
	if open != 0 || end < 0 || eq != end+1 || !strings.HasSuffix(formula, "'") {
		return nil
	}
	field := formula[1:end]
	value := formula[eq+2 : len(formula)-1]

	var matched []Row
	for _, row := range rows {
		if s, ok := row.Fields[field].(string); ok && s == value {
			matched = append(matched, row)
		}
	}
	return matched
}

func readFields(r *http.Request) map[string]any {
	raw, _ := io.ReadAll(r.Body)
	var body struct {
		Fields map[string]any `json:"fields"`
	}
	json.Unmarshal(raw, &body)
	if body.Fields == nil {
		body.Fields = map[string]any{}
	}
	return body.Fields
}

func (b *fakeBackend) put(table string, rows ...Row) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.tables[table] = append(b.tables[table], rows...)
}

func (b *fakeBackend) rows(table string) []Row {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Row, len(b.tables[table]))
	copy(out, b.tables[table])
	return out
}

func (b *fakeBackend) setFail(fail bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.fail = fail
}

func (b *fakeBackend) close() {
	b.server.Close()
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestApp создает приложение поверх временной директории.
// Пустой endpoint означает офлайн-режим.
func newTestApp(t *testing.T, endpoint string) *App {
	t.Helper()

	dir := t.TempDir()
	cfg := &config.Config{
		Env:           "local",
		ConfigDir:     dir,
		DataPath:      filepath.Join(dir, "cache.db"),
		Endpoint:      endpoint,
		SyncTolerance: 2000 * time.Millisecond,
		RemoteTimeout: 5 * time.Second,
	}
	if endpoint != "" {
		cfg.BaseID = "base_test"
		cfg.APIKey = "test-key"
	}

	app, err := New(cfg, testLogger())
	if err != nil {
		t.Fatalf("Ошибка создания приложения: %v", err)
	}
	t.Cleanup(app.Shutdown)

	return app
}
