package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/exp/slog"
)

// Row — строка именованной таблицы на сервере
type Row struct {
	ID     string         `json:"id"`
	Fields map[string]any `json:"fields"`
}

type listResponse struct {
	Records []Row `json:"records"`
}

// TableClient — универсальный клиент табличного сервера.
// Каждая операция — один сетевой вызов без повторов; реквизиты
// берутся из settings() в момент вызова. Любой сбой — сеть,
// авторизация, отсутствующая таблица — гасится на этой границе:
// наружу уходит пустой результат и предупреждение в лог, исключений
// для вызывающего кода не существует.
type TableClient struct {
	client   *http.Client
	settings func() RemoteSettings
	log      *slog.Logger
}

func NewTableClient(settings func() RemoteSettings, timeout time.Duration, log *slog.Logger) *TableClient {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &TableClient{
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				IdleConnTimeout:     90 * time.Second,
				MaxIdleConnsPerHost: 10,
			},
		},
		settings: settings,
		log:      log,
	}
}

// List возвращает все строки таблицы (одна страница, один вызов)
func (c *TableClient) List(ctx context.Context, table string) []Row {
	s := c.settings()
	if !s.Configured() {
		c.log.Debug("Сервер не настроен, пропускаем запрос", "table", table)
		return nil
	}

	resp := c.doList(ctx, s, s.TableName(table), "")
	if resp == nil {
		return nil
	}
	return resp.Records
}

// FindByField ищет первую строку с точным совпадением поля
func (c *TableClient) FindByField(ctx context.Context, table, field, value string) *Row {
	s := c.settings()
	if !s.Configured() {
		c.log.Debug("Сервер не настроен, пропускаем поиск", "table", table, "field", field)
		return nil
	}

	formula := fmt.Sprintf("{%s}='%s'", field, strings.ReplaceAll(value, "'", "\\'"))
	resp := c.doList(ctx, s, s.TableName(table), formula)
	if resp == nil || len(resp.Records) == 0 {
		return nil
	}
	return &resp.Records[0]
}

// Create создает строку и возвращает её вместе с выданным сервером id
func (c *TableClient) Create(ctx context.Context, table string, fields map[string]any) *Row {
	s := c.settings()
	if !s.Configured() {
		c.log.Debug("Сервер не настроен, пропускаем создание", "table", table)
		return nil
	}

	body := map[string]any{"fields": fields}
	endpoint := c.tableURL(s, s.TableName(table))

	var row Row
	if err := c.doRequest(ctx, s, http.MethodPost, endpoint, body, &row); err != nil {
		c.log.Warn("Не удалось создать строку", "table", table, "error", err)
		return nil
	}
	return &row
}

// Update обновляет поля существующей строки
func (c *TableClient) Update(ctx context.Context, table, rowID string, fields map[string]any) *Row {
	s := c.settings()
	if !s.Configured() {
		c.log.Debug("Сервер не настроен, пропускаем обновление", "table", table)
		return nil
	}

	body := map[string]any{"fields": fields}
	endpoint := c.tableURL(s, s.TableName(table)) + "/" + url.PathEscape(rowID)

	var row Row
	if err := c.doRequest(ctx, s, http.MethodPatch, endpoint, body, &row); err != nil {
		c.log.Warn("Не удалось обновить строку", "table", table, "row_id", rowID, "error", err)
		return nil
	}
	return &row
}

func (c *TableClient) doList(ctx context.Context, s RemoteSettings, table, formula string) *listResponse {
	endpoint := c.tableURL(s, table)
	if formula != "" {
		endpoint += "?filterByFormula=" + url.QueryEscape(formula)
	}

	var resp listResponse
	if err := c.doRequest(ctx, s, http.MethodGet, endpoint, nil, &resp); err != nil {
		c.log.Warn("Не удалось получить строки", "table", table, "error", err)
		return nil
	}
	return &resp
}

func (c *TableClient) tableURL(s RemoteSettings, table string) string {
	return strings.TrimRight(s.Endpoint, "/") + "/" + url.PathEscape(s.BaseID) + "/" + url.PathEscape(table)
}

func (c *TableClient) doRequest(ctx context.Context, s RemoteSettings, method, endpoint string, body, result any) error {
	var reqBody io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("ошибка маршалинга тела запроса: %w", err)
		}
		reqBody = bytes.NewBuffer(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return fmt.Errorf("ошибка создания запроса: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+s.APIKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.log.Debug("Отправка запроса", "method", method, "url", endpoint)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("сервер недоступен: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("ошибка чтения ответа: %w", err)
	}

	if resp.StatusCode >= 400 {
		return fmt.Errorf("сервер вернул статус %d", resp.StatusCode)
	}

	if result != nil {
		if err := json.Unmarshal(raw, result); err != nil {
			return fmt.Errorf("ошибка парсинга ответа: %w", err)
		}
	}

	return nil
}
