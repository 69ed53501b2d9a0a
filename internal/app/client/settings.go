package client

// Имена таблиц на сервере по умолчанию. GlobalConfig может
// переопределить любую из них.
const (
	TableUsers     = "Users"
	TableModules   = "Modules"
	TableLessons   = "Lessons"
	TableMaterials = "Materials"
	TableStreams   = "Streams"
	TableEvents    = "Events"
	TableScenarios = "Scenarios"
	TableConfig    = "Config"
)

// GlobalConfig — единый настроечный объект приложения. Хранится и
// обслуживается так же, как коллекции контента: удалённая таблица →
// локальный снимок → значения из окружения.
type GlobalConfig struct {
	Features map[string]bool   `json:"features"`
	Tables   map[string]string `json:"tables"`
	Endpoint string            `json:"endpoint,omitempty"`
	BaseID   string            `json:"base_id,omitempty"`
	APIKey   string            `json:"api_key,omitempty"`
}

// RemoteSettings — действующие реквизиты сервера. Снимаются заново
// перед каждым сетевым вызовом, поэтому смена ключа или адреса
// применяется со следующего запроса без переинициализации.
type RemoteSettings struct {
	Endpoint string
	BaseID   string
	APIKey   string
	Tables   map[string]string
}

// Configured сообщает, достаточно ли реквизитов для сетевых вызовов.
// Их отсутствие — штатный офлайн-режим, а не ошибка.
func (s RemoteSettings) Configured() bool {
	return s.Endpoint != "" && s.BaseID != "" && s.APIKey != ""
}

// TableName возвращает имя таблицы с учётом переопределений
func (s RemoteSettings) TableName(name string) string {
	if override, ok := s.Tables[name]; ok && override != "" {
		return override
	}
	return name
}
