package content

// Module — модуль курса с вложенными уроками.
// RowID — внутренний идентификатор строки на сервере, нужен только
// для связывания с уроками при сборке; внешним миром не используется.
type Module struct {
	ID          string   `json:"id"`
	RowID       string   `json:"-"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Category    Category `json:"category"`
	Order       int      `json:"order"`
	Lessons     []Lesson `json:"lessons"`
}

// Lesson — урок внутри модуля.
// ModuleRowIDs — ссылки на строки модулей (урок может входить в
// несколько модулей).
type Lesson struct {
	ID           string       `json:"id"`
	RowID        string       `json:"-"`
	Title        string       `json:"title"`
	VideoURL     string       `json:"video_url"`
	Duration     int          `json:"duration"`
	Order        int          `json:"order"`
	XP           int          `json:"xp"`
	HomeworkType HomeworkType `json:"homework_type"`
	ModuleRowIDs []string     `json:"-"`
}

// Material — дополнительный материал
type Material struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	URL      string   `json:"url"`
	Category Category `json:"category"`
}

// Stream — запись или анонс эфира
type Stream struct {
	ID       string       `json:"id"`
	Title    string       `json:"title"`
	URL      string       `json:"url"`
	Status   StreamStatus `json:"status"`
	StartsAt int64        `json:"starts_at"`
}

// CalendarEvent — событие календаря
type CalendarEvent struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Date     string `json:"date"` // 2006-01-02
	Time     string `json:"time,omitempty"`
	Location string `json:"location,omitempty"`
}

// Scenario — сценарий для практики
type Scenario struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Text     string   `json:"text"`
	Category Category `json:"category"`
}

// Notification — локальное уведомление
type Notification struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Text      string `json:"text"`
	Read      bool   `json:"read"`
	CreatedAt int64  `json:"created_at"`
}
