package user

import "time"

// Роли пользователей платформы
const (
	RoleStudent = "student"
	RoleCurator = "curator"
	RoleAdmin   = "admin"
)

// Статусы домашних заданий
const (
	HomeworkPending  = "pending"
	HomeworkAccepted = "accepted"
	HomeworkRejected = "rejected"
)

// User — запись прогресса одного пользователя платформы.
// Локальная копия и удалённая строка связаны по TelegramID;
// LastSync (unix-миллисекунды) служит маркером "кто новее" при
// разрешении конфликтов и ничем больше.
type User struct {
	TelegramID       string          `json:"telegram_id"`
	Name             string          `json:"name"`
	Role             string          `json:"role"`
	XP               int             `json:"xp"`
	Level            int             `json:"level"`
	CompletedLessons []string        `json:"completed_lessons"`
	Homework         []HomeworkEntry `json:"homework"`
	ChatHistory      []ChatMessage   `json:"chat_history"`
	Notebook         []NotebookEntry `json:"notebook"`
	Habits           []HabitTracker  `json:"habits"`
	Goals            []Goal          `json:"goals"`
	Preferences      Preferences     `json:"preferences"`

	// AirtableID — идентификатор удалённой строки. Пустой до первого
	// успешного создания на сервере, после установки не меняется.
	AirtableID string `json:"airtable_id,omitempty"`

	// LastSync — время последнего сохранения в unix-миллисекундах.
	LastSync int64 `json:"last_sync"`
}

// HomeworkEntry — сданное домашнее задание
type HomeworkEntry struct {
	LessonID    string `json:"lesson_id"`
	Text        string `json:"text"`
	Status      string `json:"status"`
	SubmittedAt int64  `json:"submitted_at"`
}

// ChatMessage — сообщение из истории чата с ассистентом
type ChatMessage struct {
	Role   string `json:"role"`
	Text   string `json:"text"`
	SentAt int64  `json:"sent_at"`
}

// NotebookEntry — заметка пользователя
type NotebookEntry struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	CreatedAt int64  `json:"created_at"`
}

// HabitTracker — трекер привычки
type HabitTracker struct {
	ID        string          `json:"id"`
	Title     string          `json:"title"`
	Marks     map[string]bool `json:"marks"` // дата (2006-01-02) -> отмечено
	CreatedAt int64           `json:"created_at"`
}

// Goal — цель пользователя
type Goal struct {
	ID       string `json:"id"`
	Text     string `json:"text"`
	Done     bool   `json:"done"`
	Deadline int64  `json:"deadline,omitempty"`
}

// Preferences — настройки темы и уведомлений
type Preferences struct {
	Theme         string `json:"theme"`
	Notifications bool   `json:"notifications"`
}

// Default возвращает новую запись со значениями по умолчанию.
// Создаётся при первом запуске, когда ни локальной, ни удалённой
// копии ещё нет.
func Default(telegramID string) *User {
	return &User{
		TelegramID:       telegramID,
		Name:             "Ученик",
		Role:             RoleStudent,
		XP:               0,
		Level:            1,
		CompletedLessons: []string{},
		Homework:         []HomeworkEntry{},
		ChatHistory:      []ChatMessage{},
		Notebook:         []NotebookEntry{},
		Habits:           []HabitTracker{},
		Goals:            []Goal{},
		Preferences: Preferences{
			Theme:         "light",
			Notifications: true,
		},
	}
}

// CompleteLesson отмечает урок пройденным и начисляет опыт.
// Повторная отметка того же урока ничего не меняет.
func (u *User) CompleteLesson(lessonID string, xp int) bool {
	for _, id := range u.CompletedLessons {
		if id == lessonID {
			return false
		}
	}
	u.CompletedLessons = append(u.CompletedLessons, lessonID)
	u.AddXP(xp)
	return true
}

// AddXP начисляет опыт и пересчитывает уровень
func (u *User) AddXP(xp int) {
	u.XP += xp
	u.Level = u.XP/100 + 1
}

// Touch обновляет маркер последнего сохранения
func (u *User) Touch() {
	u.LastSync = time.Now().UnixMilli()
}
