package user

import "encoding/json"

// Имена колонок таблицы пользователей на сервере.
// Индексируемые поля лежат отдельными колонками, всё остальное —
// одним JSON-блобом в колонке data.
const (
	FieldTelegramID = "user_id"
	FieldName       = "name"
	FieldRole       = "role"
	FieldXP         = "xp"
	FieldLevel      = "level"
	FieldData       = "data"
	FieldLastSync   = "last_sync"
)

// dataBlob — неиндексируемая часть записи, хранится одной строкой.
// Preferences — указатель: отсутствие настроек в блобе отличимо от
// настроек с пустыми значениями.
type dataBlob struct {
	CompletedLessons []string        `json:"completed_lessons"`
	Homework         []HomeworkEntry `json:"homework"`
	ChatHistory      []ChatMessage   `json:"chat_history"`
	Notebook         []NotebookEntry `json:"notebook"`
	Habits           []HabitTracker  `json:"habits"`
	Goals            []Goal          `json:"goals"`
	Preferences      *Preferences    `json:"preferences,omitempty"`
}

// Fields возвращает поля для создания или обновления удалённой строки
func (u *User) Fields() (map[string]any, error) {
	blob, err := json.Marshal(dataBlob{
		CompletedLessons: u.CompletedLessons,
		Homework:         u.Homework,
		ChatHistory:      u.ChatHistory,
		Notebook:         u.Notebook,
		Habits:           u.Habits,
		Goals:            u.Goals,
		Preferences:      &u.Preferences,
	})
	if err != nil {
		return nil, err
	}

	return map[string]any{
		FieldTelegramID: u.TelegramID,
		FieldName:       u.Name,
		FieldRole:       u.Role,
		FieldXP:         u.XP,
		FieldLevel:      u.Level,
		FieldData:       string(blob),
		FieldLastSync:   u.LastSync,
	}, nil
}

// FromFields собирает запись из полей удалённой строки.
// Нечитаемый блоб data не срывает разбор строки: соответствующие
// поля остаются значениями по умолчанию.
func FromFields(rowID string, fields map[string]any) *User {
	u := Default(FieldString(fields, FieldTelegramID))
	u.AirtableID = rowID

	if v := FieldString(fields, FieldName); v != "" {
		u.Name = v
	}
	if v := FieldString(fields, FieldRole); v != "" {
		u.Role = v
	}
	u.XP = FieldInt(fields, FieldXP)
	u.Level = FieldInt(fields, FieldLevel)
	if u.Level < 1 {
		u.Level = 1
	}
	u.LastSync = FieldInt64(fields, FieldLastSync)

	if raw := FieldString(fields, FieldData); raw != "" {
		var blob dataBlob
		if err := json.Unmarshal([]byte(raw), &blob); err == nil {
			if blob.CompletedLessons != nil {
				u.CompletedLessons = blob.CompletedLessons
			}
			if blob.Homework != nil {
				u.Homework = blob.Homework
			}
			if blob.ChatHistory != nil {
				u.ChatHistory = blob.ChatHistory
			}
			if blob.Notebook != nil {
				u.Notebook = blob.Notebook
			}
			if blob.Habits != nil {
				u.Habits = blob.Habits
			}
			if blob.Goals != nil {
				u.Goals = blob.Goals
			}
			if blob.Preferences != nil {
				u.Preferences = *blob.Preferences
			}
		}
	}

	return u
}

// FieldString достаёт строковое поле из набора полей строки
func FieldString(fields map[string]any, name string) string {
	if v, ok := fields[name].(string); ok {
		return v
	}
	return ""
}

// FieldInt достаёт числовое поле. JSON-числа приходят как float64.
func FieldInt(fields map[string]any, name string) int {
	return int(FieldInt64(fields, name))
}

// FieldInt64 достаёт числовое поле как int64
func FieldInt64(fields map[string]any, name string) int64 {
	switch v := fields[name].(type) {
	case float64:
		return int64(v)
	case int64:
		return v
	case int:
		return int64(v)
	case json.Number:
		n, _ := v.Int64()
		return n
	default:
		return 0
	}
}
