package client

import (
	"strings"

	"github.com/sCOSTAkg/krauzzzz/internal/domain/content"
	"github.com/sCOSTAkg/krauzzzz/internal/domain/user"
)

// Преобразование строк сервера в сущности приложения. Внешние
// идентификаторы хранятся в собственных колонках и не зависят от
// внутренних id строк; испорченная строка пропускается или получает
// значения по умолчанию, но не срывает разбор всей коллекции.

func lessonFromRow(row Row) content.Lesson {
	return content.Lesson{
		ID:           user.FieldString(row.Fields, "lesson_id"),
		RowID:        row.ID,
		Title:        user.FieldString(row.Fields, "title"),
		VideoURL:     user.FieldString(row.Fields, "video_url"),
		Duration:     user.FieldInt(row.Fields, "duration"),
		Order:        user.FieldInt(row.Fields, "order"),
		XP:           user.FieldInt(row.Fields, "xp"),
		HomeworkType: content.MapHomeworkType(user.FieldString(row.Fields, "homework_type")),
		ModuleRowIDs: fieldStrings(row.Fields, "modules"),
	}
}

func moduleFromRow(row Row) content.Module {
	return content.Module{
		ID:          user.FieldString(row.Fields, "module_id"),
		RowID:       row.ID,
		Title:       user.FieldString(row.Fields, "title"),
		Description: user.FieldString(row.Fields, "description"),
		Category:    content.MapCategory(user.FieldString(row.Fields, "category")),
		Order:       user.FieldInt(row.Fields, "order"),
	}
}

func materialFromRow(row Row) content.Material {
	return content.Material{
		ID:       user.FieldString(row.Fields, "material_id"),
		Title:    user.FieldString(row.Fields, "title"),
		URL:      user.FieldString(row.Fields, "url"),
		Category: content.MapCategory(user.FieldString(row.Fields, "category")),
	}
}

func streamFromRow(row Row) content.Stream {
	return content.Stream{
		ID:       user.FieldString(row.Fields, "stream_id"),
		Title:    user.FieldString(row.Fields, "title"),
		URL:      user.FieldString(row.Fields, "url"),
		Status:   content.MapStreamStatus(user.FieldString(row.Fields, "status")),
		StartsAt: user.FieldInt64(row.Fields, "starts_at"),
	}
}

func eventFromRow(row Row) content.CalendarEvent {
	return content.CalendarEvent{
		ID:       user.FieldString(row.Fields, "event_id"),
		Title:    user.FieldString(row.Fields, "title"),
		Date:     user.FieldString(row.Fields, "date"),
		Time:     user.FieldString(row.Fields, "time"),
		Location: user.FieldString(row.Fields, "location"),
	}
}

func scenarioFromRow(row Row) content.Scenario {
	return content.Scenario{
		ID:       user.FieldString(row.Fields, "scenario_id"),
		Title:    user.FieldString(row.Fields, "title"),
		Text:     user.FieldString(row.Fields, "text"),
		Category: content.MapCategory(user.FieldString(row.Fields, "category")),
	}
}

// globalConfigFromRows собирает настройки из строк "ключ-значение"
func globalConfigFromRows(rows []Row) GlobalConfig {
	cfg := GlobalConfig{
		Features: map[string]bool{},
		Tables:   map[string]string{},
	}

	for _, row := range rows {
		key := user.FieldString(row.Fields, "key")
		value := user.FieldString(row.Fields, "value")
		if key == "" {
			continue
		}

		switch {
		case key == "endpoint":
			cfg.Endpoint = value
		case key == "base_id":
			cfg.BaseID = value
		case strings.HasPrefix(key, "table_"):
			cfg.Tables[strings.TrimPrefix(key, "table_")] = value
		case strings.HasPrefix(key, "feature_"):
			cfg.Features[strings.TrimPrefix(key, "feature_")] = value == "true" || value == "1"
		}
	}

	return cfg
}

// fieldStrings достаёт многозначное ссылочное поле строки
func fieldStrings(fields map[string]any, name string) []string {
	raw, ok := fields[name].([]any)
	if !ok {
		return nil
	}

	values := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok && s != "" {
			values = append(values, s)
		}
	}
	return values
}
