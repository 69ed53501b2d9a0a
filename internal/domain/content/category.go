package content

// Category — закрытый набор категорий приложения.
// Сервер хранит свои обозначения, при загрузке они приводятся к
// этому набору через таблицу соответствий.
type Category string

const (
	CategoryBasics    Category = "basics"
	CategorySales     Category = "sales"
	CategoryMarketing Category = "marketing"
	CategoryMindset   Category = "mindset"
	CategoryPractice  Category = "practice"
	CategoryOther     Category = "other"
)

// HomeworkType — тип домашнего задания урока
type HomeworkType string

const (
	HomeworkNone  HomeworkType = "none"
	HomeworkText  HomeworkType = "text"
	HomeworkFile  HomeworkType = "file"
	HomeworkQuiz  HomeworkType = "quiz"
	HomeworkVideo HomeworkType = "video"
)

// StreamStatus — статус эфира
type StreamStatus string

const (
	StreamUpcoming StreamStatus = "upcoming"
	StreamLive     StreamStatus = "live"
	StreamFinished StreamStatus = "finished"
)

// Соответствия серверных обозначений закрытым наборам приложения.
// Неизвестные значения приводятся к значению по умолчанию.
var categoryTable = map[string]Category{
	"Основы":     CategoryBasics,
	"База":       CategoryBasics,
	"Продажи":    CategorySales,
	"Маркетинг":  CategoryMarketing,
	"Мышление":   CategoryMindset,
	"Практика":   CategoryPractice,
	"basics":     CategoryBasics,
	"sales":      CategorySales,
	"marketing":  CategoryMarketing,
	"mindset":    CategoryMindset,
	"practice":   CategoryPractice,
}

var homeworkTable = map[string]HomeworkType{
	"Текст":  HomeworkText,
	"Файл":   HomeworkFile,
	"Тест":   HomeworkQuiz,
	"Видео":  HomeworkVideo,
	"text":   HomeworkText,
	"file":   HomeworkFile,
	"quiz":   HomeworkQuiz,
	"video":  HomeworkVideo,
	"Нет":    HomeworkNone,
	"none":   HomeworkNone,
}

var streamStatusTable = map[string]StreamStatus{
	"Анонс":      StreamUpcoming,
	"В эфире":    StreamLive,
	"Завершён":   StreamFinished,
	"Завершен":   StreamFinished,
	"upcoming":   StreamUpcoming,
	"live":       StreamLive,
	"finished":   StreamFinished,
}

// MapCategory приводит серверную категорию к закрытому набору
func MapCategory(raw string) Category {
	if c, ok := categoryTable[raw]; ok {
		return c
	}
	return CategoryOther
}

// MapHomeworkType приводит серверный тип домашнего задания
func MapHomeworkType(raw string) HomeworkType {
	if t, ok := homeworkTable[raw]; ok {
		return t
	}
	return HomeworkNone
}

// MapStreamStatus приводит серверный статус эфира
func MapStreamStatus(raw string) StreamStatus {
	if s, ok := streamStatusTable[raw]; ok {
		return s
	}
	return StreamFinished
}
