package content

// Встроенные наборы контента. Возвращаются, когда недоступен и
// сервер, и локальный снимок: приложение всегда показывает хоть
// что-то. Идентификаторы стабильны и зашиты в клиент.

// DefaultModules возвращает встроенный набор модулей
func DefaultModules() []Module {
	return []Module{
		{
			ID:          "mod-start",
			Title:       "Старт",
			Description: "Как устроена платформа и с чего начать",
			Category:    CategoryBasics,
			Order:       1,
			Lessons: []Lesson{
				{
					ID:           "les-welcome",
					Title:        "Добро пожаловать",
					Duration:     5,
					Order:        1,
					XP:           10,
					HomeworkType: HomeworkNone,
				},
				{
					ID:           "les-setup",
					Title:        "Настройка профиля",
					Duration:     7,
					Order:        2,
					XP:           10,
					HomeworkType: HomeworkText,
				},
			},
		},
		{
			ID:          "mod-first-sale",
			Title:       "Первая продажа",
			Description: "Базовая воронка от заявки до оплаты",
			Category:    CategorySales,
			Order:       2,
			Lessons: []Lesson{
				{
					ID:           "les-offer",
					Title:        "Формулируем оффер",
					Duration:     12,
					Order:        1,
					XP:           20,
					HomeworkType: HomeworkText,
				},
			},
		},
	}
}

// DefaultMaterials возвращает встроенный набор материалов
func DefaultMaterials() []Material {
	return []Material{
		{ID: "mat-checklist", Title: "Чек-лист первого дня", Category: CategoryBasics},
		{ID: "mat-templates", Title: "Шаблоны сообщений", Category: CategorySales},
	}
}

// DefaultStreams возвращает встроенный набор эфиров
func DefaultStreams() []Stream {
	return []Stream{
		{ID: "str-intro", Title: "Вводный эфир", Status: StreamFinished},
	}
}

// DefaultEvents возвращает встроенный набор событий календаря
func DefaultEvents() []CalendarEvent {
	return []CalendarEvent{}
}

// DefaultScenarios возвращает встроенный набор сценариев
func DefaultScenarios() []Scenario {
	return []Scenario{
		{
			ID:       "scn-cold-call",
			Title:    "Холодный звонок",
			Text:     "Потренируйте первый контакт с клиентом",
			Category: CategoryPractice,
		},
	}
}

// DefaultNotifications возвращает пустой набор уведомлений
func DefaultNotifications() []Notification {
	return []Notification{}
}
