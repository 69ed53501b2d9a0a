// cmd/client/cmd/profile.go
package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/sCOSTAkg/krauzzzz/cmd/client/cmd/types"
	"github.com/sCOSTAkg/krauzzzz/internal/app/client"
)

var (
	completeLesson string
	lessonXP       int
	setName        string
	setTheme       string
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Показать профиль пользователя",
	Long: `Загружает запись пользователя, сверив локальную копию с сервером.

Если сервер недоступен, показывается локальная копия; при первом
запуске создаётся новая запись со значениями по умолчанию.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, ok := cmd.Context().Value(types.ClientAppKey).(*client.App)
		if !ok || app == nil {
			return fmt.Errorf("приложение не инициализировано")
		}
		if userID == "" {
			return fmt.Errorf("укажите пользователя: krauzzzz profile --id <telegram_id>")
		}

		u := app.Engine().LoadUser(cmd.Context(), userID)

		bold := color.New(color.Bold)
		bold.Printf("%s", u.Name)
		fmt.Printf("  (%s)\n", u.Role)
		fmt.Printf("Уровень: %d  Опыт: %d XP\n", u.Level, u.XP)
		fmt.Printf("Пройдено уроков: %d\n", len(u.CompletedLessons))
		fmt.Printf("Домашних заданий: %d\n", len(u.Homework))
		fmt.Printf("Заметок: %d  Целей: %d\n", len(u.Notebook), len(u.Goals))
		if u.AirtableID == "" {
			color.Yellow("Запись ещё не создана на сервере")
		}

		return nil
	},
}

var saveCmd = &cobra.Command{
	Use:   "save",
	Short: "Изменить и сохранить профиль",
	Long: `Применяет изменения к записи пользователя и сохраняет её.

Локальный кэш обновляется сразу, отправка на сервер идёт в фоне:
недоступный сервер не блокирует сохранение.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, ok := cmd.Context().Value(types.ClientAppKey).(*client.App)
		if !ok || app == nil {
			return fmt.Errorf("приложение не инициализировано")
		}
		if userID == "" {
			return fmt.Errorf("укажите пользователя: krauzzzz save --id <telegram_id>")
		}

		u := app.Engine().LoadUser(cmd.Context(), userID)

		changed := false
		if setName != "" {
			u.Name = setName
			changed = true
		}
		if setTheme != "" {
			u.Preferences.Theme = setTheme
			changed = true
		}
		if completeLesson != "" {
			if u.CompleteLesson(completeLesson, lessonXP) {
				fmt.Printf("Урок %s пройден, +%d XP\n", completeLesson, lessonXP)
			} else {
				fmt.Printf("Урок %s уже был пройден\n", completeLesson)
			}
			changed = true
		}

		if !changed {
			return fmt.Errorf("нечего сохранять: укажите --name, --theme или --lesson")
		}

		if err := app.Engine().SaveUser(u); err != nil {
			return fmt.Errorf("ошибка сохранения: %w", err)
		}

		color.Green("✓ Сохранено (уровень %d, %d XP)", u.Level, u.XP)
		return nil
	},
}

func init() {
	saveCmd.Flags().StringVar(&completeLesson, "lesson", "", "отметить урок пройденным")
	saveCmd.Flags().IntVar(&lessonXP, "xp", 10, "опыт за пройденный урок")
	saveCmd.Flags().StringVar(&setName, "name", "", "новое имя")
	saveCmd.Flags().StringVar(&setTheme, "theme", "", "тема оформления (light/dark)")

	rootCmd.AddCommand(profileCmd)
	rootCmd.AddCommand(saveCmd)
}
