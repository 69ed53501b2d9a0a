package sync

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/sCOSTAkg/krauzzzz/cmd/client/cmd/types"
	"github.com/sCOSTAkg/krauzzzz/internal/app/client"
)

var syncUserID string

var SyncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Обновить локальный кэш с сервера",
	Long: `Перечитывает настройки, контент и запись пользователя с сервера.

Каждый запрос изолирован: сбой одной коллекции не мешает остальным.
Недоступный сервер оставляет кэш как есть.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, ok := cmd.Context().Value(types.ClientAppKey).(*client.App)
		if !ok || app == nil {
			return fmt.Errorf("приложение не инициализировано")
		}

		fmt.Println("=== Синхронизация ===")
		start := time.Now()

		// Сначала настройки: они могут переопределить имена таблиц
		app.Content().GlobalConfig(cmd.Context())

		bundle := app.Content().FetchAll(cmd.Context())
		fmt.Printf("Модулей: %d\n", len(bundle.Modules))
		fmt.Printf("Материалов: %d\n", len(bundle.Materials))
		fmt.Printf("Эфиров: %d\n", len(bundle.Streams))
		fmt.Printf("Событий: %d\n", len(bundle.Events))
		fmt.Printf("Сценариев: %d\n", len(bundle.Scenarios))

		if syncUserID != "" {
			u := app.Engine().LoadUser(cmd.Context(), syncUserID)
			fmt.Printf("Пользователь: %s (уровень %d, %d XP)\n", u.Name, u.Level, u.XP)
		}

		roster := app.Engine().Leaderboard(cmd.Context())
		fmt.Printf("Участников: %d\n", len(roster))

		color.Green("✓ Готово за %v", time.Since(start).Round(time.Millisecond))
		return nil
	},
}

func init() {
	SyncCmd.Flags().StringVar(&syncUserID, "id", "", "заодно обновить запись пользователя")
}
