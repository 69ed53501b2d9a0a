// cmd/client/cmd/content.go
package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/sCOSTAkg/krauzzzz/cmd/client/cmd/types"
	"github.com/sCOSTAkg/krauzzzz/internal/app/client"
)

var contentCmd = &cobra.Command{
	Use:   "content",
	Short: "Показать контент курса",
	Long: `Загружает модули, материалы, эфиры, календарь и сценарии.

Каждая коллекция читается по трём ярусам: сервер, локальный снимок,
встроенный набор. Недоступный сервер означает устаревший контент,
но никогда не пустой экран.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, ok := cmd.Context().Value(types.ClientAppKey).(*client.App)
		if !ok || app == nil {
			return fmt.Errorf("приложение не инициализировано")
		}

		bundle := app.Content().FetchAll(cmd.Context())

		bold := color.New(color.Bold)
		bold.Println("=== Модули ===")
		for _, m := range bundle.Modules {
			fmt.Printf("• %s [%s] — %d уроков\n", m.Title, m.Category, len(m.Lessons))
			for _, l := range m.Lessons {
				fmt.Printf("    %d. %s (%d мин, +%d XP)\n", l.Order, l.Title, l.Duration, l.XP)
			}
		}

		if len(bundle.Materials) > 0 {
			bold.Println("=== Материалы ===")
			for _, m := range bundle.Materials {
				fmt.Printf("• %s [%s]\n", m.Title, m.Category)
			}
		}

		if len(bundle.Streams) > 0 {
			bold.Println("=== Эфиры ===")
			for _, s := range bundle.Streams {
				fmt.Printf("• %s (%s)\n", s.Title, s.Status)
			}
		}

		if len(bundle.Events) > 0 {
			bold.Println("=== Календарь ===")
			for _, e := range bundle.Events {
				fmt.Printf("• %s %s %s\n", e.Date, e.Time, e.Title)
			}
		}

		if len(bundle.Scenarios) > 0 {
			bold.Println("=== Сценарии ===")
			for _, s := range bundle.Scenarios {
				fmt.Printf("• %s [%s]\n", s.Title, s.Category)
			}
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(contentCmd)
}
