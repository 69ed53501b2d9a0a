// cmd/client/cmd/leaderboard.go
package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/sCOSTAkg/krauzzzz/cmd/client/cmd/types"
	"github.com/sCOSTAkg/krauzzzz/internal/app/client"
)

var leaderboardLimit int

var leaderboardCmd = &cobra.Command{
	Use:   "leaderboard",
	Short: "Таблица лидеров",
	Long: `Список участников по убыванию опыта.

При недоступном сервере показывается последний сохранённый список.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, ok := cmd.Context().Value(types.ClientAppKey).(*client.App)
		if !ok || app == nil {
			return fmt.Errorf("приложение не инициализировано")
		}

		roster := app.Engine().Leaderboard(cmd.Context())
		if len(roster) == 0 {
			fmt.Println("Список участников пока пуст")
			return nil
		}

		bold := color.New(color.Bold)
		bold.Println("=== Таблица лидеров ===")

		for i, u := range roster {
			if leaderboardLimit > 0 && i >= leaderboardLimit {
				fmt.Printf("... и еще %d участников\n", len(roster)-i)
				break
			}

			line := fmt.Sprintf("%2d. %-20s %4d XP  (уровень %d)", i+1, u.Name, u.XP, u.Level)
			switch i {
			case 0:
				color.Yellow(line)
			case 1, 2:
				color.Cyan(line)
			default:
				fmt.Println(line)
			}
		}

		return nil
	},
}

func init() {
	leaderboardCmd.Flags().IntVar(&leaderboardLimit, "limit", 10, "сколько участников показать")
	rootCmd.AddCommand(leaderboardCmd)
}
