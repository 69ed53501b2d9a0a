// cmd/client/cmd/watch.go
package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/sCOSTAkg/krauzzzz/cmd/client/cmd/types"
	"github.com/sCOSTAkg/krauzzzz/internal/app/client"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Слушать сигналы других процессов",
	Long: `Подписывается на шину и печатает входящие сигналы.

Сигнал означает "локальное состояние изменилось, перечитай кэш";
собственные публикации процесс не получает. Остановка — Ctrl+C.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, ok := cmd.Context().Value(types.ClientAppKey).(*client.App)
		if !ok || app == nil {
			return fmt.Errorf("приложение не инициализировано")
		}

		app.Bus().Subscribe(func(s client.SyncSignal) {
			ts := time.UnixMilli(s.Timestamp).Format("15:04:05")
			fmt.Printf("[%s] %s от %s\n", ts, s.Type, s.Sender)
		})

		fmt.Println("Слушаем сигналы (Ctrl+C для выхода)...")

		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		fmt.Println("Остановлено")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
