// cmd/client/cmd/token.go
package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Сохранить ключ доступа к серверу",
	Long: `Запрашивает ключ доступа и сохраняет его в .env рядом с
конфигурацией. Ключ читается заново перед каждым сетевым вызовом,
поэтому применяется со следующей команды.`,
	RunE: func(_ *cobra.Command, _ []string) error {
		fmt.Print("Ключ доступа: ")
		raw, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err != nil {
			return fmt.Errorf("ошибка чтения ключа: %w", err)
		}
		fmt.Println()

		key := strings.TrimSpace(string(raw))
		if key == "" {
			return fmt.Errorf("ключ не может быть пустым")
		}

		envPath := filepath.Join(cfg.ConfigDir, ".env")
		line := fmt.Sprintf("AIRTABLE_API_KEY=%s\n", key)
		if err := os.WriteFile(envPath, []byte(line), 0600); err != nil {
			return fmt.Errorf("ошибка сохранения ключа: %w", err)
		}

		color.Green("✓ Ключ сохранен: %s", envPath)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(tokenCmd)
}
