// cmd/client/cmd/root.go
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/exp/slog"

	"github.com/sCOSTAkg/krauzzzz/cmd/client/cmd/sync"
	"github.com/sCOSTAkg/krauzzzz/cmd/client/cmd/types"
	"github.com/sCOSTAkg/krauzzzz/internal/app/client"
	"github.com/sCOSTAkg/krauzzzz/internal/app/client/config"
	"github.com/sCOSTAkg/krauzzzz/internal/utils/logger"
)

var (
	cfg     *config.Config
	log     *slog.Logger
	app     *client.App
	baseID  string
	apiKey  string
	userID  string
)

var rootCmd = &cobra.Command{
	Use:   "krauzzzz",
	Short: "Krauzzzz — клиент учебной платформы",
	Long: `Krauzzzz — офлайн-first клиент учебной платформы.

Прогресс пользователя и контент курса хранятся в локальном кэше и
синхронизируются с сервером, когда он доступен. Недоступный сервер
означает устаревшие данные, но никогда не пустой экран.`,
	PersistentPreRunE: setupApp,
	PersistentPostRun: teardownApp,
	SilenceUsage:      true,
	SilenceErrors:     true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Ошибка: %v\n", err)
		os.Exit(1)
	}
}

func setupApp(cmd *cobra.Command, _ []string) error {
	cfg = config.MustLoad()

	// Переопределяем настройки из флагов командной строки
	if baseID != "" {
		cfg.BaseID = baseID
	}
	if apiKey != "" {
		cfg.APIKey = apiKey
	}

	log = logger.New(cfg.Env)

	var err error
	app, err = client.New(cfg, log)
	if err != nil {
		return fmt.Errorf("ошибка инициализации приложения: %w", err)
	}

	cmd.SetContext(context.WithValue(cmd.Context(), types.ClientAppKey, app))
	return nil
}

func teardownApp(_ *cobra.Command, _ []string) {
	if app == nil {
		return
	}
	// Даем фоновым отправкам завершиться до выхода из процесса
	app.Wait()
	app.Shutdown()
}

func init() {
	cobra.OnInitialize()

	// Глобальные флаги
	rootCmd.PersistentFlags().StringVar(&baseID, "base", "", "идентификатор базы на сервере")
	rootCmd.PersistentFlags().StringVar(&apiKey, "key", "", "ключ доступа к серверу")
	rootCmd.PersistentFlags().StringVar(&userID, "id", "", "внешний идентификатор пользователя")

	rootCmd.AddCommand(sync.SyncCmd)
}
