// Пакет cli — операторская утилита catalogctl: миграции, создание
// учётных записей и выпуск токенов без HTTP-сервера.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/habibulloh333/project-uas-prod/internal/auth"
	"github.com/habibulloh333/project-uas-prod/internal/config"
	"github.com/habibulloh333/project-uas-prod/internal/database"
	"github.com/habibulloh333/project-uas-prod/internal/domain/rbac"
	"github.com/habibulloh333/project-uas-prod/internal/repository"
	"github.com/habibulloh333/project-uas-prod/internal/service"
)

// Runtime — внешние зависимости команд. Подменяется в тестах.
type Runtime struct {
	// LoadConfig загружает конфигурацию
	LoadConfig func() (*config.Config, error)
	// MigrateUp применяет миграции
	MigrateUp func(cfg *config.Config, logger *slog.Logger) error
	// MigrateDown откатывает миграции
	MigrateDown func(cfg *config.Config, logger *slog.Logger) error
	// OpenUsers открывает хранилище пользователей; close освобождает ресурсы
	OpenUsers func(ctx context.Context, cfg *config.Config, logger *slog.Logger) (users service.UserStore, closeFn func(), err error)
}

// DefaultRuntime — зависимости для работы с настоящей БД.
func DefaultRuntime() *Runtime {
	return &Runtime{
		LoadConfig:  config.Load,
		MigrateUp:   database.Migrate,
		MigrateDown: database.MigrateDown,
		OpenUsers: func(ctx context.Context, cfg *config.Config, logger *slog.Logger) (service.UserStore, func(), error) {
			pool, err := database.Connect(ctx, cfg, logger)
			if err != nil {
				return nil, nil, err
			}
			return repository.NewUserRepository(pool), pool.Close, nil
		},
	}
}

// NewRootCommand создаёт корневую команду catalogctl.
func NewRootCommand(rt *Runtime) *cobra.Command {
	root := &cobra.Command{
		Use:           "catalogctl",
		Short:         "Операторская утилита Catalog Gateway",
		Long:          "catalogctl применяет миграции, создаёт учётные записи и выпускает токены, используя ту же конфигурацию CG_*, что и сервер.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newMigrateCommand(rt),
		newCreateUserCommand(rt),
		newIssueTokenCommand(rt),
		newVersionCommand(),
	)
	return root
}

// Execute выполняет команду и возвращает код завершения.
func Execute(ctx context.Context, rt *Runtime, args []string, stdout, stderr io.Writer) int {
	root := NewRootCommand(rt)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(stderr, "Ошибка: %v\n", err)
		return 1
	}
	return 0
}

// setup загружает конфигурацию и создаёт логгер (логи — в stderr команды).
func setup(cmd *cobra.Command, rt *Runtime) (*config.Config, *slog.Logger, error) {
	cfg, err := rt.LoadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("ошибка загрузки конфигурации: %w", err)
	}
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: cfg.LogLevel}))
	return cfg, logger, nil
}

func newMigrateCommand(rt *Runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Управление схемой БД",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Применить все миграции",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := setup(cmd, rt)
			if err != nil {
				return err
			}
			if err := rt.MigrateUp(cfg, logger); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Миграции применены")
			return nil
		},
	})

	var confirm bool
	down := &cobra.Command{
		Use:   "down",
		Short: "Откатить все миграции (удаляет данные)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !confirm {
				return errors.New("откат удаляет все таблицы; повторите с --yes")
			}
			cfg, logger, err := setup(cmd, rt)
			if err != nil {
				return err
			}
			if err := rt.MigrateDown(cfg, logger); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Миграции откачены")
			return nil
		},
	}
	down.Flags().BoolVar(&confirm, "yes", false, "подтвердить откат")
	cmd.AddCommand(down)

	return cmd
}

func newCreateUserCommand(rt *Runtime) *cobra.Command {
	var (
		role     string
		password string
	)

	cmd := &cobra.Command{
		Use:     "create-user <username>",
		Short:   "Создать учётную запись",
		Long:    "Создаёт пользователя с указанной ролью. Без --password пароль читается из первой строки stdin.",
		Example: "catalogctl create-user root --role admin < password.txt",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !rbac.IsValidRole(role) {
				return fmt.Errorf("недопустимая роль %q (user, admin)", role)
			}
			if password == "" {
				var err error
				if password, err = readPassword(cmd.InOrStdin()); err != nil {
					return err
				}
			}

			cfg, logger, err := setup(cmd, rt)
			if err != nil {
				return err
			}
			users, closeFn, err := rt.OpenUsers(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			defer closeFn()

			svc := service.NewAuthService(users, auth.NewPasswordHasher(cfg.BcryptCost),
				auth.NewTokenIssuer([]byte(cfg.JWTSecret), cfg.JWTTTL), logger)
			u, err := svc.Register(cmd.Context(), args[0], password, role)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Пользователь создан: id=%d username=%s role=%s\n", u.ID, u.Username, u.Role)
			return nil
		},
	}

	cmd.Flags().StringVar(&role, "role", rbac.RoleUser, "роль: user или admin")
	cmd.Flags().StringVar(&password, "password", "", "пароль (по умолчанию читается из stdin)")
	return cmd
}

func newIssueTokenCommand(rt *Runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "issue-token <username>",
		Short: "Выпустить токен для существующего пользователя",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup(cmd, rt)
			if err != nil {
				return err
			}
			users, closeFn, err := rt.OpenUsers(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			defer closeFn()

			svc := service.NewAuthService(users, auth.NewPasswordHasher(cfg.BcryptCost),
				auth.NewTokenIssuer([]byte(cfg.JWTSecret), cfg.JWTTTL), logger)
			token, _, err := svc.IssueToken(cmd.Context(), args[0])
			if err != nil {
				if errors.Is(err, service.ErrNotFound) {
					return fmt.Errorf("пользователь %q не найден", args[0])
				}
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Показать версию",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "catalogctl %s\n", config.Version)
		},
	}
}

// readPassword читает пароль из первой строки r.
func readPassword(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("ошибка чтения пароля: %w", err)
	}
	password := strings.TrimRight(line, "\r\n")
	if password == "" {
		return "", errors.New("пароль не задан: используйте --password или передайте его в stdin")
	}
	return password, nil
}
