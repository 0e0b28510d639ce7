// coldquote es el backend de cotización frigorífica: cuentas, proyectos y
// cálculos de aire húmedo / cámara fría detrás de una API REST.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/dropDatabas3/coldquote/internal/app"
	"github.com/dropDatabas3/coldquote/internal/config"
	"github.com/dropDatabas3/coldquote/internal/domain/repository"
	apihttp "github.com/dropDatabas3/coldquote/internal/http"
	"github.com/dropDatabas3/coldquote/internal/observability/logger"
)

var cfgPath string

func main() {
	// .env es opcional, en prod la config viene del entorno real
	_ = godotenv.Load()

	root := &cobra.Command{
		Use:           "coldquote",
		Short:         "Backend de cotización frigorífica",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&cfgPath, "config", "c", "config.yaml", "ruta del archivo de configuración")

	root.AddCommand(serveCmd(), migrateCmd(), seedCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}
	logger.Init(logger.Config{Env: cfg.App.Env, Level: cfg.Log.Level, ServiceName: "coldquote"})
	return cfg, nil
}

func serveCmd() *cobra.Command {
	var withMigrate bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Levanta la API HTTP",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			c, err := app.New(ctx, cfg)
			if err != nil {
				return err
			}
			defer c.Close()

			if withMigrate && c.PG != nil {
				if _, err := c.PG.Migrate(ctx); err != nil {
					return err
				}
			}

			srv := apihttp.NewServer(cfg.Server.Addr, apihttp.NewRouter(c.API))

			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error { return srv.Run(gctx) })

			if err := g.Wait(); err != nil {
				logger.L().Error("server exited", zap.Error(err))
				return err
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&withMigrate, "migrate", false, "aplica las migraciones antes de servir")
	return cmd
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Aplica las migraciones de esquema",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			c, err := app.New(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer c.Close()

			if c.PG == nil {
				return fmt.Errorf("migrate requiere el driver postgres")
			}
			n, err := c.PG.Migrate(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Printf("%d archivos aplicados\n", n)
			return nil
		},
	}
}

func seedCmd() *cobra.Command {
	var email, pass string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Crea la cuenta admin inicial y los coeficientes de fast quote",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			if email == "" {
				email = os.Getenv("COLDQUOTE_ADMIN_EMAIL")
			}
			if pass == "" {
				pass = os.Getenv("COLDQUOTE_ADMIN_PASSWORD")
			}

			c, err := app.New(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer c.Close()

			return seed(cmd.Context(), c, email, pass)
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "email del admin inicial (o COLDQUOTE_ADMIN_EMAIL)")
	cmd.Flags().StringVar(&pass, "password", "", "password del admin inicial (o COLDQUOTE_ADMIN_PASSWORD)")
	return cmd
}

// defaultCoefficients es la tabla de arranque del fast quote, por categoría y
// banda de volumen en m³, coeficiente en W/m³.
var defaultCoefficients = []repository.CoolingCoefficient{
	{Category: repository.ColdRoomQuai, VolMin: 0, VolMax: 500, Coef: 95},
	{Category: repository.ColdRoomQuai, VolMin: 500, VolMax: 2000, Coef: 75},
	{Category: repository.ColdRoomQuai, VolMin: 2000, VolMax: 100000, Coef: 60},
	{Category: repository.ColdRoomCF, VolMin: 0, VolMax: 500, Coef: 120},
	{Category: repository.ColdRoomCF, VolMin: 500, VolMax: 2000, Coef: 100},
	{Category: repository.ColdRoomCF, VolMin: 2000, VolMax: 100000, Coef: 85},
	{Category: repository.ColdRoomPlateforme, VolMin: 0, VolMax: 500, Coef: 80},
	{Category: repository.ColdRoomPlateforme, VolMin: 500, VolMax: 2000, Coef: 65},
	{Category: repository.ColdRoomPlateforme, VolMin: 2000, VolMax: 100000, Coef: 50},
}

func seed(ctx context.Context, c *app.Container, email, pass string) error {
	log := logger.Named("seed")

	if email != "" && pass != "" {
		u, err := c.API.SignUp.Users.SignUp(ctx, email, pass, repository.RoleAdmin)
		switch {
		case err == nil:
			log.Info("admin creado", zap.String("email", u.Email))
		case repository.IsConflict(err):
			log.Info("admin ya existe", zap.String("email", email))
		default:
			return err
		}
	} else {
		log.Info("sin credenciales de admin, solo se siembran coeficientes")
	}

	for _, coef := range defaultCoefficients {
		_, err := c.API.AddCoef.Coefs.Add(ctx, coef)
		if err != nil && !repository.IsConflict(err) {
			return err
		}
	}
	log.Info("coeficientes sembrados", zap.Int("bandas", len(defaultCoefficients)))
	return nil
}
