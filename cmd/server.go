package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"

	"github.com/afoley587/coding-challenges-2025/user-records/internal/config"
	"github.com/afoley587/coding-challenges-2025/user-records/internal/httpapi"
	"github.com/afoley587/coding-challenges-2025/user-records/internal/logging"
	"github.com/afoley587/coding-challenges-2025/user-records/internal/server"
	"github.com/afoley587/coding-challenges-2025/user-records/internal/service"
	"github.com/afoley587/coding-challenges-2025/user-records/internal/store"
)

const shutdownTimeout = 10 * time.Second

var (
	configFile string
	serverCfg  = config.Default()
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Run the records server",
	Long:  "Commands related to running the gRPC and HTTP servers.",
}

var runServerCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the gRPC and HTTP servers",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := resolveConfig(cmd.Flags())
		if err != nil {
			return err
		}
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return runServer(ctx, cfg)
	},
}

// resolveConfig loads --config and then applies every flag the user set
// explicitly, so flags win over the file and the file wins over
// defaults.
func resolveConfig(flags *pflag.FlagSet) (config.Config, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return cfg, err
	}
	set := func(name string, dst *string, v string) {
		if flags.Changed(name) {
			*dst = v
		}
	}
	set("addr", &cfg.GRPCAddr, serverCfg.GRPCAddr)
	set("http-addr", &cfg.HTTPAddr, serverCfg.HTTPAddr)
	set("store", &cfg.Store, serverCfg.Store)
	set("redis-address", &cfg.Redis.Addr, serverCfg.Redis.Addr)
	set("redis-password", &cfg.Redis.Password, serverCfg.Redis.Password)
	set("postgres-dsn", &cfg.Postgres.DSN, serverCfg.Postgres.DSN)
	set("cert", &cfg.TLS.Cert, serverCfg.TLS.Cert)
	set("key", &cfg.TLS.Key, serverCfg.TLS.Key)
	set("ca", &cfg.TLS.CA, serverCfg.TLS.CA)
	set("log-level", &cfg.Log.Level, serverCfg.Log.Level)
	set("log-format", &cfg.Log.Format, serverCfg.Log.Format)
	if flags.Changed("mtls") {
		cfg.TLS.MTLS = serverCfg.TLS.MTLS
	}
	if flags.Changed("migrate") {
		cfg.Postgres.Migrate = serverCfg.Postgres.Migrate
	}
	return cfg, cfg.Validate()
}

// openStore builds the configured backend.  The returned close function
// is never nil.
func openStore(ctx context.Context, cfg config.Config, log zerolog.Logger) (store.UserStore, func() error, error) {
	switch cfg.Store {
	case config.StoreRedis:
		st, err := store.NewRedisStore(cfg.Redis.Addr, cfg.Redis.Password, nil)
		if err != nil {
			return nil, nil, fmt.Errorf("redis connection failed: %w", err)
		}
		log.Info().Str("addr", cfg.Redis.Addr).Msg("using redis store")
		return st, st.Close, nil
	case config.StorePostgres:
		if cfg.Postgres.Migrate {
			if err := store.Migrate(cfg.Postgres.DSN); err != nil {
				return nil, nil, err
			}
		}
		st, err := store.NewPostgresStore(ctx, cfg.Postgres.DSN)
		if err != nil {
			return nil, nil, err
		}
		log.Info().Msg("using postgres store")
		return st, st.Close, nil
	default:
		log.Info().Msg("using in-memory store")
		return store.NewInMemoryStore(), func() error { return nil }, nil
	}
}

func runServer(ctx context.Context, cfg config.Config) error {
	log, err := logging.New(logging.Options{Level: cfg.Log.Level, Format: logging.Format(cfg.Log.Format)})
	if err != nil {
		return err
	}

	st, closeStore, err := openStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeStore(); err != nil {
			log.Warn().Err(err).Msg("closing store")
		}
	}()

	svc := service.New(st, service.WithLogger(log))
	g, ctx := errgroup.WithContext(ctx)

	if cfg.GRPCAddr != "" {
		var opts []grpc.ServerOption
		if cfg.TLS.MTLS {
			tlsCfg, err := server.ServerTLSConfig(cfg.TLS.Cert, cfg.TLS.Key, cfg.TLS.CA)
			if err != nil {
				return err
			}
			opts = append(opts, grpc.Creds(credentials.NewTLS(tlsCfg)))
		}
		log.Info().Str("addr", cfg.GRPCAddr).Bool("mtls", cfg.TLS.MTLS).Msg("starting gRPC server")
		g.Go(func() error { return server.Run(ctx, cfg.GRPCAddr, svc, log, opts...) })
	}

	if cfg.HTTPAddr != "" {
		hs := &http.Server{
			Addr:              cfg.HTTPAddr,
			Handler:           httpapi.NewRouter(svc, log),
			ReadHeaderTimeout: 5 * time.Second,
		}
		log.Info().Str("addr", cfg.HTTPAddr).Msg("starting HTTP server")
		g.Go(func() error {
			if err := hs.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		g.Go(func() error {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return hs.Shutdown(shutdownCtx)
		})
	}

	err = g.Wait()
	log.Info().Err(err).Msg("server stopped")
	return err
}

func init() {

	runServerCmd.Flags().StringVarP(&configFile,
		"config", "c", "", "Path to a YAML config file")

	runServerCmd.Flags().StringVarP(&serverCfg.GRPCAddr,
		"addr", "a", serverCfg.GRPCAddr, "gRPC address to listen on (empty disables)")

	runServerCmd.Flags().StringVar(&serverCfg.HTTPAddr,
		"http-addr", serverCfg.HTTPAddr, "HTTP address to listen on (empty disables)")

	runServerCmd.Flags().StringVarP(&serverCfg.Store,
		"store", "s", serverCfg.Store, "Store backend: memory, redis or postgres")

	runServerCmd.Flags().StringVarP(&serverCfg.Redis.Addr,
		"redis-address", "r", serverCfg.Redis.Addr, "Redis address")

	runServerCmd.Flags().StringVarP(&serverCfg.Redis.Password,
		"redis-password", "p", "", "Redis password")

	runServerCmd.Flags().StringVar(&serverCfg.Postgres.DSN,
		"postgres-dsn", "", "PostgreSQL connection string")

	runServerCmd.Flags().BoolVar(&serverCfg.Postgres.Migrate,
		"migrate", serverCfg.Postgres.Migrate, "Apply schema migrations on startup (postgres only)")

	runServerCmd.Flags().BoolVar(&serverCfg.TLS.MTLS,
		"mtls", false, "Enable mutual TLS on gRPC (requires --cert, --key, --ca)")

	runServerCmd.Flags().StringVar(&serverCfg.TLS.Cert,
		"cert", "", "Path to server certificate (PEM)")

	runServerCmd.Flags().StringVar(&serverCfg.TLS.Key,
		"key", "", "Path to server private key (PEM)")

	runServerCmd.Flags().StringVar(&serverCfg.TLS.CA,
		"ca", "", "Path to CA certificate for verifying client certificates (PEM)")

	runServerCmd.Flags().StringVar(&serverCfg.Log.Level,
		"log-level", serverCfg.Log.Level, "Log level: debug, info, warn, error")

	runServerCmd.Flags().StringVar(&serverCfg.Log.Format,
		"log-format", serverCfg.Log.Format, "Log format: json or console")

	serverCmd.AddCommand(runServerCmd)
	rootCmd.AddCommand(serverCmd)
}
