package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/harentsoaR/healthcare-portal/internal/config"
	"github.com/harentsoaR/healthcare-portal/internal/services"
	"github.com/harentsoaR/healthcare-portal/internal/store"
	"github.com/harentsoaR/healthcare-portal/internal/store/memstore"
	"github.com/harentsoaR/healthcare-portal/internal/store/mongostore"
	"github.com/harentsoaR/healthcare-portal/internal/utils"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "healthportal",
		Short:         "Healthcare portal API",
		SilenceUsage:  true,
		SilenceErrors: true,
		// serve is the default command
		RunE: runServe,
	}
	root.AddCommand(serveCmd(), seedCmd())
	return root
}

func newLogger(cfg *config.Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.LogLevel))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.TimeFieldFormat = time.RFC3339
	if cfg.IsDev() {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
			Level(level).With().Timestamp().Logger()
	}
	return zerolog.New(os.Stderr).Level(level).With().Timestamp().Logger()
}

func loadConfig() (*config.Config, zerolog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, zerolog.Nop(), err
	}
	if err := cfg.Validate(); err != nil {
		return nil, zerolog.Nop(), err
	}
	return cfg, newLogger(cfg), nil
}

// app is everything the commands share. close releases the database client.
type app struct {
	cfg      *config.Config
	log      zerolog.Logger
	store    *store.Store
	tokens   *utils.TokenManager
	notifier *services.NotificationService
	svc      *services.Services
	client   *mongo.Client
}

func openStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*store.Store, *mongo.Client, error) {
	if cfg.StoreDriver == config.DriverMemory {
		log.Warn().Msg("using in-memory store, data is lost on exit")
		return memstore.New(), nil, nil
	}

	client, err := mongostore.Connect(ctx, cfg.MongoURI, cfg.MongoTimeout)
	if err != nil {
		return nil, nil, err
	}
	db := client.Database(cfg.MongoDatabase)
	if err := mongostore.EnsureIndexes(ctx, db); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("ensure indexes: %w", err)
	}
	log.Info().Str("database", cfg.MongoDatabase).Msg("connected to mongodb")
	return mongostore.New(db), client, nil
}

func newApp(ctx context.Context) (*app, error) {
	cfg, log, err := loadConfig()
	if err != nil {
		return nil, err
	}
	st, client, err := openStore(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, log: log, store: st, client: client}
	a.tokens = utils.NewTokenManager(cfg.JWTSecret, cfg.JWTTTL)

	deps := services.Deps{
		Store:  st,
		Tokens: a.tokens,
		Hasher: utils.NewPasswordHasher(cfg.BcryptCost),
		Log:    log,
	}
	a.notifier = services.NewNotificationService(cfg.TextbeltAPIKey, cfg.TextbeltURL, log)
	if a.notifier.Enabled() {
		deps.Notifier = a.notifier
	} else {
		log.Info().Msg("TEXTBELT_API_KEY not set, SMS notifications disabled")
	}
	a.svc = services.New(deps)
	return a, nil
}

func (a *app) close() {
	a.notifier.Wait()
	if a.client == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := a.client.Disconnect(ctx); err != nil {
		a.log.Error().Err(err).Msg("disconnect mongodb")
	}
}
