package main

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/twobolsos/backend/internal/auth"
	"github.com/twobolsos/backend/internal/config"
	"github.com/twobolsos/backend/internal/controllers"
	"github.com/twobolsos/backend/internal/ledger"
	"github.com/twobolsos/backend/internal/models"
	"github.com/twobolsos/backend/internal/realtime"
	"github.com/twobolsos/backend/internal/router"
	"gorm.io/driver/mysql"
)

func main() {
	// gin uses debug as the default mode, we use release for
	// security reasons
	ginMode, ok := os.LookupEnv("GIN_MODE")
	if !ok {
		gin.SetMode("release")
	} else {
		gin.SetMode(ginMode)
	}

	// Log format can be explicitly set.
	// If it is not set, it defaults to human readable for development
	// and JSON for release
	logFormat, ok := os.LookupEnv("LOG_FORMAT")
	output := io.Writer(os.Stdout)
	if (!ok && gin.IsDebugging()) || (ok && logFormat == "human") {
		output = zerolog.ConsoleWriter{Out: os.Stdout}
	}

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if gin.IsDebugging() {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = log.Output(output).With().Timestamp().Logger()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatal().Msg(err.Error())
	}

	if err := connect(cfg); err != nil {
		log.Fatal().Msg(err.Error())
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		opts  []realtime.HubOption
		relay *realtime.RedisRelay
	)
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer client.Close()

		if err := client.Ping(ctx).Err(); err != nil {
			log.Fatal().Err(err).Str("addr", cfg.RedisAddr).Msg("redis is not reachable")
		}

		relay = realtime.NewRedisRelay(client, cfg.RedisChannel)
		opts = append(opts, realtime.WithRelay(relay))
	}

	hub := realtime.NewHub(realtime.MemberLookupFunc(func(ctx context.Context, wallet uuid.UUID) ([]uuid.UUID, error) {
		return models.MemberIDs(ctx, models.DB, wallet)
	}), opts...)

	if relay != nil {
		go func() {
			if err := relay.Run(ctx, hub.Deliver); err != nil {
				log.Error().Err(err).Msg("hint relay stopped")
			}
		}()
	}

	issuer := auth.NewIssuer(cfg.Secret(), cfg.TokenTTL)
	allowOrigin := router.AllowOrigin(cfg.CORSAllowOrigins)

	co := controllers.Controller{
		DB:                   models.DB,
		Ledger:               ledger.New(models.DB, hub, ledger.WithLocation(cfg.Timezone)),
		Auth:                 auth.NewService(models.DB, issuer),
		Issuer:               issuer,
		Hub:                  hub,
		RequireRealtimeToken: cfg.RealtimeRequireToken,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			return origin == "" || allowOrigin(origin)
		},
	}

	r, teardown, err := router.Config(cfg.APIURL, cfg.CORSAllowOrigins)
	if err != nil {
		log.Fatal().Msg(err.Error())
	}
	defer teardown()

	router.AttachRoutes(co, r.Group("/"), cfg.EnablePprof)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Str("url", cfg.APIURL.String()).Msg("listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Msg(err.Error())
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	// Websocket connections are hijacked and not tracked by the server
	hub.Close()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown failed")
	}
}

// connect opens the configured database.
func connect(cfg *config.Config) error {
	if cfg.DBDriver == config.DriverMySQL {
		return models.ConnectDialector(mysql.Open(cfg.DBDSN))
	}

	// Create the directory of the database file
	path, _, _ := strings.Cut(strings.TrimPrefix(cfg.DBDSN, "file:"), "?")
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, os.ModePerm); err != nil {
			return err
		}
	}

	return models.Connect(cfg.DBDSN)
}
