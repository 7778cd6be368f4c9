// Command adminauthd serves the admin authentication API for the
// storefront's back office.
//
// Configuration comes from flags with environment fallbacks. Without a
// Mongo URI the server runs on an in-memory store, which is only useful
// for local development.
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/clayworks/adminauth"
	"github.com/clayworks/adminauth/audit"
	"github.com/clayworks/adminauth/httpapi"
	memorystore "github.com/clayworks/adminauth/store/memory"
	mongostore "github.com/clayworks/adminauth/store/mongo"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type serverConfig struct {
	addr        string
	tokenSecret string
	tokenTTL    time.Duration
	mongoURI    string
	mongoDB     string
	redisAddr   string
	auditPath   string
}

func loadConfig() serverConfig {
	var cfg serverConfig

	flag.StringVar(&cfg.addr, "addr", envOr("ADMINAUTH_ADDR", ":8080"), "listen address")
	flag.StringVar(&cfg.tokenSecret, "token-secret", os.Getenv("ADMINAUTH_TOKEN_SECRET"), "JWT signing secret (required)")
	flag.DurationVar(&cfg.tokenTTL, "token-ttl", envDurationOr("ADMINAUTH_TOKEN_TTL", 0), "token lifetime (default 168h)")
	flag.StringVar(&cfg.mongoURI, "mongo-uri", os.Getenv("ADMINAUTH_MONGO_URI"), "mongodb connection string (empty = in-memory store)")
	flag.StringVar(&cfg.mongoDB, "mongo-db", envOr("ADMINAUTH_MONGO_DB", "claystore"), "mongodb database name")
	flag.StringVar(&cfg.redisAddr, "redis-addr", os.Getenv("ADMINAUTH_REDIS_ADDR"), "redis address for shared rate limiting (empty = per-process)")
	flag.StringVar(&cfg.auditPath, "audit-log", os.Getenv("ADMINAUTH_AUDIT_LOG"), "audit log file (empty = discard)")
	flag.Parse()

	return cfg
}

func envOr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func envDurationOr(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return d
}

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := run(logger); err != nil {
		logger.Error("server exited", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	cfg := loadConfig()
	if cfg.tokenSecret == "" {
		return errors.New("token secret is required (-token-secret or ADMINAUTH_TOKEN_SECRET)")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	builder := adminauth.New().WithTokenSecret([]byte(cfg.tokenSecret))

	if cfg.tokenTTL > 0 {
		authCfg := adminauth.DefaultConfig()
		authCfg.Token.Secret = []byte(cfg.tokenSecret)
		authCfg.Token.TTL = cfg.tokenTTL
		builder.WithConfig(authCfg)
	}

	if cfg.mongoURI != "" {
		connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()

		client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.mongoURI))
		if err != nil {
			return err
		}
		defer func() { _ = client.Disconnect(context.Background()) }()

		store := mongostore.New(client.Database(cfg.mongoDB))
		if err := store.EnsureIndexes(connectCtx); err != nil {
			return err
		}
		builder.WithStore(store)
		logger.Info("using mongodb store", slog.String("database", cfg.mongoDB))
	} else {
		builder.WithStore(memorystore.New())
		logger.Warn("using in-memory store, accounts will not survive restarts")
	}

	if cfg.redisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.redisAddr})
		defer func() { _ = client.Close() }()

		if err := client.Ping(ctx).Err(); err != nil {
			return err
		}
		builder.WithRedis(client)
		logger.Info("using redis rate limiter", slog.String("addr", cfg.redisAddr))
	}

	if cfg.auditPath != "" {
		file, err := os.OpenFile(cfg.auditPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return err
		}
		defer func() { _ = file.Close() }()
		builder.WithAuditSink(audit.NewJSONWriterSink(file))
	}

	gateway, err := builder.Build()
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr:              cfg.addr,
		Handler:           httpapi.New(gateway, logger).Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", slog.String("addr", cfg.addr))
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
