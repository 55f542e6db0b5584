package main

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/redis/go-redis/v9"

	"github.com/danielhkuo/voterauth/cliparse"
	"github.com/danielhkuo/voterauth/db"
	"github.com/danielhkuo/voterauth/handlers"
	"github.com/danielhkuo/voterauth/middleware"
	"github.com/danielhkuo/voterauth/otpstore"
	"github.com/danielhkuo/voterauth/router"
)

func main() {
	var err error

	// Parse configuration
	cfg, err := cliparse.ParseServerFlags(os.Args[1:])
	if err != nil {
		slog.Error("Error parsing flags", "error", err)
		os.Exit(1)
	}

	dbConn, err := db.Open(cfg.DatabaseType, cfg.DatabaseURL)
	if err != nil {
		slog.Error("database connection failed", "error", err, "type", cfg.DatabaseType)
		os.Exit(1)
	}
	defer dbConn.Close()

	// Create schema (tables)
	if err := db.CreateSchema(dbConn); err != nil {
		slog.Error("schema creation failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Database schema ready", "type", cfg.DatabaseType)

	if cfg.SeedFile != "" {
		voters, err := db.LoadSeedFile(cfg.SeedFile)
		if err != nil {
			slog.Error("seed file unreadable", "error", err)
			os.Exit(1)
		}
		added, err := db.SeedVoters(context.Background(), dbConn, voters)
		if err != nil {
			slog.Error("seeding failed", "error", err)
			os.Exit(1)
		}
		slog.Info("Voters seeded", "file", cfg.SeedFile, "added", added, "total", len(voters))
	}

	otps, closeOTPs, err := openOTPStore(cfg, dbConn)
	if err != nil {
		slog.Error("otp store unavailable", "error", err)
		os.Exit(1)
	}
	defer closeOTPs()

	if cfg.EchoOTP {
		slog.Warn("OTP echo enabled; codes are returned in API responses")
	}

	mux := router.NewRouter(dbConn, cfg, otps, handlers.LogSender{Logger: slog.Default()})

	server := http.Server{
		Handler: middleware.CORS(mux),
		Addr:    ":" + strconv.Itoa(cfg.Port),
	}

	// signal.Notify requires the channel to be buffered
	ctrlc := make(chan os.Signal, 1)
	signal.Notify(ctrlc, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-ctrlc
		server.Close()
	}()

	slog.Info("Listening", "port", cfg.Port)
	err = server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		slog.Error("Server closed", "error", err)
	} else {
		slog.Info("Server closed", "error", err)
	}
}

// openOTPStore uses Redis when configured and the main database otherwise
func openOTPStore(cfg cliparse.ServerConfig, dbConn *sql.DB) (otpstore.Store, func(), error) {
	if cfg.RedisURL == "" {
		return otpstore.NewSQLStore(dbConn), func() {}, nil
	}

	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, nil, err
	}
	client := redis.NewClient(opts)
	if err := client.Ping(context.Background()).Err(); err != nil {
		client.Close()
		return nil, nil, err
	}

	slog.Info("OTP challenges stored in Redis", "addr", opts.Addr)
	return otpstore.NewRedisStore(client, "voterauth:otp"), func() { client.Close() }, nil
}
