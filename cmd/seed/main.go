// Command seed creates or updates a user so the API has someone to log in as.
package main

import (
	"context"
	"flag"
	"log"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fastygo/tasktracker/domain"
	"github.com/fastygo/tasktracker/internal/config"
	pgInfra "github.com/fastygo/tasktracker/internal/infrastructure/postgres"
	"github.com/fastygo/tasktracker/pkg/logger"
	"github.com/fastygo/tasktracker/repository/postgres"
)

func main() {
	var user domain.User
	flag.StringVar(&user.Username, "username", "", "login name (required)")
	flag.StringVar(&user.HashedPassword, "password", "", "stored credential, compared verbatim on login (required)")
	flag.StringVar(&user.Email, "email", "", "email address, defaults to <username>@localhost")
	flag.StringVar(&user.FirstName, "first-name", "", "first name")
	flag.StringVar(&user.LastName, "last-name", "", "last name")
	flag.StringVar(&user.Role, "role", "user", "role, e.g. admin or user")
	inactive := flag.Bool("inactive", false, "create the user deactivated")
	flag.Parse()

	user.Username = strings.TrimSpace(user.Username)
	if user.Username == "" || user.HashedPassword == "" {
		flag.Usage()
		log.Fatal("username and password are required")
	}
	if user.Email == "" {
		user.Email = user.Username + "@localhost"
	}
	user.ID = uuid.NewString()
	user.Active = !*inactive

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	zapLogger, err := logger.New(logger.Config{Level: cfg.Logger.Level, Encoding: "console"})
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer zapLogger.Sync()

	if err := pgInfra.RunMigrations(cfg, zapLogger); err != nil {
		zapLogger.Fatal("migrations failed", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Context.ShutdownTimeout)
	defer cancel()

	pool, err := pgInfra.NewPool(ctx, cfg.Database, zapLogger)
	if err != nil {
		zapLogger.Fatal("postgres connection failed", zap.Error(err))
	}
	defer pgInfra.Close(pool, zapLogger)

	if err := postgres.NewUserRepository(pool).Upsert(ctx, &user); err != nil {
		zapLogger.Fatal("seed failed", zap.Error(err))
	}
	zapLogger.Info("user seeded",
		zap.String("id", user.ID),
		zap.String("username", user.Username),
		zap.String("role", user.Role))
}
