package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"
	"github.com/vncsmyrnk/polls/internal/adapters/repository/postgres"
	"github.com/vncsmyrnk/polls/internal/config"
	"github.com/vncsmyrnk/polls/internal/core/services"
)

func main() {
	envErr := godotenv.Load()

	cfg := config.Load()
	fs := flag.NewFlagSet("polls", flag.ExitOnError)
	cfg.BindFlags(fs)
	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), usage)
		fs.PrintDefaults()
	}
	fs.Parse(os.Args[1:])

	logger, err := newLogger(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if envErr != nil {
		logger.Debug("No .env file found")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		logger.WithError(err).Fatal("failed to open database")
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		logger.WithError(err).WithField("host", cfg.DBHost).Fatal("failed to reach database")
	}

	// Initialize Repositories
	questionRepo := postgres.NewQuestionRepository(db)
	choiceRepo := postgres.NewChoiceRepository(db)
	tagRepo := postgres.NewTagRepository(db)

	// Initialize Services
	tagSvc := services.NewTagService(questionRepo, tagRepo)
	a := &app{
		questions:    services.NewQuestionService(questionRepo, choiceRepo, tagSvc),
		choices:      services.NewChoiceService(questionRepo, choiceRepo),
		tags:         tagSvc,
		ensureSchema: func(ctx context.Context) error { return postgres.EnsureSchema(ctx, db) },
		out:          os.Stdout,
		errOut:       os.Stderr,
		log:          logger,
	}

	if err := a.run(ctx, fs.Args()); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprintln(os.Stderr, err)
			fs.Usage()
			os.Exit(2)
		}
		logger.WithError(err).Fatal("command failed")
	}
}

func newLogger(cfg *config.Config) (*logrus.Logger, error) {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}
	logger.SetLevel(level)

	switch cfg.LogFormat {
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{})
	case "text":
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	default:
		return nil, fmt.Errorf("invalid log format %q", cfg.LogFormat)
	}

	return logger, nil
}
