package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	api "github.com/rpupo63/portfolio-api/api"
	"github.com/rpupo63/portfolio-api/config"
	"github.com/rpupo63/portfolio-api/database"
	"github.com/rpupo63/portfolio-api/models"
	"github.com/rpupo63/portfolio-api/storage"
)

func main() {
	log.Info().Msg("Initializing app...")

	if err := godotenv.Load(); err != nil {
		log.Warn().Err(err).Msg("no .env file loaded")
	}

	c := config.New()
	setLogLevel(config.GetString(c, "LOG_LEVEL", "info"))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := config.LoadSecrets(ctx, c); err != nil {
		log.Fatal().Err(err).Msg("Error loading secrets")
	}

	db, err := database.Connect(c)
	if err != nil {
		log.Fatal().Err(err).Msg("Error connecting to database")
	}
	defer database.Close(db)

	if config.GetBool(c, "GENERATE_MODELS", false) {
		log.Info().Msg("Generating models and query helpers...")
		if err := models.GenerateModels(db, "./generated"); err != nil {
			log.Fatal().Err(err).Msg("Error generating models")
		}
		return
	}

	if err := database.AutoMigrate(db); err != nil {
		log.Fatal().Err(err).Msg("Error migrating database")
	}

	if config.GetBool(c, "GENERATE_COLUMN_REPORT", false) {
		log.Info().Msg("Generating column mismatch report...")
		report, err := models.ColumnMismatchReport(db)
		if err != nil {
			log.Fatal().Err(err).Msg("Error building column report")
		}
		models.WriteColumnMismatchReport(os.Stdout, report)
		return
	}

	images, err := storage.New(ctx, c)
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing image storage")
	}

	server, err := api.NewServer(c, database.New(db), images)
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing server")
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(server.Start)
	g.Go(func() error {
		<-gctx.Done()
		server.ShutdownGracefully(30 * time.Second)
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("Server stopped with error")
		os.Exit(1)
	}
}

func setLogLevel(level string) {
	parsed, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || parsed == zerolog.NoLevel {
		parsed = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(parsed)
}
