package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"

	"deadline-tracker/internal/config"
	"deadline-tracker/internal/mail"
	"deadline-tracker/internal/repository"
	"deadline-tracker/internal/routes"
	"deadline-tracker/internal/service"
)

func main() {
	// Load .env file first, but don't error if it doesn't exist.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := &cli.App{
		Name:  "deadlined",
		Usage: "Track deadlines and deliver scheduled email reminders.",
		Commands: []*cli.Command{
			serveCommand(),
			importCommand(),
		},
	}

	if err := app.RunContext(ctx, os.Args); err != nil {
		logger := newLogger()
		logger.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}

func newLogger() zerolog.Logger {
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		With().Timestamp().Logger()
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the HTTP API and the periodic reminder dispatcher.",
		Action: func(c *cli.Context) error {
			logger := newLogger()

			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("config: %w", err)
			}

			db, err := repository.NewDB(cfg.DatabaseURL)
			if err != nil {
				return fmt.Errorf("db: %w", err)
			}
			if sqlDB, err := db.DB(); err == nil {
				defer sqlDB.Close()
			}

			userRepo := repository.NewUserRepository(db)
			labelRepo := repository.NewLabelRepository(db)
			eventRepo := repository.NewEventRepository(db)
			reminderRepo := repository.NewReminderRepository(db)
			attachmentRepo := repository.NewAttachmentRepository(db)

			var mailer mail.Mailer
			switch cfg.MailBackend {
			case config.MailBackendSMTP:
				mailer = mail.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword)
			default:
				mailer = mail.NewConsoleMailer(logger)
			}

			validate := validator.New()
			eventSvc := service.NewEventService(eventRepo, labelRepo, validate)
			labelSvc := service.NewLabelService(labelRepo, validate)
			attachmentSvc := service.NewAttachmentService(attachmentRepo, eventRepo, cfg.MediaRoot)
			dispatchSvc := service.NewDispatchService(
				reminderRepo, mailer, cfg.DefaultFrom, cfg.Location, cfg.DispatchBatchSize, logger)

			scheduler := service.NewSchedulerService(cfg.Location)
			if _, err := scheduler.ScheduleInterval(cfg.DispatchInterval, func() {
				jobCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
				defer cancel()
				sent, err := dispatchSvc.SendDueReminders(jobCtx, time.Now())
				switch {
				case err != nil:
					logger.Error().Err(err).Int("sent", sent).Msg("reminder dispatch aborted")
				case sent > 0:
					logger.Info().Int("sent", sent).Msg("reminders dispatched")
				}
			}); err != nil {
				return fmt.Errorf("schedule dispatch: %w", err)
			}
			scheduler.Start()
			defer scheduler.Stop()

			e := echo.New()
			e.HideBanner = true
			e.Use(middleware.Recover())

			eventRoutes := routes.NewEventRoutes(eventSvc, userRepo)
			labelRoutes := routes.NewLabelRoutes(labelSvc, userRepo)
			attachmentRoutes := routes.NewAttachmentRoutes(attachmentSvc, userRepo)

			e.GET("/api/events", eventRoutes.List)
			e.POST("/api/events", eventRoutes.Create)
			e.GET("/api/events/:id", eventRoutes.Get)
			e.PATCH("/api/events/:id/status", eventRoutes.UpdateStatus)
			e.DELETE("/api/events/:id", eventRoutes.Delete)

			e.GET("/api/labels", labelRoutes.List)
			e.POST("/api/labels", labelRoutes.Create)
			e.DELETE("/api/labels/:id", labelRoutes.Delete)

			e.POST("/api/events/:id/attachments", attachmentRoutes.Upload)
			e.GET("/api/events/:id/attachments", attachmentRoutes.List)
			e.GET("/api/events/:id/attachments/:attachmentID", attachmentRoutes.Download)

			go func() {
				if err := e.Start(cfg.HTTPAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Error().Err(err).Msg("http server stopped")
				}
			}()

			logger.Info().
				Str("addr", cfg.HTTPAddr).
				Dur("dispatch_interval", cfg.DispatchInterval).
				Msg("deadline tracker started")

			<-c.Context.Done()

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := e.Shutdown(shutdownCtx); err != nil {
				logger.Error().Err(err).Msg("http shutdown")
			}
			logger.Info().Msg("shutdown complete")
			return nil
		},
	}
}

func importCommand() *cli.Command {
	return &cli.Command{
		Name:      "import",
		Usage:     "Import events from a CSV file for the given user.",
		ArgsUsage: "<user-email> <csv-path>",
		Action: func(c *cli.Context) error {
			if c.NArg() != 2 {
				return cli.Exit("usage: deadlined import <user-email> <csv-path>", 2)
			}
			userEmail, csvPath := c.Args().Get(0), c.Args().Get(1)

			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("config: %w", err)
			}

			db, err := repository.NewDB(cfg.DatabaseURL)
			if err != nil {
				return fmt.Errorf("db: %w", err)
			}
			if sqlDB, err := db.DB(); err == nil {
				defer sqlDB.Close()
			}

			importSvc := service.NewImportService(
				repository.NewUserRepository(db),
				repository.NewEventRepository(db),
				repository.NewLabelRepository(db),
				cfg.Location,
			)

			f, err := os.Open(csvPath)
			if err != nil {
				return fmt.Errorf("open csv: %w", err)
			}
			defer f.Close()

			created, err := importSvc.Import(c.Context, userEmail, f)
			var rowErrs service.ImportErrors
			if errors.As(err, &rowErrs) {
				for _, rowErr := range rowErrs {
					fmt.Fprintln(os.Stderr, rowErr)
				}
				return cli.Exit("aborting import due to errors", 1)
			}
			if err != nil {
				return err
			}

			fmt.Printf("Imported %d events\n", created)
			return nil
		},
	}
}
