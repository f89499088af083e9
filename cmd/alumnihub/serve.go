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

	"github.com/Alumni-Hub/Alumni-Hub-Backend/attendance"
	"github.com/Alumni-Hub/Alumni-Hub-Backend/config"
	"github.com/Alumni-Hub/Alumni-Hub-Backend/export"
	"github.com/Alumni-Hub/Alumni-Hub-Backend/infrastructure/communication"
	"github.com/Alumni-Hub/Alumni-Hub-Backend/infrastructure/filesystem"
	"github.com/Alumni-Hub/Alumni-Hub-Backend/infrastructure/mail"
	"github.com/Alumni-Hub/Alumni-Hub-Backend/log"
	"github.com/Alumni-Hub/Alumni-Hub-Backend/security"
	"github.com/Alumni-Hub/Alumni-Hub-Backend/store"
	"github.com/Alumni-Hub/Alumni-Hub-Backend/store/memstore"
	"github.com/Alumni-Hub/Alumni-Hub-Backend/web"
	"github.com/Alumni-Hub/Alumni-Hub-Backend/web/common"
	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		inMemory, _ := cmd.Flags().GetBool("in-memory")
		return serve(cmd.Context(), cfg, inMemory)
	},
}

func init() {
	serveCmd.Flags().Bool("in-memory", false, "Keep records in process memory instead of the database")
}

// scheduleExports starts periodic exports when EXPORT_SCHEDULE is set and the
// workbooks have somewhere to go.
func scheduleExports(cfg *config.Config, h *common.Handler) (*cron.Cron, error) {
	if cfg.ExportSchedule == "" {
		return nil, nil
	}
	logger := log.WithComponent("export")

	exporter := &export.Exporter{Batchmates: h.Batchmates, Recipients: cfg.ExportRecipients}
	if h.Archiver != nil {
		exporter.Archiver = h.Archiver
	}
	if mailer, ok := h.Notifier.(export.Sender); ok {
		exporter.Sender = mailer
	}
	if exporter.Archiver == nil && (exporter.Sender == nil || len(cfg.ExportRecipients) == 0) {
		logger.Warn().Msg("EXPORT_SCHEDULE is set but neither EXPORT_BUCKET nor MAIL_SENDER with EXPORT_MAIL_TO is; scheduled exports disabled")
		return nil, nil
	}

	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)))
	_, err := c.AddFunc(cfg.ExportSchedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 4*time.Minute)
		defer cancel()

		result, err := exporter.Run(ctx, export.Request{})
		if err != nil {
			logger.Error().Err(err).Msg("Scheduled export failed")
			return
		}
		logger.Info().Int("files", len(result.Files)).Str("message_id", result.MessageID).Msg("Scheduled export finished")
	})
	if err != nil {
		return nil, fmt.Errorf("invalid EXPORT_SCHEDULE %q: %w", cfg.ExportSchedule, err)
	}

	logger.Info().Str("schedule", cfg.ExportSchedule).Msg("Scheduled exports enabled")
	c.Start()
	return c, nil
}

func serve(ctx context.Context, cfg *config.Config, inMemory bool) error {
	logger := log.WithComponent("server")

	h := &common.Handler{FrontendURL: cfg.FrontendURL}
	if inMemory {
		s := memstore.New()
		h.Batchmates, h.Events, h.Attendances, h.Notifications = s.Batchmates, s.Events, s.Attendances, s.Notifications
		h.Reconciler = attendance.NewReconciler(s.Events, s.Batchmates, s.Attendances)
		logger.Warn().Msg("Running with in-memory records; nothing is persisted")
	} else {
		dm, err := openDatabase(ctx, cfg)
		if err != nil {
			return err
		}
		defer dm.Close()

		batchmates := store.NewBatchmateRepository(dm.DB)
		events := store.NewEventRepository(dm.DB)
		attendances := store.NewAttendanceRepository(dm.DB)
		h.Batchmates, h.Events, h.Attendances = batchmates, events, attendances
		h.Notifications = store.NewNotificationRepository(dm.DB)
		h.Reconciler = attendance.NewReconciler(events, batchmates, attendances)
	}

	var alerter attendance.Alerter
	if slack := communication.ConnectSlack(cfg.SlackBotToken, communication.SlackOption{
		InfoChannelID:  cfg.SlackInfoChannel,
		ErrorChannelID: cfg.SlackErrorChannel,
	}); slack != nil {
		alerter = slack
		h.Announcer = slack
	}

	if cfg.ExportBucket != "" {
		bucket, err := filesystem.OpenBucket(ctx, cfg.ExportBucket)
		if err != nil {
			return err
		}
		h.Archiver = bucket
	}
	if cfg.MailSender != "" {
		mailer, err := mail.Connect(ctx, cfg.MailSender)
		if err != nil {
			return err
		}
		h.Notifier = mailer
	}

	var secret []byte
	if cfg.SigningSecret != "" {
		var err error
		if secret, err = security.DecodeSecret(cfg.SigningSecret); err != nil {
			return err
		}
	} else {
		logger.Warn().Msg("ALUMNIHUB_SIGNING_SECRET is not set; bearer tokens are ignored")
	}

	queue := attendance.NewSyncQueue(h.Reconciler, attendance.DefaultSyncQueueConfig(), alerter)
	queue.Start()
	h.Sync = queue

	if !cfg.LogJSON && log.ParseLevel(cfg.LogLevel) == log.DebugLevel {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router, err := web.NewRouter(h, web.Options{
		JWTSecret:      secret,
		CheckInRate:    cfg.CheckInRateLimit,
		CheckInBurst:   cfg.CheckInBurst,
		TrustedProxies: cfg.TrustedProxies,
	})
	if err != nil {
		queue.Stop()
		return err
	}

	scheduler, err := scheduleExports(cfg, h)
	if err != nil {
		queue.Stop()
		return err
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", srv.Addr).Msg("Listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	var serveErr error
	select {
	case <-sigCh:
		logger.Info().Msg("Shutting down")
	case serveErr = <-errCh:
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Failed to shut down http server")
	}
	if scheduler != nil {
		<-scheduler.Stop().Done()
	}
	// pending syncs still run after the last request
	queue.Stop()

	return serveErr
}
