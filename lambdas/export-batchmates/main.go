package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/Alumni-Hub/Alumni-Hub-Backend/config"
	"github.com/Alumni-Hub/Alumni-Hub-Backend/core"
	"github.com/Alumni-Hub/Alumni-Hub-Backend/export"
	"github.com/Alumni-Hub/Alumni-Hub-Backend/infrastructure/filesystem"
	"github.com/Alumni-Hub/Alumni-Hub-Backend/infrastructure/mail"
	"github.com/Alumni-Hub/Alumni-Hub-Backend/log"
	"github.com/Alumni-Hub/Alumni-Hub-Backend/store"
	"github.com/aws/aws-lambda-go/lambda"
)

func HandleRequest(ctx context.Context, event export.Request) (*export.Result, error) {
	eventJson, _ := json.Marshal(event)
	log.Logger.Info().RawJSON("event", eventJson).Msg("Export requested")

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	log.Init(log.Config{Level: log.ParseLevel(cfg.LogLevel), JSONOutput: true})

	dsn, err := cfg.DatabaseDSN(ctx)
	if err != nil {
		return nil, err
	}
	dm, err := core.New(cfg.DBDriver, dsn, 2, core.ParseLogLevel(cfg.LogLevel))
	if err != nil {
		return nil, fmt.Errorf("failed to create database manager: %w", err)
	}
	defer dm.Close()

	exporter := &export.Exporter{
		Batchmates: store.NewBatchmateRepository(dm.DB),
		Recipients: cfg.ExportRecipients,
	}
	if cfg.ExportBucket != "" {
		bucket, err := filesystem.OpenBucket(ctx, cfg.ExportBucket)
		if err != nil {
			return nil, err
		}
		exporter.Archiver = bucket
	}
	if cfg.MailSender != "" {
		mailer, err := mail.Connect(ctx, cfg.MailSender)
		if err != nil {
			return nil, err
		}
		exporter.Sender = mailer
	}

	return exporter.Run(ctx, event)
}

func main() {
	if os.Getenv("AWS_LAMBDA_FUNCTION_NAME") != "" {
		lambda.Start(HandleRequest)
		return
	}

	// local dry run against the configured database
	result, err := HandleRequest(context.Background(), export.Request{DryRun: true})
	if err != nil {
		fmt.Fprintf(os.Stderr, "[ERROR] %v\n", err)
		os.Exit(1)
	}
	resJson, _ := json.MarshalIndent(result, "", "  ")
	fmt.Printf("[SUCCESS] Results:\n%s\n", string(resJson))
}
