package export

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/Alumni-Hub/Alumni-Hub-Backend/infrastructure/mail"
	"github.com/Alumni-Hub/Alumni-Hub-Backend/log"
	"github.com/Alumni-Hub/Alumni-Hub-Backend/metrics"
	"github.com/Alumni-Hub/Alumni-Hub-Backend/model"
	"github.com/Alumni-Hub/Alumni-Hub-Backend/store"
)

// Request selects what a scheduled or on-demand export produces.
// Empty Kinds means every kind.
type Request struct {
	Kinds      []string `json:"kinds"`
	All        bool     `json:"all"`
	Recipients []string `json:"recipients"`
	DryRun     bool     `json:"dryRun"`
}

type File struct {
	Kind string `json:"kind"`
	Key  string `json:"key,omitempty"`
	Size int    `json:"size"`
}

type Result struct {
	Batchmates int    `json:"batchmates"`
	Files      []File `json:"files"`
	MessageID  string `json:"messageId,omitempty"`
}

type BatchmateLister interface {
	List(ctx context.Context, opts store.ListOptions) ([]model.Batchmate, int64, error)
}

type Archiver interface {
	WriteFile(ctx context.Context, key, contentType string, body io.Reader) error
}

type Sender interface {
	Send(ctx context.Context, msg *mail.Message) (string, error)
}

// Exporter renders the requested workbooks, archives them and mails them
// as attachments. Archiver and Sender are optional.
type Exporter struct {
	Batchmates BatchmateLister
	Archiver   Archiver
	Sender     Sender
	Recipients []string
	Now        func() time.Time
}

// Run builds every requested kind. A dry run neither archives nor mails.
func (e *Exporter) Run(ctx context.Context, req Request) (*Result, error) {
	logger := log.WithComponent("export")

	kinds := req.Kinds
	if len(kinds) == 0 {
		kinds = Kinds
	}
	for _, kind := range kinds {
		if !slices.Contains(Kinds, kind) {
			return nil, fmt.Errorf("unknown export kind %q", kind)
		}
	}

	items, total, err := e.Batchmates.List(ctx, store.ListOptions{Order: "calling_name"})
	if err != nil {
		return nil, fmt.Errorf("failed to list batchmates: %w", err)
	}

	now := time.Now()
	if e.Now != nil {
		now = e.Now()
	}

	result := &Result{Batchmates: int(total)}
	var attachments []mail.Attachment
	for _, kind := range kinds {
		data, err := Build(kind, items, Options{All: req.All})
		if err != nil {
			return nil, err
		}
		metrics.ExportsGenerated.WithLabelValues(kind).Inc()
		file := File{Kind: kind, Size: len(data)}

		if e.Archiver != nil && !req.DryRun {
			key := ArchiveKey(kind, now)
			if err := e.Archiver.WriteFile(ctx, key, ContentType, bytes.NewReader(data)); err != nil {
				return nil, fmt.Errorf("failed to archive %s: %w", kind, err)
			}
			file.Key = key
		}
		logger.Info().Str("kind", kind).Int("size", len(data)).Str("key", file.Key).Msg("Export generated")

		result.Files = append(result.Files, file)
		attachments = append(attachments, mail.Attachment{
			Filename:    Filename(kind, now),
			ContentType: ContentType,
			Content:     data,
		})
	}

	recipients := req.Recipients
	if len(recipients) == 0 {
		recipients = e.Recipients
	}
	if e.Sender == nil || len(recipients) == 0 || req.DryRun {
		return result, nil
	}

	id, err := e.Sender.Send(ctx, &mail.Message{
		To:          recipients,
		Subject:     fmt.Sprintf("Batchmate exports %s", now.Format("2006-01-02")),
		Text:        fmt.Sprintf("Attached are the batchmate exports for %d batchmates.", total),
		Attachments: attachments,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to mail exports: %w", err)
	}
	result.MessageID = id
	return result, nil
}
