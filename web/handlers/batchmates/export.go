package batchmates

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/Alumni-Hub/Alumni-Hub-Backend/export"
	"github.com/Alumni-Hub/Alumni-Hub-Backend/log"
	"github.com/Alumni-Hub/Alumni-Hub-Backend/metrics"
	"github.com/Alumni-Hub/Alumni-Hub-Backend/store"
	"github.com/Alumni-Hub/Alumni-Hub-Backend/web/common"
	"github.com/gin-gonic/gin"
)

func (ep *Endpoint) ExportFieldwise(c *gin.Context) {
	ep.export(c, export.KindFieldwise, export.Options{})
}

func (ep *Endpoint) ExportRaffle(c *gin.Context) {
	all, _ := strconv.ParseBool(c.DefaultQuery("all", "false"))
	ep.export(c, export.KindRaffle, export.Options{All: all})
}

func (ep *Endpoint) export(c *gin.Context, kind string, opts export.Options) {
	ctx := c.Request.Context()
	items, _, err := ep.base.Batchmates.List(ctx, store.ListOptions{Order: "calling_name"})
	if err != nil {
		common.WriteError(c, err)
		return
	}

	data, err := export.Build(kind, items, opts)
	if err != nil {
		common.WriteError(c, err)
		return
	}
	metrics.ExportsGenerated.WithLabelValues(kind).Inc()

	now := time.Now()
	ep.archive(ctx, c.GetString(common.RequestIDKey), kind, now, data)

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.Filename(kind, now)))
	c.Data(http.StatusOK, export.ContentType, data)
}

// archive copies the workbook to the export bucket. Failures are logged only.
func (ep *Endpoint) archive(ctx context.Context, requestID, kind string, at time.Time, data []byte) {
	if ep.base.Archiver == nil {
		return
	}
	logger := log.WithRequestID(requestID)
	key := export.ArchiveKey(kind, at)
	if err := ep.base.Archiver.WriteFile(ctx, key, export.ContentType, bytes.NewReader(data)); err != nil {
		logger.Warn().Err(err).Str("key", key).Msg("Failed to archive export")
		return
	}
	logger.Info().Str("key", key).Msg("Export archived")

	if ep.base.Announcer != nil {
		if err := ep.base.Announcer.Info(fmt.Sprintf("Batchmate %s export archived to %s", kind, key)); err != nil {
			logger.Warn().Err(err).Msg("Failed to announce export")
		}
	}
}
