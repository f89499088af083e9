package notifications

import (
	"context"
	"strings"
	"time"

	"github.com/Alumni-Hub/Alumni-Hub-Backend/attendance"
	"github.com/Alumni-Hub/Alumni-Hub-Backend/model"
	"github.com/Alumni-Hub/Alumni-Hub-Backend/web/common"
	"github.com/Alumni-Hub/Alumni-Hub-Backend/web/handlers/crud"
	"github.com/gin-gonic/gin"
)

func Register(r *gin.RouterGroup, h *common.Handler) {
	resource := &crud.Resource[model.Notification, *model.Notification]{
		Name:    "Notification",
		Repo:    h.Notifications,
		Filters: map[string]string{"audience": "audience"},
		Order:   "id desc",
		Dates: map[string]func(*model.Notification) **time.Time{
			"publishedAt": func(n *model.Notification) **time.Time { return &n.PublishedAt },
		},
		Prepare: func(ctx context.Context, n *model.Notification, payload crud.Payload, existing bool) error {
			if strings.TrimSpace(n.Title) == "" {
				return &attendance.ValidationError{Message: "Notification title is required"}
			}
			if n.Audience == "" {
				n.Audience = "all"
			}
			return nil
		},
	}
	resource.Register(r, "/notifications")
}
