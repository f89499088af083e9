// Package crud serves list/get/create/update/delete for one entity using
// {"data": ...} request and response envelopes.
package crud

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/Alumni-Hub/Alumni-Hub-Backend/model"
	"github.com/Alumni-Hub/Alumni-Hub-Backend/store"
	"github.com/Alumni-Hub/Alumni-Hub-Backend/web/common"
	"github.com/gin-gonic/gin"
)

// Payload is a decoded request body keyed by JSON field name.
type Payload map[string]json.RawMessage

// Has reports whether the client sent key.
func (p Payload) Has(key string) bool {
	_, ok := p[key]
	return ok
}

// String returns the string value of key, or "".
func (p Payload) String(key string) string {
	var s string
	if raw, ok := p[key]; ok {
		_ = json.Unmarshal(raw, &s)
	}
	return s
}

type Resource[T any, PT interface {
	*T
	model.Entity
}] struct {
	// Name is used in messages, e.g. "Event not found".
	Name string
	Repo store.Crud[T]

	// Filters maps accepted query parameters onto columns.
	Filters map[string]string
	Order   string
	Preload []string

	// Aliases renames payload keys before decoding.
	Aliases map[string]string
	// IDs lists payload keys holding ids that may arrive as strings.
	IDs []string
	// Dates maps payload keys to the time field they set.
	Dates map[string]func(PT) **time.Time
	// ReadOnly keys are dropped from payloads.
	ReadOnly []string

	// Prepare runs after decoding and before persisting. existing is false on create.
	Prepare func(ctx context.Context, entity PT, payload Payload, existing bool) error
	// AfterUpdate runs once the update is committed.
	AfterUpdate func(c *gin.Context, entity PT, payload Payload)
}

func (r *Resource[T, PT]) Register(g *gin.RouterGroup, path string) {
	g.GET(path, r.List)
	g.POST(path, r.Create)
	g.GET(path+"/:id", r.Get)
	g.PUT(path+"/:id", r.Update)
	g.DELETE(path+"/:id", r.Delete)
}

func (r *Resource[T, PT]) notFound() string {
	return r.Name + " not found"
}

func (r *Resource[T, PT]) isID(param string) bool {
	for _, key := range r.IDs {
		if key == param {
			return true
		}
	}
	return false
}

func (r *Resource[T, PT]) List(c *gin.Context) {
	var page common.PageQuery
	if err := c.ShouldBindQuery(&page); err != nil {
		common.BadRequest(c, common.FormatBindingError(err))
		return
	}

	where := map[string]interface{}{}
	for param, column := range r.Filters {
		v, ok := c.GetQuery(param)
		if !ok {
			continue
		}
		if !r.isID(param) {
			where[column] = v
			continue
		}
		id, err := common.ParseID(v)
		if err != nil {
			common.BadRequest(c, common.FormatBindingError(&common.FieldError{Field: param, Err: &common.InvalidIDError{Value: v}}))
			return
		}
		where[column] = id
	}

	items, total, err := r.Repo.List(c.Request.Context(), store.ListOptions{
		Limit:   page.Limit,
		Offset:  page.Offset,
		Where:   where,
		Order:   r.Order,
		Preload: r.Preload,
	})
	if err != nil {
		common.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, common.NewSearchResponse(items, total, page))
}

func (r *Resource[T, PT]) Get(c *gin.Context) {
	id, err := common.ParseID(c.Param("id"))
	if err != nil {
		common.BadRequest(c, err.Error())
		return
	}

	entity, err := r.Repo.Get(c.Request.Context(), id, r.Preload...)
	if err != nil {
		common.WriteError(c, err)
		return
	}
	if entity == nil {
		common.NotFound(c, r.notFound())
		return
	}
	c.JSON(http.StatusOK, common.NewSuccessResponse(entity))
}

func (r *Resource[T, PT]) Create(c *gin.Context) {
	payload, err := r.readPayload(c)
	if err != nil {
		common.BadRequest(c, common.FormatBindingError(err))
		return
	}

	entity := PT(new(T))
	if err := r.decode(payload, entity); err != nil {
		common.BadRequest(c, common.FormatBindingError(err))
		return
	}
	if r.Prepare != nil {
		if err := r.Prepare(c.Request.Context(), entity, payload, false); err != nil {
			common.WriteError(c, err)
			return
		}
	}

	if err := r.Repo.Create(c.Request.Context(), (*T)(entity)); err != nil {
		common.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, common.NewSuccessResponse(entity))
}

func (r *Resource[T, PT]) Update(c *gin.Context) {
	id, err := common.ParseID(c.Param("id"))
	if err != nil {
		common.BadRequest(c, err.Error())
		return
	}
	payload, err := r.readPayload(c)
	if err != nil {
		common.BadRequest(c, common.FormatBindingError(err))
		return
	}

	ctx := c.Request.Context()
	existing, err := r.Repo.Get(ctx, id)
	if err != nil {
		common.WriteError(c, err)
		return
	}
	if existing == nil {
		common.NotFound(c, r.notFound())
		return
	}

	entity := PT(existing)
	// fields absent from the payload keep their stored values
	if err := r.decode(payload, entity); err != nil {
		common.BadRequest(c, common.FormatBindingError(err))
		return
	}
	entity.SetID(id)
	if r.Prepare != nil {
		if err := r.Prepare(ctx, entity, payload, true); err != nil {
			common.WriteError(c, err)
			return
		}
	}

	if err := r.Repo.Save(ctx, existing); err != nil {
		common.WriteError(c, err)
		return
	}
	if r.AfterUpdate != nil {
		r.AfterUpdate(c, entity, payload)
	}
	c.JSON(http.StatusOK, common.NewSuccessResponse(entity))
}

func (r *Resource[T, PT]) Delete(c *gin.Context) {
	id, err := common.ParseID(c.Param("id"))
	if err != nil {
		common.BadRequest(c, err.Error())
		return
	}

	ctx := c.Request.Context()
	entity, err := r.Repo.Get(ctx, id)
	if err != nil {
		common.WriteError(c, err)
		return
	}
	if entity == nil {
		common.NotFound(c, r.notFound())
		return
	}
	if err := r.Repo.Delete(ctx, id); err != nil {
		common.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, common.NewSuccessResponse(entity))
}

// readPayload accepts {"data": {...}} or a bare object.
func (r *Resource[T, PT]) readPayload(c *gin.Context) (Payload, error) {
	var body Payload
	if err := c.ShouldBindJSON(&body); err != nil {
		return nil, err
	}
	if inner, ok := body["data"]; ok && len(bytes.TrimSpace(inner)) > 0 && bytes.TrimSpace(inner)[0] == '{' {
		var payload Payload
		if err := json.Unmarshal(inner, &payload); err != nil {
			return nil, &common.FieldError{Field: "data", Err: err}
		}
		body = payload
	}

	for from, to := range r.Aliases {
		if v, ok := body[from]; ok {
			if _, taken := body[to]; !taken {
				body[to] = v
			}
			delete(body, from)
		}
	}
	for _, key := range append([]string{"id", "createdAt", "updatedAt"}, r.ReadOnly...) {
		delete(body, key)
	}
	for _, key := range r.IDs {
		if raw, ok := body[key]; ok {
			var id common.FlexibleID
			if err := json.Unmarshal(raw, &id); err != nil {
				return nil, &common.FieldError{Field: key, Err: err}
			}
			body[key] = json.RawMessage(strconv.FormatUint(uint64(id), 10))
		}
	}
	return body, nil
}

func (r *Resource[T, PT]) decode(payload Payload, entity PT) error {
	plain := make(Payload, len(payload))
	for k, v := range payload {
		if _, isDate := r.Dates[k]; !isDate {
			plain[k] = v
		}
	}
	raw, err := json.Marshal(plain)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, entity); err != nil {
		return err
	}

	for key, field := range r.Dates {
		raw, ok := payload[key]
		if !ok {
			continue
		}
		var d common.Date
		if err := json.Unmarshal(raw, &d); err != nil {
			return &common.FieldError{Field: key, Err: err}
		}
		*field(entity) = d.Ptr()
	}
	return nil
}
