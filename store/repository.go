// Package store is the GORM-backed record store: one repository per entity,
// built on a generic find/create/update/delete repository.
package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrNotFound is returned by Delete when no row matches.
var ErrNotFound = errors.New("record not found")

// ListOptions narrows a List call. Where holds column equality filters and
// a Limit of zero means no limit.
type ListOptions struct {
	Limit   int
	Offset  int
	Where   map[string]interface{}
	Order   string
	Preload []string
}

// Crud is the capability every entity repository offers.
type Crud[T any] interface {
	List(ctx context.Context, opts ListOptions) ([]T, int64, error)
	Get(ctx context.Context, id uint, preload ...string) (*T, error)
	Create(ctx context.Context, entity *T) error
	Save(ctx context.Context, entity *T) error
	Delete(ctx context.Context, id uint) error
}

type Repository[T any] struct {
	db *gorm.DB
}

func NewRepository[T any](db *gorm.DB) *Repository[T] {
	return &Repository[T]{db: db}
}

func (r *Repository[T]) DB(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx)
}

func (r *Repository[T]) listQuery(db *gorm.DB, opts ListOptions) *gorm.DB {
	query := db.Model(new(T))
	for column, value := range opts.Where {
		query = query.Where(map[string]interface{}{column: value})
	}
	return query
}

func (r *Repository[T]) List(ctx context.Context, opts ListOptions) ([]T, int64, error) {
	var items []T
	var total int64

	query := r.listQuery(r.DB(ctx), opts)
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	for _, p := range opts.Preload {
		query = query.Preload(p)
	}
	order := opts.Order
	if order == "" {
		order = "id"
	}
	query = query.Order(order)
	if opts.Limit > 0 {
		query = query.Limit(opts.Limit)
	}
	if opts.Offset > 0 {
		query = query.Offset(opts.Offset)
	}

	if err := query.Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// Get returns nil, nil when no row has the id.
func (r *Repository[T]) Get(ctx context.Context, id uint, preload ...string) (*T, error) {
	var entity T
	query := r.DB(ctx)
	for _, p := range preload {
		query = query.Preload(p)
	}
	result := query.First(&entity, id)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, nil // not found
	}
	if result.Error != nil {
		return nil, result.Error
	}
	return &entity, nil
}

// FindOne returns the first row matching the condition, or nil, nil.
func (r *Repository[T]) FindOne(ctx context.Context, query interface{}, args ...interface{}) (*T, error) {
	var entity T
	result := r.DB(ctx).Where(query, args...).Order("id").Take(&entity)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if result.Error != nil {
		return nil, result.Error
	}
	return &entity, nil
}

func (r *Repository[T]) Create(ctx context.Context, entity *T) error {
	return r.DB(ctx).Create(entity).Error
}

func (r *Repository[T]) Save(ctx context.Context, entity *T) error {
	return r.DB(ctx).Omit(clause.Associations).Save(entity).Error
}

func (r *Repository[T]) Delete(ctx context.Context, id uint) error {
	result := r.DB(ctx).Delete(new(T), id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("delete %d: %w", id, ErrNotFound)
	}
	return nil
}
