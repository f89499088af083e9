// Package memstore is an in-memory record store with the same repository
// surface as package store. It backs tests and the server's --in-memory mode.
package memstore

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Alumni-Hub/Alumni-Hub-Backend/model"
	"github.com/Alumni-Hub/Alumni-Hub-Backend/store"
	"gorm.io/gorm/schema"
)

// Table holds rows of one entity keyed by id.
type Table[T any, PT interface {
	*T
	model.Entity
}] struct {
	mu       sync.RWMutex
	nextID   uint
	rows     map[uint]T
	schema   *schema.Schema
	populate func(ctx context.Context, row *T, preload []string)
}

func NewTable[T any, PT interface {
	*T
	model.Entity
}]() *Table[T, PT] {
	s, err := schema.Parse(new(T), &sync.Map{}, schema.NamingStrategy{})
	if err != nil {
		panic(fmt.Sprintf("memstore: failed to parse schema for %T: %v", new(T), err))
	}
	return &Table[T, PT]{rows: make(map[uint]T), schema: s}
}

func (t *Table[T, PT]) value(row *T, column string) (interface{}, bool) {
	field := t.schema.LookUpField(column)
	if field == nil {
		return nil, false
	}
	v, _ := field.ValueOf(context.Background(), reflect.ValueOf(row).Elem())
	return v, true
}

func (t *Table[T, PT]) matches(row *T, where map[string]interface{}) bool {
	for column, want := range where {
		got, ok := t.value(row, column)
		if !ok || fmt.Sprint(got) != fmt.Sprint(want) {
			return false
		}
	}
	return true
}

// sorted returns matching rows; callers hold the lock.
func (t *Table[T, PT]) sorted(where map[string]interface{}, order string) []T {
	items := make([]T, 0, len(t.rows))
	for _, row := range t.rows {
		if t.matches(&row, where) {
			items = append(items, row)
		}
	}

	column, desc := "id", false
	if parts := strings.Fields(order); len(parts) > 0 {
		column = parts[0]
		desc = len(parts) > 1 && strings.EqualFold(parts[1], "desc")
	}

	sort.SliceStable(items, func(i, j int) bool {
		a, _ := t.value(&items[i], column)
		b, _ := t.value(&items[j], column)
		if desc {
			return less(b, a)
		}
		return less(a, b)
	})
	return items
}

// less orders column values; nil pointers sort first.
func less(a, b interface{}) bool {
	av, bv := reflect.ValueOf(a), reflect.ValueOf(b)
	if av.Kind() == reflect.Ptr {
		if av.IsNil() {
			return bv.Kind() == reflect.Ptr && !bv.IsNil()
		}
		if bv.IsNil() {
			return false
		}
		return less(av.Elem().Interface(), bv.Elem().Interface())
	}

	switch x := a.(type) {
	case uint:
		return x < b.(uint)
	case int:
		return x < b.(int)
	case time.Time:
		return x.Before(b.(time.Time))
	case string:
		return strings.ToLower(x) < strings.ToLower(b.(string))
	}
	return fmt.Sprint(a) < fmt.Sprint(b)
}

func (t *Table[T, PT]) List(ctx context.Context, opts store.ListOptions) ([]T, int64, error) {
	t.mu.RLock()
	items := t.sorted(opts.Where, opts.Order)
	t.mu.RUnlock()

	total := int64(len(items))
	if opts.Offset > 0 {
		if opts.Offset >= len(items) {
			items = items[:0]
		} else {
			items = items[opts.Offset:]
		}
	}
	if opts.Limit > 0 && opts.Limit < len(items) {
		items = items[:opts.Limit]
	}

	if t.populate != nil && len(opts.Preload) > 0 {
		for i := range items {
			t.populate(ctx, &items[i], opts.Preload)
		}
	}
	return items, total, nil
}

func (t *Table[T, PT]) Get(ctx context.Context, id uint, preload ...string) (*T, error) {
	t.mu.RLock()
	row, ok := t.rows[id]
	t.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	if t.populate != nil && len(preload) > 0 {
		t.populate(ctx, &row, preload)
	}
	return &row, nil
}

// FindOne returns the lowest-id row for which match is true, or nil.
func (t *Table[T, PT]) FindOne(match func(*T) bool) *T {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.findLocked(match)
}

func (t *Table[T, PT]) findLocked(match func(*T) bool) *T {
	var found *T
	for id, row := range t.rows {
		row := row
		if match(&row) && (found == nil || id < PT(found).GetID()) {
			found = &row
		}
	}
	return found
}

func (t *Table[T, PT]) Create(ctx context.Context, entity *T) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.insertLocked(entity)
	return nil
}

func (t *Table[T, PT]) insertLocked(entity *T) {
	t.nextID++
	p := PT(entity)
	p.SetID(t.nextID)
	p.Touch(time.Now())
	t.rows[t.nextID] = *entity
}

func (t *Table[T, PT]) Save(ctx context.Context, entity *T) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	p := PT(entity)
	if p.GetID() == 0 {
		t.insertLocked(entity)
		return nil
	}
	p.Touch(time.Now())
	if p.GetID() > t.nextID {
		t.nextID = p.GetID()
	}
	t.rows[p.GetID()] = *entity
	return nil
}

func (t *Table[T, PT]) Delete(ctx context.Context, id uint) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.rows[id]; !ok {
		return fmt.Errorf("delete %d: %w", id, store.ErrNotFound)
	}
	delete(t.rows, id)
	return nil
}

// Len returns the number of stored rows.
func (t *Table[T, PT]) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.rows)
}
