package memstore

import (
	"context"
	"errors"
	"testing"

	"github.com/Alumni-Hub/Alumni-Hub-Backend/model"
	"github.com/Alumni-Hub/Alumni-Hub-Backend/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTableListFiltersAndPages(t *testing.T) {
	s := New()
	ctx := context.Background()
	for _, b := range []model.Batchmate{
		{CallingName: "Chamara", Field: "Civil"},
		{CallingName: "Amal", Field: "Civil"},
		{CallingName: "Bimal", Field: "Electrical"},
	} {
		b := b
		require.NoError(t, s.Batchmates.Create(ctx, &b))
	}

	items, total, err := s.Batchmates.List(ctx, store.ListOptions{
		Where: map[string]interface{}{"field": "Civil"},
		Order: "calling_name",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Equal(t, "Amal", items[0].CallingName)
	assert.Equal(t, "Chamara", items[1].CallingName)

	items, total, err = s.Batchmates.List(ctx, store.ListOptions{Limit: 1, Offset: 1, Order: "id desc"})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, items, 1)
	assert.Equal(t, "Amal", items[0].CallingName)
}

func TestTableGetAndDelete(t *testing.T) {
	s := New()
	ctx := context.Background()
	e := &model.Event{Name: "Reunion"}
	require.NoError(t, s.Events.Create(ctx, e))
	assert.NotZero(t, e.ID)
	assert.False(t, e.CreatedAt.IsZero())

	got, err := s.Events.Get(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, "Reunion", got.Name)

	require.NoError(t, s.Events.Delete(ctx, e.ID))
	got, err = s.Events.Get(ctx, e.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	err = s.Events.Delete(ctx, e.ID)
	assert.True(t, errors.Is(err, store.ErrNotFound))
}

func TestAttendanceUpsertUpdatesOnlyColumns(t *testing.T) {
	s := New()
	ctx := context.Background()

	first, err := s.Attendances.Upsert(ctx, &model.EventAttendance{
		EventID: 1, BatchmateID: 2, Status: model.StatusPending, Notes: "first",
	}, []string{"status", "notes"})
	require.NoError(t, err)

	second, err := s.Attendances.Upsert(ctx, &model.EventAttendance{
		EventID: 1, BatchmateID: 2, Status: model.StatusPresent, Notes: "ignored",
	}, []string{"status"})
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, model.StatusPresent, second.Status)
	assert.Equal(t, "first", second.Notes)
	assert.Equal(t, 1, s.Attendances.Len())
}

func TestListByEventPreloadsBatchmate(t *testing.T) {
	s := New()
	ctx := context.Background()
	b := &model.Batchmate{CallingName: "Dilan", Mobile: "94770000000"}
	require.NoError(t, s.Batchmates.Create(ctx, b))
	require.NoError(t, s.Attendances.Create(ctx, &model.EventAttendance{EventID: 3, BatchmateID: b.ID}))

	rows, err := s.Attendances.ListByEvent(ctx, 3)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.NotNil(t, rows[0].Batchmate)
	assert.Equal(t, "Dilan", rows[0].Batchmate.CallingName)

	found, err := s.Batchmates.FindByMobile(ctx, "0770000000", "94770000000")
	require.NoError(t, err)
	assert.Equal(t, b.ID, found.ID)
}
