package service

import (
	"circounter/config"
	"circounter/core"
	"circounter/counter"
	"circounter/database"
	"circounter/models"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) (*StateService, *gorm.DB) {
	t.Helper()

	cfg := config.Default()
	cfg.LogLevel = "INFO"
	cfg.DatabaseURL = filepath.Join(t.TempDir(), "service.db")

	db, err := database.Open(cfg)
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	codec, err := counter.NewCodec(counter.Range{Start: 0, CycleLen: 5})
	require.NoError(t, err)
	return NewStateService(db, codec), db
}

func create(t *testing.T, svc *StateService, name, payload string) *models.State {
	t.Helper()
	st, err := svc.Create(models.StateCreate{Name: name, Counter: json.RawMessage(payload)})
	require.NoError(t, err)
	return st
}

func TestCreate_CoercesPayload(t *testing.T) {
	svc, _ := newTestService(t)

	fromInt := create(t, svc, "int", "7")
	assert.Equal(t, counter.MustNew(0, 5, 2), fromInt.Counter.Counter)

	fromObject := create(t, svc, "object", `{"start":1,"cycle_len":5,"value":3}`)
	assert.Equal(t, counter.MustNew(1, 5, 3), fromObject.Counter.Counter)

	fromNull := create(t, svc, "null", "null")
	assert.False(t, fromNull.Counter.Valid)

	missing := create(t, svc, "missing", "")
	assert.False(t, missing.Counter.Valid)
}

func TestCreate_Rejects(t *testing.T) {
	svc, _ := newTestService(t)
	create(t, svc, "taken", "1")

	tests := []struct {
		name    string
		req     models.StateCreate
		wantErr error
	}{
		{"duplicate", models.StateCreate{Name: " taken ", Counter: json.RawMessage("2")}, core.ErrStateExists},
		{"blank name", models.StateCreate{Name: "  "}, core.ErrInvalidRequest},
		{"slash in name", models.StateCreate{Name: "a/b", Counter: json.RawMessage("1")}, core.ErrInvalidRequest},
		{"string counter", models.StateCreate{Name: "s", Counter: json.RawMessage(`"1:5:3"`)}, counter.ErrTypeMismatch},
		{"zero cycle", models.StateCreate{Name: "z", Counter: json.RawMessage(`{"start":0,"cycle_len":0,"value":0}`)}, counter.ErrInvalidRange},
		{"too wide", models.StateCreate{Name: "w", Counter: json.RawMessage(`{"start":-9223372036854775808,"cycle_len":9223372036854775807,"value":0}`)}, counter.ErrMalformedEncoding},
	}

	for _, tt := range tests {
		_, err := svc.Create(tt.req)
		assert.ErrorIs(t, err, tt.wantErr, tt.name)
	}
}

func TestIncrementDecrement_Persist(t *testing.T) {
	svc, _ := newTestService(t)
	st := create(t, svc, "wheel", `{"start":0,"cycle_len":5,"value":0}`)

	got, err := svc.Increment(st.ID, 7)
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.Counter.Counter.Value())

	got, err = svc.Decrement("wheel", 3)
	require.NoError(t, err)
	assert.Equal(t, int64(4), got.Counter.Counter.Value())

	loaded, err := svc.Get(st.ID)
	require.NoError(t, err)
	assert.Equal(t, counter.MustNew(0, 5, 4), loaded.Counter.Counter)

	got, err = svc.Reset(st.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), got.Counter.Counter.Value())
}

func TestStep_NullCounter(t *testing.T) {
	svc, _ := newTestService(t)
	st := create(t, svc, "empty", "null")

	_, err := svc.Increment(st.ID, 1)
	assert.ErrorIs(t, err, core.ErrInvalidRequest)

	got, err := svc.SetCounter(st.ID, json.RawMessage("3"))
	require.NoError(t, err)
	assert.Equal(t, counter.MustNew(0, 5, 3), got.Counter.Counter)

	got, err = svc.Increment(st.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(4), got.Counter.Counter.Value())

	got, err = svc.SetCounter(st.ID, json.RawMessage("null"))
	require.NoError(t, err)
	assert.False(t, got.Counter.Valid)
}

func TestGet_NotFound(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Get("nope")
	assert.ErrorIs(t, err, core.ErrStateNotFound)

	_, err = svc.Increment("nope", 1)
	assert.ErrorIs(t, err, core.ErrStateNotFound)

	assert.ErrorIs(t, svc.Delete("nope"), core.ErrStateNotFound)
}

func TestGet_CorruptRow(t *testing.T) {
	svc, db := newTestService(t)
	st := create(t, svc, "bad", "1")

	require.NoError(t, db.Exec("UPDATE states SET counter = ? WHERE id = ?", "x:5:1", st.ID).Error)

	_, err := svc.Get(st.ID)
	assert.ErrorIs(t, err, core.ErrCorruptRow)
	assert.ErrorIs(t, err, counter.ErrMalformedEncoding)

	_, err = svc.List()
	assert.ErrorIs(t, err, core.ErrCorruptRow)

	logs := core.ErrorLoggerInstance.GetErrorLogs()
	require.NotEmpty(t, logs)
	assert.Equal(t, "corrupted counter", logs[0].Message)
}

func TestListAndDelete(t *testing.T) {
	svc, _ := newTestService(t)
	create(t, svc, "b", "1")
	create(t, svc, "a", "2")
	create(t, svc, "c", "3")

	states, err := svc.List()
	require.NoError(t, err)
	require.Len(t, states, 3)
	assert.Equal(t, "a", states[0].Name)

	page, total, err := svc.ListPage(2, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, page, 1)
	assert.Equal(t, "c", page[0].Name)

	require.NoError(t, svc.Delete("b"))
	states, err = svc.List()
	require.NoError(t, err)
	assert.Len(t, states, 2)
}

func TestRefResolution_IDWinsOverName(t *testing.T) {
	svc, db := newTestService(t)
	alpha := create(t, svc, "alpha", "1")

	// A second state may not take another state's id as its name.
	_, err := svc.Create(models.StateCreate{Name: alpha.ID, Counter: json.RawMessage("2")})
	assert.ErrorIs(t, err, core.ErrStateExists)

	// Rows written behind the service's back still resolve by id first.
	shadow := models.State{ID: "shadow-id", Name: alpha.ID}
	require.NoError(t, db.Create(&shadow).Error)

	got, err := svc.Get(alpha.ID)
	require.NoError(t, err)
	assert.Equal(t, "alpha", got.Name)

	require.NoError(t, svc.Delete(alpha.ID))
	states, err := svc.List()
	require.NoError(t, err)
	require.Len(t, states, 1)
	assert.Equal(t, "shadow-id", states[0].ID)

	// With alpha gone, the same ref now names the shadow state.
	got, err = svc.Get(alpha.ID)
	require.NoError(t, err)
	assert.Equal(t, "shadow-id", got.ID)

	err = svc.Delete("missing")
	assert.ErrorIs(t, err, core.ErrStateNotFound)
}
