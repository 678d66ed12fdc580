package database

import (
	"circounter/config"
	"circounter/core"
	"circounter/counter"
	"circounter/counter/gormfield"
	"circounter/models"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	cfg := config.Default()
	cfg.LogLevel = "INFO"
	cfg.DatabaseURL = filepath.Join(t.TempDir(), "test.db")

	db, err := Open(cfg)
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func TestOpen_DeclaresFixedWidthColumn(t *testing.T) {
	db := openTestDB(t)

	var columnType string
	row := db.Raw("SELECT type FROM pragma_table_info('states') WHERE name = 'counter'").Row()
	require.NoError(t, row.Scan(&columnType))
	assert.Equal(t, "char(25)", columnType)
}

func TestStateCounter_StoredAsText(t *testing.T) {
	db := openTestDB(t)

	state := models.State{Name: "alpha", Counter: gormfield.Of(counter.MustNew(1, 5, 3))}
	require.NoError(t, db.Create(&state).Error)
	require.NotEmpty(t, state.ID)

	var raw sql.NullString
	require.NoError(t, db.Raw("SELECT counter FROM states WHERE id = ?", state.ID).Row().Scan(&raw))
	assert.Equal(t, sql.NullString{String: "1:5:3", Valid: true}, raw)

	var loaded models.State
	require.NoError(t, db.First(&loaded, "id = ?", state.ID).Error)
	require.True(t, loaded.Counter.Valid)
	assert.True(t, loaded.Counter.Counter.Equal(counter.MustNew(1, 5, 3)))
}

func TestStateCounter_Null(t *testing.T) {
	db := openTestDB(t)

	state := models.State{Name: "empty"}
	require.NoError(t, db.Create(&state).Error)

	var raw sql.NullString
	require.NoError(t, db.Raw("SELECT counter FROM states WHERE id = ?", state.ID).Row().Scan(&raw))
	assert.False(t, raw.Valid)

	var loaded models.State
	require.NoError(t, db.First(&loaded, "id = ?", state.ID).Error)
	assert.False(t, loaded.Counter.Valid)
}

func TestStateCounter_CorruptRowFailsLoudly(t *testing.T) {
	db := openTestDB(t)

	state := models.State{Name: "broken", Counter: gormfield.Of(counter.MustNew(0, 10, 2))}
	require.NoError(t, db.Create(&state).Error)
	require.NoError(t, db.Exec("UPDATE states SET counter = ? WHERE id = ?", "1:5", state.ID).Error)

	before := CounterDecodeErrorsTotal()

	var loaded models.State
	err := db.First(&loaded, "id = ?", state.ID).Error
	assert.ErrorIs(t, err, counter.ErrMalformedEncoding)

	require.NoError(t, db.Exec("UPDATE states SET counter = ? WHERE id = ?", "3:0:3", state.ID).Error)
	err = db.First(&loaded, "id = ?", state.ID).Error
	assert.ErrorIs(t, err, counter.ErrInvalidRange)

	assert.Equal(t, before+2, CounterDecodeErrorsTotal())
}

func TestSettings(t *testing.T) {
	db := openTestDB(t)

	_, ok, err := GetSetting(db, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, SetSetting(db, " greeting ", " hello "))
	value, ok, err := GetSetting(db, "greeting")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "hello", value)

	require.NoError(t, DeleteSetting(db, "greeting"))
	_, ok, err = GetSetting(db, "greeting")
	require.NoError(t, err)
	assert.False(t, ok)

	_, _, err = GetSetting(db, "  ")
	assert.Error(t, err)
	_, _, err = GetSetting(nil, "greeting")
	assert.Error(t, err)
}

func TestResolveCounterRange_Pinned(t *testing.T) {
	db := openTestDB(t)

	first, err := ResolveCounterRange(db, counter.Range{Start: 0, CycleLen: 100}, true)
	require.NoError(t, err)
	assert.Equal(t, counter.Range{Start: 0, CycleLen: 100}, first)

	core.ErrorLoggerInstance.ClearErrorLogs()
	second, err := ResolveCounterRange(db, counter.Range{Start: 5, CycleLen: 10}, true)
	require.NoError(t, err)
	assert.Equal(t, first, second, "pinned range must survive a configuration change")

	logs := core.ErrorLoggerInstance.GetErrorLogs()
	require.Len(t, logs, 1)
	assert.Equal(t, "WARN", logs[0].Level)
	assert.Contains(t, logs[0].Detail, "configured start=5 cycle_len=10")

	third, err := ResolveCounterRange(db, counter.Range{Start: 5, CycleLen: 10}, false)
	require.NoError(t, err)
	assert.Equal(t, counter.Range{Start: 5, CycleLen: 10}, third)

	fourth, err := ResolveCounterRange(db, counter.Range{Start: 0, CycleLen: 100}, true)
	require.NoError(t, err)
	assert.Equal(t, third, fourth)
}

func TestResolveCounterRange_RejectsInvalid(t *testing.T) {
	db := openTestDB(t)

	_, err := ResolveCounterRange(db, counter.Range{Start: 0, CycleLen: 0}, true)
	assert.ErrorIs(t, err, counter.ErrInvalidRange)

	require.NoError(t, SetSetting(db, SettingCounterDefaultRange, `{"start":0,"cycle_len":-1}`))
	_, err = ResolveCounterRange(db, counter.Range{Start: 0, CycleLen: 100}, true)
	assert.ErrorIs(t, err, counter.ErrInvalidRange)
}
