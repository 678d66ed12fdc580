package database

import (
	"circounter/core"
	"circounter/counter"
	"circounter/models"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// SettingCounterDefaultRange stores the window used for counters created from a bare integer.
const SettingCounterDefaultRange = "counter.default_range"

// GetSetting returns a persisted key/value setting.
// ok is false when the key does not exist.
func GetSetting(db *gorm.DB, key string) (value string, ok bool, err error) {
	if db == nil {
		return "", false, errors.New("database not initialized")
	}

	key = strings.TrimSpace(key)
	if key == "" {
		return "", false, errors.New("empty setting key")
	}

	var s models.AppSetting
	if err := db.First(&s, "key = ?", key).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", false, nil
		}
		return "", false, err
	}
	return s.Value, true, nil
}

// SetSetting persists a key/value setting.
func SetSetting(db *gorm.DB, key, value string) error {
	if db == nil {
		return errors.New("database not initialized")
	}

	key = strings.TrimSpace(key)
	if key == "" {
		return errors.New("empty setting key")
	}

	value = strings.TrimSpace(value)
	return db.Save(&models.AppSetting{Key: key, Value: value}).Error
}

// DeleteSetting removes a persisted setting if it exists.
func DeleteSetting(db *gorm.DB, key string) error {
	if db == nil {
		return errors.New("database not initialized")
	}

	key = strings.TrimSpace(key)
	if key == "" {
		return errors.New("empty setting key")
	}

	return db.Where("key = ?", key).Delete(&models.AppSetting{}).Error
}

// ResolveCounterRange returns the window for counters created from a bare integer.
// With pin set, the first range ever persisted wins over configured, so integers stored
// earlier keep their meaning; otherwise configured is persisted and returned.
func ResolveCounterRange(db *gorm.DB, configured counter.Range, pin bool) (counter.Range, error) {
	if err := configured.Validate(); err != nil {
		return counter.Range{}, fmt.Errorf("configured counter range: %w", err)
	}

	if pin {
		raw, ok, err := GetSetting(db, SettingCounterDefaultRange)
		if err != nil {
			return counter.Range{}, err
		}
		if ok {
			var stored counter.Range
			if err := json.Unmarshal([]byte(raw), &stored); err != nil {
				return counter.Range{}, fmt.Errorf("stored counter range %q: %w", raw, err)
			}
			if err := stored.Validate(); err != nil {
				return counter.Range{}, fmt.Errorf("stored counter range %q: %w", raw, err)
			}
			if stored != configured {
				core.LogWarn("database.ResolveCounterRange", "configured counter range ignored",
					fmt.Sprintf("pinned start=%d cycle_len=%d, configured start=%d cycle_len=%d",
						stored.Start, stored.CycleLen, configured.Start, configured.CycleLen))
			}
			return stored, nil
		}
	}

	data, err := json.Marshal(configured)
	if err != nil {
		return counter.Range{}, err
	}
	if err := SetSetting(db, SettingCounterDefaultRange, string(data)); err != nil {
		return counter.Range{}, fmt.Errorf("failed to persist counter range: %w", err)
	}
	return configured, nil
}
