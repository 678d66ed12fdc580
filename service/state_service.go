package service

import (
	"circounter/core"
	"circounter/counter"
	"circounter/counter/gormfield"
	"circounter/database"
	"circounter/models"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// StateService handles state business logic
type StateService struct {
	db    *gorm.DB
	codec counter.Codec
}

// NewStateService constructs a state service; codec decides how bare integers become counters
func NewStateService(db *gorm.DB, codec counter.Codec) *StateService {
	return &StateService{db: db, codec: codec}
}

// Codec returns the codec used for coercion
func (s *StateService) Codec() counter.Codec {
	return s.codec
}

// Healthy reports whether the database answers a ping
func (s *StateService) Healthy(ctx context.Context) bool {
	return database.SQLiteUp(ctx, s.db)
}

// List lists all states
func (s *StateService) List() ([]models.State, error) {
	var states []models.State
	if err := s.db.Order("name").Find(&states).Error; err != nil {
		return nil, s.wrapLoadError("", fmt.Errorf("failed to list states: %w", err))
	}
	return states, nil
}

// ListPage returns states with pagination.
func (s *StateService) ListPage(page, pageSize int) ([]models.State, int64, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}

	var total int64
	if err := s.db.Model(&models.State{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count states: %w", err)
	}

	var states []models.State
	offset := (page - 1) * pageSize
	if err := s.db.Order("name").Offset(offset).Limit(pageSize).Find(&states).Error; err != nil {
		return nil, 0, s.wrapLoadError("", fmt.Errorf("failed to list states: %w", err))
	}
	return states, total, nil
}

// Get fetches a state by ID or name
func (s *StateService) Get(ref string) (*models.State, error) {
	return s.load(s.db, ref)
}

// Create creates a new state. The counter payload is coerced: null, an integer
// (placed in the codec's default window) or a counter object.
func (s *StateService) Create(req models.StateCreate) (*models.State, error) {
	req.Normalize()
	if req.Name == "" {
		return nil, fmt.Errorf("%w: name is required", core.ErrInvalidRequest)
	}
	// Names are used as URL path segments
	if strings.Contains(req.Name, "/") {
		return nil, fmt.Errorf("%w: name %q must not contain '/'", core.ErrInvalidRequest, req.Name)
	}

	value, err := s.coerceRaw(req.Counter)
	if err != nil {
		return nil, err
	}

	// A name may not shadow another state's id: refs resolve by id first.
	var count int64
	if err := s.db.Model(&models.State{}).Where("name = ? OR id = ?", req.Name, req.Name).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("failed to check state name: %w", err)
	}
	if count > 0 {
		return nil, fmt.Errorf("%w: %s", core.ErrStateExists, req.Name)
	}

	state := models.State{
		Name:    req.Name,
		Counter: gormfield.FromNull(value),
	}
	if err := s.db.Create(&state).Error; err != nil {
		return nil, fmt.Errorf("failed to create state: %w", err)
	}
	return &state, nil
}

// SetCounter replaces the counter of a state with a coerced payload
func (s *StateService) SetCounter(ref string, raw json.RawMessage) (*models.State, error) {
	value, err := s.coerceRaw(raw)
	if err != nil {
		return nil, err
	}
	return s.update(ref, func(st *models.State) error {
		st.Counter = gormfield.FromNull(value)
		return nil
	})
}

// Increment advances the counter of a state by n, wrapping around its window
func (s *StateService) Increment(ref string, n int64) (*models.State, error) {
	return s.step(ref, func(c counter.Counter) counter.Counter { return c.Increment(n) })
}

// Decrement moves the counter of a state back by n, wrapping around its window
func (s *StateService) Decrement(ref string, n int64) (*models.State, error) {
	return s.step(ref, func(c counter.Counter) counter.Counter { return c.Decrement(n) })
}

// Reset moves the counter of a state back to the start of its window
func (s *StateService) Reset(ref string) (*models.State, error) {
	return s.step(ref, counter.Counter.Reset)
}

// Delete removes a state
func (s *StateService) Delete(ref string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		id, err := s.resolveID(tx, ref)
		if err != nil {
			return err
		}
		result := tx.Where("id = ?", id).Delete(&models.State{})
		if result.Error != nil {
			return fmt.Errorf("failed to delete state: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("%w: %s", core.ErrStateNotFound, ref)
		}
		return nil
	})
}

func (s *StateService) step(ref string, fn func(counter.Counter) counter.Counter) (*models.State, error) {
	return s.update(ref, func(st *models.State) error {
		if !st.Counter.Valid {
			return fmt.Errorf("%w: state %s has no counter", core.ErrInvalidRequest, st.Name)
		}
		st.Counter = gormfield.Of(fn(st.Counter.Counter))
		return nil
	})
}

// update runs a read-modify-write of one state inside a transaction
func (s *StateService) update(ref string, mutate func(*models.State) error) (*models.State, error) {
	var state *models.State
	err := s.db.Transaction(func(tx *gorm.DB) error {
		st, err := s.load(tx, ref)
		if err != nil {
			return err
		}
		if err := mutate(st); err != nil {
			return err
		}
		if st.Counter.Valid {
			if _, err := s.codec.Encode(st.Counter.Counter); err != nil {
				core.LogCorruptCounter("service.update", st.ID, err)
				return err
			}
		}
		if err := tx.Save(st).Error; err != nil {
			return fmt.Errorf("failed to update state: %w", err)
		}
		state = st
		return nil
	})
	if err != nil {
		return nil, err
	}
	return state, nil
}

func (s *StateService) load(db *gorm.DB, ref string) (*models.State, error) {
	id, err := s.resolveID(db, ref)
	if err != nil {
		return nil, err
	}

	var state models.State
	if err := db.Where("id = ?", id).First(&state).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", core.ErrStateNotFound, ref)
		}
		return nil, s.wrapLoadError(ref, fmt.Errorf("failed to get state: %w", err))
	}
	return &state, nil
}

// resolveID maps a ref to a primary key. An id match wins over a name match.
// Only the id column is read, so corrupt counters do not block resolution.
func (s *StateService) resolveID(db *gorm.DB, ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", fmt.Errorf("%w: empty state reference", core.ErrInvalidRequest)
	}

	for _, column := range []string{"id", "name"} {
		var ids []string
		if err := db.Model(&models.State{}).Where(column+" = ?", ref).Limit(1).Pluck("id", &ids).Error; err != nil {
			return "", fmt.Errorf("failed to resolve state %s: %w", ref, err)
		}
		if len(ids) > 0 {
			return ids[0], nil
		}
	}
	return "", fmt.Errorf("%w: %s", core.ErrStateNotFound, ref)
}

// wrapLoadError marks counter decode failures as corrupted rows and records them
func (s *StateService) wrapLoadError(ref string, err error) error {
	if errors.Is(err, counter.ErrMalformedEncoding) || errors.Is(err, counter.ErrInvalidRange) {
		core.LogCorruptCounter("service.load", ref, err)
		return fmt.Errorf("%w: %w", core.ErrCorruptRow, err)
	}
	return err
}

func (s *StateService) coerceRaw(raw json.RawMessage) (counter.NullCounter, error) {
	if len(strings.TrimSpace(string(raw))) == 0 {
		return counter.NullCounter{}, nil
	}

	in, err := counter.InputFromJSON(raw)
	if err != nil {
		return counter.NullCounter{}, err
	}
	value, err := s.codec.Coerce(in)
	if err != nil {
		return counter.NullCounter{}, err
	}
	if value.Valid {
		// Reject values the column cannot hold before touching the database
		if _, err := s.codec.Encode(value.Counter); err != nil {
			return counter.NullCounter{}, err
		}
	}
	return value, nil
}
