package models

import (
	"circounter/counter"
	"circounter/counter/gormfield"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// State holds one named circular counter
type State struct {
	ID        string            `gorm:"primaryKey;size:36" json:"id"`
	Name      string            `gorm:"uniqueIndex;not null" json:"name"`
	Counter   gormfield.Counter `json:"counter"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// BeforeCreate GORM hook - assign a UUID when missing
func (s *State) BeforeCreate(tx *gorm.DB) error {
	if strings.TrimSpace(s.ID) == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

// StateCreate request payload for creating a state.
// Counter may be null, an integer or {"start","cycle_len","value"}.
type StateCreate struct {
	Name    string          `json:"name" binding:"required"`
	Counter json.RawMessage `json:"counter"`
}

// Normalize trims whitespace from input fields
func (s *StateCreate) Normalize() {
	s.Name = strings.TrimSpace(s.Name)
}

// StateStep request payload for increment/decrement
type StateStep struct {
	By *int64 `json:"by"`
}

// Steps returns the requested step count, defaulting to 1
func (s StateStep) Steps() int64 {
	if s.By == nil {
		return 1
	}
	return *s.By
}

// Read builds the response model for s
func (s *State) Read() StateRead {
	r := StateRead{
		ID:        s.ID,
		Name:      s.Name,
		Counter:   s.Counter.NullCounter,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
	if s.Counter.Valid {
		encoded := s.Counter.Counter.String()
		r.Encoded = &encoded
	}
	return r
}

// StateRead response model for reading states
type StateRead struct {
	ID        string              `json:"id"`
	Name      string              `json:"name"`
	Counter   counter.NullCounter `json:"counter"`
	Encoded   *string             `json:"encoded"`
	CreatedAt time.Time           `json:"created_at"`
	UpdatedAt time.Time           `json:"updated_at"`
}
