package service

import (
	"circounter/counter"

	"gorm.io/gorm"
)

// Services is the global service container
type Services struct {
	State *StateService
}

// GlobalServices is the global service instance
var GlobalServices *Services

// InitServices initializes all services
func InitServices(db *gorm.DB, codec counter.Codec) {
	GlobalServices = &Services{
		State: NewStateService(db, codec),
	}
}
