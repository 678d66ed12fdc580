// Package gormfield adapts counter.NullCounter to a gorm model field stored
// in a char(25) column.
package gormfield

import (
	"circounter/counter"

	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// Counter is a nullable counter column for gorm models.
type Counter struct {
	counter.NullCounter
}

// Of wraps c as a non-null column value.
func Of(c counter.Counter) Counter {
	return Counter{NullCounter: counter.Some(c)}
}

// FromNull wraps an already coerced value.
func FromNull(n counter.NullCounter) Counter {
	return Counter{NullCounter: n}
}

// GormDataType is used by gorm when no dialect-specific type is known.
func (Counter) GormDataType() string {
	return counter.ColumnType
}

// GormDBDataType declares the column type for every dialect.
func (Counter) GormDBDataType(db *gorm.DB, field *schema.Field) string {
	return counter.ColumnType
}
