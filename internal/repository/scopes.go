package repository

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ownedBy returns a GORM scope that filters rows by their owner column.
// column is always a compile-time constant.
func ownedBy(column string, ownerID uuid.UUID) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(column+" = ?", ownerID)
	}
}
