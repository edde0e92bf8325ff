package utils

import (
	"sync"

	"gorm.io/gorm"
)

var (
	sharedDB *gorm.DB
	dbOnce   sync.Once
)

// InitDB stores the process-wide database handle. The first call wins;
// later calls are no-ops so tests and startup cannot swap the handle
// mid-flight.
func InitDB(conn *gorm.DB) {
	dbOnce.Do(func() {
		sharedDB = conn
	})
}

// GetDB returns the handle set by InitDB, nil before initialization.
func GetDB() *gorm.DB {
	return sharedDB
}
