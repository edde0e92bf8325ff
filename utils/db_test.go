package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestInitDBSetOnce(t *testing.T) {
	open := func(dsn string) *gorm.DB {
		db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		assert.NoError(t, err)
		return db
	}
	first := open("file:utils_db_test_1?mode=memory&cache=shared")
	second := open("file:utils_db_test_2?mode=memory&cache=shared")

	InitDB(first)
	assert.Same(t, first, GetDB())

	// the first handle sticks; later inits are no-ops
	InitDB(second)
	assert.Same(t, first, GetDB())
}
