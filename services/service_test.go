package services

import (
	"fmt"
	"testing"

	"github.com/dineplan/tablebook/models"
	"github.com/dineplan/tablebook/utils"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var (
	testDBCounter          int
	reservationCodeCounter int
)

// setupTestDB opens a fresh SQLite in-memory database per test so
// fixtures never leak between tests.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	utils.InitLogger()

	testDBCounter++
	dsn := fmt.Sprintf("file:services_test_%d?mode=memory&cache=shared", testDBCounter)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	err = db.AutoMigrate(
		&models.User{},
		&models.Restaurant{},
		&models.Table{},
		&models.StaffAssignment{},
		&models.Reservation{},
	)
	if err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

func seedUser(t *testing.T, db *gorm.DB, name, role string) models.User {
	t.Helper()
	user := models.User{
		Name:     name,
		Email:    fmt.Sprintf("%s@example.com", name),
		Password: "hashed",
		Role:     role,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
	return user
}

func seedRestaurant(t *testing.T, db *gorm.DB, ownerID uint, active bool) models.Restaurant {
	t.Helper()
	restaurant := models.Restaurant{
		Name:    "Test Bistro",
		OwnerID: ownerID,
		Active:  active,
	}
	if err := db.Create(&restaurant).Error; err != nil {
		t.Fatalf("failed to seed restaurant: %v", err)
	}
	return restaurant
}

func seedTable(t *testing.T, db *gorm.DB, restaurantID uint, number string, capacity int, active bool) models.Table {
	t.Helper()
	table := models.Table{
		RestaurantID: restaurantID,
		Number:       number,
		Capacity:     capacity,
		Active:       active,
	}
	if err := db.Create(&table).Error; err != nil {
		t.Fatalf("failed to seed table: %v", err)
	}
	return table
}

func seedReservation(t *testing.T, db *gorm.DB, customerID, restaurantID uint, tableID *uint, date, timeOfDay, status string) models.Reservation {
	t.Helper()
	reservationCodeCounter++
	reservation := models.Reservation{
		Code:         fmt.Sprintf("code-%d", reservationCodeCounter),
		CustomerID:   customerID,
		RestaurantID: restaurantID,
		TableID:      tableID,
		Date:         date,
		Time:         timeOfDay,
		PartySize:    2,
		Status:       status,
	}
	if err := db.Create(&reservation).Error; err != nil {
		t.Fatalf("failed to seed reservation: %v", err)
	}
	return reservation
}
