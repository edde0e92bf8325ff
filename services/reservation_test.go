package services

import (
	"sync"
	"testing"

	"github.com/dineplan/tablebook/models"
	"github.com/stretchr/testify/assert"
)

func TestCreateReservation(t *testing.T) {
	db := setupTestDB(t)
	availability := NewAvailabilityService(db)
	svc := NewReservationService(db, availability)

	owner := seedUser(t, db, "owner", models.RoleRestaurantAdmin)
	customer := seedUser(t, db, "customer", models.RoleCustomer)
	restaurant := seedRestaurant(t, db, owner.ID, true)
	table := seedTable(t, db, restaurant.ID, "T1", 4, true)

	t.Run("books an empty slot as PENDING", func(t *testing.T) {
		reservation, err := svc.Create(CreateReservationInput{
			CustomerID:   customer.ID,
			RestaurantID: restaurant.ID,
			TableID:      table.ID,
			Date:         "2024-06-01",
			Time:         "19:00",
			PartySize:    4,
		})
		assert.NoError(t, err)
		assert.Equal(t, models.StatusPending, reservation.Status)
		assert.NotEmpty(t, reservation.Code)
		assert.Equal(t, customer.ID, reservation.Customer.ID)
		assert.Equal(t, restaurant.ID, reservation.Restaurant.ID)
	})

	t.Run("same slot conflicts regardless of party size", func(t *testing.T) {
		_, err := svc.Create(CreateReservationInput{
			CustomerID:   customer.ID,
			RestaurantID: restaurant.ID,
			TableID:      table.ID,
			Date:         "2024-06-01",
			Time:         "19:00",
			PartySize:    2,
		})
		assert.ErrorIs(t, err, ErrConflict)
	})

	t.Run("adjacent time label books fine", func(t *testing.T) {
		reservation, err := svc.Create(CreateReservationInput{
			CustomerID:   customer.ID,
			RestaurantID: restaurant.ID,
			TableID:      table.ID,
			Date:         "2024-06-01",
			Time:         "19:15",
			PartySize:    4,
		})
		assert.NoError(t, err)
		assert.Equal(t, models.StatusPending, reservation.Status)
	})

	t.Run("capacity exceeded never persists", func(t *testing.T) {
		small := seedTable(t, db, restaurant.ID, "S1", 2, true)
		_, err := svc.Create(CreateReservationInput{
			CustomerID:   customer.ID,
			RestaurantID: restaurant.ID,
			TableID:      small.ID,
			Date:         "2024-07-01",
			Time:         "20:00",
			PartySize:    3,
		})
		assert.ErrorIs(t, err, ErrCapacityExceeded)

		var count int64
		db.Model(&models.Reservation{}).Where("table_id = ?", small.ID).Count(&count)
		assert.Zero(t, count)
	})

	t.Run("malformed input rejected before any lookup", func(t *testing.T) {
		_, err := svc.Create(CreateReservationInput{
			CustomerID:   customer.ID,
			RestaurantID: restaurant.ID,
			TableID:      table.ID,
			Date:         "June 1st",
			Time:         "19:00",
			PartySize:    4,
		})
		assert.ErrorIs(t, err, ErrValidation)
	})
}

// Two goroutines race for the identical slot: exactly one wins, the
// other reads Conflict. The check and the insert share a SERIALIZABLE
// transaction so the loser cannot commit past the winner's row.
func TestCreateReservationConcurrentSameSlot(t *testing.T) {
	db := setupTestDB(t)
	// one connection so SQLite serializes the two transactions instead
	// of failing the loser with a lock error
	sqlDB, err := db.DB()
	assert.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	availability := NewAvailabilityService(db)
	svc := NewReservationService(db, availability)

	owner := seedUser(t, db, "owner", models.RoleRestaurantAdmin)
	customerA := seedUser(t, db, "alice", models.RoleCustomer)
	customerB := seedUser(t, db, "bob", models.RoleCustomer)
	restaurant := seedRestaurant(t, db, owner.ID, true)
	table := seedTable(t, db, restaurant.ID, "T1", 4, true)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, customerID := range []uint{customerA.ID, customerB.ID} {
		wg.Add(1)
		go func(i int, customerID uint) {
			defer wg.Done()
			_, errs[i] = svc.Create(CreateReservationInput{
				CustomerID:   customerID,
				RestaurantID: restaurant.ID,
				TableID:      table.ID,
				Date:         "2024-06-01",
				Time:         "19:00",
				PartySize:    2,
			})
		}(i, customerID)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			assert.ErrorIs(t, err, ErrConflict)
		}
	}
	assert.Equal(t, 1, succeeded)

	var count int64
	db.Model(&models.Reservation{}).
		Where("table_id = ? AND date = ? AND time = ? AND status IN ?",
			table.ID, "2024-06-01", "19:00", models.ActiveStatuses).
		Count(&count)
	assert.EqualValues(t, 1, count)
}

// The manual-booking write path takes the same serialized transaction,
// so staff racing a customer for one slot also resolves to one winner.
func TestCreateManualBookingConcurrentSameSlot(t *testing.T) {
	db := setupTestDB(t)
	// one connection so SQLite serializes the two transactions instead
	// of failing the loser with a lock error
	sqlDB, err := db.DB()
	assert.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	availability := NewAvailabilityService(db)
	svc := NewReservationService(db, availability)

	owner := seedUser(t, db, "owner", models.RoleRestaurantAdmin)
	customer := seedUser(t, db, "alice", models.RoleCustomer)
	restaurant := seedRestaurant(t, db, owner.ID, true)
	table := seedTable(t, db, restaurant.ID, "T1", 4, true)
	actor := Actor{Kind: ActorRestaurantOwner, UserID: owner.ID}

	var wg sync.WaitGroup
	errs := make([]error, 2)

	wg.Add(2)
	go func() {
		defer wg.Done()
		_, errs[0] = svc.Create(CreateReservationInput{
			CustomerID:   customer.ID,
			RestaurantID: restaurant.ID,
			TableID:      table.ID,
			Date:         "2024-06-01",
			Time:         "20:00",
			PartySize:    2,
		})
	}()
	go func() {
		defer wg.Done()
		_, errs[1] = svc.CreateManual(actor, ManualBookingInput{
			RestaurantID:  restaurant.ID,
			TableID:       &table.ID,
			CustomerName:  "Walk In",
			CustomerEmail: "walkin@example.com",
			Date:          "2024-06-01",
			Time:          "20:00",
			PartySize:     2,
		})
	}()
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			assert.ErrorIs(t, err, ErrConflict)
		}
	}
	assert.Equal(t, 1, succeeded)

	var count int64
	db.Model(&models.Reservation{}).
		Where("table_id = ? AND date = ? AND time = ? AND status IN ?",
			table.ID, "2024-06-01", "20:00", models.ActiveStatuses).
		Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestCreateManualBooking(t *testing.T) {
	db := setupTestDB(t)
	availability := NewAvailabilityService(db)
	svc := NewReservationService(db, availability)
	actors := NewActorService(db)

	owner := seedUser(t, db, "owner", models.RoleRestaurantAdmin)
	restaurant := seedRestaurant(t, db, owner.ID, true)
	table := seedTable(t, db, restaurant.ID, "T1", 4, true)

	receptionist := seedUser(t, db, "reception", models.RoleReceptionAdmin)
	assert.NoError(t, db.Create(&models.StaffAssignment{UserID: receptionist.ID, RestaurantID: restaurant.ID}).Error)

	ownerActor, err := actors.Resolve(owner.ID, owner.Role)
	assert.NoError(t, err)
	receptionActor, err := actors.Resolve(receptionist.ID, receptionist.Role)
	assert.NoError(t, err)

	t.Run("starts CONFIRMED and creates the guest account", func(t *testing.T) {
		reservation, err := svc.CreateManual(receptionActor, ManualBookingInput{
			RestaurantID:  restaurant.ID,
			TableID:       &table.ID,
			CustomerName:  "Walk In",
			CustomerEmail: "Walk.In@Example.com",
			Date:          "2024-06-01",
			Time:          "18:00",
			PartySize:     2,
		})
		assert.NoError(t, err)
		assert.Equal(t, models.StatusConfirmed, reservation.Status)
		assert.Equal(t, models.RoleCustomer, reservation.Customer.Role)
		assert.Equal(t, "walk.in@example.com", reservation.Customer.Email)
	})

	t.Run("reuses the guest account on a second booking", func(t *testing.T) {
		first, err := svc.CreateManual(ownerActor, ManualBookingInput{
			RestaurantID:  restaurant.ID,
			TableID:       &table.ID,
			CustomerName:  "Walk In",
			CustomerEmail: "walk.in@example.com",
			Date:          "2024-06-02",
			Time:          "18:00",
			PartySize:     2,
		})
		assert.NoError(t, err)

		var count int64
		db.Model(&models.User{}).Where("email = ?", "walk.in@example.com").Count(&count)
		assert.EqualValues(t, 1, count)
		assert.Equal(t, "walk.in@example.com", first.Customer.Email)
	})

	t.Run("staff bookings hit the same slot conflict check", func(t *testing.T) {
		_, err := svc.CreateManual(ownerActor, ManualBookingInput{
			RestaurantID:  restaurant.ID,
			TableID:       &table.ID,
			CustomerName:  "Second Guest",
			CustomerEmail: "second@example.com",
			Date:          "2024-06-01",
			Time:          "18:00",
			PartySize:     2,
		})
		assert.ErrorIs(t, err, ErrConflict)
	})

	t.Run("table may stay unassigned", func(t *testing.T) {
		reservation, err := svc.CreateManual(receptionActor, ManualBookingInput{
			RestaurantID:  restaurant.ID,
			CustomerName:  "Phone Guest",
			CustomerEmail: "phone@example.com",
			Date:          "2024-06-03",
			Time:          "18:00",
			PartySize:     6,
		})
		assert.NoError(t, err)
		assert.Nil(t, reservation.TableID)
		assert.Equal(t, models.StatusConfirmed, reservation.Status)
	})

	t.Run("receptionist of another restaurant is refused", func(t *testing.T) {
		otherRestaurant := seedRestaurant(t, db, owner.ID, true)
		otherStaff := seedUser(t, db, "other-reception", models.RoleReceptionAdmin)
		assert.NoError(t, db.Create(&models.StaffAssignment{UserID: otherStaff.ID, RestaurantID: otherRestaurant.ID}).Error)
		otherActor, err := actors.Resolve(otherStaff.ID, otherStaff.Role)
		assert.NoError(t, err)

		_, err = svc.CreateManual(otherActor, ManualBookingInput{
			RestaurantID:  restaurant.ID,
			CustomerName:  "Guest",
			CustomerEmail: "guest@example.com",
			Date:          "2024-06-03",
			Time:          "19:00",
			PartySize:     2,
		})
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("inactive restaurant reads as not found", func(t *testing.T) {
		closed := seedRestaurant(t, db, owner.ID, false)
		_, err := svc.CreateManual(ownerActor, ManualBookingInput{
			RestaurantID:  closed.ID,
			CustomerName:  "Guest",
			CustomerEmail: "guest2@example.com",
			Date:          "2024-06-03",
			Time:          "19:00",
			PartySize:     2,
		})
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestListReservationsScoping(t *testing.T) {
	db := setupTestDB(t)
	availability := NewAvailabilityService(db)
	svc := NewReservationService(db, availability)
	actors := NewActorService(db)

	ownerA := seedUser(t, db, "owner-a", models.RoleRestaurantAdmin)
	ownerB := seedUser(t, db, "owner-b", models.RoleRestaurantAdmin)
	customerA := seedUser(t, db, "cust-a", models.RoleCustomer)
	customerB := seedUser(t, db, "cust-b", models.RoleCustomer)
	admin := seedUser(t, db, "root", models.RoleSuperAdmin)

	restaurantA := seedRestaurant(t, db, ownerA.ID, true)
	restaurantB := seedRestaurant(t, db, ownerB.ID, true)
	tableA := seedTable(t, db, restaurantA.ID, "A1", 4, true)
	tableB := seedTable(t, db, restaurantB.ID, "B1", 4, true)

	seedReservation(t, db, customerA.ID, restaurantA.ID, &tableA.ID, "2024-06-01", "19:00", models.StatusPending)
	seedReservation(t, db, customerB.ID, restaurantB.ID, &tableB.ID, "2024-06-01", "19:00", models.StatusConfirmed)

	receptionist := seedUser(t, db, "reception-a", models.RoleReceptionAdmin)
	assert.NoError(t, db.Create(&models.StaffAssignment{UserID: receptionist.ID, RestaurantID: restaurantA.ID}).Error)

	resolve := func(u models.User) Actor {
		actor, err := actors.Resolve(u.ID, u.Role)
		assert.NoError(t, err)
		return actor
	}

	t.Run("super admin sees everything", func(t *testing.T) {
		reservations, err := svc.List(resolve(admin), ListFilters{})
		assert.NoError(t, err)
		assert.Len(t, reservations, 2)
	})

	t.Run("owner sees only their restaurant", func(t *testing.T) {
		reservations, err := svc.List(resolve(ownerA), ListFilters{})
		assert.NoError(t, err)
		assert.Len(t, reservations, 1)
		assert.Equal(t, restaurantA.ID, reservations[0].RestaurantID)
	})

	t.Run("receptionist is pinned to the assigned restaurant", func(t *testing.T) {
		reservations, err := svc.List(resolve(receptionist), ListFilters{})
		assert.NoError(t, err)
		assert.Len(t, reservations, 1)
		assert.Equal(t, restaurantA.ID, reservations[0].RestaurantID)
	})

	t.Run("receptionist filtering another restaurant gets nothing", func(t *testing.T) {
		reservations, err := svc.List(resolve(receptionist), ListFilters{RestaurantID: restaurantB.ID})
		assert.NoError(t, err)
		assert.Empty(t, reservations)
	})

	t.Run("customer sees only their own bookings", func(t *testing.T) {
		reservations, err := svc.List(resolve(customerA), ListFilters{})
		assert.NoError(t, err)
		assert.Len(t, reservations, 1)
		assert.Equal(t, customerA.ID, reservations[0].CustomerID)
	})

	t.Run("customer filter on someone else's id yields nothing", func(t *testing.T) {
		reservations, err := svc.List(resolve(customerA), ListFilters{CustomerID: customerB.ID})
		assert.NoError(t, err)
		assert.Empty(t, reservations)
	})
}

func TestGetReservationScoping(t *testing.T) {
	db := setupTestDB(t)
	availability := NewAvailabilityService(db)
	svc := NewReservationService(db, availability)
	actors := NewActorService(db)

	owner := seedUser(t, db, "owner", models.RoleRestaurantAdmin)
	stranger := seedUser(t, db, "stranger", models.RoleCustomer)
	customer := seedUser(t, db, "customer", models.RoleCustomer)
	restaurant := seedRestaurant(t, db, owner.ID, true)
	table := seedTable(t, db, restaurant.ID, "T1", 4, true)
	reservation := seedReservation(t, db, customer.ID, restaurant.ID, &table.ID, "2024-06-01", "19:00", models.StatusPending)

	customerActor, _ := actors.Resolve(customer.ID, customer.Role)
	strangerActor, _ := actors.Resolve(stranger.ID, stranger.Role)

	got, err := svc.Get(customerActor, reservation.ID)
	assert.NoError(t, err)
	assert.Equal(t, reservation.ID, got.ID)

	// other tenants' data reads as not found, never as forbidden
	_, err = svc.Get(strangerActor, reservation.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
