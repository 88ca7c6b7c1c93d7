package seed

import (
	"context"
	"fmt"
	"time"

	"github.com/angelmondragon/karaoke-backend/pkg/db/models"
	"github.com/angelmondragon/karaoke-backend/pkg/enums"
	"github.com/angelmondragon/karaoke-backend/pkg/logger"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Result counts the rows inserted per table.
type Result struct {
	Rooms     int
	Services  int
	Customers int
	Policies  int
}

// Run inserts the sample rooms, services, customers and discount policies.
// Rows whose natural key (room/service/policy name, customer phone) already
// exists are left untouched so the command can run repeatedly.
func Run(ctx context.Context, db *gorm.DB, logg *logger.Logger) (Result, error) {
	var res Result
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if res.Rooms, err = insertMissing(tx, Rooms(), "name", func(r models.Room) string { return r.Name }); err != nil {
			return fmt.Errorf("seed rooms: %w", err)
		}
		if res.Services, err = insertMissing(tx, Services(), "name", func(s models.Service) string { return s.Name }); err != nil {
			return fmt.Errorf("seed services: %w", err)
		}
		if res.Customers, err = insertMissing(tx, Customers(), "phone", func(c models.Customer) string { return c.Phone }); err != nil {
			return fmt.Errorf("seed customers: %w", err)
		}
		if res.Policies, err = insertMissing(tx, Policies(), "name", func(p models.DiscountPolicy) string { return p.Name }); err != nil {
			return fmt.Errorf("seed discount policies: %w", err)
		}
		return nil
	})
	if err != nil {
		return Result{}, err
	}
	if logg != nil {
		logg.Info(logg.WithFields(ctx, map[string]any{
			"rooms":     res.Rooms,
			"services":  res.Services,
			"customers": res.Customers,
			"policies":  res.Policies,
		}), "seed data inserted")
	}
	return res, nil
}

func insertMissing[T any](tx *gorm.DB, rows []T, column string, key func(T) string) (int, error) {
	keys := make([]string, 0, len(rows))
	for _, row := range rows {
		keys = append(keys, key(row))
	}
	var existing []string
	if err := tx.Model(new(T)).Where(column+" IN ?", keys).Pluck(column, &existing).Error; err != nil {
		return 0, err
	}
	seen := make(map[string]struct{}, len(existing))
	for _, k := range existing {
		seen[k] = struct{}{}
	}

	missing := make([]T, 0, len(rows))
	for _, row := range rows {
		if _, ok := seen[key(row)]; ok {
			continue
		}
		missing = append(missing, row)
	}
	if len(missing) == 0 {
		return 0, nil
	}
	if err := tx.Create(&missing).Error; err != nil {
		return 0, err
	}
	return len(missing), nil
}

// Rooms returns P01..P12. Every room starts available since no bill exists yet.
func Rooms() []models.Room {
	large := map[int]bool{4: true, 6: true, 8: true, 11: true}
	rooms := make([]models.Room, 0, 12)
	for i := 1; i <= 12; i++ {
		room := models.Room{
			Name:         fmt.Sprintf("P%02d", i),
			Capacity:     10,
			PricePerHour: decimal.NewFromInt(150000),
			Status:       enums.RoomStatusAvailable,
		}
		if large[i] {
			room.Capacity = 15
			room.PricePerHour = decimal.NewFromInt(200000)
		}
		rooms = append(rooms, room)
	}
	return rooms
}

func Services() []models.Service {
	item := func(name, unit string, price int64) models.Service {
		return models.Service{Name: name, Unit: unit, Price: decimal.NewFromInt(price)}
	}
	return []models.Service{
		item("Bia Tiger", "Lon", 25000),
		item("Bia Heineken", "Lon", 30000),
		item("Trái cây thập cẩm", "Dĩa", 150000),
		item("Khô bò", "Dĩa", 100000),
		item("Nước suối", "Chai", 15000),
		item("Coca Cola", "Lon", 20000),
		item("Pepsi", "Lon", 20000),
		item("Snack", "Gói", 25000),
		item("Mực khô", "Dĩa", 120000),
		item("Nước cam", "Ly", 35000),
	}
}

func Customers() []models.Customer {
	return []models.Customer{
		{FullName: "Nguyễn Văn Huy", Phone: "0909123456", MonthlyVisits: 12},
		{FullName: "Trần Văn Khôi", Phone: "0918123456", MonthlyVisits: 2},
		{FullName: "Lê Thị Hoa", Phone: "0987654321", MonthlyVisits: 8},
		{FullName: "Phạm Minh Tuấn", Phone: "0912345678", MonthlyVisits: 5},
		{FullName: "Võ Thị Mai", Phone: "0923456789", MonthlyVisits: 15},
	}
}

func Policies() []models.DiscountPolicy {
	date := func(y int, m time.Month, d int) *time.Time {
		t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
		return &t
	}
	return []models.DiscountPolicy{
		{
			Name:            "Khách hàng thân thiết",
			MinVisitReq:     10,
			DiscountPercent: decimal.NewFromInt(5),
			StartDate:       date(2025, time.January, 1),
			EndDate:         date(2025, time.December, 31),
			IsActive:        true,
		},
		{
			Name:            "Khuyến mãi Tết",
			MinVisitReq:     0,
			DiscountPercent: decimal.NewFromInt(10),
			StartDate:       date(2025, time.January, 15),
			EndDate:         date(2025, time.February, 15),
			IsActive:        false,
		},
	}
}
