package db

import (
	"errors"
	"fmt"
	"time"

	"github.com/diewo77/go-shop/internal/gate"
	"github.com/diewo77/go-shop/internal/models"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	AdminEmail  = "admin@shop.local"
	ClientEmail = "client@shop.local"
)

type seedItem struct {
	name          string
	price         string
	bulkPrice     string
	bulkThreshold int
	stock         int
}

var seedItems = []seedItem{
	{"Stylo bille", "2.00", "1.50", 10, 500},
	{"Cahier A4", "3.50", "", 0, 200},
	{"Agrafeuse", "8.90", "7.50", 5, 60},
	{"Sac à dos", "25.00", "", 0, 40},
}

var seedBrands = []string{"Acme", "Globex"}

// item name, brand name, specific price ("" for none)
var seedItemBrands = [][3]string{
	{"Stylo bille", "Acme", "1.80"},
	{"Stylo bille", "Globex", ""},
	{"Cahier A4", "Acme", ""},
}

// Seed loads the demo catalog, the SUMMER10 and WELCOME5 codes, an admin and a
// client account. Existing rows are left untouched, so it can run repeatedly.
func Seed(db *gorm.DB, adminPassword string, now time.Time) error {
	return db.Transaction(func(tx *gorm.DB) error {
		items := map[string]uint{}
		for _, si := range seedItems {
			item := models.CatalogItem{
				Name:      si.name,
				UnitPrice: decimal.RequireFromString(si.price),
				Stock:     si.stock,
			}
			if si.bulkPrice != "" {
				threshold := si.bulkThreshold
				item.BulkPrice = decimal.NewNullDecimal(decimal.RequireFromString(si.bulkPrice))
				item.BulkThreshold = &threshold
			}
			id, err := firstOrCreate(tx, &item, "name = ?", si.name)
			if err != nil {
				return err
			}
			items[si.name] = id
		}

		brands := map[string]uint{}
		for _, name := range seedBrands {
			id, err := firstOrCreate(tx, &models.Brand{Name: name}, "name = ?", name)
			if err != nil {
				return err
			}
			brands[name] = id
		}

		for _, sib := range seedItemBrands {
			ib := models.ItemBrand{ItemID: items[sib[0]], BrandID: brands[sib[1]]}
			if sib[2] != "" {
				ib.SpecificPrice = decimal.NewNullDecimal(decimal.RequireFromString(sib[2]))
			}
			if _, err := firstOrCreate(tx, &ib, "item_id = ? AND brand_id = ?", ib.ItemID, ib.BrandID); err != nil {
				return err
			}
		}

		year := now.Year()
		discounts := []models.Discount{
			{
				Code:        "SUMMER10",
				Percentage:  decimal.NewFromInt(10),
				FixedAmount: decimal.Zero,
				StartsAt:    time.Date(year, time.June, 1, 0, 0, 0, 0, time.UTC),
				EndsAt:      time.Date(year, time.August, 31, 23, 59, 59, 0, time.UTC),
				MinQuantity: 1,
			},
			{
				Code:        "WELCOME5",
				Percentage:  decimal.Zero,
				FixedAmount: decimal.NewFromInt(5),
				StartsAt:    time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC),
				EndsAt:      time.Date(year, time.December, 31, 23, 59, 59, 0, time.UTC),
				MinQuantity: 3,
			},
		}
		for i := range discounts {
			if _, err := firstOrCreate(tx, &discounts[i], "code = ?", discounts[i].Code); err != nil {
				return err
			}
		}

		users := []struct {
			email, name, password string
			kind                  models.UserKind
			role                  gate.Role
		}{
			{AdminEmail, "Admin", adminPassword, models.UserKindAdmin, gate.RoleSuperAdmin},
			{ClientEmail, "Client démo", "client123", models.UserKindClient, gate.RoleClient},
		}
		for _, su := range users {
			var existing models.User
			err := tx.Where("email = ?", su.email).First(&existing).Error
			if err == nil {
				continue
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			hash, err := bcrypt.GenerateFromPassword([]byte(su.password), bcrypt.DefaultCost)
			if err != nil {
				return fmt.Errorf("hash seed password: %w", err)
			}
			u := models.User{Email: su.email, Name: su.name, Password: string(hash), Kind: su.kind, Role: su.role.String()}
			if err := tx.Create(&u).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// firstOrCreate returns the id of the row matching query, inserting row when
// there is none.
func firstOrCreate(tx *gorm.DB, row any, query string, args ...any) (uint, error) {
	lookup := func() (uint, error) {
		var ids []uint
		if err := tx.Model(row).Where(query, args...).Limit(1).Pluck("id", &ids).Error; err != nil {
			return 0, err
		}
		if len(ids) == 0 {
			return 0, nil
		}
		return ids[0], nil
	}
	id, err := lookup()
	if err != nil || id != 0 {
		return id, err
	}
	if err := tx.Create(row).Error; err != nil {
		return 0, fmt.Errorf("seed %T: %w", row, err)
	}
	return lookup()
}
