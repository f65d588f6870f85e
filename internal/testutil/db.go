// Package testutil holds fixtures shared by package tests.
package testutil

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/BruksfildServices01/booking-saas/internal/db"
	"github.com/BruksfildServices01/booking-saas/internal/models"
)

// NewDB opens a private in-memory SQLite database with the full schema.
// A single connection makes concurrent transactions run one at a time.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.Migrate(gdb))

	t.Cleanup(func() { _ = sqlDB.Close() })
	return gdb
}

type Fixture struct {
	Business models.Business
	Admin    models.User
	User     models.User
	Customer models.Customer
	Service  models.Service
}

// Seed creates a business with one admin, one customer account and a
// 30-minute service.
func Seed(t *testing.T, gdb *gorm.DB, name string) Fixture {
	t.Helper()

	f := Fixture{}
	f.Business = models.Business{Name: name, Slug: name, RegistrationCode: strings.ToUpper(name) + "-CODE"}
	require.NoError(t, gdb.Create(&f.Business).Error)

	f.Admin = models.User{
		BusinessID:   f.Business.ID,
		FullName:     name + " admin",
		Email:        name + "-admin@example.com",
		PasswordHash: "x",
		Role:         models.RoleAdmin,
	}
	require.NoError(t, gdb.Create(&f.Admin).Error)

	f.User = models.User{
		BusinessID:   f.Business.ID,
		FullName:     name + " customer",
		Email:        name + "-customer@example.com",
		PasswordHash: "x",
		Role:         models.RoleCustomer,
	}
	require.NoError(t, gdb.Create(&f.User).Error)

	f.Customer = models.Customer{
		BusinessID: f.Business.ID,
		UserID:     &f.User.ID,
		FullName:   f.User.FullName,
		Email:      f.User.Email,
	}
	require.NoError(t, gdb.Create(&f.Customer).Error)

	f.Service = models.Service{
		BusinessID:      f.Business.ID,
		Name:            "Consultation",
		DurationMinutes: 30,
		Price:           100,
		Active:          true,
	}
	require.NoError(t, gdb.Create(&f.Service).Error)

	return f
}

// Day returns midnight of the day after tomorrow in loc, far enough ahead
// that no slot is in the past.
func Day(loc *time.Location) time.Time {
	now := time.Now().In(loc)
	return time.Date(now.Year(), now.Month(), now.Day()+2, 0, 0, 0, 0, loc)
}
