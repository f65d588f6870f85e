package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/BruksfildServices01/booking-saas/internal/domain/appointment"
	"github.com/BruksfildServices01/booking-saas/internal/httperr"
	"github.com/BruksfildServices01/booking-saas/internal/models"
)

type AppointmentGormRepository struct {
	db       *gorm.DB
	settings *SettingsGormRepository
}

func NewAppointmentGormRepository(db *gorm.DB) *AppointmentGormRepository {
	return &AppointmentGormRepository{
		db:       db,
		settings: NewSettingsGormRepository(db),
	}
}

// NormalizeTime stores instants as UTC at minute precision so that range
// comparisons behave the same on every driver.
func NormalizeTime(t time.Time) time.Time {
	return t.UTC().Truncate(time.Minute)
}

func (r *AppointmentGormRepository) isPostgres() bool {
	return r.db.Dialector.Name() == "postgres"
}

// --------------------------------------------------
// Catalog / settings
// --------------------------------------------------

func (r *AppointmentGormRepository) GetBusiness(
	ctx context.Context,
	id uint,
) (*models.Business, error) {

	var b models.Business
	err := r.db.WithContext(ctx).First(&b, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, httperr.ErrBusiness("business_not_found")
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *AppointmentGormRepository) GetService(
	ctx context.Context,
	businessID uint,
	serviceID uint,
) (*models.Service, error) {

	var svc models.Service
	err := r.db.WithContext(ctx).
		Where("id = ? AND business_id = ?", serviceID, businessID).
		First(&svc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrServiceNotFound
	}
	if err != nil {
		return nil, err
	}
	return &svc, nil
}

func (r *AppointmentGormRepository) GetCustomer(
	ctx context.Context,
	businessID uint,
	customerID uint,
) (*models.Customer, error) {

	var customer models.Customer
	err := r.db.WithContext(ctx).
		Where("id = ? AND business_id = ?", customerID, businessID).
		First(&customer).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrCustomerNotFound
	}
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

func (r *AppointmentGormRepository) GetSettings(
	ctx context.Context,
	businessID uint,
) (*models.SiteSettings, error) {
	return r.settings.Get(ctx, businessID)
}

func (r *AppointmentGormRepository) GetWorkingHours(
	ctx context.Context,
	businessID uint,
	weekday time.Weekday,
) (*models.WorkingHours, error) {

	var wh models.WorkingHours
	err := r.db.WithContext(ctx).
		Where("business_id = ? AND weekday = ?", businessID, int(weekday)).
		First(&wh).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &wh, nil
}

// --------------------------------------------------
// Reads
// --------------------------------------------------

func (r *AppointmentGormRepository) ListBusy(
	ctx context.Context,
	businessID uint,
	from time.Time,
	to time.Time,
	excludeID uint,
) ([]domain.Span, error) {

	q := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Select("start_time", "end_time").
		Where(
			"business_id = ? AND status <> ? AND start_time < ? AND end_time > ?",
			businessID,
			string(domain.StatusCancelled),
			NormalizeTime(to),
			NormalizeTime(from),
		)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}

	var apps []models.Appointment
	if err := q.Order("start_time ASC").Find(&apps).Error; err != nil {
		return nil, err
	}

	busy := make([]domain.Span, 0, len(apps))
	for i := range apps {
		busy = append(busy, domain.SpanOf(&apps[i]))
	}
	return busy, nil
}

func (r *AppointmentGormRepository) ListAppointments(
	ctx context.Context,
	f domain.ListFilter,
) ([]models.Appointment, error) {

	q := r.db.WithContext(ctx).
		Preload("Service").
		Preload("Customer").
		Where("business_id = ?", f.BusinessID)

	if f.CustomerID != 0 {
		q = q.Where("customer_id = ?", f.CustomerID)
	}
	if !f.From.IsZero() {
		q = q.Where("start_time >= ?", NormalizeTime(f.From))
	}
	if !f.To.IsZero() {
		q = q.Where("start_time < ?", NormalizeTime(f.To))
	}
	if f.Status != "" {
		q = q.Where("status = ?", string(f.Status))
	}

	var apps []models.Appointment
	if err := q.Order("start_time ASC").Find(&apps).Error; err != nil {
		return nil, err
	}
	return apps, nil
}

// GetAppointment loads by id only; callers check the tenant.
func (r *AppointmentGormRepository) GetAppointment(
	ctx context.Context,
	id uint,
) (*models.Appointment, error) {

	var ap models.Appointment
	err := r.db.WithContext(ctx).
		Preload("Service").
		Preload("Customer").
		First(&ap, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &ap, nil
}

// --------------------------------------------------
// Writes
// --------------------------------------------------

func (r *AppointmentGormRepository) CreateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {

	ap.StartTime = NormalizeTime(ap.StartTime)
	ap.EndTime = NormalizeTime(ap.EndTime)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := r.guard(tx, ap, 0); err != nil {
			return err
		}
		return tx.Omit(clause.Associations).Create(ap).Error
	})
	return translate(err)
}

func (r *AppointmentGormRepository) SaveAppointment(
	ctx context.Context,
	ap *models.Appointment,
	rescheduled bool,
) error {

	ap.StartTime = NormalizeTime(ap.StartTime)
	ap.EndTime = NormalizeTime(ap.EndTime)
	now := time.Now().UTC()

	changes := map[string]any{
		"status":              ap.Status,
		"notes":               ap.Notes,
		"cancellation_reason": ap.CancellationReason,
		"approved_at":         ap.ApprovedAt,
		"cancelled_at":        ap.CancelledAt,
		"completed_at":        ap.CompletedAt,
		"updated_at":          now,
		"version":             gorm.Expr("version + 1"),
	}
	if rescheduled {
		changes["start_time"] = ap.StartTime
		changes["end_time"] = ap.EndTime
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if rescheduled {
			if err := r.guard(tx, ap, ap.ID); err != nil {
				return err
			}
		}

		res := tx.Model(&models.Appointment{}).
			Where("id = ? AND version = ?", ap.ID, ap.Version).
			Updates(changes)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrStaleAppointment
		}
		return nil
	})
	if err != nil {
		return translate(err)
	}

	ap.Version++
	ap.UpdatedAt = now
	return nil
}

func (r *AppointmentGormRepository) DeleteAppointment(
	ctx context.Context,
	id uint,
) error {
	res := r.db.WithContext(ctx).Delete(&models.Appointment{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// guard serializes writers of one business and re-reads overlapping
// blocking rows inside tx. On Postgres the exclusion constraint backs it up.
func (r *AppointmentGormRepository) guard(tx *gorm.DB, ap *models.Appointment, excludeID uint) error {
	if r.isPostgres() {
		if err := tx.Exec("SELECT pg_advisory_xact_lock(?)", int64(ap.BusinessID)).Error; err != nil {
			return err
		}
	}

	q := tx.Model(&models.Appointment{}).
		Where(
			"business_id = ? AND status <> ? AND start_time < ? AND end_time > ?",
			ap.BusinessID,
			string(domain.StatusCancelled),
			ap.EndTime,
			ap.StartTime,
		)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	if r.isPostgres() {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var ids []uint
	if err := q.Limit(1).Pluck("id", &ids).Error; err != nil {
		return err
	}
	if len(ids) > 0 {
		return domain.ErrSlotConflict
	}
	return nil
}

func translate(err error) error {
	if httperr.IsExclusionConflict(err) {
		return domain.ErrSlotConflict
	}
	return err
}

// Compile-time check
var _ domain.Repository = (*AppointmentGormRepository)(nil)
