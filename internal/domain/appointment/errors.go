package appointment

import "github.com/BruksfildServices01/booking-saas/internal/httperr"

var (
	ErrInvalidService      = httperr.ErrBusiness("invalid_service")
	ErrInvalidDate         = httperr.ErrBusiness("invalid_date")
	ErrInvalidStatus       = httperr.ErrBusiness("invalid_status")
	ErrSlotConflict        = httperr.ErrBusiness("slot_conflict")
	ErrSlotInPast          = httperr.ErrBusiness("slot_in_past")
	ErrOutsideWorkingHours = httperr.ErrBusiness("outside_working_hours")
	ErrLeadTimeViolation   = httperr.ErrBusiness("lead_time_violation")
	ErrUnauthorized        = httperr.ErrBusiness("unauthorized")
	ErrForbidden           = httperr.ErrBusiness("forbidden")
	ErrInvalidTransition   = httperr.ErrBusiness("invalid_state")
	ErrReasonRequired      = httperr.ErrBusiness("reason_required")
	ErrNotYetElapsed       = httperr.ErrBusiness("not_yet_elapsed")
	ErrStaleAppointment    = httperr.ErrBusiness("appointment_changed")
	ErrNotFound            = httperr.ErrBusiness("appointment_not_found")
	ErrServiceNotFound     = httperr.ErrBusiness("service_not_found")
	ErrCustomerNotFound    = httperr.ErrBusiness("customer_not_found")
	ErrInvalidWorkingHours = httperr.ErrBusiness("invalid_working_hours")
)
