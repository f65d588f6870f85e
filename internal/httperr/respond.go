package httperr

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type mapping struct {
	status  int
	message string
}

var businessStatus = map[string]mapping{
	"invalid_request":       {http.StatusBadRequest, "Invalid request."},
	"invalid_service":       {http.StatusBadRequest, "Service is invalid or inactive."},
	"invalid_date":          {http.StatusBadRequest, "Date could not be parsed."},
	"invalid_status":        {http.StatusBadRequest, "Unknown status."},
	"slot_in_past":          {http.StatusBadRequest, "Requested time is in the past."},
	"outside_working_hours": {http.StatusBadRequest, "Requested time is outside working hours."},
	"reason_required":       {http.StatusBadRequest, "A cancellation reason is required."},
	"invalid_rating":        {http.StatusBadRequest, "Rating must be between 1 and 5."},
	"invalid_timezone":      {http.StatusBadRequest, "Unknown time zone."},
	"invalid_working_hours": {http.StatusBadRequest, "Working hours are malformed."},
	"invalid_registration":  {http.StatusBadRequest, "Invalid registration code."},
	"email_taken":           {http.StatusBadRequest, "User already exists."},
	"invalid_image":         {http.StatusBadRequest, "Image could not be decoded."},
	"invalid_credentials":   {http.StatusUnauthorized, "Invalid credentials."},
	"unauthorized":          {http.StatusForbidden, "Resource belongs to another account."},
	"forbidden":             {http.StatusForbidden, "Operation not allowed for this role."},
	"not_found":             {http.StatusNotFound, "Resource not found."},
	"appointment_not_found": {http.StatusNotFound, "Appointment not found."},
	"service_not_found":     {http.StatusNotFound, "Service not found."},
	"customer_not_found":    {http.StatusNotFound, "Customer not found."},
	"review_not_found":      {http.StatusNotFound, "Review not found."},
	"business_not_found":    {http.StatusNotFound, "Business not found."},
	"slot_conflict":         {http.StatusConflict, "Time slot is no longer available."},
	"appointment_changed":   {http.StatusConflict, "Appointment was modified concurrently, reload and retry."},
	"review_exists":         {http.StatusBadRequest, "A review already exists for this appointment."},
	"invalid_state":         {http.StatusUnprocessableEntity, "Transition not allowed from the current status."},
	"lead_time_violation":   {http.StatusUnprocessableEntity, "Too late to cancel this appointment."},
	"not_yet_elapsed":       {http.StatusUnprocessableEntity, "Appointment has not finished yet."},
	"upload_disabled":       {http.StatusServiceUnavailable, "File uploads are not configured."},
}

// Status returns the HTTP status for err and whether err is a known
// business error.
func Status(err error) (int, bool) {
	if IsExclusionConflict(err) {
		return http.StatusConflict, true
	}
	if m, ok := businessStatus[CodeOf(err)]; ok {
		return m.status, true
	}
	return http.StatusInternalServerError, false
}

// Respond writes err using the business error table. Unknown errors become
// a generic 500 with fallbackCode.
func Respond(c *gin.Context, err error, fallbackCode string) {
	status, ok := Status(err)
	if !ok {
		_ = c.Error(err)
		Internal(c, fallbackCode, "Internal server error.")
		return
	}

	code := CodeOf(err)
	if IsExclusionConflict(err) {
		code = "slot_conflict"
	}
	Write(c, status, code, businessStatus[code].message)
}
