package dto

import "github.com/BruksfildServices01/booking-saas/internal/models"

type BusinessDTO struct {
	ID               uint   `json:"id"`
	Name             string `json:"name"`
	Slug             string `json:"slug"`
	Description      string `json:"description"`
	Logo             string `json:"logo"`
	Phone            string `json:"phone"`
	Email            string `json:"email"`
	Address          string `json:"address"`
	RegistrationCode string `json:"registration_code,omitempty"`
}

// NewBusinessDTO hides the registration code from everyone but admins.
func NewBusinessDTO(b *models.Business, admin bool) *BusinessDTO {
	if b == nil {
		return nil
	}
	out := &BusinessDTO{
		ID:          b.ID,
		Name:        b.Name,
		Slug:        b.Slug,
		Description: b.Description,
		Logo:        b.Logo,
		Phone:       b.Phone,
		Email:       b.Email,
		Address:     b.Address,
	}
	if admin {
		out.RegistrationCode = b.RegistrationCode
	}
	return out
}

type UserDTO struct {
	ID         uint   `json:"id"`
	FullName   string `json:"full_name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Role       string `json:"role"`
	BusinessID uint   `json:"business_id"`
	CustomerID uint   `json:"customer_id,omitempty"`
}

func NewUserDTO(u *models.User, customerID uint) UserDTO {
	return UserDTO{
		ID:         u.ID,
		FullName:   u.FullName,
		Email:      u.Email,
		Phone:      u.Phone,
		Role:       u.Role,
		BusinessID: u.BusinessID,
		CustomerID: customerID,
	}
}
