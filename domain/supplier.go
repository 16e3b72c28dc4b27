package domain

import "time"

// Supplier is an external execution partner that orders can be assigned to.
// Orders keep a copy of the supplier name at assignment time, so supplier
// edits never break historical display.
type Supplier struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Phone  string `json:"phone"`
	Active bool   `json:"active"`

	CompanyName string `json:"company_name,omitempty"`
	Address     string `json:"address,omitempty"`

	BackupContactName  string `json:"backup_contact_name,omitempty"`
	BackupContactEmail string `json:"backup_contact_email,omitempty"`
	BackupContactPhone string `json:"backup_contact_phone,omitempty"`

	BusinessRegistrationNumber string `json:"business_registration_number,omitempty"`
	BankAccountNumber          string `json:"bank_account_number,omitempty"`
	BankName                   string `json:"bank_name,omitempty"`

	Notes string `json:"notes,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Validate checks the fields required before a supplier can be saved.
func (s *Supplier) Validate() error {
	if s == nil || s.Name == "" {
		return NewError(ErrCodeValidation, "supplier name is required")
	}
	if s.Email == "" {
		return NewError(ErrCodeValidation, "supplier email is required")
	}
	return nil
}
