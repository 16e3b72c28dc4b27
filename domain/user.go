package domain

import "time"

// Role determines which order fields an actor may mutate.
type Role string

const (
	RoleOwner    Role = "OWNER"
	RoleStaff    Role = "STAFF"
	RoleSupplier Role = "SUPPLIER"
)

// User is a login identity. Roles live in this table; they are never inferred
// from the email address itself.
type User struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Role       Role      `json:"role"`
	SupplierID string    `json:"supplier_id,omitempty"`
	Active     bool      `json:"active"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Actor is the identity performing a mutation. It is passed explicitly into
// every core operation instead of being read from ambient state.
type Actor struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Role       Role   `json:"role"`
	SupplierID string `json:"supplier_id,omitempty"`
}

// CanManageAgency reports whether the actor may mutate agency-side fields.
func (a Actor) CanManageAgency() bool {
	return a.Role == RoleOwner || a.Role == RoleStaff
}

// OwnsSupplierSide reports whether the actor may mutate supplier-side fields
// on an order assigned to the given supplier.
func (a Actor) OwnsSupplierSide(supplierID string) bool {
	if a.CanManageAgency() {
		return true
	}
	return a.Role == RoleSupplier && a.SupplierID != "" && a.SupplierID == supplierID
}
