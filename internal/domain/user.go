package domain

import "time"

type Role string

const (
	RoleCustomer   Role = "customer"
	RoleVenueOwner Role = "venue_owner"
)

// User is the authenticated principal. Account creation and sessions are
// handled by the auth service; this backend only resolves identities.
type User struct {
	ID    int64
	Email string
	Name  string
	Role  Role

	CreatedAt time.Time
}
