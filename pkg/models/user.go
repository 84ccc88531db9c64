// Package models holds the records managed by the service.
package models

// User is a registered marketplace participant.
type User struct {
	ID        int64   `json:"id"`
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	Age       *int64  `json:"age"`
	Email     *string `json:"email"`
	Role      *string `json:"role"`
	Phone     *string `json:"phone"`
}
