package models

import "time"

// Order is a job posted by a customer. StartDate and EndDate are calendar
// dates stored at midnight UTC.
type Order struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	Description *string    `json:"description"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
	Address     *string    `json:"address"`
	Price       *int64     `json:"price"`
	CustomerID  *int64     `json:"customer_id"`
	ExecutorID  *int64     `json:"executor_id"`
}

// RefersToUser reports whether the order points at the given user.
func (o Order) RefersToUser(id int64) bool {
	return sameID(o.CustomerID, id) || sameID(o.ExecutorID, id)
}

// DetachUser clears every reference the order holds to the given user.
func (o *Order) DetachUser(id int64) {
	if sameID(o.CustomerID, id) {
		o.CustomerID = nil
	}
	if sameID(o.ExecutorID, id) {
		o.ExecutorID = nil
	}
}

func sameID(ref *int64, id int64) bool {
	return ref != nil && *ref == id
}
