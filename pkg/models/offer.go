package models

// Offer is an executor's bid on an order.
type Offer struct {
	ID         int64  `json:"id"`
	OrderID    *int64 `json:"order_id"`
	ExecutorID *int64 `json:"executor_id"`
}

// Detach clears the references the offer holds to a deleted order or user.
// A zero id leaves the corresponding reference untouched.
func (o *Offer) Detach(orderID, userID int64) {
	if orderID != 0 && sameID(o.OrderID, orderID) {
		o.OrderID = nil
	}
	if userID != 0 && sameID(o.ExecutorID, userID) {
		o.ExecutorID = nil
	}
}
