package mapper

import (
	"time"

	"offerboard/pkg/models"
)

var orderFields = []string{
	"name", "description", "start_date", "end_date",
	"address", "price", "customer_id", "executor_id",
}

// OrderPayload is the wire form of an order.
type OrderPayload struct {
	ID          int64   `json:"id" example:"1"`
	Name        string  `json:"name" example:"Paint the fence"`
	Description *string `json:"description" example:"Two coats"`
	StartDate   *string `json:"start_date" example:"2024-01-15"`
	EndDate     *string `json:"end_date" example:"2024-01-20"`
	Address     *string `json:"address" example:"12 Elm St"`
	Price       *int64  `json:"price" example:"5000"`
	CustomerID  *int64  `json:"customer_id" example:"1"`
	ExecutorID  *int64  `json:"executor_id" example:"2"`
} // @name Order

// OrderInput is the accepted request body for creating or replacing an
// order.
type OrderInput struct {
	Name        *string `json:"name" validate:"required,max=100" example:"Paint the fence"`
	Description *string `json:"description" validate:"omitempty,max=100" example:"Two coats"`
	StartDate   *string `json:"start_date" validate:"omitempty,calendar_date" example:"2024-01-15"`
	EndDate     *string `json:"end_date" validate:"omitempty,calendar_date" example:"2024-01-20"`
	Address     *string `json:"address" validate:"omitempty,max=100" example:"12 Elm St"`
	Price       *int64  `json:"price" example:"5000"`
	CustomerID  *int64  `json:"customer_id" example:"1"`
	ExecutorID  *int64  `json:"executor_id" example:"2"`
} // @name OrderInput

// DecodeOrder parses an order payload.
func DecodeOrder(body []byte, mode Mode) (models.Order, error) {
	var in OrderInput
	if err := decode(body, orderFields, mode, &in); err != nil {
		return models.Order{}, err
	}
	start, err := parseOptionalDate("start_date", in.StartDate)
	if err != nil {
		return models.Order{}, err
	}
	end, err := parseOptionalDate("end_date", in.EndDate)
	if err != nil {
		return models.Order{}, err
	}
	return models.Order{
		Name:        *in.Name,
		Description: in.Description,
		StartDate:   start,
		EndDate:     end,
		Address:     in.Address,
		Price:       in.Price,
		CustomerID:  in.CustomerID,
		ExecutorID:  in.ExecutorID,
	}, nil
}

func parseOptionalDate(field string, s *string) (*time.Time, error) {
	if s == nil {
		return nil, nil
	}
	t, err := ParseDate(*s)
	if err != nil {
		return nil, &ValidationError{Field: field, Reason: "must be a date formatted as YYYY-MM-DD"}
	}
	return &t, nil
}

// EncodeOrder renders an order for the wire with ISO-8601 dates.
func EncodeOrder(o models.Order) OrderPayload {
	return OrderPayload{
		ID:          o.ID,
		Name:        o.Name,
		Description: o.Description,
		StartDate:   FormatDate(o.StartDate),
		EndDate:     FormatDate(o.EndDate),
		Address:     o.Address,
		Price:       o.Price,
		CustomerID:  o.CustomerID,
		ExecutorID:  o.ExecutorID,
	}
}
