package mapper

import "offerboard/pkg/models"

var userFields = []string{"first_name", "last_name", "age", "email", "role", "phone"}

// UserPayload is the wire form of a user.
type UserPayload struct {
	ID        int64   `json:"id" example:"1"`
	FirstName string  `json:"first_name" example:"Ann"`
	LastName  string  `json:"last_name" example:"Lee"`
	Age       *int64  `json:"age" example:"30"`
	Email     *string `json:"email" example:"a@x.com"`
	Role      *string `json:"role" example:"customer"`
	Phone     *string `json:"phone" example:"555"`
} // @name User

// UserInput is the accepted request body for creating or replacing a user.
type UserInput struct {
	FirstName *string `json:"first_name" validate:"required,max=100" example:"Ann"`
	LastName  *string `json:"last_name" validate:"required,max=100" example:"Lee"`
	Age       *int64  `json:"age" example:"30"`
	Email     *string `json:"email" validate:"omitempty,max=100" example:"a@x.com"`
	Role      *string `json:"role" validate:"omitempty,max=50" example:"customer"`
	Phone     *string `json:"phone" validate:"omitempty,max=100" example:"555"`
} // @name UserInput

// DecodeUser parses a user payload.
func DecodeUser(body []byte, mode Mode) (models.User, error) {
	var in UserInput
	if err := decode(body, userFields, mode, &in); err != nil {
		return models.User{}, err
	}
	return models.User{
		FirstName: *in.FirstName,
		LastName:  *in.LastName,
		Age:       in.Age,
		Email:     in.Email,
		Role:      in.Role,
		Phone:     in.Phone,
	}, nil
}

// EncodeUser renders a user for the wire.
func EncodeUser(u models.User) UserPayload {
	return UserPayload{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Age:       u.Age,
		Email:     u.Email,
		Role:      u.Role,
		Phone:     u.Phone,
	}
}
