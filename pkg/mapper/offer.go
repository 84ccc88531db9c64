package mapper

import "offerboard/pkg/models"

var offerFields = []string{"order_id", "executor_id"}

// OfferPayload is the wire form of an offer.
type OfferPayload struct {
	ID         int64  `json:"id" example:"1"`
	OrderID    *int64 `json:"order_id" example:"1"`
	ExecutorID *int64 `json:"executor_id" example:"2"`
} // @name Offer

// OfferInput is the accepted request body for creating or replacing an
// offer.
type OfferInput struct {
	OrderID    *int64 `json:"order_id" example:"1"`
	ExecutorID *int64 `json:"executor_id" example:"2"`
} // @name OfferInput

// DecodeOffer parses an offer payload.
func DecodeOffer(body []byte, mode Mode) (models.Offer, error) {
	var in OfferInput
	if err := decode(body, offerFields, mode, &in); err != nil {
		return models.Offer{}, err
	}
	return models.Offer{OrderID: in.OrderID, ExecutorID: in.ExecutorID}, nil
}

// EncodeOffer renders an offer for the wire.
func EncodeOffer(o models.Offer) OfferPayload {
	return OfferPayload{ID: o.ID, OrderID: o.OrderID, ExecutorID: o.ExecutorID}
}
