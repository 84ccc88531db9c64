package api

import "net/http"

// listOffers returns every offer in id order.
// @Summary List offers
// @Tags offers
// @Produce json
// @Success 200 {array} mapper.OfferPayload
// @Failure 500 {object} ErrorResponse
// @Router /offers [get]
func (h *Handler) listOffers(w http.ResponseWriter, r *http.Request) {
	serveList(h, h.offers, w, r)
}

// getOffer returns one offer.
// @Summary Get offer
// @Tags offers
// @Produce json
// @Param id path int true "Offer ID"
// @Success 200 {object} mapper.OfferPayload
// @Failure 404 {object} ErrorResponse
// @Router /offers/{id} [get]
func (h *Handler) getOffer(w http.ResponseWriter, r *http.Request) {
	serveGet(h, h.offers, w, r)
}

// createOffer stores a new offer. The assigned id is returned in the Location
// header.
// @Summary Create offer
// @Tags offers
// @Accept json
// @Produce json
// @Param offer body mapper.OfferInput true "Offer"
// @Success 201
// @Header 201 {string} Location "/offers/1"
// @Failure 400 {object} ErrorResponse
// @Failure 413 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /offers [post]
func (h *Handler) createOffer(w http.ResponseWriter, r *http.Request) {
	serveCreate(h, h.offers, w, r)
}

// updateOffer replaces every field of an offer.
// @Summary Replace offer
// @Tags offers
// @Accept json
// @Produce json
// @Param id path int true "Offer ID"
// @Param offer body mapper.OfferInput true "Offer"
// @Success 202
// @Failure 400 {object} ErrorResponse
// @Failure 413 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /offers/{id} [put]
func (h *Handler) updateOffer(w http.ResponseWriter, r *http.Request) {
	serveUpdate(h, h.offers, w, r)
}

// deleteOffer removes an offer.
// @Summary Delete offer
// @Tags offers
// @Param id path int true "Offer ID"
// @Success 204
// @Failure 404 {object} ErrorResponse
// @Router /offers/{id} [delete]
func (h *Handler) deleteOffer(w http.ResponseWriter, r *http.Request) {
	serveDelete(h, h.offers, w, r)
}
