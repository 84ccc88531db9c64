package api

import "net/http"

// listOrders returns every order in id order.
// @Summary List orders
// @Tags orders
// @Produce json
// @Success 200 {array} mapper.OrderPayload
// @Failure 500 {object} ErrorResponse
// @Router /orders [get]
func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	serveList(h, h.orders, w, r)
}

// getOrder returns one order.
// @Summary Get order
// @Tags orders
// @Produce json
// @Param id path int true "Order ID"
// @Success 200 {object} mapper.OrderPayload
// @Failure 404 {object} ErrorResponse
// @Router /orders/{id} [get]
func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	serveGet(h, h.orders, w, r)
}

// createOrder stores a new order. The assigned id is returned in the Location
// header.
// @Summary Create order
// @Description Dates are YYYY-MM-DD. M/D/YYYY is accepted and normalised.
// @Tags orders
// @Accept json
// @Produce json
// @Param order body mapper.OrderInput true "Order"
// @Success 201
// @Header 201 {string} Location "/orders/1"
// @Failure 400 {object} ErrorResponse
// @Failure 413 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /orders [post]
func (h *Handler) createOrder(w http.ResponseWriter, r *http.Request) {
	serveCreate(h, h.orders, w, r)
}

// updateOrder replaces every field of an order.
// @Summary Replace order
// @Description Every field must be present. Optional fields may be null.
// @Tags orders
// @Accept json
// @Produce json
// @Param id path int true "Order ID"
// @Param order body mapper.OrderInput true "Order"
// @Success 202
// @Failure 400 {object} ErrorResponse
// @Failure 413 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /orders/{id} [put]
func (h *Handler) updateOrder(w http.ResponseWriter, r *http.Request) {
	serveUpdate(h, h.orders, w, r)
}

// deleteOrder removes an order.
// @Summary Delete order
// @Tags orders
// @Param id path int true "Order ID"
// @Success 204
// @Failure 404 {object} ErrorResponse
// @Router /orders/{id} [delete]
func (h *Handler) deleteOrder(w http.ResponseWriter, r *http.Request) {
	serveDelete(h, h.orders, w, r)
}
