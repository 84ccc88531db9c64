package api

import "net/http"

// listUsers returns every user in id order.
// @Summary List users
// @Tags users
// @Produce json
// @Success 200 {array} mapper.UserPayload
// @Failure 500 {object} ErrorResponse
// @Router /users [get]
func (h *Handler) listUsers(w http.ResponseWriter, r *http.Request) {
	serveList(h, h.users, w, r)
}

// getUser returns one user.
// @Summary Get user
// @Tags users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} mapper.UserPayload
// @Failure 404 {object} ErrorResponse
// @Router /users/{id} [get]
func (h *Handler) getUser(w http.ResponseWriter, r *http.Request) {
	serveGet(h, h.users, w, r)
}

// createUser stores a new user. The assigned id is returned in the Location
// header.
// @Summary Create user
// @Tags users
// @Accept json
// @Produce json
// @Param user body mapper.UserInput true "User"
// @Success 201
// @Header 201 {string} Location "/users/1"
// @Failure 400 {object} ErrorResponse
// @Failure 413 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /users [post]
func (h *Handler) createUser(w http.ResponseWriter, r *http.Request) {
	serveCreate(h, h.users, w, r)
}

// updateUser replaces every field of a user.
// @Summary Replace user
// @Tags users
// @Accept json
// @Produce json
// @Param id path int true "User ID"
// @Param user body mapper.UserInput true "User"
// @Success 202
// @Failure 400 {object} ErrorResponse
// @Failure 413 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /users/{id} [put]
func (h *Handler) updateUser(w http.ResponseWriter, r *http.Request) {
	serveUpdate(h, h.users, w, r)
}

// deleteUser removes a user.
// @Summary Delete user
// @Tags users
// @Param id path int true "User ID"
// @Success 204
// @Failure 404 {object} ErrorResponse
// @Router /users/{id} [delete]
func (h *Handler) deleteUser(w http.ResponseWriter, r *http.Request) {
	serveDelete(h, h.users, w, r)
}
