// Package api serves users, orders and offers over HTTP.
package api

import (
	"fmt"
	"net/http"

	"go.opentelemetry.io/otel/attribute"

	"offerboard/pkg/logger"
	"offerboard/pkg/mapper"
	"offerboard/pkg/metrics"
	"offerboard/pkg/models"
	"offerboard/pkg/otel"
	"offerboard/pkg/store"
)

// Handler serves the CRUD endpoints of every record kind from one store.
type Handler struct {
	store   store.Store
	log     *logger.Logger
	metrics *metrics.Collector

	users  resource[models.User, mapper.UserPayload]
	orders resource[models.Order, mapper.OrderPayload]
	offers resource[models.Offer, mapper.OfferPayload]
}

// NewHandler returns a Handler backed by s. m may be nil.
func NewHandler(s store.Store, log *logger.Logger, m *metrics.Collector) *Handler {
	return &Handler{
		store:   s,
		log:     log,
		metrics: m,
		users: resource[models.User, mapper.UserPayload]{
			kind:   models.KindUser,
			repo:   s.Users(),
			decode: mapper.DecodeUser,
			encode: mapper.EncodeUser,
			withID: func(u models.User, id int64) models.User { u.ID = id; return u },
		},
		orders: resource[models.Order, mapper.OrderPayload]{
			kind:   models.KindOrder,
			repo:   s.Orders(),
			decode: mapper.DecodeOrder,
			encode: mapper.EncodeOrder,
			withID: func(o models.Order, id int64) models.Order { o.ID = id; return o },
		},
		offers: resource[models.Offer, mapper.OfferPayload]{
			kind:   models.KindOffer,
			repo:   s.Offers(),
			decode: mapper.DecodeOffer,
			encode: mapper.EncodeOffer,
			withID: func(o models.Offer, id int64) models.Offer { o.ID = id; return o },
		},
	}
}

// resource binds one record kind to its repository and wire mapping.
type resource[T, P any] struct {
	kind   models.Kind
	repo   store.Repository[T]
	decode func([]byte, mapper.Mode) (T, error)
	encode func(T) P
	withID func(T, int64) T
}

func (h *Handler) recordWrite(kind models.Kind, op string) {
	if h.metrics != nil {
		h.metrics.RecordWrite(string(kind), op)
	}
}

func serveList[T, P any](h *Handler, res resource[T, P], w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), string(res.kind)+".list")
	defer span.End()

	recs, err := res.repo.List(ctx)
	if err != nil {
		h.writeFailure(ctx, w, res.kind, "", "list "+string(res.kind), err)
		return
	}
	span.SetAttributes(attribute.Int("record.count", len(recs)))
	writeJSON(w, http.StatusOK, mapper.EncodeAll(recs, res.encode))
}

func serveGet[T, P any](h *Handler, res resource[T, P], w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), string(res.kind)+".get")
	defer span.End()

	id, raw, ok := pathID(r)
	if !ok {
		writeNotFound(w, res.kind, raw)
		return
	}
	span.SetAttributes(attribute.Int64("record.id", id))

	rec, err := res.repo.Get(ctx, id)
	if err != nil {
		h.writeFailure(ctx, w, res.kind, raw, "get "+string(res.kind), err)
		return
	}
	writeJSON(w, http.StatusOK, res.encode(rec))
}

func serveCreate[T, P any](h *Handler, res resource[T, P], w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), string(res.kind)+".create")
	defer span.End()

	body, err := readBody(w, r)
	if err != nil {
		h.writeFailure(ctx, w, res.kind, "", "create "+string(res.kind), err)
		return
	}
	rec, err := res.decode(body, mapper.ModeCreate)
	if err != nil {
		h.writeFailure(ctx, w, res.kind, "", "create "+string(res.kind), err)
		return
	}
	id, err := res.repo.Create(ctx, rec)
	if err != nil {
		h.writeFailure(ctx, w, res.kind, "", "create "+string(res.kind), err)
		return
	}
	span.SetAttributes(attribute.Int64("record.id", id))
	h.recordWrite(res.kind, "create")

	w.Header().Set("Location", fmt.Sprintf("/%s/%d", res.kind, id))
	writeEmpty(w, http.StatusCreated)
}

func serveUpdate[T, P any](h *Handler, res resource[T, P], w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), string(res.kind)+".update")
	defer span.End()

	id, raw, ok := pathID(r)
	if !ok {
		writeNotFound(w, res.kind, raw)
		return
	}
	span.SetAttributes(attribute.Int64("record.id", id))

	body, err := readBody(w, r)
	if err != nil {
		h.writeFailure(ctx, w, res.kind, raw, "update "+string(res.kind), err)
		return
	}
	rec, err := res.decode(body, mapper.ModeReplace)
	if err != nil {
		h.writeFailure(ctx, w, res.kind, raw, "update "+string(res.kind), err)
		return
	}
	if err := res.repo.Update(ctx, res.withID(rec, id)); err != nil {
		h.writeFailure(ctx, w, res.kind, raw, "update "+string(res.kind), err)
		return
	}
	h.recordWrite(res.kind, "update")
	writeEmpty(w, http.StatusAccepted)
}

func serveDelete[T, P any](h *Handler, res resource[T, P], w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), string(res.kind)+".delete")
	defer span.End()

	id, raw, ok := pathID(r)
	if !ok {
		writeNotFound(w, res.kind, raw)
		return
	}
	span.SetAttributes(attribute.Int64("record.id", id))

	if err := res.repo.Delete(ctx, id); err != nil {
		h.writeFailure(ctx, w, res.kind, raw, "delete "+string(res.kind), err)
		return
	}
	h.recordWrite(res.kind, "delete")
	writeEmpty(w, http.StatusNoContent)
}

type healthResponse struct {
	Status string `json:"status" example:"ok"`
} // @name Health

// health reports whether the store answers.
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} healthResponse
// @Failure 503 {object} ErrorResponse
// @Router /health [get]
func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Ping(r.Context()); err != nil {
		h.log.Error(r.Context(), "store ping", "error", err)
		writeError(w, http.StatusServiceUnavailable, ErrorResponse{
			Code:    CodeStoreUnavailable,
			Message: "store unavailable",
		})
		return
	}
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok"})
}
