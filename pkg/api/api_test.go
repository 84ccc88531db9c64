package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"offerboard/pkg/logger"
	"offerboard/pkg/metrics"
	"offerboard/pkg/otel"
	"offerboard/pkg/seed"
	"offerboard/pkg/store/memory"
)

func newTestRouter(t *testing.T, opts Options) http.Handler {
	t.Helper()
	s := memory.New()
	if _, err := seed.Load(context.Background(), s); err != nil {
		t.Fatalf("seed: %v", err)
	}
	log := logger.New(io.Discard, logger.LevelError, "offerboard-test", otel.GetTraceID)
	return NewRouter(s, log, opts)
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeObject(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var got map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return got
}

func decodeList(t *testing.T, rec *httptest.ResponseRecorder) []map[string]any {
	t.Helper()
	var got []map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return got
}

func expectError(t *testing.T, rec *httptest.ResponseRecorder, status int, code string) ErrorResponse {
	t.Helper()
	if rec.Code != status {
		t.Fatalf("expected status %d, got %d: %s", status, rec.Code, rec.Body.String())
	}
	var body ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode error body %q: %v", rec.Body.String(), err)
	}
	if body.Code != code {
		t.Fatalf("expected code %s, got %s (%s)", code, body.Code, body.Message)
	}
	return body
}

func TestCreateThenGetUser(t *testing.T) {
	h := newTestRouter(t, Options{})

	rec := do(t, h, http.MethodPost, "/users",
		`{"first_name":"Ann","last_name":"Lee","age":30,"email":"a@x.com","role":"customer","phone":"555"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if rec.Body.Len() != 0 {
		t.Fatalf("expected empty body, got %q", rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != contentTypeJSON {
		t.Fatalf("unexpected content type %q", ct)
	}
	loc := rec.Header().Get("Location")
	if loc != "/users/6" {
		t.Fatalf("expected Location /users/6, got %q", loc)
	}

	rec = do(t, h, http.MethodGet, loc, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != contentTypeJSON {
		t.Fatalf("unexpected content type %q", ct)
	}
	want := map[string]any{
		"id":         float64(6),
		"first_name": "Ann",
		"last_name":  "Lee",
		"age":        float64(30),
		"email":      "a@x.com",
		"role":       "customer",
		"phone":      "555",
	}
	if got := decodeObject(t, rec); !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestOrderDatesAreNormalised(t *testing.T) {
	h := newTestRouter(t, Options{})

	rec := do(t, h, http.MethodPost, "/orders", `{"name":"Sweep","start_date":"01/15/2024","customer_id":1}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	got := decodeObject(t, do(t, h, http.MethodGet, rec.Header().Get("Location"), ""))
	if got["start_date"] != "2024-01-15" {
		t.Fatalf("expected start_date 2024-01-15, got %v", got["start_date"])
	}
	if got["end_date"] != nil {
		t.Fatalf("expected null end_date, got %v", got["end_date"])
	}

	seeded := decodeObject(t, do(t, h, http.MethodGet, "/orders/1", ""))
	if seeded["start_date"] != "2013-02-08" || seeded["end_date"] != "2055-05-10" {
		t.Fatalf("unexpected seeded dates %v / %v", seeded["start_date"], seeded["end_date"])
	}
}

func TestListAfterCreates(t *testing.T) {
	h := newTestRouter(t, Options{})

	before := decodeList(t, do(t, h, http.MethodGet, "/offers", ""))
	var created []string
	for _, body := range []string{
		`{"order_id":1,"executor_id":3}`,
		`{"order_id":null,"executor_id":null}`,
		`{}`,
	} {
		rec := do(t, h, http.MethodPost, "/offers", body)
		if rec.Code != http.StatusCreated {
			t.Fatalf("create %s: %d %s", body, rec.Code, rec.Body.String())
		}
		created = append(created, rec.Header().Get("Location"))
	}

	list := decodeList(t, do(t, h, http.MethodGet, "/offers", ""))
	if len(list) != len(before)+len(created) {
		t.Fatalf("expected %d offers, got %d", len(before)+len(created), len(list))
	}
	for i, rec := range list {
		if rec["id"] != float64(i+1) {
			t.Fatalf("offer %d has id %v, list not in id order", i, rec["id"])
		}
	}
	for _, loc := range created {
		if rec := do(t, h, http.MethodGet, loc, ""); rec.Code != http.StatusOK {
			t.Fatalf("get %s: %d", loc, rec.Code)
		}
	}
}

func TestUpdateReplacesEveryField(t *testing.T) {
	h := newTestRouter(t, Options{})

	rec := do(t, h, http.MethodPut, "/users/1",
		`{"first_name":"Hudson","last_name":"Price","age":null,"email":"hp@mail.com","role":null,"phone":null}`)
	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d: %s", rec.Code, rec.Body.String())
	}
	if rec.Body.Len() != 0 {
		t.Fatalf("expected empty body, got %q", rec.Body.String())
	}
	want := map[string]any{
		"id":         float64(1),
		"first_name": "Hudson",
		"last_name":  "Price",
		"age":        nil,
		"email":      "hp@mail.com",
		"role":       nil,
		"phone":      nil,
	}
	if got := decodeObject(t, do(t, h, http.MethodGet, "/users/1", "")); !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}

	rec = do(t, h, http.MethodPut, "/users/1", `{"first_name":"Hudson"}`)
	body := expectError(t, rec, http.StatusBadRequest, CodeInvalidPayload)
	if body.Field == "" {
		t.Fatal("expected the missing field to be named")
	}
	if got := decodeObject(t, do(t, h, http.MethodGet, "/users/1", "")); got["last_name"] != "Price" {
		t.Fatalf("rejected update changed the record: %v", got)
	}
}

func TestDeleteThenGet(t *testing.T) {
	h := newTestRouter(t, Options{})

	rec := do(t, h, http.MethodDelete, "/offers/2", "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	expectError(t, do(t, h, http.MethodGet, "/offers/2", ""), http.StatusNotFound, "OFFER_NOT_FOUND")
	for _, o := range decodeList(t, do(t, h, http.MethodGet, "/offers", "")) {
		if o["id"] == float64(2) {
			t.Fatal("deleted offer still listed")
		}
	}
	expectError(t, do(t, h, http.MethodDelete, "/offers/2", ""), http.StatusNotFound, "OFFER_NOT_FOUND")
}

func TestUnknownID(t *testing.T) {
	h := newTestRouter(t, Options{})

	tests := []struct {
		method, path, body, code string
	}{
		{http.MethodGet, "/users/999", "", "USER_NOT_FOUND"},
		{http.MethodPut, "/users/999", `{"first_name":"A","last_name":"B","age":null,"email":null,"role":null,"phone":null}`, "USER_NOT_FOUND"},
		{http.MethodDelete, "/users/999", "", "USER_NOT_FOUND"},
		{http.MethodGet, "/orders/999", "", "ORDER_NOT_FOUND"},
		{http.MethodPut, "/orders/999", `{"name":"x","description":null,"start_date":null,"end_date":null,"address":null,"price":null,"customer_id":null,"executor_id":null}`, "ORDER_NOT_FOUND"},
		{http.MethodDelete, "/orders/999", "", "ORDER_NOT_FOUND"},
		{http.MethodGet, "/offers/999", "", "OFFER_NOT_FOUND"},
		{http.MethodPut, "/offers/999", `{"order_id":null,"executor_id":null}`, "OFFER_NOT_FOUND"},
		{http.MethodDelete, "/offers/999", "", "OFFER_NOT_FOUND"},
		{http.MethodGet, "/users/99999999999999999999", "", "USER_NOT_FOUND"},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			expectError(t, do(t, h, tt.method, tt.path, tt.body), http.StatusNotFound, tt.code)
		})
	}
}

func TestInvalidPayload(t *testing.T) {
	h := newTestRouter(t, Options{})

	tests := []struct {
		name, path, body, field string
	}{
		{"not json", "/users", `{"first_name":`, ""},
		{"not an object", "/users", `["Ann","Lee"]`, ""},
		{"read only id", "/users", `{"id":9,"first_name":"Ann","last_name":"Lee"}`, "id"},
		{"unknown field", "/offers", `{"order_id":1,"bid":10}`, "bid"},
		{"wrong type", "/users", `{"first_name":"Ann","last_name":"Lee","age":"thirty"}`, "age"},
		{"missing required", "/users", `{"first_name":"Ann"}`, "last_name"},
		{"bad date", "/orders", `{"name":"x","start_date":"tomorrow"}`, "start_date"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := expectError(t, do(t, h, http.MethodPost, tt.path, tt.body), http.StatusBadRequest, CodeInvalidPayload)
			if tt.field != "" && body.Field != tt.field {
				t.Fatalf("expected field %q, got %q", tt.field, body.Field)
			}
		})
	}
}

func TestConstraintViolations(t *testing.T) {
	h := newTestRouter(t, Options{})

	body := expectError(t,
		do(t, h, http.MethodPost, "/users", `{"first_name":"H","last_name":"P","email":"hudson.pearson@mail.com"}`),
		http.StatusConflict, CodeDuplicateEmail)
	if body.Field != "email" {
		t.Fatalf("expected field email, got %q", body.Field)
	}

	body = expectError(t,
		do(t, h, http.MethodPost, "/offers", `{"order_id":999,"executor_id":1}`),
		http.StatusConflict, CodeInvalidReference)
	if body.Field != "order_id" {
		t.Fatalf("expected field order_id, got %q", body.Field)
	}

	expectError(t,
		do(t, h, http.MethodPut, "/orders/2", `{"name":"x","description":null,"start_date":null,"end_date":null,"address":null,"price":null,"customer_id":42,"executor_id":null}`),
		http.StatusConflict, CodeInvalidReference)
}

func TestDeleteUserNullifiesReferences(t *testing.T) {
	h := newTestRouter(t, Options{})

	if rec := do(t, h, http.MethodDelete, "/users/2", ""); rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	order := decodeObject(t, do(t, h, http.MethodGet, "/orders/1", ""))
	if order["executor_id"] != nil || order["customer_id"] != float64(1) {
		t.Fatalf("unexpected order references %v", order)
	}
	offer := decodeObject(t, do(t, h, http.MethodGet, "/offers/1", ""))
	if offer["executor_id"] != nil || offer["order_id"] != float64(1) {
		t.Fatalf("unexpected offer references %v", offer)
	}
}

func TestRouting(t *testing.T) {
	h := newTestRouter(t, Options{})

	expectError(t, do(t, h, http.MethodGet, "/users/abc", ""), http.StatusNotFound, CodeRouteNotFound)
	expectError(t, do(t, h, http.MethodGet, "/customers", ""), http.StatusNotFound, CodeRouteNotFound)
	expectError(t, do(t, h, http.MethodPatch, "/users/1", ""), http.StatusMethodNotAllowed, CodeMethodNotAllowed)
	expectError(t, do(t, h, http.MethodDelete, "/orders", ""), http.StatusMethodNotAllowed, CodeMethodNotAllowed)
}

func TestHealth(t *testing.T) {
	h := newTestRouter(t, Options{})

	rec := do(t, h, http.MethodGet, "/health", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got := decodeObject(t, rec); got["status"] != "ok" {
		t.Fatalf("unexpected body %v", got)
	}
}

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	h := newTestRouter(t, Options{Metrics: metrics.NewCollector(reg), Gatherer: reg})

	do(t, h, http.MethodGet, "/users/1", "")
	do(t, h, http.MethodPost, "/users", `{"first_name":"Ann","last_name":"Lee"}`)
	do(t, h, http.MethodGet, "/customers", "")
	do(t, h, http.MethodPatch, "/users/1", "")

	rec := do(t, h, http.MethodGet, "/metrics", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{
		`offerboard_http_requests_total{method="GET",route="/users/{id:[0-9]+}",status_code="200"} 1`,
		`offerboard_http_requests_total{method="POST",route="/users",status_code="201"} 1`,
		`offerboard_record_writes_total{kind="users",op="create"} 1`,
		`offerboard_http_requests_total{method="GET",route="unmatched",status_code="404"} 1`,
		`offerboard_http_requests_total{method="PATCH",route="unmatched",status_code="405"} 1`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics output missing %s", want)
		}
	}
}

func TestRateLimit(t *testing.T) {
	h := newTestRouter(t, Options{RateLimit: 1, RateBurst: 1})

	if rec := do(t, h, http.MethodGet, "/health", ""); rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	rec := do(t, h, http.MethodGet, "/health", "")
	expectError(t, rec, http.StatusTooManyRequests, CodeRateLimited)
	if rec.Header().Get("Retry-After") != "1" {
		t.Fatalf("unexpected Retry-After %q", rec.Header().Get("Retry-After"))
	}
}

func TestRequestID(t *testing.T) {
	h := newTestRouter(t, Options{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if got := rec.Header().Get(RequestIDHeader); got != "abc-123" {
		t.Fatalf("expected echoed request id, got %q", got)
	}

	rec = do(t, h, http.MethodGet, "/health", "")
	if _, err := uuid.Parse(rec.Header().Get(RequestIDHeader)); err != nil {
		t.Fatalf("expected generated uuid, got %q", rec.Header().Get(RequestIDHeader))
	}
}

func TestRecovery(t *testing.T) {
	log := logger.New(io.Discard, logger.LevelError, "offerboard-test", nil)
	h := recoveryMiddleware(log)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))
	expectError(t, do(t, h, http.MethodGet, "/", ""), http.StatusInternalServerError, CodeInternal)
}

func TestSwaggerDoc(t *testing.T) {
	h := newTestRouter(t, Options{})

	rec := do(t, h, http.MethodGet, "/swagger/doc.json", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"/users/{id}"`) {
		t.Fatal("swagger document does not describe /users/{id}")
	}
}

func TestUpdateOrderReplacesEveryField(t *testing.T) {
	h := newTestRouter(t, Options{})

	rec := do(t, h, http.MethodPut, "/orders/2",
		`{"name":"Paint the shed","description":null,"start_date":"2024-02-01","end_date":null,"address":"1 Shed Row","price":450,"customer_id":5,"executor_id":null}`)
	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d: %s", rec.Code, rec.Body.String())
	}
	if rec.Body.Len() != 0 {
		t.Fatalf("expected empty body, got %q", rec.Body.String())
	}
	want := map[string]any{
		"id":          float64(2),
		"name":        "Paint the shed",
		"description": nil,
		"start_date":  "2024-02-01",
		"end_date":    nil,
		"address":     "1 Shed Row",
		"price":       float64(450),
		"customer_id": float64(5),
		"executor_id": nil,
	}
	if got := decodeObject(t, do(t, h, http.MethodGet, "/orders/2", "")); !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestUpdateOfferReplacesEveryField(t *testing.T) {
	h := newTestRouter(t, Options{})

	rec := do(t, h, http.MethodPut, "/offers/3", `{"order_id":4,"executor_id":null}`)
	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d: %s", rec.Code, rec.Body.String())
	}
	if rec.Body.Len() != 0 {
		t.Fatalf("expected empty body, got %q", rec.Body.String())
	}
	want := map[string]any{"id": float64(3), "order_id": float64(4), "executor_id": nil}
	if got := decodeObject(t, do(t, h, http.MethodGet, "/offers/3", "")); !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}

	expectError(t, do(t, h, http.MethodPut, "/offers/3", `{"order_id":4}`), http.StatusBadRequest, CodeInvalidPayload)
}

func TestOversizedBody(t *testing.T) {
	h := newTestRouter(t, Options{})

	body := `{"first_name":"` + strings.Repeat("a", maxBodyBytes) + `","last_name":"Lee"}`
	expectError(t, do(t, h, http.MethodPost, "/users", body), http.StatusRequestEntityTooLarge, CodePayloadTooLarge)
}
