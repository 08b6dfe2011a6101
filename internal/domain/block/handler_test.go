package block

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/flocknet/flocknet-api/internal/middleware"
)

type testEnvelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func authAs(userID uuid.UUID) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := context.WithValue(r.Context(), middleware.UserIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func doRequest(t *testing.T, router http.Handler, method, path string) (int, testEnvelope) {
	t.Helper()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, nil)
	router.ServeHTTP(rec, req)

	var env testEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode response body %q: %v", rec.Body.String(), err)
	}
	return rec.Code, env
}

func TestHandlerSelfBlockBadRequest(t *testing.T) {
	svc, _, _, dir := newTestService()
	a := addUser(dir, "a")
	router := NewHandler(svc).Routes(authAs(a))

	status, env := doRequest(t, router, http.MethodPost, "/"+a.String())
	if status != http.StatusBadRequest || env.Error == nil || env.Error.Code != "BAD_REQUEST" {
		t.Fatalf("expected 400 BAD_REQUEST, got %d %+v", status, env.Error)
	}
}

func TestHandlerBlockThenStatus(t *testing.T) {
	svc, _, _, dir := newTestService()
	a := addUser(dir, "a")
	b := addUser(dir, "b")
	router := NewHandler(svc).Routes(authAs(a))

	status, _ := doRequest(t, router, http.MethodPost, "/"+b.String())
	if status != http.StatusOK {
		t.Fatalf("expected 200 on block, got %d", status)
	}

	status, env := doRequest(t, router, http.MethodGet, "/"+b.String()+"/status")
	if status != http.StatusOK {
		t.Fatalf("expected 200 on status, got %d", status)
	}
	var resp BlockStatusResponse
	if err := json.Unmarshal(env.Data, &resp); err != nil {
		t.Fatalf("decode status data: %v", err)
	}
	if !resp.IsBlocked {
		t.Fatal("expected is_blocked true after block")
	}
}

func TestHandlerListValidatesPagination(t *testing.T) {
	svc, _, _, dir := newTestService()
	a := addUser(dir, "a")
	router := NewHandler(svc).Routes(authAs(a))

	status, env := doRequest(t, router, http.MethodGet, "/?page_size=101")
	if status != http.StatusUnprocessableEntity || env.Error == nil || env.Error.Code != "VALIDATION_ERROR" {
		t.Fatalf("expected 422 VALIDATION_ERROR for page_size above bound, got %d %+v", status, env.Error)
	}
}
