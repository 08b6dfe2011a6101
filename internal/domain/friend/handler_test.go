package friend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/flocknet/flocknet-api/internal/middleware"
)

type errEnvelope struct {
	Success bool `json:"success"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// authAs injects a fixed caller identity, standing in for the JWT
// middleware
func authAs(userID uuid.UUID) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := context.WithValue(r.Context(), middleware.UserIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func doRequest(t *testing.T, router http.Handler, method, path string) (int, errEnvelope) {
	t.Helper()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, nil)
	router.ServeHTTP(rec, req)

	var env errEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode response body %q: %v", rec.Body.String(), err)
	}
	return rec.Code, env
}

func TestHandlerSelfRequestBadRequest(t *testing.T) {
	svc, _, dir, _ := newTestService()
	a := addUser(dir, "a")
	router := NewHandler(svc).Routes(authAs(a))

	status, env := doRequest(t, router, http.MethodPost, "/requests/"+a.String())
	if status != http.StatusBadRequest || env.Error == nil || env.Error.Code != "BAD_REQUEST" {
		t.Fatalf("expected 400 BAD_REQUEST, got %d %+v", status, env.Error)
	}
}

func TestHandlerDuplicateRequestConflict(t *testing.T) {
	svc, _, dir, _ := newTestService()
	a := addUser(dir, "a")
	b := addUser(dir, "b")
	router := NewHandler(svc).Routes(authAs(a))

	status, _ := doRequest(t, router, http.MethodPost, "/requests/"+b.String())
	if status != http.StatusCreated {
		t.Fatalf("expected 201 on first request, got %d", status)
	}

	status, env := doRequest(t, router, http.MethodPost, "/requests/"+b.String())
	if status != http.StatusConflict || env.Error == nil || env.Error.Code != "CONFLICT" {
		t.Fatalf("expected 409 CONFLICT, got %d %+v", status, env.Error)
	}
}

func TestHandlerAcceptMissingRequestNotFound(t *testing.T) {
	svc, _, dir, _ := newTestService()
	a := addUser(dir, "a")
	router := NewHandler(svc).Routes(authAs(a))

	status, env := doRequest(t, router, http.MethodPost, "/requests/"+uuid.NewString()+"/accept")
	if status != http.StatusNotFound || env.Error == nil || env.Error.Code != "NOT_FOUND" {
		t.Fatalf("expected 404 NOT_FOUND, got %d %+v", status, env.Error)
	}
}

func TestHandlerAcceptResolvedRequestPreconditionFailed(t *testing.T) {
	svc, _, dir, _ := newTestService()
	ctx := context.Background()
	a := addUser(dir, "a")
	b := addUser(dir, "b")

	req, err := svc.SendRequest(ctx, a, b)
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if err := svc.RejectRequest(ctx, req.ID, b); err != nil {
		t.Fatalf("reject: %v", err)
	}

	router := NewHandler(svc).Routes(authAs(b))
	status, env := doRequest(t, router, http.MethodPost, "/requests/"+req.ID.String()+"/accept")
	if status != http.StatusConflict || env.Error == nil || env.Error.Code != "PRECONDITION_FAILED" {
		t.Fatalf("expected 409 PRECONDITION_FAILED, got %d %+v", status, env.Error)
	}
}

func TestHandlerUnfriendMissingNotFound(t *testing.T) {
	svc, _, dir, _ := newTestService()
	a := addUser(dir, "a")
	b := addUser(dir, "b")
	router := NewHandler(svc).Routes(authAs(a))

	status, env := doRequest(t, router, http.MethodDelete, "/"+b.String())
	if status != http.StatusNotFound || env.Error == nil || env.Error.Code != "NOT_FOUND" {
		t.Fatalf("expected 404 NOT_FOUND, got %d %+v", status, env.Error)
	}
}

func TestHandlerSuggestionsLimitBounds(t *testing.T) {
	svc, _, dir, _ := newTestService()
	a := addUser(dir, "a")
	router := NewHandler(svc).Routes(authAs(a))

	status, env := doRequest(t, router, http.MethodGet, "/suggestions?limit=101")
	if status != http.StatusUnprocessableEntity || env.Error == nil || env.Error.Code != "VALIDATION_ERROR" {
		t.Fatalf("expected 422 VALIDATION_ERROR for limit above cap, got %d %+v", status, env.Error)
	}

	status, _ = doRequest(t, router, http.MethodGet, "/suggestions?limit=100")
	if status != http.StatusOK {
		t.Fatalf("expected 200 for limit at cap, got %d", status)
	}
}

func TestHandlerInvalidUserIDBadRequest(t *testing.T) {
	svc, _, dir, _ := newTestService()
	a := addUser(dir, "a")
	router := NewHandler(svc).Routes(authAs(a))

	status, env := doRequest(t, router, http.MethodPost, "/requests/not-a-uuid")
	if status != http.StatusBadRequest || env.Error == nil || env.Error.Code != "BAD_REQUEST" {
		t.Fatalf("expected 400 BAD_REQUEST, got %d %+v", status, env.Error)
	}
}
