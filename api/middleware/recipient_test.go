package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	pkgerrors "github.com/prazodigital/prazos-backend/pkg/errors"
)

func TestRecipientContext_RequiresHeader(t *testing.T) {
	handler := RecipientContext(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run without a recipient")
	}))

	req := httptest.NewRequest(http.MethodGet, "/notifications", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	var payload struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if payload.Error.Code != string(pkgerrors.CodeValidation) {
		t.Fatalf("unexpected code: %s", payload.Error.Code)
	}
}

func TestRecipientContext_RejectsMalformedRecipient(t *testing.T) {
	handler := RecipientContext(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run with a malformed recipient")
	}))

	req := httptest.NewRequest(http.MethodGet, "/notifications", nil)
	req.Header.Set("X-Recipient-Id", "not-a-uuid")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestRecipientContext_InjectsRecipientAndTenant(t *testing.T) {
	recipientID := uuid.New()
	tenantID := uuid.New()

	var gotRecipient, gotTenant uuid.UUID
	handler := RecipientContext(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotRecipient = RecipientFromContext(r.Context())
		gotTenant = TenantFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/notifications", nil)
	req.Header.Set("X-Recipient-Id", recipientID.String())
	req.Header.Set("X-Tenant-Id", tenantID.String())
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if gotRecipient != recipientID {
		t.Fatalf("expected recipient %s, got %s", recipientID, gotRecipient)
	}
	if gotTenant != tenantID {
		t.Fatalf("expected tenant %s, got %s", tenantID, gotTenant)
	}
}

func TestRecipientContext_TenantHeaderOptional(t *testing.T) {
	handler := RecipientContext(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if TenantFromContext(r.Context()) != uuid.Nil {
			t.Fatal("expected nil tenant when header absent")
		}
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/notifications", nil)
	req.Header.Set("X-Recipient-Id", uuid.NewString())
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestRecipientContext_RejectsMalformedTenant(t *testing.T) {
	handler := RecipientContext(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run with a malformed tenant")
	}))

	req := httptest.NewRequest(http.MethodGet, "/notifications", nil)
	req.Header.Set("X-Recipient-Id", uuid.NewString())
	req.Header.Set("X-Tenant-Id", "nope")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}
