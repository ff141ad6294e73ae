package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aurasat/backend/internal/model"
	"github.com/aurasat/backend/internal/repository"
	"github.com/aurasat/backend/internal/service"
)

// ---------------------------------------------------------------------------
// Mock ContactService
// ---------------------------------------------------------------------------

type mockContactService struct {
	submitFunc       func(ctx context.Context, sub service.ContactSubmission) (*model.Contact, error)
	listFunc         func(ctx context.Context) ([]*model.Contact, error)
	updateStatusFunc func(ctx context.Context, id string, status model.ContactStatus) (*model.Contact, error)
	deleteFunc       func(ctx context.Context, id string) error
}

func (m *mockContactService) Submit(ctx context.Context, sub service.ContactSubmission) (*model.Contact, error) {
	if m.submitFunc != nil {
		return m.submitFunc(ctx, sub)
	}
	return &model.Contact{ID: "c1", Status: model.ContactStatusNew}, nil
}

func (m *mockContactService) List(ctx context.Context) ([]*model.Contact, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx)
	}
	return nil, nil
}

func (m *mockContactService) UpdateStatus(ctx context.Context, id string, status model.ContactStatus) (*model.Contact, error) {
	if m.updateStatusFunc != nil {
		return m.updateStatusFunc(ctx, id, status)
	}
	return &model.Contact{ID: id, Status: status}, nil
}

func (m *mockContactService) Delete(ctx context.Context, id string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var resp map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	return resp["error"]
}

// ---------------------------------------------------------------------------
// POST /api/contact
// ---------------------------------------------------------------------------

func TestContactHandler_Submit_Success(t *testing.T) {
	var captured service.ContactSubmission
	mock := &mockContactService{
		submitFunc: func(ctx context.Context, sub service.ContactSubmission) (*model.Contact, error) {
			captured = sub
			return &model.Contact{ID: "abc-123", Status: model.ContactStatusNew}, nil
		},
	}
	h := NewContactHandler(mock)

	body := `{"name":"Asha","email":"asha@example.in","subject":"Coverage","message":"Is Leh live yet?"}`
	req := httptest.NewRequest(http.MethodPost, "/api/contact", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.Submit(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	want := service.ContactSubmission{Name: "Asha", Email: "asha@example.in", Subject: "Coverage", Message: "Is Leh live yet?"}
	if captured != want {
		t.Errorf("unexpected submission: %+v", captured)
	}

	var resp submitResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.Success || resp.ID != "abc-123" || resp.Message != "Contact form submitted successfully" {
		t.Errorf("unexpected response: %+v", resp)
	}
}

func TestContactHandler_Submit_ValidationCodes(t *testing.T) {
	for _, code := range []string{service.CodeFieldsRequired, service.CodeInvalidEmail} {
		mock := &mockContactService{
			submitFunc: func(ctx context.Context, sub service.ContactSubmission) (*model.Contact, error) {
				return nil, &service.ValidationError{Code: code}
			},
		}
		h := NewContactHandler(mock)

		req := httptest.NewRequest(http.MethodPost, "/api/contact", strings.NewReader(`{"name":"A"}`))
		rec := httptest.NewRecorder()
		h.Submit(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", code, rec.Code)
		}
		if got := decodeError(t, rec); got != code {
			t.Errorf("expected error=%s, got %q", code, got)
		}
	}
}

func TestContactHandler_Submit_InvalidJSON(t *testing.T) {
	called := false
	mock := &mockContactService{
		submitFunc: func(ctx context.Context, sub service.ContactSubmission) (*model.Contact, error) {
			called = true
			return nil, nil
		},
	}
	h := NewContactHandler(mock)

	for _, body := range []string{"not json", `["a"]`, `{"name":`} {
		req := httptest.NewRequest(http.MethodPost, "/api/contact", strings.NewReader(body))
		rec := httptest.NewRecorder()
		h.Submit(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("%q: expected 400, got %d", body, rec.Code)
		}
		if got := decodeError(t, rec); got != "invalid_json" {
			t.Errorf("%q: expected invalid_json, got %q", body, got)
		}
	}
	if called {
		t.Error("service should not be called for malformed bodies")
	}
}

func TestContactHandler_Submit_BodyTooLarge(t *testing.T) {
	h := NewContactHandler(&mockContactService{})

	body := fmt.Sprintf(`{"name":"A","email":"a@b.com","subject":"S","message":%q}`, strings.Repeat("x", maxContactBodyBytes))
	req := httptest.NewRequest(http.MethodPost, "/api/contact", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Submit(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for oversized body, got %d", rec.Code)
	}
}

func TestContactHandler_Submit_ServiceError(t *testing.T) {
	mock := &mockContactService{
		submitFunc: func(ctx context.Context, sub service.ContactSubmission) (*model.Contact, error) {
			return nil, errors.New("pq: connection reset by peer")
		},
	}
	h := NewContactHandler(mock)

	body := `{"name":"A","email":"a@b.com","subject":"S","message":"M"}`
	req := httptest.NewRequest(http.MethodPost, "/api/contact", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Submit(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "connection reset") {
		t.Error("internal error detail leaked to the client")
	}
	if got := decodeError(t, rec); got != "internal_error" {
		t.Errorf("expected internal_error, got %q", got)
	}
}

// ---------------------------------------------------------------------------
// GET /api/contact
// ---------------------------------------------------------------------------

func TestContactHandler_List_ReturnsArray(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	mock := &mockContactService{
		listFunc: func(ctx context.Context) ([]*model.Contact, error) {
			return []*model.Contact{
				{ID: "2", Name: "B", Status: model.ContactStatusNew, CreatedAt: now, UpdatedAt: now},
				{ID: "1", Name: "A", Status: model.ContactStatusRead, CreatedAt: now.Add(-time.Hour), UpdatedAt: now},
			}, nil
		},
	}
	h := NewContactHandler(mock)

	req := httptest.NewRequest(http.MethodGet, "/api/contact", nil)
	rec := httptest.NewRecorder()
	h.List(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var got []map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != 2 || got[0]["id"] != "2" || got[1]["status"] != "read" {
		t.Errorf("unexpected listing: %v", got)
	}
	if _, ok := got[0]["createdAt"]; !ok {
		t.Error("expected camelCase createdAt field")
	}
}

func TestContactHandler_List_EmptyReturnsEmptyArray(t *testing.T) {
	h := NewContactHandler(&mockContactService{})

	req := httptest.NewRequest(http.MethodGet, "/api/contact", nil)
	rec := httptest.NewRecorder()
	h.List(rec, req)

	if body := strings.TrimSpace(rec.Body.String()); body != "[]" {
		t.Errorf("expected [], got %s", body)
	}
}

func TestContactHandler_List_ServiceError(t *testing.T) {
	mock := &mockContactService{
		listFunc: func(ctx context.Context) ([]*model.Contact, error) {
			return nil, errors.New("db down")
		},
	}
	h := NewContactHandler(mock)

	req := httptest.NewRequest(http.MethodGet, "/api/contact", nil)
	rec := httptest.NewRecorder()
	h.List(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", rec.Code)
	}
}

// ---------------------------------------------------------------------------
// PATCH /api/contact/{id}
// ---------------------------------------------------------------------------

func patchStatus(h *ContactHandler, id, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPatch, "/api/contact/"+id, strings.NewReader(body))
	req.SetPathValue("id", id)
	rec := httptest.NewRecorder()
	h.UpdateStatus(rec, req)
	return rec
}

func TestContactHandler_UpdateStatus_Success(t *testing.T) {
	var gotID string
	var gotStatus model.ContactStatus
	mock := &mockContactService{
		updateStatusFunc: func(ctx context.Context, id string, status model.ContactStatus) (*model.Contact, error) {
			gotID, gotStatus = id, status
			return &model.Contact{ID: id, Status: status}, nil
		},
	}
	rec := patchStatus(NewContactHandler(mock), "c1", `{"status":"read"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if gotID != "c1" || gotStatus != model.ContactStatusRead {
		t.Errorf("service called with id=%q status=%q", gotID, gotStatus)
	}
	var c model.Contact
	if err := json.NewDecoder(rec.Body).Decode(&c); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if c.Status != model.ContactStatusRead {
		t.Errorf("expected status=read, got %q", c.Status)
	}
}

func TestContactHandler_UpdateStatus_Errors(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		err      error
		wantCode int
		wantErr  string
	}{
		{"malformed body", `{`, nil, http.StatusBadRequest, "invalid_json"},
		{"invalid status", `{"status":"bogus"}`, service.ErrInvalidStatus, http.StatusBadRequest, "invalid_status"},
		{"unknown id", `{"status":"read"}`, repository.ErrNotFound, http.StatusNotFound, "not_found"},
		{"strict transition", `{"status":"new"}`, fmt.Errorf("%w: replied -> new", service.ErrInvalidTransition), http.StatusConflict, "invalid_transition"},
		{"store failure", `{"status":"read"}`, errors.New("disk full"), http.StatusInternalServerError, "internal_error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &mockContactService{
				updateStatusFunc: func(ctx context.Context, id string, status model.ContactStatus) (*model.Contact, error) {
					return nil, tt.err
				},
			}
			rec := patchStatus(NewContactHandler(mock), "c1", tt.body)

			if rec.Code != tt.wantCode {
				t.Errorf("expected %d, got %d", tt.wantCode, rec.Code)
			}
			if got := decodeError(t, rec); got != tt.wantErr {
				t.Errorf("expected error=%s, got %q", tt.wantErr, got)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// DELETE /api/contact/{id}
// ---------------------------------------------------------------------------

func deleteContact(h *ContactHandler, id string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodDelete, "/api/contact/"+id, nil)
	req.SetPathValue("id", id)
	rec := httptest.NewRecorder()
	h.Delete(rec, req)
	return rec
}

func TestContactHandler_Delete_Success(t *testing.T) {
	var deleted string
	mock := &mockContactService{
		deleteFunc: func(ctx context.Context, id string) error {
			deleted = id
			return nil
		},
	}
	rec := deleteContact(NewContactHandler(mock), "c9")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if deleted != "c9" {
		t.Errorf("expected c9 deleted, got %q", deleted)
	}
	if body := strings.TrimSpace(rec.Body.String()); body != `{"success":true}` {
		t.Errorf("unexpected body: %s", body)
	}
}

func TestContactHandler_Delete_NotFound(t *testing.T) {
	mock := &mockContactService{
		deleteFunc: func(ctx context.Context, id string) error {
			return repository.ErrNotFound
		},
	}
	rec := deleteContact(NewContactHandler(mock), "missing")

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
	if got := decodeError(t, rec); got != "not_found" {
		t.Errorf("expected not_found, got %q", got)
	}
}

func TestContactHandler_Delete_ServiceError(t *testing.T) {
	mock := &mockContactService{
		deleteFunc: func(ctx context.Context, id string) error {
			return errors.New("boom")
		},
	}
	rec := deleteContact(NewContactHandler(mock), "c1")

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", rec.Code)
	}
}
