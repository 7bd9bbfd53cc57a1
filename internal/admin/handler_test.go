package admin

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/drkleen/backend/internal/middleware"
	"github.com/drkleen/backend/internal/models"
)

type errorEnvelope struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func deleteAdmin(t *testing.T, h *Handler, caller *models.AdminUser, id string) (*httptest.ResponseRecorder, errorEnvelope) {
	t.Helper()
	req := httptest.NewRequest(http.MethodDelete, "/admin-management/admin-users/"+id, nil)
	req.SetPathValue("id", id)
	if caller != nil {
		req = req.WithContext(middleware.WithAdmin(req.Context(), caller))
	}
	rec := httptest.NewRecorder()
	h.DeleteAdminUser(rec, req)

	var env errorEnvelope
	_ = json.Unmarshal(rec.Body.Bytes(), &env)
	return rec, env
}

// The self-delete guard fires before any store access, so a handler without
// a repository is enough to pin the behavior.
func TestDeleteAdminUserSelfGuard(t *testing.T) {
	h := NewHandler(nil, nil, nil, nil, nil)
	caller := &models.AdminUser{ID: 7, Email: "alice@example.com"}

	rec, env := deleteAdmin(t, h, caller, "7")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if env.Error.Code != "CANNOT_DELETE_SELF" {
		t.Errorf("code = %q, want CANNOT_DELETE_SELF", env.Error.Code)
	}
}

func TestDeleteAdminUserBadID(t *testing.T) {
	h := NewHandler(nil, nil, nil, nil, nil)
	rec, env := deleteAdmin(t, h, &models.AdminUser{ID: 1}, "not-a-number")
	if rec.Code != http.StatusBadRequest || env.Error.Code != "VALIDATION_ERROR" {
		t.Errorf("got %d %q, want 400 VALIDATION_ERROR", rec.Code, env.Error.Code)
	}
}

func TestCreateProductValidation(t *testing.T) {
	h := NewHandler(nil, nil, nil, nil, nil)

	cases := []struct {
		name string
		body string
	}{
		{"missing fields", `{"name":"Mop"}`},
		{"negative price", `{"name":"Mop","price":-5,"category":"tools"}`},
		{"bad json", `{"name":`},
	}
	for _, c := range cases {
		req := httptest.NewRequest(http.MethodPost, "/admin-management/products",
			strings.NewReader(c.body))
		rec := httptest.NewRecorder()
		h.CreateProduct(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", c.name, rec.Code)
		}
	}
}

func TestCreateServiceValidation(t *testing.T) {
	h := NewHandler(nil, nil, nil, nil, nil)
	req := httptest.NewRequest(http.MethodPost, "/admin-management/services",
		strings.NewReader(`{"name":"Deep Clean"}`))
	rec := httptest.NewRecorder()
	h.CreateService(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}

	var env errorEnvelope
	_ = json.Unmarshal(rec.Body.Bytes(), &env)
	if env.Error.Code != "VALIDATION_ERROR" {
		t.Errorf("code = %q, want VALIDATION_ERROR", env.Error.Code)
	}
}

func TestUpdateSettingValidation(t *testing.T) {
	h := NewHandler(nil, nil, nil, nil, nil)

	req := httptest.NewRequest(http.MethodPut, "/admin-management/settings/site_title",
		strings.NewReader(`{"description":"no value"}`))
	req.SetPathValue("key", "site_title")
	rec := httptest.NewRecorder()
	h.UpdateSetting(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400 when setting_value is empty", rec.Code)
	}
}
