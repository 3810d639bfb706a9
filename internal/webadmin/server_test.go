package webadmin

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"github.com/hvtran/accounting-bot/constants"
	"github.com/hvtran/accounting-bot/internal/common"
	"github.com/hvtran/accounting-bot/internal/entity"
	"github.com/hvtran/accounting-bot/internal/export"
	"github.com/hvtran/accounting-bot/internal/repository"
)

func newTestServer(t *testing.T) (*Server, *repository.InvoiceRepository, *repository.UserRepository) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := repository.Open(context.Background(), repository.Config{DSN: ":memory:", MaxOpenConns: 1}, nil)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(db.Close)

	invoices := repository.NewInvoiceRepository(db, nil)
	users := repository.NewUserRepository(db, nil)
	exporter := export.NewService(invoices, nil)

	hash, err := bcrypt.GenerateFromPassword([]byte("secret"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	cfg := common.AdminConfig{
		Username:           "admin",
		PasswordBcryptHash: string(hash),
		JWTSecret:          "test-signing-key",
		TokenTTL:           time.Hour,
	}
	return NewServer(cfg, invoices, users, exporter, nil), invoices, users
}

func login(t *testing.T, router http.Handler, username, password string) (string, int) {
	t.Helper()
	body, _ := json.Marshal(map[string]string{"username": username, "password": password})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		return "", w.Code
	}
	var resp struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode login response: %v", err)
	}
	return resp.Token, w.Code
}

func TestLogin(t *testing.T) {
	s, _, _ := newTestServer(t)
	router := s.Router()

	token, code := login(t, router, "admin", "secret")
	if code != http.StatusOK || token == "" {
		t.Fatalf("valid login failed: code=%d", code)
	}

	if _, code := login(t, router, "admin", "wrong"); code != http.StatusUnauthorized {
		t.Errorf("bad password: code=%d, want 401", code)
	}
	if _, code := login(t, router, "other", "secret"); code != http.StatusUnauthorized {
		t.Errorf("bad username: code=%d, want 401", code)
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	s, _, _ := newTestServer(t)
	router := s.Router()

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/dashboard", nil))
	if w.Code != http.StatusUnauthorized {
		t.Errorf("no token: code=%d, want 401", w.Code)
	}

	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/dashboard", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	router.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("garbage token: code=%d, want 401", w.Code)
	}
}

func TestDashboardAndApproveFlow(t *testing.T) {
	s, invoices, _ := newTestServer(t)
	router := s.Router()
	ctx := context.Background()

	inv := &entity.Invoice{
		InvoiceNumber: "HD-web-1",
		InvoiceDate:   time.Date(2024, 12, 5, 0, 0, 0, 0, time.UTC),
		SupplierName:  "Công ty ABC",
		TotalAmount:   500000,
	}
	if err := invoices.Create(ctx, inv); err != nil {
		t.Fatalf("create: %v", err)
	}

	token, _ := login(t, router, "admin", "secret")
	authed := func(method, path string, body []byte) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(method, path, bytes.NewReader(body))
		req.Header.Set("Authorization", "Bearer "+token)
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)
		return w
	}

	w := authed(http.MethodGet, "/api/dashboard", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("dashboard: code=%d", w.Code)
	}
	var dash struct {
		Invoices struct {
			Total   int64 `json:"total"`
			Pending int64 `json:"pending"`
		} `json:"invoices"`
		Categories []string `json:"categories"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &dash); err != nil {
		t.Fatalf("decode dashboard: %v", err)
	}
	if dash.Invoices.Total != 1 || dash.Invoices.Pending != 1 {
		t.Errorf("dashboard counts: %+v", dash.Invoices)
	}
	if len(dash.Categories) != len(constants.AllCategories()) {
		t.Errorf("categories = %d, want %d", len(dash.Categories), len(constants.AllCategories()))
	}
	if len(dash.Categories) > 0 && dash.Categories[len(dash.Categories)-1] != string(constants.CategoryKhac) {
		t.Errorf("fallback category should close the list, got %q", dash.Categories[len(dash.Categories)-1])
	}

	w = authed(http.MethodPost, "/api/invoices/1/approve", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("approve: code=%d body=%s", w.Code, w.Body.String())
	}

	got, err := invoices.GetByID(ctx, inv.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != constants.StatusApproved {
		t.Errorf("status = %q, want approved", got.Status)
	}
	if got.ApprovedByUsername != "admin" {
		t.Errorf("approver = %q, want admin", got.ApprovedByUsername)
	}

	// second approve must conflict
	w = authed(http.MethodPost, "/api/invoices/1/approve", nil)
	if w.Code != http.StatusConflict {
		t.Errorf("double approve: code=%d, want 409", w.Code)
	}
}

func TestRejectRequiresReason(t *testing.T) {
	s, invoices, _ := newTestServer(t)
	router := s.Router()
	ctx := context.Background()

	inv := &entity.Invoice{InvoiceNumber: "HD-web-2", InvoiceDate: time.Now(), TotalAmount: 100}
	if err := invoices.Create(ctx, inv); err != nil {
		t.Fatalf("create: %v", err)
	}
	token, _ := login(t, router, "admin", "secret")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/invoices/1/reject", bytes.NewReader([]byte(`{}`)))
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("missing reason: code=%d, want 400", w.Code)
	}

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/api/invoices/1/reject",
		bytes.NewReader([]byte(`{"reason":"Hóa đơn mờ"}`)))
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("reject: code=%d body=%s", w.Code, w.Body.String())
	}

	got, _ := invoices.GetByID(ctx, inv.ID)
	if got.Status != constants.StatusRejected || got.RejectionReason != "Hóa đơn mờ" {
		t.Errorf("rejection not recorded: %+v", got)
	}
}

func TestSetRole(t *testing.T) {
	s, _, users := newTestServer(t)
	router := s.Router()
	ctx := context.Background()

	if _, err := users.UpsertFromTelegram(ctx, 1001, "hoa", "Hoa", ""); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	token, _ := login(t, router, "admin", "secret")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/users/1001/role",
		bytes.NewReader([]byte(`{"role":"accountant"}`)))
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("set role: code=%d body=%s", w.Code, w.Body.String())
	}

	u, err := users.GetByTelegramID(ctx, 1001)
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if u.Role != constants.RoleAccountant {
		t.Errorf("role = %q, want accountant", u.Role)
	}

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/api/users/1001/role",
		bytes.NewReader([]byte(`{"role":"superuser"}`)))
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("bad role: code=%d, want 400", w.Code)
	}
}
