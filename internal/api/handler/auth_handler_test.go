package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/tbp-ucsd/membership-api/internal/core/domain"
	"github.com/tbp-ucsd/membership-api/internal/core/ports"
)

func TestAuthHandler_Register_Success(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(_ context.Context, in ports.RegisterInput) (*domain.Account, error) {
			if in.Email != "ada@example.com" || in.Role != domain.RoleInitiate || in.FirstName != "Ada" {
				t.Fatalf("unexpected input: %+v", in)
			}
			return &domain.Account{
				ID:           "acc-1",
				Email:        in.Email,
				FirstName:    in.FirstName,
				LastName:     in.LastName,
				PasswordHash: "$2a$hash",
				IsValid:      true,
				RoleID:       4,
				Role:         &domain.Role{ID: 4, Name: domain.RoleInitiate},
			}, nil
		},
	}
	h := NewAuthHandler(stub)

	c, rec := newContext(http.MethodPost, "/auth/register", strings.NewReader(
		`{"email":"ada@example.com","password":"secret1","first_name":"Ada","last_name":"Lovelace","role":"initiate"}`))

	if err := h.Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	for _, hidden := range []string{"password_hash", "PasswordHash", "role_id", "RoleID", "is_valid", "IsValid"} {
		if _, ok := resp[hidden]; ok {
			t.Errorf("response leaks %q: %v", hidden, resp)
		}
	}
	if _, ok := resp["full_name"]; ok {
		t.Error("full_name must only be present on request")
	}
	role, ok := resp["role"].(map[string]any)
	if !ok || role["name"] != domain.RoleInitiate {
		t.Errorf("unexpected role payload: %v", resp["role"])
	}
}

func TestAuthHandler_Register_UnsafeRoleRejectedBeforeService(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(context.Context, ports.RegisterInput) (*domain.Account, error) {
			t.Fatalf("service must not be called")
			return nil, nil
		},
	}
	h := NewAuthHandler(stub)

	tests := []struct {
		name    string
		role    string
		wantMsg string
	}{
		{"admin", `"admin"`, "role must be initiate or pending"},
		{"member", `"member"`, "role must be initiate or pending"},
		{"officer", `"officer"`, "role must be initiate or pending"},
		{"empty", `""`, "role is required"},
		{"null", `null`, "role is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newContext(http.MethodPost, "/auth/register", strings.NewReader(
				`{"email":"eve@example.com","password":"secret1","first_name":"Eve","last_name":"X","role":`+tt.role+`}`))

			err := h.Register(c)
			if httpCode(err) != http.StatusUnprocessableEntity {
				t.Fatalf("expected 422, got %v", err)
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("unexpected message: %v", err)
			}
		})
	}
}

func TestAuthHandler_Register_MissingFields(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{})

	c, _ := newContext(http.MethodPost, "/auth/register", strings.NewReader(`{"role":"pending"}`))

	err := h.Register(c)
	if httpCode(err) != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %v", err)
	}
	for _, field := range []string{"email", "first_name", "last_name"} {
		if !strings.Contains(err.Error(), field+" is required") {
			t.Errorf("expected %q to be reported, got %v", field, err)
		}
	}
}

func TestAuthHandler_Register_PasswordLimitCountsBytes(t *testing.T) {
	called := false
	h := NewAuthHandler(&stubAuthService{
		registerFn: func(context.Context, ports.RegisterInput) (*domain.Account, error) {
			called = true
			return nil, nil
		},
	})

	body := `{"email":"ada@example.com","password":"` + strings.Repeat("é", 72) +
		`","first_name":"Ada","last_name":"Lovelace","role":"pending"}`
	c, _ := newContext(http.MethodPost, "/auth/register", strings.NewReader(body))

	err := h.Register(c)
	if httpCode(err) != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %v", err)
	}
	if !strings.Contains(err.Error(), "password must be at most 72 bytes") {
		t.Errorf("unexpected message: %v", err)
	}
	if called {
		t.Error("service must not be called for an oversized password")
	}
}

func TestAuthHandler_Register_InvalidPayload(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{})

	c, _ := newContext(http.MethodPost, "/auth/register", strings.NewReader("not-json"))

	if err := h.Register(c); httpCode(err) != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestAuthHandler_Register_ConflictPassesThrough(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(context.Context, ports.RegisterInput) (*domain.Account, error) {
			return nil, domain.ErrEmailTaken
		},
	}
	h := NewAuthHandler(stub)

	c, _ := newContext(http.MethodPost, "/auth/register", strings.NewReader(
		`{"email":"bob@example.com","first_name":"Bob","last_name":"B","role":"pending"}`))

	if err := h.Register(c); !errors.Is(err, domain.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestAuthHandler_Login_Success(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(_ context.Context, email, password string) (string, *domain.Account, error) {
			if email != "alice@example.com" || password != "secret" {
				t.Fatalf("unexpected args: %s %s", email, password)
			}
			return "token123", &domain.Account{ID: "acc-1", Email: email, Role: &domain.Role{ID: 1, Name: domain.RoleAdmin}}, nil
		},
	}
	h := NewAuthHandler(stub)

	c, rec := newContext(http.MethodPost, "/auth/login", strings.NewReader(`{"email":"alice@example.com","password":"secret"}`))

	if err := h.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp struct {
		Token string `json:"token"`
		User  struct {
			ID   string `json:"id"`
			Role struct {
				Name string `json:"name"`
			} `json:"role"`
		} `json:"user"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Token != "token123" || resp.User.ID != "acc-1" || resp.User.Role.Name != domain.RoleAdmin {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestAuthHandler_Login_Rejected(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(context.Context, string, string) (string, *domain.Account, error) {
			return "", nil, domain.ErrAccountNotVerified
		},
	}
	h := NewAuthHandler(stub)

	c, _ := newContext(http.MethodPost, "/auth/login", strings.NewReader(`{"email":"new@example.com","password":"x"}`))

	if err := h.Login(c); err != domain.ErrAccountNotVerified {
		t.Fatalf("expected ErrAccountNotVerified, got %v", err)
	}
}

func TestAuthHandler_Me(t *testing.T) {
	stub := &stubAuthService{
		currentFn: func(_ context.Context, id string) (*domain.Account, error) {
			if id != "acc-7" {
				return nil, domain.ErrAccountNotFound
			}
			return &domain.Account{ID: id, Email: "me@example.com"}, nil
		},
	}
	h := NewAuthHandler(stub)

	c, rec := newContext(http.MethodGet, "/auth/me", nil)
	withActor(c, "acc-7", domain.RoleMember)
	if err := h.Me(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "me@example.com") {
		t.Fatalf("unexpected response %d: %s", rec.Code, rec.Body.String())
	}

	c, _ = newContext(http.MethodGet, "/auth/me", nil)
	if err := h.Me(c); httpCode(err) != http.StatusUnauthorized {
		t.Fatalf("expected 401 without claims, got %v", err)
	}
}

func TestLoginResult(t *testing.T) {
	tests := map[error]string{
		nil:                          "success",
		domain.ErrInvalidCredentials: "invalid_credentials",
		domain.ErrAccountNotVerified: "not_verified",
		domain.ErrLoginThrottled:     "throttled",
		errors.New("boom"):           "error",
	}
	for err, want := range tests {
		if got := loginResult(err); got != want {
			t.Errorf("loginResult(%v) = %q, want %q", err, got, want)
		}
	}
}
