package http

import (
	"net/http"
	"testing"

	"github.com/vovakirdan/skillhub/internal/api"
)

func TestRegisterAndLogin(t *testing.T) {
	s := newTestServer(t)

	var registered api.AuthResponse
	code := s.do(t, http.MethodPost, "/api/auth/register", "", api.RegisterRequest{
		Firstname: "Ada",
		Lastname:  "Lovelace",
		Email:     "Ada@Example.com",
		Password:  "secret1",
	}, &registered)
	if code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", code)
	}
	if registered.Token == "" || registered.User == nil {
		t.Fatalf("expected token and user, got %+v", registered)
	}
	if registered.User.Email != "ada@example.com" {
		t.Errorf("expected normalized email, got %q", registered.User.Email)
	}
	if registered.User.Name != "Ada Lovelace" {
		t.Errorf("expected display name, got %q", registered.User.Name)
	}

	code = s.do(t, http.MethodPost, "/api/auth/register", "", api.RegisterRequest{
		Email:    "ada@example.com",
		Password: "secret1",
	}, nil)
	if code != http.StatusConflict {
		t.Errorf("duplicate register: expected 409, got %d", code)
	}

	var loggedIn api.AuthResponse
	code = s.do(t, http.MethodPost, "/api/auth/login", "", api.LoginRequest{
		Email:    "ada@example.com",
		Password: "secret1",
	}, &loggedIn)
	if code != http.StatusOK {
		t.Fatalf("login: expected 200, got %d", code)
	}
	if loggedIn.User == nil || loggedIn.User.ID != registered.User.ID {
		t.Errorf("login returned wrong user: %+v", loggedIn.User)
	}

	code = s.do(t, http.MethodPost, "/api/auth/login", "", api.LoginRequest{
		Email:    "ada@example.com",
		Password: "wrong-password",
	}, nil)
	if code != http.StatusUnauthorized {
		t.Errorf("bad password: expected 401, got %d", code)
	}
}

func TestRegisterValidation(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name string
		req  api.RegisterRequest
	}{
		{name: "bad email", req: api.RegisterRequest{Email: "nope", Password: "secret1"}},
		{name: "short password", req: api.RegisterRequest{Email: "a@b.c", Password: "123"}},
		{name: "missing fields", req: api.RegisterRequest{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if code := s.do(t, http.MethodPost, "/api/auth/register", "", tt.req, nil); code != http.StatusBadRequest {
				t.Errorf("expected 400, got %d", code)
			}
		})
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name  string
		token string
	}{
		{name: "missing", token: ""},
		{name: "garbage", token: "not-a-jwt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if code := s.do(t, http.MethodGet, "/api/auth/users/1", tt.token, nil, nil); code != http.StatusUnauthorized {
				t.Errorf("expected 401, got %d", code)
			}
		})
	}
}
