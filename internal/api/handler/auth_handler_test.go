package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/shipsphere/logistics-api/internal/core/domain"
	"github.com/shipsphere/logistics-api/internal/core/ports"
)

func TestAuthHandler_Register_Success(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, in ports.RegisterInput) (*ports.AuthResult, error) {
			if in.Email != "a@example.com" || in.CityID != "city-1" || in.FirstName != "Asha" {
				t.Fatalf("unexpected input: %+v", in)
			}
			return &ports.AuthResult{
				User:  &domain.User{ID: "u1", Email: in.Email, Role: domain.RoleUser},
				Token: "tok",
			}, nil
		},
	}
	c, rec := newContext(http.MethodPost, "/api/auth/register",
		`{"email":"a@example.com","password":"secret1","firstName":"Asha","lastName":"Rao","cityId":"city-1"}`, nil)

	if err := NewAuthHandler(stub).Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	expectStatus(t, rec, http.StatusCreated)

	resp := decodeEnvelope(t, rec)
	if resp["message"] != "User registered successfully" {
		t.Fatalf("unexpected message: %v", resp["message"])
	}
	data := resp["data"].(map[string]any)
	if data["token"] != "tok" {
		t.Fatalf("expected token in data, got %v", data)
	}
	user := data["user"].(map[string]any)
	if user["role"] != "USER" {
		t.Fatalf("unexpected user: %v", user)
	}
	if _, leaked := user["passwordHash"]; leaked {
		t.Fatalf("password hash must not be serialized")
	}
}

func TestAuthHandler_Register_ReportsAllInvalidFields(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, in ports.RegisterInput) (*ports.AuthResult, error) {
			t.Fatalf("service must not be called on invalid input")
			return nil, nil
		},
	}
	c, _ := newContext(http.MethodPost, "/api/auth/register", `{"email":"nope","password":"123"}`, nil)

	err := NewAuthHandler(stub).Register(c)
	ve := expectValidation(t, err, "email", "password", "firstName", "lastName", "cityId")

	want := []string{
		"Please provide a valid email",
		"Password must be at least 6 characters",
		"First name is required",
		"Last name is required",
		"City selection is required",
	}
	for i, msg := range want {
		if ve.Fields[i].Message != msg {
			t.Fatalf("field %s: expected %q, got %q", ve.Fields[i].Field, msg, ve.Fields[i].Message)
		}
	}
}

func TestAuthHandler_Register_PasswordTooLongForBcrypt(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, in ports.RegisterInput) (*ports.AuthResult, error) {
			t.Fatalf("service must not be called with an unhashable password")
			return nil, nil
		},
	}
	long := strings.Repeat("p", 80)
	c, _ := newContext(http.MethodPost, "/api/auth/register",
		`{"email":"a@example.com","password":"`+long+`","firstName":"A","lastName":"B","cityId":"c"}`, nil)

	ve := expectValidation(t, NewAuthHandler(stub).Register(c), "password")
	if ve.Fields[0].Message != "Password must be at most 72 bytes long" {
		t.Fatalf("unexpected message: %q", ve.Fields[0].Message)
	}
}

func TestAuthHandler_Register_PasswordAtBcryptLimit(t *testing.T) {
	called := false
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, in ports.RegisterInput) (*ports.AuthResult, error) {
			called = true
			return &ports.AuthResult{User: &domain.User{ID: "u1", Role: domain.RoleUser}, Token: "tok"}, nil
		},
	}
	// 24 three-byte runes: 72 bytes.
	pw := strings.Repeat("€", 24)
	c, rec := newContext(http.MethodPost, "/api/auth/register",
		`{"email":"a@example.com","password":"`+pw+`","firstName":"A","lastName":"B","cityId":"c"}`, nil)

	if err := NewAuthHandler(stub).Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	expectStatus(t, rec, http.StatusCreated)
	if !called {
		t.Fatalf("expected service call")
	}
}

func TestAuthHandler_Register_MalformedBody(t *testing.T) {
	c, _ := newContext(http.MethodPost, "/api/auth/register", `{"email":`, nil)

	err := NewAuthHandler(&stubAuthService{}).Register(c)
	ve := expectValidation(t, err, "body")
	if ve.Fields[0].Message != msgInvalidBody {
		t.Fatalf("unexpected message: %q", ve.Fields[0].Message)
	}
}

func TestAuthHandler_Register_PropagatesServiceError(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, in ports.RegisterInput) (*ports.AuthResult, error) {
			return nil, domain.ErrUserExists
		},
	}
	c, _ := newContext(http.MethodPost, "/api/auth/register",
		`{"email":"a@example.com","password":"secret1","firstName":"A","lastName":"B","cityId":"c"}`, nil)

	if err := NewAuthHandler(stub).Register(c); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestAuthHandler_Login(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, email, password string) (*ports.AuthResult, error) {
			if password != "secret1" {
				return nil, domain.ErrInvalidCredentials
			}
			return &ports.AuthResult{User: &domain.User{ID: "u1", Email: email}, Token: "tok"}, nil
		},
	}
	h := NewAuthHandler(stub)

	c, rec := newContext(http.MethodPost, "/api/auth/login", `{"email":"a@example.com","password":"secret1"}`, nil)
	if err := h.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	expectStatus(t, rec, http.StatusOK)
	if resp := decodeEnvelope(t, rec); resp["message"] != "Login successful" {
		t.Fatalf("unexpected message: %v", resp["message"])
	}

	c, _ = newContext(http.MethodPost, "/api/auth/login", `{"email":"a@example.com","password":"wrong"}`, nil)
	if err := h.Login(c); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}

	c, _ = newContext(http.MethodPost, "/api/auth/login", `{"email":"a@example.com"}`, nil)
	ve := expectValidation(t, h.Login(c), "password")
	if ve.Fields[0].Message != "Password is required" {
		t.Fatalf("unexpected message: %q", ve.Fields[0].Message)
	}
}

func TestAuthHandler_Profile_RequiresIdentity(t *testing.T) {
	c, _ := newContext(http.MethodGet, "/api/auth/profile", "", nil)

	err := NewAuthHandler(&stubAuthService{}).Profile(c)
	if err == nil {
		t.Fatalf("expected an error without identity")
	}
}

func TestAuthHandler_Profile(t *testing.T) {
	id := &domain.Identity{UserID: "u1", Role: domain.RoleUser}
	stub := &stubAuthService{
		profileFn: func(ctx context.Context, actor domain.Identity) (*domain.User, error) {
			if actor.UserID != "u1" {
				t.Fatalf("unexpected actor: %+v", actor)
			}
			return &domain.User{ID: "u1", FirstName: "Asha"}, nil
		},
	}
	c, rec := newContext(http.MethodGet, "/api/auth/profile", "", id)

	if err := NewAuthHandler(stub).Profile(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	expectStatus(t, rec, http.StatusOK)
	data := decodeEnvelope(t, rec)["data"].(map[string]any)
	if data["user"].(map[string]any)["firstName"] != "Asha" {
		t.Fatalf("unexpected data: %v", data)
	}
}

func TestAuthHandler_UpdateProfile(t *testing.T) {
	id := &domain.Identity{UserID: "u1", Role: domain.RoleUser}
	stub := &stubAuthService{
		updateProfileFn: func(ctx context.Context, actor domain.Identity, patch domain.UserPatch) (*domain.User, error) {
			if patch.FirstName == nil || *patch.FirstName != "Meera" {
				t.Fatalf("unexpected patch: %+v", patch)
			}
			if patch.LastName != nil || patch.CityID != nil {
				t.Fatalf("absent fields must stay nil: %+v", patch)
			}
			return &domain.User{ID: actor.UserID, FirstName: *patch.FirstName}, nil
		},
	}
	h := NewAuthHandler(stub)

	c, rec := newContext(http.MethodPut, "/api/auth/profile", `{"firstName":"Meera"}`, id)
	if err := h.UpdateProfile(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	expectStatus(t, rec, http.StatusOK)
	if resp := decodeEnvelope(t, rec); resp["message"] != "Profile updated successfully" {
		t.Fatalf("unexpected message: %v", resp["message"])
	}

	c, _ = newContext(http.MethodPut, "/api/auth/profile", `{"lastName":"","cityId":""}`, id)
	ve := expectValidation(t, h.UpdateProfile(c), "lastName", "cityId")
	if ve.Fields[0].Message != "Last name cannot be empty" || ve.Fields[1].Message != "City ID cannot be empty" {
		t.Fatalf("unexpected messages: %+v", ve.Fields)
	}
}
