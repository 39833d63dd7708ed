package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/shipsphere/logistics-api/internal/api/middleware"
	"github.com/shipsphere/logistics-api/internal/core/domain"
	"github.com/shipsphere/logistics-api/internal/core/ports"
)

type stubAuthService struct {
	registerFn      func(ctx context.Context, in ports.RegisterInput) (*ports.AuthResult, error)
	loginFn         func(ctx context.Context, email, password string) (*ports.AuthResult, error)
	profileFn       func(ctx context.Context, actor domain.Identity) (*domain.User, error)
	updateProfileFn func(ctx context.Context, actor domain.Identity, patch domain.UserPatch) (*domain.User, error)
}

func (s *stubAuthService) Register(ctx context.Context, in ports.RegisterInput) (*ports.AuthResult, error) {
	return s.registerFn(ctx, in)
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (*ports.AuthResult, error) {
	return s.loginFn(ctx, email, password)
}

func (s *stubAuthService) Profile(ctx context.Context, actor domain.Identity) (*domain.User, error) {
	return s.profileFn(ctx, actor)
}

func (s *stubAuthService) UpdateProfile(ctx context.Context, actor domain.Identity, patch domain.UserPatch) (*domain.User, error) {
	return s.updateProfileFn(ctx, actor, patch)
}

type stubCityService struct {
	listActiveFn func(ctx context.Context) ([]*domain.City, error)
	listAllFn    func(ctx context.Context) ([]*domain.CityWithCount, error)
	getFn        func(ctx context.Context, id string) (*domain.CityWithCount, error)
	createFn     func(ctx context.Context, in ports.CreateCityInput) (*domain.City, error)
	updateFn     func(ctx context.Context, id string, patch domain.CityPatch) (*domain.City, error)
	deleteFn     func(ctx context.Context, id string) (domain.DeleteOutcome, error)
}

func (s *stubCityService) ListActive(ctx context.Context) ([]*domain.City, error) {
	return s.listActiveFn(ctx)
}

func (s *stubCityService) ListAll(ctx context.Context) ([]*domain.CityWithCount, error) {
	return s.listAllFn(ctx)
}

func (s *stubCityService) Get(ctx context.Context, id string) (*domain.CityWithCount, error) {
	return s.getFn(ctx, id)
}

func (s *stubCityService) Create(ctx context.Context, in ports.CreateCityInput) (*domain.City, error) {
	return s.createFn(ctx, in)
}

func (s *stubCityService) Update(ctx context.Context, id string, patch domain.CityPatch) (*domain.City, error) {
	return s.updateFn(ctx, id, patch)
}

func (s *stubCityService) Delete(ctx context.Context, id string) (domain.DeleteOutcome, error) {
	return s.deleteFn(ctx, id)
}

type stubUserService struct {
	listFn       func(ctx context.Context, in ports.ListUsersInput) (*ports.ListUsersResult, error)
	getFn        func(ctx context.Context, id string) (*domain.User, error)
	updateRoleFn func(ctx context.Context, actor domain.Identity, id, role string) (*domain.User, error)
	deleteFn     func(ctx context.Context, actor domain.Identity, id string) error
	statsFn      func(ctx context.Context) (*ports.UserStats, error)
}

func (s *stubUserService) List(ctx context.Context, in ports.ListUsersInput) (*ports.ListUsersResult, error) {
	return s.listFn(ctx, in)
}

func (s *stubUserService) Get(ctx context.Context, id string) (*domain.User, error) {
	return s.getFn(ctx, id)
}

func (s *stubUserService) UpdateRole(ctx context.Context, actor domain.Identity, id, role string) (*domain.User, error) {
	return s.updateRoleFn(ctx, actor, id, role)
}

func (s *stubUserService) Delete(ctx context.Context, actor domain.Identity, id string) error {
	return s.deleteFn(ctx, actor, id)
}

func (s *stubUserService) Stats(ctx context.Context) (*ports.UserStats, error) {
	return s.statsFn(ctx)
}

// newContext builds an echo context for a JSON request. A non-empty actor
// is attached as the authenticated identity.
func newContext(method, target, body string, actor *domain.Identity) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()

	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if actor != nil {
		req = req.WithContext(middleware.WithIdentity(req.Context(), *actor))
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["success"] != true {
		t.Fatalf("expected success=true, got %v", resp)
	}
	return resp
}

func expectValidation(t *testing.T, err error, fields ...string) *domain.ValidationError {
	t.Helper()
	ve, ok := err.(*domain.ValidationError)
	if !ok {
		t.Fatalf("expected *domain.ValidationError, got %T (%v)", err, err)
	}
	if len(ve.Fields) != len(fields) {
		t.Fatalf("expected %d field errors, got %+v", len(fields), ve.Fields)
	}
	for i, f := range fields {
		if ve.Fields[i].Field != f {
			t.Fatalf("field %d: expected %q, got %q", i, f, ve.Fields[i].Field)
		}
	}
	return ve
}

func expectStatus(t *testing.T, rec *httptest.ResponseRecorder, code int) {
	t.Helper()
	if rec.Code != code {
		t.Fatalf("expected %d, got %d: %s", code, rec.Code, rec.Body.String())
	}
}

