package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/shipsphere/logistics-api/internal/core/domain"
	"github.com/shipsphere/logistics-api/internal/core/ports"
)

func newAuthFixture() (*AuthService, *stubUserRepo, *stubCityRepo) {
	users := newStubUserRepo()
	cities := newStubCityRepo()
	cities.put(&domain.City{ID: "city-mumbai", Name: "Mumbai", State: "Maharashtra", PricePerKg: decimal.RequireFromString("25.50"), IsActive: true})
	cities.put(&domain.City{ID: "city-closed", Name: "Closedville", State: "Nowhere", PricePerKg: decimal.NewFromInt(10), IsActive: false})
	svc := NewAuthService(users, cities, stubHasher{}, stubTokens{}, zerolog.Nop())
	return svc, users, cities
}

func validRegistration() ports.RegisterInput {
	return ports.RegisterInput{
		Email:     "a@x.io",
		Password:  "secret1",
		FirstName: "A",
		LastName:  "B",
		CityID:    "city-mumbai",
	}
}

func TestAuthService_Register_Success(t *testing.T) {
	svc, users, _ := newAuthFixture()

	res, err := svc.Register(context.Background(), validRegistration())
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if res.Token == "" {
		t.Fatalf("expected token, got empty")
	}
	if res.User.Role != domain.RoleUser {
		t.Fatalf("expected role USER, got %s", res.User.Role)
	}
	if res.User.City == nil || res.User.City.Name != "Mumbai" || res.User.City.PricePerKg.String() != "25.5" {
		t.Fatalf("unexpected city summary: %+v", res.User.City)
	}
	if res.User.ID == "" {
		t.Fatalf("expected generated id")
	}

	stored, err := users.FindByEmail(context.Background(), "a@x.io")
	if err != nil {
		t.Fatalf("user not stored: %v", err)
	}
	if stored.PasswordHash == "secret1" {
		t.Fatalf("expected password to be hashed")
	}
}

func TestAuthService_Register_Duplicate(t *testing.T) {
	svc, users, _ := newAuthFixture()

	if _, err := svc.Register(context.Background(), validRegistration()); err != nil {
		t.Fatalf("first register failed: %v", err)
	}
	if _, err := svc.Register(context.Background(), validRegistration()); err != domain.ErrUserExists {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
	if len(users.byID) != 1 {
		t.Fatalf("expected exactly one user, got %d", len(users.byID))
	}
}

func TestAuthService_Register_RaceSurfacesAsDuplicate(t *testing.T) {
	svc, users, _ := newAuthFixture()
	users.createErr = domain.ErrUserExists

	if _, err := svc.Register(context.Background(), validRegistration()); err != domain.ErrUserExists {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestAuthService_Register_CityUnavailable(t *testing.T) {
	svc, users, _ := newAuthFixture()

	for _, cityID := range []string{"city-closed", "missing"} {
		in := validRegistration()
		in.CityID = cityID
		if _, err := svc.Register(context.Background(), in); err != domain.ErrCityUnavailable {
			t.Fatalf("%s: expected ErrCityUnavailable, got %v", cityID, err)
		}
	}
	if len(users.byID) != 0 {
		t.Fatalf("expected no user to be created")
	}
}

func TestAuthService_Register_HashFailure(t *testing.T) {
	users := newStubUserRepo()
	cities := newStubCityRepo()
	cities.put(&domain.City{ID: "c1", Name: "Pune", IsActive: true})
	boom := errors.New("boom")
	svc := NewAuthService(users, cities, stubHasher{err: boom}, stubTokens{}, zerolog.Nop())

	in := validRegistration()
	in.CityID = "c1"
	if _, err := svc.Register(context.Background(), in); !errors.Is(err, boom) {
		t.Fatalf("expected hash error, got %v", err)
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	svc, _, _ := newAuthFixture()
	reg, _ := svc.Register(context.Background(), validRegistration())

	res, err := svc.Login(context.Background(), "a@x.io", "secret1")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if res.User.ID != reg.User.ID {
		t.Fatalf("expected user %s, got %s", reg.User.ID, res.User.ID)
	}
	if res.Token != "token:"+reg.User.ID+":USER" {
		t.Fatalf("unexpected token %q", res.Token)
	}
}

func TestAuthService_Login_FailuresAreIdentical(t *testing.T) {
	svc, _, _ := newAuthFixture()
	_, _ = svc.Register(context.Background(), validRegistration())

	_, wrongPassword := svc.Login(context.Background(), "a@x.io", "nope")
	_, unknownEmail := svc.Login(context.Background(), "ghost@x.io", "secret1")

	if wrongPassword != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", wrongPassword)
	}
	if unknownEmail != wrongPassword {
		t.Fatalf("expected identical errors, got %v and %v", unknownEmail, wrongPassword)
	}
}

func TestAuthService_Profile(t *testing.T) {
	svc, users, _ := newAuthFixture()
	reg, _ := svc.Register(context.Background(), validRegistration())
	actor := domain.Identity{UserID: reg.User.ID, Email: reg.User.Email, Role: domain.RoleUser}

	user, err := svc.Profile(context.Background(), actor)
	if err != nil {
		t.Fatalf("profile failed: %v", err)
	}
	if user.Email != "a@x.io" {
		t.Fatalf("unexpected user: %+v", user)
	}

	_ = users.Delete(context.Background(), reg.User.ID)
	if _, err := svc.Profile(context.Background(), actor); err != domain.ErrUserNotFound {
		t.Fatalf("expected ErrUserNotFound after delete, got %v", err)
	}
}

func TestAuthService_UpdateProfile(t *testing.T) {
	svc, _, cities := newAuthFixture()
	cities.put(&domain.City{ID: "city-pune", Name: "Pune", IsActive: true, CreatedAt: time.Now()})
	reg, _ := svc.Register(context.Background(), validRegistration())
	actor := domain.Identity{UserID: reg.User.ID, Role: domain.RoleUser}

	name := "Alice"
	pune := "city-pune"
	user, err := svc.UpdateProfile(context.Background(), actor, domain.UserPatch{FirstName: &name, CityID: &pune})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if user.FirstName != "Alice" || user.LastName != "B" {
		t.Fatalf("unexpected names: %s %s", user.FirstName, user.LastName)
	}
	if user.CityID == nil || *user.CityID != "city-pune" {
		t.Fatalf("expected city-pune, got %v", user.CityID)
	}

	closed := "city-closed"
	if _, err := svc.UpdateProfile(context.Background(), actor, domain.UserPatch{CityID: &closed}); err != domain.ErrCityUnavailable {
		t.Fatalf("expected ErrCityUnavailable, got %v", err)
	}
}

func TestAuthService_UpdateProfile_EmptyPatchReturnsCurrent(t *testing.T) {
	svc, _, _ := newAuthFixture()
	reg, _ := svc.Register(context.Background(), validRegistration())

	user, err := svc.UpdateProfile(context.Background(), domain.Identity{UserID: reg.User.ID}, domain.UserPatch{})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if user.ID != reg.User.ID {
		t.Fatalf("unexpected user: %+v", user)
	}
}
