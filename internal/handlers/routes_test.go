package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/andestrip/registration-api/internal/auth"
	"github.com/andestrip/registration-api/internal/choices"
	"github.com/andestrip/registration-api/internal/config"
	"github.com/andestrip/registration-api/internal/models"
	"github.com/andestrip/registration-api/internal/pricing"
	"github.com/andestrip/registration-api/internal/registration"
	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"
)

func setupServer(t *testing.T) (*httptest.Server, *gorm.DB) {
	t.Helper()
	db := setupDB(t)

	hash, err := auth.HashPassword("secret123")
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	db.Create(&models.RsvpRecord{Email: "ana@x.com", Name: "Ana", PasswordHash: hash, BasePrice: 1200})

	cfg := &config.Config{JWTSecret: "test-secret"}
	authHandler := auth.NewAuthHandler(cfg, db)
	engine := choices.NewEngine(db, nil, nil, nil, nil)
	store := registration.NewStore(db, nil, nil, nil)
	calc := pricing.NewCalculator(db, nil)

	r := chi.NewRouter()
	RegisterRoutes(r, authHandler, NewChoiceHandler(engine), NewRegistrationHandler(store), NewPricingHandler(calc), NewAdminHandler(engine))

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, db
}

func login(t *testing.T, srv *httptest.Server) *http.Cookie {
	t.Helper()
	resp, err := http.Post(srv.URL+"/auth/login", "application/json",
		strings.NewReader(`{"email":"ana@x.com","password":"secret123"}`))
	if err != nil {
		t.Fatalf("login request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 on login, got %d", resp.StatusCode)
	}
	for _, c := range resp.Cookies() {
		if c.Name == "auth_token" && c.Value != "" {
			return c
		}
	}
	t.Fatal("expected an auth_token cookie on login")
	return nil
}

func TestSessionCookieReachesProtectedRoutes(t *testing.T) {
	srv, _ := setupServer(t)

	// Without a session the protected surface fails closed.
	resp, err := http.Get(srv.URL + "/me")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 without cookie, got %d", resp.StatusCode)
	}

	cookie := login(t, srv)

	req, _ := http.NewRequest("GET", srv.URL+"/me", nil)
	req.AddCookie(cookie)
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 on /me with session cookie, got %d", resp.StatusCode)
	}

	var me struct {
		Email string `json:"email"`
		Name  string `json:"name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&me); err != nil {
		t.Fatalf("failed to decode /me response: %v", err)
	}
	if me.Email != "ana@x.com" {
		t.Errorf("expected the logged-in traveler, got %q", me.Email)
	}
}

func TestRecordChoiceOverHTTP(t *testing.T) {
	srv, db := setupServer(t)
	cookie := login(t, srv)

	req, _ := http.NewRequest("POST", srv.URL+"/choices",
		strings.NewReader(`{"item_key":"tango-night","option":"tango","choice":"yes"}`))
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(cookie)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 recording a choice, got %d", resp.StatusCode)
	}

	var event models.ChoiceEvent
	if err := db.Where("email = ?", "ana@x.com").First(&event).Error; err != nil {
		t.Fatalf("expected the choice in the log: %v", err)
	}
	if event.Value != 25 {
		t.Errorf("expected tango price 25, got %d", event.Value)
	}

	// Identity comes from the session, so the duplicate check bites
	// over HTTP too.
	req, _ = http.NewRequest("POST", srv.URL+"/choices",
		strings.NewReader(`{"item_key":"tango-night","option":"tango","choice":"no"}`))
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(cookie)
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("expected 409 on duplicate choice, got %d", resp.StatusCode)
	}
}

func TestSlidingSessionOverHTTP(t *testing.T) {
	srv, _ := setupServer(t)

	signed := func(expIn time.Duration) string {
		claims := jwt.MapClaims{
			"email": "ana@x.com",
			"exp":   time.Now().Add(expIn).Unix(),
		}
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
		s, _ := token.SignedString([]byte("test-secret"))
		return s
	}

	t.Run("TokenRenewed", func(t *testing.T) {
		// Expires in 11 hours, less than TokenDuration/2 = 12 hours.
		req, _ := http.NewRequest("GET", srv.URL+"/me", nil)
		req.AddCookie(&http.Cookie{Name: "auth_token", Value: signed(11 * time.Hour)})
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("expected 200, got %d", resp.StatusCode)
		}
		found := false
		for _, c := range resp.Cookies() {
			if c.Name == "auth_token" && c.Value != "" {
				found = true
			}
		}
		if !found {
			t.Error("expected a refreshed auth_token cookie")
		}
	})

	t.Run("TokenNotRenewed", func(t *testing.T) {
		// Expires in 13 hours, more than TokenDuration/2.
		req, _ := http.NewRequest("GET", srv.URL+"/me", nil)
		req.AddCookie(&http.Cookie{Name: "auth_token", Value: signed(13 * time.Hour)})
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("expected 200, got %d", resp.StatusCode)
		}
		for _, c := range resp.Cookies() {
			if c.Name == "auth_token" {
				t.Error("did not expect a refreshed auth_token cookie")
			}
		}
	})

	t.Run("InvalidToken", func(t *testing.T) {
		req, _ := http.NewRequest("GET", srv.URL+"/me", nil)
		req.AddCookie(&http.Cookie{Name: "auth_token", Value: "garbage"})
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusUnauthorized {
			t.Errorf("expected 401 for a bad token, got %d", resp.StatusCode)
		}
	})
}
