package auth

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/andestrip/registration-api/internal/config"
	"github.com/andestrip/registration-api/internal/models"
	"github.com/danielgtaylor/huma/v2"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const TokenDuration = 24 * time.Hour

// ErrInvalidCredentials covers every authentication failure: unknown
// email, missing password, missing stored hash, mismatch. Callers
// never learn which.
var ErrInvalidCredentials = errors.New("invalid credentials")

type AuthHandler struct {
	db  *gorm.DB
	cfg *config.Config
}

func NewAuthHandler(cfg *config.Config, db *gorm.DB) *AuthHandler {
	return &AuthHandler{db: db, cfg: cfg}
}

// Validate checks traveler credentials against the RSVP roster. Fails
// closed: an empty password or an RSVP row without a hash never
// authenticates.
func (h *AuthHandler) Validate(ctx context.Context, email, password string) (models.RsvpRecord, error) {
	norm := models.NormalizeKey(email)
	if norm == "" || password == "" {
		return models.RsvpRecord{}, ErrInvalidCredentials
	}

	var rsvp models.RsvpRecord
	err := h.db.WithContext(ctx).Where("email = ?", norm).First(&rsvp).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.RsvpRecord{}, ErrInvalidCredentials
		}
		return models.RsvpRecord{}, err
	}

	if rsvp.PasswordHash == "" {
		return models.RsvpRecord{}, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(rsvp.PasswordHash), []byte(password)) != nil {
		return models.RsvpRecord{}, ErrInvalidCredentials
	}

	return rsvp, nil
}

// HashPassword returns a bcrypt hash for seeding RSVP rows.
func HashPassword(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

type LoginRequest struct {
	Body struct {
		Email    string `json:"email" doc:"Email on the RSVP roster"`
		Password string `json:"password" doc:"Password from the invite"`
	}
}

type LoginResponse struct {
	SetCookie http.Cookie `header:"Set-Cookie"`
	Body      struct {
		Message string `json:"message"`
		Name    string `json:"name"`
	}
}

func (h *AuthHandler) HandleLogin(ctx context.Context, input *LoginRequest) (*LoginResponse, error) {
	rsvp, err := h.Validate(ctx, input.Body.Email, input.Body.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			return nil, huma.Error401Unauthorized("Invalid email or password")
		}
		return nil, huma.Error500InternalServerError("Failed to validate credentials")
	}

	token, err := h.GenerateToken(rsvp.Email)
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to generate token")
	}

	res := &LoginResponse{
		SetCookie: http.Cookie{
			Name:     "auth_token",
			Value:    token,
			Expires:  time.Now().Add(TokenDuration),
			HttpOnly: true,
			Path:     "/",
		},
	}
	res.Body.Message = "Logged in"
	res.Body.Name = rsvp.Name
	return res, nil
}

type MeResponse struct {
	Body struct {
		Email     string `json:"email"`
		Name      string `json:"name"`
		PartySize int    `json:"party_size"`
		BasePrice int    `json:"base_price"`
	}
}

func (h *AuthHandler) HandleMe(ctx context.Context, input *struct{}) (*MeResponse, error) {
	email, ok := ctx.Value(EmailKey).(string)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	var rsvp models.RsvpRecord
	if err := h.db.WithContext(ctx).Where("email = ?", email).First(&rsvp).Error; err != nil {
		return nil, huma.Error404NotFound("No RSVP record for " + email)
	}

	res := &MeResponse{}
	res.Body.Email = rsvp.Email
	res.Body.Name = rsvp.Name
	res.Body.PartySize = rsvp.PartySize
	res.Body.BasePrice = rsvp.BasePrice
	return res, nil
}

func (h *AuthHandler) GenerateToken(email string) (string, error) {
	claims := jwt.MapClaims{
		"email": models.NormalizeKey(email),
		"exp":   time.Now().Add(TokenDuration).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.cfg.JWTSecret))
}
