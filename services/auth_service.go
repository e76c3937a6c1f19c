package services

import (
	"context"
	"errors"
	"time"

	"mlb-streak-go/models"

	"github.com/golang-jwt/jwt/v5"
)

// AuthService issues and validates the bearer tokens that identify users on
// the pick commands.
type AuthService struct {
	profileRepo ProfileRepository
	jwtSecret   []byte
	tokenExpiry time.Duration
}

// JWTClaims represents the claims in our JWT token
type JWTClaims struct {
	UserID      string `json:"user_id"`
	DisplayName string `json:"display_name"`
	jwt.RegisteredClaims
}

// NewAuthService creates a new authentication service
func NewAuthService(profileRepo ProfileRepository, jwtSecret string) *AuthService {
	return &AuthService{
		profileRepo: profileRepo,
		jwtSecret:   []byte(jwtSecret),
		tokenExpiry: 24 * 30 * time.Hour, // Token expires in 30 days
	}
}

// Login authenticates a user and returns a JWT token
func (a *AuthService) Login(ctx context.Context, userID, passphrase string) (*models.AuthResponse, error) {
	profile, err := a.profileRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, errors.New("invalid user id or passphrase")
	}

	if !profile.CheckPassphrase(passphrase) {
		return nil, errors.New("invalid user id or passphrase")
	}

	token, err := a.GenerateToken(profile)
	if err != nil {
		return nil, errors.New("failed to generate token")
	}

	return &models.AuthResponse{
		Profile: *profile,
		Token:   token,
	}, nil
}

// GenerateToken creates a new JWT token for the user
func (a *AuthService) GenerateToken(profile *models.UserProfile) (string, error) {
	claims := JWTClaims{
		UserID:      profile.UserID,
		DisplayName: profile.DisplayName,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(a.tokenExpiry)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
			Issuer:    "mlb-streak-go",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(a.jwtSecret)
}

// ValidateToken validates a JWT token and returns the claims
func (a *AuthService) ValidateToken(tokenString string) (*JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid token signing method")
		}
		return a.jwtSecret, nil
	})

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*JWTClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, errors.New("invalid token")
}

// GetProfileFromToken validates the token and loads the profile it names
func (a *AuthService) GetProfileFromToken(ctx context.Context, tokenString string) (*models.UserProfile, error) {
	claims, err := a.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}

	profile, err := a.profileRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		return nil, errors.New("user not found")
	}

	return profile, nil
}
