package service

import (
	"fmt"
	"time"

	"centre-ledger/internal/core/domain"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// JWTTokenService implements ports.TokenService using HS256 JWT.
type JWTTokenService struct {
	secret []byte
	expiry time.Duration
	issuer string
}

// NewJWTTokenService creates a new JWT token service.
func NewJWTTokenService(secret string, expiry time.Duration, issuer string) *JWTTokenService {
	return &JWTTokenService{
		secret: []byte(secret),
		expiry: expiry,
		issuer: issuer,
	}
}

// Generate creates a signed JWT carrying the staff member's identity.
func (s *JWTTokenService) Generate(actor domain.Actor) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(s.expiry)

	claims := jwt.MapClaims{
		"sub":       actor.StaffID.String(),
		"role":      string(actor.Role),
		"centre_id": actor.CentreID.String(),
		"iat":       now.Unix(),
		"exp":       expiresAt.Unix(),
		"iss":       s.issuer,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("signing token: %w", err)
	}

	return tokenString, expiresAt, nil
}

// Validate parses and validates a JWT token, returning the caller identity.
func (s *JWTTokenService) Validate(tokenString string) (*domain.Actor, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("parsing token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}

	sub, ok := claims["sub"].(string)
	if !ok {
		return nil, fmt.Errorf("missing subject claim")
	}
	staffID, err := uuid.Parse(sub)
	if err != nil {
		return nil, fmt.Errorf("invalid staff ID in token: %w", err)
	}

	centreRaw, ok := claims["centre_id"].(string)
	if !ok {
		return nil, fmt.Errorf("missing centre claim")
	}
	centreID, err := uuid.Parse(centreRaw)
	if err != nil {
		return nil, fmt.Errorf("invalid centre ID in token: %w", err)
	}

	roleRaw, _ := claims["role"].(string)
	role := domain.Role(roleRaw)
	if !domain.ValidRole(role) {
		return nil, fmt.Errorf("unknown role in token: %q", roleRaw)
	}

	return &domain.Actor{
		StaffID:  staffID,
		Role:     role,
		CentreID: centreID,
	}, nil
}
