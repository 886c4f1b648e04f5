package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/roomhub/roomhub-server/internal/core"
)

// UserClaim is the participant identity embedded in a join credential.
type UserClaim struct {
	UserRef string `json:"user_ref"`
	Name    string `json:"name"`
	Role    string `json:"role"`
	Photo   string `json:"photo,omitempty"`
}

// Claims represents the JWT claim set issued by the external auth
// service for joining a chatroom.
type Claims struct {
	RoomID     string    `json:"chatroom_id"`
	TokenID    string    `json:"token_id"`
	AccountNum string    `json:"account_num,omitempty"`
	ChatbotNum string    `json:"chatbot_num,omitempty"`
	User       UserClaim `json:"user"`
	jwt.RegisteredClaims
}

// JWTConfig holds the shared-secret configuration for credential decoding.
type JWTConfig struct {
	Secret []byte
	TTL    time.Duration
}

// Validator decodes signed join credentials. It implements
// core.CredentialValidator.
type Validator struct {
	cfg *JWTConfig
}

// NewValidator builds a validator over the shared signing secret.
func NewValidator(cfg *JWTConfig) *Validator {
	return &Validator{cfg: cfg}
}

// Validate parses and verifies a join credential and maps it to the
// hub's claim set.
func (v *Validator) Validate(tokenString string) (*core.JoinClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return v.cfg.Secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}
	if claims.RoomID == "" {
		return nil, fmt.Errorf("credential missing chatroom_id")
	}

	return &core.JoinClaims{
		RoomID:     claims.RoomID,
		TokenID:    claims.TokenID,
		AccountNum: claims.AccountNum,
		ChatbotNum: claims.ChatbotNum,
		Participant: core.Participant{
			ID:     claims.User.UserRef,
			Name:   claims.User.Name,
			Role:   core.ParseRole(claims.User.Role),
			Avatar: claims.User.Photo,
		},
	}, nil
}

// GenerateToken signs a join credential for the given claim set. The
// production issuer lives in the external auth service; this is kept
// for tests and local tooling.
func GenerateToken(cfg *JWTConfig, claims Claims) (string, error) {
	now := time.Now()
	claims.RegisteredClaims = jwt.RegisteredClaims{
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(cfg.TTL)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(cfg.Secret)
}
