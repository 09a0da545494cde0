package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/yungbote/learnnow-backend/internal/platform/ctxutil"
	"github.com/yungbote/learnnow-backend/internal/platform/logger"
)

// AuthConfig describes how bearer tokens are verified. SigningKey is an
// HS256 secret; PublicKeyPEM, when set, switches verification to RS256.
type AuthConfig struct {
	SigningKey   string
	PublicKeyPEM string
	Audience     string
	Issuer       string
	Leeway       time.Duration
}

type AuthService interface {
	// SetContextFromToken verifies tokenString and attaches the caller to ctx.
	SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error)
}

// TokenClaims are the claims read from an Entra ID style access token. The
// object id identifies the user; sub is the fallback for other issuers.
type TokenClaims struct {
	ObjectID string `json:"oid,omitempty"`
	jwt.RegisteredClaims
}

type authService struct {
	log     *logger.Logger
	parser  *jwt.Parser
	keyFunc jwt.Keyfunc
}

func NewAuthService(log *logger.Logger, cfg AuthConfig) (AuthService, error) {
	opts := []jwt.ParserOption{jwt.WithExpirationRequired(), jwt.WithLeeway(cfg.Leeway)}
	if aud := strings.TrimSpace(cfg.Audience); aud != "" {
		opts = append(opts, jwt.WithAudience(aud))
	}
	if iss := strings.TrimSpace(cfg.Issuer); iss != "" {
		opts = append(opts, jwt.WithIssuer(iss))
	}

	var keyFunc jwt.Keyfunc
	switch {
	case strings.TrimSpace(cfg.PublicKeyPEM) != "":
		pub, err := jwt.ParseRSAPublicKeyFromPEM([]byte(cfg.PublicKeyPEM))
		if err != nil {
			return nil, fmt.Errorf("parse auth public key: %w", err)
		}
		opts = append(opts, jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}))
		keyFunc = func(*jwt.Token) (interface{}, error) { return pub, nil }
	case cfg.SigningKey != "":
		secret := []byte(cfg.SigningKey)
		opts = append(opts, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		keyFunc = func(*jwt.Token) (interface{}, error) { return secret, nil }
	default:
		return nil, errors.New("auth: a signing key or public key is required")
	}

	return &authService{
		log:     log.With("service", "AuthService"),
		parser:  jwt.NewParser(opts...),
		keyFunc: keyFunc,
	}, nil
}

func (as *authService) SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
	if strings.TrimSpace(tokenString) == "" {
		return ctx, errors.New("missing token")
	}
	claims := &TokenClaims{}
	parsed, err := as.parser.ParseWithClaims(tokenString, claims, as.keyFunc)
	if err != nil {
		as.log.Debug("Token rejected", "error", err)
		return ctx, fmt.Errorf("failed to parse token: %w", err)
	}
	if !parsed.Valid {
		return ctx, errors.New("invalid or expired token")
	}

	subject := claims.ObjectID
	if subject == "" {
		subject = claims.Subject
	}
	userID, err := uuid.Parse(subject)
	if err != nil {
		return ctx, fmt.Errorf("invalid user id in token: %w", err)
	}
	return ctxutil.WithRequestData(ctx, &ctxutil.RequestData{
		UserID:      userID,
		TokenString: tokenString,
	}), nil
}

// CallerFromContext reads the caller attached by SetContextFromToken.
func CallerFromContext(ctx context.Context) (Caller, bool) {
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return Caller{}, false
	}
	return Caller{UserID: rd.UserID, Token: rd.TokenString}, true
}
