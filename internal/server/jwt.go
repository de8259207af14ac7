package server

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/drewhammond/folio-api/internal/config"
	"github.com/drewhammond/folio-api/internal/generator"
)

// EditorClaims are the JWT claims carried by editor tokens.
type EditorClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// JWTService validates editor bearer tokens.
type JWTService struct {
	config *config.JWTConfig
}

// NewJWTService creates a JWT service. A nil config is allowed and
// yields a nil service, which callers treat as auth disabled.
func NewJWTService(cfg *config.JWTConfig) *JWTService {
	if cfg == nil {
		return nil
	}
	return &JWTService{config: cfg}
}

// ValidateToken validates an editor token and returns its claims.
// Beyond signature and exp checks, tokens carrying an issued-at older
// than the configured expiration window are rejected even when their
// exp is still ahead.
func (s *JWTService) ValidateToken(tokenString string) (*EditorClaims, error) {
	if tokenString == "" {
		return nil, fmt.Errorf("token string is empty")
	}

	claims := &EditorClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.Secret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("token is not valid")
	}
	if claims.Email == "" {
		return nil, fmt.Errorf("token has no email claim")
	}
	if claims.IssuedAt != nil {
		maxAge := time.Duration(s.config.ExpirationHours) * time.Hour
		if time.Since(claims.IssuedAt.Time) > maxAge {
			return nil, fmt.Errorf("token exceeds maximum age of %dh", s.config.ExpirationHours)
		}
	}
	return claims, nil
}

type contextKey string

const accessKey contextKey = "access"

// withIdentity resolves caller identity: a valid editor bearer token
// yields an editor identity, anything else an anonymous session id.
func (s *Server) withIdentity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		access := generator.AccessMetadata{}

		if token := bearerToken(r); token != "" && s.jwtService != nil {
			claims, err := s.jwtService.ValidateToken(token)
			if err == nil {
				access.EditorEmail = claims.Email
			} else {
				s.logger.Warn("rejected bearer token", "error", err)
			}
		}
		if access.EditorEmail == "" {
			access.SessionID = uuid.NewString()
		}

		ctx := context.WithValue(r.Context(), accessKey, access)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// accessFrom returns the identity resolved by withIdentity.
func accessFrom(ctx context.Context) generator.AccessMetadata {
	if access, ok := ctx.Value(accessKey).(generator.AccessMetadata); ok {
		return access
	}
	return generator.AccessMetadata{}
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
