// Package share issues and checks signed links that grant read-only access to a score's
// rendering.
package share

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/mux"
)

var ErrInvalidToken = errors.New("invalid share token")

const (
	DefaultTTL = 7 * 24 * time.Hour
	audience   = "render"
)

type Service struct {
	secret []byte
	now    func() time.Time
}

func NewService(secret string) *Service {
	return &Service{secret: []byte(secret), now: time.Now}
}

// Issue signs a token granting render access to scoreID for ttl.
func (s *Service) Issue(scoreID string, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	now := s.now()
	claims := jwt.RegisteredClaims{
		Subject:   scoreID,
		Audience:  jwt.ClaimStrings{audience},
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Validate checks a token and returns the score id it grants access to.
func (s *Service) Validate(tokenString string) (string, error) {
	var claims jwt.RegisteredClaims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	},
		jwt.WithAudience(audience),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid || claims.Subject == "" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}

type contextKey string

const ScoreIDKey contextKey = "sharedScoreID"

// Middleware reads the token from the {token} route variable and places the score id it
// grants into the request context.
func (s *Service) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		scoreID, err := s.Validate(mux.Vars(r)["token"])
		if err != nil {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid share token"})
			return
		}

		ctx := context.WithValue(r.Context(), ScoreIDKey, scoreID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func ScoreIDFromContext(ctx context.Context) string {
	scoreID, _ := ctx.Value(ScoreIDKey).(string)
	return scoreID
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
