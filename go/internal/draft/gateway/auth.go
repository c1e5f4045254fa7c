package gateway

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

const (
	RolePlayer       = "player"
	RoleCommissioner = "commissioner"
)

var (
	errUnauthenticated = errors.New("missing or invalid seat token")
	errForbidden       = errors.New("seat token does not allow this action")
)

type contextKey string

const claimsContextKey contextKey = "seat_claims"

// SeatClaims binds a bearer to a seat in a draft. A commissioner token with an empty
// draft id covers every draft.
type SeatClaims struct {
	DraftID string `json:"draft_id,omitempty"`
	Seat    int    `json:"seat,omitempty"`
	Role    string `json:"role"`
	jwt.RegisteredClaims
}

// Authenticator issues and verifies HS256 seat tokens.
type Authenticator struct {
	secret []byte
	issuer string
	now    func() time.Time
}

func NewAuthenticator(secret, issuer string) (*Authenticator, error) {
	if secret == "" {
		return nil, errors.New("jwt secret cannot be empty")
	}
	return &Authenticator{secret: []byte(secret), issuer: issuer, now: time.Now}, nil
}

// Issue signs a token for a seat.
func (a *Authenticator) Issue(draftID uuid.UUID, seat int, role string, ttl time.Duration) (string, error) {
	now := a.now()
	claims := SeatClaims{
		Seat: seat,
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    a.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	if draftID != uuid.Nil {
		claims.DraftID = draftID.String()
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
}

// Verify parses and validates a token.
func (a *Authenticator) Verify(token string) (*SeatClaims, error) {
	claims := &SeatClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return a.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}
	if !parsed.Valid {
		return nil, errUnauthenticated
	}
	if a.issuer != "" && !claims.VerifyIssuer(a.issuer, true) {
		return nil, fmt.Errorf("unexpected issuer %q", claims.Issuer)
	}
	return claims, nil
}

// Middleware attaches verified claims to the request context. Requests without a token
// pass through unauthenticated; a bad token is rejected.
func (a *Authenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			next.ServeHTTP(w, r)
			return
		}
		claims, err := a.Verify(token)
		if err != nil {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
	})
}

// bearerToken reads the Authorization header, or the token query parameter browsers
// use for WebSocket upgrades.
func bearerToken(r *http.Request) string {
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	return r.URL.Query().Get("token")
}

func WithClaims(ctx context.Context, claims *SeatClaims) context.Context {
	return context.WithValue(ctx, claimsContextKey, claims)
}

func ClaimsFromContext(ctx context.Context) (*SeatClaims, bool) {
	claims, ok := ctx.Value(claimsContextKey).(*SeatClaims)
	return claims, ok
}

// coversDraft reports whether the claims apply to draftID.
func (c *SeatClaims) coversDraft(draftID uuid.UUID) bool {
	if c.DraftID == "" {
		return c.Role == RoleCommissioner
	}
	return c.DraftID == draftID.String()
}

// policy decides what a request may do. A nil authenticator leaves the API open.
type policy struct {
	auth *Authenticator
}

// seatFor resolves the acting seat for a pick.
func (p policy) seatFor(ctx context.Context, draftID uuid.UUID, requested int) (int, error) {
	if p.auth == nil {
		return requested, nil
	}
	claims, ok := ClaimsFromContext(ctx)
	if !ok {
		return 0, errUnauthenticated
	}
	if !claims.coversDraft(draftID) || claims.Seat < 1 {
		return 0, errForbidden
	}
	if requested != 0 && requested != claims.Seat {
		return 0, errForbidden
	}
	return claims.Seat, nil
}

// commissioner guards administrative calls.
func (p policy) commissioner(ctx context.Context, draftID uuid.UUID) error {
	if p.auth == nil {
		return nil
	}
	claims, ok := ClaimsFromContext(ctx)
	if !ok {
		return errUnauthenticated
	}
	if claims.Role != RoleCommissioner {
		return errForbidden
	}
	if draftID != uuid.Nil && !claims.coversDraft(draftID) {
		return errForbidden
	}
	return nil
}
