/*
Package api
File: auth.go
Description:
    Player tokens. HS256 JWTs carry the player id in "pid"; every
    /api/players/{playerID} route requires a token for that same player.

    An Auth built with an empty secret is disabled: requests pass through
    unchecked and the websocket takes ?player_id= instead of ?token=.
*/

package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
)

const tokenExpiry = 7 * 24 * time.Hour

var errNoToken = errors.New("missing bearer token")

// Auth issues and checks player tokens.
type Auth struct {
	secret []byte
	now    func() time.Time
}

// NewAuth returns an Auth signing with secret.
func NewAuth(secret string) *Auth {
	return &Auth{secret: []byte(secret), now: time.Now}
}

// Enabled reports whether tokens are checked.
func (a *Auth) Enabled() bool { return a != nil && len(a.secret) > 0 }

// Issue signs a token for the player.
func (a *Auth) Issue(playerID int64, name string) (string, error) {
	if !a.Enabled() {
		return "", nil
	}
	now := a.now()
	claims := jwt.MapClaims{
		"pid": playerID,
		"usr": name,
		"exp": now.Add(tokenExpiry).Unix(),
		"iat": now.Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
}

// Validate returns the player id of a valid token.
func (a *Auth) Validate(tokenStr string) (int64, error) {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return a.secret, nil
	}, jwt.WithTimeFunc(a.now))
	if err != nil {
		return 0, err
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return 0, errors.New("invalid token")
	}
	pid, ok := claims["pid"].(float64)
	if !ok {
		return 0, errors.New("invalid token claims")
	}
	return int64(pid), nil
}

func bearer(r *http.Request) (string, error) {
	h := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(h, "Bearer ")
	if !ok || token == "" {
		return "", errNoToken
	}
	return token, nil
}

// requirePlayer rejects requests whose token does not belong to {playerID}.
func (a *Auth) requirePlayer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !a.Enabled() {
			next.ServeHTTP(w, r)
			return
		}
		token, err := bearer(r)
		if err != nil {
			writeError(w, http.StatusUnauthorized, err.Error())
			return
		}
		pid, err := a.Validate(token)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid token")
			return
		}
		if strconv.FormatInt(pid, 10) != chi.URLParam(r, "playerID") {
			writeError(w, http.StatusForbidden, "token does not match player")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// socketPlayer identifies the player opening a websocket.
func (a *Auth) socketPlayer(r *http.Request) (int64, error) {
	q := r.URL.Query()
	if !a.Enabled() {
		return strconv.ParseInt(q.Get("player_id"), 10, 64)
	}
	token := q.Get("token")
	if token == "" {
		if t, err := bearer(r); err == nil {
			token = t
		}
	}
	if token == "" {
		return 0, errNoToken
	}
	return a.Validate(token)
}
