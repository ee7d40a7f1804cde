package web

import (
	"crypto/rand"
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	sessionCookie = "eh_session"
	sessionTTL    = 24 * time.Hour
)

var errNoSession = errors.New("no session")

// sessions issues and verifies the signed cookie that binds a browser to
// the matches it created.
type sessions struct {
	secret []byte
	secure bool
}

func newSessions(secret string) *sessions {
	if secret == "" {
		b := make([]byte, 32)
		_, _ = rand.Read(b)
		return &sessions{secret: b}
	}
	return &sessions{secret: []byte(secret)}
}

// ensure returns the request's session id, issuing a new cookie if the
// request carries none or an invalid one.
func (s *sessions) ensure(w http.ResponseWriter, r *http.Request) (string, error) {
	if sid, err := s.read(r); err == nil {
		return sid, nil
	}
	sid := uuid.NewString()
	exp := time.Now().Add(sessionTTL)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sid": sid,
		"exp": exp.Unix(),
		"iat": time.Now().Unix(),
	})
	ss, err := token.SignedString(s.secret)
	if err != nil {
		return "", err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    ss,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
		Expires:  exp,
	})
	return sid, nil
}

func (s *sessions) read(r *http.Request) (string, error) {
	c, err := r.Cookie(sessionCookie)
	if err != nil || c.Value == "" {
		return "", errNoSession
	}
	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(c.Value, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return "", errNoSession
	}
	sid, _ := claims["sid"].(string)
	if sid == "" {
		return "", errNoSession
	}
	return sid, nil
}
