package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/golang-jwt/jwt/v5"
)

// The tab cookie carries nothing but a signed tab UUID. It is a session
// cookie on purpose: closing the browser discards it along with the tab
// state it keys.
const tabCookieName = "console_tab"

const tabCookieLifetime = 24 * time.Hour

type tabClaims struct {
	TabID string `json:"tab"`
	jwt.RegisteredClaims
}

func mintTabID() string {
	return uuid.Must(uuid.NewV4()).String()
}

func signTabCookie(secret []byte, tabID string) (string, error) {
	claims := tabClaims{
		TabID: tabID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(tabCookieLifetime)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("sign tab cookie: %w", err)
	}

	return signed, nil
}

func parseTabCookie(secret []byte, value string) (string, error) {
	var claims tabClaims

	token, err := jwt.ParseWithClaims(value, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}

		return secret, nil
	})
	if err != nil {
		return "", fmt.Errorf("parse tab cookie: %w", err)
	}

	if !token.Valid || claims.TabID == "" {
		return "", errors.New("invalid tab cookie")
	}

	if _, err := uuid.FromString(claims.TabID); err != nil {
		return "", fmt.Errorf("decode tab id: %w", err)
	}

	return claims.TabID, nil
}

func setTabCookie(w http.ResponseWriter, signed string) {
	http.SetCookie(w, &http.Cookie{
		Name:     tabCookieName,
		Value:    signed,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
