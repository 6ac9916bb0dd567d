package rest

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pobyzaarif/goshortcute"
)

const VisitorCookieName = "visitor_id"

var errNoVisitorCookie = errors.New("no visitor cookie")

// CookieCodec seals the visitor cookie id with AES-CBC so the raw id never
// leaves the server.
type CookieCodec struct {
	key    []byte
	maxAge time.Duration
	secure bool
}

func NewCookieCodec(key string, maxAge time.Duration, secure bool) *CookieCodec {
	return &CookieCodec{key: []byte(key), maxAge: maxAge, secure: secure}
}

func (cc *CookieCodec) Encode(id uuid.UUID) (string, error) {
	sealed, err := goshortcute.AESCBCEncrypt([]byte(id.String()), cc.key)
	if err != nil {
		return "", fmt.Errorf("failed to encrypt visitor id: %w", err)
	}
	return goshortcute.StringtoBase64Encode(sealed), nil
}

func (cc *CookieCodec) Decode(value string) (id uuid.UUID, err error) {
	// block decryption panics on input that is not whole AES blocks
	defer func() {
		if r := recover(); r != nil {
			id, err = uuid.Nil, errors.New("invalid visitor cookie")
		}
	}()

	raw := goshortcute.StringtoBase64Decode(value)
	if raw == "" {
		return uuid.Nil, errors.New("invalid visitor cookie encoding")
	}
	plain, err := goshortcute.AESCBCDecrypt([]byte(raw), cc.key)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to decrypt visitor cookie: %w", err)
	}
	return uuid.Parse(plain)
}

// Read returns the visitor id from the request cookie.
func (cc *CookieCodec) Read(c echo.Context) (uuid.UUID, error) {
	ck, err := c.Cookie(VisitorCookieName)
	if err != nil || ck.Value == "" {
		return uuid.Nil, errNoVisitorCookie
	}
	return cc.Decode(ck.Value)
}

func (cc *CookieCodec) Write(c echo.Context, id uuid.UUID) error {
	value, err := cc.Encode(id)
	if err != nil {
		return err
	}
	c.SetCookie(&http.Cookie{
		Name:     VisitorCookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   int(cc.maxAge.Seconds()),
		HttpOnly: true,
		Secure:   cc.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

func (cc *CookieCodec) Clear(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:   VisitorCookieName,
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	})
}
