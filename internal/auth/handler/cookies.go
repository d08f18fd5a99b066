package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// CookieOptions controls the short-lived cookies of the code flow.
type CookieOptions struct {
	Secure   bool
	SameSite http.SameSite
}

func (o CookieOptions) set(c *gin.Context, name, value string, ttl time.Duration) {
	sameSite := o.SameSite
	if sameSite == 0 {
		sameSite = http.SameSiteLaxMode
	}
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   o.Secure,
		SameSite: sameSite,
		MaxAge:   int(ttl.Seconds()),
	})
}

func (o CookieOptions) clear(c *gin.Context, name string) {
	o.set(c, name, "", -time.Second)
}

func readCookie(c *gin.Context, name string) string {
	cookie, err := c.Request.Cookie(name)
	if err != nil {
		return ""
	}
	return cookie.Value
}
