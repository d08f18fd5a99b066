package handler

import (
	"crypto/subtle"
	"time"

	"github.com/gin-gonic/gin"

	"skill-auth-service/internal/utils"
)

const (
	stateCookieName = "__oauth_state"
	stateTTL        = 5 * time.Minute
)

func (h *Handler) generateState(c *gin.Context) (string, error) {
	state, err := utils.RandomString(32)
	if err != nil {
		return "", err
	}
	h.cookies.set(c, stateCookieName, state, stateTTL)
	return state, nil
}

// validateState compares the state query parameter to the state cookie
// and clears the cookie; a state is good for one callback only.
func (h *Handler) validateState(c *gin.Context) bool {
	stateQuery := c.Query("state")
	cookie := readCookie(c, stateCookieName)
	h.cookies.clear(c, stateCookieName)

	if stateQuery == "" || cookie == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(cookie), []byte(stateQuery)) == 1
}
