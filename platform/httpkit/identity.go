// Package httpkit provides HTTP utilities including identity abstraction.
package httpkit

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Identity represents the authenticated user's identity.
// Handlers read it without depending on how the session was carried.
type Identity interface {
	// Username returns the authenticated user's login name.
	Username() string
	// IsAuthenticated returns true if the user is authenticated.
	IsAuthenticated() bool
}

type identity struct {
	username string
}

func (i *identity) Username() string {
	return i.username
}

func (i *identity) IsAuthenticated() bool {
	return i.username != ""
}

// GetIdentity extracts the Identity from a Gin context.
// Returns an unauthenticated identity if no session was verified.
func GetIdentity(c *gin.Context) Identity {
	username := c.GetString(ContextUsernameKey)
	return &identity{username: username}
}

// MustGetIdentity extracts the Identity from a Gin context.
// If the user is not authenticated, it aborts with 401 Unauthorized and returns nil.
func MustGetIdentity(c *gin.Context) Identity {
	id := GetIdentity(c)
	if !id.IsAuthenticated() {
		c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: errUnauthorized})
		return nil
	}
	return id
}
