package http

import (
	"github.com/gin-gonic/gin"

	"github.com/yanqian/ai-flowgen/internal/domain/auth"
)

const (
	authIdentityKey = "auth_identity"
	// userIDKey is read by the rate limiter to bucket per user.
	userIDKey = "userID"
)

func setIdentity(c *gin.Context, identity auth.Identity) {
	c.Set(authIdentityKey, identity)
	c.Set(userIDKey, identity.UserID)
}

func getIdentity(c *gin.Context) (auth.Identity, bool) {
	value, ok := c.Get(authIdentityKey)
	if !ok {
		return auth.Identity{}, false
	}
	identity, ok := value.(auth.Identity)
	return identity, ok
}
