package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/ai-flowgen/internal/domain/auth"
	apperrors "github.com/yanqian/ai-flowgen/pkg/errors"
)

func authMiddleware(resolver auth.Resolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, err := resolver.Resolve(c.Request.Context(), c.GetHeader("Authorization"))
		if err != nil {
			status := http.StatusUnauthorized
			code := auth.CodeUnauthenticated
			if !apperrors.IsCode(err, auth.CodeUnauthenticated) {
				status = http.StatusInternalServerError
				code = "INTERNAL_ERROR"
			}
			abortWithError(c, NewHTTPError(status, code, appMessage(err), err))
			return
		}
		setIdentity(c, identity)
		c.Next()
	}
}
