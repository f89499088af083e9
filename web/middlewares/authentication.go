package middlewares

import (
	"net/http"
	"strings"

	"github.com/Alumni-Hub/Alumni-Hub-Backend/security"
	"github.com/Alumni-Hub/Alumni-Hub-Backend/web/common"
	"github.com/gin-gonic/gin"
)

const cookieName = "alumnihub.ApplicationCookie"

func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		cookie, err := c.Cookie(cookieName)
		if err != nil {
			return ""
		}
		return cookie
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// Actor identifies the caller from an optional bearer token. Requests without
// a token pass through anonymously; a token that fails validation is rejected.
func Actor(jwtSecret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := bearerToken(c)
		if tokenStr == "" || len(jwtSecret) == 0 {
			c.Next()
			return
		}

		identity, err := security.ParseIdentityToken(tokenStr, jwtSecret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, common.NewErrorResponse("invalid or expired token"))
			return
		}

		c.Set(common.ActorKey, identity.ID)
		c.Next()
	}
}
