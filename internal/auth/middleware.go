package auth

import (
	"log/slog"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/response"
)

// AuthRequired rejects requests without a valid "Authorization: Bearer" token
// and stores the caller's identity on the context.
func AuthRequired(tokens *JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := bearerClaims(c.GetHeader("Authorization"), tokens)
		if err != nil {
			slog.DebugContext(c.Request.Context(), "rejected request credentials",
				slog.String("path", c.FullPath()),
				slog.Any("error", err),
			)
			response.Error(c, err)
			c.Abort()
			return
		}

		SetUser(c, claims.UserID(), claims.Email)
		c.Next()
	}
}

func bearerClaims(header string, tokens *JWTManager) (*Claims, error) {
	if header == "" {
		return nil, ErrMissingToken
	}
	scheme, tokenStr, ok := strings.Cut(header, " ")
	tokenStr = strings.TrimSpace(tokenStr)
	if !ok || !strings.EqualFold(scheme, "bearer") || tokenStr == "" {
		return nil, ErrMalformedHeader
	}
	return tokens.Verify(tokenStr)
}
