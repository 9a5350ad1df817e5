package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/thejzagency/swfldines/internal/pkg/session"
	"github.com/thejzagency/swfldines/internal/pkg/usercontext"
)

// UserContextMiddleware sets up the complete user context for every request
// This centralizes user session handling and eliminates code duplication
func UserContextMiddleware(c *fiber.Ctx) error {
	sess, err := session.GetSessionStore().Get(c)
	if err != nil {
		c.Locals("USER_CONTEXT", usercontext.UserContext{IsLoggedIn: false})
		return c.Next()
	}

	userID := sess.Get(usercontext.KeyUserID)
	if userID == nil {
		c.Locals("USER_CONTEXT", usercontext.UserContext{IsLoggedIn: false})
		return c.Next()
	}

	id, ok := userID.(uint)
	if !ok || id == 0 {
		c.Locals("USER_CONTEXT", usercontext.UserContext{IsLoggedIn: false})
		return c.Next()
	}

	email := session.GetSessionValue(c, usercontext.KeyUserName)
	role := session.GetSessionValue(c, usercontext.KeyUserRole)

	c.Locals("USER_CONTEXT", usercontext.UserContext{
		UserID:     id,
		Email:      email,
		Role:       role,
		IsLoggedIn: true,
	})
	return c.Next()
}
