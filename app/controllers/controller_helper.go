package controllers

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sujit-baniya/flash"

	"github.com/paperwall-app/paperwall/internal/pkg/usercontext"
)

const FROM_PROTECTED string = "from_protected"

func isLoggedIn(c *fiber.Ctx) bool {
	var fromProtected bool
	if protectedValue := c.Locals(FROM_PROTECTED); protectedValue != nil {
		fromProtected = protectedValue.(bool)
	}

	return fromProtected
}

// renderPage renders a view inside the main layout with the bindings every
// page needs: viewer context and flash message.
func renderPage(c *fiber.Ctx, view string, bind fiber.Map) error {
	if bind == nil {
		bind = fiber.Map{}
	}
	userCtx := usercontext.GetUserContext(c)
	bind["IsLoggedIn"] = userCtx.IsLoggedIn
	bind["Username"] = userCtx.Username
	bind["HasActiveSubscription"] = userCtx.ActiveSubscription != nil
	bind["Flash"] = flash.Get(c)

	return c.Render(view, bind, "layouts/main")
}

// formatPrice renders an amount in cents as a display price, e.g. 990 -> "$9.90".
func formatPrice(cents int64) string {
	return fmt.Sprintf("$%d.%02d", cents/100, cents%100)
}

// formatPublishedAt renders a publication date the way post pages show it.
func formatPublishedAt(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("02 January 2006")
}
