package controllers

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	gothfiber "github.com/shareed2k/goth_fiber"

	"github.com/paperwall-app/paperwall/app/models"
	"github.com/paperwall-app/paperwall/app/repository"
	"github.com/paperwall-app/paperwall/internal/pkg/session"
)

var oauthUsers repository.UserRepository

// InitializeOAuthController injects the user repository used by the sign-in
// callback.
func InitializeOAuthController(users repository.UserRepository) {
	oauthUsers = users
}

// HandleOAuthCallback completes the provider flow and logs the user in.
// The user row is upserted by email: an existing row keeps all of its
// fields (including any linked payment customer id), a new row is created
// with a random placeholder password since sign-in is OAuth-only. Sign-in
// is denied only on an unexpected store error.
func HandleOAuthCallback(c *fiber.Ctx) error {
	u, err := gothfiber.CompleteUserAuth(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).SendString(fmt.Sprintf("OAuth failed: %v", err))
	}
	if u.Email == "" {
		return c.Status(fiber.StatusBadRequest).SendString("OAuth provider returned no email")
	}

	placeholder := fmt.Sprintf("oauth_%d", time.Now().UnixNano())
	hash, _ := models.HashPassword(placeholder)
	appUser := models.User{
		Name:      firstNonEmpty(u.Name, u.NickName, u.Email),
		Email:     u.Email,
		Password:  hash,
		AvatarURL: u.AvatarURL,
		Status:    models.STATUS_ACTIVE,
	}
	if err := oauthUsers.UpsertByEmail(&appUser); err != nil {
		return c.Status(fiber.StatusInternalServerError).SendString(fmt.Sprintf("sign-in failed: %v", err))
	}

	// Create app session
	sess, err := session.GetSessionStore().Get(c)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).SendString("session init failed")
	}
	sess.Set(AUTH_KEY, true)
	sess.Set(USER_ID, appUser.ID)
	sess.Set(USER_NAME, appUser.Name)
	sess.Set(USER_EMAIL, appUser.Email)
	if err := sess.Save(); err != nil {
		return c.Status(fiber.StatusInternalServerError).SendString("session save failed")
	}

	// Update last login timestamp
	now := time.Now()
	appUser.LastLoginAt = &now
	_ = oauthUsers.Update(&appUser)

	return c.Redirect("/", fiber.StatusSeeOther)
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
