package middleware

import (
	"errors"
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/paperwall-app/paperwall/app/models"
	"github.com/paperwall-app/paperwall/app/repository"
	"github.com/paperwall-app/paperwall/internal/pkg/session"
	"github.com/paperwall-app/paperwall/internal/pkg/usercontext"
)

// UserContextMiddleware materializes the session for every request. For a
// logged-in user it performs the read-time join described by the session
// enrichment contract: load the User row, then the active Subscription row
// matching the user's payment customer id.
func UserContextMiddleware(c *fiber.Ctx) error {
	// Avoid interfering with Goth/Fiber session handling on OAuth routes.
	// Goth uses its own fiber session store and relies on per-request locals.
	// We skip our app session on /auth/* to prevent cross-store collisions.
	if strings.HasPrefix(c.Path(), "/auth/") {
		return c.Next()
	}

	sess, err := session.GetSessionStore().Get(c)
	if err != nil {
		return setAnonymous(c)
	}

	userID := sess.Get(usercontext.KeyUserID)
	if userID == nil {
		return setAnonymous(c)
	}

	uid, ok := userID.(uint)
	if !ok {
		return setAnonymous(c)
	}

	repos := repository.GetGlobalRepositories()
	user, err := repos.User.GetByID(uid)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("usercontext: loading user %d failed: %v", uid, err)
		}
		return setAnonymous(c)
	}

	userCtx := usercontext.UserContext{
		UserID:     user.ID,
		Username:   user.Name,
		Email:      user.Email,
		IsLoggedIn: true,
	}

	if user.HasStripeCustomer() {
		sub, err := repos.Subscription.GetActiveByCustomerID(user.StripeCustomerID)
		switch {
		case err == nil:
			userCtx.ActiveSubscription = sub
		case errors.Is(err, gorm.ErrRecordNotFound):
			// No active subscription; the session carries null.
		default:
			log.Printf("usercontext: subscription lookup for customer %s failed: %v", user.StripeCustomerID, err)
		}
	}

	c.Locals("USER_CONTEXT", userCtx)
	c.Locals(usercontext.KeyFromProtected, true)
	return c.Next()
}

func setAnonymous(c *fiber.Ctx) error {
	c.Locals("USER_CONTEXT", usercontext.UserContext{IsLoggedIn: false})
	c.Locals(usercontext.KeyFromProtected, false)
	return c.Next()
}

// EnrichSession performs the user/subscription join for a session email and
// is shared between the middleware and the session API endpoint.
func EnrichSession(users repository.UserRepository, subs repository.SubscriptionRepository, email string) (*models.User, *models.Subscription, error) {
	user, err := users.GetByEmail(email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, err
	}
	if !user.HasStripeCustomer() {
		return user, nil, nil
	}

	sub, err := subs.GetActiveByCustomerID(user.StripeCustomerID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return user, nil, nil
	}
	if err != nil {
		return user, nil, err
	}
	return user, sub, nil
}
