package apiv1

import (
	"github.com/gofiber/fiber/v2"

	"github.com/paperwall-app/paperwall/internal/pkg/usercontext"
)

// APIServer holds the handlers for the public v1 API.
type APIServer struct{}

// NewAPIServer creates a new API server instance
func NewAPIServer() *APIServer {
	return &APIServer{}
}

// RegisterHandlers attaches the v1 routes to the given router group.
func RegisterHandlers(router fiber.Router, s *APIServer) {
	router.Get("/ping", s.GetPing)
	router.Get("/session", s.GetSession)
}

// GetPing handles the ping endpoint
func (s *APIServer) GetPing(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"ping": "pong"})
}

// GetSession returns the enriched session for the current viewer. The
// activeSubscription field is null unless the store holds an active
// subscription row for the viewer's payment customer id.
func (s *APIServer) GetSession(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	if !userCtx.IsLoggedIn {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"user":               nil,
			"activeSubscription": nil,
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"user": fiber.Map{
			"id":    userCtx.UserID,
			"name":  userCtx.Username,
			"email": userCtx.Email,
		},
		"activeSubscription": userCtx.ActiveSubscription,
	})
}
