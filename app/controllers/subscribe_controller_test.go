package controllers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paperwall-app/paperwall/app/models"
	"github.com/paperwall-app/paperwall/internal/pkg/usercontext"
)

type stubPaymentsClient struct {
	customerID string
	sessionID  string

	customerCalls int
	sessionCalls  int

	customerErr error
	sessionErr  error
}

func (s *stubPaymentsClient) CreateCustomer(ctx context.Context, email string) (string, error) {
	s.customerCalls++
	if s.customerErr != nil {
		return "", s.customerErr
	}
	return s.customerID, nil
}

func (s *stubPaymentsClient) CreateCheckoutSession(ctx context.Context, customerID string) (string, error) {
	s.sessionCalls++
	if s.sessionErr != nil {
		return "", s.sessionErr
	}
	return s.sessionID, nil
}

func newSubscribeTestApp(userCtx usercontext.UserContext, payments *stubPaymentsClient, users *stubUserRepo) *fiber.App {
	InitializeSubscribeController(payments, users)

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("USER_CONTEXT", userCtx)
		return c.Next()
	})
	app.Post("/api/subscribe", HandleSubscribe)
	return app
}

func TestHandleSubscribe_RequiresLogin(t *testing.T) {
	payments := &stubPaymentsClient{}
	app := newSubscribeTestApp(usercontext.UserContext{IsLoggedIn: false}, payments, newStubUserRepo())

	req := httptest.NewRequest(http.MethodPost, "/api/subscribe", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Zero(t, payments.customerCalls)
	assert.Zero(t, payments.sessionCalls)
}

func TestHandleSubscribe_CreatesCustomerOnFirstCheckout(t *testing.T) {
	payments := &stubPaymentsClient{customerID: "cus_new", sessionID: "cs_test_1"}
	users := newStubUserRepo()
	users.usersByEmail["jane@example.com"] = &models.User{ID: 1, Email: "jane@example.com"}

	app := newSubscribeTestApp(usercontext.UserContext{
		UserID:     1,
		Email:      "jane@example.com",
		IsLoggedIn: true,
	}, payments, users)

	req := httptest.NewRequest(http.MethodPost, "/api/subscribe", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	body := decodeJSONBody(t, resp)
	assert.Equal(t, "cs_test_1", body["sessionId"])

	assert.Equal(t, 1, payments.customerCalls)
	assert.Equal(t, 1, payments.sessionCalls)
	assert.Equal(t, 1, users.customerUpdates)
	assert.Equal(t, "cus_new", users.usersByEmail["jane@example.com"].StripeCustomerID)
}

func TestHandleSubscribe_ReusesExistingCustomer(t *testing.T) {
	payments := &stubPaymentsClient{sessionID: "cs_test_2"}
	users := newStubUserRepo()
	users.usersByEmail["jane@example.com"] = &models.User{
		ID:               1,
		Email:            "jane@example.com",
		StripeCustomerID: "cus_existing",
	}

	app := newSubscribeTestApp(usercontext.UserContext{
		UserID:     1,
		Email:      "jane@example.com",
		IsLoggedIn: true,
	}, payments, users)

	req := httptest.NewRequest(http.MethodPost, "/api/subscribe", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	assert.Zero(t, payments.customerCalls)
	assert.Equal(t, 1, payments.sessionCalls)
	assert.Zero(t, users.customerUpdates)
}

func TestHandleSubscribe_UnknownUser(t *testing.T) {
	payments := &stubPaymentsClient{}
	app := newSubscribeTestApp(usercontext.UserContext{
		UserID:     99,
		Email:      "ghost@example.com",
		IsLoggedIn: true,
	}, payments, newStubUserRepo())

	req := httptest.NewRequest(http.MethodPost, "/api/subscribe", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	assert.Zero(t, payments.sessionCalls)
}

func TestHandleSubscribe_CustomerCreationFailure(t *testing.T) {
	payments := &stubPaymentsClient{customerErr: errors.New("stripe down")}
	users := newStubUserRepo()
	users.usersByEmail["jane@example.com"] = &models.User{ID: 1, Email: "jane@example.com"}

	app := newSubscribeTestApp(usercontext.UserContext{
		UserID:     1,
		Email:      "jane@example.com",
		IsLoggedIn: true,
	}, payments, users)

	req := httptest.NewRequest(http.MethodPost, "/api/subscribe", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	assert.Zero(t, payments.sessionCalls)
}

func TestHandleSubscribe_PersistFailureDoesNotAbortCheckout(t *testing.T) {
	payments := &stubPaymentsClient{customerID: "cus_new", sessionID: "cs_test_3"}
	users := newStubUserRepo()
	users.usersByEmail["jane@example.com"] = &models.User{ID: 1, Email: "jane@example.com"}
	users.customerUpdateErr = errors.New("db down")

	app := newSubscribeTestApp(usercontext.UserContext{
		UserID:     1,
		Email:      "jane@example.com",
		IsLoggedIn: true,
	}, payments, users)

	// The completion webhook re-links the customer id, so a failed persist
	// must not lose the checkout.
	req := httptest.NewRequest(http.MethodPost, "/api/subscribe", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	body := decodeJSONBody(t, resp)
	assert.Equal(t, "cs_test_3", body["sessionId"])
}

func TestHandleSubscribe_CheckoutSessionFailure(t *testing.T) {
	payments := &stubPaymentsClient{sessionErr: errors.New("stripe down")}
	users := newStubUserRepo()
	users.usersByEmail["jane@example.com"] = &models.User{
		ID:               1,
		Email:            "jane@example.com",
		StripeCustomerID: "cus_existing",
	}

	app := newSubscribeTestApp(usercontext.UserContext{
		UserID:     1,
		Email:      "jane@example.com",
		IsLoggedIn: true,
	}, payments, users)

	req := httptest.NewRequest(http.MethodPost, "/api/subscribe", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
}
