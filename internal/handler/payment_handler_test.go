package handler

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v74"
	"github.com/stripe/stripe-go/v74/webhook"
	"go.uber.org/zap"

	"github.com/planguardpro/stripe-backend/internal/config"
	"github.com/planguardpro/stripe-backend/internal/models"
	"github.com/planguardpro/stripe-backend/internal/service"
	"github.com/planguardpro/stripe-backend/pkg/payment"
	"github.com/planguardpro/stripe-backend/pkg/utils"
)

const testWebhookSecret = "whsec_test_secret"

type mockStripeClient struct {
	metadata map[string]string
	session  *stripe.CheckoutSession
	err      error
}

func (m *mockStripeClient) CreateCheckoutSession(items []payment.LineItem, metadata map[string]string) (*stripe.CheckoutSession, error) {
	m.metadata = metadata
	if m.err != nil {
		return nil, m.err
	}
	return m.session, nil
}

func (m *mockStripeClient) GetCheckoutSession(id string) (*stripe.CheckoutSession, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.session, nil
}

type mockRecorder struct {
	completed []models.CompletedOrder
	payments  []string
}

func (m *mockRecorder) CheckoutCompleted(order models.CompletedOrder) {
	m.completed = append(m.completed, order)
}

func (m *mockRecorder) PaymentSucceeded(paymentRef string) {
	m.payments = append(m.payments, paymentRef)
}

func newTestApp(client service.StripeClient, recorder service.OrderRecorder) *fiber.App {
	cfg := &config.Config{
		Domain: "http://localhost:5173",
		Port:   "3001",
	}
	cfg.Stripe.WebhookSecret = testWebhookSecret

	logger := zap.NewNop()
	paymentService := service.NewPaymentService(client, recorder, logger)
	paymentHandler := NewPaymentHandler(paymentService, utils.NewValidator(), cfg, logger)
	healthHandler := NewHealthHandler()

	app := fiber.New()
	app.Post("/webhook", paymentHandler.HandleStripeWebhook)
	app.Post("/api/create-checkout-session", paymentHandler.CreateCheckoutSession)
	app.Get("/api/checkout-session/:sessionId", paymentHandler.GetCheckoutSession)
	app.Get("/api/health", healthHandler.Check)
	return app
}

func signPayload(payload []byte) string {
	now := time.Now()
	sig := webhook.ComputeSignature(now, payload, testWebhookSecret)
	return fmt.Sprintf("t=%d,v1=%s", now.Unix(), hex.EncodeToString(sig))
}

func TestHealthCheck(t *testing.T) {
	app := newTestApp(&mockStripeClient{}, &mockRecorder{})

	resp, err := app.Test(httptest.NewRequest("GET", "/api/health", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body models.HealthResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ok", body.Status)
	assert.Equal(t, "planguardpro-stripe", body.Service)
}

func TestCreateCheckoutSession(t *testing.T) {
	client := &mockStripeClient{
		session: &stripe.CheckoutSession{ID: "cs_test_1", URL: "https://checkout.stripe.com/pay/cs_test_1"},
	}
	app := newTestApp(client, &mockRecorder{})

	req := httptest.NewRequest("POST", "/api/create-checkout-session",
		strings.NewReader(`{"sheets": 30, "includeCalc": false, "facilityName": "Northside Rehab Clinic"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body models.CheckoutSessionResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "cs_test_1", body.SessionID)
	assert.Equal(t, "https://checkout.stripe.com/pay/cs_test_1", body.URL)
	assert.Equal(t, "999", client.metadata["total_price"])
}

func TestCreateCheckoutSession_CoercesGarbageSheets(t *testing.T) {
	client := &mockStripeClient{
		session: &stripe.CheckoutSession{ID: "cs_test_2", URL: "https://example.com"},
	}
	app := newTestApp(client, &mockRecorder{})

	req := httptest.NewRequest("POST", "/api/create-checkout-session",
		strings.NewReader(`{"sheets": "abc"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "1", client.metadata["sheets"])
}

func TestCreateCheckoutSession_RejectsOverlongFacilityName(t *testing.T) {
	app := newTestApp(&mockStripeClient{}, &mockRecorder{})

	body := fmt.Sprintf(`{"sheets": 5, "facilityName": %q}`, strings.Repeat("x", 300))
	req := httptest.NewRequest("POST", "/api/create-checkout-session", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestCreateCheckoutSession_UpstreamFailure(t *testing.T) {
	client := &mockStripeClient{err: errors.New("invalid API key")}
	app := newTestApp(client, &mockRecorder{})

	req := httptest.NewRequest("POST", "/api/create-checkout-session",
		strings.NewReader(`{"sheets": 5}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)

	var body models.ErrorBody
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Contains(t, body.Error, "invalid API key")
}

func TestGetCheckoutSession_NotFound(t *testing.T) {
	client := &mockStripeClient{err: errors.New("no such checkout session")}
	app := newTestApp(client, &mockRecorder{})

	resp, err := app.Test(httptest.NewRequest("GET", "/api/checkout-session/does-not-exist", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	var body models.ErrorBody
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "Session not found", body.Error)
}

func TestWebhook_InvalidSignature(t *testing.T) {
	recorder := &mockRecorder{}
	app := newTestApp(&mockStripeClient{}, recorder)

	payload := `{"id": "evt_1", "type": "checkout.session.completed", "data": {"object": {}}}`
	req := httptest.NewRequest("POST", "/webhook", strings.NewReader(payload))
	req.Header.Set("Stripe-Signature", "t=1,v1=deadbeef")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	// Dispatch must never see an unverified event.
	assert.Empty(t, recorder.completed)
	assert.Empty(t, recorder.payments)
}

func TestWebhook_ValidSignatureUnknownEvent(t *testing.T) {
	recorder := &mockRecorder{}
	app := newTestApp(&mockStripeClient{}, recorder)

	payload := []byte(`{"id": "evt_2", "object": "event", "type": "customer.created", "data": {"object": {}}}`)
	req := httptest.NewRequest("POST", "/webhook", strings.NewReader(string(payload)))
	req.Header.Set("Stripe-Signature", signPayload(payload))

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var ack models.WebhookAck
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&ack))
	assert.True(t, ack.Received)
	assert.Empty(t, recorder.completed)
}

func TestWebhook_CheckoutCompleted(t *testing.T) {
	recorder := &mockRecorder{}
	app := newTestApp(&mockStripeClient{}, recorder)

	payload := []byte(`{
		"id": "evt_3",
		"object": "event",
		"type": "checkout.session.completed",
		"data": {"object": {
			"id": "cs_done",
			"amount_total": 99900,
			"currency": "cad",
			"customer_details": {"email": "clinic@example.com"},
			"metadata": {"sheets": "30", "include_calc": "false", "facility_name": "Northside Rehab Clinic"}
		}}
	}`)
	req := httptest.NewRequest("POST", "/webhook", strings.NewReader(string(payload)))
	req.Header.Set("Stripe-Signature", signPayload(payload))

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.JSONEq(t, `{"received": true}`, string(body))

	require.Len(t, recorder.completed, 1)
	assert.Equal(t, "cs_done", recorder.completed[0].SessionID)
	assert.Equal(t, 30, recorder.completed[0].SheetCount)
	assert.Equal(t, int64(99900), recorder.completed[0].Amount)
}
