package service

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/stripe/stripe-go/v74"
	"go.uber.org/zap"

	"github.com/planguardpro/stripe-backend/internal/models"
	"github.com/planguardpro/stripe-backend/internal/pricing"
	"github.com/planguardpro/stripe-backend/pkg/payment"
)

// StripeClient is the slice of the Stripe API this service needs.
type StripeClient interface {
	CreateCheckoutSession(items []payment.LineItem, metadata map[string]string) (*stripe.CheckoutSession, error)
	GetCheckoutSession(id string) (*stripe.CheckoutSession, error)
}

type PaymentService struct {
	stripeClient StripeClient
	recorder     OrderRecorder
	logger       *zap.Logger
}

func NewPaymentService(stripeClient StripeClient, recorder OrderRecorder, logger *zap.Logger) *PaymentService {
	return &PaymentService{
		stripeClient: stripeClient,
		recorder:     recorder,
		logger:       logger,
	}
}

func (s *PaymentService) CreateCheckoutSession(req *models.CreateCheckoutSessionRequest) (*models.CheckoutSessionResponse, error) {
	sheets := pricing.ClampSheets(int(req.Sheets))
	quote := pricing.NewQuote(sheets, req.IncludeCalc)

	items := []payment.LineItem{
		{
			Name:   fmt.Sprintf("Plan review (%d sheets)", quote.Sheets),
			Amount: quote.ReviewCost,
		},
	}
	if quote.IncludeCalc {
		items = append(items, payment.LineItem{
			Name:   "Load calculation package",
			Amount: quote.CalcCost,
		})
	}

	// Everything needed to reconstruct the order rides on the session as
	// metadata; the webhook and the confirmation page read it back.
	metadata := map[string]string{
		"sheets":          strconv.Itoa(quote.Sheets),
		"include_calc":    strconv.FormatBool(quote.IncludeCalc),
		"total_price":     strconv.FormatInt(quote.Total, 10),
		"facility_name":   req.FacilityName,
		"hcai_app_number": req.HcaiAppNumber,
	}

	sess, err := s.stripeClient.CreateCheckoutSession(items, metadata)
	if err != nil {
		s.logger.Error("checkout session creation failed", zap.Error(err))
		return nil, fmt.Errorf("could not create checkout session: %w", err)
	}

	s.logger.Info("checkout session created",
		zap.String("session_id", sess.ID),
		zap.Int("sheets", quote.Sheets),
		zap.Bool("include_calc", quote.IncludeCalc),
		zap.Int64("total", quote.Total),
	)

	return &models.CheckoutSessionResponse{
		SessionID: sess.ID,
		URL:       sess.URL,
	}, nil
}

// HandleStripeWebhook dispatches an already-verified event. Unrecognized
// kinds are acknowledged without action so Stripe does not redeliver them.
func (s *PaymentService) HandleStripeWebhook(event *stripe.Event) error {
	switch event.Type {
	case "checkout.session.completed":
		var sess stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
			return err
		}
		s.recorder.CheckoutCompleted(orderFromSession(&sess))

	case "payment_intent.succeeded":
		var intent stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
			return err
		}
		s.recorder.PaymentSucceeded(intent.ID)

	default:
		s.logger.Debug("unhandled webhook event", zap.String("type", event.Type))
	}

	return nil
}

func (s *PaymentService) GetCheckoutSession(id string) (*models.SessionDetails, error) {
	sess, err := s.stripeClient.GetCheckoutSession(id)
	if err != nil {
		return nil, err
	}

	details := &models.SessionDetails{
		SheetCount:   atoiOrZero(sess.Metadata["sheets"]),
		IncludesCalc: sess.Metadata["include_calc"] == "true",
		FacilityName: sess.Metadata["facility_name"],
		Status:       string(sess.PaymentStatus),
	}
	if sess.CustomerDetails != nil {
		details.CustomerEmail = sess.CustomerDetails.Email
	}

	return details, nil
}

func orderFromSession(sess *stripe.CheckoutSession) models.CompletedOrder {
	order := models.CompletedOrder{
		SessionID:     sess.ID,
		SheetCount:    atoiOrZero(sess.Metadata["sheets"]),
		IncludeCalc:   sess.Metadata["include_calc"] == "true",
		FacilityName:  sess.Metadata["facility_name"],
		HcaiAppNumber: sess.Metadata["hcai_app_number"],
		Amount:        sess.AmountTotal,
		Currency:      string(sess.Currency),
	}
	if sess.CustomerDetails != nil {
		order.CustomerEmail = sess.CustomerDetails.Email
	}
	if sess.PaymentIntent != nil {
		order.PaymentRef = sess.PaymentIntent.ID
	}
	return order
}

func atoiOrZero(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
