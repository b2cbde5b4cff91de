package service

import (
	"go.uber.org/zap"

	"github.com/planguardpro/stripe-backend/internal/models"
)

// OrderRecorder receives the side effects of webhook dispatch, one method
// per handled event kind. Signature verification and dispatch stay the
// same whatever sits behind it.
type OrderRecorder interface {
	CheckoutCompleted(order models.CompletedOrder)
	PaymentSucceeded(paymentRef string)
}

// LogRecorder writes orders to the structured log. Stripe stays the
// system of record.
type LogRecorder struct {
	logger *zap.Logger
}

func NewLogRecorder(logger *zap.Logger) *LogRecorder {
	return &LogRecorder{
		logger: logger,
	}
}

func (r *LogRecorder) CheckoutCompleted(order models.CompletedOrder) {
	r.logger.Info("checkout session completed",
		zap.String("session_id", order.SessionID),
		zap.String("customer_email", order.CustomerEmail),
		zap.Int("sheet_count", order.SheetCount),
		zap.Bool("include_calc", order.IncludeCalc),
		zap.String("facility_name", order.FacilityName),
		zap.String("hcai_app_number", order.HcaiAppNumber),
		zap.Int64("amount_total", order.Amount),
		zap.String("currency", order.Currency),
		zap.String("payment_ref", order.PaymentRef),
	)
	// TODO: persist the order and send the confirmation email once an
	// order store and mail provider are wired in.
}

func (r *LogRecorder) PaymentSucceeded(paymentRef string) {
	r.logger.Info("payment succeeded",
		zap.String("payment_ref", paymentRef),
	)
}
