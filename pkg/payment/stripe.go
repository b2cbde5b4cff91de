package payment

import (
	"net/http"
	"time"

	"github.com/stripe/stripe-go/v74"
	"github.com/stripe/stripe-go/v74/checkout/session"
)

// LineItem is a single priced row on the hosted checkout page.
// Amount is in CAD dollars.
type LineItem struct {
	Name   string
	Amount int64
}

type StripeService struct {
	secretKey string
	domain    string
}

func NewStripeService(secretKey, domain string) *StripeService {
	stripe.Key = secretKey
	// Stripe's default client carries no timeout; a stuck checkout call
	// must not hang the request forever.
	stripe.SetHTTPClient(&http.Client{Timeout: 30 * time.Second})
	return &StripeService{
		secretKey: secretKey,
		domain:    domain,
	}
}

func (s *StripeService) CreateCheckoutSession(items []LineItem, metadata map[string]string) (*stripe.CheckoutSession, error) {
	lineItems := make([]*stripe.CheckoutSessionLineItemParams, 0, len(items))
	for _, item := range items {
		lineItems = append(lineItems, &stripe.CheckoutSessionLineItemParams{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency: stripe.String(string(stripe.CurrencyCAD)),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripe.String(item.Name),
				},
				UnitAmount: stripe.Int64(item.Amount * 100), // CAD to cents
			},
			Quantity: stripe.Int64(1),
		})
	}

	params := &stripe.CheckoutSessionParams{
		PaymentMethodTypes: stripe.StringSlice([]string{
			"card",
		}),
		Mode:                     stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems:                lineItems,
		CustomerCreation:         stripe.String(string(stripe.CheckoutSessionCustomerCreationAlways)),
		BillingAddressCollection: stripe.String(string(stripe.CheckoutSessionBillingAddressCollectionRequired)),
		CustomFields: []*stripe.CheckoutSessionCustomFieldParams{
			{
				Key:  stripe.String("facility_name"),
				Type: stripe.String(string(stripe.CheckoutSessionCustomFieldTypeText)),
				Label: &stripe.CheckoutSessionCustomFieldLabelParams{
					Type:   stripe.String(string(stripe.CheckoutSessionCustomFieldLabelTypeCustom)),
					Custom: stripe.String("Facility name"),
				},
			},
			{
				Key:      stripe.String("hcai_app_number"),
				Type:     stripe.String(string(stripe.CheckoutSessionCustomFieldTypeText)),
				Optional: stripe.Bool(true),
				Label: &stripe.CheckoutSessionCustomFieldLabelParams{
					Type:   stripe.String(string(stripe.CheckoutSessionCustomFieldLabelTypeCustom)),
					Custom: stripe.String("HCAI application number"),
				},
			},
		},
		SuccessURL: stripe.String(s.domain + "/success?session_id={CHECKOUT_SESSION_ID}"),
		CancelURL:  stripe.String(s.domain + "/cancel"),
	}

	for key, value := range metadata {
		params.AddMetadata(key, value)
	}

	return session.New(params)
}

func (s *StripeService) GetCheckoutSession(id string) (*stripe.CheckoutSession, error) {
	return session.Get(id, nil)
}
