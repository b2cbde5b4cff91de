package models

import (
	"encoding/json"
	"strconv"
	"strings"
)

// SheetCount tolerates whatever the intake form sends: a JSON number, a
// numeric string, or garbage. Anything unparseable coerces to 1. Range
// clamping to [1, 100] happens in the service layer.
type SheetCount int

func (s *SheetCount) UnmarshalJSON(data []byte) error {
	var n int
	if err := json.Unmarshal(data, &n); err == nil {
		*s = SheetCount(n)
		return nil
	}

	var f float64
	if err := json.Unmarshal(data, &f); err == nil {
		*s = SheetCount(int(f))
		return nil
	}

	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		if n, err := strconv.Atoi(strings.TrimSpace(str)); err == nil {
			*s = SheetCount(n)
			return nil
		}
	}

	*s = 1
	return nil
}

type CreateCheckoutSessionRequest struct {
	Sheets        SheetCount `json:"sheets"`
	IncludeCalc   bool       `json:"includeCalc"`
	FacilityName  string     `json:"facilityName" validate:"max=200"`
	HcaiAppNumber string     `json:"hcaiAppNumber" validate:"omitempty,hcai_ref,max=50"`
}

type CheckoutSessionResponse struct {
	SessionID string `json:"sessionId"`
	URL       string `json:"url"`
}

// SessionDetails is the projection of a Stripe checkout session rendered
// on the confirmation page.
type SessionDetails struct {
	CustomerEmail string `json:"customerEmail"`
	SheetCount    int    `json:"sheetCount"`
	IncludesCalc  bool   `json:"includesCalc"`
	FacilityName  string `json:"facilityName"`
	Status        string `json:"status"`
}

// CompletedOrder is the final-state snapshot extracted from a
// checkout.session.completed event. Amount is in cents.
type CompletedOrder struct {
	SessionID     string
	CustomerEmail string
	SheetCount    int
	IncludeCalc   bool
	FacilityName  string
	HcaiAppNumber string
	Amount        int64
	Currency      string
	PaymentRef    string
}
