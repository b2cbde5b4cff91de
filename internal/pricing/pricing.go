package pricing

// All amounts are whole CAD dollars; conversion to cents happens at the
// Stripe boundary.
const (
	BaseFee = 249

	// Sheets are billed at TierOneRate up to TierThreshold, and at
	// TierTwoRate beyond it.
	TierThreshold = 30
	TierOneRate   = 25
	TierTwoRate   = 20

	// Flat fee for the optional load calculation package.
	CalcFee = 150

	MinSheets = 1
	MaxSheets = 100
)

// Quote is an itemized price for a plan review order. ReviewCost and
// CalcCost always sum to Total.
type Quote struct {
	Sheets      int
	IncludeCalc bool
	ReviewCost  int64
	CalcCost    int64
	Total       int64
}

// NewQuote prices an order. Pure and total over non-negative sheet counts;
// callers are responsible for clamping user input (see ClampSheets).
func NewQuote(sheets int, includeCalc bool) Quote {
	q := Quote{
		Sheets:      sheets,
		IncludeCalc: includeCalc,
	}

	q.ReviewCost = BaseFee +
		int64(min(sheets, TierThreshold))*TierOneRate +
		int64(max(0, sheets-TierThreshold))*TierTwoRate

	if includeCalc {
		q.CalcCost = CalcFee
	}

	q.Total = q.ReviewCost + q.CalcCost
	return q
}

// Price returns the total for an order without the line-item breakdown.
func Price(sheets int, includeCalc bool) int64 {
	return NewQuote(sheets, includeCalc).Total
}

// ClampSheets forces a raw sheet count into the billable range [1, 100].
func ClampSheets(sheets int) int {
	if sheets < MinSheets {
		return MinSheets
	}
	if sheets > MaxSheets {
		return MaxSheets
	}
	return sheets
}
