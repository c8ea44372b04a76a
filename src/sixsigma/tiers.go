package sixsigma

// Tier pairs a quality label with the unreachable upper bound (supremum) of
// its sigma interval. E.g. RED never reaches sigma=2.1, which is the exact
// lower bound of the next tier, YELLOW.
type Tier struct {
	Label    string
	Supremum float64 // exclusive upper bound
}

// tiers are scanned in ascending supremum order; the first tier whose
// supremum strictly exceeds sigma wins. The terminal GREEN tier has no bound.
var tiers = []Tier{
	{Label: "RED", Supremum: 2.1},
	{Label: "YELLOW", Supremum: 4.1},
}

// terminalLabel is assigned when sigma is at or above every finite supremum.
const terminalLabel = "GREEN"

// Tiers returns a copy of the bounded tier table in scan order.
func Tiers() []Tier {
	out := make([]Tier, len(tiers))
	copy(out, tiers)
	return out
}

// ClassifySigma maps a sigma value to its quality label. The comparison runs
// on the raw floating-point value, so -Inf resolves to the lowest tier and
// +Inf to the terminal tier.
func ClassifySigma(sigma float64) string {
	for _, t := range tiers {
		if sigma < t.Supremum {
			return t.Label
		}
	}
	return terminalLabel
}
