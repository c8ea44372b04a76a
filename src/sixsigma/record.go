package sixsigma

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// SigmaValue marshals like a float64 but substitutes the "inf"/"-inf"
// sentinel strings for non-finite values, since JSON has no literal for
// them. Unmarshalling accepts both plain numbers and the sentinels.
type SigmaValue float64

func (s SigmaValue) MarshalJSON() ([]byte, error) {
	f := float64(s)
	switch {
	case math.IsInf(f, 1):
		return []byte(`"inf"`), nil
	case math.IsInf(f, -1):
		return []byte(`"-inf"`), nil
	}
	return json.Marshal(f)
}

func (s *SigmaValue) UnmarshalJSON(data []byte) error {
	var f float64
	if err := json.Unmarshal(data, &f); err == nil {
		*s = SigmaValue(f)
		return nil
	}
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return fmt.Errorf("sigma: expected number or sentinel, got %s", data)
	}
	switch str {
	case "inf", "+inf":
		*s = SigmaValue(math.Inf(1))
	case "-inf":
		*s = SigmaValue(math.Inf(-1))
	default:
		parsed, err := strconv.ParseFloat(str, 64)
		if err != nil {
			return fmt.Errorf("sigma: unrecognized sentinel %q", str)
		}
		*s = SigmaValue(parsed)
	}
	return nil
}

// FormatSigma renders sigma with the given precision (as in
// strconv.FormatFloat), substituting the signed-infinity sentinels for
// non-finite values.
func FormatSigma(sigma float64, prec int) string {
	switch {
	case math.IsInf(sigma, 1):
		return "inf"
	case math.IsInf(sigma, -1):
		return "-inf"
	}
	return strconv.FormatFloat(sigma, 'f', prec, 64)
}

// Record is the flat transport representation of one evaluated process.
// Field order is stable: raw fields first, derived fields after.
type Record struct {
	Tests      int        `json:"tests"`
	Fails      int        `json:"fails"`
	Name       *string    `json:"name"`
	DefectRate float64    `json:"defect_rate"`
	Sigma      SigmaValue `json:"sigma"`
	Label      string     `json:"label"`
}

// NewRecord flattens one evaluated process. An absent name becomes null.
func NewRecord(ep EvaluatedProcess) Record {
	var name *string
	if ep.Name != "" {
		n := ep.Name
		name = &n
	}
	return Record{
		Tests:      ep.Tests,
		Fails:      ep.Fails,
		Name:       name,
		DefectRate: ep.DefectRate,
		Sigma:      SigmaValue(ep.Sigma),
		Label:      ep.Label,
	}
}

// Records flattens an ordered batch, preserving input order.
func Records(batch []EvaluatedProcess) []Record {
	out := make([]Record, len(batch))
	for i, ep := range batch {
		out[i] = NewRecord(ep)
	}
	return out
}

// floatTol bounds the acceptable round-trip error on float fields.
const floatTol = 1e-9

// closeEnough is a type-aware float comparison: equal infinities compare
// equal, finite values compare within an absolute-or-relative tolerance.
func closeEnough(a, b float64) bool {
	if a == b {
		return true
	}
	diff := math.Abs(a - b)
	return diff <= floatTol || diff <= floatTol*math.Max(math.Abs(a), math.Abs(b))
}

// Equal compares field by field: exact equality for integers and strings,
// tolerance-based equality for floating-point fields.
func (r Record) Equal(o Record) bool {
	if r.Tests != o.Tests || r.Fails != o.Fails || r.Label != o.Label {
		return false
	}
	if (r.Name == nil) != (o.Name == nil) {
		return false
	}
	if r.Name != nil && *r.Name != *o.Name {
		return false
	}
	return closeEnough(r.DefectRate, o.DefectRate) && closeEnough(float64(r.Sigma), float64(o.Sigma))
}
