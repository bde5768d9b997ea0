package params

import (
	"encoding/json"
	"fmt"
	"math"
)

// Number is a float64 that serializes +Inf/-Inf as the strings
// "Infinity"/"-Infinity" instead of failing (encoding/json rejects
// non-finite float64 values outright), matching the wire convention
// for parameter float fields (spec.md §4.8).
type Number float64

var (
	posInf = Number(math.Inf(1))
	negInf = Number(math.Inf(-1))
)

func (n Number) MarshalJSON() ([]byte, error) {
	switch {
	case math.IsInf(float64(n), 1):
		return json.Marshal("Infinity")
	case math.IsInf(float64(n), -1):
		return json.Marshal("-Infinity")
	default:
		return json.Marshal(float64(n))
	}
}

func (n *Number) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		switch s {
		case "Infinity", "+Infinity":
			*n = posInf
		case "-Infinity":
			*n = negInf
		default:
			return fmt.Errorf("params: invalid number string %q", s)
		}
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*n = Number(f)
	return nil
}
