package domain

import (
	"bytes"
	"strconv"
)

// Premium is a policy premium amount. The core API is inconsistent
// about the wire type (sometimes a JSON number, sometimes a quoted
// string), so decoding is defensive: anything non-numeric becomes 0
// rather than failing the whole policy list.
type Premium float64

func (p *Premium) UnmarshalJSON(data []byte) error {
	s := string(bytes.Trim(bytes.TrimSpace(data), `"`))
	if s == "" || s == "null" {
		*p = 0
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		*p = 0
		return nil
	}
	*p = Premium(v)
	return nil
}
