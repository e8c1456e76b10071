package domain

import "encoding/json"

// ViewModel is the merged dashboard state for one user. It is rebuilt
// wholesale on each aggregation pass and swapped atomically — no
// observer ever sees old vehicles mixed with new policies.
//
// Summary is kept opaque: the core API owns its shape and the portal
// only passes it through.
type ViewModel struct {
	Summary      json.RawMessage `json:"summary,omitempty"`
	Policies     []Policy        `json:"policies"`
	Vehicles     []Vehicle       `json:"vehicles"`
	Clients      []Client        `json:"clients"`
	TotalPremium float64         `json:"total_premium"`
	Error        string          `json:"error,omitempty"`
}

// EmptyViewModel returns a zero dashboard with non-nil slices so the
// JSON rendering is `[]`, never `null`.
func EmptyViewModel() ViewModel {
	return ViewModel{
		Policies: []Policy{},
		Vehicles: []Vehicle{},
		Clients:  []Client{},
	}
}
