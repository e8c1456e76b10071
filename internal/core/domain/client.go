package domain

// Client is a brokerage client record from the admin client list.
type Client struct {
	Name     string  `json:"name"`
	Email    string  `json:"email"`
	Document string  `json:"document"`
	Phone    string  `json:"phone"`
	Scoring  float64 `json:"scoring"`
	Active   bool    `json:"active"`
}
