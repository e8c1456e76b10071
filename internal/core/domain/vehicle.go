package domain

// Vehicle is an insured vehicle snapshot as supplied by the core API.
type Vehicle struct {
	Plate string `json:"plate"`
	Brand string `json:"brand"`
	Model string `json:"model"`
	Year  int    `json:"year"`
	Usage string `json:"usage"`
}
