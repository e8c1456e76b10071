package backend

import "github.com/aymaseguros/portal-api/internal/core/domain"

// Wire shapes of the core API. Field names follow the core's Spanish
// JSON; the mappers translate them to domain entities once, at the
// boundary.

type loginResponse struct {
	AccessToken string `json:"access_token"`
	Email       string `json:"email"`
	UserType    string `json:"tipo_usuario"`
}

type policyDTO struct {
	PolicyNumber   string              `json:"numero_poliza"`
	Company        string              `json:"compania"`
	CoverageType   string              `json:"tipo_cobertura"`
	Branch         string              `json:"ramo"`
	TotalPremium   domain.Premium      `json:"prima_total"`
	ExpirationDate string              `json:"fecha_vencimiento"`
	Status         domain.PolicyStatus `json:"estado"`
}

func (d policyDTO) toDomain() domain.Policy {
	return domain.Policy{
		PolicyNumber:   d.PolicyNumber,
		Company:        d.Company,
		CoverageType:   d.CoverageType,
		Branch:         d.Branch,
		TotalPremium:   d.TotalPremium,
		ExpirationDate: d.ExpirationDate,
		Status:         d.Status,
	}
}

type vehicleDTO struct {
	Plate string `json:"patente"`
	Brand string `json:"marca"`
	Model string `json:"modelo"`
	Year  int    `json:"anio"`
	Usage string `json:"uso"`
}

func (d vehicleDTO) toDomain() domain.Vehicle {
	return domain.Vehicle{
		Plate: d.Plate,
		Brand: d.Brand,
		Model: d.Model,
		Year:  d.Year,
		Usage: d.Usage,
	}
}

type clientDTO struct {
	Name     string  `json:"nombre"`
	Email    string  `json:"email"`
	Document string  `json:"documento"`
	Phone    string  `json:"telefono"`
	Scoring  float64 `json:"scoring"`
	Active   bool    `json:"activo"`
}

func (d clientDTO) toDomain() domain.Client {
	return domain.Client{
		Name:     d.Name,
		Email:    d.Email,
		Document: d.Document,
		Phone:    d.Phone,
		Scoring:  d.Scoring,
		Active:   d.Active,
	}
}
