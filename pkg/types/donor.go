package types

import "time"

type DonorClassification string

const (
	DonorIndividual   DonorClassification = "individual"
	DonorCompany      DonorClassification = "empresa"
	DonorOrganization DonorClassification = "organizacion"
	DonorInstitution  DonorClassification = "institucion"
)

type DonorStatus string

const (
	DonorActive    DonorStatus = "activo"
	DonorInactive  DonorStatus = "inactivo"
	DonorSuspended DonorStatus = "suspendido"
)

type Choice struct {
	Value string
	Label string
}

var DonorClassificationChoices = []Choice{
	{Value: string(DonorIndividual), Label: "Individual"},
	{Value: string(DonorCompany), Label: "Empresa"},
	{Value: string(DonorOrganization), Label: "Organización"},
	{Value: string(DonorInstitution), Label: "Institución"},
}

var DonorStatusChoices = []Choice{
	{Value: string(DonorActive), Label: "Activo"},
	{Value: string(DonorInactive), Label: "Inactivo"},
	{Value: string(DonorSuspended), Label: "Suspendido"},
}

// Donor is a person or entity contributing food. Donations refer to a donor
// only through the donor's city.
type Donor struct {
	ID               int64                `db:"id"`
	Name             *string              `db:"name"`
	Classification   *DonorClassification `db:"classification"`
	City             string               `db:"city"`
	Address          *string              `db:"address"`
	Phone            *string              `db:"phone"`
	Email            *string              `db:"email"`
	RegistrationDate *time.Time           `db:"registration_date"`
	Status           *DonorStatus         `db:"status"`
	Notes            *string              `db:"notes"`
	Latitude         *float64             `db:"lat"`
	Longitude        *float64             `db:"lon"`
}

// DisplayName is the donor name, or the city when the donor has none.
func (d *Donor) DisplayName() string {
	if d.Name != nil && *d.Name != "" {
		return *d.Name
	}
	return d.City
}

// ChoiceLabel is the label used in the donation form donor select.
func (d *Donor) ChoiceLabel() string {
	if d.Name != nil && *d.Name != "" {
		return *d.Name
	}
	return d.City + " (Sin Nombre)"
}

type DonorFilter struct {
	Classification string
	Status         string
	Search         string
}

// DonorTotals are derived on demand from the donation ledger and never stored.
type DonorTotals struct {
	Donations int `db:"total_donations"`
	Quantity  int `db:"total_quantity"`
}

type DonorWithTotals struct {
	*Donor
	Totals DonorTotals
}

func ChoiceLabel(choices []Choice, value string) string {
	for _, c := range choices {
		if c.Value == value {
			return c.Label
		}
	}
	return value
}

func IsChoice(choices []Choice, value string) bool {
	for _, c := range choices {
		if c.Value == value {
			return true
		}
	}
	return false
}
