package types

// LowIncomeAllocation assigns a donation to relief for a low-income area.
type LowIncomeAllocation struct {
	ID         int64  `db:"id"`
	City       string `db:"city"`
	DonationID int64  `db:"donation_id"`
}

type AnimalCategory int

const (
	AnimalMammals    AnimalCategory = 1
	AnimalBirds      AnimalCategory = 2
	AnimalReptiles   AnimalCategory = 3
	AnimalAmphibians AnimalCategory = 4
)

var AnimalCategoryChoices = []Choice{
	{Value: "1", Label: "Mamíferos"},
	{Value: "2", Label: "Aves"},
	{Value: "3", Label: "Reptiles"},
	{Value: "4", Label: "Anfibios"},
}

func (c AnimalCategory) Valid() bool {
	return c >= AnimalMammals && c <= AnimalAmphibians
}

func (c AnimalCategory) Label() string {
	switch c {
	case AnimalMammals:
		return "Mamíferos"
	case AnimalBirds:
		return "Aves"
	case AnimalReptiles:
		return "Reptiles"
	case AnimalAmphibians:
		return "Anfibios"
	default:
		return "Desconocido"
	}
}

// ZooAllocation assigns a donation to the zoo animal-care programme.
type ZooAllocation struct {
	ID             int64          `db:"id"`
	Species        string         `db:"species"`
	Workers        string         `db:"workers"`
	AnimalCategory AnimalCategory `db:"animal_category"`
	DonationID     int64          `db:"donation_id"`
}
