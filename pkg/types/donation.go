package types

import "time"

const (
	DestinationLowIncome = "Bajo Recursos"
	DestinationZoo       = "Zoológico"
)

var DestinationChoices = []Choice{
	{Value: DestinationLowIncome, Label: "Bajo Recursos"},
	{Value: DestinationZoo, Label: "Zoológico"},
}

// FoodTypeSuggestions populate the food type select. Any non-empty label is accepted.
var FoodTypeSuggestions = []string{
	"Frutas y Verduras",
	"Carnes",
	"Granos y Cereales",
	"Alimento no perecible",
	"Lácteos",
}

// Donation is one intake record. DonorCity holds the city of the donor chosen
// at submission time, not a reference to the donor row.
type Donation struct {
	ID          int64     `db:"id"`
	DonorCity   string    `db:"donor_city"`
	Quantity    int       `db:"quantity"`
	ArrivalDate time.Time `db:"arrival_date"`
	FoodType    string    `db:"food_type"`
	Destination string    `db:"destination"`
}

// SummarizeDonations counts and sums the quantity of the donations that belong
// to city. An empty or unmatched set yields zero totals.
func SummarizeDonations(donations []*Donation, city string) DonorTotals {
	var totals DonorTotals
	for _, d := range donations {
		if d == nil || d.DonorCity != city {
			continue
		}
		totals.Donations++
		totals.Quantity += d.Quantity
	}
	return totals
}

type TriState string

const (
	TriStateUnset TriState = ""
	TriStateNo    TriState = "0"
	TriStateYes   TriState = "1"
)

var TriStateChoices = []Choice{
	{Value: string(TriStateNo), Label: "No"},
	{Value: string(TriStateYes), Label: "Sí"},
}

var FoodConditionChoices = []Choice{
	{Value: "1", Label: "Bueno"},
	{Value: "2", Label: "Regular"},
	{Value: "3", Label: "Malo"},
}

// FoodClassification is the optional perishable/non-perishable description a
// submitter may attach to a donation. It is reported in the confirmation mail
// and not persisted.
type FoodClassification struct {
	Perishable    bool
	NonPerishable bool
	Condition     string
	ExpiryDate    *time.Time
}
