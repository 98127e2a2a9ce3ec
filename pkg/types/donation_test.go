package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSummarizeDonations(t *testing.T) {
	donations := []*Donation{
		{ID: 1, DonorCity: "Springfield", Quantity: 40},
		{ID: 2, DonorCity: "Shelbyville", Quantity: 12},
		nil,
		{ID: 3, DonorCity: "Springfield", Quantity: 5},
	}

	assert.Equal(t, DonorTotals{Donations: 2, Quantity: 45}, SummarizeDonations(donations, "Springfield"))
	assert.Equal(t, DonorTotals{}, SummarizeDonations(donations, "Ogdenville"))
	assert.Equal(t, DonorTotals{}, SummarizeDonations(nil, "Springfield"))
}
