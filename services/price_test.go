package services_test

import (
	"testing"

	"checkout-service/services"

	"github.com/stretchr/testify/assert"
)

func TestParsePriceMinorUnits(t *testing.T) {
	cases := []struct {
		name    string
		price   string
		want    int64
		wantErr bool
	}{
		{"comma decimal", "249,00 kr", 24900, false},
		{"dot decimal", "99.9", 9990, false},
		{"no decimal", "kr 100", 10000, false},
		{"grouping space", "1 299,50 kr", 129950, false},
		{"plain integer", "3000", 300000, false},
		{"no digits", "free", 0, true},
		{"empty", "", 0, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := services.ParsePriceMinorUnits(tc.price)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "50.00 NOK", services.FormatAmount(5000, "nok"))
	assert.Equal(t, "12.99 USD", services.FormatAmount(1299, "usd"))
	assert.Equal(t, "0.01 NOK", services.FormatAmount(1, "nok"))
}
