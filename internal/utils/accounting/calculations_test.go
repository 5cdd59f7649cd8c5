package accounting

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestMaturityAmount(t *testing.T) {
	tests := []struct {
		name      string
		principal string
		rate      string
		tenure    int
		want      string
	}{
		{"one year at seven percent", "1000", "7.00", 12, "1070.00"},
		{"six months at six percent", "1000", "6.00", 6, "1030.00"},
		{"three years at nine percent", "2500", "9.00", 36, "3175.00"},
		{"rounds half up", "1000.05", "7.00", 12, "1070.05"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MaturityAmount(dec(tt.principal), dec(tt.rate), tt.tenure)
			assert.True(t, dec(tt.want).Equal(got), "want %s got %s", tt.want, got)
		})
	}
}

func TestSimpleInterest(t *testing.T) {
	tests := []struct {
		name    string
		balance string
		rate    string
		days    int
		want    string
	}{
		{"thirty days", "10000", "4.00", 30, "32.88"},
		{"full year", "10000", "4.00", 365, "400.00"},
		{"zero balance", "0", "4.00", 30, "0"},
		{"negative balance", "-50", "4.00", 30, "0"},
		{"zero days", "10000", "4.00", 0, "0"},
		{"sub-cent rounds down", "1", "1.00", 1, "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SimpleInterest(dec(tt.balance), dec(tt.rate), tt.days, DefaultDayCount)
			assert.True(t, dec(tt.want).Equal(got), "want %s got %s", tt.want, got)
		})
	}
}

func TestPenaltyRate(t *testing.T) {
	assert.True(t, dec("6.00").Equal(PenaltyRate(dec("7.00"), dec("1.00"))))
	assert.True(t, decimal.Zero.Equal(PenaltyRate(dec("0.50"), dec("1.00"))))
}

func TestValidateAmount(t *testing.T) {
	assert.NoError(t, ValidateAmount(dec("100.25")))
	assert.Error(t, ValidateAmount(dec("0")))
	assert.Error(t, ValidateAmount(dec("-1")))
	assert.Error(t, ValidateAmount(dec("1.005")))
}
