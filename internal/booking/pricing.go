package booking

import "github.com/shopspring/decimal"

var (
	// ChildRate is the share of the unit price charged per child.
	ChildRate = decimal.RequireFromString("0.7")

	// InsurancePerPerson is quoted in the preferences step. It is not part of TotalPrice.
	InsurancePerPerson = decimal.NewFromInt(29)
)

// TotalPrice is unitPrice * (adults + children*0.7).
func TotalPrice(unitPrice decimal.Decimal, t Travelers) decimal.Decimal {
	units := decimal.NewFromInt(int64(t.Adults)).Add(decimal.NewFromInt(int64(t.Children)).Mul(ChildRate))
	return unitPrice.Mul(units)
}

// InsuranceQuote is the optional add-on price for every traveler.
func InsuranceQuote(t Travelers) decimal.Decimal {
	return InsurancePerPerson.Mul(decimal.NewFromInt(int64(t.Count())))
}
