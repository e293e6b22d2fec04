package wallet

import "github.com/shopspring/decimal"

// Funding takes a 0.5% fee off the credited amount. The fee is recorded on
// the DEPOSIT transaction record but not credited anywhere else.
var fundingFeeRate = decimal.NewFromFloat(0.005)

func FundingFee(amount decimal.Decimal) decimal.Decimal {
	return amount.Mul(fundingFeeRate).Round(2)
}
