package payment

import (
	"fmt"

	"github.com/shopspring/decimal"
)

type Method string

const (
	MethodCard         Method = "card"
	MethodBankTransfer Method = "bank-transfer"
	MethodInstallments Method = "installments"
)

func ParseMethod(s string) (Method, error) {
	switch Method(s) {
	case MethodCard, MethodBankTransfer, MethodInstallments:
		return Method(s), nil
	default:
		return "", fmt.Errorf("unknown payment method: %s", s)
	}
}

type CurrencyScale int32

const DefaultCurrencyScale CurrencyScale = 2

// DepositPercent is charged up front when paying in installments.
var DepositPercent = decimal.NewFromInt(30)

type Quote struct {
	Method      Method          `json:"method"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	Deposit     decimal.Decimal `json:"deposit"`
	Remaining   decimal.Decimal `json:"remaining"`
	AmountToPay decimal.Decimal `json:"amountToPay"`
}

// NewQuote splits total into deposit and remaining balance.
//
// Rules:
//   - A missing total is treated as zero.
//   - The deposit is rounded to the currency scale; remaining absorbs the
//     rounding so deposit + remaining always equals the total.
//   - Installments pay the deposit now; every other method pays the total.
func NewQuote(total *decimal.Decimal, method Method) Quote {
	amount := decimal.Zero
	if total != nil {
		amount = *total
	}
	deposit := amount.Mul(DepositPercent).Div(decimal.NewFromInt(100)).Round(int32(DefaultCurrencyScale))
	remaining := amount.Sub(deposit)

	toPay := amount
	if method == MethodInstallments {
		toPay = deposit
	}
	return Quote{
		Method:      method,
		TotalAmount: amount,
		Deposit:     deposit,
		Remaining:   remaining,
		AmountToPay: toPay,
	}
}
