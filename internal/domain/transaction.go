package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// MoneyPlaces is the scale of every stored amount.
const MoneyPlaces = 2

// Transaction is the finalized deal for a property.
type Transaction struct {
	ID              string
	PropertyID      string
	BuyerID         *string
	AgentID         *string
	ContractDate    time.Time
	TransactionDate time.Time
	TotalAmount     decimal.Decimal

	Property *Property
	Buyer    *Client
	Agent    *Employee
}

// TransactionTotal is the property price plus the service fee, or the price alone when fee is nil.
func TransactionTotal(price decimal.Decimal, fee *decimal.Decimal) decimal.Decimal {
	total := price
	if fee != nil {
		total = total.Add(*fee)
	}
	return total.Round(MoneyPlaces)
}
