package dto

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Money renders an amount as a JSON number with two decimals.
func Money(d decimal.Decimal) json.Number {
	return json.Number(d.StringFixed(2))
}

func moneyMap(in map[string]decimal.Decimal) map[string]json.Number {
	out := make(map[string]json.Number, len(in))
	for k, v := range in {
		out[k] = Money(v)
	}
	return out
}
