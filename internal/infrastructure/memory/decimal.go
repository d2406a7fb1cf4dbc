package memory

import "github.com/shopspring/decimal"

func decimalInt(n int) decimal.Decimal { return decimal.NewFromInt(int64(n)) }
