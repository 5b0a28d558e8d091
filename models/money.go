package models

import (
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

// Money is a price in minor currency units (VND has no subunit, so 50000
// means 50,000 ₫). Catalog documents written by the scraper carry prices
// either as numbers or as formatted strings ("299.000 ₫"); both decode
// into Money, so nothing downstream branches on the stored type.
type Money int64

// ParseMoney strips every non-digit character and parses the remainder.
// Unparseable input yields 0 rather than an error: a malformed price must
// never block a cart mutation, but it must never inflate a total either.
func ParseMoney(s string) Money {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return 0
	}
	n, err := strconv.ParseInt(b.String(), 10, 64)
	if err != nil {
		return 0
	}
	return Money(n)
}

func (m Money) Int64() int64 { return int64(m) }

func (m Money) MarshalBSONValue() (bsontype.Type, []byte, error) {
	return bson.MarshalValue(int64(m))
}

func (m *Money) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	rv := bson.RawValue{Type: t, Value: data}
	switch t {
	case bsontype.String:
		*m = ParseMoney(rv.StringValue())
	case bsontype.Int32:
		*m = Money(rv.Int32())
	case bsontype.Int64:
		*m = Money(rv.Int64())
	case bsontype.Double:
		*m = Money(rv.Double())
	default:
		*m = 0
	}
	return nil
}
