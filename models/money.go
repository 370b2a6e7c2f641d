package models

import (
	"fmt"
	"math"
)

// Money is a fixed-precision amount in minor currency units (e.g. cents).
// All pricing arithmetic stays in integer space to avoid floating-point drift
// across repeated additions.
type Money int64

// AddMoney returns a+b, or an error when the sum would overflow.
func AddMoney(a, b Money) (Money, error) {
	if b > 0 && a > math.MaxInt64-b {
		return 0, fmt.Errorf("money overflow adding %d and %d", a, b)
	}
	if b < 0 && a < math.MinInt64-b {
		return 0, fmt.Errorf("money underflow adding %d and %d", a, b)
	}
	return a + b, nil
}

// MulMoney returns amount*factor, or an error when the product would overflow.
func MulMoney(amount Money, factor int64) (Money, error) {
	if factor == 0 || amount == 0 {
		return 0, nil
	}
	res := int64(amount) * factor
	if res/factor != int64(amount) {
		return 0, fmt.Errorf("money overflow multiplying %d by %d", amount, factor)
	}
	return Money(res), nil
}

// String renders the amount as a decimal with two fraction digits, the form
// the payment gateway expects in its status query.
func (m Money) String() string {
	sign := ""
	v := int64(m)
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}
