package tx

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// BaseUnit is the number of base units in one coin (1 BTC = 1e8 satoshi).
const BaseUnit uint64 = 100_000_000

// AmountDecimals is the number of fractional digits a coin amount may carry.
const AmountDecimals = 8

// DefaultDust is the change threshold below which change is left to the fee.
const DefaultDust = BaseUnit / 10

// ParseAmount converts a decimal coin amount into base units.
//
// i.e. "0.00118307" converts to 118307 and "1.5" to 150000000.
// At most AmountDecimals fractional digits are accepted; signs, exponents
// and any other characters are rejected.
func ParseAmount(s string) (uint64, error) {
	if s == "" {
		return 0, fmt.Errorf("%w: empty", ErrInvalidAmount)
	}

	whole, frac, hasPoint := strings.Cut(s, ".")
	if whole == "" && frac == "" {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	if hasPoint && frac == "" {
		return 0, fmt.Errorf("%w: %q has no digits after the point", ErrInvalidAmount, s)
	}
	if len(frac) > AmountDecimals {
		return 0, fmt.Errorf("%w: %q has more than %d decimals", ErrInvalidAmount, s, AmountDecimals)
	}

	v := uint64(0)
	digits := whole + frac + strings.Repeat("0", AmountDecimals-len(frac))
	for _, c := range digits {
		if c < '0' || c > '9' {
			return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
		}
		d := uint64(c - '0')
		if v > (math.MaxUint64-d)/10 {
			return 0, fmt.Errorf("%w: %q", ErrAmountOverflow, s)
		}
		v = v*10 + d
	}
	return v, nil
}

// FormatAmount renders base units as a decimal coin amount, trimming
// trailing fractional zeros.
func FormatAmount(v uint64) string {
	whole := strconv.FormatUint(v/BaseUnit, 10)
	frac := v % BaseUnit
	if frac == 0 {
		return whole
	}
	f := fmt.Sprintf("%08d", frac)
	return whole + "." + strings.TrimRight(f, "0")
}
