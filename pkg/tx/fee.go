package tx

import (
	"fmt"
	"math/bits"
	"strings"
)

// Size model used for fee estimation. It overestimates a signed P2PKH
// input (~148 bytes) and output (34 bytes) and ignores the fixed overhead.
const (
	EstimatedInputSize  = 150
	EstimatedOutputSize = 40
)

// Speed selects a fee price tier.
type Speed int

const (
	SpeedFast Speed = iota
	SpeedMedium
	SpeedSlow
)

// DefaultSpeed is used when the caller does not choose a tier.
const DefaultSpeed = SpeedFast

// feePrices holds the price per estimated byte, in base units, per tier.
var feePrices = map[Speed]uint64{
	SpeedFast:   1002,
	SpeedMedium: 1001,
	SpeedSlow:   1000,
}

func (s Speed) String() string {
	switch s {
	case SpeedFast:
		return "fast"
	case SpeedMedium:
		return "medium"
	case SpeedSlow:
		return "slow"
	default:
		return fmt.Sprintf("Speed(%d)", int(s))
	}
}

// ParseSpeed parses "fast", "medium" or "slow" (case insensitive).
// An empty string yields DefaultSpeed.
func ParseSpeed(s string) (Speed, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return DefaultSpeed, nil
	case "fast":
		return SpeedFast, nil
	case "medium":
		return SpeedMedium, nil
	case "slow":
		return SpeedSlow, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownSpeed, s)
	}
}

// FeePrice returns the price per byte of a tier.
func FeePrice(s Speed) (uint64, error) {
	price, ok := feePrices[s]
	if !ok {
		return 0, fmt.Errorf("%w: %v", ErrUnknownSpeed, s)
	}
	return price, nil
}

// EstimatedSize returns the estimated size in bytes of a transaction with
// the given number of inputs and outputs. The result wraps for counts no
// real transaction can reach; CalculateFee checks for overflow.
func EstimatedSize(inputs, outputs int) uint64 {
	return uint64(inputs)*EstimatedInputSize + uint64(outputs)*EstimatedOutputSize
}

// CalculateFee returns EstimatedSize(inputs, outputs) * FeePrice(speed).
func CalculateFee(inputs, outputs int, speed Speed) (uint64, error) {
	if inputs < 0 || outputs < 0 {
		return 0, fmt.Errorf("negative input or output count")
	}
	price, err := FeePrice(speed)
	if err != nil {
		return 0, err
	}

	hiIn, inSize := bits.Mul64(uint64(inputs), EstimatedInputSize)
	hiOut, outSize := bits.Mul64(uint64(outputs), EstimatedOutputSize)
	size, carry := bits.Add64(inSize, outSize, 0)
	hiFee, fee := bits.Mul64(size, price)
	if hiIn|hiOut|carry|hiFee != 0 {
		return 0, ErrAmountOverflow
	}
	return fee, nil
}
