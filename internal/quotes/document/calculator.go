package document

import "errors"

// Procurement fee charged by the public procurement service, in basis points
// of the goods subtotal (0.54%).
const (
	FeeRateBps   = 54
	FeeRateLabel = "0.54%"
)

// MaxSubtotal bounds the goods subtotal so every amount on the sheet stays
// exact as a spreadsheet double and the fee never overflows.
const MaxSubtotal int64 = 1_000_000_000_000_000

// ErrAmountOverflow reports a quotation whose amounts exceed MaxSubtotal.
var ErrAmountOverflow = errors.New("quotation amount exceeds the supported range")

// Totals are the amounts announced on the quotation.
type Totals struct {
	Subtotal int64
	Fee      int64
	Total    int64
}

// CalculateTotals sums quantity × unit price over items and applies the
// procurement fee, rounded half away from zero to whole won. The fee is
// always applied; display flags never change the numbers.
func CalculateTotals(items []LineItem) Totals {
	var subtotal int64
	for _, item := range items {
		subtotal += item.Amount()
	}
	fee := roundBps(subtotal, FeeRateBps)
	return Totals{Subtotal: subtotal, Fee: fee, Total: subtotal + fee}
}

func roundBps(amount int64, bps int64) int64 {
	scaled := amount * bps
	if scaled < 0 {
		return -((-scaled + 5000) / 10000)
	}
	return (scaled + 5000) / 10000
}

// CheckAmounts reports ErrAmountOverflow when any line amount or the running
// subtotal would exceed MaxSubtotal. It must pass before CalculateTotals.
func CheckAmounts(items []LineItem) error {
	var subtotal int64
	for _, item := range items {
		if item.Quantity < 0 || item.UnitPrice < 0 {
			return ErrAmountOverflow
		}
		if item.Quantity != 0 && item.UnitPrice > MaxSubtotal/item.Quantity {
			return ErrAmountOverflow
		}
		amount := item.Amount()
		if amount > MaxSubtotal-subtotal {
			return ErrAmountOverflow
		}
		subtotal += amount
	}
	return nil
}
