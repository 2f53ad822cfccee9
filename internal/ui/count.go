package ui

import (
	"math/big"

	"github.com/dustin/go-humanize"
)

// Count formats a kernel counter with thousands separators. Counters are
// uint64 and may exceed the int64 range humanize.Comma takes.
func Count(v uint64) string {
	return humanize.BigComma(new(big.Int).SetUint64(v))
}
