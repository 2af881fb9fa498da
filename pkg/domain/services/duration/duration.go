// Package duration implements the Duration Calculator (§4.1): converting a
// (time, rate unit, quantity) tuple into hours, and an operation's setup/labor/machine
// time values into the two duration signals the rest of the engine uses.
package duration

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/vsinha/opsched/pkg/domain/entities"
)

// Hours converts a TimeValue and quantity into hours per the §4.1 unit table. Missing
// time or unit yields 0; missing quantity defaults to 1 (handled by the caller via
// entities.Operation.QuantityOrDefault).
func Hours(tv entities.TimeValue, quantity float64) float64 {
	if tv.Time == nil || tv.Unit == entities.UnknownRateUnit {
		return 0
	}

	t := decimal.NewFromFloat(*tv.Time)
	q := decimal.NewFromFloat(quantity)

	var hours decimal.Decimal
	switch tv.Unit {
	case entities.TotalHours:
		hours = t
	case entities.TotalMinutes:
		hours = t.Div(decimal.NewFromInt(60))
	case entities.HoursPerPiece:
		hours = t.Mul(q)
	case entities.HoursPer100Pieces:
		hours = t.Mul(q).Div(decimal.NewFromInt(100))
	case entities.HoursPer1000Pieces:
		hours = t.Mul(q).Div(decimal.NewFromInt(1000))
	case entities.MinutesPerPiece:
		hours = t.Mul(q).Div(decimal.NewFromInt(60))
	case entities.MinutesPer100Pieces:
		hours = t.Mul(q).Div(decimal.NewFromInt(6000))
	case entities.MinutesPer1000Pieces:
		hours = t.Mul(q).Div(decimal.NewFromInt(60000))
	case entities.SecondsPerPiece:
		hours = t.Mul(q).Div(decimal.NewFromInt(3600))
	case entities.PiecesPerHour:
		if t.Sign() <= 0 {
			return 0
		}
		hours = q.Div(t)
	case entities.PiecesPerMinute:
		if t.Sign() <= 0 {
			return 0
		}
		hours = q.Div(t.Mul(decimal.NewFromInt(60)))
	default:
		return 0
	}

	f, _ := hours.Float64()
	return f
}

// OperationHours computes an operation's total hours: setup + max(labor, machine),
// because labor and machine time overlap (§4.1).
func OperationHours(op entities.Operation) float64 {
	qty := op.QuantityOrDefault()

	setup := Hours(op.Setup, qty)
	labor := Hours(op.Labor, qty)
	machine := Hours(op.Machine, qty)

	return setup + math.Max(labor, machine)
}

// OperationDays computes an operation's duration in whole business days:
// max(ceil(totalHours / 8), 1) (§4.1).
func OperationDays(totalHours float64) int {
	days := int(math.Ceil(totalHours / 8))
	if days < 1 {
		return 1
	}
	return days
}

// Duration returns both duration signals for an operation in one call, since every
// caller in the scheduling strategy needs both.
func Duration(op entities.Operation) (hours float64, days int) {
	hours = OperationHours(op)
	days = OperationDays(hours)
	return hours, days
}
