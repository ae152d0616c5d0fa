package domain

import (
	"time"

	"github.com/google/uuid"
)

// DailySpend tracks how much a beneficiary has spent at vendors within the
// current accounting day. The row is reset lazily: when the day index moves
// past DayIndex the stored amount no longer counts.
type DailySpend struct {
	AccountID   uuid.UUID `json:"account_id"`
	DayIndex    int64     `json:"day_index"`
	SpentAmount int64     `json:"spent_amount"`
}

// DayIndexAt computes the accounting day index for a timestamp.
// Both the limiter and the spent-today query must use this function so that
// enforcement and observation never disagree about the day boundary.
func DayIndexAt(t time.Time, dayLength time.Duration) int64 {
	return t.Unix() / int64(dayLength.Seconds())
}

// SpentOn returns the amount that counts against the cap on the given day.
// A stored row from an earlier day contributes nothing.
func (d *DailySpend) SpentOn(dayIndex int64) int64 {
	if d == nil || d.DayIndex < dayIndex {
		return 0
	}
	return d.SpentAmount
}
