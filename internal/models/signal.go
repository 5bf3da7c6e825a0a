package models

import "time"

// Signal: сигнал на покупку, отдаётся нотифайеру один раз.
type Signal struct {
	Symbol     string
	EntryPrice float64
	StopLoss   float64
	TakeProfit float64
	Reason     string

	// BarTime: время младшей свечи, на которой сработал сигнал.
	BarTime   time.Time
	CreatedAt time.Time
}
