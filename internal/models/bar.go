package models

import (
	"fmt"
	"time"
)

// Bar: одна свеча OHLC.
type Bar struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64

	// Confirmed=false у последней, ещё формирующейся свечи.
	Confirmed bool
}

// Series: свечи одного инструмента по возрастанию времени.
type Series []Bar

// Validate проверяет, что время строго возрастает.
func (s Series) Validate() error {
	for i := 1; i < len(s); i++ {
		if !s[i].Time.After(s[i-1].Time) {
			return fmt.Errorf("bars %d and %d are not strictly increasing in time (%s >= %s)",
				i-1, i, s[i-1].Time.Format(time.RFC3339), s[i].Time.Format(time.RFC3339))
		}
	}
	return nil
}

func (s Series) Closes() []float64 {
	out := make([]float64, len(s))
	for i, b := range s {
		out[i] = b.Close
	}
	return out
}

func (s Series) Highs() []float64 {
	out := make([]float64, len(s))
	for i, b := range s {
		out[i] = b.High
	}
	return out
}

func (s Series) Lows() []float64 {
	out := make([]float64, len(s))
	for i, b := range s {
		out[i] = b.Low
	}
	return out
}

// Last возвращает последнюю свечу; ok=false для пустой серии.
func (s Series) Last() (Bar, bool) {
	if len(s) == 0 {
		return Bar{}, false
	}
	return s[len(s)-1], true
}
