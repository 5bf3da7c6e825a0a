package strategy

import (
	"time"

	"fibobot/internal/models"
)

// SwingPoint: экстремум старшей серии.
type SwingPoint struct {
	Index int
	Time  time.Time
	Price float64
}

// Leg описывает активную волну от свинг-лоу к свинг-хаю.
type Leg struct {
	Low  SwingPoint
	High SwingPoint
}

// Range: высота волны.
func (l Leg) Range() float64 { return l.High.Price - l.Low.Price }

// SwingPoints возвращает индексы свинг-хаёв (пики High) и свинг-лоу (пики -Low)
// с минимальным расстоянием lookback свечей между экстремумами одного вида.
func SwingPoints(bars models.Series, lookback int) (highs, lows []int) {
	highs = FindPeaks(bars.Highs(), lookback)

	neg := bars.Lows()
	for i := range neg {
		neg[i] = -neg[i]
	}
	lows = FindPeaks(neg, lookback)
	return highs, lows
}

// ActiveLeg выбирает волну для расчёта зоны Фибоначчи.
//
// Если последний лоу раньше последнего хая: волна (последний лоу, последний хай).
// Иначе цена уже сделала новый лоу после хая: берём предпоследний лоу и первый хай,
// который строго позже него. Нужно минимум два лоу и один хай.
func ActiveLeg(bars models.Series, lookback int) (Leg, bool) {
	highs, lows := SwingPoints(bars, lookback)
	if len(lows) < 2 || len(highs) == 0 {
		return Leg{}, false
	}

	lastHigh := highs[len(highs)-1]
	lastLow := lows[len(lows)-1]

	if bars[lastLow].Time.Before(bars[lastHigh].Time) {
		return newLeg(bars, lastLow, lastHigh), true
	}

	prevLow := lows[len(lows)-2]
	for _, h := range highs {
		if bars[h].Time.After(bars[prevLow].Time) {
			return newLeg(bars, prevLow, h), true
		}
	}
	return Leg{}, false
}

func newLeg(bars models.Series, low, high int) Leg {
	return Leg{
		Low:  SwingPoint{Index: low, Time: bars[low].Time, Price: bars[low].Low},
		High: SwingPoint{Index: high, Time: bars[high].Time, Price: bars[high].High},
	}
}
