package indicator

import "fibobot/internal/models"

// TrendSeries: старший ТФ с EMA-фильтром тренда, EMA[i] относится к Bars[i].
type TrendSeries struct {
	Bars models.Series
	EMA  []Value
}

// LastEMA: EMA последней свечи.
func (t TrendSeries) LastEMA() Value { return last(t.EMA) }

// MomentumSeries: младший ТФ с RSI, RSI[i] относится к Bars[i].
type MomentumSeries struct {
	Bars models.Series
	RSI  []Value
}

func (m MomentumSeries) LastRSI() Value { return last(m.RSI) }

// PrevRSI: RSI предпоследней свечи.
func (m MomentumSeries) PrevRSI() Value {
	if len(m.RSI) < 2 {
		return None()
	}
	return m.RSI[len(m.RSI)-2]
}

// Engine считает индикаторы заново на каждом цикле, состояния между вызовами нет.
type Engine struct {
	emaPeriod int
	rsiPeriod int
}

func NewEngine(emaPeriod, rsiPeriod int) *Engine {
	return &Engine{emaPeriod: emaPeriod, rsiPeriod: rsiPeriod}
}

// Compute навешивает EMA на старшую серию и RSI на младшую.
func (e *Engine) Compute(slow, fast models.Series) (TrendSeries, MomentumSeries) {
	return TrendSeries{
			Bars: slow,
			EMA:  EMA(slow.Closes(), e.emaPeriod),
		}, MomentumSeries{
			Bars: fast,
			RSI:  RSI(fast.Closes(), e.rsiPeriod),
		}
}
