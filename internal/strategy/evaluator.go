package strategy

import (
	"fmt"
	"time"

	"fibobot/internal/indicator"
	"fibobot/internal/models"
)

// Reason: описание стратегии, уходит в сигнал.
const Reason = "EMA Trend + Fibo Retracement + RSI Crossover"

// Condition: условие, на котором остановилась проверка.
type Condition string

const (
	ConditionNone     Condition = ""
	ConditionData     Condition = "data"
	ConditionTrend    Condition = "trend"
	ConditionZone     Condition = "zone"
	ConditionMomentum Condition = "momentum"
)

// Params: неизменяемые параметры стратегии, передаются по значению.
type Params struct {
	Symbol        string
	EMAPeriod     int
	RSIPeriod     int
	RSIOversold   float64
	SwingLookback int
}

// Decision: итог одной проверки. Signal != nil только если прошли все условия,
// иначе Failed указывает первое проваленное, а Detail объясняет почему.
type Decision struct {
	Signal *models.Signal
	Failed Condition
	Detail string

	Leg  Leg
	Band Band
}

func (d Decision) HasSignal() bool { return d.Signal != nil }

// Evaluator проверяет три условия по порядку и выходит на первом провале.
type Evaluator struct {
	p   Params
	now func() time.Time
}

func NewEvaluator(p Params) *Evaluator {
	return &Evaluator{p: p, now: time.Now}
}

func (e *Evaluator) Params() Params { return e.p }

// Evaluate возвращает ошибку только на битых данных (время не растёт, индикатор
// не выровнен со свечами). Нехватка данных: обычный провал условия.
func (e *Evaluator) Evaluate(trend indicator.TrendSeries, mom indicator.MomentumSeries) (Decision, error) {
	if err := checkAligned(trend.Bars, len(trend.EMA), "slow"); err != nil {
		return Decision{}, err
	}
	if err := checkAligned(mom.Bars, len(mom.RSI), "fast"); err != nil {
		return Decision{}, err
	}

	lastSlow, ok := trend.Bars.Last()
	if !ok {
		return fail(ConditionData, "slow series is empty"), nil
	}
	lastFast, ok := mom.Bars.Last()
	if !ok {
		return fail(ConditionData, "fast series is empty"), nil
	}

	// 1. тренд на старшем ТФ
	ema, ok := trend.LastEMA().Get()
	if !ok {
		return fail(ConditionTrend, "EMA is not available yet"), nil
	}
	if !(lastSlow.Close > ema) {
		return fail(ConditionTrend, fmt.Sprintf("slow close (%.3f) is not above EMA (%.3f)", lastSlow.Close, ema)), nil
	}

	// 2. золотая зона
	leg, ok := ActiveLeg(trend.Bars, e.p.SwingLookback)
	if !ok {
		return fail(ConditionZone, "could not identify a valid swing structure"), nil
	}
	band := RetracementBand(leg)
	if !band.Contains(lastSlow.Close) {
		d := fail(ConditionZone, fmt.Sprintf("price (%.3f) is not in the golden zone (%.3f - %.3f)",
			lastSlow.Close, band.Lower, band.Upper))
		d.Leg, d.Band = leg, band
		return d, nil
	}

	// 3. RSI пересёк перепроданность снизу вверх ровно на последней свече
	prev, okPrev := mom.PrevRSI().Get()
	cur, okCur := mom.LastRSI().Get()
	if !okPrev || !okCur {
		d := fail(ConditionMomentum, fmt.Sprintf("RSI is not available (prev=%s last=%s)", mom.PrevRSI(), mom.LastRSI()))
		d.Leg, d.Band = leg, band
		return d, nil
	}
	if !(prev < e.p.RSIOversold && cur >= e.p.RSIOversold) {
		d := fail(ConditionMomentum, fmt.Sprintf("RSI (%.2f -> %.2f) did not just cross above %.2f", prev, cur, e.p.RSIOversold))
		d.Leg, d.Band = leg, band
		return d, nil
	}

	return Decision{
		Signal: &models.Signal{
			Symbol:     e.p.Symbol,
			EntryPrice: lastFast.Close,
			StopLoss:   leg.Low.Price,
			TakeProfit: ExtensionTarget(leg),
			Reason:     Reason,
			BarTime:    lastFast.Time,
			CreatedAt:  e.now(),
		},
		Leg:  leg,
		Band: band,
	}, nil
}

func fail(c Condition, detail string) Decision {
	return Decision{Failed: c, Detail: detail}
}

func checkAligned(bars models.Series, n int, name string) error {
	if n != len(bars) {
		return fmt.Errorf("%s series: %d indicator values for %d bars", name, n, len(bars))
	}
	if err := bars.Validate(); err != nil {
		return fmt.Errorf("%s series: %w", name, err)
	}
	return nil
}
