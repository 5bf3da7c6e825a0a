package indicator

// EMA считает экспоненциальную среднюю по всей серии.
// alpha = 2/(period+1), затравка: первая цена, поэтому значение есть у каждой свечи.
func EMA(prices []float64, period int) []Value {
	out := make([]Value, len(prices))
	if period <= 0 || len(prices) == 0 {
		return out
	}

	alpha := 2.0 / (float64(period) + 1)
	ema := prices[0]
	out[0] = Some(ema)
	for i := 1; i < len(prices); i++ {
		ema = prices[i]*alpha + ema*(1-alpha)
		out[i] = Some(ema)
	}
	return out
}
