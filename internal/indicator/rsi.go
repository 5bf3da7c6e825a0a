package indicator

// RSI считает индекс относительной силы с простым скользящим средним прироста и
// падения за period шагов. Первая дельта считается нулевой, поэтому первые
// period-1 значений недоступны. При нулевом среднем падении RSI = 100.
func RSI(prices []float64, period int) []Value {
	out := make([]Value, len(prices))
	if period <= 0 || len(prices) < period {
		return out
	}

	gains := make([]float64, len(prices))
	losses := make([]float64, len(prices))
	for i := 1; i < len(prices); i++ {
		d := prices[i] - prices[i-1]
		if d > 0 {
			gains[i] = d
		} else {
			losses[i] = -d
		}
	}

	// скользящие суммы; пересчитываем окно целиком, чтобы не копить ошибку округления
	p := float64(period)
	for i := period - 1; i < len(prices); i++ {
		var sumGain, sumLoss float64
		for j := i - period + 1; j <= i; j++ {
			sumGain += gains[j]
			sumLoss += losses[j]
		}
		avgGain := sumGain / p
		avgLoss := sumLoss / p

		if avgLoss == 0 {
			out[i] = Some(100)
			continue
		}
		rs := avgGain / avgLoss
		out[i] = Some(100 - 100/(1+rs))
	}
	return out
}
