package indicator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fibobot/internal/models"
)

func TestEMA_ConstantSeriesConverges(t *testing.T) {
	prices := make([]float64, 50)
	for i := range prices {
		prices[i] = 1950
	}

	out := EMA(prices, 20)
	require.Len(t, out, len(prices))
	for i, v := range out {
		got, ok := v.Get()
		require.True(t, ok, "bar %d", i)
		assert.InDelta(t, 1950, got, 1e-9)
	}
}

func TestEMA_Recursive(t *testing.T) {
	// alpha = 2/(3+1) = 0.5
	out := EMA([]float64{10, 20, 30}, 3)

	want := []float64{10, 15, 22.5}
	for i, w := range want {
		got, ok := out[i].Get()
		require.True(t, ok)
		assert.InDelta(t, w, got, 1e-9)
	}
}

func TestEMA_ConvergesAfterShift(t *testing.T) {
	prices := []float64{100}
	for i := 0; i < 300; i++ {
		prices = append(prices, 200)
	}
	got, ok := last(EMA(prices, 10)).Get()
	require.True(t, ok)
	assert.InDelta(t, 200, got, 1e-6)
}

func TestEMA_Empty(t *testing.T) {
	assert.Empty(t, EMA(nil, 10))
}

func TestRSI_RisingSaturatesAt100(t *testing.T) {
	prices := make([]float64, 40)
	for i := range prices {
		prices[i] = 100 + float64(i)
	}

	out := RSI(prices, 14)
	for i := 13; i < len(out); i++ {
		got, ok := out[i].Get()
		require.True(t, ok)
		assert.Equal(t, 100.0, got)
	}
}

func TestRSI_FallingGoesToZero(t *testing.T) {
	prices := make([]float64, 40)
	for i := range prices {
		prices[i] = 500 - float64(i)
	}

	got, ok := last(RSI(prices, 14)).Get()
	require.True(t, ok)
	assert.InDelta(t, 0, got, 1e-9)
}

func TestRSI_FlatSeriesSaturates(t *testing.T) {
	got, ok := last(RSI([]float64{5, 5, 5, 5, 5}, 3)).Get()
	require.True(t, ok)
	assert.Equal(t, 100.0, got)
}

func TestRSI_UnavailablePrefix(t *testing.T) {
	prices := []float64{3, 1, 4, 1, 5, 9, 2, 6, 5, 3, 5, 8, 9, 7, 9, 3, 2, 3, 8, 4}

	for _, m := range []int{1, 2, 5, 14} {
		out := RSI(prices, m)
		require.Len(t, out, len(prices))
		for i, v := range out {
			assert.Equal(t, i >= m-1, v.Valid(), "period %d bar %d", m, i)
		}
	}
}

func TestRSI_ShorterThanWindow(t *testing.T) {
	out := RSI([]float64{1, 2, 3}, 14)
	require.Len(t, out, 3)
	for _, v := range out {
		assert.False(t, v.Valid())
	}
}

func TestRSI_KnownValue(t *testing.T) {
	// дельты: -3 -3 +3 -> avgGain 1, avgLoss 2, RS 0.5
	out := RSI([]float64{1957, 1954, 1951, 1948, 1951}, 3)

	prev, ok := out[3].Get()
	require.True(t, ok)
	assert.InDelta(t, 0, prev, 1e-9)

	got, ok := out[4].Get()
	require.True(t, ok)
	assert.InDelta(t, 100-100/1.5, got, 1e-9)
}

func TestValue_String(t *testing.T) {
	assert.Equal(t, "n/a", None().String())
	assert.Equal(t, "28.500", Some(28.5).String())
}

func TestEngine_ComputeAligned(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	var slow, fast models.Series
	for i := 0; i < 10; i++ {
		slow = append(slow, models.Bar{Time: start.Add(time.Duration(i) * 4 * time.Hour), Close: float64(100 + i)})
		fast = append(fast, models.Bar{Time: start.Add(time.Duration(i) * 30 * time.Minute), Close: float64(100 - i)})
	}

	trend, mom := NewEngine(5, 3).Compute(slow, fast)
	assert.Len(t, trend.EMA, len(slow))
	assert.Len(t, mom.RSI, len(fast))
	assert.True(t, trend.LastEMA().Valid())
	assert.True(t, mom.PrevRSI().Valid())

	// повторный вызов не зависит от предыдущего
	trend2, mom2 := NewEngine(5, 3).Compute(slow, fast)
	assert.Equal(t, trend.EMA, trend2.EMA)
	assert.Equal(t, mom.RSI, mom2.RSI)
}

func TestMomentumSeries_PrevRSIShort(t *testing.T) {
	m := MomentumSeries{RSI: []Value{Some(10)}}
	assert.False(t, m.PrevRSI().Valid())
	assert.True(t, m.LastRSI().Valid())
}
