package strategy

import "sort"

// FindPeaks ищет локальные максимумы x так же, как scipy.signal.find_peaks с
// параметром distance: крайние точки не считаются пиками, у плоской вершины
// берётся середина (с округлением вниз), затем из пиков, стоящих ближе distance
// свечей друг к другу, остаётся более высокий.
//
// При равной высоте соседних пиков раньше обрабатывается правый, и он вытесняет левый.
func FindPeaks(x []float64, distance int) []int {
	peaks := localMaxima(x)
	if distance <= 1 || len(peaks) < 2 {
		return peaks
	}
	return selectByDistance(x, peaks, distance)
}

func localMaxima(x []float64) []int {
	var peaks []int
	iMax := len(x) - 1
	for i := 1; i < iMax; i++ {
		if x[i-1] >= x[i] {
			continue
		}
		ahead := i + 1
		for ahead < iMax && x[ahead] == x[i] {
			ahead++
		}
		if x[ahead] < x[i] {
			left, right := i, ahead-1
			peaks = append(peaks, (left+right)/2)
			i = ahead
		}
	}
	return peaks
}

func selectByDistance(x []float64, peaks []int, distance int) []int {
	keep := make([]bool, len(peaks))
	for i := range keep {
		keep[i] = true
	}

	// порядок обработки: от высоких к низким
	order := make([]int, len(peaks))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return x[peaks[order[a]]] < x[peaks[order[b]]]
	})

	for i := len(order) - 1; i >= 0; i-- {
		j := order[i]
		if !keep[j] {
			continue
		}
		for k := j - 1; k >= 0 && peaks[j]-peaks[k] < distance; k-- {
			keep[k] = false
		}
		for k := j + 1; k < len(peaks) && peaks[k]-peaks[j] < distance; k++ {
			keep[k] = false
		}
	}

	out := make([]int, 0, len(peaks))
	for i, p := range peaks {
		if keep[i] {
			out = append(out, p)
		}
	}
	return out
}
