package indicator

import "strconv"

// Value: значение индикатора, которого может не быть (окно ещё не заполнено).
// Нулевое значение Value: «недоступно».
type Value struct {
	v  float64
	ok bool
}

func Some(v float64) Value { return Value{v: v, ok: true} }

func None() Value { return Value{} }

func (x Value) Get() (float64, bool) { return x.v, x.ok }

func (x Value) Valid() bool { return x.ok }

func (x Value) String() string {
	if !x.ok {
		return "n/a"
	}
	return strconv.FormatFloat(x.v, 'f', 3, 64)
}

// last возвращает последний элемент среза или None для пустого.
func last(xs []Value) Value {
	if len(xs) == 0 {
		return None()
	}
	return xs[len(xs)-1]
}
