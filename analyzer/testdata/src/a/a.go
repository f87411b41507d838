package a

func literals() {
	a := 1
	b := a
	if a == b { // want `in fn literals: a == b: is always true`
	}
	if a != b { // want `in fn literals: a != b: is always false`
	}
	if (a) <= (b) { // want `in fn literals: a <= b: is always true`
	}
}

func ordering() {
	x := 1
	y := 2
	if y > x { // want `in fn ordering: y > x: is always true`
	}
	if x < y { // want `in fn ordering: x < y: is always true`
	}
	if x >= y { // want `in fn ordering: x >= y: is always false`
	}
}

func params(p, q uint, n int) {
	if p < q {
	}
	if n == int(p) {
	}
	one := 1
	if p >= uint(one) {
	}
	zero := 0
	if p < uint(zero) {
	}
}

func lowerBound(p uint) {
	var zero uint = 0
	if p < zero { // want `in fn lowerBound: p < zero: is always false`
	}
}

func nested() {
	a := 1
	if a > 0 {
		b := 1
		if a == b {
		}
	}
	for i := 0; i < 1; i++ {
		if a == a {
		}
	}
}

type T struct{}

func (t *T) method() {
	c := 0x10
	d := 16
	if c == d { // want `in fn T.method: c == d: is always true`
	}
}

func chain() {
	a := 7
	b := a
	c := b
	if c != a { // want `in fn chain: c != a: is always false`
	}
}
