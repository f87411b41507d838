package nonsymmetric

func f() {
	x := 1
	y := 2
	if x < y {
	}
	if x >= y {
	}
	if y > x { // want `in fn f: y > x: is always true`
	}
	if y == x { // want `in fn f: y == x: is always false`
	}
}
