package custom

type u64 = uint64

func f(p u64, q uint) {
	z := u64(0)
	var w u64 = 0
	if w > p { // want `in fn f: w > p: is always false`
	}
	if uint(w) > q {
	}
	if p > z {
	}
}
