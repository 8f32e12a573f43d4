package utils

import (
	"math"
)

func ConstArray(N int, val float64) (v []float64) {
	v = make([]float64, N)
	for i := range v {
		v[i] = val
	}
	return
}

func POW(x float64, pp int) (y float64) {
	var (
		p       = pp
		flipped bool
	)
	if pp > 8 || pp < -8 {
		goto MATHPOW
	}

	if p < 0 {
		p = -pp
		flipped = true
	}
	switch p {
	case 0:
		y = 1
	case 1:
		y = x
	case 2:
		y = x * x
	case 3:
		y = x * x * x
	case 4:
		y = x * x
		y = y * y
	case 5:
		y = x * x
		y = y * y * x
	case 6:
		y = x * x
		y = y * y * y
	case 7:
		y = x * x
		y = y * y * y * x
	case 8:
		y = x * x
		y = y * y * y * y
	}
	if flipped {
		y = 1. / y
	}
	return

MATHPOW:
	y = math.Pow(x, float64(p))
	return
}

// LogSpace returns n values spaced evenly on a log scale between 10**begin
// and 10**end inclusive.
func LogSpace(begin, end float64, n int) (v []float64) {
	v = make([]float64, n)
	if n == 1 {
		v[0] = math.Pow(10, begin)
		return
	}
	var (
		dx = (end - begin) / float64(n-1)
	)
	for i := range v {
		v[i] = math.Pow(10, begin+float64(i)*dx)
	}
	return
}
