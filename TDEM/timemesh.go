package TDEM

import "fmt"

// StepSpec requests n consecutive steps of width dt.
type StepSpec struct {
	Dt float64
	N  int
}

// TimeMesh expands step specs into per step widths and cumulative times.
// Steps are indexed from 0, time index -1 addresses t = 0 ahead of the
// first step.
type TimeMesh struct {
	dts   []float64
	times []float64
}

func NewTimeMesh(specs []StepSpec) (tm *TimeMesh) {
	tm = &TimeMesh{}
	for _, s := range specs {
		if s.Dt <= 0 || s.N <= 0 {
			err := fmt.Errorf("invalid step spec, dt = %v over %v steps", s.Dt, s.N)
			panic(err)
		}
		for i := 0; i < s.N; i++ {
			tm.dts = append(tm.dts, s.Dt)
		}
	}
	if len(tm.dts) == 0 {
		panic("time mesh must have at least one step")
	}
	var t float64
	tm.times = make([]float64, len(tm.dts))
	for i, dt := range tm.dts {
		t += dt
		tm.times[i] = t
	}
	return
}

func (tm *TimeMesh) NT() int {
	return len(tm.dts)
}

func (tm *TimeMesh) Dt(tInd int) float64 {
	tm.checkIndex(tInd, 0)
	return tm.dts[tInd]
}

// Time returns the time at the end of step tInd, with Time(-1) = 0.
func (tm *TimeMesh) Time(tInd int) float64 {
	tm.checkIndex(tInd, -1)
	if tInd == -1 {
		return 0
	}
	return tm.times[tInd]
}

// Bracket locates time t within the stepping, returning the step index
// tInd whose interval [Time(tInd-1), Time(tInd)] contains t and the
// linear weight w of the interval's right end.
func (tm *TimeMesh) Bracket(t float64) (tInd int, w float64, err error) {
	tEnd := tm.times[len(tm.times)-1]
	if t < 0 || t > tEnd {
		err = fmt.Errorf("time %v outside of [0,%v]", t, tEnd)
		return
	}
	for tm.times[tInd] < t {
		tInd++
	}
	w = (t - tm.Time(tInd-1)) / tm.dts[tInd]
	return
}

func (tm *TimeMesh) checkIndex(tInd, min int) {
	if tInd < min || tInd >= len(tm.dts) {
		err := fmt.Errorf("time index %v out of range [%v,%v]", tInd, min, len(tm.dts)-1)
		panic(err)
	}
}
