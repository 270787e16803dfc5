// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2026.10.15
//

package gokalman

import (
	"errors"
	"math"
	"testing"
)

func TestHistoryMatrix(t *testing.T) {
	recs := testRecords(t)
	h, _ := Run(recs, testRunOpt())
	M := h.Matrix()
	r, c := M.Dims()
	if r != 4 || c != 7 {
		t.Fatalf("dims = %dx%d, want 4x7", r, c)
	}
	for i := range r {
		ea, ga, _ := h.At("a", i)
		eb, gb, _ := h.At("b", i)
		if M.At(i, 0) != ea.Time || M.At(i, 1) != ea.Belief.Mean || M.At(i, 2) != ea.Belief.Var || M.At(i, 3) != ga.Gain {
			t.Errorf("row %d channel a mismatch", i)
		}
		if M.At(i, 4) != eb.Belief.Mean || M.At(i, 5) != eb.Belief.Var || M.At(i, 6) != gb.Gain {
			t.Errorf("row %d channel b mismatch", i)
		}
	}
}

func TestHistoryAccessors(t *testing.T) {
	h, _ := Run(testRecords(t), testRunOpt())
	if _, _, err := h.At("a", 4); !errors.As(err, new(*OutOfRangeError)) {
		t.Errorf("At(a, 4) error = %v", err)
	}
	if _, _, err := h.At("zz", 0); KindOf(err) != Config {
		t.Errorf("At(zz, 0) error = %v", err)
	}
	if _, ok := h.Final("zz"); ok {
		t.Errorf("Final of unknown channel")
	}

	// Returned slices are copies
	e := h.Estimates("a")
	e[0].Belief.Mean = 1234
	if e2 := h.Estimates("a"); e2[0].Belief.Mean == 1234 {
		t.Errorf("history modified through Estimates()")
	}
	g := h.Gains("a")
	g[0].Gain = 2
	if g2 := h.Gains("a"); g2[0].Gain == 2 {
		t.Errorf("history modified through Gains()")
	}
}

func TestHistorySummary(t *testing.T) {
	recs := testRecords(t)
	h, _ := Run(recs, testRunOpt())
	sums, err := h.Summary(recs)
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if len(sums) != 2 || sums[0].Channel != "a" || sums[1].Channel != "b" {
		t.Fatalf("summaries = %+v", sums)
	}
	s := sums[0]
	if s.Steps != 4 {
		t.Errorf("steps = %d", s.Steps)
	}
	// The first innovation of a is 10 - 0, the following ones shrink
	est := h.Estimates("a")
	innov := []float64{10, 10 - est[0].Belief.Mean, 10 - est[1].Belief.Mean, 10 - est[2].Belief.Mean}
	mean := (innov[0] + innov[1] + innov[2] + innov[3]) / 4
	if math.Abs(s.InnovMean-mean) > 1e-12 {
		t.Errorf("innovation mean = %g, want %g", s.InnovMean, mean)
	}
	gains := h.Gains("a")
	if s.FinalGain != gains[3].Gain {
		t.Errorf("final gain = %g", s.FinalGain)
	}

	other, _ := Align(series("time", 0), series("a", 1), series("b", 1))
	if _, err := h.Summary(other); KindOf(err) != Alignment {
		t.Errorf("summary with other records: %v", err)
	}
}
