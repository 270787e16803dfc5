// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2026.10.15
//

package gokalman

import (
	"errors"
	"strings"
	"testing"
)

// Write the odometry files of the three row scenario
func odometryFiles(t *testing.T, gyro string) (string, string, string) {
	t.Helper()
	dir := t.TempDir()
	return writeFile(t, dir, "time.csv", "0.0\n0.1\n0.2\n"),
		writeFile(t, dir, "u_wheel.csv", "1.0\n1.1\n1.2\n"),
		writeFile(t, dir, "u_gyro.csv", gyro)
}

func series(name string, vals ...float64) *Series {
	s := NewSeries(name, "", len(vals))
	for i, v := range vals {
		s.Dat = append(s.Dat, Sample{Time: float64(i), Value: v, Var: 1})
	}
	return s
}

func TestAlignOdometry(t *testing.T) {
	tf, wf, gf := odometryFiles(t, "0.0\n0.01\n0.02\n")
	recs, err := LoadOdometry(tf, wf, gf, 0.01, 0.0001)
	if err != nil {
		t.Fatalf("LoadOdometry: %v", err)
	}
	if recs.Len() != 3 {
		t.Fatalf("records = %d, want 3", recs.Len())
	}
	r, err := recs.At(1)
	if err != nil {
		t.Fatalf("At(1): %v", err)
	}
	if r.Time != 0.1 || r.Values[CH_WHEEL].Value != 1.1 || r.Values[CH_GYRO].Value != 0.01 {
		t.Errorf("record 1 = %+v, want {time: 0.1, wheel: 1.1, gyro: 0.01}", r)
	}
	if r.Values[CH_WHEEL].Var != 0.01 || r.Values[CH_GYRO].Var != 0.0001 {
		t.Errorf("fallback variances not applied: %+v", r.Values)
	}
	if got := strings.Join(recs.Channels(), ","); got != "wheel,gyro" {
		t.Errorf("channels = %s", got)
	}
}

func TestAlignMismatch(t *testing.T) {
	tf, wf, gf := odometryFiles(t, "0.0\n0.01\n")
	_, err := LoadOdometry(tf, wf, gf, 0.01, 0.0001)
	var ae *AlignmentError
	if !errors.As(err, &ae) {
		t.Fatalf("error = %v, want AlignmentError", err)
	}
	want := []ChannelCount{{CH_TIME, 3}, {CH_WHEEL, 3}, {CH_GYRO, 2}}
	if len(ae.Counts) != len(want) {
		t.Fatalf("counts = %+v", ae.Counts)
	}
	for i, c := range want {
		if ae.Counts[i] != c {
			t.Errorf("count %d = %+v, want %+v", i, ae.Counts[i], c)
		}
	}
	if !strings.Contains(err.Error(), "time=3, wheel=3, gyro=2") {
		t.Errorf("message does not list every channel: %s", err.Error())
	}
	if ae.Count(CH_GYRO) != 2 || ae.Count("nope") != -1 {
		t.Errorf("Count() lookup failed")
	}
}

func TestAlignEveryCountReported(t *testing.T) {
	_, err := Align(series("time", 0, 1, 2), series("a", 1, 2), series("b", 1, 2, 3, 4), series("c", 1, 2, 3))
	var ae *AlignmentError
	if !errors.As(err, &ae) {
		t.Fatalf("error = %v, want AlignmentError", err)
	}
	if len(ae.Counts) != 4 || ae.Count("a") != 2 || ae.Count("b") != 4 || ae.Count("c") != 3 || ae.Count("time") != 3 {
		t.Errorf("counts = %+v", ae.Counts)
	}
}

func TestAlignPositional(t *testing.T) {
	tm := series("time", 5, 6, 7, 8)
	a := series("a", 10, 11, 12, 13)
	b := series("b", 20, 21, 22, 23)
	recs, err := Align(tm, a, b)
	if err != nil {
		t.Fatalf("Align: %v", err)
	}
	for i := range 4 {
		r, _ := recs.At(i)
		if r.Time != tm.Dat[i].Value || r.Values["a"] != a.Dat[i] || r.Values["b"] != b.Dat[i] {
			t.Errorf("record %d = %+v", i, r)
		}
	}
}

func TestAlignDuplicate(t *testing.T) {
	_, err := Align(series("time", 0), series("a", 1), series("a", 2))
	var ae *AlignmentError
	if !errors.As(err, &ae) || ae.Duplicate != "a" {
		t.Fatalf("error = %v, want duplicate AlignmentError", err)
	}
}

func TestRecordsAtOutOfRange(t *testing.T) {
	recs, _ := Align(series("time", 0, 1), series("a", 1, 2))
	for _, i := range []int{-1, 2, 100} {
		_, err := recs.At(i)
		var oe *OutOfRangeError
		if !errors.As(err, &oe) || oe.Index != i || oe.Len != 2 {
			t.Errorf("At(%d) error = %v", i, err)
		}
	}
}

func TestRecordsAtReturnsCopy(t *testing.T) {
	recs, _ := Align(series("time", 0), series("a", 1))
	r, _ := recs.At(0)
	r.Values["a"] = Sample{Value: 99}
	r2, _ := recs.At(0)
	if r2.Values["a"].Value != 1 {
		t.Fatalf("record modified through At()")
	}
}

func TestRecordsWindow(t *testing.T) {
	recs, _ := Align(series("time", 0, 1, 2, 3, 4, 5), series("a", 0, 1, 2, 3, 4, 5))
	tests := []struct {
		ts, te float64
		every  int
		want   []float64
	}{
		{1, 4, 0, []float64{1, 2, 3, 4}},
		{1, 4, 2, []float64{1, 3}},
		{-10, 10, 3, []float64{0, 3}},
		{6, 10, 0, nil},
	}
	for _, tt := range tests {
		w := recs.Window(tt.ts, tt.te, tt.every)
		if w.Len() != len(tt.want) {
			t.Errorf("Window(%g,%g,%d) len = %d, want %d", tt.ts, tt.te, tt.every, w.Len(), len(tt.want))
			continue
		}
		for i, v := range tt.want {
			r, _ := w.At(i)
			if r.Time != v {
				t.Errorf("Window(%g,%g,%d)[%d] = %g, want %g", tt.ts, tt.te, tt.every, i, r.Time, v)
			}
		}
	}
}

func TestLoadPose(t *testing.T) {
	dir := t.TempDir()
	tf := writeFile(t, dir, "time.csv", "0.0\n0.1\n")
	pf := writeFile(t, dir, "r_zw_t.csv", "1.0,2.0\n1.5,2.5\n")
	af := writeFile(t, dir, "theta_bt.csv", "0.1\n0.2\n")
	recs, err := LoadPose(tf, pf, af, 0.04, 9, 0.001)
	if err != nil {
		t.Fatalf("LoadPose: %v", err)
	}
	r, _ := recs.At(1)
	if r.Values[CH_POS_X].Value != 1.5 || r.Values[CH_POS_Y].Value != 2.5 || r.Values[CH_ANGLE].Value != 0.2 {
		t.Errorf("record 1 = %+v", r)
	}
	if r.Values[CH_POS_X].Var != 0.04 || r.Values[CH_POS_Y].Var != 9 || r.Values[CH_ANGLE].Var != 0.001 {
		t.Errorf("variances = %+v", r.Values)
	}
}

func TestAlignSampleTimes(t *testing.T) {
	dir := t.TempDir()
	tf := writeFile(t, dir, "time.csv", "0\n0.5\n1.0\n")
	wf := writeFile(t, dir, "u_wheel.csv", "1.0\n1.1\n1.2\n")
	gf := writeFile(t, dir, "u_gyro.csv", "0.01\n0.02\n0.03\n")
	recs, err := LoadOdometry(tf, wf, gf, 0.01, 0.0001)
	if err != nil {
		t.Fatalf("LoadOdometry: %v", err)
	}
	want := []float64{0, 0.5, 1.0}
	for i := range recs.Len() {
		r, _ := recs.At(i)
		if r.Time != want[i] {
			t.Errorf("record %d: time = %g, want %g", i, r.Time, want[i])
		}
		for _, ch := range []string{CH_WHEEL, CH_GYRO} {
			if r.Values[ch].Time != r.Time {
				t.Errorf("record %d: %s time = %g, want %g", i, ch, r.Values[ch].Time, r.Time)
			}
		}
	}
}
