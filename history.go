// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2026.10.15
//

package gokalman

import (
	"math"

	"golang.org/x/exp/slices"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Belief of a channel after the record at Time
type Estimate struct {
	Time   float64
	Belief Belief
}

// Gain used for a channel at Time
type Gain struct {
	Time float64
	Gain float64
}

// History of one run
// It is not modified after Run returns, accessors return copies.
type History struct {
	chans   []string
	units   map[string]string
	initial map[string]Belief
	est     map[string][]Estimate
	gain    map[string][]Gain
}

func newHistory(chans []string, units map[string]string, n int) *History {
	h := &History{
		chans:   slices.Clone(chans),
		units:   units,
		initial: make(map[string]Belief, len(chans)),
		est:     make(map[string][]Estimate, len(chans)),
		gain:    make(map[string][]Gain, len(chans)),
	}
	for _, ch := range chans {
		h.est[ch] = make([]Estimate, 0, n)
		h.gain[ch] = make([]Gain, 0, n)
	}
	return h
}

// Channel names
func (h *History) Channels() []string {
	return slices.Clone(h.chans)
}

// Unit of a channel
func (h *History) Unit(ch string) string {
	return h.units[ch]
}

// Number of steps
func (h *History) Len() int {
	if h == nil || len(h.chans) == 0 {
		return 0
	}
	return len(h.est[h.chans[0]])
}

func (h *History) has(ch string) bool {
	_, ok := h.est[ch]
	return ok
}

// Initial belief of a channel
func (h *History) Initial(ch string) (Belief, bool) {
	b, ok := h.initial[ch]
	return b, ok
}

// Belief after the last step (the initial belief when there was no step)
func (h *History) Final(ch string) (Belief, bool) {
	if !h.has(ch) {
		return Belief{}, false
	}
	e := h.est[ch]
	if len(e) == 0 {
		return h.initial[ch], true
	}
	return e[len(e)-1].Belief, true
}

// All estimates of a channel
func (h *History) Estimates(ch string) []Estimate {
	return slices.Clone(h.est[ch])
}

// All gains of a channel
func (h *History) Gains(ch string) []Gain {
	return slices.Clone(h.gain[ch])
}

// Estimate and gain of a channel at step i
func (h *History) At(ch string, i int) (Estimate, Gain, error) {
	if !h.has(ch) {
		return Estimate{}, Gain{}, configErrorf("unknown channel %s", ch)
	}
	if i < 0 || i >= len(h.est[ch]) {
		return Estimate{}, Gain{}, &OutOfRangeError{What: "estimate of " + ch, Index: i, Len: len(h.est[ch])}
	}
	return h.est[ch][i], h.gain[ch][i], nil
}

// Matrix returns the history as rows of [time, mean, var, gain (for each channel)]
func (h *History) Matrix() *mat.Dense {
	n := h.Len()
	c := 1 + 3*len(h.chans)
	if n == 0 {
		return &mat.Dense{}
	}
	M := mat.NewDense(n, c, nil)
	for i := range n {
		M.Set(i, 0, h.est[h.chans[0]][i].Time)
		for j, ch := range h.chans {
			e := h.est[ch][i]
			M.Set(i, 1+3*j, e.Belief.Mean)
			M.Set(i, 2+3*j, e.Belief.Var)
			M.Set(i, 3+3*j, h.gain[ch][i].Gain)
		}
	}
	return M
}

// Diagnostics of one channel
type Summary struct {
	Channel   string
	Steps     int
	Final     Belief
	FinalGain float64
	MeanGain  float64
	InnovMean float64 // Mean of the innovations z - m (m: predicted mean)
	InnovStd  float64 // Standard deviation of the innovations
	MaxAbsRes float64 // Largest |z - m+| after the update
}

// Summary computes per channel diagnostics using the measurements in recs
// recs must be the records the history was computed from.
func (h *History) Summary(recs *Records) ([]Summary, error) {
	if recs.Len() != h.Len() {
		return nil, &AlignmentError{Counts: []ChannelCount{{Name: "records", Count: recs.Len()}, {Name: "history", Count: h.Len()}}}
	}
	out := make([]Summary, 0, len(h.chans))
	for _, ch := range h.chans {
		est := h.est[ch]
		s := Summary{Channel: ch, Steps: len(est)}
		s.Final, _ = h.Final(ch)
		if len(est) == 0 {
			out = append(out, s)
			continue
		}
		innov := make([]float64, len(est))
		gains := make([]float64, len(est))
		prior := h.initial[ch].Mean
		for i, e := range est {
			z, ok := recs.dat[i].Values[ch]
			if !ok {
				return nil, configErrorf("unknown channel %s", ch)
			}
			innov[i] = z.Value - prior
			gains[i] = h.gain[ch][i].Gain
			s.MaxAbsRes = math.Max(s.MaxAbsRes, math.Abs(z.Value-e.Belief.Mean))
			prior = e.Belief.Mean
		}
		s.FinalGain = gains[len(gains)-1]
		s.MeanGain = stat.Mean(gains, nil)
		if len(innov) > 1 {
			s.InnovMean, s.InnovStd = stat.MeanStdDev(innov, nil)
		} else {
			s.InnovMean = innov[0]
		}
		out = append(out, s)
	}
	return out, nil
}
