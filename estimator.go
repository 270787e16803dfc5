// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2026.10.15
//

// Implements the scalar Kalman filter (random walk model) run independently for each channel.

package gokalman

import (
	"golang.org/x/exp/slices"
)

// Belief of one channel
type Belief struct {
	Mean float64 // Estimated value
	Var  float64 // Variance of the estimate
}

// Predict adds the process noise q to the variance
// The transition is identity, so the mean does not change.
func Predict(b Belief, q float64) Belief {
	return Belief{Mean: b.Mean, Var: b.Var + q}
}

// Update corrects the predicted belief b with the measurement z
//
// Returns the posterior belief and the gain k = v / (v + r).
// When v + r is exactly zero the gain is undefined: FailDegenerate returns a
// DegenerateUpdateError, AdoptMeasurement takes the measurement with gain 1.
func Update(b Belief, z Sample, policy DegeneratePolicy) (Belief, float64, error) {
	s := b.Var + z.Var
	if s == 0 {
		if policy == AdoptMeasurement {
			return Belief{Mean: z.Value, Var: 0}, 1, nil
		}
		return b, 0, &DegenerateUpdateError{Time: z.Time}
	}
	k := b.Var / s
	if k == 1 {
		// Certain measurement: take it as is, m + (z - m) may round
		return Belief{Mean: z.Value, Var: 0}, k, nil
	}
	return Belief{
		Mean: b.Mean + k*(z.Value-b.Mean),
		Var:  (1 - k) * b.Var,
	}, k, nil
}

// State of a channel filter
type FilterState int

const (
	Initialized FilterState = iota // Holds the initial guess only
	Steady                         // At least one measurement has been applied
)

// Filter of one channel
type chanState struct {
	opt    ChanOpt
	belief Belief
	state  FilterState
}

// Estimator holds one independent filter per channel
type Estimator struct {
	chans  []string
	state  map[string]*chanState
	policy DegeneratePolicy
	step   int
}

// Result of one step for one channel
type StepResult struct {
	Belief Belief  // Posterior
	Gain   float64 // Gain used by the update
}

// NewEstimator creates filters for the given channels, initialized from opt
func NewEstimator(chans []string, opt *RunOpt) (*Estimator, error) {
	e := &Estimator{
		chans:  slices.Clone(chans),
		state:  make(map[string]*chanState, len(chans)),
		policy: opt.Policy,
	}
	for _, ch := range chans {
		o, err := opt.chanOpt(ch)
		if err != nil {
			return nil, err
		}
		if err := o.validate(ch); err != nil {
			return nil, err
		}
		e.state[ch] = &chanState{
			opt:    *o,
			belief: Belief{Mean: o.InitMean, Var: o.InitVar},
			state:  Initialized,
		}
	}
	return e, nil
}

// Step runs predict then update on every channel with the samples of rec
// On error no channel is modified.
func (e *Estimator) Step(rec Record) (map[string]StepResult, error) {
	out := make(map[string]StepResult, len(e.chans))
	for _, ch := range e.chans {
		cs := e.state[ch]
		z, ok := rec.Values[ch]
		if !ok {
			return nil, configErrorf("record at step %d has no sample for channel %s", e.step, ch)
		}
		b, k, err := Update(Predict(cs.belief, cs.opt.ProcNoise), z, e.policy)
		if err != nil {
			if de, ok := err.(*DegenerateUpdateError); ok {
				de.Channel = ch
				de.Step = e.step
				de.Time = rec.Time
			}
			return nil, err
		}
		out[ch] = StepResult{Belief: b, Gain: k}
	}
	for ch, r := range out {
		e.state[ch].belief = r.Belief
		e.state[ch].state = Steady
	}
	e.step++
	return out, nil
}

// Current belief of a channel
func (e *Estimator) Belief(ch string) (Belief, bool) {
	cs, ok := e.state[ch]
	if !ok {
		return Belief{}, false
	}
	return cs.belief, true
}

// Current state of a channel filter
func (e *Estimator) State(ch string) (FilterState, bool) {
	cs, ok := e.state[ch]
	if !ok {
		return Initialized, false
	}
	return cs.state, true
}

// Number of steps applied so far
func (e *Estimator) Steps() int {
	return e.step
}
