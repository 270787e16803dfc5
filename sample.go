// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2026.10.15
//

package gokalman

import (
	"fmt"
)

// One channel's reading at a step
type Sample struct {
	Time  float64 // Time of the step [s]
	Value float64 // Measured value
	Var   float64 // Measurement variance (>= 0)
}

// Structure to store all samples of one channel (sorted in source order)
type Series struct {
	Name string   // Channel name
	Unit string   // Unit used for display only
	Dat  []Sample // Samples
}

// Constructor for the above structure
func NewSeries(name, unit string, n int) *Series {
	return &Series{
		Name: name,
		Unit: unit,
		Dat:  make([]Sample, 0, n),
	}
}

// Number of samples
func (p *Series) Len() int {
	if p == nil {
		return 0
	}
	return len(p.Dat)
}

// Return the i-th sample
func (p *Series) At(i int) (Sample, error) {
	if i < 0 || i >= p.Len() {
		return Sample{}, &OutOfRangeError{What: "series " + p.Name, Index: i, Len: p.Len()}
	}
	return p.Dat[i], nil
}

// Return the measured values as a new slice
func (p *Series) Values() []float64 {
	v := make([]float64, len(p.Dat))
	for i, s := range p.Dat {
		v[i] = s.Value
	}
	return v
}

// Return the sample times as a new slice
func (p *Series) Times() []float64 {
	v := make([]float64, len(p.Dat))
	for i, s := range p.Dat {
		v[i] = s.Time
	}
	return v
}

// Display series overview
func (p *Series) String() string {
	if p.Len() == 0 {
		return fmt.Sprintf("%s: NO DATA", p.Name)
	}
	first := p.Dat[0]
	last := p.Dat[len(p.Dat)-1]
	return fmt.Sprintf("%s: %d samples, %s ... %s", p.Name, len(p.Dat), FormatSample(first, p.Unit), FormatSample(last, p.Unit))
}
