// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2026.10.15
//

package gokalman

import (
	"math"
)

// ColumnOpt maps one column of a delimited source to a channel
type ColumnOpt struct {
	Name        string  // Channel name
	Unit        string  // Unit for display
	Field       string  // Header name of the value column (requires LoadOpt.Header)
	Index       int     // Index of the value column, used when Field is empty
	VarField    string  // Header name of the uncertainty column
	VarIndex    int     // Index of the uncertainty column, used when VarField is empty (<0: none)
	StdDev      bool    // If true, the uncertainty column holds a standard deviation and is squared
	FallbackVar float64 // Variance used for every sample when there is no uncertainty column (NaN: not set)
}

// NewColumnOpt creates a column option for a headerless source without uncertainty column
func NewColumnOpt(name, unit string, index int, fallbackVar float64) ColumnOpt {
	return ColumnOpt{
		Name:        name,
		Unit:        unit,
		Index:       index,
		VarIndex:    -1,
		FallbackVar: fallbackVar,
	}
}

// NewNamedColumnOpt creates a column option for a header-bearing source
func NewNamedColumnOpt(name, unit, field, varField string) ColumnOpt {
	return ColumnOpt{
		Name:        name,
		Unit:        unit,
		Field:       field,
		Index:       -1,
		VarField:    varField,
		VarIndex:    -1,
		FallbackVar: math.NaN(),
	}
}

// Whether the column has its own uncertainty column
func (c *ColumnOpt) hasVarColumn() bool {
	return len(c.VarField) > 0 || c.VarIndex >= 0
}

// LoadOpt contains options for reading a delimited source
type LoadOpt struct {
	Columns   []ColumnOpt // Channels to read
	Header    bool        // If true, the first non-comment line is a header
	Comment   rune        // Lines starting with this are skipped (0: none)
	Delimiter rune        // Field delimiter
	TimeField string      // Header name of the time column
	TimeIndex int         // Index of the time column, used when TimeField is empty (<0: none)
	TimeStep  float64     // Time step used when there is no time column [s]
	TimeStart float64     // Time of the first row when there is no time column [s]
}

// NewLoadOpt creates a LoadOpt with default values (headerless, comma separated, no time column)
func NewLoadOpt(cols ...ColumnOpt) *LoadOpt {
	return &LoadOpt{
		Columns:   cols,   // Given columns
		Header:    false,  // Bare values
		Comment:   0,      // No comment lines
		Delimiter: DELIM,  // Comma separated
		TimeField: "",     // No named time column
		TimeIndex: -1,     // No time column
		TimeStep:  DT,     // 0.1 s
		TimeStart: 0,      // Starts at 0 s
	}
}

// Check the options before reading
func (p *LoadOpt) validate() error {
	if p.Delimiter == 0 || p.Delimiter == '\n' || p.Delimiter == '\r' || p.Delimiter == '"' {
		return configErrorf("invalid delimiter %q", p.Delimiter)
	}
	if p.Comment == p.Delimiter {
		return configErrorf("comment marker and delimiter are the same (%q)", p.Comment)
	}
	// A named time column may be absent, the step size is then used instead
	if (len(p.TimeField) > 0 || p.TimeIndex < 0) && !(p.TimeStep > 0) {
		return configErrorf("time step must be positive when there is no time column (dt=%g)", p.TimeStep)
	}
	if len(p.TimeField) > 0 && !p.Header {
		return configErrorf("time field %s requires a header", p.TimeField)
	}
	names := map[string]bool{}
	for _, c := range p.Columns {
		if len(c.Name) == 0 {
			return configErrorf("column without channel name")
		}
		if names[c.Name] {
			return configErrorf("channel %s given more than once", c.Name)
		}
		names[c.Name] = true
		if len(c.Field) == 0 && c.Index < 0 {
			return configErrorf("channel %s has neither field name nor index", c.Name)
		}
		if (len(c.Field) > 0 || len(c.VarField) > 0) && !p.Header {
			return configErrorf("channel %s is addressed by name but the source has no header", c.Name)
		}
		if !c.hasVarColumn() && (math.IsNaN(c.FallbackVar) || c.FallbackVar < 0 || math.IsInf(c.FallbackVar, 0)) {
			return configErrorf("channel %s has no uncertainty column and no valid fallback variance (%g)", c.Name, c.FallbackVar)
		}
	}
	return nil
}

// ChanOpt contains the filter parameters of one channel
type ChanOpt struct {
	InitMean  float64 // Initial guess of the mean
	InitVar   float64 // Variance of the initial guess
	ProcNoise float64 // Process noise variance added by every prediction (>= 0)
}

// NewChanOpt creates a ChanOpt
func NewChanOpt(initMean, initVar, procNoise float64) *ChanOpt {
	return &ChanOpt{
		InitMean:  initMean,
		InitVar:   initVar,
		ProcNoise: procNoise,
	}
}

func (p *ChanOpt) validate(name string) error {
	if math.IsNaN(p.InitMean) || math.IsInf(p.InitMean, 0) {
		return configErrorf("channel %s: invalid initial mean %g", name, p.InitMean)
	}
	if !(p.InitVar >= 0) || math.IsInf(p.InitVar, 0) {
		return configErrorf("channel %s: initial variance must be finite and >= 0 (%g)", name, p.InitVar)
	}
	if !(p.ProcNoise >= 0) || math.IsInf(p.ProcNoise, 0) {
		return configErrorf("channel %s: process noise must be finite and >= 0 (%g)", name, p.ProcNoise)
	}
	return nil
}

// What to do when the predicted and the measurement variance are both zero
type DegeneratePolicy int

const (
	FailDegenerate   DegeneratePolicy = iota // Abort with DegenerateUpdateError
	AdoptMeasurement                         // Use gain 1 (take the measurement as certain)
)

func (p *DegeneratePolicy) Set(s string) error {
	switch s {
	case "fail", "0":
		*p = FailDegenerate
	case "adopt", "1":
		*p = AdoptMeasurement
	default:
		return configErrorf("unknown degenerate policy %q (fail|adopt)", s)
	}
	return nil
}

func (p *DegeneratePolicy) String() string {
	if p == nil {
		return "fail"
	}
	switch *p {
	case FailDegenerate:
		return "fail"
	case AdoptMeasurement:
		return "adopt"
	default:
		return "UNKNOWN!"
	}
}

// RunOpt contains options for a whole run
type RunOpt struct {
	Chans   map[string]*ChanOpt // Filter parameters per channel
	Default *ChanOpt            // Used for channels not in Chans (nil: such channels are an error)
	Policy  DegeneratePolicy    // Degenerate update policy
}

// NewRunOpt creates a RunOpt with default values
func NewRunOpt() *RunOpt {
	return &RunOpt{
		Chans:   map[string]*ChanOpt{}, // No channels
		Default: nil,                   // Every channel must be configured
		Policy:  FailDegenerate,        // Report degenerate updates
	}
}

// Return the options of channel name
func (p *RunOpt) chanOpt(name string) (*ChanOpt, error) {
	if o, ok := p.Chans[name]; ok && o != nil {
		return o, nil
	}
	if p.Default != nil {
		return p.Default, nil
	}
	return nil, configErrorf("no filter options for channel %s", name)
}
