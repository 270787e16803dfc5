// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2026.10.15
//

package gokalman

import (
	"fmt"
	"math"
	"strings"
)

// Value with its unit, like "1.1 m/s"
func withUnit(v float64, unit string) string {
	if len(unit) == 0 {
		return fmt.Sprintf("%g", v)
	}
	return fmt.Sprintf("%g %s", v, unit)
}

// FormatSample formats a sample like "0.1 s, 1.1 m/s (var 0.01)"
func FormatSample(s Sample, unit string) string {
	return fmt.Sprintf("%s, %s (var %g)", withUnit(s.Time, "s"), withUnit(s.Value, unit), s.Var)
}

// FormatRecord formats a record like "0.1 s, 1.1 m/s, 0.01 rad/s"
// Channels are written in the order of chans, missing ones as "-".
func FormatRecord(r Record, chans []string, units map[string]string) string {
	a := make([]string, 0, len(chans)+1)
	a = append(a, withUnit(r.Time, "s"))
	for _, ch := range chans {
		s, ok := r.Values[ch]
		if !ok {
			a = append(a, "-")
			continue
		}
		a = append(a, withUnit(s.Value, units[ch]))
	}
	return strings.Join(a, ", ")
}

// FormatEstimate formats an estimate like "0.1 s, 5 +- 0.7071 m/s"
func FormatEstimate(e Estimate, unit string) string {
	v := fmt.Sprintf("%g +- %.4g", e.Belief.Mean, math.Sqrt(e.Belief.Var))
	if len(unit) > 0 {
		v += " " + unit
	}
	return withUnit(e.Time, "s") + ", " + v
}

// FormatSummary formats the diagnostics of one channel in one line
func FormatSummary(s Summary, unit string) string {
	return fmt.Sprintf("%-10s n=%d mean=%s std=%.6g gain(last/avg)=%.6f/%.6f innov(mean/std)=%.6g/%.6g max|res|=%.6g",
		s.Channel, s.Steps, withUnit(s.Final.Mean, unit), math.Sqrt(s.Final.Var), s.FinalGain, s.MeanGain, s.InnovMean, s.InnovStd, s.MaxAbsRes)
}
