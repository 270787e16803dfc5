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

// Run filters every record in order and returns the estimate history
//
// Each channel of recs is predicted then updated once per record. The result depends only on
// recs and opt: running twice on the same input gives the same history.
func Run(recs *Records, opt *RunOpt) (*History, error) {

	if recs == nil {
		return nil, configErrorf("no records")
	}
	if opt == nil {
		opt = NewRunOpt()
	}
	chans := recs.chans

	// Channels configured explicitly must exist in the records
	for ch := range opt.Chans {
		if _, ok := recs.units[ch]; !ok {
			return nil, configErrorf("channel %s is configured but not in the records", ch)
		}
	}

	// Filters for every channel
	est, err := NewEstimator(chans, opt)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize estimator: %w", err)
	}

	// History buffer, owned by this run only
	hist := newHistory(chans, recs.units, recs.Len())
	for _, ch := range chans {
		b, _ := est.Belief(ch)
		hist.initial[ch] = b
	}

	// Predict and update for each record
	for i, rec := range recs.dat {
		res, err := est.Step(rec)
		if err != nil {
			return nil, fmt.Errorf("estimation stopped at record %d: %w", i, err)
		}
		for _, ch := range chans {
			r := res[ch]
			hist.est[ch] = append(hist.est[ch], Estimate{Time: rec.Time, Belief: r.Belief})
			hist.gain[ch] = append(hist.gain[ch], Gain{Time: rec.Time, Gain: r.Gain})
		}
		if DBG_ >= 3 {
			for _, ch := range chans {
				r := res[ch]
				PrintB(rec.Time, "%4d %-10s z=%14.6f m=%14.6f v=%12.6g k=%8.6f\n", i, ch, rec.Values[ch].Value, r.Belief.Mean, r.Belief.Var, r.Gain)
			}
		}
	}
	PrintD(2, "\tfiltered %d records\n", recs.Len())

	return hist, nil
}
