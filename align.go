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

	"golang.org/x/exp/slices"
)

// One synchronized step across all channels of a run
type Record struct {
	Time   float64           // Taken from the time channel
	Values map[string]Sample // Sample of every channel
}

// Sequence of aligned records (sorted by step index)
type Records struct {
	chans []string          // Channel names in the order they were given
	units map[string]string // Unit of every channel
	dat   []Record
}

// Join the per-channel series positionally
//
// All series must have the same length. The i-th record is built from the i-th sample of
// every series, and its time is the value of the i-th sample of the time series. The time of
// every sample in the record is replaced with the record time.
// Timestamps of the channels are not compared with each other: the caller guarantees that
// equal row counts mean synchronized rows.
func Align(time *Series, channels ...*Series) (*Records, error) {

	if time == nil {
		return nil, configErrorf("time channel is missing")
	}

	// Channel names must be unique
	names := []string{time.Name}
	for _, s := range channels {
		if s == nil {
			return nil, configErrorf("nil channel given to Align")
		}
		if slices.Contains(names, s.Name) {
			return nil, &AlignmentError{Counts: channelCounts(time, channels), Duplicate: s.Name}
		}
		names = append(names, s.Name)
	}

	// All lengths must agree
	n := time.Len()
	for _, s := range channels {
		if s.Len() != n {
			return nil, &AlignmentError{Counts: channelCounts(time, channels)}
		}
	}

	recs := &Records{
		chans: names[1:],
		units: make(map[string]string, len(channels)),
		dat:   make([]Record, n),
	}
	for _, s := range channels {
		recs.units[s.Name] = s.Unit
	}
	for i := range n {
		rec := Record{
			Time:   time.Dat[i].Value,
			Values: make(map[string]Sample, len(channels)),
		}
		for _, s := range channels {
			smp := s.Dat[i]
			smp.Time = rec.Time
			rec.Values[s.Name] = smp
		}
		recs.dat[i] = rec
	}
	PrintD(2, "\taligned %d records, channels=%v\n", n, recs.chans)

	return recs, nil
}

// Length of every series, in argument order
func channelCounts(time *Series, channels []*Series) []ChannelCount {
	c := make([]ChannelCount, 0, len(channels)+1)
	c = append(c, ChannelCount{Name: time.Name, Count: time.Len()})
	for _, s := range channels {
		c = append(c, ChannelCount{Name: s.Name, Count: s.Len()})
	}
	return c
}

// Number of records
func (p *Records) Len() int {
	if p == nil {
		return 0
	}
	return len(p.dat)
}

// Channel names (a copy)
func (p *Records) Channels() []string {
	return slices.Clone(p.chans)
}

// Unit of a channel
func (p *Records) Unit(ch string) string {
	return p.units[ch]
}

// Return the i-th record
func (p *Records) At(i int) (Record, error) {
	if i < 0 || i >= p.Len() {
		return Record{}, &OutOfRangeError{What: "record", Index: i, Len: p.Len()}
	}
	r := p.dat[i]
	v := make(map[string]Sample, len(r.Values))
	for k, s := range r.Values {
		v[k] = s
	}
	return Record{Time: r.Time, Values: v}, nil
}

// Return the samples of one channel as a series
func (p *Records) Series(ch string) (*Series, error) {
	if !slices.Contains(p.chans, ch) {
		return nil, configErrorf("unknown channel %s", ch)
	}
	s := NewSeries(ch, p.units[ch], len(p.dat))
	for _, r := range p.dat {
		s.Dat = append(s.Dat, r.Values[ch])
	}
	return s, nil
}

// Return the records with ts <= time <= te, keeping only every n-th one when every > 1
func (p *Records) Window(ts, te float64, every int) *Records {
	if math.IsNaN(ts) {
		ts = math.Inf(-1)
	}
	if math.IsNaN(te) {
		te = math.Inf(1)
	}
	out := &Records{
		chans: p.chans,
		units: p.units,
		dat:   make([]Record, 0, len(p.dat)),
	}
	k := 0
	for _, r := range p.dat {
		// Skip records outside the processing time span
		if r.Time < ts || r.Time > te {
			continue
		}
		if every <= 1 || k%every == 0 {
			out.dat = append(out.dat, r)
		}
		k++
	}
	return out
}

// Display records overview
func (p *Records) String() string {
	if p.Len() == 0 {
		return "NO DATA"
	}
	a := `
records:
	%d (%d channels: %v)
first:
	%s
last:
	%s
`
	return fmt.Sprintf(a, p.Len(), len(p.chans), p.chans, FormatRecord(p.dat[0], p.chans, p.units), FormatRecord(p.dat[len(p.dat)-1], p.chans, p.units))
}
