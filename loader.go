// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2026.10.15
//

package gokalman

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
)

var (
	errMissingField  = errors.New("field is missing")
	errMissingColumn = errors.New("column is not in the header")
	errNotFinite     = errors.New("value is not finite")
	errNegativeVar   = errors.New("variance is negative")
)

// Row index reported by ParseError for problems in the header line
const HeaderRow = -1

// Resolved column positions of one channel
type colPos struct {
	val int // Index of the value column
	unc int // Index of the uncertainty column (<0: none)
}

// Find the position of a named column in the header
func findColumn(hdr []string, name string) int {
	for i, h := range hdr {
		if strings.TrimSpace(h) == name {
			return i
		}
	}
	return -1
}

// Resolve all column positions, by header name or by index
func resolveColumns(source string, hdr []string, opt *LoadOpt) ([]colPos, int, error) {
	pos := make([]colPos, len(opt.Columns))
	for i, c := range opt.Columns {
		pos[i] = colPos{val: c.Index, unc: c.VarIndex}
		if len(c.Field) > 0 {
			if pos[i].val = findColumn(hdr, c.Field); pos[i].val < 0 {
				return nil, -1, &ParseError{Source: source, Row: HeaderRow, Field: c.Field, Err: errMissingColumn}
			}
		}
		if len(c.VarField) > 0 {
			if pos[i].unc = findColumn(hdr, c.VarField); pos[i].unc < 0 {
				return nil, -1, &ParseError{Source: source, Row: HeaderRow, Field: c.VarField, Err: errMissingColumn}
			}
		}
	}
	tpos := opt.TimeIndex
	if len(opt.TimeField) > 0 {
		// The time column is optional in header-bearing sources: recomputed from the step size when absent
		tpos = findColumn(hdr, opt.TimeField)
	}
	return pos, tpos, nil
}

// Read a float from the given field of a record
func parseField(source string, row int, field string, rec []string, idx int) (float64, error) {
	if idx >= len(rec) {
		return 0, &ParseError{Source: source, Row: row, Field: field, Err: errMissingField}
	}
	text := strings.TrimSpace(rec[idx])
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		var ne *strconv.NumError
		if errors.As(err, &ne) {
			err = ne.Err
		}
		return 0, &ParseError{Source: source, Row: row, Field: field, Text: text, Err: err}
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, &ParseError{Source: source, Row: row, Field: field, Text: text, Err: errNotFinite}
	}
	return v, nil
}

// Name used in error messages for a field given by name or index
func fieldName(name string, idx int, ch string) string {
	if len(name) > 0 {
		return name
	}
	return fmt.Sprintf("%s[%d]", ch, idx)
}

// Read channel data from a delimited source
//
// Returns the time series of the source (read from the time column, or computed from the
// time step when there is none) and one series per configured column, all in source order.
// Any invalid row aborts the whole load.
func ReadChannels(r io.Reader, source string, opt *LoadOpt) (*Series, []*Series, error) {

	// Check options first, nothing is read on invalid options
	if err := opt.validate(); err != nil {
		return nil, nil, err
	}

	// Reader for the delimited text
	cr := csv.NewReader(r)
	cr.Comma = opt.Delimiter
	cr.Comment = opt.Comment
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.ReuseRecord = true

	// Read header line
	var hdr []string
	if opt.Header {
		rec, err := cr.Read()
		if err != nil && err != io.EOF {
			return nil, nil, readError(source, HeaderRow, err)
		}
		hdr = append(hdr, rec...)
	}

	// Column positions
	pos, tpos, err := resolveColumns(source, hdr, opt)
	if err != nil {
		return nil, nil, err
	}
	PrintD(3, "\t%s: columns=%v, time column=%d\n", source, pos, tpos)

	// Series to fill
	ts := NewSeries(CH_TIME, "s", 0)
	chans := make([]*Series, len(opt.Columns))
	for i, c := range opt.Columns {
		chans[i] = NewSeries(c.Name, c.Unit, 0)
	}

	// Read line by line
	for row := 0; ; row++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, readError(source, row, err)
		}

		// Time of the row
		var t float64
		if tpos >= 0 {
			t, err = parseField(source, row, fieldName(opt.TimeField, tpos, CH_TIME), rec, tpos)
			if err != nil {
				return nil, nil, err
			}
		} else {
			t = opt.TimeStart + float64(row)*opt.TimeStep
		}
		ts.Dat = append(ts.Dat, Sample{Time: t, Value: t, Var: 0})

		// Values of each channel
		for i, c := range opt.Columns {
			v, err := parseField(source, row, fieldName(c.Field, pos[i].val, c.Name), rec, pos[i].val)
			if err != nil {
				return nil, nil, err
			}
			u := c.FallbackVar
			if pos[i].unc >= 0 {
				fn := fieldName(c.VarField, pos[i].unc, c.Name+"_var")
				u, err = parseField(source, row, fn, rec, pos[i].unc)
				if err != nil {
					return nil, nil, err
				}
				if u < 0 {
					return nil, nil, &ParseError{Source: source, Row: row, Field: fn, Text: rec[pos[i].unc], Err: errNegativeVar}
				}
				if c.StdDev {
					u = SQ(u)
				}
			}
			chans[i].Dat = append(chans[i].Dat, Sample{Time: t, Value: v, Var: u})
		}
	}
	PrintD(2, "\t%s: %d rows read\n", source, ts.Len())

	return ts, chans, nil
}

// Convert an error of the csv reader
func readError(source string, row int, err error) error {
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		return &ParseError{Source: source, Row: row, Field: fmt.Sprintf("line %d", pe.Line), Err: pe.Err}
	}
	return &SourceError{Source: source, Err: err}
}

// Read channel data from a file
func LoadChannels(fn string, opt *LoadOpt) (*Series, []*Series, error) {
	f, err := os.Open(fn)
	if err != nil {
		return nil, nil, &SourceError{Source: fn, Err: err}
	}
	defer f.Close()
	return ReadChannels(f, fn, opt)
}

// Read a single bare column file as one channel
func LoadColumn(fn string, col ColumnOpt) (*Series, error) {
	_, chans, err := LoadChannels(fn, NewLoadOpt(col))
	if err != nil {
		return nil, err
	}
	return chans[0], nil
}

// Read a bare time file (one time value per row) as the time channel
func LoadTime(fn string) (*Series, error) {
	return LoadColumn(fn, NewColumnOpt(CH_TIME, "s", 0, 0))
}
