// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2026.10.15
//

package gokalman

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// ------------------------------------
// Mini functions
// ------------------------------------

func SQ(x float64) float64 {
	return x * x
}

// ------------------------------------
// Debug print function
// ------------------------------------

func PrintMat(X mat.Matrix) {
	r, c := X.Dims()
	fmt.Fprintf(os.Stderr, "(%d x %d)\n", r, c)
	fa := mat.Formatted(X, mat.Prefix(""), mat.Squeeze())
	fmt.Fprintf(os.Stderr, "%v\n", fa)
}

func PrintA(format string, a ...any) {
	fmt.Fprintf(os.Stderr, format, a...)
}

func PrintAIf(cond bool, format string, a ...any) {
	if cond {
		PrintA(format, a...)
	}
}

// Print with the step time as prefix
func PrintB(t float64, format string, a ...any) {
	fmt.Fprintf(os.Stderr, fmt.Sprintf("%10.4f", t)+"\t"+format, a...)
}

// Debug display level
var DBG_ int

// Debug display
func PrintD(v int, format string, a ...any) {
	PrintAIf(DBG_ >= v, format, a...)
}

func PrintE(err error) {
	fmt.Fprintf(os.Stderr, "err=%s\n", err.Error())
}

// ------------------------------------
// For command argument parsing
// ------------------------------------

// Per-channel values like "pressure=0.0001,temp=1e-7"
type ChanVar map[string]float64

func (p *ChanVar) Set(s string) error {
	if *p == nil {
		*p = ChanVar{}
	}
	for _, a := range strings.Split(s, ",") {
		if len(strings.TrimSpace(a)) == 0 {
			continue
		}
		kv := strings.SplitN(a, "=", 2)
		if len(kv) != 2 {
			return fmt.Errorf("invalid channel value %q, expected name=value", a)
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(kv[1]), 64)
		if err != nil {
			return fmt.Errorf("invalid value for channel %s: %w", kv[0], err)
		}
		(*p)[strings.TrimSpace(kv[0])] = v
	}
	return nil
}

func (p *ChanVar) String() string {
	if p == nil || len(*p) == 0 {
		return ""
	}
	keys := make([]string, 0, len(*p))
	for k := range *p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	a := make([]string, 0, len(keys))
	for _, k := range keys {
		a = append(a, fmt.Sprintf("%s=%g", k, (*p)[k]))
	}
	return strings.Join(a, ",")
}

// Value of a channel, or def when it was not given
func (p ChanVar) Get(ch string, def float64) float64 {
	if v, ok := p[ch]; ok {
		return v
	}
	return def
}

// Input layout (0: BMP280, 1: ODOMETRY, 2: POSE)
type Mode int

const (
	BMP280 = iota
	ODOMETRY
	POSE
)

func (p *Mode) Set(s string) error {
	switch strings.ToLower(s) {
	case "bmp280":
		*p = BMP280
		return nil
	case "odometry":
		*p = ODOMETRY
		return nil
	case "pose":
		*p = POSE
		return nil
	}
	i, err := strconv.ParseInt(s, 10, 0)
	if err != nil {
		return err
	}
	if i < BMP280 || i > POSE {
		return fmt.Errorf("unknown mode %d", i)
	}
	*p = Mode(i)
	return nil
}

func (p *Mode) String() string {
	if p == nil {
		return "BMP280"
	}
	switch *p {
	case BMP280:
		return "BMP280"
	case ODOMETRY:
		return "ODOMETRY"
	case POSE:
		return "POSE"
	default:
		return "UNKNOWN!"
	}
}
