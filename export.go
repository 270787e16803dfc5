// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2026.10.15
//

package gokalman

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strings"
)

// Header information of an estimate file
type EstHeader struct {
	Program string   // Program name
	Mode    string   // Input layout
	Inputs  []string // Input files
}

// Write the estimate file header
func writeEstHeader(w io.Writer, h *History, hdr *EstHeader) {
	if hdr != nil {
		if len(hdr.Program) > 0 {
			fmt.Fprintf(w, "%% program   : %s\n", hdr.Program)
		}
		if len(hdr.Mode) > 0 {
			fmt.Fprintf(w, "%% mode      : %s\n", hdr.Mode)
		}
		for _, fn := range hdr.Inputs {
			fmt.Fprintf(w, "%% inp file  : %s\n", fn)
		}
	}
	fmt.Fprintf(w, "%% channels  : %s\n", strings.Join(h.chans, " "))
	for _, ch := range h.chans {
		b := h.initial[ch]
		fmt.Fprintf(w, "%% init %-6s: %.6f %.6g\n", ch, b.Mean, b.Var)
	}
	if n := h.Len(); n > 0 {
		t0 := h.est[h.chans[0]][0].Time
		t1 := h.est[h.chans[0]][n-1].Time
		fmt.Fprintf(w, "%% span      : %.4f - %.4f s (%d steps)\n", t0, t1, n)
	}
	var sb strings.Builder
	sb.WriteString("%    time(s)")
	for _, ch := range h.chans {
		sb.WriteString(fmt.Sprintf(" %16s %14s %10s", ch+"(mean)", ch+"(std)", ch+"(gain)"))
	}
	fmt.Fprintln(w, sb.String())
}

// WriteHistory writes the history as a text file, one line per step
// Each line holds the time, then mean, standard deviation and gain of every channel.
func WriteHistory(w io.Writer, h *History, hdr *EstHeader, noHeader bool) error {
	bw := bufio.NewWriter(w)
	if !noHeader {
		writeEstHeader(bw, h, hdr)
	}
	M := h.Matrix()
	r, _ := M.Dims()
	for i := range r {
		fmt.Fprintf(bw, "%12.4f", M.At(i, 0))
		for j := range h.chans {
			fmt.Fprintf(bw, " %16.6f %14.6g %10.6f", M.At(i, 1+3*j), math.Sqrt(M.At(i, 2+3*j)), M.At(i, 3+3*j))
		}
		fmt.Fprintln(bw)
	}
	return bw.Flush()
}
