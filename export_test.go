// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2026.10.15
//

package gokalman

import (
	"bytes"
	"strconv"
	"strings"
	"testing"
)

func TestWriteHistory(t *testing.T) {
	h, _ := Run(testRecords(t), testRunOpt())
	var buf bytes.Buffer
	hdr := &EstHeader{Program: "gokalman", Mode: "ODOMETRY", Inputs: []string{"time.csv", "a.csv"}}
	if err := WriteHistory(&buf, h, hdr, false); err != nil {
		t.Fatalf("WriteHistory: %v", err)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	var head, body []string
	for _, l := range lines {
		if strings.HasPrefix(l, "%") {
			head = append(head, l)
		} else {
			body = append(body, l)
		}
	}
	if len(body) != 4 {
		t.Fatalf("data lines = %d, want 4\n%s", len(body), buf.String())
	}
	if !strings.Contains(head[0], "gokalman") || !strings.Contains(buf.String(), "% inp file  : a.csv") {
		t.Errorf("header = %q", head)
	}
	// time, then mean/std/gain of a and b
	f := strings.Fields(body[0])
	if len(f) != 7 {
		t.Fatalf("fields = %d, want 7: %q", len(f), body[0])
	}
	mean, _ := strconv.ParseFloat(f[1], 64)
	gain, _ := strconv.ParseFloat(f[3], 64)
	if mean != 5 || gain != 0.5 {
		t.Errorf("first line = %q", body[0])
	}
}

func TestWriteHistoryNoHeader(t *testing.T) {
	h, _ := Run(testRecords(t), testRunOpt())
	var buf bytes.Buffer
	if err := WriteHistory(&buf, h, nil, true); err != nil {
		t.Fatalf("WriteHistory: %v", err)
	}
	if strings.Contains(buf.String(), "%") {
		t.Errorf("header written with noHeader")
	}
	if n := strings.Count(buf.String(), "\n"); n != 4 {
		t.Errorf("lines = %d, want 4", n)
	}
}
