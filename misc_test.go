// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2026.10.15
//

package gokalman

import (
	"fmt"
	"testing"
)

func TestChanVar(t *testing.T) {
	var v ChanVar
	if err := v.Set("pressure=0.0001, temp=1e-7"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if v.Get("pressure", 0) != 0.0001 || v.Get("temp", 0) != 1e-7 || v.Get("wheel", 3) != 3 {
		t.Errorf("values = %v", v)
	}
	if got := v.String(); got != "pressure=0.0001,temp=1e-07" {
		t.Errorf("String() = %q", got)
	}
	for _, s := range []string{"pressure", "temp=x"} {
		if err := v.Set(s); err == nil {
			t.Errorf("Set(%q) accepted", s)
		}
	}
}

func TestMode(t *testing.T) {
	tests := []struct {
		s    string
		want Mode
	}{
		{"bmp280", BMP280},
		{"odometry", ODOMETRY},
		{"POSE", POSE},
		{"1", ODOMETRY},
	}
	for _, tt := range tests {
		var m Mode
		if err := m.Set(tt.s); err != nil || m != tt.want {
			t.Errorf("Set(%q) = %v, %v", tt.s, m.String(), err)
		}
	}
	var m Mode
	if err := m.Set("7"); err == nil {
		t.Errorf("mode 7 accepted")
	}
}

func TestDegeneratePolicySet(t *testing.T) {
	var p DegeneratePolicy
	if err := p.Set("adopt"); err != nil || p != AdoptMeasurement || p.String() != "adopt" {
		t.Errorf("Set(adopt) = %v, %v", p.String(), err)
	}
	if err := p.Set("ignore"); KindOf(err) != Config {
		t.Errorf("Set(ignore) error = %v", err)
	}
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		err  error
		want ErrKind
	}{
		{&SourceError{Source: "f", Err: fmt.Errorf("x")}, SourceUnavailable},
		{fmt.Errorf("wrapped: %w", &ParseError{Source: "f"}), Parse},
		{fmt.Errorf("a: %w", fmt.Errorf("b: %w", &AlignmentError{})), Alignment},
		{&DegenerateUpdateError{}, DegenerateUpdate},
		{&OutOfRangeError{}, OutOfRange},
		{configErrorf("x"), Config},
		{fmt.Errorf("plain"), UnknownErr},
		{nil, UnknownErr},
	}
	for _, tt := range tests {
		if got := KindOf(tt.err); got != tt.want {
			t.Errorf("KindOf(%v) = %s, want %s", tt.err, got, tt.want)
		}
	}
}
