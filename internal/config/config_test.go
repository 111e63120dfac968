package config

import (
	"reflect"
	"testing"
)

// -----------------------------------------------------------------------------
// Mode tests
// -----------------------------------------------------------------------------
//
// The mode set is closed: the CLI contract promises exactly create, upload and
// both, and the orchestrator switches on the two phase predicates. These tests
// pin both the accepted spellings and the phase membership.

func TestParseMode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    Mode
		wantErr bool
	}{
		{in: "create", want: ModeCreate},
		{in: "upload", want: ModeUpload},
		{in: "both", want: ModeBoth},
		{in: "", wantErr: true},
		{in: "Create", wantErr: true},
		{in: "append", wantErr: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			got, err := ParseMode(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseMode(%q) = %q, want error", tt.in, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseMode(%q): %v", tt.in, err)
			}
			if got != tt.want {
				t.Fatalf("ParseMode(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestMode_Phases(t *testing.T) {
	t.Parallel()

	tests := []struct {
		mode    Mode
		creates bool
		uploads bool
	}{
		{ModeCreate, true, false},
		{ModeUpload, false, true},
		{ModeBoth, true, true},
	}

	for _, tt := range tests {
		if got := tt.mode.Creates(); got != tt.creates {
			t.Fatalf("%s.Creates() = %v, want %v", tt.mode, got, tt.creates)
		}
		if got := tt.mode.Uploads(); got != tt.uploads {
			t.Fatalf("%s.Uploads() = %v, want %v", tt.mode, got, tt.uploads)
		}
	}
}

// -----------------------------------------------------------------------------
// Separator and null-token helpers
// -----------------------------------------------------------------------------

func TestConfig_Comma(t *testing.T) {
	t.Parallel()

	tests := []struct {
		sep  string
		want rune
	}{
		{sep: ";", want: ';'},
		{sep: ",", want: ','},
		{sep: "\t", want: '\t'},
		// Multi-byte separators must yield the first rune, not the first byte.
		{sep: "ž", want: 'ž'},
		// An empty Sep never survives Validate; the fallback keeps Comma total.
		{sep: "", want: ';'},
	}

	for _, tt := range tests {
		c := Config{Sep: tt.sep}
		if got := c.Comma(); got != tt.want {
			t.Fatalf("Config{Sep: %q}.Comma() = %q, want %q", tt.sep, got, tt.want)
		}
	}
}

func TestSplitNullTokens(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want []string
	}{
		{name: "default_set", in: "Nan,NaN,nan,None", want: []string{"Nan", "NaN", "nan", "None"}},
		{name: "single", in: "NULL", want: []string{"NULL"}},
		// Tokens match cells exactly, so surrounding spaces are preserved.
		{name: "not_trimmed", in: " NA,NA ", want: []string{" NA", "NA "}},
		{name: "empty_segments_dropped", in: "a,,b,", want: []string{"a", "b"}},
		{name: "empty_means_none", in: "", want: nil},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := SplitNullTokens(tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("SplitNullTokens(%q) = %#v, want %#v", tt.in, got, tt.want)
			}
		})
	}
}
