package csvsource

import "testing"

// TestLookupEncoding pins the name-resolution table: native UTF-8 passthrough,
// the Python-style spellings, IANA names, and rejection of unknown names.
func TestLookupEncoding(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		encoding string
		wantNil  bool // nil encoding, nil error: native UTF-8
		wantErr  bool
	}{
		{name: "empty is native", encoding: "", wantNil: true},
		{name: "utf-8 is native", encoding: "utf-8", wantNil: true},
		{name: "utf8 is native", encoding: "utf8", wantNil: true},
		{name: "utf-8-sig", encoding: "utf-8-sig"},
		{name: "python underscore spelling", encoding: "utf_8_sig"},
		{name: "case insensitive", encoding: "UTF-8-SIG"},
		{name: "utf-16", encoding: "utf-16"},
		{name: "utf-16le", encoding: "utf-16le"},
		{name: "utf-16be", encoding: "utf-16be"},
		{name: "latin-1", encoding: "latin-1"},
		{name: "iso-8859-1 via iana", encoding: "iso-8859-1"},
		{name: "windows-1252 via iana", encoding: "windows-1252"},
		{name: "cp1252 alias", encoding: "cp1252"},
		{name: "unknown name", encoding: "no-such-charset", wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			enc, err := lookupEncoding(tc.encoding)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("lookupEncoding(%q) err = nil, want error", tc.encoding)
				}
				return
			}
			if err != nil {
				t.Fatalf("lookupEncoding(%q) error: %v", tc.encoding, err)
			}
			if tc.wantNil != (enc == nil) {
				t.Fatalf("lookupEncoding(%q) = %v, wantNil=%v", tc.encoding, enc, tc.wantNil)
			}
		})
	}
}
