package domain

import "testing"

func TestParseFilter(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in      string
		want    Filter
		wantErr bool
	}{
		{"new", FilterNew, false},
		{"hot", FilterHot, false},
		{"top", FilterTop, false},
		{"rising", FilterRising, false},
		{"", FilterNew, false},
		{"controversial", "", true},
		{"NEW", "", true},
	}

	for _, tc := range cases {
		got, err := ParseFilter(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("ParseFilter(%q): expected error", tc.in)
			}
			continue
		}
		if err != nil {
			t.Fatalf("ParseFilter(%q) returned error: %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("ParseFilter(%q) = %s, want %s", tc.in, got, tc.want)
		}
	}
}
