package docs

import "testing"

func TestFormatVector(t *testing.T) {
	cases := []struct {
		name string
		in   []float32
		want string
	}{
		{"empty", nil, "[]"},
		{"single", []float32{0.5}, "[0.5]"},
		{"multi", []float32{1, -2.25, 0}, "[1,-2.25,0]"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := FormatVector(tc.in); got != tc.want {
				t.Fatalf("FormatVector(%v) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}
