package rate

import (
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		atoms   uint64
		wantErr error
	}{
		{name: "zero", input: "0", atoms: 0},
		{name: "one", input: "1", atoms: AtomsPerUnit},
		{name: "tenth", input: "0.1", atoms: AtomsPerUnit / 10},
		{name: "half", input: "0.5", atoms: AtomsPerUnit / 2},
		{name: "full precision", input: "0.000000000000000001", atoms: 1},
		{name: "above one", input: "1.5", atoms: AtomsPerUnit + AtomsPerUnit/2},
		{name: "trailing dot", input: "1.", wantErr: ErrMalformed},
		{name: "leading dot", input: ".5", wantErr: ErrMalformed},
		{name: "empty", input: "", wantErr: ErrMalformed},
		{name: "letters", input: "0.1x", wantErr: ErrMalformed},
		{name: "too precise", input: "0.0000000000000000001", wantErr: ErrTooPrecise},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := Parse(tt.input)
			if tt.wantErr != nil {
				if err != tt.wantErr {
					t.Fatalf("Parse(%q) error = %v, want %v", tt.input, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse(%q) unexpected error: %v", tt.input, err)
			}
			if r.Atoms() != tt.atoms {
				t.Errorf("Parse(%q).Atoms() = %d, want %d", tt.input, r.Atoms(), tt.atoms)
			}
		})
	}
}

func TestMulFloor(t *testing.T) {
	tests := []struct {
		name   string
		rate   string
		amount uint64
		want   uint64
	}{
		{name: "ten percent", rate: "0.1", amount: 100000, want: 10000},
		{name: "half", rate: "0.5", amount: 10000, want: 5000},
		{name: "floor truncates", rate: "0.1", amount: 7, want: 0},
		{name: "floor truncates odd", rate: "0.5", amount: 7, want: 3},
		{name: "one is identity", rate: "1", amount: 123456789, want: 123456789},
		{name: "zero annihilates", rate: "0", amount: 123456789, want: 0},
		{name: "third of ten", rate: "0.333333333333333333", amount: 10, want: 3},
		{name: "large amount", rate: "0.1", amount: 1 << 62, want: (1 << 62) / 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MustParse(tt.rate).MulFloor(tt.amount)
			if got != tt.want {
				t.Errorf("Rate(%s).MulFloor(%d) = %d, want %d", tt.rate, tt.amount, got, tt.want)
			}
		})
	}
}

func TestMulFloorNeverExceedsAmount(t *testing.T) {
	rates := []string{"0", "0.000000000000000001", "0.1", "0.5", "0.999999999999999999", "1"}
	amounts := []uint64{0, 1, 7, 999, 1 << 32, 1<<63 - 1}
	for _, rs := range rates {
		r := MustParse(rs)
		for _, a := range amounts {
			if got := r.MulFloor(a); got > a {
				t.Errorf("Rate(%s).MulFloor(%d) = %d exceeds amount", rs, a, got)
			}
		}
	}
}

func TestString(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"0", "0"},
		{"1", "1"},
		{"0.1", "0.1"},
		{"0.500", "0.5"},
		{"1.25", "1.25"},
	}
	for _, tt := range tests {
		if got := MustParse(tt.input).String(); got != tt.want {
			t.Errorf("Rate(%s).String() = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestAddAndBounds(t *testing.T) {
	sum := MustParse("0.5").Add(MustParse("0.1"))
	if sum.Atoms() != MustParse("0.6").Atoms() {
		t.Errorf("0.5 + 0.1 = %s, want 0.6", sum)
	}
	if !MustParse("1.1").GreaterThanOne() {
		t.Error("1.1 should be greater than one")
	}
	if MustParse("1").GreaterThanOne() {
		t.Error("1 should not be greater than one")
	}
}
