package board

import "testing"

func TestPopLSB(t *testing.T) {
	bb := SquareBB(C3) | SquareBB(A1) | SquareBB(H8)

	want := []Square{A1, C3, H8}
	for i, w := range want {
		if got := bb.PopLSB(); got != w {
			t.Errorf("pop %d = %s, want %s", i, got, w)
		}
	}
	if bb != Empty {
		t.Errorf("bitboard not empty after popping: %v", uint64(bb))
	}
	if got := bb.LSB(); got != NoSquare {
		t.Errorf("LSB of empty = %d, want NoSquare", got)
	}
}

func TestSetClear(t *testing.T) {
	bb := Empty.Set(E4).Set(D5)
	if !bb.IsSet(E4) || !bb.IsSet(D5) || bb.PopCount() != 2 {
		t.Fatalf("Set failed: %v", uint64(bb))
	}
	bb = bb.Clear(E4)
	if bb.IsSet(E4) || !bb.IsSet(D5) {
		t.Errorf("Clear failed: %v", uint64(bb))
	}
}

func TestSquareOutOfRangePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("SquareBB(64) did not panic")
		}
	}()
	SquareBB(Square(64))
}

func TestShiftsDoNotWrap(t *testing.T) {
	if got := SquareBB(H4).East(); got != Empty {
		t.Errorf("h4 east = %v, want empty", uint64(got))
	}
	if got := SquareBB(A4).West(); got != Empty {
		t.Errorf("a4 west = %v, want empty", uint64(got))
	}
	if got := SquareBB(H8).North(); got != Empty {
		t.Errorf("h8 north = %v, want empty", uint64(got))
	}
	if got := SquareBB(A5).NorthWest(); got != Empty {
		t.Errorf("a5 northwest = %v, want empty", uint64(got))
	}
	if got := SquareBB(E4).NorthEast(); got != SquareBB(F5) {
		t.Errorf("e4 northeast = %s, want f5", got.LSB())
	}
}

func TestParseSquare(t *testing.T) {
	tests := []struct {
		in      string
		want    Square
		wantErr bool
	}{
		{"a1", A1, false},
		{"h8", H8, false},
		{"e4", E4, false},
		{"i1", NoSquare, true},
		{"a9", NoSquare, true},
		{"e", NoSquare, true},
	}

	for _, tc := range tests {
		got, err := ParseSquare(tc.in)
		if (err != nil) != tc.wantErr {
			t.Errorf("ParseSquare(%q) error = %v, wantErr %v", tc.in, err, tc.wantErr)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseSquare(%q) = %s, want %s", tc.in, got, tc.want)
		}
	}

	if E4.File() != 4 || E4.Rank() != 3 {
		t.Errorf("e4 file/rank = %d/%d", E4.File(), E4.Rank())
	}
}
