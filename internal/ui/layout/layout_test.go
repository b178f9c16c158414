package layout

import "testing"

func TestFormatTicks(t *testing.T) {
	tests := []struct {
		ticks int
		want  string
	}{
		{0, "0:00"},
		{9, "0:09"},
		{75, "1:15"},
		{-3, "0:00"},
	}
	for _, tt := range tests {
		if got := FormatTicks(tt.ticks); got != tt.want {
			t.Errorf("FormatTicks(%d) = %q, want %q", tt.ticks, got, tt.want)
		}
	}
}

func TestIsTooSmall(t *testing.T) {
	if !IsTooSmall(MinWidth-1, MinHeight) {
		t.Error("expected narrow terminal to be too small")
	}
	if IsTooSmall(MinWidth, MinHeight) {
		t.Error("expected minimum size to fit")
	}
}
