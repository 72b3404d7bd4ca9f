package mathx

import "testing"

func TestClamp(t *testing.T) {
	if got := Clamp(150, -100, 100); got != 100 {
		t.Fatalf("Clamp(150) = %d", got)
	}
	if got := Clamp(-3, 10, 0); got != 0 {
		t.Fatalf("Clamp with swapped bounds = %d", got)
	}
	if got := Clamp(5*1.5, 0.0, 10.0); got != 7.5 {
		t.Fatalf("float Clamp = %v", got)
	}
}

func TestAbsAndScale(t *testing.T) {
	if Abs(int8(-100)) != 100 {
		t.Fatal("Abs(-100)")
	}
	if got := Scale(50, 100, 65535); got != 32767 {
		t.Fatalf("Scale(50,100,65535) = %d", got)
	}
	if got := Scale(250, 100, 1000); got != 1000 {
		t.Fatalf("Scale clamps input, got %d", got)
	}
	if got := Scale(1, 0, 10); got != 0 {
		t.Fatalf("Scale with zero range = %d", got)
	}
}
