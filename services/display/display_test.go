package display

import "testing"

func TestMemoryKeepsLastLabel(t *testing.T) {
	var m Memory
	if m.Last() != "" {
		t.Fatal("fresh display not blank")
	}
	var d Display = &m
	d.ShowLabel("Right")
	d.ShowLabel("Stop")
	if m.Last() != "Stop" {
		t.Fatalf("Last = %q", m.Last())
	}
}
