package main

import "testing"

func TestPaletteColorsAreUnique(t *testing.T) {
	seen := map[string]bool{}
	for _, c := range AllPaletteColors() {
		if seen[string(c)] {
			t.Errorf("duplicate palette color %s", string(c))
		}
		seen[string(c)] = true
	}
	if len(seen) != 26 {
		t.Errorf("palette size = %d, want 26", len(seen))
	}
}

func TestInvoiceStatusColors(t *testing.T) {
	if invoiceStatusColor("paid") != colorSuccess {
		t.Error("paid should render as success")
	}
	if invoiceStatusColor("overdue") != colorError {
		t.Error("overdue should render as error")
	}
	if invoiceStatusColor("mystery") != colorSubtext0 {
		t.Error("unknown status should fall back to subtext")
	}
}
