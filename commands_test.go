package main

import (
	"testing"
)

func matchIDs(matches []CommandMatch) []string {
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, m.Command.ID)
	}
	return out
}

func containsID(matches []CommandMatch, id string) bool {
	for _, m := range matches {
		if m.Command.ID == id {
			return true
		}
	}
	return false
}

func TestPaletteSearchFiltersByQuery(t *testing.T) {
	stub := twoFamilyStub()
	m := newTestModel(t, stub)

	matches := m.commands.Search("invoices", m, "")
	if len(matches) == 0 {
		t.Fatal("no matches for 'invoices'")
	}
	if !containsID(matches, "nav:invoices") || !containsID(matches, "invoices:reload") {
		t.Errorf("missing invoice commands in %v", matchIDs(matches))
	}
	if containsID(matches, "app:quit") {
		t.Errorf("unrelated command matched: %v", matchIDs(matches))
	}
}

func TestPaletteSearchToleratesTypos(t *testing.T) {
	stub := twoFamilyStub()
	m := newTestModel(t, stub)

	matches := m.commands.Search("prodcuts", m, "")
	if !containsID(matches, "nav:products") {
		t.Errorf("typo query did not surface products nav: %v", matchIDs(matches))
	}
}

func TestPaletteExactLabelRanksFirst(t *testing.T) {
	stub := twoFamilyStub()
	m := newTestModel(t, stub)

	matches := m.commands.Search("Quit", m, "")
	if len(matches) == 0 {
		t.Fatal("no matches for 'Quit'")
	}
	if matches[0].Command.ID != "app:quit" {
		t.Errorf("first match = %s, want app:quit (all: %v)", matches[0].Command.ID, matchIDs(matches))
	}
}

func TestPaletteDisablesCommandsWithReason(t *testing.T) {
	stub := &stubAPI{} // no families
	m := newTestModel(t, stub)

	matches := m.commands.Search("New Product", m, "")
	if len(matches) == 0 {
		t.Fatal("no matches for 'New Product'")
	}
	match := matches[len(matches)-1]
	for _, c := range matches {
		if c.Command.ID == "products:new" {
			match = c
		}
	}
	if match.Command.ID != "products:new" {
		t.Fatalf("products:new not found in %v", matchIDs(matches))
	}
	if match.Enabled {
		t.Error("products:new should be disabled without a family")
	}
	if match.DisabledReason == "" {
		t.Error("disabled command should carry a reason")
	}
}

func TestPaletteOpenTypeExecute(t *testing.T) {
	stub := twoFamilyStub()
	m := newTestModel(t, stub)

	m = pressRun(t, m, "ctrl+k")
	if !m.commandOpen {
		t.Fatal("palette should be open")
	}
	for _, ch := range "go to invoices" {
		m = pressRun(t, m, string(ch))
	}
	if len(m.commandMatches) == 0 {
		t.Fatal("no matches while typing")
	}
	if m.commandMatches[0].Command.ID != "nav:invoices" {
		t.Fatalf("top match = %s, want nav:invoices", m.commandMatches[0].Command.ID)
	}

	m = pressRun(t, m, "enter")
	if m.commandOpen {
		t.Error("palette should close after executing")
	}
	if m.activeTab != tabInvoices {
		t.Errorf("active tab = %d, want invoices", m.activeTab)
	}
	if stub.invoiceCalls != 1 {
		t.Errorf("invoice calls = %d, want 1 (nav triggered the fetch)", stub.invoiceCalls)
	}
	if m.lastCommandID != "nav:invoices" {
		t.Errorf("lastCommandID = %q", m.lastCommandID)
	}
}

func TestPaletteEscCloses(t *testing.T) {
	stub := twoFamilyStub()
	m := newTestModel(t, stub)

	m = pressRun(t, m, "ctrl+k")
	m = pressRun(t, m, "x")
	m = pressRun(t, m, "esc")
	if m.commandOpen {
		t.Fatal("palette should be closed")
	}
	if m.commandQuery != "" {
		t.Errorf("query = %q after close, want empty", m.commandQuery)
	}
}

func TestRefreshAllDropsCacheAndRefetches(t *testing.T) {
	stub := twoFamilyStub()
	m := newTestModel(t, stub)
	m = gotoProducts(t, m)
	if stub.productsCalls != 1 {
		t.Fatalf("products calls = %d, want 1", stub.productsCalls)
	}

	next, cmd, err := m.commands.ExecuteByID("app:refresh-all", m)
	if err != nil {
		t.Fatalf("refresh-all: %v", err)
	}
	m = runCmd(t, next, cmd)
	if stub.productsCalls != 2 {
		t.Errorf("products calls after refresh-all = %d, want 2", stub.productsCalls)
	}
	if stub.familyCalls != 2 {
		t.Errorf("family calls after refresh-all = %d, want 2", stub.familyCalls)
	}
	if m.pager.TotalCount() != 25 {
		t.Errorf("total = %d, want 25", m.pager.TotalCount())
	}
}
