package main

import (
	"errors"
	"strings"
	"testing"
)

func TestInitLoadsOverviewAndFamilies(t *testing.T) {
	stub := twoFamilyStub()
	m := newTestModel(t, stub)

	if stub.overviewCalls != 1 {
		t.Fatalf("overview calls = %d, want 1", stub.overviewCalls)
	}
	if m.overview.MRRCents != 450000 {
		t.Errorf("mrr = %d, want 450000", m.overview.MRRCents)
	}
	if len(m.families) != 2 {
		t.Fatalf("families = %d, want 2", len(m.families))
	}
	// Dashboard is active; the product list stays untouched until the
	// Products tab asks for it.
	if stub.productsCalls != 0 {
		t.Errorf("products fetched on dashboard: %d calls", stub.productsCalls)
	}
}

func TestProductsGatedWithoutFamilies(t *testing.T) {
	stub := &stubAPI{}
	m := newTestModel(t, stub)
	m = gotoProducts(t, m)

	if stub.productsCalls != 0 {
		t.Fatalf("products fetched with no family: %d calls", stub.productsCalls)
	}
	if got := m.productsView(); !strings.Contains(got, "No product families") {
		t.Errorf("products view missing empty-family notice:\n%s", got)
	}
}

func TestProductsLoadForSelectedFamily(t *testing.T) {
	stub := twoFamilyStub()
	m := newTestModel(t, stub)
	m = gotoProducts(t, m)

	if stub.productsCalls != 1 {
		t.Fatalf("products calls = %d, want 1", stub.productsCalls)
	}
	if stub.lastFamily != "fam-core" {
		t.Errorf("fetched family = %q, want fam-core", stub.lastFamily)
	}
	if m.pager.TotalCount() != 25 {
		t.Errorf("total = %d, want 25", m.pager.TotalCount())
	}
	if got := len(m.pagedProducts()); got != 10 {
		t.Errorf("page rows = %d, want 10", got)
	}
}

func TestTabSwitchUsesCache(t *testing.T) {
	stub := twoFamilyStub()
	m := newTestModel(t, stub)
	m = gotoProducts(t, m)

	// Leave and come back; everything is cached, nothing refetches.
	m = pressRun(t, m, "tab")
	m = gotoProducts(t, m)
	if stub.productsCalls != 1 {
		t.Errorf("products calls = %d, want 1 (cache hit on revisit)", stub.productsCalls)
	}
	if stub.familyCalls != 1 {
		t.Errorf("family calls = %d, want 1", stub.familyCalls)
	}
}

func TestFamilySwitchDropsStaleResponse(t *testing.T) {
	stub := twoFamilyStub()
	m := newTestModel(t, stub)
	m = gotoProducts(t, m)

	// Switch to fam-addons but hold its response in flight.
	m, staleCmd := press(t, m, "f")
	if staleCmd == nil {
		t.Fatal("family switch should start a fetch")
	}
	// Switch back to fam-core before the response lands.
	m, coreCmd := press(t, m, "f")

	// The late fam-addons response must change nothing: its cache entry
	// was invalidated on the second switch.
	m = runCmd(t, m, staleCmd)
	if m.pager.TotalCount() != 0 {
		t.Fatalf("stale response landed: total = %d", m.pager.TotalCount())
	}
	for _, p := range m.products {
		if p.FamilyExternalID == "fam-addons" {
			t.Fatalf("stale fam-addons product leaked into the list: %+v", p)
		}
	}

	m = runCmd(t, m, coreCmd)
	if m.pager.TotalCount() != 25 {
		t.Fatalf("total after fam-core reload = %d, want 25", m.pager.TotalCount())
	}
}

func TestPaginationKeys(t *testing.T) {
	stub := twoFamilyStub()
	m := newTestModel(t, stub)
	m = gotoProducts(t, m)

	m = pressRun(t, m, "]")
	if m.pager.Page() != 1 {
		t.Fatalf("page = %d, want 1", m.pager.Page())
	}
	m = pressRun(t, m, "]")
	if got := len(m.pagedProducts()); got != 5 {
		t.Errorf("last page rows = %d, want 5", got)
	}
	m = pressRun(t, m, "]")
	if m.pager.Page() != 2 {
		t.Errorf("page advanced past the end: %d", m.pager.Page())
	}
	m = pressRun(t, m, "[")
	if m.pager.Page() != 1 {
		t.Errorf("page = %d after [, want 1", m.pager.Page())
	}
}

func TestReloadIsIdempotentWhileInFlight(t *testing.T) {
	stub := twoFamilyStub()
	m := newTestModel(t, stub)
	m = gotoProducts(t, m)
	baseline := stub.productsCalls

	m, first := press(t, m, "r")
	if first == nil {
		t.Fatal("reload should start a fetch")
	}
	// Second press while loading is a no-op.
	m, second := press(t, m, "r")
	if second != nil {
		t.Fatal("second reload stacked a request")
	}

	m = runCmd(t, m, first)
	if got := stub.productsCalls - baseline; got != 1 {
		t.Errorf("fetches during reload = %d, want 1", got)
	}
	if m.pager.TotalCount() != 25 {
		t.Errorf("total = %d, want 25", m.pager.TotalCount())
	}
}

func TestReloadErrorKeepsStaleData(t *testing.T) {
	stub := twoFamilyStub()
	m := newTestModel(t, stub)
	m = gotoProducts(t, m)

	stub.productsErr = errors.New("upstream down")
	m = pressRun(t, m, "r")

	if !m.statusErr {
		t.Error("status should flag the failed reload")
	}
	if len(m.products) != 25 {
		t.Fatalf("error blanked the list: %d products", len(m.products))
	}
	if got := m.productsView(); !strings.Contains(got, "stale") {
		t.Errorf("view does not mark stale data:\n%s", got)
	}

	// Reload stays available and recovers.
	stub.productsErr = nil
	m = pressRun(t, m, "r")
	if m.statusErr {
		t.Error("status still flags an error after a successful reload")
	}
}

func TestSearchShowsUnimplementedNotice(t *testing.T) {
	stub := twoFamilyStub()
	m := newTestModel(t, stub)
	m = gotoProducts(t, m)

	m = pressRun(t, m, "/")
	if !strings.Contains(m.status, "not implemented") {
		t.Errorf("status = %q, want an unimplemented notice", m.status)
	}
	if m.statusErr {
		t.Error("unimplemented notice should not be an error")
	}
}

func TestInvoicesTab(t *testing.T) {
	stub := twoFamilyStub()
	m := newTestModel(t, stub)
	for m.activeTab != tabInvoices {
		m = pressRun(t, m, "tab")
	}

	if stub.invoiceCalls != 1 {
		t.Fatalf("invoice calls = %d, want 1", stub.invoiceCalls)
	}
	if len(m.invoices) != 2 {
		t.Fatalf("invoices = %d, want 2", len(m.invoices))
	}
	m = pressRun(t, m, "j")
	if m.invCursor != 1 {
		t.Errorf("cursor = %d, want 1", m.invCursor)
	}
	m = pressRun(t, m, "r")
	if stub.invoiceCalls != 2 {
		t.Errorf("invoice calls after reload = %d, want 2", stub.invoiceCalls)
	}
	if got := m.invoicesView(); !strings.Contains(got, "INV-001") {
		t.Errorf("invoices view missing rows:\n%s", got)
	}
}

func TestSettingsPageSizeResetsPage(t *testing.T) {
	stub := twoFamilyStub()
	m := newTestModel(t, stub)
	m = gotoProducts(t, m)
	m = pressRun(t, m, "]")
	if m.pager.Page() != 1 {
		t.Fatalf("page = %d, want 1", m.pager.Page())
	}

	for m.activeTab != tabSettings {
		m = pressRun(t, m, "tab")
	}
	m = pressRun(t, m, "+")
	if m.cfg.UI.PageSize != 11 {
		t.Errorf("page size = %d, want 11", m.cfg.UI.PageSize)
	}
	if m.pager.Page() != 0 {
		t.Errorf("page = %d after size change, want 0", m.pager.Page())
	}
}

func TestSettingsSave(t *testing.T) {
	t.Setenv("METERDESK_CONFIG", t.TempDir()+"/config.toml")
	stub := twoFamilyStub()
	m := newTestModel(t, stub)
	for m.activeTab != tabSettings {
		m = pressRun(t, m, "tab")
	}

	m = pressRun(t, m, "s")
	if m.statusErr {
		t.Fatalf("save failed: %s", m.status)
	}
	if !strings.Contains(m.status, "saved") {
		t.Errorf("status = %q, want a saved confirmation", m.status)
	}
}
