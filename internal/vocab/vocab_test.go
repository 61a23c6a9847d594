package vocab

import (
	"slices"
	"testing"
)

func TestNew_PreservesOrderAndDedups(t *testing.T) {
	t.Parallel()

	v := New(
		[]string{"ROADM", "MSPP", "", "ROADM", "UPS"},
		[]string{"ERR-001", "ERR-002"},
		[]string{"RQ-ONS", "RQ-RMT"},
	)

	got := v.Allowed(CategoryEquipment)
	want := []string{"ROADM", "MSPP", "UPS"}
	if !slices.Equal(got, want) {
		t.Errorf("Allowed(equipment) = %v, want %v", got, want)
	}
}

func TestContains(t *testing.T) {
	t.Parallel()

	v := New([]string{"ROADM"}, []string{"ERR-001"}, []string{"RQ-ONS"})

	if !v.Contains(CategoryEquipment, "ROADM") {
		t.Error("Contains(equipment, ROADM) = false, want true")
	}
	if v.Contains(CategoryEquipment, "roadm") {
		t.Error("Contains is not expected to be case-insensitive")
	}
	if v.Contains(CategoryFault, "ROADM") {
		t.Error("Contains must not match across categories")
	}
}

func TestAlias_PerCategoryMaps(t *testing.T) {
	t.Parallel()

	v := New([]string{"IP/MPLS"}, []string{"ERR-003"}, []string{"RQ-ONS"})
	v.ModelToEquipment["7250 IXR-R4"] = "IP/MPLS"
	v.FaultExampleToCode["링크가 다운됐어요"] = "ERR-003"
	v.RequestExampleToCode["기사님 보내주세요"] = "RQ-ONS"

	tests := []struct {
		category Category
		in, want string
	}{
		{CategoryEquipment, "7250 IXR-R4", "IP/MPLS"},
		{CategoryFault, "링크가 다운됐어요", "ERR-003"},
		{CategoryRequest, "기사님 보내주세요", "RQ-ONS"},
	}
	for _, tc := range tests {
		got, ok := v.Alias(tc.category, tc.in)
		if !ok || got != tc.want {
			t.Errorf("Alias(%s, %q) = %q, %v; want %q, true", tc.category, tc.in, got, ok, tc.want)
		}
	}

	if _, ok := v.Alias(CategoryFault, "7250 IXR-R4"); ok {
		t.Error("Alias must not match across categories")
	}
}

func TestStats(t *testing.T) {
	t.Parallel()

	v := New([]string{"A", "B"}, []string{"ERR-001"}, nil)
	v.ModelToEquipment["m1"] = "A"
	v.ModelToEquipment["m2"] = "A"

	stats := v.Stats()
	if stats.Equipment != 2 || stats.Faults != 1 || stats.Requests != 0 {
		t.Errorf("Stats counts = %+v", stats)
	}
	if stats.ModelAliases != 2 {
		t.Errorf("ModelAliases = %d, want 2", stats.ModelAliases)
	}
}

func TestCategoryIsValid(t *testing.T) {
	t.Parallel()

	for _, c := range []Category{CategoryEquipment, CategoryFault, CategoryRequest} {
		if !c.IsValid() {
			t.Errorf("%q.IsValid() = false, want true", c)
		}
	}
	if Category("speaker").IsValid() {
		t.Error(`Category("speaker").IsValid() = true, want false`)
	}
}
