package vocab

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
)

const (
	testEquipmentCSV = `equipment_name,model_examples
ROADM,1830 PSS;로드엠
IP/MPLS,"7250 IXR-R4, 7750 SR"
UPS,
`
	testFaultCSV = `error_name,error_code,definition,examples
링크 장애,ERR-003,회선이 끊어진 상태,링크가 다운됐어요;회선 단절
전원 장애,ERR-007,전원 공급 이상,
`
	testRequestCSV = `request_type_label,request_type_code,definition,examples
현장 지원,RQ-ONS,기사 방문이 필요한 요청,기사님 보내주세요
원격 지원,RQ-RMT,원격으로 처리 가능한 요청,원격으로 봐주세요;전화로 해결
`
)

// writeTables writes the three vocabulary CSVs into a temp dir.
func writeTables(t *testing.T, equipment, faults, requests string) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"equipment.csv":     equipment,
		"fault_types.csv":   faults,
		"request_types.csv": requests,
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	return dir
}

func TestLoad(t *testing.T) {
	t.Parallel()

	dir := writeTables(t, testEquipmentCSV, testFaultCSV, testRequestCSV)
	v, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if got, want := v.Allowed(CategoryEquipment), []string{"ROADM", "IP/MPLS", "UPS"}; !slices.Equal(got, want) {
		t.Errorf("equipment = %v, want %v", got, want)
	}
	if got, want := v.Allowed(CategoryFault), []string{"ERR-003", "ERR-007"}; !slices.Equal(got, want) {
		t.Errorf("faults = %v, want %v", got, want)
	}
	if got, want := v.Allowed(CategoryRequest), []string{"RQ-ONS", "RQ-RMT"}; !slices.Equal(got, want) {
		t.Errorf("requests = %v, want %v", got, want)
	}
}

func TestLoad_ModelAliases(t *testing.T) {
	t.Parallel()

	dir := writeTables(t, testEquipmentCSV, testFaultCSV, testRequestCSV)
	v, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	// model_examples cells split on both ";" and ",".
	for model, want := range map[string]string{
		"1830 PSS":    "ROADM",
		"로드엠":         "ROADM",
		"7250 IXR-R4": "IP/MPLS",
		"7750 SR":     "IP/MPLS",
	} {
		if got := v.ModelToEquipment[model]; got != want {
			t.Errorf("ModelToEquipment[%q] = %q, want %q", model, got, want)
		}
	}
}

func TestLoad_ExampleMaps(t *testing.T) {
	t.Parallel()

	dir := writeTables(t, testEquipmentCSV, testFaultCSV, testRequestCSV)
	v, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if got := v.FaultExampleToCode["링크가 다운됐어요"]; got != "ERR-003" {
		t.Errorf("fault example mapping = %q, want ERR-003", got)
	}
	if got := v.RequestExampleToCode["전화로 해결"]; got != "RQ-RMT" {
		t.Errorf("request example mapping = %q, want RQ-RMT", got)
	}
	// Rows without examples contribute no hint line.
	if len(v.Hints.Faults) != 1 {
		t.Errorf("fault hints = %v, want 1 entry", v.Hints.Faults)
	}
	if !strings.Contains(v.Hints.Faults[0], "ERR-003") {
		t.Errorf("fault hint %q does not mention its code", v.Hints.Faults[0])
	}
}

func TestLoad_MissingFileFails(t *testing.T) {
	t.Parallel()

	dir := writeTables(t, testEquipmentCSV, testFaultCSV, testRequestCSV)
	if err := os.Remove(filepath.Join(dir, "fault_types.csv")); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(dir); err == nil {
		t.Error("Load with missing fault table succeeded, want error")
	}
}

func TestLoad_MissingColumnFails(t *testing.T) {
	t.Parallel()

	dir := writeTables(t, "equipment_name\nROADM\n", testFaultCSV, testRequestCSV)
	_, err := Load(dir)
	if err == nil {
		t.Fatal("Load with missing model_examples column succeeded, want error")
	}
	if !strings.Contains(err.Error(), "model_examples") {
		t.Errorf("error %q does not name the missing column", err)
	}
}
