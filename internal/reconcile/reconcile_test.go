package reconcile

import (
	"strings"
	"testing"

	"github.com/daehyun-cc/callticket/internal/extract"
	"github.com/daehyun-cc/callticket/internal/ticket"
)

func TestReconcile_RequesterFromSelfIntroduction(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		transcript string
		want       string
	}{
		{"bare name", "안녕하세요, 전성만입니다.", "전성만"},
		{"department with 의", "전역망원지팀의 김민수입니다.", "김민수"},
		{"department without 의", "기술지원팀 박지훈입니다.", "박지훈"},
		{"rago form", "김철수라고 합니다.", "김철수"},
		{"no introduction", "장비가 고장났어요.", ticket.NoInfo},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := Reconcile(extract.Record{}, tc.transcript, "")
			if got.Requester != tc.want {
				t.Errorf("Requester = %q, want %q", got.Requester, tc.want)
			}
		})
	}
}

func TestReconcile_NeverOverwritesPrimaryValues(t *testing.T) {
	t.Parallel()

	rec := extract.Record{
		Equipment:   "IP/MPLS",
		FaultCode:   "ERR-003",
		RequestCode: "RQ-RMT",
		Location:    "판교 전산실",
	}
	// Transcript full of fallback bait: equipment keywords, a city, an
	// on-site phrase.
	transcript := "인천 국사 UPS 장비입니다. 기사님 방문 부탁드립니다."

	got := Reconcile(rec, transcript, "")

	if got.Equipment != "IP/MPLS" {
		t.Errorf("Equipment = %q, keyword scan overwrote the primary value", got.Equipment)
	}
	if got.ModelName != "IP/MPLS" {
		t.Errorf("ModelName = %q, want mirror of equipment", got.ModelName)
	}
	if got.WorkLocation != "판교 전산실" {
		t.Errorf("WorkLocation = %q, gazetteer overwrote the primary value", got.WorkLocation)
	}
	if got.SupportType != ticket.SupportRemote {
		t.Errorf("SupportType = %q, want remote for RQ-RMT", got.SupportType)
	}
}

func TestReconcile_SupportType(t *testing.T) {
	t.Parallel()

	if got := Reconcile(extract.Record{RequestCode: "RQ-ONS"}, "", "").SupportType; got != ticket.SupportOnSite {
		t.Errorf("SupportType for RQ-ONS = %q, want %q", got, ticket.SupportOnSite)
	}
	if got := Reconcile(extract.Record{RequestCode: "RQ-RMT"}, "", "").SupportType; got != ticket.SupportRemote {
		t.Errorf("SupportType for RQ-RMT = %q, want %q", got, ticket.SupportRemote)
	}
	if got := Reconcile(extract.Record{}, "", "").SupportType; got != ticket.SupportRemote {
		t.Errorf("SupportType for unknown request = %q, want %q", got, ticket.SupportRemote)
	}
}

func TestReconcile_FilenameDatetime(t *testing.T) {
	t.Parallel()

	got := Reconcile(extract.Record{}, "", "call-20250529163932-0.mp3")
	if got.RequestDate != "2025-05-29" {
		t.Errorf("RequestDate = %q, want 2025-05-29", got.RequestDate)
	}
	if got.RequestTime != "16:39:32" {
		t.Errorf("RequestTime = %q, want 16:39:32", got.RequestTime)
	}

	got = Reconcile(extract.Record{}, "", "meeting-notes.mp3")
	if got.RequestDate != ticket.NoInfo || got.RequestTime != ticket.NoInfo {
		t.Errorf("date/time = %q/%q, want sentinels for a filename without a timestamp",
			got.RequestDate, got.RequestTime)
	}

	// A 14-digit run that is not a real datetime is rejected.
	got = Reconcile(extract.Record{}, "", "id-99999999999999.wav")
	if got.RequestDate != ticket.NoInfo {
		t.Errorf("RequestDate = %q, want sentinel for impossible datetime", got.RequestDate)
	}
}

func TestReconcile_EquipmentKeywordFallback(t *testing.T) {
	t.Parallel()

	tests := []struct {
		transcript string
		want       string
	}{
		{"유피에스 배터리가 방전됐어요", "UPS"},
		{"ROADN 링크 알람이 떠요", "ROADM"},
		{"스위치 포트가 죽었습니다", "스위치"},
		{"아무 장비 얘기도 없음", ticket.NoInfo},
	}
	for _, tc := range tests {
		got := Reconcile(extract.Record{}, tc.transcript, "")
		if got.Equipment != tc.want {
			t.Errorf("Equipment(%q) = %q, want %q", tc.transcript, got.Equipment, tc.want)
		}
	}
}

func TestReconcile_WorkLocationFromGazetteer(t *testing.T) {
	t.Parallel()

	// 대전 appears before 서울; the earliest occurrence wins.
	got := Reconcile(extract.Record{}, "대전 국사에서 서울 본사로 이관했습니다", "")
	if got.WorkLocation != "대전" {
		t.Errorf("WorkLocation = %q, want 대전", got.WorkLocation)
	}
}

func TestReconcile_OrganizationAndSystemName(t *testing.T) {
	t.Parallel()

	got := Reconcile(extract.Record{}, "여기는 선관위이고, 삼성 SDS 망을 쓰고 있습니다", "")
	if !strings.Contains(got.Organization, "선관위") {
		t.Errorf("Organization = %q, want the institution", got.Organization)
	}
	if !strings.Contains(got.SystemName, "선관위") {
		t.Errorf("SystemName = %q, want institution before company", got.SystemName)
	}

	got = Reconcile(extract.Record{}, "삼성 SDS 해외 페콜망 건입니다", "")
	if got.SystemName != "삼성 SDS" {
		t.Errorf("SystemName = %q, want 삼성 SDS", got.SystemName)
	}
	if got.Organization != ticket.NoInfo {
		t.Errorf("Organization = %q, want sentinel without an institution", got.Organization)
	}
}

func TestReconcile_RequestSummary(t *testing.T) {
	t.Parallel()

	rec := extract.Record{FaultCode: "ERR-003", RequestCode: "RQ-ONS"}
	transcript := "링크 장애가 났습니다. 14시 30분부터요. 서버는 10.20.30.40 입니다."

	got := Reconcile(rec, transcript, "")

	for _, want := range []string{
		"장애유형: ERR-003",
		"요청유형: RQ-ONS",
		"링크 장애 발생",
		"장애 발생 시간: 14시 30분",
		"대상 서버 IP: 10.20.30.40",
	} {
		if !strings.Contains(got.Request, want) {
			t.Errorf("Request %q missing %q", got.Request, want)
		}
	}
}

func TestReconcile_RequestSummaryFallsBackToCodes(t *testing.T) {
	t.Parallel()

	got := Reconcile(extract.Record{FaultCode: "ERR-003"}, "특이사항 없는 대화", "")
	want := "장애유형: ERR-003, 요청유형: " + ticket.NoInfo
	if got.Request != want {
		t.Errorf("Request = %q, want %q", got.Request, want)
	}

	got = Reconcile(extract.Record{}, "특이사항 없는 대화", "")
	if got.Request != "요청 정보 없음" {
		t.Errorf("Request = %q, want 요청 정보 없음", got.Request)
	}
}

func TestReconcile_FixedFields(t *testing.T) {
	t.Parallel()

	got := Reconcile(extract.Record{}, "", "")
	if got.Headcount != "1" {
		t.Errorf("Headcount = %q, want 1", got.Headcount)
	}
	for name, val := range map[string]string{
		"SupportStaff": got.SupportStaff,
		"WarrantyOver": got.WarrantyOver,
	} {
		if val != ticket.NoInfo {
			t.Errorf("%s = %q, want sentinel", name, val)
		}
	}
}
