package reconcile

import (
	"regexp"
	"strings"
)

// The fallback extractors are ordered rule tables, evaluated first-match-
// wins. Order within a table is priority order and is load-bearing: more
// specific surface forms sit above generic ones.

// nameRule matches a Korean self-introduction and says which capture group
// holds the speaker's name.
type nameRule struct {
	re    *regexp.Regexp
	group int
}

// deptSuffix covers the organisational unit suffixes that precede a name
// in formal self-introductions ("전역망원지팀의 전성만입니다").
const deptSuffix = `(?:팀|부서|과|실|센터|지부|본부|사업부|사업단|연구소|연구원|기술원|기술센터)`

var requesterRules = []nameRule{
	// "<부서>의 <이름>입니다"
	{regexp.MustCompile(`([가-힣]+` + deptSuffix + `)의\s+([가-힣]{2,4})입니다`), 2},
	// "<부서> <이름>입니다"
	{regexp.MustCompile(`([가-힣]+` + deptSuffix + `)\s+([가-힣]{2,4})입니다`), 2},
	// "<이름>입니다"
	{regexp.MustCompile(`([가-힣]{2,4})입니다`), 1},
	// "<이름>이라고 합니다" / "<이름>라고 해요"
	{regexp.MustCompile(`([가-힣]{2,4})(?:이라고|라고)\s+(?:합니다|해요)`), 1},
}

// institutionRules match public institutions and carrier organisations.
// These fill the requesting-organization field.
var institutionRules = []*regexp.Regexp{
	regexp.MustCompile(`중앙선거관리위원회|선관위`),
	regexp.MustCompile(`한국전력|한전`),
	regexp.MustCompile(`국가정보자원관리원`),
	regexp.MustCompile(`(?i)KT\b`),
	regexp.MustCompile(`(?i)SKT\b|SK\s*텔레콤`),
	regexp.MustCompile(`(?i)LG\s*유플러스|LGU\+`),
}

// customerRules match customer and network names for the system-name
// field. Institutions take priority over generic company names, which take
// priority over network names.
var customerRules = []*regexp.Regexp{
	regexp.MustCompile(`중앙선거관리위원회|선관위`),
	regexp.MustCompile(`한국전력|한전`),
	regexp.MustCompile(`(?i)삼성\s*SDS`),
	regexp.MustCompile(`삼성\s*전자`),
	regexp.MustCompile(`(?i)LG\s*[가-힣A-Za-z]+`),
	regexp.MustCompile(`(?i)KT\s*[가-힣A-Za-z]*`),
	regexp.MustCompile(`(?i)SKT\s*[가-힣A-Za-z]*`),
	regexp.MustCompile(`네이버`),
	regexp.MustCompile(`카카오`),
	regexp.MustCompile(`현대\s*[가-힣A-Za-z]+`),
	regexp.MustCompile(`기아`),
	regexp.MustCompile(`포스코`),
	regexp.MustCompile(`대한항공`),
	regexp.MustCompile(`아시아나`),
	regexp.MustCompile(`(?i)CJ\s*[가-힣A-Za-z]+`),
	regexp.MustCompile(`(?i)GS\s*[가-힣A-Za-z]+`),
	regexp.MustCompile(`롯데\s*[가-힣A-Za-z]+`),
	regexp.MustCompile(`(?i)FA망`),
	regexp.MustCompile(`해외\s*페콜망`),
}

// cityGazetteer is the fixed list of city and district names scanned for
// the work-location fallback. The earliest occurrence in the transcript
// wins; table order breaks position ties.
var cityGazetteer = []string{
	"서울", "인천", "부산", "대구", "광주", "대전", "울산", "세종",
	"수원", "성남", "판교", "천안", "아산", "청주", "전주", "포항",
	"창원", "제주",
}

// equipRule maps an equipment keyword in the transcript to the canonical
// equipment name recorded on the ticket.
type equipRule struct {
	re        *regexp.Regexp
	canonical string
}

var equipmentRules = []equipRule{
	{regexp.MustCompile(`(?i)\bUPS\b|유피에스`), "UPS"},
	{regexp.MustCompile(`(?i)\bROADM\b|로드엠`), "ROADM"},
	// ROADN is a recurring recognition error for ROADM.
	{regexp.MustCompile(`(?i)\bROADN\b|로드엔`), "ROADM"},
	{regexp.MustCompile(`(?i)\bMSPP\b|엠에스피피`), "MSPP"},
	{regexp.MustCompile(`(?i)\bSTN\b`), "STN"},
	{regexp.MustCompile(`스위치`), "스위치"},
	{regexp.MustCompile(`라우터`), "라우터"},
}

// summaryRule contributes one note to the request-content synthesis. A
// rule fires when every keyword occurs in the transcript and, if pattern
// is set, the pattern matches too. A "%s" in note is replaced with the
// pattern's first capture group. Unlike the other tables, every matching
// rule contributes; notes are joined in table order.
type summaryRule struct {
	keywords []string
	pattern  *regexp.Regexp
	note     string
}

var summaryRules = []summaryRule{
	{keywords: []string{"링크 장애"}, note: "링크 장애 발생"},
	{keywords: []string{"복구", "원인 파악"}, note: "장애 복구 후 원인 파악 요청"},
	{keywords: []string{"알람", "성능"}, note: "성능 관련 알람 발생"},
	{keywords: []string{"긴급하게", "확인 요청"}, note: "긴급 확인 및 점검 요청"},
	{keywords: []string{"부탁드릴게요"}, note: "기술 지원 요청"},
	{keywords: []string{"회선번호", "장비명"}, note: "회선번호 및 장비명 확인 요청"},
	{keywords: []string{"서버 IP"}, note: "서버 IP 정보 확인"},
	{pattern: regexp.MustCompile(`(\d{1,2}시\s*\d{0,2}분?)`), note: "장애 발생 시간: %s"},
	{pattern: regexp.MustCompile(`(\d{1,3}\.\d{1,3}\.\d{1,3}\.\d{1,3})`), note: "대상 서버 IP: %s"},
	{pattern: regexp.MustCompile(`(?i)\bROAD[MN]\b`), note: "ROAD 계열 장비 관련 이슈"},
	{keywords: []string{"삼성 SDS"}, note: "삼성 SDS 고객사"},
	{keywords: []string{"해외 페콜망"}, note: "해외 페콜망 관련"},
	{keywords: []string{"전역망원지팀"}, note: "전역망원지팀 요청"},
	{keywords: []string{"연락 드리겠습니다"}, note: "후속 연락 및 조치 예정"},
}

// filenameDatetime matches the YYYYMMDDHHMMSS run embedded in recording
// filenames.
var filenameDatetime = regexp.MustCompile(`(\d{14})`)

func (r summaryRule) matches(text string) (capture string, ok bool) {
	for _, kw := range r.keywords {
		if !strings.Contains(text, kw) {
			return "", false
		}
	}
	if r.pattern != nil {
		m := r.pattern.FindStringSubmatch(text)
		if m == nil {
			return "", false
		}
		if len(m) > 1 {
			capture = m[1]
		}
	}
	return capture, true
}
