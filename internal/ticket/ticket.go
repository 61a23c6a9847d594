// Package ticket defines the legacy service-ticket record — the only
// entity the pipeline hands back to callers. The field set and the Korean
// JSON keys are fixed by the downstream ticketing system and must not
// change; absence of information is always the 정보 없음 sentinel, never an
// empty string or a null.
package ticket

// NoInfo is the sentinel value for any field the pipeline could not fill.
const NoInfo = "정보 없음"

// Support-type values derived from the resolved request code.
const (
	SupportOnSite = "방문기술지원"
	SupportRemote = "원격기술지원"
)

// LegacyTicket is the finished service-ticket record. All fields are
// strings; every field is always populated (with NoInfo when unknown).
type LegacyTicket struct {
	SupportType  string `json:"AS 및 지원"`
	Organization string `json:"요청기관"`
	WorkLocation string `json:"작업국소"`
	RequestDate  string `json:"요청일"`
	RequestTime  string `json:"요청시간"`
	Requester    string `json:"요청자"`
	Headcount    string `json:"지원인원수"`
	SupportStaff string `json:"지원요원"`
	Equipment    string `json:"장비명"`
	ModelName    string `json:"기종명"`
	WarrantyOver string `json:"A/S기간만료여부"`
	SystemName   string `json:"시스템명(고객사명)"`
	Request      string `json:"요청 사항"`
}

// Empty returns a ticket with every field set to the NoInfo sentinel.
// Degraded extractions start from here and fill what the fallback rules
// can still recover.
func Empty() LegacyTicket {
	return LegacyTicket{
		SupportType:  NoInfo,
		Organization: NoInfo,
		WorkLocation: NoInfo,
		RequestDate:  NoInfo,
		RequestTime:  NoInfo,
		Requester:    NoInfo,
		Headcount:    NoInfo,
		SupportStaff: NoInfo,
		Equipment:    NoInfo,
		ModelName:    NoInfo,
		WarrantyOver: NoInfo,
		SystemName:   NoInfo,
		Request:      NoInfo,
	}
}
