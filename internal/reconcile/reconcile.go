// Package reconcile assembles the final legacy ticket from the primary
// extraction result and rule-based fallbacks over the raw transcript.
//
// The reasoning service is the preferred source of truth, but when it
// leaves a field empty the transcript usually still carries the fact in a
// regular surface form: self-introductions, institution names, city names,
// equipment keywords. Each ticket field follows the same three-step rule —
// primary value if non-empty, else pattern fallback over the transcript,
// else the 정보 없음 sentinel. A primary value is never overwritten, and
// every fallback is isolated: one rule matching nothing cannot disturb any
// other field.
package reconcile

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/daehyun-cc/callticket/internal/extract"
	"github.com/daehyun-cc/callticket/internal/ticket"
)

// Reconcile builds the complete ticket for one call. transcript is the
// normalized conversation text; filename is the recording's base name,
// used only for the embedded date-time. Reconcile never fails — missing
// information degrades to sentinels per field.
func Reconcile(rec extract.Record, transcript, filename string) ticket.LegacyTicket {
	t := ticket.Empty()

	t.SupportType = supportType(rec.RequestCode)
	t.Headcount = "1"

	if org := firstPattern(institutionRules, transcript); org != "" {
		t.Organization = org
	}
	if name := firstPattern(customerRules, transcript); name != "" {
		t.SystemName = name
	}

	if rec.Location != "" {
		t.WorkLocation = rec.Location
	} else if city := firstCity(transcript); city != "" {
		t.WorkLocation = city
	}

	if name := requesterName(transcript); name != "" {
		t.Requester = name
	}

	equipment := rec.Equipment
	if equipment == "" {
		equipment = equipmentKeyword(transcript)
	}
	if equipment != "" {
		t.Equipment = equipment
		// The legacy format carries the model name separately but the
		// source system always mirrors the equipment name into it.
		t.ModelName = equipment
	}

	if date, clock, ok := filenameTime(filename); ok {
		t.RequestDate = date
		t.RequestTime = clock
	} else {
		slog.Warn("no datetime in recording filename", "filename", filename)
	}

	t.Request = requestSummary(rec, transcript)
	return t
}

// supportType derives the support kind from the resolved request code:
// only an explicit on-site request becomes a visit, everything else is
// handled remotely.
func supportType(requestCode string) string {
	if requestCode == "RQ-ONS" {
		return ticket.SupportOnSite
	}
	return ticket.SupportRemote
}

// requesterName runs the self-introduction rules in priority order and
// returns the first captured name.
func requesterName(transcript string) string {
	for _, rule := range requesterRules {
		m := rule.re.FindStringSubmatch(transcript)
		if m == nil {
			continue
		}
		name := m[rule.group]
		slog.Debug("requester from self-introduction", "name", name)
		return name
	}
	return ""
}

// firstPattern returns the first rule's match, trimmed, or "".
func firstPattern(rules []*regexp.Regexp, transcript string) string {
	for _, re := range rules {
		if m := re.FindString(transcript); m != "" {
			return strings.Join(strings.Fields(m), " ")
		}
	}
	return ""
}

// firstCity returns the gazetteer entry occurring earliest in the
// transcript; table order breaks ties at the same position.
func firstCity(transcript string) string {
	best := ""
	bestIdx := -1
	for _, city := range cityGazetteer {
		idx := strings.Index(transcript, city)
		if idx < 0 {
			continue
		}
		if bestIdx < 0 || idx < bestIdx {
			best, bestIdx = city, idx
		}
	}
	return best
}

// equipmentKeyword scans the keyword rules in priority order.
func equipmentKeyword(transcript string) string {
	for _, rule := range equipmentRules {
		if rule.re.MatchString(transcript) {
			slog.Debug("equipment from keyword scan", "equipment", rule.canonical)
			return rule.canonical
		}
	}
	return ""
}

// filenameTime extracts the YYYYMMDDHHMMSS run from the recording
// filename and formats it as ("2006-01-02", "15:04:05"). A digit run that
// is not a real datetime is rejected.
func filenameTime(filename string) (date, clock string, ok bool) {
	for _, m := range filenameDatetime.FindAllString(filename, -1) {
		ts, err := time.Parse("20060102150405", m)
		if err != nil {
			continue
		}
		return ts.Format("2006-01-02"), ts.Format("15:04:05"), true
	}
	return "", "", false
}

// requestSummary synthesises the request-content field: the coded fields
// first, then every note the summary rules contribute, joined with " | ".
// With neither codes nor notes the field states that no request
// information was found.
func requestSummary(rec extract.Record, transcript string) string {
	var notes []string
	for _, rule := range summaryRules {
		capture, ok := rule.matches(transcript)
		if !ok {
			continue
		}
		note := rule.note
		if strings.Contains(note, "%s") {
			note = fmt.Sprintf(note, capture)
		}
		notes = append(notes, note)
	}

	base := fmt.Sprintf("장애유형: %s, 요청유형: %s",
		orSentinel(rec.FaultCode), orSentinel(rec.RequestCode))

	if len(notes) > 0 {
		return base + " | 요청내용: " + strings.Join(notes, " | ")
	}
	if rec.FaultCode == "" && rec.RequestCode == "" {
		return "요청 정보 없음"
	}
	return base
}

func orSentinel(s string) string {
	if s == "" {
		return ticket.NoInfo
	}
	return s
}
