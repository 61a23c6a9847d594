// Package validate produces a membership report for an extraction result.
//
// Validation is deliberately a pure function over its inputs: it mutates
// nothing, calls nothing, and the same record against the same snapshot
// always yields the same report. It exists to make the gap between what the
// model said and what the vocabulary accepts visible — the warnings are for
// operators, not control flow.
package validate

import (
	"fmt"

	"github.com/daehyun-cc/callticket/internal/extract"
	"github.com/daehyun-cc/callticket/internal/vocab"
)

// Warning flags one coded field whose candidate could not be placed in
// the vocabulary.
type Warning struct {
	// Field names the affected field: "equipment", "fault", or "request".
	Field string

	// Message is the operator-facing description.
	Message string
}

// Report describes which coded fields of a record are members of the
// vocabulary's allowed sets, with one warning per field that carried a
// candidate the resolver could not place.
type Report struct {
	ValidEquipment bool
	ValidFault     bool
	ValidRequest   bool

	Warnings []Warning
}

// Complete reports whether every coded field resolved.
func (r Report) Complete() bool {
	return r.ValidEquipment && r.ValidFault && r.ValidRequest
}

// Check validates the outcome's resolved record against the vocabulary
// snapshot it was resolved with.
func Check(out extract.Outcome, v *vocab.Vocabulary) Report {
	var rep Report
	rep.ValidEquipment = checkField(&rep, v, vocab.CategoryEquipment,
		"장비명", out.Record.Equipment, out.Candidate.RawEquipment())
	rep.ValidFault = checkField(&rep, v, vocab.CategoryFault,
		"장애유형", out.Record.FaultCode, out.Candidate.RawFault())
	rep.ValidRequest = checkField(&rep, v, vocab.CategoryRequest,
		"요청유형", out.Record.RequestCode, out.Candidate.RawRequest())
	return rep
}

// checkField reports whether resolved is a member of the category. A
// warning is appended only when the model produced a candidate and it went
// nowhere; a field the model left null is not noteworthy.
func checkField(rep *Report, v *vocab.Vocabulary, c vocab.Category, label, resolved, raw string) bool {
	if resolved != "" && v.Contains(c, resolved) {
		return true
	}
	if raw != "" {
		rep.Warnings = append(rep.Warnings, Warning{
			Field:   string(c),
			Message: fmt.Sprintf("%s 후보 %q가 허용 목록에 매핑되지 않았습니다", label, raw),
		})
	}
	return false
}
