package validate_test

import (
	"strings"
	"testing"

	"github.com/daehyun-cc/callticket/internal/extract"
	"github.com/daehyun-cc/callticket/internal/validate"
	"github.com/daehyun-cc/callticket/internal/vocab"
)

func testVocabulary() *vocab.Vocabulary {
	return vocab.New(
		[]string{"ROADM", "MSPP"},
		[]string{"ERR-003"},
		[]string{"RQ-ONS"},
	)
}

func strptr(s string) *string { return &s }

func TestCheck_AllFieldsResolved(t *testing.T) {
	t.Parallel()

	out := extract.Outcome{
		Record: extract.Record{Equipment: "ROADM", FaultCode: "ERR-003", RequestCode: "RQ-ONS"},
	}
	rep := validate.Check(out, testVocabulary())

	if !rep.Complete() {
		t.Errorf("Complete() = false, report %+v", rep)
	}
	if len(rep.Warnings) != 0 {
		t.Errorf("Warnings = %v, want none", rep.Warnings)
	}
}

func TestCheck_UnmappedCandidateWarns(t *testing.T) {
	t.Parallel()

	out := extract.Outcome{
		Record: extract.Record{FaultCode: "ERR-003", RequestCode: "RQ-ONS"},
		Candidate: extract.Candidate{
			Equipment: strptr("불명확한 장비"),
		},
	}
	rep := validate.Check(out, testVocabulary())

	if rep.ValidEquipment {
		t.Error("ValidEquipment = true for an unresolved field")
	}
	if len(rep.Warnings) != 1 {
		t.Fatalf("Warnings = %v, want exactly one", rep.Warnings)
	}
	if rep.Warnings[0].Field != "equipment" {
		t.Errorf("warning field = %q, want equipment", rep.Warnings[0].Field)
	}
	if !strings.Contains(rep.Warnings[0].Message, "불명확한 장비") {
		t.Errorf("warning %q does not reference the raw candidate", rep.Warnings[0].Message)
	}
}

func TestCheck_NullFieldWithoutCandidateIsSilent(t *testing.T) {
	t.Parallel()

	out := extract.Outcome{
		Record: extract.Record{Equipment: "ROADM"},
	}
	rep := validate.Check(out, testVocabulary())

	if rep.ValidFault || rep.ValidRequest {
		t.Errorf("empty fields reported valid: %+v", rep)
	}
	if len(rep.Warnings) != 0 {
		t.Errorf("Warnings = %v, want none when the model returned null", rep.Warnings)
	}
}

func TestCheck_DegradedOutcomeYieldsAllFalse(t *testing.T) {
	t.Parallel()

	rep := validate.Check(extract.Outcome{Degraded: true}, testVocabulary())

	if rep.ValidEquipment || rep.ValidFault || rep.ValidRequest {
		t.Errorf("degraded outcome reported valid fields: %+v", rep)
	}
	if len(rep.Warnings) != 0 {
		t.Errorf("Warnings = %v, want none", rep.Warnings)
	}
}
