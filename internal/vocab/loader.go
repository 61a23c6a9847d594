package vocab

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Table file names expected inside the vocabulary data directory. The
// column sets mirror the reference spreadsheets they are exported from.
const (
	equipmentFile = "equipment.csv"     // equipment_name, model_examples
	faultFile     = "fault_types.csv"   // error_name, error_code, definition, examples
	requestFile   = "request_types.csv" // request_type_label, request_type_code, definition, examples
)

// Load reads the three vocabulary tables from dir and assembles a complete
// [Vocabulary] snapshot. Any missing file, unreadable row, or unexpected
// header fails the whole load — a partially-populated vocabulary is never
// returned.
func Load(dir string) (*Vocabulary, error) {
	eq, err := readTable(filepath.Join(dir, equipmentFile), []string{"equipment_name", "model_examples"})
	if err != nil {
		return nil, fmt.Errorf("vocab: equipment table: %w", err)
	}
	faults, err := readTable(filepath.Join(dir, faultFile), []string{"error_name", "error_code", "definition", "examples"})
	if err != nil {
		return nil, fmt.Errorf("vocab: fault table: %w", err)
	}
	requests, err := readTable(filepath.Join(dir, requestFile), []string{"request_type_label", "request_type_code", "definition", "examples"})
	if err != nil {
		return nil, fmt.Errorf("vocab: request table: %w", err)
	}
	return build(eq, faults, requests), nil
}

// build assembles the snapshot from parsed table rows. Exposed to the
// loader tests via Load only; the assembly rules are:
//
//   - allowed equipment = equipment_name column, faults/requests = the code
//     columns, blank cells skipped, row order preserved;
//   - model_examples split on ";" and "," feed ModelToEquipment;
//   - examples split on ";" feed the example→code maps;
//   - hint lines are built only for rows that carry examples.
func build(eq, faults, requests []row) *Vocabulary {
	var equipmentNames, faultCodes, requestCodes []string
	for _, r := range eq {
		equipmentNames = append(equipmentNames, r.get("equipment_name"))
	}
	for _, r := range faults {
		faultCodes = append(faultCodes, r.get("error_code"))
	}
	for _, r := range requests {
		requestCodes = append(requestCodes, r.get("request_type_code"))
	}

	v := New(equipmentNames, faultCodes, requestCodes)

	for _, r := range eq {
		name := r.get("equipment_name")
		models := r.get("model_examples")
		if name == "" || models == "" {
			continue
		}
		for _, model := range splitList(models, ";", ",") {
			v.ModelToEquipment[model] = name
		}
		v.Hints.Equipment = append(v.Hints.Equipment, fmt.Sprintf("%s: %s", name, models))
	}

	for _, r := range faults {
		code := r.get("error_code")
		examples := r.get("examples")
		if code == "" || examples == "" {
			continue
		}
		for _, ex := range splitList(examples, ";") {
			v.FaultExampleToCode[ex] = code
		}
		v.Hints.Faults = append(v.Hints.Faults, fmt.Sprintf("%s(%s): %s", r.get("error_name"), code, examples))
	}

	for _, r := range requests {
		code := r.get("request_type_code")
		examples := r.get("examples")
		if code == "" || examples == "" {
			continue
		}
		for _, ex := range splitList(examples, ";") {
			v.RequestExampleToCode[ex] = code
		}
		v.Hints.Requests = append(v.Hints.Requests, fmt.Sprintf("%s(%s): %s", r.get("request_type_label"), code, examples))
	}

	return v
}

// row is one CSV record keyed by header name, cells trimmed.
type row map[string]string

func (r row) get(col string) string { return r[col] }

// readTable reads a CSV file and returns its records keyed by column name.
// The header must contain every column in want (extra columns are allowed
// and ignored, matching how the reference spreadsheets carry unused
// columns).
func readTable(path string, want []string) ([]row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rd := csv.NewReader(f)
	rd.FieldsPerRecord = -1

	header, err := rd.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	index := make(map[string]int, len(header))
	for i, col := range header {
		index[strings.TrimSpace(col)] = i
	}
	for _, col := range want {
		if _, ok := index[col]; !ok {
			return nil, fmt.Errorf("missing column %q in %s", col, filepath.Base(path))
		}
	}

	var rows []row
	for {
		record, err := rd.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read record: %w", err)
		}
		r := make(row, len(want))
		for _, col := range want {
			if i := index[col]; i < len(record) {
				r[col] = strings.TrimSpace(record[i])
			}
		}
		rows = append(rows, r)
	}
	return rows, nil
}

// splitList splits a delimited cell into trimmed, non-empty entries. Every
// separator beyond the first is first rewritten to the first one, so
// "a;b,c" with separators ";" and "," yields three entries.
func splitList(s string, seps ...string) []string {
	for _, sep := range seps[1:] {
		s = strings.ReplaceAll(s, sep, seps[0])
	}
	var out []string
	for _, part := range strings.Split(s, seps[0]) {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
