// Package vocab holds the controlled domain vocabulary that every extracted
// ticket field is validated against: canonical equipment names, fault codes,
// and request-type codes, together with the alias and example maps used to
// fold customer phrasing back onto canonical values.
//
// A [Vocabulary] is an immutable snapshot. It is built once by [Load] (or in
// tests via [New]) and never mutated afterwards, so a single snapshot may be
// shared across any number of concurrent pipeline runs without locking.
// Hot reload is handled by [Store], which swaps whole snapshots atomically.
package vocab

// Category selects one of the three coded vocabulary dimensions.
type Category string

const (
	// CategoryEquipment covers canonical equipment names (e.g., "ROADM").
	CategoryEquipment Category = "equipment"

	// CategoryFault covers fault-type codes (e.g., "ERR-001").
	CategoryFault Category = "fault"

	// CategoryRequest covers request-type codes (e.g., "RQ-ONS").
	CategoryRequest Category = "request"
)

// IsValid reports whether c is a recognised category.
func (c Category) IsValid() bool {
	switch c {
	case CategoryEquipment, CategoryFault, CategoryRequest:
		return true
	}
	return false
}

// Hints are short human-readable excerpts from the reference tables that get
// appended to extraction prompts. They are kept as full lists here; the
// prompt builder caps how many it injects.
type Hints struct {
	// Equipment entries look like "ROADM: 1830 PSS; 7250 IXR-R4".
	Equipment []string

	// Faults entries look like "링크 장애(ERR-003): 링크가 다운됐어요; 회선 단절".
	Faults []string

	// Requests entries look like "현장 지원(RQ-ONS): 기사님 보내주세요".
	Requests []string
}

// Vocabulary is one immutable snapshot of the domain reference data.
//
// The allowed lists preserve the row order of the source tables. That order
// is load-bearing: the resolver's similarity tie-break keeps the
// first-encountered candidate, so identical tables always resolve
// identically.
type Vocabulary struct {
	allowed map[Category][]string
	members map[Category]map[string]struct{}

	// ModelToEquipment maps specific model numbers to the canonical
	// equipment name they belong to (many-to-one).
	ModelToEquipment map[string]string

	// FaultExampleToCode maps literal customer phrasings to fault codes.
	FaultExampleToCode map[string]string

	// RequestExampleToCode maps literal customer phrasings to request codes.
	RequestExampleToCode map[string]string

	// Hints holds the prompt excerpt lists.
	Hints Hints
}

// Stats summarises a snapshot for observability. Returned by [Store.Reload]
// and consumed by callers that want per-category counts after a reload.
type Stats struct {
	Equipment       int `json:"equipment"`
	Faults          int `json:"faults"`
	Requests        int `json:"requests"`
	ModelAliases    int `json:"model_aliases"`
	FaultExamples   int `json:"fault_examples"`
	RequestExamples int `json:"request_examples"`
}

// New builds a Vocabulary from already-parsed allowed lists. Blank entries
// are dropped; order is preserved. Alias and example maps start empty and
// may be filled by the caller before the snapshot is published.
func New(equipment, faults, requests []string) *Vocabulary {
	v := &Vocabulary{
		allowed:              make(map[Category][]string, 3),
		members:              make(map[Category]map[string]struct{}, 3),
		ModelToEquipment:     map[string]string{},
		FaultExampleToCode:   map[string]string{},
		RequestExampleToCode: map[string]string{},
	}
	v.setAllowed(CategoryEquipment, equipment)
	v.setAllowed(CategoryFault, faults)
	v.setAllowed(CategoryRequest, requests)
	return v
}

func (v *Vocabulary) setAllowed(c Category, values []string) {
	list := make([]string, 0, len(values))
	set := make(map[string]struct{}, len(values))
	for _, val := range values {
		if val == "" {
			continue
		}
		if _, dup := set[val]; dup {
			continue
		}
		list = append(list, val)
		set[val] = struct{}{}
	}
	v.allowed[c] = list
	v.members[c] = set
}

// Allowed returns the ordered canonical value list for a category. Callers
// must not mutate the returned slice.
func (v *Vocabulary) Allowed(c Category) []string {
	return v.allowed[c]
}

// Contains reports whether value is an exact member of the category's
// allowed set.
func (v *Vocabulary) Contains(c Category, value string) bool {
	_, ok := v.members[c][value]
	return ok
}

// Alias looks up the category-specific alias map: model numbers for
// equipment, literal example phrasings for faults and requests. The second
// return is false when no alias is known.
func (v *Vocabulary) Alias(c Category, value string) (string, bool) {
	var mapped string
	var ok bool
	switch c {
	case CategoryEquipment:
		mapped, ok = v.ModelToEquipment[value]
	case CategoryFault:
		mapped, ok = v.FaultExampleToCode[value]
	case CategoryRequest:
		mapped, ok = v.RequestExampleToCode[value]
	}
	return mapped, ok
}

// Stats returns per-category counts for this snapshot.
func (v *Vocabulary) Stats() Stats {
	return Stats{
		Equipment:       len(v.allowed[CategoryEquipment]),
		Faults:          len(v.allowed[CategoryFault]),
		Requests:        len(v.allowed[CategoryRequest]),
		ModelAliases:    len(v.ModelToEquipment),
		FaultExamples:   len(v.FaultExampleToCode),
		RequestExamples: len(v.RequestExampleToCode),
	}
}
