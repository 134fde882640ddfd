package research

import "strings"

// Pipeline bounds. The clarification loop must terminate in finite rounds,
// so MaxClarifyAttempts is a hard cap, not a tunable.
const (
	MaxClarifyAttempts   = 2
	MaxPendingQuestions  = 3
	QueryCount           = 5
	RetrievalPageSize    = 5
	MaxTrackedCases      = 10
	MaxInsightCases      = 3
	NarrativePromptLimit = 12000
	CaseTextPromptLimit  = 4000
)

// Party is one named actor in the user's situation.
type Party struct {
	Name    string `json:"name"`
	Role    string `json:"role"`
	Details string `json:"details,omitempty"`
}

// PenalCode is a statute reference the analysis identified.
type PenalCode struct {
	Code        string `json:"code"`
	Description string `json:"description"`
	Relevance   string `json:"relevance"`
}

// AnalysisBundle is the structured fact extraction for a session.
// All fields are collections that default to empty, never nil.
type AnalysisBundle struct {
	Facts          []string    `json:"facts"`
	Jurisdictions  []string    `json:"jurisdictions"`
	Parties        []Party     `json:"parties"`
	LegalIssues    []string    `json:"legal_issues"`
	CausesOfAction []string    `json:"causes_of_action"`
	PenalCodes     []PenalCode `json:"penal_codes"`
}

// NewAnalysisBundle returns a bundle with every collection initialized.
func NewAnalysisBundle() AnalysisBundle {
	return AnalysisBundle{
		Facts:          []string{},
		Jurisdictions:  []string{},
		Parties:        []Party{},
		LegalIssues:    []string{},
		CausesOfAction: []string{},
		PenalCodes:     []PenalCode{},
	}
}

// Normalize replaces nil collections with empty ones so the bundle is
// always safe to serialize and index.
func (b *AnalysisBundle) Normalize() {
	if b.Facts == nil {
		b.Facts = []string{}
	}
	if b.Jurisdictions == nil {
		b.Jurisdictions = []string{}
	}
	if b.Parties == nil {
		b.Parties = []Party{}
	}
	if b.LegalIssues == nil {
		b.LegalIssues = []string{}
	}
	if b.CausesOfAction == nil {
		b.CausesOfAction = []string{}
	}
	if b.PenalCodes == nil {
		b.PenalCodes = []PenalCode{}
	}
}

// IsEmpty reports whether no field carries any extracted value.
func (b AnalysisBundle) IsEmpty() bool {
	return len(b.Facts) == 0 &&
		len(b.Jurisdictions) == 0 &&
		len(b.Parties) == 0 &&
		len(b.LegalIssues) == 0 &&
		len(b.CausesOfAction) == 0 &&
		len(b.PenalCodes) == 0
}

// MergeFrom enriches the bundle field-by-field: a field is replaced only
// when the incoming value is non-empty. The bundle never regresses to
// empty through a merge.
func (b *AnalysisBundle) MergeFrom(other AnalysisBundle) {
	if len(other.Facts) > 0 {
		b.Facts = other.Facts
	}
	if len(other.Jurisdictions) > 0 {
		b.Jurisdictions = other.Jurisdictions
	}
	if len(other.Parties) > 0 {
		b.Parties = other.Parties
	}
	if len(other.LegalIssues) > 0 {
		b.LegalIssues = other.LegalIssues
	}
	if len(other.CausesOfAction) > 0 {
		b.CausesOfAction = other.CausesOfAction
	}
	if len(other.PenalCodes) > 0 {
		b.PenalCodes = other.PenalCodes
	}
	b.Normalize()
}

// Clone returns a copy sharing no collections with the original.
func (b AnalysisBundle) Clone() AnalysisBundle {
	return AnalysisBundle{
		Facts:          append([]string{}, b.Facts...),
		Jurisdictions:  append([]string{}, b.Jurisdictions...),
		Parties:        append([]Party{}, b.Parties...),
		LegalIssues:    append([]string{}, b.LegalIssues...),
		CausesOfAction: append([]string{}, b.CausesOfAction...),
		PenalCodes:     append([]PenalCode{}, b.PenalCodes...),
	}
}

// CaseInsight is the deep per-case extraction, populated lazily for the
// top graded cases only.
type CaseInsight struct {
	KeyFacts         []string `json:"key_facts"`
	LegalPrinciples  []string `json:"legal_principles"`
	Holdings         []string `json:"holdings"`
	Reasoning        string   `json:"reasoning"`
	RelevantStatutes []string `json:"relevant_statutes"`
	Similarities     string   `json:"similarities"`
}

func (i CaseInsight) IsEmpty() bool {
	return len(i.KeyFacts) == 0 &&
		len(i.LegalPrinciples) == 0 &&
		len(i.Holdings) == 0 &&
		i.Reasoning == "" &&
		len(i.RelevantStatutes) == 0 &&
		i.Similarities == ""
}

// Clone returns a copy sharing no slices with the original.
func (i CaseInsight) Clone() CaseInsight {
	cp := i
	cp.KeyFacts = append([]string{}, i.KeyFacts...)
	cp.LegalPrinciples = append([]string{}, i.LegalPrinciples...)
	cp.Holdings = append([]string{}, i.Holdings...)
	cp.RelevantStatutes = append([]string{}, i.RelevantStatutes...)
	return cp
}

// Case is one externally retrieved case record plus grading metadata.
// Cases are produced fresh each retrieval turn and never mutated after
// grading.
type Case struct {
	Title           string       `json:"title"`
	Citation        string       `json:"citation"`
	Link            string       `json:"link"`
	Snippet         string       `json:"snippet"`
	DecisionDate    string       `json:"decision_date"`
	RelevanceScore  int          `json:"relevance_score"`
	RelevanceReason string       `json:"relevance_reason"`
	Insight         *CaseInsight `json:"case_insight,omitempty"`
}

// Key is the deduplication identity: two cases with the same title and
// citation are the same logical case regardless of which query found them.
func (c Case) Key() string {
	return c.Title + "\x00" + c.Citation
}

// Clone returns a copy with its own insight record.
func (c Case) Clone() Case {
	cp := c
	if c.Insight != nil {
		ins := c.Insight.Clone()
		cp.Insight = &ins
	}
	return cp
}

// DocType tags a drafted document kind.
type DocType string

const (
	DocTypeMemo  DocType = "memo"
	DocTypeBrief DocType = "brief"
)

// ParseDocType validates a document-type tag from a request.
func ParseDocType(s string) (DocType, bool) {
	switch DocType(strings.ToLower(strings.TrimSpace(s))) {
	case DocTypeMemo:
		return DocTypeMemo, true
	case DocTypeBrief:
		return DocTypeBrief, true
	}
	return "", false
}

// SessionContext is the mutable accumulator for one logical conversation.
// It is owned exclusively by the orchestration engine; callers must hold
// the per-session lock while reading or writing it.
type SessionContext struct {
	ID               string             `json:"id"`
	Narrative        string             `json:"narrative"`
	ClarifyAttempts  int                `json:"clarify_attempts"`
	PendingQuestions []string           `json:"pending_questions"`
	Analysis         AnalysisBundle     `json:"analysis"`
	Summary          string             `json:"summary"`
	SearchQueries    []string           `json:"search_queries"`
	Cases            []Case             `json:"cases"`
	DraftedDocuments map[DocType]string `json:"drafted_documents"`
}

func NewSessionContext(id string) *SessionContext {
	return &SessionContext{
		ID:               id,
		PendingQuestions: []string{},
		Analysis:         NewAnalysisBundle(),
		SearchQueries:    []string{},
		Cases:            []Case{},
		DraftedDocuments: map[DocType]string{},
	}
}

// AppendNarrative accumulates user text in arrival order. The narrative is
// append-only; nothing ever rewrites earlier turns.
func (sc *SessionContext) AppendNarrative(text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	if sc.Narrative == "" {
		sc.Narrative = text
		return
	}
	sc.Narrative = sc.Narrative + "\n\n" + text
}

// HasContent reports whether the session has anything worth drafting from.
func (sc *SessionContext) HasContent() bool {
	return !sc.Analysis.IsEmpty() || len(sc.Cases) > 0 || strings.TrimSpace(sc.Narrative) != ""
}

// Clone returns a deep copy safe to read outside the session lock while a
// turn keeps mutating the original in place.
func (sc *SessionContext) Clone() *SessionContext {
	cp := *sc
	cp.PendingQuestions = append([]string{}, sc.PendingQuestions...)
	cp.SearchQueries = append([]string{}, sc.SearchQueries...)
	cp.Analysis = sc.Analysis.Clone()
	cp.Cases = make([]Case, len(sc.Cases))
	for i, c := range sc.Cases {
		cp.Cases[i] = c.Clone()
	}
	cp.DraftedDocuments = make(map[DocType]string, len(sc.DraftedDocuments))
	for k, v := range sc.DraftedDocuments {
		cp.DraftedDocuments[k] = v
	}
	return &cp
}
