package research

import (
	"testing"
)

func TestMergeFromNeverRegresses(t *testing.T) {
	b := NewAnalysisBundle()
	b.Facts = []string{"deposit withheld"}
	b.Jurisdictions = []string{"California"}

	// empty incoming fields must not clear anything
	b.MergeFrom(NewAnalysisBundle())
	if len(b.Facts) != 1 || len(b.Jurisdictions) != 1 {
		t.Fatalf("merge with empty bundle cleared fields: %+v", b)
	}

	// non-empty incoming fields replace
	richer := NewAnalysisBundle()
	richer.Facts = []string{"deposit withheld", "lease ended in March"}
	b.MergeFrom(richer)
	if len(b.Facts) != 2 {
		t.Errorf("expected richer facts to replace, got %v", b.Facts)
	}
	if len(b.Jurisdictions) != 1 {
		t.Errorf("untouched field was modified: %v", b.Jurisdictions)
	}
}

func TestMergeFromNormalizes(t *testing.T) {
	var b AnalysisBundle
	b.MergeFrom(AnalysisBundle{})
	if b.Facts == nil || b.Parties == nil || b.PenalCodes == nil {
		t.Errorf("collections not normalized: %+v", b)
	}
}

func TestAppendNarrative(t *testing.T) {
	sc := NewSessionContext("id")
	sc.AppendNarrative("first turn")
	sc.AppendNarrative("  ")
	sc.AppendNarrative("second turn")

	want := "first turn\n\nsecond turn"
	if sc.Narrative != want {
		t.Errorf("narrative = %q, want %q", sc.Narrative, want)
	}
}

func TestCaseKey(t *testing.T) {
	a := Case{Title: "Smith v. Jones", Citation: "123 F.3d 1"}
	b := Case{Title: "Smith v. Jones", Citation: "123 F.3d 1", Snippet: "different snippet"}
	c := Case{Title: "Smith v. Jones", Citation: "456 F.3d 9"}

	if a.Key() != b.Key() {
		t.Error("same title+citation should share a key")
	}
	if a.Key() == c.Key() {
		t.Error("different citation should produce a different key")
	}
}

func TestCloneSharesNothing(t *testing.T) {
	sc := NewSessionContext("ctx")
	sc.AppendNarrative("tenant deposit dispute")
	sc.ClarifyAttempts = 1
	sc.PendingQuestions = []string{"Which state?"}
	sc.Analysis.Facts = []string{"deposit withheld"}
	sc.Analysis.Parties = []Party{{Name: "tenant", Role: "plaintiff"}}
	sc.SearchQueries = []string{"deposit statute"}
	sc.Cases = []Case{{
		Title:    "Smith v. Jones",
		Citation: "123 F.3d 1",
		Insight:  &CaseInsight{Holdings: []string{"landlord bears the burden"}},
	}}
	sc.DraftedDocuments[DocTypeMemo] = "MEMO"

	cp := sc.Clone()
	if cp == sc {
		t.Fatal("Clone returned the original pointer")
	}
	if cp.Cases[0].Insight == sc.Cases[0].Insight {
		t.Fatal("insight pointer shared with the original")
	}

	// mutating the original must not show through the copy
	sc.AppendNarrative("later turn")
	sc.PendingQuestions[0] = "mutated"
	sc.Analysis.Facts[0] = "mutated"
	sc.Analysis.Parties[0].Name = "mutated"
	sc.SearchQueries[0] = "mutated"
	sc.Cases[0].Title = "mutated"
	sc.Cases[0].Insight.Holdings[0] = "mutated"
	sc.DraftedDocuments[DocTypeBrief] = "BRIEF"

	if cp.Narrative != "tenant deposit dispute" {
		t.Errorf("narrative leaked: %q", cp.Narrative)
	}
	if cp.PendingQuestions[0] != "Which state?" || cp.Analysis.Facts[0] != "deposit withheld" {
		t.Errorf("analysis state leaked: %+v", cp)
	}
	if cp.Analysis.Parties[0].Name != "tenant" || cp.SearchQueries[0] != "deposit statute" {
		t.Errorf("collections leaked: %+v", cp)
	}
	if cp.Cases[0].Title != "Smith v. Jones" || cp.Cases[0].Insight.Holdings[0] != "landlord bears the burden" {
		t.Errorf("case state leaked: %+v", cp.Cases[0])
	}
	if len(cp.DraftedDocuments) != 1 {
		t.Errorf("draft cache leaked: %v", cp.DraftedDocuments)
	}
}

func TestParseDocType(t *testing.T) {
	tests := []struct {
		in     string
		want   DocType
		wantOk bool
	}{
		{"memo", DocTypeMemo, true},
		{" Brief ", DocTypeBrief, true},
		{"MEMO", DocTypeMemo, true},
		{"motion", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		got, ok := ParseDocType(tt.in)
		if ok != tt.wantOk || got != tt.want {
			t.Errorf("ParseDocType(%q) = (%q, %v), want (%q, %v)", tt.in, got, ok, tt.want, tt.wantOk)
		}
	}
}
