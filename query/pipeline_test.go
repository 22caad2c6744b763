package query

import (
	"testing"
	"time"
)

type row struct {
	name  string
	score *int
	date  time.Time
	seq   int
}

func intPtr(v int) *int { return &v }

var rowFields = Fields[row]{
	"name":  {Value: func(r row) any { return r.name }},
	"score": {Numeric: true, DefaultDesc: true, Value: func(r row) any { return r.score }},
	"date":  {DefaultDesc: true, Value: func(r row) any { return r.date }},
}

func TestFilter_Idempotent(t *testing.T) {
	t.Parallel()

	items := []row{{name: "Aggies"}, {name: "Bears"}, {name: "Badgers"}}
	pred := TextContains("b", func(r row) string { return r.name })

	once := Filter(items, pred)
	twice := Filter(once, pred)

	if len(once) != 2 {
		t.Fatalf("expected 2 matches, got=%d", len(once))
	}
	if len(twice) != len(once) {
		t.Fatalf("re-filtering changed result: first=%d second=%d", len(once), len(twice))
	}
	for i := range once {
		if once[i].name != twice[i].name {
			t.Fatalf("re-filtering reordered result at %d: %s vs %s", i, once[i].name, twice[i].name)
		}
	}
}

func TestSort_StableOnTies(t *testing.T) {
	t.Parallel()

	items := []row{
		{name: "a", score: intPtr(10), seq: 0},
		{name: "b", score: intPtr(10), seq: 1},
		{name: "c", score: intPtr(20), seq: 2},
		{name: "d", score: intPtr(10), seq: 3},
	}

	sorted := Sort(items, rowFields, "score", false)
	wantSeq := []int{0, 1, 3, 2}
	for i, want := range wantSeq {
		if sorted[i].seq != want {
			t.Fatalf("position %d: got seq=%d want=%d", i, sorted[i].seq, want)
		}
	}
}

func TestSort_AscendingReversedEqualsDescending(t *testing.T) {
	t.Parallel()

	items := []row{
		{name: "a", score: intPtr(3)},
		{name: "b", score: intPtr(1)},
		{name: "c", score: intPtr(4)},
		{name: "d", score: intPtr(2)},
	}

	asc := Sort(items, rowFields, "score", false)
	desc := Sort(items, rowFields, "score", true)

	for i := range asc {
		if asc[len(asc)-1-i].name != desc[i].name {
			t.Fatalf("reverse of ascending mismatches descending at %d: %s vs %s",
				i, asc[len(asc)-1-i].name, desc[i].name)
		}
	}
}

func TestSort_MissingNumericDefaultsToZero(t *testing.T) {
	t.Parallel()

	items := []row{
		{name: "scored", score: intPtr(7)},
		{name: "unplayed", score: nil},
	}

	sorted := Sort(items, rowFields, "score", false)
	if sorted[0].name != "unplayed" {
		t.Fatalf("missing score should sort as 0, got first=%s", sorted[0].name)
	}
}

func TestSort_DateChronologicalNotLexical(t *testing.T) {
	t.Parallel()

	// Lexical order on these RFC3339 strings would agree, so use mixed
	// zones where only chronological comparison is right.
	early := time.Date(2025, 9, 6, 23, 0, 0, 0, time.UTC)
	late := time.Date(2025, 9, 7, 1, 0, 0, 0, time.FixedZone("ET", -4*3600))

	items := []row{
		{name: "late", date: late},
		{name: "early", date: early},
		{name: "missing"},
	}

	sorted := Sort(items, rowFields, "date", false)
	if sorted[0].name != "missing" {
		t.Fatalf("zero date should sort earliest, got=%s", sorted[0].name)
	}
	if sorted[1].name != "early" || sorted[2].name != "late" {
		t.Fatalf("unexpected chronological order: %s, %s", sorted[1].name, sorted[2].name)
	}
}

func TestSort_UnknownKeyKeepsInputOrder(t *testing.T) {
	t.Parallel()

	items := []row{{name: "z"}, {name: "a"}}
	sorted := Sort(items, rowFields, "bogus", false)
	if sorted[0].name != "z" || sorted[1].name != "a" {
		t.Fatalf("unknown key must keep input order, got=%s,%s", sorted[0].name, sorted[1].name)
	}
}

func TestApply_PaginationPartitionsCollection(t *testing.T) {
	t.Parallel()

	items := make([]row, 23)
	for i := range items {
		items[i] = row{name: string(rune('a' + i%26)), seq: i, score: intPtr(i)}
	}

	st := NewState("score", false)
	st = st.WithPageSize(5)

	first := Apply(items, nil, rowFields, st)
	if first.Total != 23 {
		t.Fatalf("unexpected total: got=%d want=23", first.Total)
	}
	if first.TotalPages != 5 {
		t.Fatalf("unexpected total pages: got=%d want=5", first.TotalPages)
	}

	var seen []int
	for page := 1; page <= first.TotalPages; page++ {
		res := Apply(items, nil, rowFields, st.WithPage(page))
		for _, r := range res.Items {
			seen = append(seen, r.seq)
		}
	}

	if len(seen) != len(items) {
		t.Fatalf("pages do not cover collection: got=%d want=%d", len(seen), len(items))
	}
	for i, seq := range seen {
		if seq != i {
			t.Fatalf("page concatenation out of order at %d: got seq=%d", i, seq)
		}
	}
}

func TestApply_EmptyCollectionHasOnePage(t *testing.T) {
	t.Parallel()

	res := Apply(nil, nil, rowFields, NewState("name", false))
	if res.TotalPages != 1 {
		t.Fatalf("empty collection should report one page, got=%d", res.TotalPages)
	}
	if len(res.Items) != 0 {
		t.Fatalf("expected no items, got=%d", len(res.Items))
	}
}

func TestApply_PageBeyondEndIsEmpty(t *testing.T) {
	t.Parallel()

	items := []row{{name: "only"}}
	res := Apply(items, nil, rowFields, NewState("name", false).WithPage(9))
	if len(res.Items) != 0 {
		t.Fatalf("expected empty page, got=%d items", len(res.Items))
	}
	if res.TotalPages != 1 {
		t.Fatalf("unexpected total pages: got=%d", res.TotalPages)
	}
}
