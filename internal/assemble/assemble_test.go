package assemble

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"ledgerlink/constants"
	"ledgerlink/internal/classify"
	"ledgerlink/internal/entity"
)

func header(idx int, party, number string) *entity.PageRecord {
	return &entity.PageRecord{
		SourcePageIndex: idx,
		PartyName:       party,
		DocumentNumber:  number,
		PartyIdentifier: "VND-77",
		BusinessCode:    "BC-9",
		EntryDate:       "2024-09-01",
	}
}

func continuation(idx int, party string) *entity.PageRecord {
	return &entity.PageRecord{
		SourcePageIndex: idx,
		PartyName:       party,
		DeclaredRole:    constants.RoleContinuation,
	}
}

func folioWithTotal(idx int, party, number, code string, total float64) *entity.PageRecord {
	return &entity.PageRecord{
		SourcePageIndex: idx,
		PartyName:       party,
		DocumentNumber:  number,
		BusinessCode:    code,
		HasGrandTotal:   true,
		TotalAmount:     decimal.NewFromFloat(total),
	}
}

func memberIndices(g Group) []int {
	out := make([]int, len(g.Pages))
	for i, p := range g.Pages {
		out[i] = p.SourcePageIndex
	}
	return out
}

// Three consecutive pages: header, continuation, folio with the grand total.
func TestAssembleHeaderContinuationFolio(t *testing.T) {
	a := New(classify.DefaultPolicy(), nil)
	pages := []*entity.PageRecord{
		header(10, "Acme Staffing", "R35086148"),
		continuation(11, "Acme Staffing"),
		folioWithTotal(12, "Acme Staffing", "9000123", "BC-9", 542.87),
	}
	groups, err := a.Assemble(pages)
	require.NoError(t, err)
	require.Len(t, groups, 1)
	require.Equal(t, []int{10, 11, 12}, memberIndices(groups[0]))
	require.NotEmpty(t, groups[0].Rationale)
}

func TestAssembleSingletonIdentity(t *testing.T) {
	a := New(classify.DefaultPolicy(), nil)
	p1 := header(1, "Acme Staffing", "INV-1")
	p1.HasGrandTotal = true
	p1.TotalAmount = decimal.NewFromInt(100)
	p2 := header(2, "Globex Freight", "INV-2")
	p2.HasGrandTotal = true
	p2.TotalAmount = decimal.NewFromInt(250)

	groups, err := a.Assemble([]*entity.PageRecord{p1, p2})
	require.NoError(t, err)
	require.Len(t, groups, 2)
	require.Equal(t, []int{1}, memberIndices(groups[0]))
	require.Equal(t, []int{2}, memberIndices(groups[1]))
}

func TestAssemblePageGapSplits(t *testing.T) {
	a := New(classify.DefaultPolicy(), nil)
	p1 := header(1, "Acme Staffing", "INV-1")
	// same number and party, but the page is not adjacent
	p2 := &entity.PageRecord{SourcePageIndex: 5, PartyName: "Acme Staffing", DocumentNumber: "INV-1", EntryDate: "2024-09-01", PartyIdentifier: "VND-77"}

	groups, err := a.Assemble([]*entity.PageRecord{p1, p2})
	require.NoError(t, err)
	require.Len(t, groups, 2)
}

func TestAssembleDoubleTotalSplits(t *testing.T) {
	a := New(classify.DefaultPolicy(), nil)
	p1 := &entity.PageRecord{SourcePageIndex: 1, PartyName: "Acme Staffing", DocumentNumber: "INV-1",
		EntryDate: "2024-09-01", HasGrandTotal: true, TotalAmount: decimal.NewFromInt(100)}
	// same non-placeholder number and party, its own positive total, not a
	// continuation or folio: independent documents
	p2 := &entity.PageRecord{SourcePageIndex: 2, PartyName: "Acme Staffing", DocumentNumber: "INV-1",
		EntryDate: "2024-09-02", HasGrandTotal: true, TotalAmount: decimal.NewFromInt(100)}

	groups, err := a.Assemble([]*entity.PageRecord{p1, p2})
	require.NoError(t, err)
	require.Len(t, groups, 2)
}

func TestAssembleLookaheadHoldsForTrailingContinuation(t *testing.T) {
	a := New(classify.DefaultPolicy(), nil)
	head := header(1, "Acme Staffing", "INV-1")
	totals := &entity.PageRecord{SourcePageIndex: 2, PartyName: "Acme Staffing", DocumentNumber: "INV-1",
		EntryDate: "2024-09-01", PartyIdentifier: "VND-77", HasGrandTotal: true, TotalAmount: decimal.NewFromInt(300)}
	trailing := continuation(3, "Acme Staffing")

	groups, err := a.Assemble([]*entity.PageRecord{head, totals, trailing})
	require.NoError(t, err)
	require.Len(t, groups, 1)
	require.Equal(t, []int{1, 2, 3}, memberIndices(groups[0]))
}

func TestAssemblePartitionProperty(t *testing.T) {
	a := New(classify.DefaultPolicy(), nil)
	pages := []*entity.PageRecord{
		header(1, "Acme Staffing", "INV-1"),
		continuation(2, "Acme Staffing"),
		header(3, "Globex Freight", "INV-7"),
		{SourcePageIndex: 4, PartyName: "unknown"},
		header(6, "Initech Labs", "INV-9"),
		folioWithTotal(7, "Initech Labs", "9000777", "BC-9", 88.10),
	}
	groups, err := a.Assemble(pages)
	require.NoError(t, err)

	seen := make(map[int]int)
	for _, g := range groups {
		require.NotEmpty(t, g.Pages)
		prev := -1
		for _, p := range g.Pages {
			require.Greater(t, p.SourcePageIndex, prev, "member pages strictly increasing")
			prev = p.SourcePageIndex
			seen[p.SourcePageIndex]++
		}
	}
	require.Len(t, seen, len(pages), "every page in exactly one group")
	for idx, n := range seen {
		require.Equal(t, 1, n, "page %d appears once", idx)
	}
}

func TestAssembleDeterministic(t *testing.T) {
	pages := func() []*entity.PageRecord {
		return []*entity.PageRecord{
			header(10, "Acme Staffing", "R35086148"),
			continuation(11, "Acme Staffing"),
			folioWithTotal(12, "Acme Staffing", "9000123", "BC-9", 542.87),
			header(13, "Globex Freight", "INV-7"),
		}
	}
	a := New(classify.DefaultPolicy(), nil)
	first, err := a.Assemble(pages())
	require.NoError(t, err)
	second, err := a.Assemble(pages())
	require.NoError(t, err)
	require.Equal(t, len(first), len(second))
	for i := range first {
		require.Equal(t, memberIndices(first[i]), memberIndices(second[i]))
		require.Equal(t, first[i].Rationale, second[i].Rationale)
	}
}

func TestAssembleRejectsUnsortedInput(t *testing.T) {
	a := New(classify.DefaultPolicy(), nil)
	_, err := a.Assemble([]*entity.PageRecord{
		header(5, "Acme Staffing", "INV-1"),
		header(3, "Globex Freight", "INV-2"),
	})
	require.Error(t, err)
}
