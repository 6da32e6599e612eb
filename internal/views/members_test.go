package views

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tourabio/library-service/internal/domain"
)

func sampleMembers() []domain.Member {
	return []domain.Member{john, alice}
}

func TestMembers_StatsCrossReferenceLoans(t *testing.T) {
	source := LoanSource{Loans: sampleLoans(), Loaded: true}
	view := testEngine().Members(sampleMembers(), domain.MemberFilters{}, source, now)

	require.Len(t, view, 2)

	johnStats := view[0]
	require.NotNil(t, johnStats.ActiveLoans)
	assert.Equal(t, 1, *johnStats.ActiveLoans)
	assert.Equal(t, 1, *johnStats.OverdueLoans)
	assert.Equal(t, 2, *johnStats.TotalLoans)

	aliceStats := view[1]
	require.NotNil(t, aliceStats.ActiveLoans)
	assert.Equal(t, 1, *aliceStats.ActiveLoans)
	assert.Equal(t, 0, *aliceStats.OverdueLoans)
	assert.Equal(t, 1, *aliceStats.TotalLoans)
}

func TestMembers_UnloadedLoansYieldAbsentStats(t *testing.T) {
	source := LoanSource{Loans: nil, Loaded: false}
	view := testEngine().Members(sampleMembers(), domain.MemberFilters{}, source, now)

	require.Len(t, view, 2)
	for _, m := range view {
		assert.Nil(t, m.ActiveLoans, "absent is not zero: unloaded loans must not read as no loans")
		assert.Nil(t, m.OverdueLoans)
		assert.Nil(t, m.TotalLoans)
	}
}

func TestMembers_LoadedEmptyLoansYieldZeroStats(t *testing.T) {
	source := LoanSource{Loans: []domain.Loan{}, Loaded: true}
	view := testEngine().Members(sampleMembers(), domain.MemberFilters{}, source, now)

	require.Len(t, view, 2)
	require.NotNil(t, view[0].TotalLoans)
	assert.Equal(t, 0, *view[0].TotalLoans)
}

func TestMembers_QueryMatchesNameAndEmail(t *testing.T) {
	e := testEngine()
	source := LoanSource{}

	byName := e.Members(sampleMembers(), domain.MemberFilters{Query: "alice"}, source, now)
	require.Len(t, byName, 1)
	assert.Equal(t, "Alice Smith", byName[0].Name)

	byEmail := e.Members(sampleMembers(), domain.MemberFilters{Query: "JOHN.DOE@"}, source, now)
	require.Len(t, byEmail, 1)
	assert.Equal(t, "John Doe", byEmail[0].Name)
}

func TestMembers_FieldFilters(t *testing.T) {
	view := testEngine().Members(sampleMembers(), domain.MemberFilters{
		Name:  "smith",
		Email: "example.com",
	}, LoanSource{}, now)

	require.Len(t, view, 1)
	assert.Equal(t, "Alice Smith", view[0].Name)
}

func TestMembers_SortByNameDescending(t *testing.T) {
	view := testEngine().Members(sampleMembers(), domain.MemberFilters{
		SortBy:    "name",
		SortOrder: domain.SortDesc,
	}, LoanSource{}, now)

	assert.Equal(t, "John Doe", view[0].Name)
	assert.Equal(t, "Alice Smith", view[1].Name)
}

func TestMembers_EmptyCollectionYieldsEmptyView(t *testing.T) {
	view := testEngine().Members(nil, domain.MemberFilters{}, LoanSource{}, now)
	assert.Empty(t, view)
}
