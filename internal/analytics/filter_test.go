package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/silverleaf-workload-api/internal/models"
)

var march15 = time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC)

func ids(requests []models.Request) []int {
	out := make([]int, len(requests))
	for i, r := range requests {
		out[i] = r.RequestID
	}
	return out
}

func TestApplyAllFiltersDefaultsPassEverything(t *testing.T) {
	got := ApplyAllFilters(fixtureRequests(), models.Viewer{}, models.FilterState{}, march15)
	assert.Equal(t, []int{1, 2, 3, 4, 5}, ids(got))
}

func TestApplyAllFiltersFieldMatchesAreTrimmedAndCaseInsensitive(t *testing.T) {
	state := models.FilterState{Department: "FINANCE", Status: "All", Priority: "All", Type: "All"}
	assert.Equal(t, []int{2, 5}, ids(ApplyAllFilters(fixtureRequests(), models.Viewer{}, state, march15)))

	state = models.FilterState{Status: " approved "}
	assert.Equal(t, []int{1, 5}, ids(ApplyAllFilters(fixtureRequests(), models.Viewer{}, state, march15)))

	state = models.FilterState{Priority: "high", Type: "degree audit"}
	assert.Equal(t, []int{5}, ids(ApplyAllFilters(fixtureRequests(), models.Viewer{}, state, march15)))
}

func TestApplyAllFiltersDateRangeExcludesUnknownDates(t *testing.T) {
	state := models.FilterState{DateRange: models.DateRangeThisMonth}
	assert.Equal(t, []int{1, 2, 4}, ids(ApplyAllFilters(fixtureRequests(), models.Viewer{}, state, march15)))

	state = models.FilterState{DateRange: models.DateRangeLastMonth}
	assert.Equal(t, []int{3}, ids(ApplyAllFilters(fixtureRequests(), models.Viewer{}, state, march15)))
}

func TestApplyAllFiltersSearchScopes(t *testing.T) {
	search := func(term, scope string) []int {
		return ids(ApplyAllFilters(fixtureRequests(), models.Viewer{}, models.FilterState{Search: term, SearchScope: scope}, march15))
	}
	assert.Equal(t, []int{1, 3}, search("registrar", models.SearchScopeAll))
	assert.Equal(t, []int{1, 3}, search("registrar", models.SearchScopeDepartments))
	assert.Empty(t, search("registrar", models.SearchScopeRequests))
	assert.Equal(t, []int{2, 3}, search("admin 2", models.SearchScopeAdmins))
	assert.Equal(t, []int{4}, search("req-00004", models.SearchScopeRequests))
	assert.Equal(t, []int{2, 3}, search("admin 2", "whatever"))
}

func TestApplyAllFiltersDoesNotMutateInput(t *testing.T) {
	input := fixtureRequests()
	before := fixtureRequests()
	state := models.FilterState{Department: "Registrar", Search: "transcript", DateRange: models.DateRangeLast3Months}

	got := ApplyAllFilters(input, models.Viewer{Role: models.RoleAdmin, AdminID: 1}, state, march15)
	require.NotEmpty(t, got)
	got[0].Status = "changed"

	assert.Equal(t, before, input)
}

func TestFilterCompositionIsOrderIndependent(t *testing.T) {
	requests := fixtureRequests()
	viewer := models.Viewer{}

	stepwise := ApplyAllFilters(requests, viewer, models.FilterState{Department: "Registrar", Status: "Approved"}, march15)
	stepwise = ApplyAllFilters(stepwise, viewer, models.FilterState{Priority: "High"}, march15)

	reversed := ApplyAllFilters(requests, viewer, models.FilterState{Priority: "High"}, march15)
	reversed = ApplyAllFilters(reversed, viewer, models.FilterState{Department: "Registrar", Status: "Approved"}, march15)

	combined := ApplyAllFilters(requests, viewer, models.FilterState{Department: "Registrar", Status: "Approved", Priority: "High"}, march15)

	assert.Equal(t, combined, stepwise)
	assert.Equal(t, combined, reversed)
	assert.Equal(t, []int{1}, ids(combined))
}

func TestPipelineRoleScope(t *testing.T) {
	fixed := func() time.Time { return march15 }
	admin := models.Viewer{Role: models.RoleAdmin, AdminID: 1, DepartmentID: 101}
	manager := models.Viewer{Role: models.RoleManager, AdminID: 7, DepartmentID: 102}

	all := &Pipeline{Scope: ScopeFor("all"), Now: fixed}
	assert.Len(t, all.Apply(fixtureRequests(), admin, models.FilterState{}), 5)

	scoped := &Pipeline{Scope: ScopeFor("role"), Now: fixed}
	assert.Equal(t, []int{1, 4}, ids(scoped.Apply(fixtureRequests(), admin, models.FilterState{})))
	assert.Equal(t, []int{2, 5}, ids(scoped.Apply(fixtureRequests(), manager, models.FilterState{})))
	assert.Len(t, scoped.Apply(fixtureRequests(), models.Viewer{Role: models.RoleAnalyst}, models.FilterState{}), 5)

	assert.Equal(t, ScopeAll, ScopeFor("unknown").Name())
}
