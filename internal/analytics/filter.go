package analytics

import (
	"strconv"
	"strings"
	"time"

	"github.com/noah-isme/silverleaf-workload-api/internal/models"
)

// RoleScope decides which requests a viewer may see.
type RoleScope interface {
	Name() string
	Allows(r models.Request, viewer models.Viewer) bool
}

// Role scope strategy names.
const (
	ScopeAll  = "all"
	ScopeRole = "role"
)

type allScope struct{}

func (allScope) Name() string { return ScopeAll }
func (allScope) Allows(models.Request, models.Viewer) bool { return true }

type roleScope struct{}

func (roleScope) Name() string { return ScopeRole }

// Allows limits admins to their own requests and managers to their department.
func (roleScope) Allows(r models.Request, viewer models.Viewer) bool {
	switch viewer.Role {
	case models.RoleAdmin:
		return r.AssignedAdminID == viewer.AdminID
	case models.RoleManager:
		return r.DepartmentID == viewer.DepartmentID
	default:
		return true
	}
}

// ScopeFor returns the strategy registered under name. Unknown names fall back to ScopeAll.
func ScopeFor(name string) RoleScope {
	if strings.EqualFold(strings.TrimSpace(name), ScopeRole) {
		return roleScope{}
	}
	return allScope{}
}

// Pipeline applies a filter state to requests. The zero value scopes nothing and uses time.Now.
type Pipeline struct {
	Scope RoleScope
	Now   func() time.Time
}

// NewPipeline builds a pipeline with the named role scope.
func NewPipeline(scope string) *Pipeline {
	return &Pipeline{Scope: ScopeFor(scope), Now: time.Now}
}

// Apply returns the requests matching every constraint of state, in input order. The input slice
// and its elements are left untouched.
func (p *Pipeline) Apply(requests []models.Request, viewer models.Viewer, state models.FilterState) []models.Request {
	scope := p.Scope
	if scope == nil {
		scope = allScope{}
	}
	now := time.Now
	if p.Now != nil {
		now = p.Now
	}
	return applyFilters(requests, viewer, state, scope, now())
}

// ApplyAllFilters filters with the pass-through role scope at the given moment.
func ApplyAllFilters(requests []models.Request, viewer models.Viewer, state models.FilterState, now time.Time) []models.Request {
	return applyFilters(requests, viewer, state, allScope{}, now)
}

type predicate func(models.Request) bool

func applyFilters(requests []models.Request, viewer models.Viewer, state models.FilterState, scope RoleScope, now time.Time) []models.Request {
	predicates := []predicate{
		func(r models.Request) bool { return scope.Allows(r, viewer) },
	}
	if p := matchField(state.Department, func(r models.Request) string { return r.DepartmentName }); p != nil {
		predicates = append(predicates, p)
	}
	if p := matchField(state.Status, func(r models.Request) string { return r.Status }); p != nil {
		predicates = append(predicates, p)
	}
	if p := matchField(state.Priority, func(r models.Request) string { return r.Priority }); p != nil {
		predicates = append(predicates, p)
	}
	if p := matchField(state.Type, func(r models.Request) string { return r.RequestType }); p != nil {
		predicates = append(predicates, p)
	}
	if window := ResolveDateRange(state, now); window.Active() {
		predicates = append(predicates, func(r models.Request) bool {
			return r.CreatedAt.Valid() && window.Contains(r.CreatedAt.Time)
		})
	}
	if p := matchSearch(state.Search, state.SearchScope); p != nil {
		predicates = append(predicates, p)
	}

	out := make([]models.Request, 0, len(requests))
next:
	for _, r := range requests {
		for _, keep := range predicates {
			if !keep(r) {
				continue next
			}
		}
		out = append(out, r)
	}
	return out
}

func isUnconstrained(value string) bool {
	v := strings.TrimSpace(value)
	return v == "" || strings.EqualFold(v, models.FilterAll)
}

func matchField(target string, field func(models.Request) string) predicate {
	if isUnconstrained(target) {
		return nil
	}
	want := strings.TrimSpace(target)
	return func(r models.Request) bool {
		return strings.EqualFold(strings.TrimSpace(field(r)), want)
	}
}

func matchSearch(query, scope string) predicate {
	term := strings.ToLower(strings.TrimSpace(query))
	if term == "" {
		return nil
	}
	var fields func(models.Request) []string
	switch strings.TrimSpace(scope) {
	case models.SearchScopeDepartments:
		fields = func(r models.Request) []string { return []string{r.DepartmentName} }
	case models.SearchScopeRequests:
		fields = func(r models.Request) []string {
			return []string{strconv.Itoa(r.RequestID), r.RequestNumber, r.RequestType, r.Status}
		}
	case models.SearchScopeAdmins:
		fields = func(r models.Request) []string { return []string{r.AssignedAdminName} }
	default:
		fields = func(r models.Request) []string {
			return []string{strconv.Itoa(r.RequestID), r.RequestNumber, r.RequestType, r.Status, r.DepartmentName, r.AssignedAdminName}
		}
	}
	return func(r models.Request) bool {
		for _, value := range fields(r) {
			if strings.Contains(strings.ToLower(value), term) {
				return true
			}
		}
		return false
	}
}
