// Package rostermodel implements the Model Builder: it allocates the
// boolean decision variables for every surviving (crew, duty) pair and
// every (crew, date) worked-today indicator, then emits the FTL
// constraint families against them. The Builder owns the two index
// arrays named in the design notes; constraint families in
// constraints.go hold only references handed back from its accessors,
// never a second copy of the lookup maps.
package rostermodel

import (
	"fmt"
	"time"

	"github.com/tolga/ftlroster/internal/feasibility"
	"github.com/tolga/ftlroster/internal/model"
	"github.com/tolga/ftlroster/internal/solver"
)

// AssignKey identifies one x[role, crew, duty] variable.
type AssignKey struct {
	Role   model.Role
	CrewID string
	DutyID int
}

// WorkedKey identifies one worked[role, crew, date] variable.
type WorkedKey struct {
	Role   model.Role
	CrewID string
	Date   time.Time
}

// AssignEntry pairs a variable with its key, returned from bulk
// accessors so callers never need a second lookup map.
type AssignEntry struct {
	Key AssignKey
	Var solver.BoolVar
}

// Builder owns the assignment and worked-today variable arrays.
type Builder struct {
	Model      solver.Model
	dutiesByID map[int]model.Duty

	assignVars  []solver.BoolVar
	assignKeys  []AssignKey
	assignIndex map[AssignKey]int

	workedVars  []solver.BoolVar
	workedKeys  []WorkedKey
	workedIndex map[WorkedKey]int

	byRoleDuty     map[model.Role]map[int][]int
	byRoleCrewDate map[model.Role]map[string]map[time.Time][]int
	byRoleCrew     map[model.Role]map[string][]int

	workedByRoleCrewDate map[model.Role]map[string]map[time.Time]int
}

// NewBuilder constructs an empty Builder against the full duty table
// (used to resolve duty metadata for constraint families).
func NewBuilder(m solver.Model, duties []model.Duty) *Builder {
	b := &Builder{
		Model:                m,
		dutiesByID:           make(map[int]model.Duty, len(duties)),
		assignIndex:          make(map[AssignKey]int),
		workedIndex:          make(map[WorkedKey]int),
		byRoleDuty:           make(map[model.Role]map[int][]int),
		byRoleCrewDate:       make(map[model.Role]map[string]map[time.Time][]int),
		byRoleCrew:           make(map[model.Role]map[string][]int),
		workedByRoleCrewDate: make(map[model.Role]map[string]map[time.Time]int),
	}
	for _, d := range duties {
		b.dutiesByID[d.DutyID] = d
	}
	return b
}

// DutyByID returns the duty metadata for a duty ID.
func (b *Builder) DutyByID(id int) (model.Duty, bool) {
	d, ok := b.dutiesByID[id]
	return d, ok
}

// BuildAssignVars allocates one boolean variable per surviving
// (role, crew, duty) pair from the Feasibility Filter result.
func (b *Builder) BuildAssignVars(pairsByRole map[model.Role][]feasibility.Pair) {
	for _, role := range model.Roles {
		for _, p := range pairsByRole[role] {
			duty, ok := b.dutiesByID[p.DutyID]
			if !ok {
				continue
			}
			b.addAssign(role, p.CrewID, p.DutyID, duty.Date())
		}
	}
}

func (b *Builder) addAssign(role model.Role, crewID string, dutyID int, date time.Time) solver.BoolVar {
	key := AssignKey{Role: role, CrewID: crewID, DutyID: dutyID}
	if idx, ok := b.assignIndex[key]; ok {
		return b.assignVars[idx]
	}

	name := fmt.Sprintf("x_%s_%s_%d", role, crewID, dutyID)
	v := b.Model.NewBoolVar(name)
	idx := len(b.assignVars)
	b.assignVars = append(b.assignVars, v)
	b.assignKeys = append(b.assignKeys, key)
	b.assignIndex[key] = idx

	if b.byRoleDuty[role] == nil {
		b.byRoleDuty[role] = make(map[int][]int)
	}
	b.byRoleDuty[role][dutyID] = append(b.byRoleDuty[role][dutyID], idx)

	if b.byRoleCrewDate[role] == nil {
		b.byRoleCrewDate[role] = make(map[string]map[time.Time][]int)
	}
	if b.byRoleCrewDate[role][crewID] == nil {
		b.byRoleCrewDate[role][crewID] = make(map[time.Time][]int)
	}
	b.byRoleCrewDate[role][crewID][date] = append(b.byRoleCrewDate[role][crewID][date], idx)

	if b.byRoleCrew[role] == nil {
		b.byRoleCrew[role] = make(map[string][]int)
	}
	b.byRoleCrew[role][crewID] = append(b.byRoleCrew[role][crewID], idx)

	return v
}

// BuildWorkedVars allocates one worked[role, crew, date] variable per
// qualified crew member and every date in the planning horizon.
func (b *Builder) BuildWorkedVars(crews []model.Crew, horizon []time.Time) {
	for _, c := range crews {
		for _, date := range horizon {
			b.addWorked(c.Role, c.CrewID, date)
		}
	}
}

func (b *Builder) addWorked(role model.Role, crewID string, date time.Time) solver.BoolVar {
	key := WorkedKey{Role: role, CrewID: crewID, Date: date}
	if idx, ok := b.workedIndex[key]; ok {
		return b.workedVars[idx]
	}

	name := fmt.Sprintf("worked_%s_%s_%s", role, crewID, date.Format("2006-01-02"))
	v := b.Model.NewBoolVar(name)
	idx := len(b.workedVars)
	b.workedVars = append(b.workedVars, v)
	b.workedKeys = append(b.workedKeys, key)
	b.workedIndex[key] = idx

	if b.workedByRoleCrewDate[role] == nil {
		b.workedByRoleCrewDate[role] = make(map[string]map[time.Time]int)
	}
	if b.workedByRoleCrewDate[role][crewID] == nil {
		b.workedByRoleCrewDate[role][crewID] = make(map[time.Time]int)
	}
	b.workedByRoleCrewDate[role][crewID][date] = idx

	return v
}

// AssignVarsForDuty returns every assignment variable for the given
// role and duty.
func (b *Builder) AssignVarsForDuty(role model.Role, dutyID int) []solver.BoolVar {
	return b.varsFromIndices(b.assignVars, b.byRoleDuty[role][dutyID])
}

// AssignEntriesForDuty returns every (key, var) assignment entry for
// the given role and duty.
func (b *Builder) AssignEntriesForDuty(role model.Role, dutyID int) []AssignEntry {
	indices := b.byRoleDuty[role][dutyID]
	entries := make([]AssignEntry, len(indices))
	for i, idx := range indices {
		entries[i] = AssignEntry{Key: b.assignKeys[idx], Var: b.assignVars[idx]}
	}
	return entries
}

// AssignVarsForCrewDate returns every assignment variable for the
// given role, crew and date.
func (b *Builder) AssignVarsForCrewDate(role model.Role, crewID string, date time.Time) []solver.BoolVar {
	return b.varsFromIndices(b.assignVars, b.byRoleCrewDate[role][crewID][date])
}

// AssignEntriesForCrew returns every (key, var) assignment entry for
// the given role and crew, across all dates.
func (b *Builder) AssignEntriesForCrew(role model.Role, crewID string) []AssignEntry {
	indices := b.byRoleCrew[role][crewID]
	entries := make([]AssignEntry, len(indices))
	for i, idx := range indices {
		entries[i] = AssignEntry{Key: b.assignKeys[idx], Var: b.assignVars[idx]}
	}
	return entries
}

// AssignEntriesForCrewDate returns every (key, var) assignment entry
// for the given role, crew and date.
func (b *Builder) AssignEntriesForCrewDate(role model.Role, crewID string, date time.Time) []AssignEntry {
	indices := b.byRoleCrewDate[role][crewID][date]
	entries := make([]AssignEntry, len(indices))
	for i, idx := range indices {
		entries[i] = AssignEntry{Key: b.assignKeys[idx], Var: b.assignVars[idx]}
	}
	return entries
}

// DatesForCrew returns the distinct dates on which the given role/crew
// has at least one assignment variable.
func (b *Builder) DatesForCrew(role model.Role, crewID string) []time.Time {
	datesMap := b.byRoleCrewDate[role][crewID]
	dates := make([]time.Time, 0, len(datesMap))
	for d := range datesMap {
		dates = append(dates, d)
	}
	return dates
}

// CrewIDsForRole returns the distinct crew IDs with at least one
// assignment variable for the given role.
func (b *Builder) CrewIDsForRole(role model.Role) []string {
	crewMap := b.byRoleCrew[role]
	ids := make([]string, 0, len(crewMap))
	for id := range crewMap {
		ids = append(ids, id)
	}
	return ids
}

// WorkedVar returns the worked[role, crew, date] variable, if any was
// created for that crew/date combination.
func (b *Builder) WorkedVar(role model.Role, crewID string, date time.Time) (solver.BoolVar, bool) {
	idx, ok := b.workedByRoleCrewDate[role][crewID][date]
	if !ok {
		return solver.BoolVar{}, false
	}
	return b.workedVars[idx], true
}

// AllAssignVars returns every assignment variable across all three
// role families, the population the objective minimises.
func (b *Builder) AllAssignVars() []solver.BoolVar {
	return append([]solver.BoolVar(nil), b.assignVars...)
}

// AllAssignEntries returns every (key, var) assignment entry across all
// three role families, the population the Solution Extractor walks.
func (b *Builder) AllAssignEntries() []AssignEntry {
	entries := make([]AssignEntry, len(b.assignVars))
	for i := range b.assignVars {
		entries[i] = AssignEntry{Key: b.assignKeys[i], Var: b.assignVars[i]}
	}
	return entries
}

func (b *Builder) varsFromIndices(pool []solver.BoolVar, indices []int) []solver.BoolVar {
	vars := make([]solver.BoolVar, len(indices))
	for i, idx := range indices {
		vars[i] = pool[idx]
	}
	return vars
}
