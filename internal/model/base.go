// Package model holds the domain entities shared across the roster
// formulation engine: flight legs, duties, crew, time-off, historical
// utilisation, regulation sets and the output roster records.
package model

// Role identifies a crew function on a duty.
type Role string

const (
	RoleCaptain       Role = "CAPTAIN"
	RoleFirstOfficer  Role = "FIRST_OFFICER"
	RoleFlightAtt     Role = "FLIGHT_ATTENDANT"
)

// Roles lists the three crew families the engine plans for, in the
// fixed order constraint families and the objective iterate over.
var Roles = [3]Role{RoleCaptain, RoleFirstOfficer, RoleFlightAtt}

// QualificationAll is the sentinel qualification meaning "any aircraft
// type".
const QualificationAll = "ALL"

// HomeBaseICAO is the duty start/end anchor used by the Pairing
// Builder. Overridable via internal/config for a future multi-base
// revision; the current engine plans for a single base.
const HomeBaseICAO = "ELLX"
