package rostermodel

import (
	"errors"
	"fmt"

	"github.com/tolga/ftlroster/internal/model"
)

// ErrUnknownAircraftType is the configuration error raised when a duty
// references an aircraft type with no crewing-requirement row. It is
// fatal: the engine cannot decide how many of each role the duty
// needs.
var ErrUnknownAircraftType = errors.New("unknown aircraft type")

// ValidateCrewRequirements checks that every duty's aircraft type has a
// crewing requirement row, wrapping ErrUnknownAircraftType with the
// offending type and duty when it does not.
func ValidateCrewRequirements(duties []model.Duty, requirements map[string]model.CrewRequirement) error {
	for _, d := range duties {
		if _, ok := requirements[d.AircraftType]; !ok {
			return fmt.Errorf("duty %d, aircraft type %q: %w", d.DutyID, d.AircraftType, ErrUnknownAircraftType)
		}
	}
	return nil
}
