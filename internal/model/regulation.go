package model

import "gorm.io/datatypes"

// Regulation keys recognised by the engine (spec §3).
const (
	RegMaxFlightTimeHoursYear      = "max_flight_time_hours_year"
	RegMaxFlightTimeHours12Months  = "max_flight_time_hours_12_months"
	RegMaxFlightTimeHours28Days    = "max_flight_time_hours_28_days"
	RegMaxDutyTimeHours7Days       = "max_duty_time_hours_7_days"
	RegMaxDutyTimeHours28Days      = "max_duty_time_hours_28_days"
	RegMaxFlightDutyPeriodHours    = "max_flight_duty_period_hours"
	RegMaxSectorsDay               = "max_sectors_day"
	RegMinWeeklyRestDays           = "min_weekly_rest_days"
)

// DefaultRegulations mirrors the example values named in spec §3.
func DefaultRegulations() RegulationSet {
	return RegulationSet{
		RegMaxFlightTimeHoursYear:     900,
		RegMaxFlightTimeHours12Months: 1000,
		RegMaxFlightTimeHours28Days:   100,
		RegMaxDutyTimeHours7Days:      60,
		RegMaxDutyTimeHours28Days:     190,
		RegMaxFlightDutyPeriodHours:   13,
		RegMaxSectorsDay:              6,
		RegMinWeeklyRestDays:          2,
	}
}

// RegulationSet is the fixed regulation mapping, recognised-key to
// integer value. It round-trips through a JSONMap column in
// internal/repository so a single row carries the whole map.
type RegulationSet map[string]int

// ToJSONMap converts the regulation set into the GORM JSON column type.
func (r RegulationSet) ToJSONMap() datatypes.JSONMap {
	m := make(datatypes.JSONMap, len(r))
	for k, v := range r {
		m[k] = v
	}
	return m
}

// RegulationSetFromJSONMap reconstructs a RegulationSet from a JSONMap
// column value, truncating any non-integer JSON numbers.
func RegulationSetFromJSONMap(m datatypes.JSONMap) RegulationSet {
	out := make(RegulationSet, len(m))
	for k, v := range m {
		switch n := v.(type) {
		case int:
			out[k] = n
		case float64:
			out[k] = int(n)
		}
	}
	return out
}
