// Command rosterctl is the thin wiring entry point for a single roster
// formulation run: it loads the CSV input tables, builds the roster via
// internal/engine, and writes the two CSV output tables.
package main

import (
	"context"
	"flag"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/tolga/ftlroster/internal/config"
	"github.com/tolga/ftlroster/internal/engine"
	"github.com/tolga/ftlroster/internal/extractor"
	"github.com/tolga/ftlroster/internal/ingest"
	"github.com/tolga/ftlroster/internal/model"
	"github.com/tolga/ftlroster/internal/repository"
	"github.com/tolga/ftlroster/internal/solver"
	"github.com/tolga/ftlroster/internal/solver/refsolver"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	cfg := config.Load()
	if cfg.IsDevelopment() {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	flightsPath := flag.String("flights", "flights.csv", "path to the flights input table")
	crewPath := flag.String("crew", "crew.csv", "path to the crew input table")
	timeOffPath := flag.String("time-off", "", "path to the time-off input table (optional)")
	historicalPath := flag.String("historical", "", "path to the historical flight records table (optional)")
	requirementsPath := flag.String("requirements", "requirements.csv", "path to the crew-requirements-per-aircraft-type table")
	regulationsPath := flag.String("regulations", "", "path to a regulation-override table (optional)")
	assignmentsOut := flag.String("assignments-out", "crew_schedule_output.csv", "path to write the solved assignments")
	pairingsOut := flag.String("pairings-out", "pairings_output.csv", "path to write the generated duty table")
	persistDB := flag.Bool("persist-db", false, "also write the roster and updated crew utilisation to the database at DATABASE_URL")
	flag.Parse()

	regs := model.DefaultRegulations()
	if *regulationsPath != "" {
		loaded, report, err := ingest.ReadRegulations(*regulationsPath)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to load regulation overrides")
		}
		logReport("regulations", report)
		regs = loaded
	}

	legs, report, err := ingest.ReadFlightLegs(*flightsPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load flights")
	}
	logReport("flights", report)

	crews, report, err := ingest.ReadCrew(*crewPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load crew")
	}
	logReport("crew", report)

	requirements, report, err := ingest.ReadCrewRequirements(*requirementsPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load crew requirements")
	}
	logReport("requirements", report)

	var timeOff []model.TimeOffRequest
	if *timeOffPath != "" {
		timeOff, report, err = ingest.ReadTimeOffRequests(*timeOffPath)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to load time-off requests")
		}
		logReport("time-off", report)
	}

	var historical []model.HistoricalFlightRecord
	if *historicalPath != "" {
		historical, report, err = ingest.ReadHistoricalFlightRecords(*historicalPath)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to load historical flight records")
		}
		logReport("historical", report)
	}

	e := &engine.Engine{
		HomeBaseICAO: cfg.HomeBaseICAO,
		Requirements: requirements,
		Regulations:  regs,
		MaxFDPHours:  decimal.NewFromInt(int64(regs[model.RegMaxFlightDutyPeriodHours])),
		NewModel:     func() solver.Model { return refsolver.New() },
	}

	roster, err := e.Run(context.Background(), engine.Input{
		Legs:       legs,
		Crews:      crews,
		TimeOff:    timeOff,
		Historical: historical,
		SolverParams: solver.Params{
			TimeLimitSeconds: int(cfg.SolverTimeLimit.Seconds()),
			Workers:          cfg.SolverWorkers,
		},
	})
	if err != nil {
		log.Fatal().Err(err).Msg("roster formulation failed")
	}

	log.Info().Str("status", string(roster.Status)).Int("assignments", len(roster.Assignments)).Msg("roster formulation complete")

	if err := ingest.WritePairings(*pairingsOut, roster.Duties); err != nil {
		log.Fatal().Err(err).Msg("failed to write pairings output")
	}
	if err := ingest.WriteAssignments(*assignmentsOut, roster); err != nil {
		log.Fatal().Err(err).Msg("failed to write assignments output")
	}

	if *persistDB {
		persistToDatabase(cfg, roster, crews)
	}

	if !roster.Status.HasOutput() {
		os.Exit(1)
	}
}

// persistToDatabase writes the roster and the post-round crew
// utilisation counters to the database, for callers that run this
// engine against a live crew table rather than one-off CSV files.
func persistToDatabase(cfg *config.Config, roster *model.Roster, crews []model.Crew) {
	if cfg.IsProduction() && cfg.DatabaseURL == "" {
		log.Fatal().Msg("DATABASE_URL must be set to persist with -persist-db in production")
	}

	db, err := repository.NewDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	ctx := context.Background()
	if err := repository.NewOutputRepository(db).WriteRoster(ctx, roster); err != nil {
		log.Fatal().Err(err).Msg("failed to persist roster")
	}

	updated := extractor.ApplyUtilisation(roster, crews)
	if err := repository.NewCrewRepository(db).UpdateUtilisation(ctx, updated); err != nil {
		log.Fatal().Err(err).Msg("failed to persist crew utilisation")
	}

	log.Info().Int("crew_updated", len(updated)).Msg("database persistence complete")
}

func logReport(table string, r *ingest.IngestReport) {
	event := log.Info()
	if r.Discarded > 0 {
		event = log.Warn()
	}
	event.Str("table", table).Int("accepted", r.Accepted).Int("discarded", r.Discarded).Msg("ingested input table")
	for _, w := range r.Warnings {
		log.Warn().Str("table", table).Msg(w)
	}
}
