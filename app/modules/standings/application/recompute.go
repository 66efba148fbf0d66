package standingsservice

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/Black-And-White-Club/teamcup/app/events"
	matchdomain "github.com/Black-And-White-Club/teamcup/app/modules/match/domain"
	matchdb "github.com/Black-And-White-Club/teamcup/app/modules/match/infrastructure/repositories"
	standingsdomain "github.com/Black-And-White-Club/teamcup/app/modules/standings/domain"
	standingsdb "github.com/Black-And-White-Club/teamcup/app/modules/standings/infrastructure/repositories"
	"github.com/Black-And-White-Club/teamcup/app/observability/attr"
	"github.com/Black-And-White-Club/teamcup/app/shared/results"
)

// divisionInput is everything one recompute reads, taken from a single snapshot.
type divisionInput struct {
	teams    []matchdomain.Team
	records  []standingsdomain.MatchRecord
	previous *standingsdb.StandingsSnapshot
}

// RecomputeDivision rebuilds the division table from stored match data.
//
// The inputs are read in one repeatable-read transaction so the table always
// reflects a consistent snapshot. When the inputs hash to the same value as
// the last run, nothing is written or published.
func (s *StandingsService) RecomputeDivision(ctx context.Context, division string) (results.OperationResult[RecomputeOutcome, error], error) {
	return withTelemetry(s, ctx, "RecomputeDivision", division, func(ctx context.Context) (results.OperationResult[RecomputeOutcome, error], error) {
		d, err := matchdomain.ParseDivision(division)
		if err != nil {
			return results.FailureResult[RecomputeOutcome](fmt.Errorf("%w: %q", ErrUnknownDivision, division)), nil
		}

		// Without the lock an older recompute can commit after a newer one
		// and leave a stale table behind.
		conn, release, err := s.lockDivision(ctx, d)
		if err != nil {
			return results.OperationResult[RecomputeOutcome, error]{}, err
		}
		defer release()

		in, err := runInTxOn(ctx, conn, readOnlyTx, func(ctx context.Context, db bun.IDB) (divisionInput, error) {
			return s.loadDivision(ctx, db, d)
		})
		if err != nil {
			return results.OperationResult[RecomputeOutcome, error]{}, err
		}

		table, dt, err := s.divisionTable(d, in.teams)
		if err != nil {
			return results.FailureResult[RecomputeOutcome](err), nil
		}

		outcome := RecomputeOutcome{
			Division:   d,
			RunID:      uuid.New(),
			Hash:       standingsdomain.SnapshotHash(d, in.teams, in.records, dt),
			ComputedAt: s.now().UTC(),
		}
		if in.previous != nil && in.previous.Hash == outcome.Hash {
			outcome.Skipped = true
			s.metrics.RecordRecomputeSkipped(ctx, division)
			s.logger.InfoContext(ctx, "Standings inputs unchanged, skipping write",
				attr.Division(d),
				attr.String("hash", outcome.Hash),
			)
			return results.SuccessResult[RecomputeOutcome, error](outcome), nil
		}

		report, err := standingsdomain.ComputeStandings(d, in.teams, in.records, table)
		if err != nil {
			if errors.Is(err, standingsdomain.ErrUnknownPointsRow) {
				return results.FailureResult[RecomputeOutcome](err), nil
			}
			return results.OperationResult[RecomputeOutcome, error]{}, err
		}
		outcome.Report = report
		s.recordFindings(ctx, d, report.Findings)

		_, err = runInTxOn(ctx, conn, readWriteTx, func(ctx context.Context, db bun.IDB) (struct{}, error) {
			return struct{}{}, s.persist(ctx, db, outcome)
		})
		if err != nil {
			return results.OperationResult[RecomputeOutcome, error]{}, err
		}

		if err := s.publishUpdated(ctx, outcome); err != nil {
			// The table is already stored; the next recompute republishes.
			s.logger.ErrorContext(ctx, "Failed to publish standings update",
				attr.Division(d),
				attr.Error(err),
			)
		}
		return results.SuccessResult[RecomputeOutcome, error](outcome), nil
	})
}

// lockDivision serializes recomputes of d across processes.
func (s *StandingsService) lockDivision(ctx context.Context, d matchdomain.Division) (bun.IDB, func(), error) {
	conn, release, err := s.repo.LockDivision(ctx, string(d))
	if err != nil {
		return nil, nil, fmt.Errorf("lock division %s: %w", d, err)
	}
	return conn, release, nil
}

func (s *StandingsService) loadDivision(ctx context.Context, db bun.IDB, d matchdomain.Division) (divisionInput, error) {
	var in divisionInput

	teamRows, err := s.matches.ListTeams(ctx, db)
	if err != nil {
		return in, err
	}
	for _, t := range teamRows {
		in.teams = append(in.teams, matchdb.ToDomainTeam(t))
	}

	matchRows, err := s.matches.ListMatches(ctx, db, string(d))
	if err != nil {
		return in, err
	}
	ids := make([]string, 0, len(matchRows))
	matches := make([]matchdomain.Match, 0, len(matchRows))
	for _, m := range matchRows {
		ids = append(ids, m.ID)
		matches = append(matches, matchdb.ToDomainMatch(m))
	}

	holes, err := s.matches.ListHoles(ctx, db, ids)
	if err != nil {
		return in, err
	}
	scores, err := s.matches.ListHoleScores(ctx, db, ids)
	if err != nil {
		return in, err
	}
	grouped := matchdb.GroupHoles(matches, holes, scores)
	for _, m := range matches {
		in.records = append(in.records, standingsdomain.MatchRecord{Match: m, Holes: grouped[m.ID]})
	}

	snap, err := s.repo.GetSnapshot(ctx, db, string(d))
	switch {
	case errors.Is(err, standingsdb.ErrNotFound):
	case err != nil:
		return in, err
	default:
		in.previous = snap
	}
	return in, nil
}

func (s *StandingsService) divisionTable(d matchdomain.Division, teams []matchdomain.Team) (standingsdomain.PointTable, standingsdomain.DivisionTable, error) {
	return ResolveDivisionTable(s.table, d, teams)
}

// ResolveDivisionTable returns the configured table for d, deriving one from
// the teams' per-session win values when the configuration has none.
func ResolveDivisionTable(table standingsdomain.PointTable, d matchdomain.Division, teams []matchdomain.Team) (standingsdomain.PointTable, standingsdomain.DivisionTable, error) {
	if dt, err := table.Division(d); err == nil {
		return table, dt, nil
	}

	accrual := table.DefaultAccrual
	if accrual == "" {
		accrual = standingsdomain.AccrualPerMatch
	}
	rule := table.DefaultThreeWayTie
	if rule == "" {
		rule = standingsdomain.ThreeWayTieSplit
	}
	dt, err := standingsdomain.DivisionTableFromTeams(d, teams, accrual, rule)
	if err != nil {
		return standingsdomain.PointTable{}, standingsdomain.DivisionTable{}, err
	}
	return table.WithDivision(d, dt), dt, nil
}

// ComputeOffline runs the scoring core over an in-memory snapshot without
// touching the store.
func ComputeOffline(table standingsdomain.PointTable, d matchdomain.Division, teams []matchdomain.Team, records []standingsdomain.MatchRecord) (standingsdomain.Report, error) {
	resolved, _, err := ResolveDivisionTable(table, d, teams)
	if err != nil {
		return standingsdomain.Report{}, err
	}
	return standingsdomain.ComputeStandings(d, teams, records, resolved)
}

func (s *StandingsService) persist(ctx context.Context, db bun.IDB, outcome RecomputeOutcome) error {
	report := outcome.Report
	rows := make([]standingsdb.StandingRow, 0, len(report.Standings))
	for _, st := range report.Standings {
		row := standingsdb.FromDomainStanding(st)
		row.UpdatedAt = outcome.ComputedAt
		rows = append(rows, row)
	}
	snap := &standingsdb.StandingsSnapshot{
		Division:         string(outcome.Division),
		Hash:             outcome.Hash,
		LatestSession:    string(report.LatestSession),
		InsufficientData: report.InsufficientData,
		Findings:         len(report.Findings),
		RunID:            outcome.RunID,
		ComputedAt:       outcome.ComputedAt,
	}
	return s.repo.ReplaceStandings(ctx, db, snap, rows)
}

func (s *StandingsService) publishUpdated(ctx context.Context, outcome RecomputeOutcome) error {
	if s.publisher == nil {
		return nil
	}
	report := outcome.Report
	payload := events.StandingsUpdatedPayload{
		Division:         string(outcome.Division),
		RunID:            outcome.RunID.String(),
		Hash:             outcome.Hash,
		LatestSession:    string(report.LatestSession),
		InsufficientData: report.InsufficientData,
		Findings:         len(report.Findings),
		ComputedAt:       outcome.ComputedAt,
		Standings:        make([]events.StandingSummary, 0, len(report.Standings)),
	}
	for _, st := range report.Standings {
		payload.Standings = append(payload.Standings, events.StandingSummary{
			TeamID:         string(st.Team),
			Name:           st.Name,
			Position:       st.Position,
			PositionChange: st.PositionChange,
			Points:         float64(st.Points),
			MatchesPlayed:  st.MatchesPlayed,
		})
	}

	msg, err := events.NewMessage(payload, attr.CorrelationIDFrom(ctx))
	if err != nil {
		return err
	}
	return s.publisher.Publish(events.TopicStandingsUpdated, msg)
}

func (s *StandingsService) recordFindings(ctx context.Context, d matchdomain.Division, findings []matchdomain.Finding) {
	counts := make(map[matchdomain.FindingKind]int)
	for _, f := range findings {
		counts[f.Kind]++
		s.logger.WarnContext(ctx, "Skipped bad match data",
			attr.Division(d),
			attr.MatchID(f.MatchID),
			attr.String("kind", string(f.Kind)),
			attr.Int("hole", f.Hole),
			attr.Error(f.Err),
		)
	}
	for _, kind := range matchdomain.FindingKinds() {
		s.metrics.RecordFindings(ctx, string(d), string(kind), counts[kind])
	}
}
