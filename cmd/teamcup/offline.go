package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"text/tabwriter"

	"github.com/uptrace/bun"
	"github.com/urfave/cli/v2"

	matchservice "github.com/Black-And-White-Club/teamcup/app/modules/match/application"
	matchdomain "github.com/Black-And-White-Club/teamcup/app/modules/match/domain"
	"github.com/Black-And-White-Club/teamcup/app/modules/match/infrastructure/parsers"
	standingsservice "github.com/Black-And-White-Club/teamcup/app/modules/standings/application"
	standingsdomain "github.com/Black-And-White-Club/teamcup/app/modules/standings/domain"
	"github.com/Black-And-White-Club/teamcup/app/modules/standings/infrastructure/snapshot"
	"github.com/Black-And-White-Club/teamcup/config"
	"github.com/Black-And-White-Club/teamcup/db/bundb"
)

func newStandingsCommand() *cli.Command {
	return &cli.Command{
		Name:  "standings",
		Usage: "compute a division table from a snapshot file without a database",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "snapshot", Required: true, Usage: "YAML snapshot of teams and matches"},
			&cli.StringFlag{Name: "division", Required: true},
			&cli.StringFlag{Name: "point-table", Usage: "YAML point table; team session config is used when omitted"},
			&cli.StringFlag{Name: "format", Value: "table", Usage: "table or json"},
			&cli.StringFlag{Name: "xlsx", Usage: "also write the table to this workbook"},
		},
		Action: func(c *cli.Context) error {
			d, err := matchdomain.ParseDivision(c.String("division"))
			if err != nil {
				return err
			}
			snap, err := snapshot.Load(c.String("snapshot"))
			if err != nil {
				return err
			}

			table := standingsdomain.PointTable{}
			if f := c.String("point-table"); f != "" {
				if table, err = config.LoadPointTable(f); err != nil {
					return err
				}
			}

			report, err := standingsservice.ComputeOffline(table, d, snap.Teams, snap.Records(d))
			if err != nil {
				return fmt.Errorf("compute %s: %w", d, err)
			}

			if f := c.String("xlsx"); f != "" {
				data, err := standingsservice.BuildStandingsWorkbook(standingsservice.StandingsView{
					Division:         report.Division,
					Standings:        report.Standings,
					LatestSession:    report.LatestSession,
					InsufficientData: report.InsufficientData,
					Findings:         len(report.Findings),
				})
				if err != nil {
					return err
				}
				if err := os.WriteFile(f, data, 0o644); err != nil {
					return fmt.Errorf("write workbook: %w", err)
				}
			}

			if c.String("format") == "json" {
				return writeReportJSON(c.App.Writer, report)
			}
			return writeReportTable(c.App.Writer, report)
		},
	}
}

func writeReportTable(out io.Writer, report standingsdomain.Report) error {
	if report.InsufficientData {
		fmt.Fprintf(out, "%s: no finished matches yet\n", report.Division)
	} else if report.LatestSession != "" {
		fmt.Fprintf(out, "%s after %s\n", report.Division, report.LatestSession)
	}

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "POS\tTEAM\tPTS\tP\tW\tL\tH\tHOLES\tSTROKES")
	for _, st := range report.Standings {
		strokes := "-"
		if st.TotalStrokes != nil {
			strokes = fmt.Sprint(*st.TotalStrokes)
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%d\t%d\t%d\t%+d\t%s\n",
			st.Position, st.Name, st.Points, st.MatchesPlayed, st.MatchesWon,
			st.MatchesLost, st.MatchesHalved, st.HoleDifferential(), strokes)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	for _, f := range report.Findings {
		fmt.Fprintf(out, "finding: %s\n", f)
	}
	return nil
}

type reportRow struct {
	Position         int     `json:"position"`
	Team             string  `json:"team"`
	Name             string  `json:"name"`
	Points           float64 `json:"points"`
	MatchesPlayed    int     `json:"matches_played"`
	MatchesWon       int     `json:"matches_won"`
	MatchesLost      int     `json:"matches_lost"`
	MatchesHalved    int     `json:"matches_halved"`
	HoleDifferential int     `json:"hole_differential"`
	TotalStrokes     *int    `json:"total_strokes,omitempty"`
}

func writeReportJSON(out io.Writer, report standingsdomain.Report) error {
	rows := make([]reportRow, 0, len(report.Standings))
	for _, st := range report.Standings {
		rows = append(rows, reportRow{
			Position:         st.Position,
			Team:             string(st.Team),
			Name:             st.Name,
			Points:           float64(st.Points),
			MatchesPlayed:    st.MatchesPlayed,
			MatchesWon:       st.MatchesWon,
			MatchesLost:      st.MatchesLost,
			MatchesHalved:    st.MatchesHalved,
			HoleDifferential: st.HoleDifferential(),
			TotalStrokes:     st.TotalStrokes,
		})
	}
	findings := make([]string, 0, len(report.Findings))
	for _, f := range report.Findings {
		findings = append(findings, f.String())
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(struct {
		Division         string      `json:"division"`
		LatestSession    string      `json:"latest_session,omitempty"`
		InsufficientData bool        `json:"insufficient_data"`
		Standings        []reportRow `json:"standings"`
		Findings         []string    `json:"findings"`
	}{
		Division:         string(report.Division),
		LatestSession:    string(report.LatestSession),
		InsufficientData: report.InsufficientData,
		Standings:        rows,
		Findings:         findings,
	})
}

func newSeedCommand() *cli.Command {
	return &cli.Command{
		Name:  "seed",
		Usage: "load a snapshot file into the match store",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "snapshot", Required: true},
		},
		Action: func(c *cli.Context) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			snap, err := snapshot.Load(c.String("snapshot"))
			if err != nil {
				return err
			}

			ctx := c.Context
			logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
			dbService, err := bundb.NewBunDBService(ctx, cfg.Postgres, logger)
			if err != nil {
				return err
			}
			defer dbService.Close()

			err = dbService.GetDB().RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
				return snapshot.Seed(ctx, tx, dbService.Matches, snap)
			})
			if err != nil {
				return err
			}
			logger.InfoContext(ctx, "Seeded snapshot",
				slog.Int("teams", len(snap.Teams)),
				slog.Int("matches", len(snap.Matches)),
			)
			return nil
		},
	}
}

func newMatchCommand() *cli.Command {
	return &cli.Command{
		Name:  "match",
		Usage: "evaluate a CSV or XLSX scorecard as a standalone match",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "scorecard", Required: true},
			&cli.IntFlag{Name: "sides", Usage: "number of sides; taken from the card when zero"},
			&cli.IntFlag{Name: "holes", Value: matchdomain.HolesPerMatch, Usage: "scheduled match length"},
		},
		Action: func(c *cli.Context) error {
			fileName := c.String("scorecard")
			data, err := os.ReadFile(fileName)
			if err != nil {
				return fmt.Errorf("read scorecard: %w", err)
			}
			parser, err := parsers.NewFactory().GetParser(fileName)
			if err != nil {
				return err
			}
			card, err := parser.Parse(data, fileName)
			if err != nil {
				return err
			}

			sides := c.Int("sides")
			if sides == 0 {
				sides = card.SideCount()
			}
			m := matchdomain.Match{ID: fileName, Holes: c.Int("holes")}
			switch sides {
			case 1:
				m.Sides = matchdomain.Bye{A: "A"}
			case 2:
				m.Sides = matchdomain.TwoWay{A: "A", B: "B"}
			case 3:
				m.Sides = matchdomain.ThreeWay{A: "A", B: "B", C: "C"}
			default:
				return fmt.Errorf("unsupported number of sides: %d", sides)
			}

			writeMatchView(c.App.Writer, matchservice.EvaluateScorecard(m, card))
			return nil
		},
	}
}

func writeMatchView(out io.Writer, v matchservice.MatchView) {
	st := v.State
	fmt.Fprintf(out, "%s (%s) played %d of %d, %d remaining\n", st.Label, st.Status, st.Played, st.Length, st.Remaining)

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "HOLE\tOUTCOME\tDETAIL")
	for _, o := range st.Outcomes {
		detail := string(o.Tie)
		if o.Kind == matchdomain.OutcomeWon {
			detail = o.Winner.String()
		}
		fmt.Fprintf(w, "%d\t%s\t%s\n", o.Number, o.Kind, detail)
	}
	_ = w.Flush()

	if st.Result != nil {
		fmt.Fprintf(out, "result: %s %s\n", st.Result.Kind, st.Result.Label)
	}
	for _, f := range st.Findings {
		fmt.Fprintf(out, "finding: %s\n", f)
	}
}
