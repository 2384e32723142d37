package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"sync"
	"sync/atomic"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/marketmind/growth-api/internal/insight"
	"github.com/marketmind/growth-api/internal/scorer"
	"github.com/marketmind/growth-api/pkg/groq"
)

var (
	scoreBudget      string
	scoreTimeline    string
	scoreUrgency     string
	scoreContext     string
	scoreCSV         string
	scoreLimit       int
	scoreConcurrency int
	scoreLegacy      bool
	scoreReasoning   bool
	scoreOutput      string
	scoreFormat      string
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score leads from flags or a CSV export",
	Long: `Scores leads deterministically from budget, timeline, and urgency.

Single-lead mode takes the three signals as flags. Batch mode reads a CRM
CSV export with budget,timeline,urgency columns (a name column and a
context column are picked up when present).

With --reasoning, each scored lead is also sent to the Groq API for a
natural-language explanation of the number. The score itself is always
computed locally.

Examples:
  # Score one lead
  growth-api score --budget '$250000' --timeline 'This Quarter' --urgency High

  # Score a CRM export, top 50 rows, as CSV
  growth-api score --csv leads.csv --limit 50 --format csv --output scored.csv

  # Batch with AI reasoning (needs GROWTH_GROQ_KEY)
  growth-api score --csv leads.csv --reasoning`,
	RunE: runScore,
}

func init() {
	f := scoreCmd.Flags()
	f.StringVar(&scoreBudget, "budget", "", "lead budget, free text (e.g. '$50k')")
	f.StringVar(&scoreTimeline, "timeline", "", "purchase timeline, free text")
	f.StringVar(&scoreUrgency, "urgency", "", "urgency level, free text")
	f.StringVar(&scoreContext, "context", "", "additional lead context")
	f.StringVar(&scoreCSV, "csv", "", "path to a leads CSV for batch scoring")
	f.IntVar(&scoreLimit, "limit", 0, "max leads to score from the CSV (0 = all)")
	f.IntVar(&scoreConcurrency, "concurrency", 3, "max leads scored concurrently in --reasoning mode")
	f.BoolVar(&scoreLegacy, "legacy", false, "use the additive legacy scoring model")
	f.BoolVar(&scoreReasoning, "reasoning", false, "ask the Groq API to explain each score")
	f.StringVar(&scoreOutput, "output", "", "output file path (default: stdout)")
	f.StringVar(&scoreFormat, "format", "table", "output format: table, csv, or json")

	rootCmd.AddCommand(scoreCmd)
}

// scoredLead is one batch row with its scoring outcome attached.
type scoredLead struct {
	Name                  string       `json:"name,omitempty"`
	Input                 scorer.Input `json:"input"`
	Score                 int          `json:"lead_score"`
	ConversionProbability string       `json:"conversion_probability"`
	Reasoning             any          `json:"reasoning,omitempty"`
}

func runScore(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if scoreFormat != "table" && scoreFormat != "csv" && scoreFormat != "json" {
		return eris.Errorf("score: --format must be table, csv, or json (got %q)", scoreFormat)
	}

	var svc *insight.Service
	if scoreReasoning {
		if cfg.Groq.Key == "" {
			return eris.New("score: --reasoning requires GROWTH_GROQ_KEY")
		}
		llm := groq.NewClient(cfg.Groq.Key,
			groq.WithBaseURL(cfg.Groq.BaseURL),
			groq.WithModel(cfg.Groq.Model),
		)
		svc = insight.NewService(llm, cfg.Groq, cfg.Scorer)
	}

	// Single-lead mode.
	if scoreCSV == "" {
		if scoreBudget == "" || scoreTimeline == "" || scoreUrgency == "" {
			return eris.New("score: --budget, --timeline, and --urgency are required (or pass --csv)")
		}
		in := scorer.Input{
			Budget:            scoreBudget,
			Timeline:          scoreTimeline,
			Urgency:           scoreUrgency,
			AdditionalContext: scoreContext,
		}
		lead := scoreOne(ctx, in, "", svc)
		if scoreFormat == "json" {
			return outputLeads([]scoredLead{lead})
		}
		printSingleScore(lead)
		return nil
	}

	// Batch mode.
	leads, err := parseLeadsCSV(scoreCSV)
	if err != nil {
		return eris.Wrap(err, "score: parse csv")
	}
	zap.L().Info("parsed csv", zap.Int("leads", len(leads)))

	if scoreLimit > 0 && scoreLimit < len(leads) {
		leads = leads[:scoreLimit]
	}

	results := make([]scoredLead, len(leads))
	var withReasoning atomic.Int64

	if scoreReasoning {
		// Reasoning calls the remote API, so fan out with a concurrency cap.
		g, gCtx := errgroup.WithContext(ctx)
		g.SetLimit(scoreConcurrency)
		var mu sync.Mutex
		for i, lead := range leads {
			i, lead := i, lead
			g.Go(func() error {
				r := scoreOne(gCtx, lead.Input, lead.Name, svc)
				if r.Reasoning != nil {
					withReasoning.Add(1)
				}
				mu.Lock()
				results[i] = r
				mu.Unlock()
				return nil
			})
		}
		_ = g.Wait()
	} else {
		for i, lead := range leads {
			results[i] = scoreOne(ctx, lead.Input, lead.Name, nil)
		}
	}

	zap.L().Info("batch scoring complete",
		zap.Int("total", len(results)),
		zap.Int64("with_reasoning", withReasoning.Load()),
	)

	if err := outputLeads(results); err != nil {
		return err
	}
	printScoreSummary(results)
	return nil
}

// scoreOne computes the deterministic result for a single lead and,
// when svc is non-nil, attaches AI reasoning from the insight service.
func scoreOne(ctx context.Context, in scorer.Input, name string, svc *insight.Service) scoredLead {
	lead := scoredLead{Name: name, Input: in}

	if scoreLegacy {
		r := scorer.LegacyScore(in)
		lead.Score = r.Score
		lead.ConversionProbability = r.ConversionProbability
	} else {
		r := scorer.Score(in, cfg.Scorer)
		lead.Score = r.Score
		lead.ConversionProbability = fmt.Sprintf("%d%%", r.ConversionProbability)
	}

	if svc != nil {
		var env insight.Envelope
		if scoreLegacy {
			env = svc.ScoreLeadLegacy(ctx, in)
		} else {
			env = svc.ScoreLead(ctx, in)
		}
		if env.Status == insight.StatusSuccess {
			lead.Reasoning = env.Data
		} else {
			zap.L().Warn("reasoning failed",
				zap.String("lead", name),
				zap.String("message", env.Message),
			)
		}
	}

	return lead
}

func parseLeadsCSV(path string) ([]scoredLead, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "open %s", path)
	}
	defer f.Close() //nolint:errcheck

	r := csv.NewReader(f)
	header, err := r.Read()
	if err != nil {
		return nil, eris.Wrap(err, "read header")
	}

	col := map[string]int{}
	for i, h := range header {
		col[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, required := range []string{"budget", "timeline", "urgency"} {
		if _, ok := col[required]; !ok {
			return nil, eris.Errorf("missing required column %q", required)
		}
	}

	field := func(row []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var leads []scoredLead
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, eris.Wrap(err, "read row")
		}
		leads = append(leads, scoredLead{
			Name: field(row, "name"),
			Input: scorer.Input{
				Budget:            field(row, "budget"),
				Timeline:          field(row, "timeline"),
				Urgency:           field(row, "urgency"),
				AdditionalContext: field(row, "context"),
			},
		})
	}
	return leads, nil
}

func printSingleScore(lead scoredLead) {
	if lead.Name != "" {
		fmt.Printf("Lead:        %s\n", lead.Name)
	}
	fmt.Printf("Budget:      %s\n", lead.Input.Budget)
	fmt.Printf("Timeline:    %s\n", lead.Input.Timeline)
	fmt.Printf("Urgency:     %s\n", lead.Input.Urgency)
	fmt.Printf("Score:       %d / 100\n", lead.Score)
	fmt.Printf("Conversion:  %s\n", lead.ConversionProbability)
	if lead.Reasoning != nil {
		fmt.Printf("\nReasoning:\n%s\n", renderReasoning(lead.Reasoning))
	}
}

func printScoreSummary(results []scoredLead) {
	if len(results) == 0 {
		fmt.Println("No results.")
		return
	}
	var sum, max int
	min := 101
	for _, r := range results {
		sum += r.Score
		if r.Score > max {
			max = r.Score
		}
		if r.Score < min {
			min = r.Score
		}
	}
	fmt.Printf("\n--- Summary ---\n")
	fmt.Printf("Leads scored:  %d\n", len(results))
	fmt.Printf("Score range:   %d - %d\n", min, max)
	fmt.Printf("Average score: %.1f\n", float64(sum)/float64(len(results)))
}

func outputLeads(results []scoredLead) error {
	var w *os.File
	if scoreOutput != "" {
		var err error
		w, err = os.Create(scoreOutput)
		if err != nil {
			return eris.Wrapf(err, "score: create output file %s", scoreOutput)
		}
		defer w.Close() //nolint:errcheck
	} else {
		w = os.Stdout
	}

	switch scoreFormat {
	case "csv":
		return writeLeadsCSV(w, results)
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	default:
		return writeLeadsTable(w, results)
	}
}

func writeLeadsCSV(w *os.File, results []scoredLead) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	header := []string{"name", "budget", "timeline", "urgency", "lead_score", "conversion_probability"}
	if err := cw.Write(header); err != nil {
		return eris.Wrap(err, "score: write CSV header")
	}
	for _, r := range results {
		row := []string{
			r.Name,
			r.Input.Budget,
			r.Input.Timeline,
			r.Input.Urgency,
			fmt.Sprintf("%d", r.Score),
			r.ConversionProbability,
		}
		if err := cw.Write(row); err != nil {
			return eris.Wrap(err, "score: write CSV row")
		}
	}
	return nil
}

func writeLeadsTable(w *os.File, results []scoredLead) error {
	header := fmt.Sprintf("%-25s %-15s %-15s %-10s %6s %11s\n",
		"Name", "Budget", "Timeline", "Urgency", "Score", "Conversion")
	if _, err := fmt.Fprint(w, header); err != nil {
		return eris.Wrap(err, "score: write table header")
	}
	if _, err := fmt.Fprintln(w, strings.Repeat("-", 88)); err != nil {
		return eris.Wrap(err, "score: write table separator")
	}
	for _, r := range results {
		name := r.Name
		if name == "" {
			name = "-"
		}
		if len(name) > 25 {
			name = name[:22] + "..."
		}
		line := fmt.Sprintf("%-25s %-15s %-15s %-10s %6d %11s\n",
			name, truncate(r.Input.Budget, 15), truncate(r.Input.Timeline, 15),
			truncate(r.Input.Urgency, 10), r.Score, r.ConversionProbability)
		if _, err := fmt.Fprint(w, line); err != nil {
			return eris.Wrap(err, "score: write table row")
		}
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}

func renderReasoning(r any) string {
	if s, ok := r.(string); ok {
		return s
	}
	b, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", r)
	}
	return string(b)
}
