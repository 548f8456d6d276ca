package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"runtime"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/kintai-check/kintai-backend-go/internal/domain/attendance"
	"github.com/kintai-check/kintai-backend-go/internal/domain/issue"
	"github.com/kintai-check/kintai-backend-go/internal/domain/setting"
	"github.com/kintai-check/kintai-backend-go/internal/pkg/csvimport"
	"github.com/kintai-check/kintai-backend-go/internal/service/detection"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// rowResult is the detection outcome for one CSV row.
type rowResult struct {
	Line         int             `json:"line"`
	EmployeeCode string          `json:"employee_code"`
	Name         string          `json:"name"`
	Date         string          `json:"date"`
	Findings     []issue.Finding `json:"findings"`
}

type detectOptions struct {
	workers  int
	asJSON   bool
	all      bool
	progress bool
	locale   string
}

func detectCmd() *cobra.Command {
	var opts detectOptions
	cmd := &cobra.Command{
		Use:   "detect <file.csv>",
		Short: "Run anomaly detection over a timeclock CSV export",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			policy, err := policyFromViper(viper.GetViper())
			if err != nil {
				return err
			}

			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("failed to open %s: %w", args[0], err)
			}
			defer f.Close()

			table, err := csvimport.Read(f, csvimport.DefaultLimits)
			if err != nil {
				return err
			}
			rows, err := table.Canonical()
			if err != nil {
				return err
			}

			var onDone func()
			if opts.progress {
				bar := progressbar.NewOptions(len(rows),
					progressbar.OptionSetWriter(cmd.ErrOrStderr()),
					progressbar.OptionShowCount(),
					progressbar.OptionSetWidth(40),
					progressbar.OptionSetDescription("Checking rows"),
					progressbar.OptionClearOnFinish(),
				)
				onDone = func() { _ = bar.Add(1) }
			}

			detector := detection.NewDetector(detection.ParseLocale(opts.locale))
			results, err := detectRows(cmd.Context(), detector, rows, policy, opts.workers, onDone)
			if err != nil {
				return err
			}

			if !opts.all {
				results = withFindings(results)
			}
			if opts.asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(results)
			}
			return printResults(cmd.OutOrStdout(), results, len(rows))
		},
	}

	cmd.Flags().IntVarP(&opts.workers, "workers", "w", runtime.NumCPU(), "number of parallel workers")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "print results as JSON")
	cmd.Flags().BoolVar(&opts.all, "all", false, "include rows without findings")
	cmd.Flags().BoolVar(&opts.progress, "progress", false, "show a progress bar")
	cmd.Flags().StringVar(&opts.locale, "locale", "ja", "message locale (ja, en)")
	return cmd
}

// detectRows evaluates rows in parallel and returns results in input order.
func detectRows(ctx context.Context, detector *detection.Detector, rows []attendance.CanonicalRow, policy setting.PolicyConfig, workers int, onDone func()) ([]rowResult, error) {
	if workers < 1 {
		workers = 1
	}

	workChan := make(chan int, len(rows))
	for i := range rows {
		workChan <- i
	}
	close(workChan)

	results := make([]rowResult, len(rows))
	var mu sync.Mutex
	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := range workChan {
				if ctx.Err() != nil {
					return
				}
				row := rows[i]
				results[i] = rowResult{
					Line:         row.Line,
					EmployeeCode: row.EmployeeCode,
					Name:         row.Name,
					Date:         row.Date.Format("2006-01-02"),
					Findings:     detector.Detect(row.Record(row.EmployeeCode), policy),
				}
				if onDone != nil {
					mu.Lock()
					onDone()
					mu.Unlock()
				}
			}
		}()
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

func withFindings(results []rowResult) []rowResult {
	out := make([]rowResult, 0, len(results))
	for _, r := range results {
		if len(r.Findings) > 0 {
			out = append(out, r)
		}
	}
	return out
}

var severityStyles = map[issue.Severity]lipgloss.Style{
	issue.SeverityHigh:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196")),
	issue.SeverityMedium: lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
	issue.SeverityLow:    lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
}

func printResults(w io.Writer, results []rowResult, total int) error {
	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	if _, err := fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("%-6s %-10s %-12s %-8s %-20s %s", "LINE", "CODE", "DATE", "LEVEL", "TYPE", "DETAIL"))); err != nil {
		return err
	}

	findings := 0
	for _, r := range results {
		if len(r.Findings) == 0 {
			fmt.Fprintf(w, "%-6d %-10s %-12s %s\n", r.Line, r.EmployeeCode, r.Date, "-")
			continue
		}
		for _, f := range r.Findings {
			findings++
			level := severityStyles[f.Severity].Render(fmt.Sprintf("%-8s", f.Severity))
			fmt.Fprintf(w, "%-6d %-10s %-12s %s %-20s %s\n", r.Line, r.EmployeeCode, r.Date, level, f.Type, f.RuleDescription)
		}
	}

	summary := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	_, err := fmt.Fprintln(w, summary.Render(fmt.Sprintf("%d rows checked, %d findings", total, findings)))
	return err
}
