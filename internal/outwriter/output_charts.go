package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/huangsam/xmr/internal/contract"
	"github.com/huangsam/xmr/internal/parquet"
	"github.com/huangsam/xmr/schema"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// pointsCSVHeader is the column layout of CSV output, one row per annotated point.
var pointsCSVHeader = []string{
	"entity",
	"metric",
	"chart",
	"index",
	"date",
	"value",
	"phase",
	"cl",
	"ucl",
	"lcl",
	"odds",
	"x_signal",
	"mr_signal",
	"both_signaling",
}

// writeChartTables renders every group as phase tables followed by a colored status line.
func writeChartTables(w io.Writer, result schema.ProcessingResult, cfg *contract.Config, fmtFloat func(float64) string, intFmt string, duration time.Duration) error {
	if !result.Success {
		if _, err := fmt.Fprintf(w, "%s %s\n", contract.GetColorLabel(contract.FailedValue), result.Error); err != nil {
			return err
		}
	}

	labelWidth := GetMaxTableLabelWidth(cfg)
	for _, grp := range result.Groups {
		if err := writeGroup(w, grp, labelWidth, fmtFloat, intFmt); err != nil {
			return err
		}
	}

	if len(result.Failures) > 0 {
		if err := writeFailureTable(w, result.Failures, labelWidth); err != nil {
			return err
		}
	}

	if n := len(result.Warnings); n > 0 {
		if _, err := fmt.Fprintf(w, "Skipped %d malformed records (run with --verbose for details)\n", n); err != nil {
			return err
		}
	}

	backend := string(cfg.AnalysisBackend)
	if backend == "" {
		backend = "disabled"
	}
	_, err := fmt.Fprintf(w, "Processed %d groups (%d failed) in %v with %d workers. Analysis backend: %s\n",
		len(result.Groups)+len(result.Failures), len(result.Failures), duration, cfg.Workers, backend)
	return err
}

// writeGroup renders the X and mR phase tables of one group.
func writeGroup(w io.Writer, grp schema.GroupResult, labelWidth int, fmtFloat func(float64) string, intFmt string) error {
	status := contract.StableValue
	if grp.X != nil && grp.X.Signals != nil {
		status = grp.X.Signals.Status()
	}
	title := contract.TruncateLabel(grp.Entity+" / "+grp.Metric, labelWidth)
	if _, err := fmt.Fprintf(w, "\n%s  [%s]\n", title, contract.GetColorLabel(status)); err != nil {
		return err
	}

	if grp.X == nil || len(grp.X.Phases) == 0 {
		count := 0
		if grp.X != nil {
			count = len(grp.X.Points)
		}
		_, err := fmt.Fprintf(w, "Not enough points for phase detection ("+intFmt+")\n", count)
		return err
	}

	if err := writePhaseTable(w, "Individuals", grp.X, fmtFloat, intFmt); err != nil {
		return err
	}
	if grp.MR != nil && len(grp.MR.Phases) > 0 {
		if err := writePhaseTable(w, "Moving Range", grp.MR, fmtFloat, intFmt); err != nil {
			return err
		}
	}

	if s := grp.X.Signals; s != nil {
		if _, err := fmt.Fprintf(w, "X signals: "+intFmt+"  mR signals: "+intFmt+"  synchronized: %t\n",
			s.XSignalCount, s.MRSignalCount, s.PhaseSynchronized); err != nil {
			return err
		}
	}
	if d := grp.Distribution; d != nil && d.Count > 0 {
		if _, err := fmt.Fprintf(w, "Distribution: n="+intFmt+" mean=%s sd=%s bins="+intFmt+"\n",
			d.Count, fmtFloat(d.Mean), fmtFloat(d.StdDev), len(d.Bins)); err != nil {
			return err
		}
	}
	return nil
}

// writePhaseTable writes one row per phase of chart.
func writePhaseTable(w io.Writer, caption string, chart *schema.ChartResult, fmtFloat func(float64) string, intFmt string) error {
	if _, err := fmt.Fprintf(w, "%s\n", caption); err != nil {
		return err
	}

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Phase", "Start", "End", "Points", "CL", "UCL", "LCL", "Outside"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for _, ph := range chart.Phases {
		outside := 0
		for i := ph.StartIndex; i <= ph.EndIndex && i < len(chart.Points); i++ {
			if chart.Points[i].OutsideLimits() {
				outside++
			}
		}
		data = append(data, []string{
			strconv.Itoa(ph.PhaseNumber),
			pointDate(chart.Points, ph.StartIndex),
			pointDate(chart.Points, ph.EndIndex),
			fmt.Sprintf(intFmt, ph.Len()),
			fmtFloat(ph.CL),
			fmtFloat(ph.UCL),
			fmtFloat(ph.LCL),
			fmt.Sprintf(intFmt, outside),
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

// writeFailureTable lists the groups that produced no charts.
func writeFailureTable(w io.Writer, failures []schema.GroupFailure, labelWidth int) error {
	if _, err := fmt.Fprintf(w, "\n%s\n", contract.GetColorLabel(contract.FailedValue)); err != nil {
		return err
	}

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Entity", "Metric", "Reason"})

	var data [][]string
	for _, f := range failures {
		data = append(data, []string{f.Entity, f.Metric, contract.TruncateLabel(f.Reason, labelWidth)})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

func pointDate(points []schema.AnnotatedPoint, i int) string {
	if i < 0 || i >= len(points) {
		return ""
	}
	return points[i].Date
}

// writePointsCSV writes one row per annotated X and mR point.
// Limit columns stay empty for points that were never annotated.
func writePointsCSV(w io.Writer, result schema.ProcessingResult, fmtFloat func(float64) string) error {
	rows := parquet.ConvertProcessingResult(result)
	return writeCSVWithHeader(w, pointsCSVHeader, func(cw *csv.Writer) error {
		optFloat := func(v *float64) string {
			if v == nil {
				return ""
			}
			return fmtFloat(*v)
		}
		for _, r := range rows {
			phase := ""
			if r.PhaseNumber != nil {
				phase = strconv.Itoa(int(*r.PhaseNumber))
			}
			rec := []string{
				r.Entity,
				r.Metric,
				r.Chart,
				strconv.Itoa(int(r.Index)),
				r.Date,
				fmtFloat(r.Value),
				phase,
				optFloat(r.CL),
				optFloat(r.UCL),
				optFloat(r.LCL),
				optFloat(r.Odds),
				strconv.FormatBool(r.XSignal),
				strconv.FormatBool(r.MRSignal),
				strconv.FormatBool(r.BothSignaling),
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}
