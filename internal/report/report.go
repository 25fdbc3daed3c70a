// Package report renders the analytics views as an XLSX workbook.
package report

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/ZanzyTHEbar/troupe-insights/internal/analysis"
)

const (
	SheetOverview     = "Overview"
	SheetTop          = "Top Activities"
	SheetCategories   = "Categories"
	SheetBudget       = "Budget"
	SheetDynamics     = "Group Dynamics"
	SheetDistribution = "Score Distribution"
)

// ContentType is the MIME type of the workbook
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var activityHeader = []interface{}{"Name", "Category", "Price", "Love", "Like", "Pass", "Score", "Groups", "Website", "Map"}

func activityRow(a analysis.Activity) []interface{} {
	return []interface{}{a.Name, a.Category, a.Price, a.LoveVotes, a.LikeVotes, a.PassVotes, a.Score, a.GroupNames, a.WebsiteLink, a.GoogleMapsURL}
}

type sheetWriter struct {
	f     *excelize.File
	name  string
	row   int
	bold  int
	width int
}

func (w *sheetWriter) put(values []interface{}, header bool) error {
	w.row++
	cell, err := excelize.CoordinatesToCellName(1, w.row)
	if err != nil {
		return err
	}
	if err := w.f.SetSheetRow(w.name, cell, &values); err != nil {
		return fmt.Errorf("failed to write %s row %d: %w", w.name, w.row, err)
	}
	if len(values) > w.width {
		w.width = len(values)
	}
	if header && len(values) > 0 {
		end, err := excelize.CoordinatesToCellName(len(values), w.row)
		if err != nil {
			return err
		}
		return w.f.SetCellStyle(w.name, cell, end, w.bold)
	}
	return nil
}

func (w *sheetWriter) header(values ...interface{}) error { return w.put(values, true) }
func (w *sheetWriter) line(values ...interface{}) error   { return w.put(values, false) }
func (w *sheetWriter) blank()                             { w.row++ }

func (w *sheetWriter) activities(list []analysis.Activity) error {
	if err := w.put(activityHeader, true); err != nil {
		return err
	}
	for _, a := range list {
		if err := w.put(activityRow(a), false); err != nil {
			return err
		}
	}
	return nil
}

func (w *sheetWriter) finish() error {
	if w.width == 0 {
		return nil
	}
	last, err := excelize.ColumnNumberToName(w.width)
	if err != nil {
		return err
	}
	return w.f.SetColWidth(w.name, "A", last, 18)
}

// Build lays the summary out one view per sheet. The caller closes the file.
func Build(summary analysis.Summary, generatedAt time.Time) (*excelize.File, error) {
	f := excelize.NewFile()
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	builders := []struct {
		name  string
		write func(*sheetWriter) error
	}{
		{SheetOverview, func(w *sheetWriter) error { return overview(w, summary, generatedAt) }},
		{SheetTop, func(w *sheetWriter) error { return w.activities(summary.TopActivities) }},
		{SheetCategories, func(w *sheetWriter) error { return categories(w, summary) }},
		{SheetBudget, func(w *sheetWriter) error { return budget(w, summary.BudgetAnalysis) }},
		{SheetDynamics, func(w *sheetWriter) error { return dynamics(w, summary.GroupDynamics) }},
		{SheetDistribution, func(w *sheetWriter) error { return distribution(w, summary.ScoreDistribution) }},
	}

	for i, b := range builders {
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), b.name); err != nil {
				f.Close()
				return nil, fmt.Errorf("failed to rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(b.name); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to add sheet %s: %w", b.name, err)
		}

		w := &sheetWriter{f: f, name: b.name, bold: bold}
		if err := b.write(w); err != nil {
			f.Close()
			return nil, err
		}
		if err := w.finish(); err != nil {
			f.Close()
			return nil, err
		}
	}

	f.SetActiveSheet(0)
	return f, nil
}

// Write builds the workbook and streams it to out.
func Write(out io.Writer, summary analysis.Summary, generatedAt time.Time) error {
	f, err := Build(summary, generatedAt)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.Write(out); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func overview(w *sheetWriter, s analysis.Summary, generatedAt time.Time) error {
	rows := [][]interface{}{
		{"Generated", generatedAt.UTC().Format(time.RFC3339)},
		{"Total activities", s.Totals.TotalActivities},
		{"Love votes", s.Totals.TotalLoveVotes},
		{"Like votes", s.Totals.TotalLikeVotes},
		{"Pass votes", s.Totals.TotalPassVotes},
		{"Average score", s.Totals.AvgScore},
		{"Total votes", s.VotingPatterns.TotalVotes},
		{"Love %", s.VotingPatterns.LovePercentage},
		{"Like %", s.VotingPatterns.LikePercentage},
		{"Pass %", s.VotingPatterns.PassPercentage},
		{"Engagement", s.VotingPatterns.Engagement},
	}
	if err := w.header("Metric", "Value"); err != nil {
		return err
	}
	for _, r := range rows {
		if err := w.line(r...); err != nil {
			return err
		}
	}
	return nil
}

func categories(w *sheetWriter, s analysis.Summary) error {
	if err := w.header("Category", "Activities", "Average score"); err != nil {
		return err
	}
	for _, c := range s.CategoryStats {
		if err := w.line(c.Category, c.Count, c.AvgScore); err != nil {
			return err
		}
	}

	w.blank()
	if err := w.header("Category", "Top activity", "Top score", "Average score", "Activities"); err != nil {
		return err
	}
	for _, l := range s.CategoryLeaders {
		if err := w.line(l.Category, l.TopActivity.Name, l.TopActivity.Score, l.AvgScore, l.Count); err != nil {
			return err
		}
	}
	return nil
}

func budget(w *sheetWriter, tiers []analysis.BudgetTier) error {
	if err := w.header("Tier", "Activities", "Average score", "Best value", "Best value score"); err != nil {
		return err
	}
	for _, t := range tiers {
		if err := w.line(t.Tier, t.Count, t.AvgScore, t.BestValue.Name, t.BestValue.Score); err != nil {
			return err
		}
	}
	return nil
}

func dynamics(w *sheetWriter, g analysis.GroupDynamics) error {
	sections := []struct {
		label string
		list  []analysis.Activity
	}{
		{"Consensus", g.Consensus},
		{"Controversial", g.Controversial},
		{"Polarizing", g.Polarizing},
		{"Unanimous", g.Unanimous},
	}
	for i, sec := range sections {
		if i > 0 {
			w.blank()
		}
		if err := w.header(fmt.Sprintf("%s (%d)", sec.label, len(sec.list))); err != nil {
			return err
		}
		if err := w.activities(sec.list); err != nil {
			return err
		}
	}
	return nil
}

func distribution(w *sheetWriter, bins []analysis.ScoreBin) error {
	if err := w.header("Range", "Activities", "Percentage"); err != nil {
		return err
	}
	for _, b := range bins {
		if err := w.line(b.Range, b.Count, b.Percentage); err != nil {
			return err
		}
	}
	return nil
}
