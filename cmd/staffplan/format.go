package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/arnavshah/staffing-planner-go/pkg/finance"
	"github.com/arnavshah/staffing-planner-go/pkg/models"
	"github.com/arnavshah/staffing-planner-go/pkg/snapshot"
	"github.com/shopspring/decimal"
)

func printValidationReport(w io.Writer, r *snapshot.Report) {
	for _, group := range []struct {
		title  string
		issues []snapshot.Issue
	}{
		{"ERRORS", r.Errors},
		{"WARNINGS", r.Warnings},
	} {
		if len(group.issues) == 0 {
			continue
		}
		fmt.Fprintf(w, "%s (%d):\n", group.title, len(group.issues))
		for _, i := range group.issues {
			fmt.Fprintf(w, "  %s\n", i.Message)
			if i.Path != "" {
				fmt.Fprintf(w, "    -> %s = %v\n", i.Path, i.Value)
			}
		}
		fmt.Fprintln(w)
	}

	status := "VALID"
	if !r.Valid {
		status = "INVALID"
	}
	fmt.Fprintf(w, "Result: %s (%d people, %d projects, %d errors, %d warnings)\n",
		status, r.People, r.Projects, len(r.Errors), len(r.Warnings))
}

func printProjectTotals(w io.Writer, projects []models.Project, roster []models.RosterPerson) {
	fmt.Fprintln(w, "Project Totals")
	fmt.Fprintln(w, "==============")
	fmt.Fprintf(w, "%-24s %10s %12s %12s %12s %8s\n", "Project", "Hours", "All-in", "Revenue", "Profit", "Margin")
	for _, p := range projects {
		t := finance.ComputeProjectTotals(p, roster)
		fmt.Fprintf(w, "%-24s %10s %12s %12s %12s %8s\n",
			truncate(p.Name, 24),
			t.TotalHours.StringFixed(1),
			formatMoney(t.AllIn),
			formatMoney(t.Revenue),
			formatMoney(t.Profit),
			formatPct(t.Margin),
		)
	}
}

func printCalendar(w io.Writer, buckets []finance.CalendarBucket) {
	fmt.Fprintln(w, "Calendar")
	fmt.Fprintln(w, "========")
	if len(buckets) == 0 {
		fmt.Fprintln(w, "No months in range.")
		return
	}
	fmt.Fprintf(w, "%-9s %10s %12s %12s %12s\n", "Month", "Hours", "Labor", "All-in", "Revenue")
	for _, b := range buckets {
		fmt.Fprintf(w, "%-9s %10s %12s %12s %12s\n",
			b.Label,
			b.Hours.StringFixed(1),
			formatMoney(b.Labor),
			formatMoney(b.AllIn),
			formatMoney(b.Revenue),
		)
	}
	t := finance.SummarizeBuckets(buckets)
	fmt.Fprintf(w, "%-9s %10s %12s %12s %12s\n", "TOTAL",
		t.TotalHours.StringFixed(1), formatMoney(t.LaborCost), formatMoney(t.AllIn), formatMoney(t.Revenue))
}

func printUtilization(w io.Writer, m finance.UtilizationMatrix) {
	fmt.Fprintln(w, "Utilization")
	fmt.Fprintln(w, "===========")
	if len(m.Months) == 0 {
		fmt.Fprintln(w, "No months in range.")
		return
	}
	fmt.Fprintf(w, "%-20s", "")
	for _, col := range m.Months {
		fmt.Fprintf(w, " %9s", col.Label)
	}
	fmt.Fprintln(w)

	for _, row := range m.Rows {
		fmt.Fprintf(w, "%-20s", truncate(row.Label, 20))
		for _, cell := range row.Cells {
			fmt.Fprintf(w, " %9s", formatCell(cell))
		}
		fmt.Fprintln(w)
	}
}

// formatCell marks inactive months with "-" and hours booked on inactive people with "!"
func formatCell(c finance.UtilizationCell) string {
	switch {
	case c.InactiveAllocated:
		return "!" + formatPct(c.Util)
	case c.Inactive:
		return "-"
	case c.Hours.IsZero():
		return ""
	default:
		return formatPct(c.Util)
	}
}

func formatPct(d decimal.Decimal) string {
	return d.Mul(decimal.NewFromInt(100)).StringFixed(0) + "%"
}

func formatMoney(d decimal.Decimal) string {
	abs := d.Abs()
	var s string
	switch {
	case abs.GreaterThanOrEqual(decimal.NewFromInt(1_000_000)):
		s = abs.Div(decimal.NewFromInt(1_000_000)).StringFixed(2) + "M"
	case abs.GreaterThanOrEqual(decimal.NewFromInt(1_000)):
		s = abs.Div(decimal.NewFromInt(1_000)).StringFixed(1) + "K"
	default:
		s = abs.StringFixed(0)
	}
	if d.IsNegative() {
		return "-" + s
	}
	return s
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return strings.TrimSpace(s[:n-1]) + "~"
}
