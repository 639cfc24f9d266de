package handlers

import (
	"encoding/csv"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/arnavshah/staffing-planner-go/pkg/finance"
	"github.com/arnavshah/staffing-planner-go/pkg/snapshot"
	"github.com/gin-gonic/gin"
)

// openUpload opens an optional multipart file; a missing field yields nil
func openUpload(c *gin.Context, field string) (multipart.File, error) {
	fh, err := c.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return fh.Open()
}

// AnalyzeCSV builds a snapshot from uploaded CSV exports, validates it and
// returns the portfolio with its calendar rollup, also rendered as CSV
func (h *Handler) AnalyzeCSV(c *gin.Context) {
	q, err := parseAnalyticsQuery(c)
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	var files snapshot.CSVFiles
	for field, dst := range map[string]*io.Reader{
		"people_file":   &files.People,
		"projects_file": &files.Projects,
		"months_file":   &files.Months,
	} {
		f, err := openUpload(c, field)
		if err != nil {
			badRequest(c, "Failed to open "+field)
			return
		}
		if f != nil {
			defer f.Close()
			*dst = f
		}
	}
	if files.People == nil || files.Projects == nil {
		badRequest(c, "people_file and projects_file are required")
		return
	}

	snap, err := snapshot.ParseCSV(files)
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	report := snapshot.Validate(snap)
	if !report.Valid {
		c.JSON(http.StatusBadRequest, gin.H{"error": "snapshot has validation errors", "report": report})
		return
	}

	projects := filterProjects(snap.Projects, q.Statuses)
	noteUsage(c, len(projects), len(snap.People))

	calendar := finance.BuildCalendarRollup(projects, snap.People, q.Range)
	out := portfolio(projects, snap.People)
	out["report"] = report
	out["calendar"] = calendar
	out["csv"] = calendarCSV(calendar)
	c.JSON(http.StatusOK, out)
}

// calendarCSV renders rollup buckets one month per row, money to the cent
func calendarCSV(buckets []finance.CalendarBucket) string {
	var out strings.Builder
	w := csv.NewWriter(&out)
	w.Write([]string{"month", "label", "hours", "labor", "overhead", "expenses", "all_in", "revenue"})
	for _, b := range buckets {
		w.Write([]string{
			b.YM,
			b.Label,
			b.Hours.StringFixed(2),
			b.Labor.StringFixed(2),
			b.Overhead.StringFixed(2),
			b.Expenses.StringFixed(2),
			b.AllIn.StringFixed(2),
			b.Revenue.StringFixed(2),
		})
	}
	w.Flush()
	return out.String()
}
