package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/arnavshah/staffing-planner-go/pkg/finance"
	"github.com/arnavshah/staffing-planner-go/pkg/models"
	"github.com/arnavshah/staffing-planner-go/pkg/snapshot"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// ProjectSummary is a project's lifetime totals measured against its target
// margin. Both margins are fractions of revenue.
type ProjectSummary struct {
	ID              string               `json:"id"`
	Name            string               `json:"name"`
	ProjectStatus   models.ProjectStatus `json:"project_status"`
	TargetMarginPct decimal.Decimal      `json:"target_margin_pct"`
	BelowTarget     bool                 `json:"below_target"`
	Totals          finance.Totals       `json:"totals"`
}

func summarize(p models.Project, roster []models.RosterPerson) ProjectSummary {
	totals := finance.ComputeProjectTotals(p, roster)
	target := finance.Dec(p.TargetMarginPct)
	return ProjectSummary{
		ID:              p.ID,
		Name:            p.Name,
		ProjectStatus:   p.ProjectStatus,
		TargetMarginPct: target,
		BelowTarget:     target.IsPositive() && totals.Margin.LessThan(target),
		Totals:          totals,
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func parseStatuses(s string) (map[models.ProjectStatus]bool, error) {
	parts := splitList(s)
	if len(parts) == 0 {
		return nil, nil
	}
	out := make(map[models.ProjectStatus]bool, len(parts))
	for _, part := range parts {
		st := models.ProjectStatus(part)
		if !st.Valid() {
			return nil, fmt.Errorf("unknown status %q", part)
		}
		out[st] = true
	}
	return out, nil
}

// filterProjects keeps projects whose status is in statuses; nil keeps all
func filterProjects(projects []models.Project, statuses map[models.ProjectStatus]bool) []models.Project {
	if statuses == nil {
		return projects
	}
	out := make([]models.Project, 0, len(projects))
	for _, p := range projects {
		if statuses[p.ProjectStatus] {
			out = append(out, p)
		}
	}
	return out
}

func parseRange(c *gin.Context) (finance.Range, error) {
	r := finance.Range{Start: c.Query("start"), End: c.Query("end")}
	for name, v := range map[string]string{"start": r.Start, "end": r.End} {
		if v == "" {
			continue
		}
		if _, ok := finance.NormalizeYM(v); !ok {
			return r, fmt.Errorf("%s must be YYYY-MM", name)
		}
	}
	return r, nil
}

func parseGrouping(s string) (finance.Grouping, error) {
	switch finance.Grouping(s) {
	case "", finance.GroupByPerson:
		return finance.GroupByPerson, nil
	case finance.GroupByDepartment:
		return finance.GroupByDepartment, nil
	default:
		return "", fmt.Errorf("group must be person or department")
	}
}

// analyticsQuery holds the filters shared by the analytics routes
type analyticsQuery struct {
	Range    finance.Range
	Statuses map[models.ProjectStatus]bool
	People   []string
	Group    finance.Grouping
}

func parseAnalyticsQuery(c *gin.Context) (analyticsQuery, error) {
	var q analyticsQuery
	var err error
	if q.Range, err = parseRange(c); err != nil {
		return q, err
	}
	if q.Statuses, err = parseStatuses(c.Query("status")); err != nil {
		return q, err
	}
	if q.Group, err = parseGrouping(c.Query("group")); err != nil {
		return q, err
	}
	q.People = splitList(c.Query("people"))
	return q, nil
}

// loadPlan reads the roster and the projects matching the status filter
func (h *Handler) loadPlan(c *gin.Context, statuses map[models.ProjectStatus]bool) ([]models.RosterPerson, []models.Project, bool) {
	snap, err := h.Store.Snapshot(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return nil, nil, false
	}
	return snap.People, filterProjects(snap.Projects, statuses), true
}

// ProjectTotals returns a project's lifetime totals
func (h *Handler) ProjectTotals(c *gin.Context) {
	ctx := c.Request.Context()
	p, err := h.Store.GetProject(ctx, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	roster, err := h.Store.ListPeople(ctx)
	if err != nil {
		respondError(c, err)
		return
	}
	noteUsage(c, 1, len(roster))
	c.JSON(http.StatusOK, summarize(p, roster))
}

// ProjectBreakdown returns the stats of every month of a project
func (h *Handler) ProjectBreakdown(c *gin.Context) {
	ctx := c.Request.Context()
	p, err := h.Store.GetProject(ctx, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	roster, err := h.Store.ListPeople(ctx)
	if err != nil {
		respondError(c, err)
		return
	}
	noteUsage(c, 1, len(roster))
	c.JSON(http.StatusOK, gin.H{
		"project_id": p.ID,
		"months":     finance.ComputeMonthlyBreakdown(p, roster),
	})
}

// Portfolio returns per-project totals and the portfolio total
func (h *Handler) Portfolio(c *gin.Context) {
	statuses, err := parseStatuses(c.Query("status"))
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	roster, projects, ok := h.loadPlan(c, statuses)
	if !ok {
		return
	}
	noteUsage(c, len(projects), len(roster))
	c.JSON(http.StatusOK, portfolio(projects, roster))
}

// portfolio sums the per-project totals, so projects with a malformed start
// month count here even though the calendar cannot place them
func portfolio(projects []models.Project, roster []models.RosterPerson) gin.H {
	summaries := make([]ProjectSummary, 0, len(projects))
	totals := make([]finance.Totals, 0, len(projects))
	for _, p := range projects {
		s := summarize(p, roster)
		summaries = append(summaries, s)
		totals = append(totals, s.Totals)
	}
	return gin.H{
		"projects": summaries,
		"totals":   finance.CombineTotals(totals...),
	}
}

// Calendar returns the month-by-month rollup across projects
func (h *Handler) Calendar(c *gin.Context) {
	q, err := parseAnalyticsQuery(c)
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	trailing, err := strconv.Atoi(c.DefaultQuery("trailing", "0"))
	if err != nil || trailing < 0 || trailing > 120 {
		badRequest(c, "trailing must be between 0 and 120")
		return
	}

	roster, projects, ok := h.loadPlan(c, q.Statuses)
	if !ok {
		return
	}
	buckets := finance.BuildCalendarRollup(projects, roster, q.Range)
	if c.Query("pad") == "true" {
		buckets = finance.PadCalendar(buckets, trailing)
	}
	if c.Query("trim") == "true" {
		buckets = finance.TrimTrailingEmpty(buckets)
	}

	noteUsage(c, len(projects), len(roster))
	c.JSON(http.StatusOK, gin.H{
		"buckets": buckets,
		"totals":  finance.SummarizeBuckets(buckets),
	})
}

// Utilization returns the person or department by month utilization matrix
func (h *Handler) Utilization(c *gin.Context) {
	q, err := parseAnalyticsQuery(c)
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	roster, projects, ok := h.loadPlan(c, q.Statuses)
	if !ok {
		return
	}
	noteUsage(c, len(projects), len(roster))
	c.JSON(http.StatusOK, finance.BuildUtilizationMatrix(projects, roster, finance.UtilizationOptions{
		People:  q.People,
		Range:   q.Range,
		GroupBy: q.Group,
	}))
}

// AnalyzeSnapshot computes every view over a posted snapshot without storing it
func (h *Handler) AnalyzeSnapshot(c *gin.Context) {
	q, err := parseAnalyticsQuery(c)
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	data, err := c.GetRawData()
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	snap, err := snapshot.Parse(data, snapshot.FormatJSON)
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	projects := filterProjects(snap.Projects, q.Statuses)
	noteUsage(c, len(projects), len(snap.People))

	out := portfolio(projects, snap.People)
	out["calendar"] = finance.BuildCalendarRollup(projects, snap.People, q.Range)
	out["utilization"] = finance.BuildUtilizationMatrix(projects, snap.People, finance.UtilizationOptions{
		People:  q.People,
		Range:   q.Range,
		GroupBy: q.Group,
	})
	c.JSON(http.StatusOK, out)
}
