package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/arnavshah/staffing-planner-go/pkg/auth"
	"github.com/arnavshah/staffing-planner-go/pkg/config"
	"github.com/arnavshah/staffing-planner-go/pkg/models"
	"github.com/gin-gonic/gin"
)

var testConfig = config.Config{
	JWTSecret:        "jwt-secret",
	APIMasterSecret:  "master-secret",
	DefaultRateLimit: 10,
}

func seededStore() *fakeStore {
	return &fakeStore{
		people: []models.RosterPerson{
			{ID: "p1", Name: "Alice", PersonType: models.PersonFullTime, Department: models.DeptEngineering, MonthlySalary: 8000, BaseMonthlyHours: 160},
			{ID: "p2", Name: "Bob", PersonType: models.PersonContractor, Department: models.DeptEngineering, HourlyRate: 100, BaseMonthlyHours: 120},
		},
		projects: []models.Project{
			{
				ID: "apollo", Name: "Apollo", ProjectStatus: models.StatusActive,
				OverheadPerHour: 10, StartMonth: "2025-11", MemberIDs: []string{"p1", "p2"},
				Months: []models.MonthRow{
					{Index: 0, PersonAllocations: map[string]models.Num{"p1": 50}, Revenue: 6000},
					{Index: 1, PersonAllocations: map[string]models.Num{"p1": 100, "p2": 150}},
					{Index: 2, PersonAllocations: map[string]models.Num{"p2": 50}},
				},
			},
			{
				ID: "gemini", Name: "Gemini", ProjectStatus: models.StatusBD,
				OverheadPerHour: 10, TargetMarginPct: 0.3, StartMonth: "2025-06", MemberIDs: []string{"p1"},
				Months: []models.MonthRow{
					{Index: 0, PersonAllocations: map[string]models.Num{"p1": 50}, Revenue: 6000},
				},
			},
		},
	}
}

func newTestRouter(store PlanStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := &Handler{Store: store, Config: testConfig}
	r := gin.New()
	h.registerAPI(r.Group("/api"))
	return r
}

func do(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), v); err != nil {
		t.Fatalf("Failed to decode response %q: %v", w.Body.String(), err)
	}
}

func TestProjectTotals(t *testing.T) {
	r := newTestRouter(seededStore())

	w := do(r, http.MethodGet, "/api/projects/gemini/totals", "")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		ID          string `json:"id"`
		BelowTarget bool   `json:"below_target"`
		Totals      struct {
			TotalHours   float64 `json:"total_hours"`
			LaborCost    float64 `json:"labor_cost"`
			OverheadCost float64 `json:"overhead_cost"`
			AllIn        float64 `json:"all_in"`
			Revenue      float64 `json:"revenue"`
			Profit       float64 `json:"profit"`
			Margin       float64 `json:"margin"`
		} `json:"totals"`
	}
	decode(t, w, &resp)

	if resp.Totals.TotalHours != 80 {
		t.Errorf("Expected 80 hours, got %v", resp.Totals.TotalHours)
	}
	if resp.Totals.LaborCost != 4000 || resp.Totals.OverheadCost != 800 || resp.Totals.AllIn != 4800 {
		t.Errorf("Expected labor 4000, overhead 800, all-in 4800, got %+v", resp.Totals)
	}
	if resp.Totals.Profit != 1200 || resp.Totals.Margin != 0.2 {
		t.Errorf("Expected profit 1200 and margin 0.2, got %v and %v", resp.Totals.Profit, resp.Totals.Margin)
	}
	if !resp.BelowTarget {
		t.Error("Expected a 0.2 margin to be below the 0.3 target")
	}
}

func TestProjectTotals_NotFound(t *testing.T) {
	r := newTestRouter(seededStore())
	if w := do(r, http.MethodGet, "/api/projects/nope/totals", ""); w.Code != http.StatusNotFound {
		t.Errorf("Expected 404, got %d", w.Code)
	}
}

func TestProjectBreakdown(t *testing.T) {
	r := newTestRouter(seededStore())
	w := do(r, http.MethodGet, "/api/projects/apollo/breakdown", "")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}

	var resp struct {
		Months []struct {
			YM    string  `json:"ym"`
			Hours float64 `json:"hours"`
			AllIn float64 `json:"all_in"`
		} `json:"months"`
	}
	decode(t, w, &resp)

	if len(resp.Months) != 3 {
		t.Fatalf("Expected 3 months, got %d", len(resp.Months))
	}
	if resp.Months[2].YM != "2026-01" {
		t.Errorf("Expected third month 2026-01, got %s", resp.Months[2].YM)
	}
	// 160h salaried + 180h contractor
	if resp.Months[1].Hours != 340 || resp.Months[1].AllIn != 29400 {
		t.Errorf("Expected 340 hours and all-in 29400, got %+v", resp.Months[1])
	}
}

type calendarResp struct {
	Buckets []struct {
		YM    string  `json:"ym"`
		Hours float64 `json:"hours"`
	} `json:"buckets"`
	Totals struct {
		TotalHours float64 `json:"total_hours"`
	} `json:"totals"`
}

func TestCalendar(t *testing.T) {
	r := newTestRouter(seededStore())

	var sparse calendarResp
	w := do(r, http.MethodGet, "/api/analytics/calendar", "")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	decode(t, w, &sparse)
	if len(sparse.Buckets) != 4 {
		t.Errorf("Expected 4 sparse buckets, got %d", len(sparse.Buckets))
	}
	if sparse.Totals.TotalHours != 560 {
		t.Errorf("Expected 560 total hours, got %v", sparse.Totals.TotalHours)
	}

	var padded calendarResp
	decode(t, do(r, http.MethodGet, "/api/analytics/calendar?pad=true&trailing=2", ""), &padded)
	if len(padded.Buckets) != 10 {
		t.Errorf("Expected 2025-06..2026-03 padded to 10 buckets, got %d", len(padded.Buckets))
	}

	var active calendarResp
	decode(t, do(r, http.MethodGet, "/api/analytics/calendar?status=Active&start=2025-12", ""), &active)
	if len(active.Buckets) != 2 || active.Buckets[0].YM != "2025-12" {
		t.Errorf("Expected Active buckets from 2025-12, got %+v", active.Buckets)
	}
}

func TestAnalytics_BadQueries(t *testing.T) {
	r := newTestRouter(seededStore())
	for _, path := range []string{
		"/api/analytics/calendar?start=2025-13",
		"/api/analytics/calendar?end=soon",
		"/api/analytics/calendar?status=Bogus",
		"/api/analytics/calendar?pad=true&trailing=-1",
		"/api/analytics/calendar?pad=true&trailing=abc",
		"/api/analytics/utilization?group=team",
		"/api/analytics/portfolio?status=Paused",
	} {
		if w := do(r, http.MethodGet, path, ""); w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400 for %s, got %d", path, w.Code)
		}
	}
}

type matrixResp struct {
	Months []struct {
		YM string `json:"ym"`
	} `json:"months"`
	Rows []struct {
		Key   string `json:"key"`
		Cells []struct {
			YM       string  `json:"ym"`
			Hours    float64 `json:"hours"`
			Capacity float64 `json:"capacity"`
			Util     float64 `json:"util"`
		} `json:"cells"`
	} `json:"rows"`
}

func TestUtilization(t *testing.T) {
	r := newTestRouter(seededStore())

	var people matrixResp
	w := do(r, http.MethodGet, "/api/analytics/utilization?start=2025-11&end=2026-01", "")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	decode(t, w, &people)
	if len(people.Months) != 3 || len(people.Rows) != 2 {
		t.Fatalf("Expected 3 months and 2 rows, got %d and %d", len(people.Months), len(people.Rows))
	}
	bob := people.Rows[1]
	if bob.Key != "p2" || bob.Cells[1].Util != 1.5 {
		t.Errorf("Expected Bob overallocated at 1.5 in Dec, got %+v", bob)
	}

	var depts matrixResp
	decode(t, do(r, http.MethodGet, "/api/analytics/utilization?start=2025-11&end=2026-01&group=department", ""), &depts)
	if len(depts.Rows) != 1 || depts.Rows[0].Key != string(models.DeptEngineering) {
		t.Fatalf("Expected a single Engineering row, got %+v", depts.Rows)
	}
	dec := depts.Rows[0].Cells[1]
	if dec.Hours != 340 || dec.Capacity != 280 {
		t.Errorf("Expected 340 hours over 280 capacity, got %+v", dec)
	}

	var filtered matrixResp
	decode(t, do(r, http.MethodGet, "/api/analytics/utilization?people=p1", ""), &filtered)
	if len(filtered.Rows) != 1 || filtered.Rows[0].Key != "p1" {
		t.Errorf("Expected only p1, got %+v", filtered.Rows)
	}
}

func TestPortfolio(t *testing.T) {
	r := newTestRouter(seededStore())
	var resp struct {
		Projects []ProjectSummary `json:"projects"`
		Totals   struct {
			Revenue float64 `json:"revenue"`
		} `json:"totals"`
	}
	decode(t, do(r, http.MethodGet, "/api/analytics/portfolio", ""), &resp)
	if len(resp.Projects) != 2 {
		t.Errorf("Expected 2 projects, got %d", len(resp.Projects))
	}
	if resp.Totals.Revenue != 12000 {
		t.Errorf("Expected portfolio revenue 12000, got %v", resp.Totals.Revenue)
	}
}

func TestPortfolio_CountsProjectsOffTheCalendar(t *testing.T) {
	store := seededStore()
	store.projects = append(store.projects, models.Project{
		ID: "drifter", Name: "Drifter", ProjectStatus: models.StatusActive,
		StartMonth: "someday", MemberIDs: []string{"p1"},
		Months: []models.MonthRow{{PersonAllocations: map[string]models.Num{"p1": 100}, Revenue: 3000}},
	})
	r := newTestRouter(store)

	var resp struct {
		Projects []ProjectSummary `json:"projects"`
		Totals   struct {
			TotalHours float64 `json:"total_hours"`
			Revenue    float64 `json:"revenue"`
		} `json:"totals"`
	}
	decode(t, do(r, http.MethodGet, "/api/analytics/portfolio", ""), &resp)

	var hours float64
	for _, p := range resp.Projects {
		f, _ := p.Totals.TotalHours.Float64()
		hours += f
	}
	if resp.Totals.TotalHours != hours || resp.Totals.Revenue != 15000 {
		t.Errorf("Expected totals to match the %v project hours and 15000 revenue, got %+v", hours, resp.Totals)
	}
}

func TestCreatePerson(t *testing.T) {
	store := seededStore()
	r := newTestRouter(store)

	if w := do(r, http.MethodPost, "/api/people", `{"name":"Cara","department":"Legal"}`); w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for unknown department, got %d", w.Code)
	}
	if w := do(r, http.MethodPost, "/api/people", `{"name":"  "}`); w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for empty name, got %d", w.Code)
	}
	if w := do(r, http.MethodPost, "/api/people", `{"name":"Cara","is_active":false,"inactive_date":"2024-03-xx"}`); w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for a garbled inactive date, got %d", w.Code)
	}

	w := do(r, http.MethodPost, "/api/people", `{"name":"Cara","person_type":"Contractor","hourly_rate":"75","base_monthly_hours":100}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var created models.RosterPerson
	decode(t, w, &created)
	if created.Department != models.DeptOther || created.HourlyRate != 75 {
		t.Errorf("Expected default department and hourly rate 75, got %+v", created)
	}
	if len(store.people) != 3 {
		t.Errorf("Expected person stored, got %d people", len(store.people))
	}
}

func TestGetPerson_EffectiveRate(t *testing.T) {
	r := newTestRouter(seededStore())
	var resp struct {
		EffectiveRate float64 `json:"effective_rate"`
	}
	decode(t, do(r, http.MethodGet, "/api/people/p1", ""), &resp)
	if resp.EffectiveRate != 50 {
		t.Errorf("Expected effective rate 50, got %v", resp.EffectiveRate)
	}
}

func TestCreateProject(t *testing.T) {
	r := newTestRouter(seededStore())

	if w := do(r, http.MethodPost, "/api/projects", `{"name":"Vega","start_month":"later"}`); w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for bad start month, got %d", w.Code)
	}
	if w := do(r, http.MethodPost, "/api/projects", `{"name":"Vega","start_month":"2025-01","member_ids":["ghost"]}`); w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for unknown member, got %d", w.Code)
	}

	w := do(r, http.MethodPost, "/api/projects", `{"name":"Vega","start_month":"2025-01-20","member_ids":["p1"]}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var created models.Project
	decode(t, w, &created)
	if created.StartMonth != "2025-01" || created.ProjectStatus != models.StatusActive {
		t.Errorf("Expected normalized start month and default status, got %+v", created)
	}
}

func TestMonthRoutes(t *testing.T) {
	r := newTestRouter(seededStore())

	if w := do(r, http.MethodPut, "/api/projects/apollo/months/abc", `{}`); w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for bad index, got %d", w.Code)
	}
	if w := do(r, http.MethodDelete, "/api/projects/apollo/months/9", ""); w.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for missing month, got %d", w.Code)
	}

	w := do(r, http.MethodDelete, "/api/projects/apollo/months/0", "")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	var p models.Project
	decode(t, w, &p)
	if len(p.Months) != 2 || p.Months[0].Index != 0 {
		t.Errorf("Expected 2 re-indexed months, got %+v", p.Months)
	}
}

func TestTodos(t *testing.T) {
	r := newTestRouter(seededStore())

	w := do(r, http.MethodPost, "/api/todos", `{"week_of":"2026-10-15","title":"Send proposal","kind":"bd"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d", w.Code)
	}
	var resp struct {
		Todos []models.WeeklyTodo `json:"todos"`
	}
	decode(t, do(r, http.MethodGet, "/api/todos?week=2026-10-14", ""), &resp)
	if len(resp.Todos) != 1 || resp.Todos[0].WeekOf != "2026-10-12" {
		t.Errorf("Expected one todo in week of 2026-10-12, got %+v", resp.Todos)
	}
	if w := do(r, http.MethodGet, "/api/todos?week=someday", ""); w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for bad week, got %d", w.Code)
	}
}

func TestValidateInput(t *testing.T) {
	r := newTestRouter(seededStore())

	if w := do(r, http.MethodPost, "/api/validate", `{not json`); w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for malformed body, got %d", w.Code)
	}

	body := `{"schema_version":2,"people":[{"id":"p1","name":"A"},{"id":"p1","name":"B"}],"projects":[]}`
	w := do(r, http.MethodPost, "/api/validate", body)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	var resp struct {
		Valid  bool `json:"valid"`
		Errors []struct {
			Path string `json:"path"`
		} `json:"errors"`
	}
	decode(t, w, &resp)
	if resp.Valid || len(resp.Errors) != 1 || resp.Errors[0].Path != "people[1].id" {
		t.Errorf("Expected a duplicate id error, got %+v", resp)
	}

	decode(t, do(r, http.MethodPost, "/api/validate", `{"people":[]}`), &resp)
	if resp.Valid {
		t.Error("Expected an empty roster to be invalid")
	}
}

func TestValidateInput_NonFiniteNumbers(t *testing.T) {
	r := newTestRouter(seededStore())

	body := `{"people":[{"id":"c","person_type":"Contractor","hourly_rate":"-Infinity","base_monthly_hours":"NaN"}]}`
	w := do(r, http.MethodPost, "/api/validate", body)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	var resp struct {
		Valid    bool `json:"valid"`
		Warnings []struct {
			Path  string `json:"path"`
			Value any    `json:"value"`
		} `json:"warnings"`
	}
	decode(t, w, &resp)
	if !resp.Valid {
		t.Errorf("Expected non-finite numbers to be coerced rather than rejected")
	}
	found := false
	for _, warn := range resp.Warnings {
		if warn.Path == "people[0].base_monthly_hours" {
			found = true
			if warn.Value != float64(0) {
				t.Errorf("Expected NaN capacity to read back as 0, got %v", warn.Value)
			}
		}
	}
	if !found {
		t.Errorf("Expected a capacity warning, got %+v", resp.Warnings)
	}
}

func TestAnalyzeSnapshot(t *testing.T) {
	r := newTestRouter(&fakeStore{})
	body := `{
		"people": [{"id":"p1","name":"A","monthly_salary":8000,"base_monthly_hours":160}],
		"projects": [{"id":"x","name":"X","start_month":"2025-12","member_ids":["p1"],
			"months":[{"person_allocations":{"p1":50}},{"person_allocations":{"p1":50}}]}]
	}`
	w := do(r, http.MethodPost, "/api/analytics/snapshot", body)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		Projects []ProjectSummary `json:"projects"`
		Calendar []struct {
			YM string `json:"ym"`
		} `json:"calendar"`
		Utilization matrixResp `json:"utilization"`
	}
	decode(t, w, &resp)
	if len(resp.Projects) != 1 || resp.Projects[0].ProjectStatus != models.StatusActive {
		t.Errorf("Expected one upgraded Active project, got %+v", resp.Projects)
	}
	if len(resp.Calendar) != 2 || resp.Calendar[1].YM != "2026-01" {
		t.Errorf("Expected buckets 2025-12 and 2026-01, got %+v", resp.Calendar)
	}
	if len(resp.Utilization.Rows) != 1 || resp.Utilization.Rows[0].Cells[0].Util != 0.5 {
		t.Errorf("Expected p1 at 0.5 utilization, got %+v", resp.Utilization.Rows)
	}
}

func TestAPIKeyMiddleware_RejectsBadKeys(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := &Handler{Config: testConfig}
	r := gin.New()
	r.GET("/api/ping", h.APIKeyMiddleware(), func(c *gin.Context) { c.Status(http.StatusOK) })

	if w := do(r, http.MethodGet, "/api/ping", ""); w.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 without key, got %d", w.Code)
	}

	forged := auth.GenerateHMACKey("wrong-secret", "acme")
	req := httptest.NewRequest(http.MethodGet, "/api/ping", nil)
	req.Header.Set("Authorization", "Bearer "+forged)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 for forged key, got %d", w.Code)
	}
}

func TestAuthMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := &Handler{Config: testConfig}
	r := gin.New()
	r.GET("/admin/ping", h.AuthMiddleware(), func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString("username"))
	})

	token, err := auth.CreateToken(testConfig.JWTSecret, "root")
	if err != nil {
		t.Fatalf("Failed to create token: %v", err)
	}
	req := httptest.NewRequest(http.MethodGet, "/admin/ping", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK || w.Body.String() != "root" {
		t.Errorf("Expected 200 for root, got %d %q", w.Code, w.Body.String())
	}

	other, _ := auth.CreateToken("other-secret", "root")
	req = httptest.NewRequest(http.MethodGet, "/admin/ping", nil)
	req.Header.Set("Authorization", "Bearer "+other)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 for foreign token, got %d", w.Code)
	}
}
