package snapshot

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/arnavshah/staffing-planner-go/pkg/models"
)

// CSVFiles are the spreadsheet exports a snapshot can be assembled from.
// People and Projects are required; Months is optional.
//
//	people:   id,name,person_type,department,comp_mode,monthly_salary,annual_salary,
//	          hourly_rate,base_monthly_hours,is_active,inactive_date
//	projects: id,name,description,status,project_status,start_month,
//	          overhead_per_hour,target_margin_pct,member_ids (p1|p2)
//	months:   project_id,month_index,expenses,revenue,allocations (p1:50|p2:100)
type CSVFiles struct {
	People   io.Reader
	Projects io.Reader
	Months   io.Reader
}

// ParseCSV assembles a snapshot from CSV exports and upgrades it to the current
// schema. Columns are matched by header name and missing columns read as empty.
func ParseCSV(files CSVFiles) (*models.Snapshot, error) {
	if files.People == nil || files.Projects == nil {
		return nil, errors.New("people and projects files are required")
	}
	var snap models.Snapshot

	err := readCSV(files.People, "people", func(row csvRow) error {
		p := models.RosterPerson{
			ID:               row.get("id"),
			Name:             row.get("name"),
			PersonType:       models.PersonType(row.get("person_type")),
			Department:       models.Department(row.get("department")),
			CompMode:         models.CompMode(row.get("comp_mode")),
			MonthlySalary:    models.ParseNum(row.get("monthly_salary")),
			AnnualSalary:     models.ParseNum(row.get("annual_salary")),
			HourlyRate:       models.ParseNum(row.get("hourly_rate")),
			BaseMonthlyHours: models.ParseNum(row.get("base_monthly_hours")),
			InactiveDate:     row.get("inactive_date"),
		}
		if v := row.get("is_active"); v != "" {
			active, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("is_active %q is not true or false", v)
			}
			p.IsActive = &active
		}
		snap.People = append(snap.People, p)
		return nil
	})
	if err != nil {
		return nil, err
	}

	byID := make(map[string]int)
	err = readCSV(files.Projects, "projects", func(row csvRow) error {
		p := models.Project{
			ID:              row.get("id"),
			Name:            row.get("name"),
			Description:     row.get("description"),
			Status:          row.get("status"),
			ProjectStatus:   models.ProjectStatus(row.get("project_status")),
			StartMonth:      row.get("start_month"),
			OverheadPerHour: models.ParseNum(row.get("overhead_per_hour")),
			TargetMarginPct: models.ParseNum(row.get("target_margin_pct")),
			MemberIDs:       splitPipe(row.get("member_ids")),
		}
		if _, dup := byID[p.ID]; !dup {
			byID[p.ID] = len(snap.Projects)
		}
		snap.Projects = append(snap.Projects, p)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if files.Months != nil {
		err = readCSV(files.Months, "months", func(row csvRow) error {
			pi, ok := byID[row.get("project_id")]
			if !ok {
				return fmt.Errorf("unknown project %q", row.get("project_id"))
			}
			index, err := strconv.Atoi(row.get("month_index"))
			if err != nil || index < 0 {
				return fmt.Errorf("month_index %q is not a non-negative integer", row.get("month_index"))
			}
			alloc, err := parseAllocations(row.get("allocations"))
			if err != nil {
				return err
			}
			p := &snap.Projects[pi]
			for len(p.Months) <= index {
				p.Months = append(p.Months, models.MonthRow{PersonAllocations: map[string]models.Num{}})
			}
			p.Months[index] = models.MonthRow{
				PersonAllocations: alloc,
				Expenses:          models.ParseNum(row.get("expenses")),
				Revenue:           models.ParseNum(row.get("revenue")),
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	if err := Upgrade(&snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

type csvRow struct {
	cols   map[string]int
	record []string
}

func (r csvRow) get(name string) string {
	i, ok := r.cols[name]
	if !ok || i >= len(r.record) {
		return ""
	}
	return strings.TrimSpace(r.record[i])
}

// readCSV calls fn for every data row; errors carry the file name and line
func readCSV(src io.Reader, name string, fn func(csvRow) error) error {
	reader := csv.NewReader(src)
	reader.FieldsPerRecord = -1
	header, err := reader.Read()
	if err != nil {
		return fmt.Errorf("reading %s header: %w", name, err)
	}
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	if _, ok := cols["id"]; !ok && name != "months" {
		return fmt.Errorf("%s file has no id column", name)
	}

	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("reading %s: %w", name, err)
		}
		if err := fn(csvRow{cols: cols, record: record}); err != nil {
			return fmt.Errorf("%s line %d: %w", name, line, err)
		}
	}
}

func splitPipe(s string) []string {
	var out []string
	for _, part := range strings.Split(s, "|") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// parseAllocations reads "p1:50|p2:100" into person percentages
func parseAllocations(s string) (map[string]models.Num, error) {
	alloc := make(map[string]models.Num)
	for _, part := range splitPipe(s) {
		id, pct, ok := strings.Cut(part, ":")
		id = strings.TrimSpace(id)
		if !ok || id == "" {
			return nil, fmt.Errorf("allocation %q is not person:percent", part)
		}
		alloc[id] = models.ParseNum(pct)
	}
	return alloc, nil
}
