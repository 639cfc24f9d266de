package snapshot

import (
	"fmt"

	"github.com/arnavshah/staffing-planner-go/pkg/finance"
	"github.com/arnavshah/staffing-planner-go/pkg/models"
	"github.com/google/uuid"
)

// migrations[v] upgrades a snapshot from version v to v+1
var migrations = []func(*models.Snapshot){
	fillDefaults,
	fillMonths,
}

// Upgrade migrates a snapshot in place to models.SchemaVersion. Snapshots
// without a version are treated as version 0.
func Upgrade(s *models.Snapshot) error {
	if s.SchemaVersion < 0 || s.SchemaVersion > models.SchemaVersion {
		return fmt.Errorf("unsupported snapshot schema version %d", s.SchemaVersion)
	}
	for v := s.SchemaVersion; v < models.SchemaVersion; v++ {
		migrations[v](s)
		s.SchemaVersion = v + 1
	}
	return nil
}

// fillDefaults sets the classification fields that early snapshots left out
func fillDefaults(s *models.Snapshot) {
	for i := range s.People {
		p := &s.People[i]
		if p.Department == "" {
			p.Department = models.DeptOther
		}
		if p.PersonType == "" {
			p.PersonType = models.PersonFullTime
		}
		if p.CompMode == "" {
			p.CompMode = models.CompMonthly
		}
	}
	for i := range s.Projects {
		if s.Projects[i].ProjectStatus == "" {
			s.Projects[i].ProjectStatus = models.StatusActive
		}
	}
}

// fillMonths gives every month an id and its position as index, and puts
// start months in YYYY-MM form. Unparseable start months are left for
// validation to report.
func fillMonths(s *models.Snapshot) {
	for i := range s.Projects {
		p := &s.Projects[i]
		if ym, ok := finance.NormalizeYM(p.StartMonth); ok {
			p.StartMonth = ym
		}
		for mi := range p.Months {
			m := &p.Months[mi]
			if m.ID == "" {
				m.ID = uuid.NewString()
			}
			m.Index = mi
			if ym, ok := finance.AddMonths(p.StartMonth, mi); ok {
				m.Label = finance.MonthLabel(ym)
			}
		}
	}
}
