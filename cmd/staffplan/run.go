package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/arnavshah/staffing-planner-go/pkg/auth"
	"github.com/arnavshah/staffing-planner-go/pkg/finance"
	"github.com/arnavshah/staffing-planner-go/pkg/snapshot"
)

type reportOptions struct {
	Start string
	End   string
	Group string
}

func runKeygen(w io.Writer, secret, userID string) error {
	if secret == "" {
		return errors.New("API_MASTER_SECRET is not set")
	}
	if strings.Contains(userID, ".") {
		return errors.New("user id may not contain '.'")
	}
	fmt.Fprintf(w, "Generated Key for %s:\n%s\n", userID, auth.GenerateHMACKey(secret, userID))
	return nil
}

func runValidate(w io.Writer, path string) error {
	snap, err := snapshot.Load(path)
	if err != nil {
		return err
	}
	report := snapshot.Validate(snap)
	printValidationReport(w, report)
	if !report.Valid {
		return fmt.Errorf("snapshot has %d errors", len(report.Errors))
	}
	return nil
}

func runReport(w io.Writer, path string, opts reportOptions) error {
	r := finance.Range{Start: opts.Start, End: opts.End}
	for _, v := range []string{opts.Start, opts.End} {
		if _, ok := finance.NormalizeYM(v); v != "" && !ok {
			return fmt.Errorf("month %q must be YYYY-MM", v)
		}
	}
	group := finance.Grouping(opts.Group)
	if group != finance.GroupByPerson && group != finance.GroupByDepartment {
		return fmt.Errorf("group must be person or department")
	}

	snap, err := snapshot.Load(path)
	if err != nil {
		return err
	}
	report := snapshot.Validate(snap)
	if !report.Valid {
		printValidationReport(w, report)
		return errors.New("snapshot has validation errors; fix before reporting")
	}

	printProjectTotals(w, snap.Projects, snap.People)
	fmt.Fprintln(w)
	printCalendar(w, finance.BuildCalendarRollup(snap.Projects, snap.People, r))
	fmt.Fprintln(w)
	printUtilization(w, finance.BuildUtilizationMatrix(snap.Projects, snap.People, finance.UtilizationOptions{
		Range:   r,
		GroupBy: group,
	}))
	return nil
}
