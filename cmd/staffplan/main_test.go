package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

const legacySnapshot = "../../pkg/snapshot/testdata/legacy.yaml"

func TestKeygen(t *testing.T) {
	var buf bytes.Buffer
	if err := runKeygen(&buf, "master", "acme"); err != nil {
		t.Fatalf("Failed to generate key: %v", err)
	}
	if !strings.Contains(buf.String(), "acme.") {
		t.Errorf("Expected key for acme, got %q", buf.String())
	}
	if err := runKeygen(&buf, "", "acme"); err == nil {
		t.Error("Expected an error without a master secret")
	}
	if err := runKeygen(&buf, "master", "a.b"); err == nil {
		t.Error("Expected an error for a dotted user id")
	}
}

func TestReportCommand(t *testing.T) {
	var buf bytes.Buffer
	cmd := rootCmd()
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{"report", legacySnapshot, "--group", "department"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("Failed to run report: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"Project Totals", "Apollo", "Nov 2025", "Jan 2026", "Engineering", "Other"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected report to contain %q, got:\n%s", want, out)
		}
	}
}

func TestReport_RejectsBadOptions(t *testing.T) {
	var buf bytes.Buffer
	if err := runReport(&buf, legacySnapshot, reportOptions{Group: "team"}); err == nil {
		t.Error("Expected an error for an unknown grouping")
	}
	if err := runReport(&buf, legacySnapshot, reportOptions{Group: "person", Start: "2025-13"}); err == nil {
		t.Error("Expected an error for a malformed start month")
	}
	if err := runReport(&buf, "missing.yaml", reportOptions{Group: "person"}); err == nil {
		t.Error("Expected an error for a missing file")
	}
}

func TestValidateCommand(t *testing.T) {
	var buf bytes.Buffer
	if err := runValidate(&buf, legacySnapshot); err != nil {
		t.Fatalf("Expected legacy snapshot to validate, got %v", err)
	}
	if !strings.Contains(buf.String(), "Result: VALID") {
		t.Errorf("Expected a VALID result, got:\n%s", buf.String())
	}
}

func TestFormatMoney(t *testing.T) {
	cases := map[int64]string{
		999:      "999",
		1500:     "1.5K",
		-2500000: "-2.50M",
		0:        "0",
	}
	for in, want := range cases {
		if got := formatMoney(decimal.NewFromInt(in)); got != want {
			t.Errorf("Expected formatMoney(%d) = %s, got %s", in, want, got)
		}
	}
}
