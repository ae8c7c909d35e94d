package aggregator

import (
	"testing"

	"github.com/sjses80519/dcnSyslogAnalysis-project/internal/classifier"
	"github.com/sjses80519/dcnSyslogAnalysis-project/pkg/models"
)

type fakeDevices struct {
	tfn map[string]string
}

func (f fakeDevices) Category(ip string) models.Category {
	if _, ok := f.tfn[ip]; ok {
		return models.CategoryTFN
	}
	return models.CategoryUnknown
}

func (f fakeDevices) Hostname(category models.Category, ip string) string {
	if category == models.CategoryTFN {
		if h, ok := f.tfn[ip]; ok {
			return h
		}
	}
	return "N/A"
}

var devices = fakeDevices{tfn: map[string]string{"10.0.0.1": "core-sw1"}}

func classify(t *testing.T, raw string) models.ClassifiedLine {
	t.Helper()
	line, ok := classifier.Classify(raw, devices)
	if !ok {
		t.Fatalf("expected %q to classify", raw)
	}
	return line
}

func TestHistoricalBoundaries(t *testing.T) {
	a := New(models.CategoryTFN)
	for _, raw := range []string{
		"Mar 1 2024 10.0.0.1 %LINK-3-UPDOWN: down",
		"Mar 1 2024 10.0.0.1 %LINK-4-UPDOWN: flap",
		"Mar 1 2024 10.0.0.1 %SYS-7-DEBUG: trace",
	} {
		a.AddHistorical("202403", classify(t, raw))
	}

	h := a.History()
	if len(h) != 1 {
		t.Fatalf("expected 1 month, got %d", len(h))
	}
	c := h[0]
	if c.MonthKey != "202403" || c.Sev0to3 != 1 || c.Sev4to6 != 1 || c.Total != 3 {
		t.Errorf("unexpected counter %+v", c)
	}
}

func TestHistoryOrderedByMonth(t *testing.T) {
	a := New(models.CategoryTWM)
	a.EnsureMonth("202402")
	a.EnsureMonth("202312")
	a.EnsureMonth("202401")

	h := a.History()
	want := []string{"202312", "202401", "202402"}
	for i, m := range want {
		if h[i].MonthKey != m {
			t.Errorf("position %d: expected %s, got %s", i, m, h[i].MonthKey)
		}
	}
}

func TestLatestPass(t *testing.T) {
	a := New(models.CategoryTFN)
	for _, raw := range []string{
		"Mar 1 2024 10.0.0.1 %LINK-3-UPDOWN: down",
		"Mar 1 2024 10.0.0.1 %LINK-5-UPDOWN: up",
		"Mar 2 2024 10.0.0.1 %LINK-3-UPDOWN: down",
		"Mar 2 2024 10.0.0.1 %SYS-5-CONFIG_I: configured",
		"Mar 2 2024 10.0.0.1 %SYS-7-DEBUG: trace",
	} {
		a.AddLatest(classify(t, raw))
	}

	types := a.SeverityTypes()
	if len(types) != 3 {
		t.Fatalf("expected 3 log types, got %d: %+v", len(types), types)
	}
	// %LINK-5-UPDOWN: is its own type since the marker carries the severity
	if types[0].LogType != "%LINK-3-UPDOWN:" || types[0].Count != 2 || types[0].Severity != 3 {
		t.Errorf("unexpected first type %+v", types[0])
	}
	for _, tc := range types {
		if tc.LogType == "%SYS-7-DEBUG:" {
			t.Errorf("severity 7 should not create a type count")
		}
	}

	details := a.Details()
	if len(details) != 2 {
		t.Fatalf("expected 2 detail rows, got %d", len(details))
	}

	latest := a.Latest()
	if latest.Sev0to3 != 2 || latest.Sev4to6 != 2 || latest.Total != 5 {
		t.Errorf("unexpected latest counter %+v", latest)
	}
}

func TestSeverityFrozenAtFirstSighting(t *testing.T) {
	a := New(models.CategoryUnknown)
	a.AddLatest(models.ClassifiedLine{Severity: 5, LogType: "%X:", RawMessage: "a b c d %X:"})
	a.AddLatest(models.ClassifiedLine{Severity: 1, LogType: "%X:", RawMessage: "a b c d %X:"})

	types := a.SeverityTypes()
	if len(types) != 1 {
		t.Fatalf("expected 1 type, got %d", len(types))
	}
	if types[0].Severity != 5 || types[0].Count != 2 {
		t.Errorf("expected severity 5 count 2, got %+v", types[0])
	}
}

func TestResolveHostnames(t *testing.T) {
	tfn := New(models.CategoryTFN)
	tfn.AddLatest(classify(t, "Mar 1 2024 10.0.0.1 %LINK-3-UPDOWN: Interface down"))
	tfn.ResolveHostnames(devices)

	unknown := New(models.CategoryUnknown)
	unknown.AddLatest(classify(t, "Mar 1 2024 10.0.0.9 %LINK-3-UPDOWN: Interface down"))
	unknown.ResolveHostnames(devices)

	if got := tfn.Details()[0].Hostname; got != "core-sw1" {
		t.Errorf("expected core-sw1, got %q", got)
	}
	if got := unknown.Details()[0].Hostname; got != "N/A" {
		t.Errorf("expected N/A, got %q", got)
	}
}

func TestCollapse(t *testing.T) {
	details := []models.DetailRecord{
		{Severity: 3, DeviceIP: "10.0.0.1", RawMessage: "Mar 1 2024 10.0.0.1 %LINK-3-UPDOWN: down"},
		{Severity: 3, DeviceIP: "10.0.0.1", RawMessage: "Mar 1 2024 10.0.0.1 %LINK-3-UPDOWN: down again"},
		{Severity: 3, DeviceIP: "10.0.0.1", RawMessage: "Mar 2 2024 10.0.0.1 %LINK-3-UPDOWN: down"},
		{Severity: 2, DeviceIP: "10.0.0.2", RawMessage: "Mar 1 2024 10.0.0.2 %LINK-3-UPDOWN: down"},
		{Severity: 2, DeviceIP: "10.0.0.1", RawMessage: "Mar 1 2024 10.0.0.1 %OUTER-2-EVT: x %INNER: y"},
	}

	groups := Collapse(details)
	if len(groups) != 4 {
		t.Fatalf("expected 4 groups, got %d", len(groups))
	}

	sum := 0
	for _, g := range groups {
		sum += g.Count
	}
	if sum != len(details) {
		t.Errorf("group counts sum to %d, expected %d", sum, len(details))
	}

	if groups[0].Count != 2 || groups[0].Day != "Mar 1" {
		t.Errorf("unexpected first group %+v", groups[0])
	}
	if groups[0].First.RawMessage != details[0].RawMessage {
		t.Errorf("group should carry the first record")
	}

	nested := groups[3]
	if nested.Marker != "%INNER:" {
		t.Errorf("expected grouping by last marker, got %q", nested.Marker)
	}
	if nested.LogType != "%OUTER-2-EVT:" {
		t.Errorf("expected primary log type, got %q", nested.LogType)
	}
}

func TestCollapseEmpty(t *testing.T) {
	if groups := Collapse(nil); len(groups) != 0 {
		t.Errorf("expected no groups, got %d", len(groups))
	}
}

func TestIdempotentAcrossRuns(t *testing.T) {
	lines := []string{
		"Mar 1 2024 10.0.0.1 %LINK-3-UPDOWN: down",
		"Mar 1 2024 10.0.0.5 %SYS-5-CONFIG_I: configured",
		"Mar 1 2024 10.0.0.1 %SYS-9-X: odd",
	}

	run := func() models.CategoryReport {
		s := NewSet()
		for _, raw := range lines {
			l := classify(t, raw)
			s.For(l.Category).AddHistorical("202403", l)
			s.For(l.Category).AddLatest(l)
		}
		s.ResolveHostnames(devices)
		return s.For(models.CategoryTFN).Report("202403")
	}

	first, second := run(), run()
	if first.History[0] != second.History[0] {
		t.Errorf("history differs: %+v vs %+v", first.History[0], second.History[0])
	}
	if len(first.SeverityTypes) != len(second.SeverityTypes) {
		t.Fatalf("type counts differ")
	}
	for i := range first.SeverityTypes {
		if first.SeverityTypes[i] != second.SeverityTypes[i] {
			t.Errorf("type %d differs: %+v vs %+v", i, first.SeverityTypes[i], second.SeverityTypes[i])
		}
	}
	if first.History[0].Total != 2 || first.History[0].Sev0to3 != 1 {
		t.Errorf("unexpected TFN history %+v", first.History[0])
	}
}

func TestSetReports(t *testing.T) {
	s := NewSet()
	s.EnsureMonth("202401")
	s.EnsureMonth("202402")

	reports := s.Reports("202402")
	if len(reports) != len(models.Categories) {
		t.Fatalf("expected %d reports, got %d", len(models.Categories), len(reports))
	}
	for i, r := range reports {
		if r.Category != models.Categories[i] {
			t.Errorf("expected %s at %d, got %s", models.Categories[i], i, r.Category)
		}
		if len(r.History) != 2 {
			t.Errorf("%s: expected 2 months, got %d", r.Category, len(r.History))
		}
		if r.Latest.MonthKey != "202402" {
			t.Errorf("%s: expected latest month 202402, got %q", r.Category, r.Latest.MonthKey)
		}
	}
}
