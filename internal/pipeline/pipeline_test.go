package pipeline

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sjses80519/dcnSyslogAnalysis-project/internal/devices"
	"github.com/sjses80519/dcnSyslogAnalysis-project/internal/report"
	"github.com/sjses80519/dcnSyslogAnalysis-project/internal/source"
	"github.com/sjses80519/dcnSyslogAnalysis-project/pkg/models"
	"go.uber.org/zap"
)

const january = `Jan 5 2024 10.0.0.1 %LINK-3-UPDOWN: Interface Gi0/1 down
Jan 5 2024 10.0.1.1 %SYS-5-CONFIG_I: Configured from console
this line is not syslog
Jan 6 2024 10.0.0.9 %SEC-2-ALERT: intrusion
`

const february = `Feb 1 2024 10.0.0.1 %LINK-3-UPDOWN: Interface Gi0/1 down
Feb 1 2024 10.0.0.1 %LINK-3-UPDOWN: Interface Gi0/1 down
Feb 1 2024 10.0.0.1 %LINK-5-CHANGED: Interface Gi0/1 up
Feb 2 2024 10.0.0.1 %SYS-7-DEBUG: trace
Feb 2 2024 10.0.1.1 %OSPF-4-NBR: neighbor lost %INNER-EVT: detail

Feb 3 2024 10.0.0.9 %SEC-2-ALERT: intrusion
`

func setup(t *testing.T) (string, []source.MonthFile, *devices.Registry) {
	t.Helper()
	dir := t.TempDir()
	for name, content := range map[string]string{"202401.txt": january, "202402.txt": february} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}

	files, err := source.Discover(dir, "*.txt")
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}

	reg := devices.NewRegistry()
	reg.Add(models.CategoryTFN, "10.0.0.1", "core-sw1")
	reg.Add(models.CategoryTWM, "10.0.1.1", "edge-rt1")
	return dir, files, reg
}

func reportFor(t *testing.T, a *Analysis, c models.Category) models.CategoryReport {
	t.Helper()
	for _, r := range a.Reports {
		if r.Category == c {
			return r
		}
	}
	t.Fatalf("no report for %s", c)
	return models.CategoryReport{}
}

func TestAnalyze(t *testing.T) {
	_, files, reg := setup(t)
	p := New(Options{}, source.NewReader(0, zap.NewNop()), zap.NewNop())

	a, err := p.Analyze(files, reg)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	if a.Latest.MonthKey != "202402" {
		t.Errorf("expected latest 202402, got %s", a.Latest.MonthKey)
	}
	// the noise line in January and the blank line in February
	if a.Rejected != 2 {
		t.Errorf("expected 2 rejected lines, got %d", a.Rejected)
	}

	tfn := reportFor(t, a, models.CategoryTFN)
	if len(tfn.History) != 2 {
		t.Fatalf("expected 2 months of history, got %d", len(tfn.History))
	}
	jan, feb := tfn.History[0], tfn.History[1]
	if jan.MonthKey != "202401" || jan.Sev0to3 != 1 || jan.Total != 1 {
		t.Errorf("unexpected January counter %+v", jan)
	}
	if feb.Sev0to3 != 2 || feb.Sev4to6 != 1 || feb.Total != 4 {
		t.Errorf("unexpected February counter %+v", feb)
	}
	if tfn.Latest != feb {
		t.Errorf("latest counter %+v should match February history %+v", tfn.Latest, feb)
	}

	if len(tfn.Details) != 2 {
		t.Fatalf("expected 2 TFN details, got %d", len(tfn.Details))
	}
	for _, d := range tfn.Details {
		if d.Hostname != "core-sw1" {
			t.Errorf("expected core-sw1, got %q", d.Hostname)
		}
		if !strings.HasPrefix(d.RawMessage, "Feb") {
			t.Errorf("detail from wrong month: %q", d.RawMessage)
		}
	}
	if len(tfn.Duplicates) != 1 || tfn.Duplicates[0].Count != 2 {
		t.Errorf("unexpected TFN duplicates %+v", tfn.Duplicates)
	}

	twm := reportFor(t, a, models.CategoryTWM)
	if len(twm.Details) != 0 {
		t.Errorf("severity 4 lines should not create details, got %d", len(twm.Details))
	}
	if len(twm.SeverityTypes) != 1 || twm.SeverityTypes[0].LogType != "%INNER-EVT:" {
		t.Errorf("unexpected TWM types %+v", twm.SeverityTypes)
	}

	unknown := reportFor(t, a, models.CategoryUnknown)
	if len(unknown.Details) != 1 || unknown.Details[0].Hostname != "N/A" {
		t.Errorf("unexpected UNKNOWN details %+v", unknown.Details)
	}
	if unknown.History[0].Sev0to3 != 1 || unknown.History[1].Sev0to3 != 1 {
		t.Errorf("unexpected UNKNOWN history %+v", unknown.History)
	}
}

func TestAnalyzeNoFiles(t *testing.T) {
	p := New(Options{}, source.NewReader(0, zap.NewNop()), zap.NewNop())
	if _, err := p.Analyze(nil, devices.NewRegistry()); !errors.Is(err, source.ErrNoSelection) {
		t.Errorf("expected ErrNoSelection, got %v", err)
	}
}

func TestRunWritesCategoryFolders(t *testing.T) {
	dir, files, reg := setup(t)
	out := filepath.Join(dir, "out")

	p := New(Options{
		OutputDir:    out,
		FolderPrefix: "DCN_Syslog",
		Report:       report.Options{MaxRows: report.MaxExcelRows},
	}, source.NewReader(0, zap.NewNop()), zap.NewNop())
	p.now = func() time.Time { return time.Date(2024, 3, 1, 8, 30, 0, 0, time.UTC) }

	res, err := p.Run(files, reg)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.RunID == "" {
		t.Error("expected run id")
	}
	if len(res.Manifests) != len(models.Categories) {
		t.Fatalf("expected %d manifests, got %d", len(models.Categories), len(res.Manifests))
	}

	for _, c := range models.Categories {
		want := filepath.Join(out, "DCN_Syslog_"+string(c)+"_20240301083000")
		if res.Folders[c] != want {
			t.Errorf("%s: expected folder %s, got %s", c, want, res.Folders[c])
		}
		for _, name := range []string{"severityCount_02.csv", "logAnalysis_02.csv", "logCount_02.csv", "logAnalysis_simple_02.csv", report.ManifestFile} {
			if _, err := os.Stat(filepath.Join(want, name)); err != nil {
				t.Errorf("%s: missing %s", c, name)
			}
		}
	}

	m, err := report.LoadManifest(res.Folders[models.CategoryTFN])
	if err != nil {
		t.Fatalf("LoadManifest: %v", err)
	}
	if m.RunID != res.RunID || m.LatestMonth != "202402" || len(m.Files) != 2 {
		t.Errorf("unexpected manifest %+v", m)
	}
}

func TestFolderName(t *testing.T) {
	if got := FolderName("DCN_Syslog", models.CategoryUnknown, "20240301000000"); got != "DCN_Syslog_UNKNOWN_20240301000000" {
		t.Errorf("got %q", got)
	}
}
