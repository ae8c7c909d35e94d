package report

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"

	"github.com/sjses80519/dcnSyslogAnalysis-project/internal/classifier"
	"github.com/sjses80519/dcnSyslogAnalysis-project/pkg/models"
)

// MaxExcelRows keeps each CSV within what Excel 2007+ opens in one sheet
const MaxExcelRows = 1048575

var (
	SeverityCountHeader = []string{"Syslog Type", "Severity", "Count"}
	LogCountHeader      = []string{"Month", "Sev0-3", "Sev4-6", "Total"}
	LogAnalysisHeader   = []string{"Severity", "Device IP", "Hostname", "Log Type", "Syslog Message"}
	SimpleHeader        = []string{"Duplicates", "Severity", "Device IP", "Hostname", "Log Type", "Syslog Message"}
)

var unsafeFileChars = regexp.MustCompile(`[\\/*?:"<>|%]`)

// SeverityRows ranks log types by count, highest first. Ties keep first-seen order.
func SeverityRows(types []models.SeverityTypeCount) [][]string {
	sorted := make([]models.SeverityTypeCount, len(types))
	copy(sorted, types)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Count > sorted[j].Count })

	rows := make([][]string, 0, len(sorted))
	for _, t := range sorted {
		rows = append(rows, []string{t.LogType, strconv.Itoa(t.Severity), strconv.Itoa(t.Count)})
	}
	return rows
}

// CountRows lists the monthly counters in the given order. With two or more
// months it appends the difference and percent difference of the last two.
func CountRows(history []models.MonthlyCounter) [][]string {
	rows := make([][]string, 0, len(history)+2)
	for _, c := range history {
		rows = append(rows, []string{c.MonthKey, strconv.Itoa(c.Sev0to3), strconv.Itoa(c.Sev4to6), strconv.Itoa(c.Total)})
	}
	if len(history) < 2 {
		return rows
	}

	prev, last := history[len(history)-2], history[len(history)-1]
	rows = append(rows,
		[]string{
			"Diff Last Two",
			strconv.Itoa(last.Sev0to3 - prev.Sev0to3),
			strconv.Itoa(last.Sev4to6 - prev.Sev4to6),
			strconv.Itoa(last.Total - prev.Total),
		},
		[]string{
			"Perc Diff",
			PercentDiff(prev.Sev0to3, last.Sev0to3),
			PercentDiff(prev.Sev4to6, last.Sev4to6),
			PercentDiff(prev.Total, last.Total),
		},
	)
	return rows
}

// PercentDiff formats the change from prev to cur as a percentage of prev.
// A zero prev yields 0.00%.
func PercentDiff(prev, cur int) string {
	if prev == 0 {
		return "0.00%"
	}
	return fmt.Sprintf("%.2f%%", float64(cur-prev)/float64(prev)*100)
}

// DetailRows renders detail records with the first-% log type
func DetailRows(details []models.DetailRecord) [][]string {
	rows := make([][]string, 0, len(details))
	for _, d := range details {
		rows = append(rows, []string{
			strconv.Itoa(d.Severity),
			d.DeviceIP,
			d.Hostname,
			classifier.PrimaryLogType(d.RawMessage),
			d.RawMessage,
		})
	}
	return rows
}

// SimpleRows renders duplicate groups
func SimpleRows(groups []models.DuplicateGroup) [][]string {
	rows := make([][]string, 0, len(groups))
	for _, g := range groups {
		rows = append(rows, []string{
			strconv.Itoa(g.Count),
			strconv.Itoa(g.First.Severity),
			g.First.DeviceIP,
			g.First.Hostname,
			g.LogType,
			g.First.RawMessage,
		})
	}
	return rows
}

// Chunk splits rows into pieces of at most size rows
func Chunk(rows [][]string, size int) [][][]string {
	if size <= 0 || len(rows) <= size {
		return [][][]string{rows}
	}
	var chunks [][][]string
	for start := 0; start < len(rows); start += size {
		end := start + size
		if end > len(rows) {
			end = len(rows)
		}
		chunks = append(chunks, rows[start:end])
	}
	return chunks
}

// CleanFileName strips characters that are not allowed in file names
func CleanFileName(name string) string {
	return unsafeFileChars.ReplaceAllString(name, "")
}

// FormatMonth renders a YYYYMM key as YYYY-MM
func FormatMonth(key string) string {
	if len(key) != 6 {
		return key
	}
	return key[:4] + "-" + key[4:]
}

// MonthSuffix returns the two-digit month of a YYYYMM key
func MonthSuffix(key string) string {
	if len(key) < 2 {
		return key
	}
	return key[len(key)-2:]
}
