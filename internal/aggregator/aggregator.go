package aggregator

import (
	"sort"
	"strconv"

	"github.com/sjses80519/dcnSyslogAnalysis-project/internal/classifier"
	"github.com/sjses80519/dcnSyslogAnalysis-project/pkg/models"
)

// HostnameResolver looks up the hostname of a device within a category
type HostnameResolver interface {
	Hostname(category models.Category, ip string) string
}

// Aggregator accumulates statistics for a single category
type Aggregator struct {
	category models.Category

	history map[string]*models.MonthlyCounter

	latest    models.MonthlyCounter
	typeIndex map[string]int
	types     []models.SeverityTypeCount
	details   []models.DetailRecord
}

// New creates an empty Aggregator for category
func New(category models.Category) *Aggregator {
	return &Aggregator{
		category:  category,
		history:   make(map[string]*models.MonthlyCounter),
		typeIndex: make(map[string]int),
	}
}

// Category returns the category this aggregator collects
func (a *Aggregator) Category() models.Category {
	return a.category
}

// EnsureMonth registers monthKey so it is reported even without lines
func (a *Aggregator) EnsureMonth(monthKey string) *models.MonthlyCounter {
	c, ok := a.history[monthKey]
	if !ok {
		c = &models.MonthlyCounter{MonthKey: monthKey}
		a.history[monthKey] = c
	}
	return c
}

// AddHistorical counts a line towards the month it was read from
func (a *Aggregator) AddHistorical(monthKey string, line models.ClassifiedLine) {
	a.EnsureMonth(monthKey).Add(line.Severity)
}

// AddLatest folds a line of the latest month into the type counts,
// detail records and the latest-month counter.
func (a *Aggregator) AddLatest(line models.ClassifiedLine) {
	sev := line.Severity

	if sev >= 0 && sev <= 6 {
		if i, ok := a.typeIndex[line.LogType]; ok {
			a.types[i].Count++
		} else {
			a.typeIndex[line.LogType] = len(a.types)
			a.types = append(a.types, models.SeverityTypeCount{
				LogType:  line.LogType,
				Severity: sev,
				Count:    1,
			})
		}
	}

	// 4-6 lines are counted but keep no detail row
	if sev >= 0 && sev <= 3 {
		a.details = append(a.details, models.DetailRecord{
			Severity:   sev,
			DeviceIP:   line.DeviceIP,
			LogType:    line.LogType,
			RawMessage: line.RawMessage,
		})
	}
	a.latest.Add(sev)
}

// ResolveHostnames fills the hostname of every detail record
func (a *Aggregator) ResolveHostnames(devices HostnameResolver) {
	for i := range a.details {
		a.details[i].Hostname = devices.Hostname(a.category, a.details[i].DeviceIP)
	}
}

// History returns the monthly counters ordered by numeric month key
func (a *Aggregator) History() []models.MonthlyCounter {
	out := make([]models.MonthlyCounter, 0, len(a.history))
	for _, c := range a.history {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool {
		return monthValue(out[i].MonthKey) < monthValue(out[j].MonthKey)
	})
	return out
}

// Latest returns the latest-month counter
func (a *Aggregator) Latest() models.MonthlyCounter {
	return a.latest
}

// SeverityTypes returns type counts in first-seen order
func (a *Aggregator) SeverityTypes() []models.SeverityTypeCount {
	out := make([]models.SeverityTypeCount, len(a.types))
	copy(out, a.types)
	return out
}

// Details returns the latest-month detail records in input order
func (a *Aggregator) Details() []models.DetailRecord {
	out := make([]models.DetailRecord, len(a.details))
	copy(out, a.details)
	return out
}

// Report snapshots the aggregator for the report emitters
func (a *Aggregator) Report(latestMonth string) models.CategoryReport {
	latest := a.latest
	latest.MonthKey = latestMonth
	details := a.Details()

	return models.CategoryReport{
		Category:      a.category,
		LatestMonth:   latestMonth,
		History:       a.History(),
		Latest:        latest,
		SeverityTypes: a.SeverityTypes(),
		Details:       details,
		Duplicates:    Collapse(details),
	}
}

// Collapse groups detail records by device IP, day and last %...: marker of
// the message. Groups keep first-occurrence order and carry the first record;
// their LogType uses the first-% rule.
func Collapse(details []models.DetailRecord) []models.DuplicateGroup {
	type key struct {
		ip, day, marker string
	}

	index := make(map[key]int)
	var groups []models.DuplicateGroup

	for _, d := range details {
		k := key{
			ip:     d.DeviceIP,
			day:    classifier.DayToken(d.RawMessage),
			marker: classifier.LastMarker(d.RawMessage),
		}
		if i, ok := index[k]; ok {
			groups[i].Count++
			continue
		}
		index[k] = len(groups)
		groups = append(groups, models.DuplicateGroup{
			DeviceIP: k.ip,
			Day:      k.day,
			Marker:   k.marker,
			LogType:  classifier.PrimaryLogType(d.RawMessage),
			Count:    1,
			First:    d,
		})
	}
	return groups
}

func monthValue(key string) int {
	n, err := strconv.Atoi(key)
	if err != nil {
		return -1
	}
	return n
}
