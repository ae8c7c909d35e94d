package report

import (
	"sort"

	"github.com/sjses80519/dcnSyslogAnalysis-project/internal/classifier"
	"github.com/sjses80519/dcnSyslogAnalysis-project/pkg/models"
)

// OtherLabel names the slice that absorbs devices beyond the top N
const OtherLabel = "Other"

// Slice is one wedge of a pie chart
type Slice struct {
	Label string
	Count int
}

// Pie is the device breakdown of one log type
type Pie struct {
	LogType string
	Slices  []Slice
}

// Total returns the sum of all slice counts
func (p Pie) Total() int {
	n := 0
	for _, s := range p.Slices {
		n += s.Count
	}
	return n
}

// PieData groups detail records by first-% log type and counts them per
// device hostname. Devices beyond topN are summed into an Other slice.
// Pies come in first-seen log type order.
func PieData(details []models.DetailRecord, topN int) []Pie {
	type deviceCount struct {
		device string
		count  int
	}

	var typeOrder []string
	byType := make(map[string][]deviceCount)
	index := make(map[string]map[string]int)

	for _, d := range details {
		logType := classifier.PrimaryLogType(d.RawMessage)
		device := d.Hostname
		if device == "" {
			device = d.DeviceIP
		}

		devs, ok := index[logType]
		if !ok {
			devs = make(map[string]int)
			index[logType] = devs
			typeOrder = append(typeOrder, logType)
		}
		if i, ok := devs[device]; ok {
			byType[logType][i].count++
			continue
		}
		devs[device] = len(byType[logType])
		byType[logType] = append(byType[logType], deviceCount{device: device, count: 1})
	}

	pies := make([]Pie, 0, len(typeOrder))
	for _, logType := range typeOrder {
		counts := byType[logType]
		sort.SliceStable(counts, func(i, j int) bool { return counts[i].count > counts[j].count })

		var slices []Slice
		other := 0
		for i, c := range counts {
			if topN > 0 && i >= topN {
				other += c.count
				continue
			}
			slices = append(slices, Slice{Label: c.device, Count: c.count})
		}
		if topN > 0 && len(counts) > topN {
			slices = append(slices, Slice{Label: OtherLabel, Count: other})
		}
		pies = append(pies, Pie{LogType: logType, Slices: slices})
	}
	return pies
}
