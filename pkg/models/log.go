package models

// Category is the top-level device grouping a log line is reported under
type Category string

const (
	CategoryTFN     Category = "TFN"
	CategoryTWM     Category = "TWM"
	CategoryUnknown Category = "UNKNOWN"
)

// Categories lists every category in report order
var Categories = []Category{CategoryTFN, CategoryTWM, CategoryUnknown}

// DeviceRecord is one row of the device list
type DeviceRecord struct {
	IP       string   `json:"ip" yaml:"ip"`
	Hostname string   `json:"hostname" yaml:"hostname"`
	Category Category `json:"category" yaml:"category"`
}

// ClassifiedLine is a syslog line that passed classification
type ClassifiedLine struct {
	Severity        int      `json:"severity"`
	DeviceIP        string   `json:"device_ip"`
	Category        Category `json:"category"`
	LogType         string   `json:"log_type"`
	RawMessage      string   `json:"raw_message"`
	TimestampTokens []string `json:"timestamp_tokens,omitempty"`
}

// MonthlyCounter tracks line counts for one month of one category.
// Total includes severities 7-9, which fall in neither band.
type MonthlyCounter struct {
	MonthKey string `json:"month" yaml:"month"`
	Sev0to3  int    `json:"sev0_3" yaml:"sev0_3"`
	Sev4to6  int    `json:"sev4_6" yaml:"sev4_6"`
	Total    int    `json:"total" yaml:"total"`
}

// Add counts one line of the given severity
func (m *MonthlyCounter) Add(severity int) {
	switch {
	case severity >= 0 && severity <= 3:
		m.Sev0to3++
	case severity >= 4 && severity <= 6:
		m.Sev4to6++
	}
	m.Total++
}

// SeverityTypeCount counts latest-month occurrences of one log type.
// Severity is the severity of the first occurrence.
type SeverityTypeCount struct {
	LogType  string `json:"log_type" yaml:"log_type"`
	Severity int    `json:"severity" yaml:"severity"`
	Count    int    `json:"count" yaml:"count"`
}

// DetailRecord is a latest-month line with severity 0-3
type DetailRecord struct {
	Severity   int    `json:"severity"`
	DeviceIP   string `json:"device_ip"`
	Hostname   string `json:"hostname"`
	LogType    string `json:"log_type"`
	RawMessage string `json:"raw_message"`
}

// DuplicateGroup collapses detail records sharing device, day and log type
type DuplicateGroup struct {
	DeviceIP string       `json:"device_ip"`
	Day      string       `json:"day"`
	Marker   string       `json:"marker"`
	LogType  string       `json:"log_type"`
	Count    int          `json:"count"`
	First    DetailRecord `json:"first"`
}

// CategoryReport holds everything the report emitters need for one category
type CategoryReport struct {
	Category      Category            `json:"category"`
	LatestMonth   string              `json:"latest_month"`
	History       []MonthlyCounter    `json:"history"`
	Latest        MonthlyCounter      `json:"latest"`
	SeverityTypes []SeverityTypeCount `json:"severity_types"`
	Details       []DetailRecord      `json:"details"`
	Duplicates    []DuplicateGroup    `json:"duplicates"`
}
