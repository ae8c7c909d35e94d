package classifier

import (
	"regexp"
	"strings"

	"github.com/sjses80519/dcnSyslogAnalysis-project/pkg/models"
)

// Unknown is used when a message carries no recognizable log type or day
const Unknown = "Unknown"

var (
	// %<vendor-code>-<digit>-<facility>:
	severityPattern = regexp.MustCompile(`%\S+-(\d)-\S+:`)
	// any %...: group, the last one in a line is the event code
	markerPattern = regexp.MustCompile(`%[^:]+:`)
	// first % token up to whitespace
	primaryPattern = regexp.MustCompile(`%\S+`)
)

// Categorizer resolves a device IP to its category
type Categorizer interface {
	Category(ip string) models.Category
}

// Classify parses one raw syslog line. It returns false for blank lines,
// lines without a severity marker and lines with fewer than four tokens.
func Classify(line string, devices Categorizer) (models.ClassifiedLine, bool) {
	line = strings.TrimSpace(line)
	if line == "" {
		return models.ClassifiedLine{}, false
	}

	m := severityPattern.FindStringSubmatch(line)
	if m == nil {
		return models.ClassifiedLine{}, false
	}
	severity := int(m[1][0] - '0')

	tokens := strings.Fields(line)
	if len(tokens) < 4 {
		return models.ClassifiedLine{}, false
	}
	ip := tokens[3]

	return models.ClassifiedLine{
		Severity:        severity,
		DeviceIP:        ip,
		Category:        devices.Category(ip),
		LogType:         LastMarker(line),
		RawMessage:      line,
		TimestampTokens: tokens[:2],
	}, true
}

// LastMarker returns the last %...: group of message, colon included
func LastMarker(message string) string {
	matches := markerPattern.FindAllString(message, -1)
	if len(matches) == 0 {
		return Unknown
	}
	return matches[len(matches)-1]
}

// PrimaryLogType returns the first %-prefixed token of message
func PrimaryLogType(message string) string {
	if t := primaryPattern.FindString(message); t != "" {
		return t
	}
	return Unknown
}

// DayToken joins the first two whitespace tokens of message
func DayToken(message string) string {
	tokens := strings.Fields(message)
	if len(tokens) < 2 {
		return Unknown
	}
	return tokens[0] + " " + tokens[1]
}
