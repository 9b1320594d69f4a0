package quality

import (
	"math"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pqd/pqd-sdk/pkg/product"
)

// Color - the badge color a value is shown with
type Color string

// Badge colors
const (
	Success Color = "success"
	Warning Color = "warning"
	Danger  Color = "danger"
	Info    Color = "info"
)

const (
	// MaxGraphElements - the number of releases drawn in a quality chart
	MaxGraphElements = 20

	// NotAvailable - shown in place of a quality level when a product has no release
	NotAvailable = "Not Available"

	timestampLayout = "2. Jan 2006, 15:04"
	dateLayout      = "2. Jan 2006"
)

var hundred = decimal.NewFromInt(100)

// Badge - the color of a quality level
func Badge(level float64) Color {
	switch {
	case level >= 0.75:
		return Success
	case level >= 0.5:
		return Warning
	case level < 0.5:
		return Danger
	}
	return Info
}

// Round - the level rounded to 4 decimals, NaN stays NaN
func Round(level float64) float64 {
	if math.IsNaN(level) || math.IsInf(level, 0) {
		return level
	}
	rounded, _ := decimal.NewFromFloat(level).Round(4).Float64()
	return rounded
}

// Percent - the rounded level as a percentage, "75.12" for 0.75123
func Percent(level float64) string {
	if math.IsNaN(level) || math.IsInf(level, 0) {
		return NotAvailable
	}
	return decimal.NewFromFloat(level).Round(4).Mul(hundred).String()
}

// LatestLevel - the percentage label and color of the latest release of p
func LatestLevel(p *product.Product) (string, Color) {
	latest := p.LatestRelease()
	if latest == nil {
		return NotAvailable, Info
	}
	level := Round(latest.QualityLevel)
	return Percent(level) + "%", Badge(level)
}

// Rating - the letter of a sonarqube rating, 1 is A and anything above 4 is E
func Rating(rating float64) (string, Color) {
	switch rating {
	case 1:
		return "A", Success
	case 2:
		return "B", Success
	case 3:
		return "C", Warning
	case 4:
		return "D", Warning
	}
	return "E", Danger
}

// DebtTime - technical debt in minutes as "3h 20min", or "20min" under an hour
func DebtTime(minutes int64) string {
	hours := minutes / 60
	rest := minutes % 60
	if hours > 0 {
		return strconv.FormatInt(hours, 10) + "h " + strconv.FormatInt(rest, 10) + "min"
	}
	return strconv.FormatInt(rest, 10) + "min"
}

// Duration - milliseconds in the largest unit that keeps the value under its next step,
// one decimal: "12.5 sec", "3.0 min", "1.5 hrs", "2.0 days"
func Duration(ms float64) string {
	value := decimal.NewFromFloat(ms)

	seconds := value.Div(decimal.NewFromInt(1000)).Round(1)
	if seconds.LessThan(decimal.NewFromInt(60)) {
		return seconds.StringFixed(1) + " sec"
	}
	minutes := value.Div(decimal.NewFromInt(1000 * 60)).Round(1)
	if minutes.LessThan(decimal.NewFromInt(60)) {
		return minutes.StringFixed(1) + " min"
	}
	hours := value.Div(decimal.NewFromInt(1000 * 60 * 60)).Round(1)
	if hours.LessThan(decimal.NewFromInt(24)) {
		return hours.StringFixed(1) + " hrs"
	}
	return value.Div(decimal.NewFromInt(1000*60*60*24)).StringFixed(1) + " days"
}

// LeadTime - a jenkins job duration, "-" when the job reported none
func LeadTime(ms float64) string {
	if ms == 0 || math.IsNaN(ms) {
		return "-"
	}
	return Duration(ms)
}

// FailureRate - a change failure rate with two decimals, "12.50%"
func FailureRate(rate float64) string {
	if math.IsNaN(rate) || math.IsInf(rate, 0) {
		return NotAvailable
	}
	return decimal.NewFromFloat(rate).StringFixed(2) + "%"
}

// JenkinsStatus - the label of a jenkins job color
func JenkinsStatus(status string) (string, Color) {
	switch status {
	case "blue":
		return "Success", Success
	case "red":
		return "Failure", Danger
	}
	return "Unknown", Warning
}

// FormatTimestamp - epoch milliseconds as "2. Jan 2006, 15:04" in local time
func FormatTimestamp(ms int64) string {
	return time.UnixMilli(ms).Local().Format(timestampLayout)
}

// FormatDate - epoch milliseconds as "2. Jan 2006" in local time
func FormatDate(ms int64) string {
	return time.UnixMilli(ms).Local().Format(dateLayout)
}

// Series - the quality chart of a product
type Series struct {
	Labels []string  `json:"labels" yaml:"labels"`
	Values []float64 `json:"values" yaml:"values"`
}

// NewSeries - one point per release in release order, at most MaxGraphElements points
func NewSeries(releases []product.ReleaseInfo) Series {
	if len(releases) > MaxGraphElements {
		releases = releases[:MaxGraphElements]
	}
	series := Series{
		Labels: make([]string, 0, len(releases)),
		Values: make([]float64, 0, len(releases)),
	}
	for _, release := range releases {
		value := math.NaN()
		if level := Round(release.QualityLevel); !math.IsNaN(level) && !math.IsInf(level, 0) {
			value, _ = decimal.NewFromFloat(level).Mul(hundred).Float64()
		}
		series.Labels = append(series.Labels, FormatTimestamp(release.Created))
		series.Values = append(series.Values, value)
	}
	return series
}
