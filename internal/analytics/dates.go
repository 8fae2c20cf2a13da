// Package analytics holds the per-row field derivation and the aggregations
// that feed every dashboard chart. Nothing in here returns an error: rows that
// do not parse carry nil derived fields and drop out of the views that need them.
package analytics

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"

	"hotel_insight/internal/domain"
)

// MonthYearLayout is the canonical interchange form of a parsed stay month.
const MonthYearLayout = "January 2006"

const nightUnit = "đêm"

// ExtractNights returns N for the first "<N> đêm" token pair, or nil.
func ExtractNights(stayDetails string) *int {
	words := strings.Fields(norm.NFC.String(stayDetails))
	for i := 0; i+1 < len(words); i++ {
		if !isASCIIDigits(words[i]) || words[i+1] != nightUnit {
			continue
		}
		n, err := strconv.Atoi(words[i])
		if err != nil {
			continue
		}
		return &n
	}
	return nil
}

func isASCIIDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

var englishMonths = map[string]time.Month{
	"january": time.January, "jan": time.January,
	"february": time.February, "feb": time.February,
	"march": time.March, "mar": time.March,
	"april": time.April, "apr": time.April,
	"may":  time.May,
	"june": time.June, "jun": time.June,
	"july": time.July, "jul": time.July,
	"august": time.August, "aug": time.August,
	"september": time.September, "sep": time.September, "sept": time.September,
	"october": time.October, "oct": time.October,
	"november": time.November, "nov": time.November,
	"december": time.December, "dec": time.December,
}

// month/year patterns, tried in order; each yields (month, year) submatches
// unless yearFirst is set.
var monthYearPatterns = []struct {
	re        *regexp.Regexp
	yearFirst bool
	named     bool
}{
	// "tháng 3 năm 2023", "tháng 03/2023", "tháng 3, 2023"
	{re: regexp.MustCompile(`tháng\s*(\d{1,2})\s*(?:năm|[/.,-])?\s*(\d{4})`)},
	// "march 2023", "mar. 2023", "march, 2023"
	{re: regexp.MustCompile(`\b(january|february|march|april|may|june|july|august|september|october|november|december|jan|feb|mar|apr|jun|jul|aug|sept|sep|oct|nov|dec)\.?,?\s+(\d{4})\b`), named: true},
	// "2023-03", "2023/03/15"
	{re: regexp.MustCompile(`(?:^|\D)(\d{4})[-/.](\d{1,2})(?:\D|$)`), yearFirst: true},
	// "03/2023", "15/03/2023"
	{re: regexp.MustCompile(`(?:^|\D)(\d{1,2})[-/.](\d{4})(?:\D|$)`)},
}

// ExtractMonthYear finds a month and year anywhere in the text and returns
// it in MonthYearLayout form, or nil when none is present.
func ExtractMonthYear(stayDetails string) *string {
	text := strings.ToLower(norm.NFC.String(stayDetails))
	if strings.TrimSpace(text) == "" {
		return nil
	}
	for _, p := range monthYearPatterns {
		for _, m := range p.re.FindAllStringSubmatch(text, -1) {
			monthStr, yearStr := m[1], m[2]
			if p.yearFirst {
				monthStr, yearStr = m[2], m[1]
			}
			var month time.Month
			if p.named {
				month = englishMonths[monthStr]
			} else if n, err := strconv.Atoi(monthStr); err == nil {
				month = time.Month(n)
			}
			year, err := strconv.Atoi(yearStr)
			if err != nil || month < time.January || month > time.December || year < 1900 || year > 2100 {
				continue
			}
			s := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).Format(MonthYearLayout)
			return &s
		}
	}
	return nil
}

// ToTimestamp re-parses a canonical month-year string into the first of that month.
func ToTimestamp(monthYear *string) *time.Time {
	if monthYear == nil {
		return nil
	}
	t, err := time.Parse(MonthYearLayout, *monthYear)
	if err != nil {
		return nil
	}
	return &t
}

// Enrich attaches the derived stay fields to one review.
func Enrich(r domain.Review) domain.EnrichedReview {
	my := ExtractMonthYear(r.StayDetails)
	return domain.EnrichedReview{
		Review:       r,
		NightsStayed: ExtractNights(r.StayDetails),
		MonthYear:    my,
		Date:         ToTimestamp(my),
	}
}
