package planner

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"studyplanner/models"
	"studyplanner/utils"
)

// ParseResult is the outcome of parsing a model answer. Skipped counts the
// non-empty lines that could not be classified as an entry or a day heading.
type ParseResult struct {
	Entries []models.PlanEntry
	Lines   []string
	Skipped int
}

var (
	// Leading list decoration: bullets, "1." / "1)" numbering, blockquotes.
	bulletPrefix = regexp.MustCompile(`^(?:[-*•>+]+\s*|\d+[.)]\s+)+`)

	dayNumber = regexp.MustCompile(`(?i)^day\s*(\d{1,2})\b`)
	weekday   = regexp.MustCompile(`(?i)^(monday|tuesday|wednesday|thursday|friday|saturday|sunday)\b`)

	timeRange = regexp.MustCompile(`(?i)\b(\d{1,2})(?::|\.|h)(\d{2})\s*(am\b|pm\b|a\.m\.|p\.m\.)?\s*(?:-|–|—|to\b|until\b)\s*(\d{1,2})(?::|\.|h)(\d{2})\s*(am\b|pm\b|a\.m\.|p\.m\.)?`)

	// Separators left around the description once markers are cut out.
	edgeSeparators = " \t|:;,-–—()[]*_"
)

// ParsePlan turns the model's free text into plan entries.
//
// Parsing is best effort by policy: a line is an entry when it carries a
// time range, a day (inline or from the latest day heading) and some text
// describing the activity. A day marker without a time range is a heading.
// Everything else is skipped. Only an answer with no entries at all is an
// error.
func ParsePlan(text string) (*ParseResult, error) {
	result := &ParseResult{}
	currentDay := ""

	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		result.Lines = append(result.Lines, line)

		line = cleanLine(line)
		if line == "" || isTableRule(line) {
			result.Skipped++
			continue
		}

		day, rest := splitDay(line)

		loc := timeRange.FindStringSubmatchIndex(rest)
		if loc == nil {
			if day != "" {
				currentDay = day
				continue
			}
			result.Skipped++
			continue
		}

		start, end, ok := normalizeRange(rest, loc)
		if !ok {
			result.Skipped++
			continue
		}

		if day == "" {
			day = currentDay
		}
		description := strings.Trim(rest[:loc[0]]+" "+rest[loc[1]:], edgeSeparators)
		description = strings.Join(strings.Fields(description), " ")
		if day == "" || description == "" {
			result.Skipped++
			continue
		}

		result.Entries = append(result.Entries, models.PlanEntry{
			Day:         day,
			Start:       start,
			End:         end,
			Description: description,
		})
	}

	if len(result.Entries) == 0 {
		return result, &utils.ParsingError{
			Lines:   len(result.Lines),
			Message: "no plan entries found in model response",
		}
	}
	return result, nil
}

// cleanLine drops markdown decoration that models like to add.
func cleanLine(line string) string {
	line = strings.Trim(line, "|")
	line = strings.NewReplacer("**", "", "__", "", "`", "").Replace(line)
	line = strings.TrimLeft(strings.TrimSpace(line), "# ")
	line = bulletPrefix.ReplaceAllString(line, "")
	return strings.TrimSpace(line)
}

func isTableRule(line string) bool {
	return strings.Trim(line, "|-: ") == ""
}

// splitDay extracts a leading day marker, returning its label and the
// remainder of the line. "Day 2 (Tuesday): ..." yields "Day 2".
func splitDay(line string) (string, string) {
	if m := dayNumber.FindStringSubmatchIndex(line); m != nil {
		n, _ := strconv.Atoi(line[m[2]:m[3]])
		rest := strings.TrimLeft(line[m[1]:], edgeSeparators)
		// Swallow a weekday that directly follows the number.
		if w := weekday.FindStringIndex(rest); w != nil {
			rest = strings.TrimLeft(rest[w[1]:], edgeSeparators)
		}
		return fmt.Sprintf("Day %d", n), rest
	}
	if m := weekday.FindStringIndex(line); m != nil {
		name := strings.ToLower(line[:m[1]])
		return strings.ToUpper(name[:1]) + name[1:], strings.TrimLeft(line[m[1]:], edgeSeparators)
	}
	return "", line
}

// normalizeRange converts the matched range to 24h "HH:MM" values.
func normalizeRange(s string, loc []int) (string, string, bool) {
	group := func(i int) string {
		if loc[2*i] < 0 {
			return ""
		}
		return s[loc[2*i]:loc[2*i+1]]
	}

	end, ok := clock(group(4), group(5), group(6))
	if !ok {
		return "", "", false
	}

	if group(3) != "" || group(6) == "" {
		start, ok := clock(group(1), group(2), group(3))
		return start, end, ok
	}

	// Only the end carries a meridiem. "9:00-11:00 PM" shares it, but
	// "11:00-1:00 PM" and "13:00-2:00 PM" read the start as a 24h clock.
	start, ok := clock(group(1), group(2), group(6))
	if !ok || start > end {
		if plain, plainOK := clock(group(1), group(2), ""); plainOK && plain <= end {
			return plain, end, true
		}
	}
	return start, end, ok
}

func clock(hh, mm, meridiem string) (string, bool) {
	h, err := strconv.Atoi(hh)
	if err != nil {
		return "", false
	}
	m, err := strconv.Atoi(mm)
	if err != nil || m > 59 {
		return "", false
	}

	switch strings.ToLower(strings.ReplaceAll(meridiem, ".", "")) {
	case "am":
		if h < 1 || h > 12 {
			return "", false
		}
		if h == 12 {
			h = 0
		}
	case "pm":
		if h < 1 || h > 12 {
			return "", false
		}
		if h != 12 {
			h += 12
		}
	default:
		if h > 23 {
			return "", false
		}
	}
	return fmt.Sprintf("%02d:%02d", h, m), true
}
