package importer

import (
	"iter"
	"strings"

	"github.com/ZanzyTHEbar/troupe-insights/internal/analysis"
)

// Column positions of an activity row. Header names are never inspected.
const (
	colName = iota
	colCategory
	colPrice
	colLove
	colLike
	colPass
	colWebsite
	colMaps
	colGroups
)

const missingPrice = "N/A"

// Rows lazily parses CSV text into scored activities. The first line is a
// header and is skipped. Each range over the returned sequence re-reads text.
func Rows(text string) iter.Seq[analysis.Activity] {
	return func(yield func(analysis.Activity) bool) {
		lines := strings.Split(strings.TrimSpace(text), "\n")
		if len(lines) < 2 {
			return
		}
		for _, line := range lines[1:] {
			if !yield(FromFields(SplitLine(strings.TrimSuffix(line, "\r")))) {
				return
			}
		}
	}
}

// ParseCSV collects Rows into a slice.
func ParseCSV(text string) []analysis.Activity {
	out := []analysis.Activity{}
	for a := range Rows(text) {
		out = append(out, a)
	}
	return out
}

// SplitLine splits one CSV line on commas outside double quotes. A doubled
// quote inside a quoted field yields a literal quote. Quoting never spans lines.
func SplitLine(line string) []string {
	var fields []string
	var cur strings.Builder
	inQuote := false

	for i := 0; i < len(line); i++ {
		ch := line[i]
		switch {
		case ch == '"':
			if inQuote && i+1 < len(line) && line[i+1] == '"' {
				cur.WriteByte('"')
				i++
			} else {
				inQuote = !inQuote
			}
		case ch == ',' && !inQuote:
			fields = append(fields, cur.String())
			cur.Reset()
		default:
			cur.WriteByte(ch)
		}
	}
	return append(fields, cur.String())
}

// FromFields maps positional fields onto an activity. Missing text becomes "",
// a missing price becomes "N/A" and unreadable counts become 0.
func FromFields(fields []string) analysis.Activity {
	field := func(i int) string {
		if i >= len(fields) {
			return ""
		}
		return unquote(fields[i])
	}

	price := field(colPrice)
	if price == "" {
		price = missingPrice
	}

	return analysis.Activity{
		Name:          field(colName),
		Category:      field(colCategory),
		Price:         price,
		LoveVotes:     leadingInt(field(colLove)),
		LikeVotes:     leadingInt(field(colLike)),
		PassVotes:     leadingInt(field(colPass)),
		WebsiteLink:   field(colWebsite),
		GoogleMapsURL: field(colMaps),
		GroupNames:    field(colGroups),
	}.WithScore()
}

// unquote drops one stray quote at either end, left behind by fields such as `"""x"""`.
func unquote(s string) string {
	s = strings.TrimPrefix(s, `"`)
	return strings.TrimSuffix(s, `"`)
}

// leadingInt reads an optionally signed run of digits after leading
// whitespace, ignoring whatever follows. "3.7" is 3, "2 votes" is 2, "x" is 0.
func leadingInt(s string) int {
	s = strings.TrimLeft(s, " \t\v\f\r\n")
	neg := false
	if s != "" && (s[0] == '-' || s[0] == '+') {
		neg = s[0] == '-'
		s = s[1:]
	}
	n := 0
	for i := 0; i < len(s) && s[i] >= '0' && s[i] <= '9'; i++ {
		if n > (1<<31)/10 {
			break
		}
		n = n*10 + int(s[i]-'0')
	}
	if neg {
		return -n
	}
	return n
}
