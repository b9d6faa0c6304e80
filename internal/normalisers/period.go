package normalisers

import (
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/custodia-labs/reportrag/internal/core/domain"
)

// Report metadata keys set by the normalisers.
const (
	MetaSource  = "source"
	MetaTitle   = "title"
	MetaYear    = "year"
	MetaQuarter = "quarter"
	MetaPage    = "page"
)

var (
	yearPattern    = regexp.MustCompile(`(?:^|\D)((?:19|20)\d{2})(?:\D|$)`)
	quarterPattern = regexp.MustCompile(`(?i)(?:^|[^0-9])([1-4])\s*(?:/\s*4\s*)?(?:q|분기)|q\s*([1-4])(?:[^0-9]|$)`)
)

// ParsePeriod finds a publication year and quarter in s.
// Zero means not found.
func ParsePeriod(s string) (year, quarter int64) {
	if m := yearPattern.FindStringSubmatch(s); m != nil {
		year, _ = strconv.ParseInt(m[1], 10, 64)
	}
	if m := quarterPattern.FindStringSubmatch(s); m != nil {
		digit := m[1]
		if digit == "" {
			digit = m[2]
		}
		quarter, _ = strconv.ParseInt(digit, 10, 64)
	}
	return year, quarter
}

// ReportMetadata builds the metadata shared by every chunk of a report.
// The period is read from the file name first, then from the title.
func ReportMetadata(uri, title string) domain.Metadata {
	meta := domain.Metadata{
		MetaSource: domain.StringValue(filepath.Base(uri)),
	}
	if title != "" {
		meta[MetaTitle] = domain.StringValue(title)
	}

	name := strings.TrimSuffix(filepath.Base(uri), filepath.Ext(uri))
	year, quarter := ParsePeriod(name)
	tYear, tQuarter := ParsePeriod(title)
	if year == 0 {
		year = tYear
	}
	if quarter == 0 {
		quarter = tQuarter
	}

	if year != 0 {
		meta[MetaYear] = domain.IntValue(year)
	}
	if quarter != 0 {
		meta[MetaQuarter] = domain.IntValue(quarter)
	}
	return meta
}

// TitleFromURI derives a title from a file name.
func TitleFromURI(uri string) string {
	name := filepath.Base(uri)
	name = strings.TrimSuffix(name, filepath.Ext(name))
	name = strings.ReplaceAll(name, "_", " ")
	name = strings.ReplaceAll(name, "-", " ")
	return name
}

// NormaliseNewlines converts CRLF and CR line endings to LF and drops a UTF-8 BOM.
func NormaliseNewlines(s string) string {
	s = strings.TrimPrefix(s, "\ufeff")
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}
