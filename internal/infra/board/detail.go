package board

import (
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const (
	dateSelector = ".date"
	dateLayout   = "2006.01.02. 15:04"
)

// sourceZone is the fixed offset the cafe prints its dates in.
var sourceZone = time.FixedZone("KST", 9*60*60)

// ParseDetail extracts the post time from a detail page and returns it in UTC.
func ParseDetail(page string) (time.Time, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		return time.Time{}, fmt.Errorf("parse detail html: %w", err)
	}

	date := doc.Find(dateSelector).First()
	if date.Length() == 0 {
		return time.Time{}, &StructureMismatchError{Selector: dateSelector}
	}

	raw := nodeText(date)
	ts, err := time.ParseInLocation(dateLayout, raw, sourceZone)
	if err != nil {
		return time.Time{}, &TimestampParseError{Raw: raw, Err: err}
	}
	return ts.UTC(), nil
}
