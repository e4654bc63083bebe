package board

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"cafe_notice_bot/internal/domain/notice"
)

const (
	boardSelector  = ".article-board"
	rowSelector    = ".td_article"
	numberSelector = ".board-number .inner_number"
	titleSelector  = ".board-list a"
)

// ParseListing extracts the notices above cursor from the listing page, newest first.
// Timestamps are left zero; they live on the detail pages.
//
// The page has two .article-board tables: pinned announcements first, then the
// chronological board. Only the second is read. Iteration stops at the first row whose
// number is <= cursor, so older rows are never materialised.
func ParseListing(page string, cursor int64, origin string) ([]notice.Notice, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		return nil, fmt.Errorf("parse listing html: %w", err)
	}

	boards := doc.Find(boardSelector)
	if boards.Length() < 2 {
		return nil, &StructureMismatchError{
			Selector: boardSelector,
			Detail:   fmt.Sprintf("expected 2 boards, found %d", boards.Length()),
		}
	}

	var (
		out     []notice.Notice
		itemErr error
	)
	boards.Eq(1).Find(rowSelector).EachWithBreak(func(idx int, row *goquery.Selection) bool {
		number, err := rowNumber(idx, row)
		if err != nil {
			itemErr = err
			return false
		}
		if number <= cursor {
			return false
		}

		anchor := row.Find(titleSelector).First()
		if anchor.Length() == 0 {
			itemErr = &ItemFieldMissingError{Index: idx, Field: "title"}
			return false
		}
		title := nodeText(anchor)
		if title == "" {
			itemErr = &ItemFieldMissingError{Index: idx, Field: "title"}
			return false
		}
		href, ok := anchor.Attr("href")
		if !ok || strings.TrimSpace(href) == "" {
			itemErr = &ItemFieldMissingError{Index: idx, Field: "href"}
			return false
		}

		out = append(out, notice.Notice{
			Number: number,
			Title:  title,
			URL:    origin + strings.TrimSpace(href),
		})
		return true
	})
	if itemErr != nil {
		return nil, itemErr
	}
	return out, nil
}

var errEmptyNumber = errors.New("empty article number")

func rowNumber(idx int, row *goquery.Selection) (int64, error) {
	cell := row.Find(numberSelector)
	if cell.Length() == 0 {
		return 0, &ItemFieldMissingError{Index: idx, Field: "number"}
	}
	raw := nodeText(cell)
	if raw == "" {
		return 0, &ItemFieldMissingError{Index: idx, Field: "number", Err: errEmptyNumber}
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, &ItemFieldMissingError{Index: idx, Field: "number", Err: err}
	}
	return n, nil
}
