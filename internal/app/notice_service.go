// internal/app/notice_service.go
package app

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"cafe_notice_bot/internal/domain/notice"
	"cafe_notice_bot/internal/infra/board"
	"cafe_notice_bot/internal/infra/metrics"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// ErrDelivery wraps a notifier failure. The cursor is not advanced when it occurs, so the
// whole batch is offered again on the next run.
var ErrDelivery = errors.New("notice delivery failed")

// NoticeService runs the polling pipeline.
type NoticeService interface {
	// PollOnce performs one run: read cursor, scrape, deliver oldest-first, advance cursor.
	PollOnce(ctx context.Context) (RunReport, error)
	// LastRun returns the report of the most recent finished run, if any.
	LastRun() (RunReport, bool)
}

// PageFetcher returns the decoded text of a page.
type PageFetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// RunReport summarises one run for logs and the /status command.
type RunReport struct {
	RunID          string
	StartedAt      time.Time
	FinishedAt     time.Time
	PreviousCursor int64
	HadCursor      bool
	NewCursor      int64
	Delivered      int
	Err            error
}

// NoticeServiceImpl implements the NoticeService interface.
type NoticeServiceImpl struct {
	fetcher  PageFetcher
	board    board.Board
	cursors  notice.CursorRepository
	notifier notice.Notifier
	logger   *logrus.Entry
	now      func() time.Time

	mu      sync.Mutex
	last    RunReport
	hasLast bool
}

func NewNoticeServiceImpl(
	fetcher PageFetcher,
	b board.Board,
	cursors notice.CursorRepository,
	notifier notice.Notifier,
	logger *logrus.Entry,
) *NoticeServiceImpl {
	return &NoticeServiceImpl{
		fetcher:  fetcher,
		board:    b,
		cursors:  cursors,
		notifier: notifier,
		logger:   logger,
		now:      time.Now,
	}
}

// PollOnce runs the pipeline once. Any error aborts the run; nothing is retried here.
func (s *NoticeServiceImpl) PollOnce(ctx context.Context) (RunReport, error) {
	report := RunReport{RunID: uuid.NewString(), StartedAt: s.now()}
	runLogger := s.logger.WithField("run_id", report.RunID)

	err := s.poll(ctx, runLogger, &report)
	report.FinishedAt = s.now()
	report.Err = err

	s.record(report)

	if err != nil {
		return report, err
	}
	runLogger.WithFields(logrus.Fields{
		"previous_cursor": report.PreviousCursor,
		"cursor":          report.NewCursor,
		"delivered":       report.Delivered,
	}).Info("Poll run finished")
	return report, nil
}

func (s *NoticeServiceImpl) poll(ctx context.Context, runLogger *logrus.Entry, report *RunReport) error {
	// 1. Cursor. A read failure stops the run before any network traffic.
	cursor, ok, err := s.cursors.GetLastDelivered(ctx)
	if err != nil {
		return fmt.Errorf("failed to load cursor: %w", err)
	}
	report.PreviousCursor, report.HadCursor, report.NewCursor = cursor, ok, cursor
	if !ok {
		runLogger.Info("No cursor stored yet; every notice on the first page counts as new")
	}

	// 2. Listing page, newest first, only rows above the cursor.
	page, err := s.fetcher.Fetch(ctx, s.board.ListingURL())
	if err != nil {
		return fmt.Errorf("failed to fetch listing: %w", err)
	}
	candidates, err := board.ParseListing(page, cursor, s.board.Origin)
	if err != nil {
		return fmt.Errorf("failed to parse listing: %w", err)
	}
	runLogger.WithFields(logrus.Fields{
		"cursor":     cursor,
		"candidates": len(candidates),
	}).Debug("Listing parsed")

	// 3. Detail pages for timestamps. One failure aborts the whole batch.
	for i := range candidates {
		detail, err := s.fetcher.Fetch(ctx, candidates[i].URL)
		if err != nil {
			return fmt.Errorf("failed to fetch notice %d: %w", candidates[i].Number, err)
		}
		ts, err := board.ParseDetail(detail)
		if err != nil {
			return fmt.Errorf("failed to parse notice %d: %w", candidates[i].Number, err)
		}
		candidates[i].Timestamp = ts
	}

	// 4. Nothing new: no delivery, no cursor write.
	if len(candidates) == 0 {
		return nil
	}

	// 5. Deliver oldest first.
	slices.SortStableFunc(candidates, func(a, b notice.Notice) int {
		return cmp.Compare(a.Number, b.Number)
	})
	newCursor := candidates[len(candidates)-1].Number
	for _, n := range candidates {
		if err := s.notifier.Notify(ctx, n.ToMessage()); err != nil {
			return fmt.Errorf("%w: notice %d: %w", ErrDelivery, n.Number, err)
		}
		report.Delivered++
		runLogger.WithField("notice", n.Number).Debug("Notice delivered")
	}

	// 6. Advance the cursor only after the full batch went out.
	if err := s.cursors.SetLastDelivered(ctx, newCursor); err != nil {
		return fmt.Errorf("failed to store cursor %d after delivering %d notices: %w", newCursor, report.Delivered, err)
	}
	report.NewCursor = newCursor
	return nil
}

func (s *NoticeServiceImpl) record(report RunReport) {
	result := metrics.ResultEmpty
	switch {
	case report.Err != nil:
		result = metrics.ResultFailed
	case report.Delivered > 0:
		result = metrics.ResultDelivered
	}
	metrics.ObserveRun(result, report.FinishedAt.Sub(report.StartedAt), report.Delivered)
	if report.Err == nil && (report.HadCursor || report.Delivered > 0) {
		metrics.SetCursor(report.NewCursor)
	}

	s.mu.Lock()
	s.last, s.hasLast = report, true
	s.mu.Unlock()
}

// LastRun returns the most recent run report.
func (s *NoticeServiceImpl) LastRun() (RunReport, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last, s.hasLast
}
