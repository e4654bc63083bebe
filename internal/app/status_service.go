package app

import (
	"context"
	"fmt"

	"cafe_notice_bot/internal/domain/notice"
)

// ErrAdminNotAuthorized is returned when a non-admin asks for operator data.
var ErrAdminNotAuthorized = fmt.Errorf("performing user is not authorized as an admin")

// Status is the operator view of the relay.
type Status struct {
	Cursor     int64
	HasCursor  bool
	LastRun    RunReport
	HasLastRun bool
}

// StatusService answers operator queries. It only reads the cursor; writes stay with the pipeline.
type StatusService struct {
	cursors         notice.CursorRepository
	notices         NoticeService
	adminTelegramID int64
}

func NewStatusService(cursors notice.CursorRepository, notices NoticeService, adminID int64) *StatusService {
	return &StatusService{
		cursors:         cursors,
		notices:         notices,
		adminTelegramID: adminID,
	}
}

// Status returns the stored cursor and the last run report.
// A zero admin ID disables the query for everyone.
func (s *StatusService) Status(ctx context.Context, performingAdminID int64) (*Status, error) {
	if s.adminTelegramID == 0 || performingAdminID != s.adminTelegramID {
		return nil, ErrAdminNotAuthorized
	}

	cursor, ok, err := s.cursors.GetLastDelivered(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read cursor: %w", err)
	}

	st := &Status{Cursor: cursor, HasCursor: ok}
	st.LastRun, st.HasLastRun = s.notices.LastRun()
	return st, nil
}
