package telegram

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"cafe_notice_bot/internal/app"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

// StatusReader is the part of app.StatusService the handlers use.
type StatusReader interface {
	Status(ctx context.Context, performingAdminID int64) (*app.Status, error)
}

// RegisterAdminHandlers registers handlers for admin commands.
func RegisterAdminHandlers(ctx context.Context, b *telebot.Bot, statusService StatusReader, baseLogger *logrus.Entry) {
	b.Handle("/status", statusHandler(ctx, statusService, baseLogger))
}

func statusHandler(ctx context.Context, statusService StatusReader, baseLogger *logrus.Entry) telebot.HandlerFunc {
	return func(c telebot.Context) error {
		handlerLogger := baseLogger.WithFields(logrus.Fields{
			"handler":   "/status",
			"sender_id": c.Sender().ID,
		})
		handlerLogger.Info("Command received")

		st, err := statusService.Status(ctx, c.Sender().ID)
		if err != nil {
			if errors.Is(err, app.ErrAdminNotAuthorized) {
				handlerLogger.Warn("Unauthorized access attempt")
				return c.Send("오류: 이 명령을 실행할 권한이 없습니다.")
			}
			handlerLogger.WithError(err).Error("Failed to read status")
			return c.Send(fmt.Sprintf("상태를 불러오는 중 오류가 발생했습니다: %s", err.Error()))
		}
		return c.Send(FormatStatus(st))
	}
}

// FormatStatus renders the operator view as plain text.
func FormatStatus(st *app.Status) string {
	var b strings.Builder
	if st.HasCursor {
		fmt.Fprintf(&b, "마지막 전달 번호: %d\n", st.Cursor)
	} else {
		b.WriteString("마지막 전달 번호: 없음 (아직 전달 기록 없음)\n")
	}

	if !st.HasLastRun {
		b.WriteString("최근 실행: 없음")
		return b.String()
	}
	run := st.LastRun
	fmt.Fprintf(&b, "최근 실행: %s (%s 소요)\n",
		run.FinishedAt.In(kst).Format("2006-01-02 15:04:05 KST"),
		run.FinishedAt.Sub(run.StartedAt).Round(time.Millisecond))
	fmt.Fprintf(&b, "실행 ID: %s\n", run.RunID)
	fmt.Fprintf(&b, "전달: %d건\n", run.Delivered)
	if run.Err != nil {
		fmt.Fprintf(&b, "결과: 실패 (%s)", run.Err.Error())
	} else {
		b.WriteString("결과: 성공")
	}
	return b.String()
}
