package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"cafe_notice_bot/internal/domain/notice"
	"cafe_notice_bot/internal/infra/board"
)

var testBoard = board.Board{Origin: "https://cafe.test/club", ClubID: 1, MenuID: 2}

type fakeFetcher struct {
	pages map[string]string
	errs  map[string]error
	calls []string
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{pages: map[string]string{}, errs: map[string]error{}}
}

func (f *fakeFetcher) Fetch(_ context.Context, url string) (string, error) {
	f.calls = append(f.calls, url)
	if err, ok := f.errs[url]; ok {
		return "", err
	}
	page, ok := f.pages[url]
	if !ok {
		return "", fmt.Errorf("unexpected fetch %s", url)
	}
	return page, nil
}

type fakeCursorRepo struct {
	id     int64
	ok     bool
	getErr error
	setErr error
	sets   []int64
}

func (r *fakeCursorRepo) GetLastDelivered(context.Context) (int64, bool, error) {
	return r.id, r.ok, r.getErr
}

func (r *fakeCursorRepo) SetLastDelivered(_ context.Context, id int64) error {
	r.sets = append(r.sets, id)
	if r.setErr != nil {
		return r.setErr
	}
	r.id, r.ok = id, true
	return nil
}

type fakeNotifier struct {
	sent   []notice.Message
	failAt int // 1-based call number that fails; 0 never fails
	calls  int
}

func (n *fakeNotifier) Notify(_ context.Context, msg notice.Message) error {
	n.calls++
	if n.failAt != 0 && n.calls == n.failAt {
		return errors.New("telegram: bad gateway")
	}
	n.sent = append(n.sent, msg)
	return nil
}

func (n *fakeNotifier) titles() []string {
	out := make([]string, 0, len(n.sent))
	for _, m := range n.sent {
		out = append(out, m.Title)
	}
	return out
}

func detailURL(id int64) string {
	return fmt.Sprintf("%s/read/%d", testBoard.Origin, id)
}

// serveBoard registers a listing with ids (newest first) and a detail page per id.
// Notice id is posted id minutes after 2023-11-03 09:00 KST.
func serveBoard(f *fakeFetcher, ids ...int64) {
	var rows strings.Builder
	for _, id := range ids {
		fmt.Fprintf(&rows, `<tr><td class="td_article">
<div class="board-number"><div class="inner_number">%d</div></div>
<div class="board-list"><a href="/read/%d">notice %d</a></div></td></tr>`, id, id, id)
		f.pages[detailURL(id)] = fmt.Sprintf(`<span class="date">2023.11.03. %02d:%02d</span>`, 9+id/60, id%60)
	}
	f.pages[testBoard.ListingURL()] = `<div class="article-board"></div><div class="article-board"><table>` +
		rows.String() + `</table></div>`
}

func newTestService(f *fakeFetcher, repo *fakeCursorRepo, n *fakeNotifier) *NoticeServiceImpl {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return NewNoticeServiceImpl(f, testBoard, repo, n, logrus.NewEntry(logger))
}

func TestPollOnceFirstRunDeliversWholePage(t *testing.T) {
	t.Parallel()

	f := newFakeFetcher()
	serveBoard(f, 105, 104, 103)
	repo := &fakeCursorRepo{}
	n := &fakeNotifier{}

	report, err := newTestService(f, repo, n).PollOnce(context.Background())
	require.NoError(t, err)

	require.Equal(t, []string{"notice 103", "notice 104", "notice 105"}, n.titles())
	require.Equal(t, []int64{105}, repo.sets)
	require.Equal(t, 3, report.Delivered)
	require.False(t, report.HadCursor)
	require.Equal(t, int64(105), report.NewCursor)
	require.NotEmpty(t, report.RunID)

	first := n.sent[0]
	require.Equal(t, detailURL(103), first.URL)
	require.Equal(t, notice.AuthorLabel, first.Author)
	// 10:43 KST is 01:43 UTC.
	require.Equal(t, time.Date(2023, 11, 3, 1, 43, 0, 0, time.UTC), first.Timestamp)
}

func TestPollOnceSkipsAlreadyDelivered(t *testing.T) {
	t.Parallel()

	f := newFakeFetcher()
	serveBoard(f, 107, 106, 105)
	repo := &fakeCursorRepo{id: 105, ok: true}
	n := &fakeNotifier{}

	report, err := newTestService(f, repo, n).PollOnce(context.Background())
	require.NoError(t, err)

	require.Equal(t, []string{"notice 106", "notice 107"}, n.titles())
	require.Equal(t, []int64{107}, repo.sets)
	require.Equal(t, int64(105), report.PreviousCursor)
	require.Equal(t, int64(107), report.NewCursor)
	require.NotContains(t, f.calls, detailURL(105))
}

func TestPollOnceNothingNewLeavesCursor(t *testing.T) {
	t.Parallel()

	f := newFakeFetcher()
	serveBoard(f, 50)
	repo := &fakeCursorRepo{id: 50, ok: true}
	n := &fakeNotifier{}

	report, err := newTestService(f, repo, n).PollOnce(context.Background())
	require.NoError(t, err)

	require.Empty(t, n.sent)
	require.Empty(t, repo.sets)
	require.Equal(t, int64(50), report.NewCursor)
	require.Equal(t, []string{testBoard.ListingURL()}, f.calls)
}

func TestPollOnceDeliveryOrderStrictlyAscending(t *testing.T) {
	t.Parallel()

	f := newFakeFetcher()
	serveBoard(f, 31, 29, 28, 22, 21, 20)
	repo := &fakeCursorRepo{id: 20, ok: true}
	n := &fakeNotifier{}

	_, err := newTestService(f, repo, n).PollOnce(context.Background())
	require.NoError(t, err)
	require.Equal(t, []string{"notice 21", "notice 22", "notice 28", "notice 29", "notice 31"}, n.titles())
	require.Equal(t, []int64{31}, repo.sets)
}

func TestPollOnceCursorReadFailureSkipsNetwork(t *testing.T) {
	t.Parallel()

	f := newFakeFetcher()
	serveBoard(f, 3, 2, 1)
	repo := &fakeCursorRepo{getErr: errors.New("disk I/O error")}
	n := &fakeNotifier{}

	_, err := newTestService(f, repo, n).PollOnce(context.Background())
	require.Error(t, err)
	require.Empty(t, f.calls)
	require.Empty(t, n.sent)
}

func TestPollOnceListingFetchFailure(t *testing.T) {
	t.Parallel()

	f := newFakeFetcher()
	f.errs[testBoard.ListingURL()] = board.ErrMissingContentType
	repo := &fakeCursorRepo{id: 10, ok: true}
	n := &fakeNotifier{}

	svc := newTestService(f, repo, n)
	report, err := svc.PollOnce(context.Background())
	require.ErrorIs(t, err, board.ErrMissingContentType)
	require.Empty(t, n.sent)
	require.Empty(t, repo.sets)
	require.Equal(t, int64(10), repo.id)

	last, ok := svc.LastRun()
	require.True(t, ok)
	require.Equal(t, report.RunID, last.RunID)
	require.ErrorIs(t, last.Err, board.ErrMissingContentType)
}

func TestPollOnceDetailFailureAbortsBatch(t *testing.T) {
	t.Parallel()

	f := newFakeFetcher()
	serveBoard(f, 12, 11)
	f.pages[detailURL(11)] = `<span class="date">어제</span>`
	repo := &fakeCursorRepo{id: 10, ok: true}
	n := &fakeNotifier{}

	_, err := newTestService(f, repo, n).PollOnce(context.Background())
	var tsErr *board.TimestampParseError
	require.ErrorAs(t, err, &tsErr)
	require.Equal(t, "어제", tsErr.Raw)
	require.Empty(t, n.sent)
	require.Empty(t, repo.sets)
}

func TestPollOnceDeliveryFailureKeepsCursor(t *testing.T) {
	t.Parallel()

	f := newFakeFetcher()
	serveBoard(f, 13, 12, 11)
	repo := &fakeCursorRepo{id: 10, ok: true}
	n := &fakeNotifier{failAt: 2}

	svc := newTestService(f, repo, n)
	report, err := svc.PollOnce(context.Background())
	require.ErrorIs(t, err, ErrDelivery)
	require.Equal(t, []string{"notice 11"}, n.titles())
	require.Equal(t, 2, n.calls)
	require.Equal(t, 1, report.Delivered)
	require.Empty(t, repo.sets)

	// The next run offers the whole batch again, starting with the already-sent notice.
	n.failAt = 0
	_, err = svc.PollOnce(context.Background())
	require.NoError(t, err)
	require.Equal(t, []string{"notice 11", "notice 11", "notice 12", "notice 13"}, n.titles())
	require.Equal(t, []int64{13}, repo.sets)
}

func TestPollOnceCursorWriteFailure(t *testing.T) {
	t.Parallel()

	f := newFakeFetcher()
	serveBoard(f, 2, 1)
	repo := &fakeCursorRepo{setErr: errors.New("database is locked")}
	n := &fakeNotifier{}

	report, err := newTestService(f, repo, n).PollOnce(context.Background())
	require.Error(t, err)
	require.Len(t, n.sent, 2)
	require.Equal(t, []int64{2}, repo.sets)
	require.Zero(t, report.NewCursor)
}
