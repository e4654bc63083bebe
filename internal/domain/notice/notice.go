// internal/domain/notice/notice.go
package notice

import "time"

// Notice represents one post on the announcement board.
// Number is the board's article number; it only ever grows, so it drives both ordering and dedup.
type Notice struct {
	Number    int64
	Title     string // line breaks preserved, trimmed
	URL       string // absolute link to the detail page
	Timestamp time.Time
}

// Message is the structured payload handed to a Notifier for one delivered notice.
type Message struct {
	Title     string
	URL       string
	Author    string
	Timestamp time.Time
}

// AuthorLabel is attached to every delivered message.
const AuthorLabel = "네이버 카페 공지사항"

// ToMessage builds the outbound message for n.
func (n Notice) ToMessage() Message {
	return Message{
		Title:     n.Title,
		URL:       n.URL,
		Author:    AuthorLabel,
		Timestamp: n.Timestamp,
	}
}
