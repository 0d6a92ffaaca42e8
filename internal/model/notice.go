package model

import (
	"time"
)

// NoticeFeedLimit bounds the dashboard list; the unread tally only covers these.
const NoticeFeedLimit = 10

type Notice struct {
	ID        string    `db:"id"`
	UserID    string    `db:"user_id"`
	AdminID   string    `db:"admin_id"`
	Title     string    `db:"title"`
	Message   string    `db:"message"`
	IsRead    bool      `db:"is_read"`
	CreatedAt time.Time `db:"created_at"`
}

// NoticeFeed is the recipient's most recent notices with a local unread count.
type NoticeFeed struct {
	Notices []*Notice
	Unread  int
}

func NewNoticeFeed(notices []*Notice) *NoticeFeed {
	feed := &NoticeFeed{Notices: notices}
	for _, n := range notices {
		if !n.IsRead {
			feed.Unread++
		}
	}
	return feed
}

// MarkRead flips one notice to read. The count only moves on a real flip
// and never drops below zero.
func (f *NoticeFeed) MarkRead(id string) bool {
	for _, n := range f.Notices {
		if n.ID != id {
			continue
		}
		if n.IsRead {
			return false
		}
		n.IsRead = true
		f.Unread = max(0, f.Unread-1)
		return true
	}
	return false
}
