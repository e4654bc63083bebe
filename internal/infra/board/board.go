// Package board talks to the Naver Cafe announcement board: fetching pages and
// extracting notices from their HTML. Parsers are pure functions over page text so
// layout changes can be caught with fixtures.
package board

import "fmt"

const (
	DefaultOrigin = "https://cafe.naver.com/crkingdom"
	DefaultClubID = 30291108
	DefaultMenuID = 6
)

// Board addresses one cafe board.
type Board struct {
	Origin string
	ClubID int64
	MenuID int64
}

// Default returns the announcement board the bot relays.
func Default() Board {
	return Board{Origin: DefaultOrigin, ClubID: DefaultClubID, MenuID: DefaultMenuID}
}

// ListingURL is the first page of the board in list view.
func (b Board) ListingURL() string {
	return fmt.Sprintf("%s/ArticleList.nhn?search.clubid=%d&search.menuid=%d&search.boardtype=L",
		b.Origin, b.ClubID, b.MenuID)
}
