package goodreads

import (
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"

	"github.com/bookblend/bookblend/internal/blend"
)

type rssFeed struct {
	Channel struct {
		Items []rssItem `xml:"item"`
	} `xml:"channel"`
}

type rssItem struct {
	Title         string `xml:"title"`
	AuthorName    string `xml:"author_name"`
	UserShelves   string `xml:"user_shelves"`
	BookID        string `xml:"book_id"`
	UserRating    string `xml:"user_rating"`
	BookPublished string `xml:"book_published"`
	Book          struct {
		ID       string `xml:"id,attr"`
		NumPages string `xml:"num_pages"`
	} `xml:"book"`
}

// parseShelfFeed decodes one page of the review-list RSS feed into raw book
// records. Feed quirks handled here: user_shelves is empty for plain read
// books, user_rating 0 means unrated, and the nested <book> element is the
// authoritative source for the book id and page count.
func parseShelfFeed(data []byte) ([]blend.RawBook, error) {
	var feed rssFeed
	if err := xml.Unmarshal(data, &feed); err != nil {
		return nil, fmt.Errorf("parse shelf feed: %w", err)
	}

	records := make([]blend.RawBook, 0, len(feed.Channel.Items))
	for _, item := range feed.Channel.Items {
		bookID := strings.TrimSpace(item.Book.ID)
		if bookID == "" {
			bookID = strings.TrimSpace(item.BookID)
		}
		author := collapseSpaces(item.AuthorName)

		rec := blend.RawBook{
			BookID:   bookID,
			AuthorID: authorSlug(author),
			Title:    strings.TrimSpace(item.Title),
			Author:   author,
			Shelves:  parseShelves(item.UserShelves),
		}
		if v, err := strconv.Atoi(strings.TrimSpace(item.UserRating)); err == nil && v > 0 {
			rating := float64(v)
			rec.Rating = &rating
		}
		if v, err := strconv.Atoi(strings.TrimSpace(item.Book.NumPages)); err == nil && v > 0 {
			pages := v
			rec.Pages = &pages
		}
		if v, err := strconv.Atoi(strings.TrimSpace(item.BookPublished)); err == nil && v != 0 {
			year := v
			rec.PubYear = &year
		}
		records = append(records, rec)
	}
	return records, nil
}

// parseShelves splits the comma-separated user_shelves value. The feed omits
// the field entirely for books only on the read shelf.
func parseShelves(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return []string{blend.ShelfRead}
	}
	var shelves []string
	for _, s := range strings.Split(raw, ",") {
		if s = strings.TrimSpace(s); s != "" {
			shelves = append(shelves, s)
		}
	}
	return shelves
}

// authorSlug derives a stable author identifier from the display name. The
// feed carries no numeric author id, so a normalized name slug is the best
// identity available; it is stable across both readers' feeds.
func authorSlug(name string) string {
	var b strings.Builder
	prevDash := true
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			prevDash = false
		default:
			if !prevDash {
				b.WriteByte('-')
				prevDash = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
