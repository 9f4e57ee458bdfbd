package models

import "time"

// NewsRecord represents one article card scraped from the homepage.
// A nil field means the value could not be found on the card.
type NewsRecord struct {
	Orden     *string `json:"orden"`
	Kicker    *string `json:"kicker"`
	Title     *string `json:"title"`
	Link      *string `json:"link"`
	ImageHref *string `json:"image_href"`
	ImageSrc  *string `json:"image_src"`
}

// Row is a NewsRecord plus the columns derived from its title, in the shape
// the warehouse table stores it
type Row struct {
	NewsRecord
	TitleWordCount        int        `json:"title_word_count"`
	TitleCharCount        int        `json:"title_char_count"`
	TitleCapitalizedWords string     `json:"title_capitalized_words"`
	ScrapedTimestamp      *time.Time `json:"scraped_timestamp,omitempty"`
}

// StringPtr returns a pointer to s
func StringPtr(s string) *string {
	return &s
}

// Deref returns the pointed-to string or "" for nil
func Deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
