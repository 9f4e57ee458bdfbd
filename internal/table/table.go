// Package table turns a harvested batch into warehouse rows and derives the
// title metrics.
package table

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"sjsage522/newsworker/internal/models"
)

// Table is the tabular form of one harvest, rows in harvest order
type Table struct {
	Rows []models.Row
}

// Len returns the number of rows
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// Tabulate builds one row per record and fills in the derived title columns.
// A nil title is treated as the empty string.
func Tabulate(records []models.NewsRecord) *Table {
	rows := make([]models.Row, 0, len(records))
	for _, record := range records {
		title := models.Deref(record.Title)
		rows = append(rows, models.Row{
			NewsRecord:            record,
			TitleWordCount:        WordCount(title),
			TitleCharCount:        CharCount(title),
			TitleCapitalizedWords: CapitalizedWords(title),
		})
	}
	return &Table{Rows: rows}
}

// WordCount returns the number of whitespace-delimited tokens
func WordCount(s string) int {
	return len(strings.Fields(s))
}

// CharCount returns the length of s in code points
func CharCount(s string) int {
	return utf8.RuneCountInString(s)
}

// CapitalizedWords joins with commas the tokens of s that are title-cased
func CapitalizedWords(s string) string {
	var words []string
	for _, word := range strings.Fields(s) {
		if IsTitleCase(word) {
			words = append(words, word)
		}
	}
	return strings.Join(words, ",")
}

// IsTitleCase reports whether every cased run in word starts with an upper
// case letter followed only by lower case ones, and word has at least one
// cased letter. "Hello", "Post-Covid" and "U.S." qualify; "iGaming",
// "NFL" and "2024" do not.
func IsTitleCase(word string) bool {
	cased := false
	previousCased := false
	for _, r := range word {
		switch {
		case unicode.IsUpper(r) || unicode.IsTitle(r):
			if previousCased {
				return false
			}
			previousCased = true
			cased = true
		case unicode.IsLower(r):
			if !previousCased {
				return false
			}
			previousCased = true
			cased = true
		default:
			previousCased = false
		}
	}
	return cased
}
