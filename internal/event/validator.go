package event

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"
)

var (
	dateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	timeRe = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)
	linkRe = regexp.MustCompile(`^https?://`)
)

// Candidate is the set of fields the validator checks, already merged for
// edits (stored value overlaid with the requested changes).
type Candidate struct {
	Title       string
	Date        string
	Time        string
	Location    string
	Description string
	Link        string
	Category    string
}

// Validate checks every rule independently and returns all violations, so a
// submitter sees the full list in one round trip. An empty slice means the
// candidate is acceptable.
func Validate(c Candidate) []string {
	return validateAt(c, time.Now())
}

func validateAt(c Candidate, now time.Time) []string {
	var errs []string

	title := strings.TrimSpace(c.Title)
	if title == "" {
		errs = append(errs, "title is required")
	} else if utf8.RuneCountInString(title) > 100 {
		errs = append(errs, "title must be 100 characters or less")
	}

	if c.Date == "" {
		errs = append(errs, "date is required")
	} else if !dateRe.MatchString(c.Date) {
		errs = append(errs, "date must be in YYYY-MM-DD format")
	} else if d, err := time.ParseInLocation("2006-01-02", c.Date, now.Location()); err != nil {
		errs = append(errs, "date must be a valid calendar date")
	} else {
		today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		if d.Before(today) {
			errs = append(errs, "date cannot be in the past")
		} else if d.After(today.AddDate(2, 0, 0)) {
			errs = append(errs, "date cannot be more than 2 years in the future")
		}
	}

	if c.Time == "" {
		errs = append(errs, "time is required")
	} else if !timeRe.MatchString(c.Time) {
		errs = append(errs, "time must be in 24-hour HH:MM format")
	}

	if utf8.RuneCountInString(c.Description) > 1000 {
		errs = append(errs, "description must be 1000 characters or less")
	}

	if utf8.RuneCountInString(c.Location) > 200 {
		errs = append(errs, "location must be 200 characters or less")
	}

	if c.Category != "" && !ValidCategory(c.Category) {
		errs = append(errs, fmt.Sprintf("category must be one of: %s", strings.Join(Categories, ", ")))
	}

	if c.Link != "" && !linkRe.MatchString(c.Link) {
		errs = append(errs, "link must be an http(s) URL")
	}

	return errs
}

// ValidCategory reports whether cat is in the fixed category set.
func ValidCategory(cat string) bool {
	for _, c := range Categories {
		if c == cat {
			return true
		}
	}
	return false
}
