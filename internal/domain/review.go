package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// TimestampLayout is the wire and import format of Review.Timestamp (local time).
const TimestampLayout = "2006-01-02 15:04:05"

// DateLayout is the format of the start_date / end_date query values.
const DateLayout = "2006-01-02"

type Review struct {
	ID        string
	Location  string
	Timestamp time.Time
	Body      string
	Sentiment *Sentiment // attached on read/create, never stored
}

// Sentiment is the four-component polarity score of a review body.
type Sentiment struct {
	Negative float64 `json:"neg"`
	Neutral  float64 `json:"neu"`
	Positive float64 `json:"pos"`
	Compound float64 `json:"compound"`
}

// RawReview is an unvalidated review as read from an import source.
type RawReview struct {
	Line      int
	ID        string
	Location  string
	Timestamp string
	Body      string
}

type reviewJSON struct {
	ID        string     `json:"ReviewId"`
	Location  string     `json:"Location"`
	Timestamp string     `json:"Timestamp"`
	Body      string     `json:"ReviewBody"`
	Sentiment *Sentiment `json:"sentiment,omitempty"`
}

func (r Review) MarshalJSON() ([]byte, error) {
	return json.Marshal(reviewJSON{
		ID:        r.ID,
		Location:  r.Location,
		Timestamp: r.Timestamp.Format(TimestampLayout),
		Body:      r.Body,
		Sentiment: r.Sentiment,
	})
}

func (r *Review) UnmarshalJSON(b []byte) error {
	var w reviewJSON
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	ts, err := ParseTimestamp(w.Timestamp)
	if err != nil {
		return err
	}
	*r = Review{ID: w.ID, Location: w.Location, Timestamp: ts, Body: w.Body, Sentiment: w.Sentiment}
	return nil
}

// ParseTimestamp parses a TimestampLayout value in the local time zone.
func ParseTimestamp(s string) (time.Time, error) {
	t, err := time.ParseInLocation(TimestampLayout, s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse timestamp %q: %w", s, err)
	}
	return t, nil
}

// ParseDate parses a DateLayout value as local midnight.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, time.Local)
}
