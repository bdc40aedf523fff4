package entity

import "time"

// DateLayout is the calendar-date format used throughout the pickup dataset.
const DateLayout = "2006-01-02"

// Event is a single waste collection date from the pickup dataset.
// The dataset is generated out-of-band and read-only for this service.
type Event struct {
	Date        string `json:"date"`
	Type        string `json:"className"`
	Rescheduled bool   `json:"rescheduled,omitempty"`
}

// Day normalizes the event date to day granularity. Dataset entries are
// plain ISO dates, but full timestamps are tolerated.
func (e Event) Day() (string, error) {
	if t, err := time.Parse(DateLayout, e.Date); err == nil {
		return t.Format(DateLayout), nil
	}
	t, err := time.Parse(time.RFC3339, e.Date)
	if err != nil {
		return "", err
	}
	return t.Format(DateLayout), nil
}
