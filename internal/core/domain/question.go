package domain

import "time"

const (
	MaxQuestionNameLength = 20
	MaxQuestionTextLength = 200

	// RecentWindow is how long after pub_date a question counts as recently published.
	RecentWindow = 24 * time.Hour
)

type Question struct {
	Name    string    `json:"question_name"`
	Text    string    `json:"question_text"`
	PubDate time.Time `json:"pub_date"`
	Tags    []string  `json:"tags,omitempty"`
	Choices []Choice  `json:"choices,omitempty"`
}

func (q Question) String() string {
	return q.Text
}

// WasPublishedRecently reports whether now falls within [PubDate, PubDate+RecentWindow].
// A question scheduled in the future is never recent.
func (q Question) WasPublishedRecently(now time.Time) bool {
	return !q.PubDate.After(now) && !q.PubDate.Before(now.Add(-RecentWindow))
}
