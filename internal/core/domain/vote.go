package domain

import (
	"fmt"
	"time"
)

// TimeLayout is the on-disk format of Vote.Time.
const TimeLayout = time.DateTime

const (
	MaxCommentRunes  = 2000
	MaxUserAgentSize = 200
)

// Vote is one persisted submission. Option is checked against the survey
// before the vote is written and never re-checked when read back.
type Vote struct {
	SurveyID  string    `json:"survey_id"`
	Time      Timestamp `json:"time"`
	Option    string    `json:"option"`
	Comment   *string   `json:"comment"`
	IPHash    string    `json:"ip_hash"`
	UserAgent string    `json:"ua"`
}

func (v Vote) HasComment() bool {
	return v.Comment != nil && *v.Comment != ""
}

// Timestamp is a local wall-clock time serialized as "YYYY-MM-DD HH:MM:SS".
type Timestamp struct {
	time.Time
}

func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t.Truncate(time.Second)}
}

func (t Timestamp) String() string {
	return t.Format(TimeLayout)
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.Format(TimeLayout) + `"`), nil
}

func (t *Timestamp) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		return nil
	}
	if len(b) < 2 || b[0] != '"' || b[len(b)-1] != '"' {
		return fmt.Errorf("timestamp must be a string, got %s", b)
	}
	parsed, err := time.ParseInLocation(TimeLayout, string(b[1:len(b)-1]), time.Local)
	if err != nil {
		return err
	}
	t.Time = parsed
	return nil
}
