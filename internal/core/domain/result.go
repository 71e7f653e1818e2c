package domain

// MaxRecentComments bounds Result.RecentComments.
const MaxRecentComments = 5

type Result struct {
	SurveyID       string          `json:"survey_id"`
	Title          string          `json:"title"`
	Question       string          `json:"question"`
	Options        []OptionResult  `json:"options"`
	Total          int             `json:"total"`
	RecentComments []RecentComment `json:"recent_comments"`
}

type OptionResult struct {
	Option     string  `json:"option"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

type RecentComment struct {
	Option  string    `json:"option"`
	Comment string    `json:"comment"`
	Time    Timestamp `json:"time"`
}

// Option returns the tally for the given label.
func (r *Result) Option(label string) (OptionResult, bool) {
	for _, o := range r.Options {
		if o.Option == label {
			return o, true
		}
	}
	return OptionResult{}, false
}
