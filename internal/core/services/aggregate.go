package services

import (
	"math"

	"github.com/vncsmyrnk/survey/internal/core/domain"
)

// Aggregate tallies votes against the survey's current option set.
//
// Options are reported in declaration order, including those without votes.
// Votes for options that are no longer part of the survey are left out of
// both the counts and the total. Recent comments are gathered newest first,
// at most domain.MaxRecentComments, and only when the survey accepts comments.
func Aggregate(survey domain.Survey, votes []domain.Vote) *domain.Result {
	index := make(map[string]int, len(survey.Options))
	options := make([]domain.OptionResult, len(survey.Options))
	for i, opt := range survey.Options {
		index[opt] = i
		options[i] = domain.OptionResult{Option: opt}
	}

	total := 0
	for _, v := range votes {
		i, ok := index[v.Option]
		if !ok {
			continue
		}
		options[i].Count++
		total++
	}

	for i := range options {
		options[i].Percentage = percentage(options[i].Count, total)
	}

	result := &domain.Result{
		SurveyID:       survey.ID,
		Title:          survey.Title,
		Question:       survey.Question,
		Options:        options,
		Total:          total,
		RecentComments: []domain.RecentComment{},
	}
	if survey.EnableComment {
		result.RecentComments = recentComments(votes, domain.MaxRecentComments)
	}
	return result
}

// percentage is rounded to one decimal place; zero when there are no votes.
func percentage(count, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(1000*float64(count)/float64(total)) / 10
}

func recentComments(votes []domain.Vote, max int) []domain.RecentComment {
	comments := []domain.RecentComment{}
	for i := len(votes) - 1; i >= 0 && len(comments) < max; i-- {
		v := votes[i]
		if !v.HasComment() {
			continue
		}
		comments = append(comments, domain.RecentComment{
			Option:  v.Option,
			Comment: *v.Comment,
			Time:    v.Time,
		})
	}
	return comments
}
