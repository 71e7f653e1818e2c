package services

import (
	"context"
	"sync"

	"github.com/vncsmyrnk/survey/internal/core/domain"
)

type memoryRepo struct {
	mu        sync.Mutex
	votes     []domain.Vote
	appendErr error
	readErr   error
}

func (r *memoryRepo) Append(_ context.Context, vote *domain.Vote) error {
	if r.appendErr != nil {
		return r.appendErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.votes = append(r.votes, *vote)
	return nil
}

func (r *memoryRepo) ReadAll(_ context.Context, surveyID string) ([]domain.Vote, error) {
	if r.readErr != nil {
		return nil, r.readErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Vote
	for _, v := range r.votes {
		if v.SurveyID == surveyID {
			out = append(out, v)
		}
	}
	return out, nil
}

type staticFingerprint string

func (f staticFingerprint) Fingerprint(string) string { return string(f) }

func strPtr(s string) *string { return &s }
