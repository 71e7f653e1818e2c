package services

import (
	"context"
	"fmt"

	"github.com/vncsmyrnk/survey/internal/core/domain"
	"github.com/vncsmyrnk/survey/internal/core/ports"
)

type resultService struct {
	voteRepo ports.VoteRepository
}

func NewResultService(voteRepo ports.VoteRepository) ports.ResultService {
	return &resultService{
		voteRepo: voteRepo,
	}
}

// GetResults recomputes the survey's result from its full store.
func (s *resultService) GetResults(ctx context.Context, survey domain.Survey) (*domain.Result, error) {
	votes, err := s.voteRepo.ReadAll(ctx, survey.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to read votes for survey %s: %w", survey.ID, err)
	}
	return Aggregate(survey, votes), nil
}
