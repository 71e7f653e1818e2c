package ports

import (
	"context"

	"github.com/vncsmyrnk/survey/internal/core/domain"
)

// VoteRepository is the append-only log of votes for each survey.
// Append must serialize concurrent writers; ReadAll takes no lock and
// returns records in append order, skipping lines it cannot parse.
type VoteRepository interface {
	Append(ctx context.Context, vote *domain.Vote) error
	ReadAll(ctx context.Context, surveyID string) ([]domain.Vote, error)
}

// Fingerprinter derives the duplicate-detection hash of a network address.
type Fingerprinter interface {
	Fingerprint(remoteAddr string) string
}

type VoteInput struct {
	Option       string
	Comment      string
	AlreadyVoted bool
	RemoteAddr   string
	UserAgent    string
}

type VoteService interface {
	SubmitVote(ctx context.Context, survey domain.Survey, input VoteInput) error
}
