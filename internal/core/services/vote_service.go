package services

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/vncsmyrnk/survey/internal/core/domain"
	"github.com/vncsmyrnk/survey/internal/core/ports"
)

type voteService struct {
	voteRepo    ports.VoteRepository
	fingerprint ports.Fingerprinter
	now         func() time.Time
}

func NewVoteService(voteRepo ports.VoteRepository, fingerprint ports.Fingerprinter) ports.VoteService {
	return &voteService{
		voteRepo:    voteRepo,
		fingerprint: fingerprint,
		now:         time.Now,
	}
}

// SubmitVote validates the input against the survey and appends it to the
// survey's store. Validation failures are returned before any I/O.
func (s *voteService) SubmitVote(ctx context.Context, survey domain.Survey, input ports.VoteInput) error {
	option := strings.TrimSpace(input.Option)
	if option == "" {
		return domain.ErrEmptyOption
	}
	if !survey.HasOption(option) {
		return domain.ErrInvalidOption
	}
	if input.AlreadyVoted {
		return domain.ErrAlreadyVoted
	}

	vote := &domain.Vote{
		SurveyID:  survey.ID,
		Time:      domain.NewTimestamp(s.now()),
		Option:    option,
		IPHash:    s.fingerprint.Fingerprint(input.RemoteAddr),
		UserAgent: truncateBytes(input.UserAgent, domain.MaxUserAgentSize),
	}
	if survey.EnableComment {
		if comment := strings.TrimSpace(input.Comment); comment != "" {
			comment = truncateRunes(comment, domain.MaxCommentRunes)
			vote.Comment = &comment
		}
	}

	return s.voteRepo.Append(ctx, vote)
}

func truncateRunes(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	n := 0
	for i := range s {
		if n == max {
			return s[:i]
		}
		n++
	}
	return s
}

// truncateBytes cuts s to at most max bytes without splitting a rune.
func truncateBytes(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
