package ports

import (
	"context"

	"github.com/vncsmyrnk/survey/internal/core/domain"
)

type ResultService interface {
	GetResults(ctx context.Context, survey domain.Survey) (*domain.Result, error)
}
