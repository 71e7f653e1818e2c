package ndjson

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"

	"github.com/vncsmyrnk/survey/internal/core/domain"
	"github.com/vncsmyrnk/survey/internal/core/ports"
)

const (
	dirMode  = 0o755
	fileMode = 0o644
)

// voteRepository keeps one newline-delimited JSON file per survey under dir.
//
// Appends hold an exclusive flock on the survey file while the line is
// written and synced. Reads take no lock: a line that is still being written
// has no terminating newline yet and is ignored, as is any line that does
// not decode.
type voteRepository struct {
	dir string
}

func NewVoteRepository(dir string) ports.VoteRepository {
	return &voteRepository{
		dir: dir,
	}
}

// FilePath returns the store file of a survey inside dir.
func FilePath(dir, surveyID string) string {
	return filepath.Join(dir, "survey_"+domain.SanitizeID(surveyID)+".ndjson")
}

func (r *voteRepository) Append(ctx context.Context, vote *domain.Vote) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	line, err := json.Marshal(vote)
	if err != nil {
		return fmt.Errorf("%w: failed to encode vote: %w", domain.ErrIO, err)
	}

	if err := r.ensureDir(); err != nil {
		return err
	}

	path := FilePath(r.dir, vote.SurveyID)
	f, err := os.OpenFile(path, os.O_RDWR|os.O_APPEND|os.O_CREATE, fileMode)
	if err != nil {
		return fmt.Errorf("%w: failed to open %s: %w", domain.ErrIO, path, err)
	}
	defer f.Close()

	if err := lockExclusive(f); err != nil {
		return fmt.Errorf("%w: %s: %w", domain.ErrLockFailure, path, err)
	}
	defer unlock(f)

	buf, err := terminate(f, line)
	if err != nil {
		return fmt.Errorf("%w: failed to inspect %s: %w", domain.ErrIO, path, err)
	}
	if _, err := f.Write(buf); err != nil {
		return fmt.Errorf("%w: failed to write %s: %w", domain.ErrIO, path, err)
	}
	if err := f.Sync(); err != nil {
		return fmt.Errorf("%w: failed to flush %s: %w", domain.ErrIO, path, err)
	}
	return nil
}

func (r *voteRepository) ReadAll(ctx context.Context, surveyID string) ([]domain.Vote, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path := FilePath(r.dir, surveyID)
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return []domain.Vote{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open %s: %w", domain.ErrIO, path, err)
	}
	defer f.Close()

	votes := []domain.Vote{}
	skipped := 0
	reader := bufio.NewReader(f)
	for {
		line, err := reader.ReadBytes('\n')
		if errors.Is(err, io.EOF) {
			// whatever is left has no newline yet
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: failed to read %s: %w", domain.ErrIO, path, err)
		}

		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			continue
		}

		var vote domain.Vote
		if err := json.Unmarshal(line, &vote); err != nil {
			skipped++
			continue
		}
		votes = append(votes, vote)
	}

	if skipped > 0 {
		log.Debug().Str("path", path).Int("skipped", skipped).Msg("skipped malformed vote lines")
	}
	return votes, nil
}

func (r *voteRepository) ensureDir() error {
	if err := os.MkdirAll(r.dir, dirMode); err != nil {
		return fmt.Errorf("%w: failed to create %s: %w", domain.ErrStorageUnavailable, r.dir, err)
	}
	if err := writable(r.dir); err != nil {
		return fmt.Errorf("%w: %s is not writable: %w", domain.ErrStorageUnavailable, r.dir, err)
	}
	return nil
}

// terminate returns line with a trailing newline. If the file does not end
// in a newline (a previous writer died mid-line) a leading newline is added
// too, so the fragment stays on a line of its own.
func terminate(f *os.File, line []byte) ([]byte, error) {
	buf := make([]byte, 0, len(line)+2)

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	if size := info.Size(); size > 0 {
		last := make([]byte, 1)
		if _, err := f.ReadAt(last, size-1); err != nil {
			return nil, err
		}
		if last[0] != '\n' {
			buf = append(buf, '\n')
		}
	}

	buf = append(buf, line...)
	return append(buf, '\n'), nil
}
