package domain

import (
	"fmt"
	"regexp"
	"strings"
)

var unsafeIDChars = regexp.MustCompile(`[^A-Za-z0-9_]+`)

// Survey is the immutable definition of one question and its options.
// Options keep their declared order; results are always reported in it.
type Survey struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	EnableComment bool     `json:"enable_comment"`
}

// StorageKey returns the survey id restricted to [A-Za-z0-9_].
func (s Survey) StorageKey() string {
	return SanitizeID(s.ID)
}

func SanitizeID(id string) string {
	return unsafeIDChars.ReplaceAllString(id, "")
}

func (s Survey) HasOption(option string) bool {
	for _, opt := range s.Options {
		if opt == option {
			return true
		}
	}
	return false
}

func (s Survey) Validate() error {
	if s.StorageKey() == "" {
		return fmt.Errorf("%w: id %q has no usable characters", ErrInvalidSurvey, s.ID)
	}
	if len(s.Options) == 0 {
		return fmt.Errorf("%w: at least one option is required", ErrInvalidSurvey)
	}

	seen := make(map[string]struct{}, len(s.Options))
	for _, opt := range s.Options {
		if strings.TrimSpace(opt) == "" {
			return fmt.Errorf("%w: options must not be empty", ErrInvalidSurvey)
		}
		if _, ok := seen[opt]; ok {
			return fmt.Errorf("%w: duplicate option %q", ErrInvalidSurvey, opt)
		}
		seen[opt] = struct{}{}
	}
	return nil
}
