package http

import (
	"errors"
	"net"
	"net/http"
	"strings"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog/hlog"

	"github.com/vncsmyrnk/survey/internal/core/domain"
	"github.com/vncsmyrnk/survey/internal/core/ports"
)

type SurveyHandler struct {
	survey  domain.Survey
	votes   ports.VoteService
	results ports.ResultService
	guard   visitorGuard
}

func NewSurveyHandler(survey domain.Survey, votes ports.VoteService, results ports.ResultService, cookieSecure bool) *SurveyHandler {
	return &SurveyHandler{
		survey:  survey,
		votes:   votes,
		results: results,
		guard:   newVisitorGuard(survey, cookieSecure),
	}
}

type surveyResponse struct {
	domain.Survey
	Token string `json:"csrf"`
	Voted bool   `json:"voted"`
}

type voteRequest struct {
	Option  string `json:"option"`
	Comment string `json:"comment"`
	Token   string `json:"csrf"`
}

func (h *SurveyHandler) GetSurvey(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, surveyResponse{
		Survey: h.survey,
		Token:  h.guard.issueToken(w, r),
		Voted:  h.guard.hasVoted(r),
	})
}

func (h *SurveyHandler) Vote(w http.ResponseWriter, r *http.Request) {
	req, err := decodeVoteRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.guard.checkToken(r, req.Token); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	input := ports.VoteInput{
		Option:       req.Option,
		Comment:      req.Comment,
		AlreadyVoted: h.guard.hasVoted(r),
		RemoteAddr:   remoteIP(r),
		UserAgent:    r.UserAgent(),
	}

	if err := h.votes.SubmitVote(r.Context(), h.survey, input); err != nil {
		if errors.Is(err, domain.ErrAlreadyVoted) {
			writeError(w, http.StatusConflict, err.Error())
			return
		}
		if errors.Is(err, domain.ErrValidation) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		hlog.FromRequest(r).Error().Err(err).Str("survey_id", h.survey.ID).Msg("failed to record vote")
		writeError(w, http.StatusInternalServerError, "could not record vote")
		return
	}

	h.guard.markVoted(w)
	writeJSON(w, http.StatusCreated, map[string]string{"status": "ok"})
}

func (h *SurveyHandler) GetResults(w http.ResponseWriter, r *http.Request) {
	result, err := h.results.GetResults(r.Context(), h.survey)
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Str("survey_id", h.survey.ID).Msg("failed to compute results")
		writeError(w, http.StatusInternalServerError, "could not load results")
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// decodeVoteRequest accepts a JSON body or a regular form post.
func decodeVoteRequest(r *http.Request) (voteRequest, error) {
	var req voteRequest
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		err := json.NewDecoder(r.Body).Decode(&req)
		return req, err
	}

	if err := r.ParseForm(); err != nil {
		return req, err
	}
	req.Option = r.PostFormValue("option")
	req.Comment = r.PostFormValue("comment")
	req.Token = r.PostFormValue("csrf")
	return req, nil
}

func remoteIP(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}
