package http

import (
	"context"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vncsmyrnk/survey/internal/adapters/fingerprint"
	"github.com/vncsmyrnk/survey/internal/adapters/repository/ndjson"
	"github.com/vncsmyrnk/survey/internal/core/domain"
	"github.com/vncsmyrnk/survey/internal/core/ports"
	"github.com/vncsmyrnk/survey/internal/core/services"
)

var testSurvey = domain.Survey{
	ID:            "energy",
	Title:         "Energy",
	Question:      "Pick one",
	Options:       []string{"Solar", "Wind"},
	EnableComment: true,
}

type TestApp struct {
	Server  *httptest.Server
	DataDir string
}

func setupTestApp(t *testing.T) *TestApp {
	t.Helper()
	dir := t.TempDir()
	repo := ndjson.NewVoteRepository(dir)
	voteSvc := services.NewVoteService(repo, fingerprint.NewSaltedSHA256("test-salt"))
	resultSvc := services.NewResultService(repo)

	server := httptest.NewServer(NewHandler(NewSurveyHandler(testSurvey, voteSvc, resultSvc, false)))
	t.Cleanup(server.Close)

	return &TestApp{Server: server, DataDir: dir}
}

// newVisitor returns a client with its own cookie jar and form token.
func (app *TestApp) newVisitor(t *testing.T) (*http.Client, string) {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	client := &http.Client{Jar: jar}

	resp, err := client.Get(app.Server.URL + "/api/survey")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		ID      string   `json:"id"`
		Options []string `json:"options"`
		Token   string   `json:"csrf"`
		Voted   bool     `json:"voted"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Equal(t, testSurvey.ID, body.ID)
	require.Equal(t, testSurvey.Options, body.Options)
	require.False(t, body.Voted)
	require.NotEmpty(t, body.Token)

	return client, body.Token
}

func (app *TestApp) vote(t *testing.T, client *http.Client, payload map[string]string) *http.Response {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	resp, err := client.Post(app.Server.URL+"/api/survey/votes", "application/json", strings.NewReader(string(body)))
	require.NoError(t, err)
	resp.Body.Close()
	return resp
}

func (app *TestApp) results(t *testing.T) domain.Result {
	t.Helper()
	resp, err := http.Get(app.Server.URL + "/api/survey/results")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var result domain.Result
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	return result
}

func TestVoteFlow(t *testing.T) {
	app := setupTestApp(t)

	// Step 1: Vote
	client, token := app.newVisitor(t)
	resp := app.vote(t, client, map[string]string{"option": "Solar", "comment": "sunny", "csrf": token})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	// Step 2: Same visitor again is rejected
	resp = app.vote(t, client, map[string]string{"option": "Wind", "csrf": token})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	// Step 3: Results reflect only the first vote
	result := app.results(t)
	assert.Equal(t, 1, result.Total)
	assert.Equal(t, domain.OptionResult{Option: "Solar", Count: 1, Percentage: 100}, result.Options[0])
	assert.Equal(t, domain.OptionResult{Option: "Wind", Count: 0, Percentage: 0}, result.Options[1])
	require.Len(t, result.RecentComments, 1)
	assert.Equal(t, "sunny", result.RecentComments[0].Comment)
}

func TestVoteScenarioAcrossVisitors(t *testing.T) {
	app := setupTestApp(t)

	for _, opt := range []string{"Solar", "Wind", "Solar"} {
		client, token := app.newVisitor(t)
		resp := app.vote(t, client, map[string]string{"option": opt, "csrf": token})
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}

	result := app.results(t)
	assert.Equal(t, 3, result.Total)
	assert.Equal(t, 66.7, result.Options[0].Percentage)
	assert.Equal(t, 33.3, result.Options[1].Percentage)
}

func TestVoteMarksVisitor(t *testing.T) {
	app := setupTestApp(t)
	client, token := app.newVisitor(t)

	resp := app.vote(t, client, map[string]string{"option": "Wind", "csrf": token})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, err := client.Get(app.Server.URL + "/api/survey")
	require.NoError(t, err)
	defer resp.Body.Close()

	var body struct {
		Voted bool `json:"voted"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.True(t, body.Voted)
}

func TestVoteRejectsInvalidInput(t *testing.T) {
	app := setupTestApp(t)
	client, token := app.newVisitor(t)

	cases := map[string]map[string]string{
		"missing token":  {"option": "Solar"},
		"wrong token":    {"option": "Solar", "csrf": "forged"},
		"empty option":   {"option": "", "csrf": token},
		"unknown option": {"option": "Nuclear", "csrf": token},
	}
	for name, payload := range cases {
		t.Run(name, func(t *testing.T) {
			resp := app.vote(t, client, payload)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		})
	}

	assert.Equal(t, 0, app.results(t).Total)
}

func TestVoteWithoutTokenCookie(t *testing.T) {
	app := setupTestApp(t)
	_, token := app.newVisitor(t)

	// a client that never received the cookie cannot reuse someone else's token
	resp := app.vote(t, http.DefaultClient, map[string]string{"option": "Solar", "csrf": token})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestVoteFormPost(t *testing.T) {
	app := setupTestApp(t)
	client, token := app.newVisitor(t)

	form := url.Values{"option": {"Wind"}, "comment": {"breezy"}, "csrf": {token}}
	resp, err := client.PostForm(app.Server.URL+"/api/survey/votes", form)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	result := app.results(t)
	assert.Equal(t, 1, result.Options[1].Count)
}

type failingVoteService struct{}

func (failingVoteService) SubmitVote(context.Context, domain.Survey, ports.VoteInput) error {
	return fmt.Errorf("%w: survey_energy.ndjson: resource temporarily unavailable", domain.ErrLockFailure)
}

type failingResultService struct{}

func (failingResultService) GetResults(context.Context, domain.Survey) (*domain.Result, error) {
	return nil, fmt.Errorf("%w: permission denied", domain.ErrIO)
}

func TestStorageFailuresAreOpaque(t *testing.T) {
	h := NewSurveyHandler(testSurvey, failingVoteService{}, failingResultService{}, false)
	router := NewHandler(h)

	get := httptest.NewRecorder()
	router.ServeHTTP(get, httptest.NewRequest(http.MethodGet, "/api/survey", nil))
	cookies := get.Result().Cookies()
	require.NotEmpty(t, cookies)
	token := cookies[0].Value

	req := httptest.NewRequest(http.MethodPost, "/api/survey/votes", strings.NewReader(`{"option":"Solar","csrf":"`+token+`"}`))
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(cookies[0])
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"could not record vote"}`, rec.Body.String())
	assert.Empty(t, rec.Result().Cookies())

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/survey/results", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "permission denied")
}

func TestRemoteIP(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "192.0.2.10:5555"
	assert.Equal(t, "192.0.2.10", remoteIP(r))

	r.RemoteAddr = "192.0.2.10"
	assert.Equal(t, "192.0.2.10", remoteIP(r))
}
