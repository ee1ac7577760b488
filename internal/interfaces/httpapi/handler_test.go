package httpapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/jonboulle/clockwork"
	"github.com/riskibarqy/tournament-desk/internal/domain/tournament"
	"github.com/riskibarqy/tournament-desk/internal/infrastructure/repository/memory"
	tournamentmock "github.com/riskibarqy/tournament-desk/internal/mocks/domain/tournament"
	"github.com/riskibarqy/tournament-desk/internal/platform/logging"
	"github.com/riskibarqy/tournament-desk/internal/platform/resilience"
	"github.com/riskibarqy/tournament-desk/internal/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type envelope[T any] struct {
	APIVersion string           `json:"apiVersion"`
	Data       T                `json:"data"`
	Error      *googleErrorBody `json:"error"`
}

func newTestRouter(t *testing.T, store tournament.Store) http.Handler {
	t.Helper()

	clock := clockwork.NewFakeClockAt(time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC))
	service := usecase.NewTournamentService(store, tournament.DefaultRules(), clock, logging.NewNop())
	return NewRouter(NewHandler(service, logging.NewNop()), logging.NewNop(), []string{"*"})
}

func doRequest(t *testing.T, router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) envelope[T] {
	t.Helper()

	var out envelope[T]
	require.NoError(t, sonic.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

const volleyballTeam = `{
	"game": "Volleyball",
	"team_name": "Spikers",
	"players": ["A", "B", "C", "D", "E", "F"],
	"substitutes": ["G", "H", "I", "J"]
}`

func TestHandler_Healthz(t *testing.T) {
	router := newTestRouter(t, memory.NewStore(tournament.Table{}))

	rec := doRequest(t, router, http.MethodGet, "/healthz", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody[map[string]string](t, rec)
	assert.Equal(t, "ok", body.Data["status"])
}

func TestHandler_ListGames(t *testing.T) {
	router := newTestRouter(t, memory.NewStore(tournament.Table{}))

	rec := doRequest(t, router, http.MethodGet, "/v1/games", "")

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody[[]gameRuleDTO](t, rec)
	require.Len(t, body.Data, 4)
	assert.Equal(t, gameRuleDTO{Game: "Kabaddi", Players: 7, Substitutes: 5}, body.Data[0])
	assert.Equal(t, gameRuleDTO{Game: "Volleyball", Players: 6, Substitutes: 4}, body.Data[3])
}

func TestHandler_GetGameRule(t *testing.T) {
	router := newTestRouter(t, memory.NewStore(tournament.Table{}))

	rec := doRequest(t, router, http.MethodGet, "/v1/games/Kho-Kho/rule", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, gameRuleDTO{Game: "Kho-Kho", Players: 9, Substitutes: 3}, decodeBody[gameRuleDTO](t, rec).Data)

	rec = doRequest(t, router, http.MethodGet, "/v1/games/Cricket/rule", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeBody[any](t, rec)
	require.NotNil(t, body.Error)
	assert.Equal(t, "UnknownGame", body.Error.Errors[0].Reason)
}

func TestHandler_RegisterTeamThenRecordMatch(t *testing.T) {
	store := memory.NewStore(tournament.Table{})
	router := newTestRouter(t, store)

	rec := doRequest(t, router, http.MethodPost, "/v1/teams", volleyballTeam)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	registered := decodeBody[teamRecordDTO](t, rec).Data
	assert.Equal(t, "Spikers", registered.Team)
	assert.Equal(t, "2026-03-14 09:30:00", registered.Timestamp)
	assert.Zero(t, registered.Played)

	rec = doRequest(t, router, http.MethodPost, "/v1/matches",
		`{"game":"Volleyball","team":"Spikers","goals_for":25,"goals_against":20}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decodeBody[teamRecordDTO](t, rec).Data
	assert.Equal(t, 1, updated.Played)
	assert.Equal(t, 1, updated.Won)
	assert.Equal(t, 3, updated.Points)
	assert.Equal(t, 5, updated.GoalDifference)

	rec = doRequest(t, router, http.MethodGet, "/v1/games/Volleyball/teams", "")
	require.Equal(t, http.StatusOK, rec.Code)
	standings := decodeBody[[]teamRecordDTO](t, rec).Data
	require.Len(t, standings, 1)
	assert.Equal(t, 3, standings[0].Points)

	assert.Equal(t, 2, store.Saves())
}

func TestHandler_RegisterTeamRejections(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantReason string
	}{
		{
			name:       "wrong player count",
			body:       `{"game":"Volleyball","team_name":"Spikers","players":["A"],"substitutes":["G","H","I","J"]}`,
			wantReason: "WrongPlayerCount",
		},
		{
			name:       "blank team name",
			body:       `{"game":"Volleyball","team_name":"  ","players":["A","B","C","D","E","F"],"substitutes":["G","H","I","J"]}`,
			wantReason: "EmptyTeamName",
		},
		{
			name:       "unknown field",
			body:       `{"game":"Volleyball","team":"Spikers"}`,
			wantReason: "invalidInput",
		},
		{
			name:       "missing game",
			body:       `{"team_name":"Spikers"}`,
			wantReason: "invalidInput",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := memory.NewStore(tournament.Table{})
			router := newTestRouter(t, store)

			rec := doRequest(t, router, http.MethodPost, "/v1/teams", tt.body)

			require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
			body := decodeBody[any](t, rec)
			require.NotNil(t, body.Error)
			assert.Equal(t, tt.wantReason, body.Error.Errors[0].Reason)
			assert.Zero(t, store.Saves())
		})
	}
}

func TestHandler_RecordMatchRejections(t *testing.T) {
	router := newTestRouter(t, memory.NewStore(tournament.Table{}))

	rec := doRequest(t, router, http.MethodPost, "/v1/matches",
		`{"game":"Volleyball","team":"Ghosts","goals_for":1,"goals_against":0}`)
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "TeamNotRegistered", decodeBody[any](t, rec).Error.Errors[0].Reason)

	rec = doRequest(t, router, http.MethodPost, "/v1/matches",
		`{"game":"Volleyball","team":"Ghosts","goals_for":-1,"goals_against":0}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "NegativeGoals", decodeBody[any](t, rec).Error.Errors[0].Reason)

	rec = doRequest(t, router, http.MethodPost, "/v1/matches",
		`{"game":"Volleyball","team":"Ghosts","goals_for":1}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalidInput", decodeBody[any](t, rec).Error.Errors[0].Reason)
}

func TestHandler_ExportTeams(t *testing.T) {
	router := newTestRouter(t, memory.NewStore(tournament.Table{}))
	require.Equal(t, http.StatusCreated, doRequest(t, router, http.MethodPost, "/v1/teams", volleyballTeam).Code)

	rec := doRequest(t, router, http.MethodGet, "/v1/teams/export", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="sports_tournament_dataset.csv"`, rec.Header().Get("Content-Disposition"))
	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "Timestamp,Game,Team"))
	assert.Contains(t, lines[1], "Spikers")
}

func TestHandler_StoreFailures(t *testing.T) {
	tests := []struct {
		name       string
		loadErr    error
		wantStatus int
	}{
		{name: "circuit open", loadErr: resilience.ErrCircuitOpen, wantStatus: http.StatusServiceUnavailable},
		{name: "unexpected", loadErr: errors.New("connection reset"), wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := tournamentmock.NewStore(t)
			store.On("LoadAll", mock.Anything).Return(tournament.Table{}, tt.loadErr).Once()
			router := newTestRouter(t, store)

			rec := doRequest(t, router, http.MethodGet, "/v1/teams", "")

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestRecoverPanic_WritesInternalError(t *testing.T) {
	handler := recoverPanic(logging.NewNop(), http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/teams", nil).WithContext(context.Background()))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
