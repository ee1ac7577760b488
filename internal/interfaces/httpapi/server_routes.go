package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerGameRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/games", handler.ListGames)
	mux.HandleFunc("GET /v1/games/{game}/rule", handler.GetGameRule)
	mux.HandleFunc("GET /v1/games/{game}/teams", handler.ListTeamsByGame)
}

func registerTeamRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/teams", handler.ListTeams)
	mux.HandleFunc("GET /v1/teams/export", handler.ExportTeams)
	mux.HandleFunc("POST /v1/teams", handler.RegisterTeam)
	mux.HandleFunc("POST /v1/matches", handler.RecordMatch)
}
