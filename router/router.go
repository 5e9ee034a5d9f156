// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/danielhkuo/eballot/middleware"
)

// Route patterns of the voting service, relative to the API base path
const (
	PatternHealth         = "GET /health"
	PatternRegister       = "POST /register"
	PatternLogin          = "POST /login"
	PatternDashboardStats = "GET /dashboard/stats"
	PatternElections      = "GET /elections"
	PatternCandidates     = "GET /elections/{id}/candidates"
	PatternVote           = "POST /vote"
	PatternResults        = "GET /elections/{id}/results"
)

// Route is one concrete request target
type Route struct {
	Method string
	Path   string // includes the query string, if any
}

// URL joins the route onto an API base such as http://localhost:5000/api
func (r Route) URL(base string) string {
	return strings.TrimRight(base, "/") + r.Path
}

func Health() Route         { return Route{http.MethodGet, "/health"} }
func Register() Route       { return Route{http.MethodPost, "/register"} }
func Login() Route          { return Route{http.MethodPost, "/login"} }
func DashboardStats() Route { return Route{http.MethodGet, "/dashboard/stats"} }
func Vote() Route           { return Route{http.MethodPost, "/vote"} }

// Elections lists elections, filtered by status when status is not empty
func Elections(status string) Route {
	path := "/elections"
	if status != "" {
		path += "?status=" + url.QueryEscape(status)
	}
	return Route{http.MethodGet, path}
}

func Candidates(electionID string) Route {
	return Route{http.MethodGet, "/elections/" + url.PathEscape(electionID) + "/candidates"}
}

func Results(electionID string) Route {
	return Route{http.MethodGet, "/elections/" + url.PathEscape(electionID) + "/results"}
}

// Handlers serves every route of the voting service
type Handlers interface {
	Health(w http.ResponseWriter, r *http.Request)
	Register(w http.ResponseWriter, r *http.Request)
	Login(w http.ResponseWriter, r *http.Request)
	DashboardStats(w http.ResponseWriter, r *http.Request)
	ListElections(w http.ResponseWriter, r *http.Request)
	ListCandidates(w http.ResponseWriter, r *http.Request)
	CastVote(w http.ResponseWriter, r *http.Request)
	Results(w http.ResponseWriter, r *http.Request)
}

// NewRouter mounts h under the route patterns
func NewRouter(h Handlers) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc(PatternHealth, middleware.WithLogging(h.Health))

	// Account
	mux.HandleFunc(PatternRegister, middleware.WithLogging(h.Register))
	mux.HandleFunc(PatternLogin, middleware.WithLogging(h.Login))

	// Authenticated reads
	mux.HandleFunc(PatternDashboardStats, middleware.WithLogging(h.DashboardStats))
	mux.HandleFunc(PatternElections, middleware.WithLogging(h.ListElections))
	mux.HandleFunc(PatternCandidates, middleware.WithLogging(h.ListCandidates))
	mux.HandleFunc(PatternResults, middleware.WithLogging(h.Results))

	// Voting
	mux.HandleFunc(PatternVote, middleware.WithLogging(h.CastVote))

	return mux
}
