package graphql

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"yatube/internal/pkg"
	"yatube/internal/service"

	"github.com/graphql-go/graphql"
)

type gqlHandler struct {
	feed   *service.FeedService
	posts  *service.PostService
	groups *service.GroupService
	log    *slog.Logger

	schema graphql.Schema
}

type request struct {
	Query         string         `json:"query"`
	OperationName string         `json:"operationName"`
	Variables     map[string]any `json:"variables"`
}

func New(feed *service.FeedService, posts *service.PostService, groups *service.GroupService, log *slog.Logger) (http.Handler, error) {
	gh := &gqlHandler{
		feed:   feed,
		posts:  posts,
		groups: groups,
		log:    log,
	}

	if err := gh.initSchema(); err != nil {
		return nil, err
	}

	return gh, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (gh *gqlHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"msg": "method not allowed"})
		return
	}

	var req request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		gh.log.Debug("graphql decode", pkg.Err(err))
		writeJSON(w, http.StatusBadRequest, map[string]string{"msg": "invalid params"})
		return
	}
	if req.Query == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"msg": "query is required"})
		return
	}

	res := graphql.Do(graphql.Params{
		Context:        r.Context(),
		Schema:         gh.schema,
		RequestString:  req.Query,
		VariableValues: req.Variables,
		OperationName:  req.OperationName,
	})
	writeJSON(w, http.StatusOK, res)
}
