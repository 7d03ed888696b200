// Package relay serves a GraphQL schema over HTTP.
package relay

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"

	graphql "github.com/graph-gophers/graphql-go"
	"github.com/graph-gophers/graphql-go/errors"
	jsoniter "github.com/json-iterator/go"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/parser"
	"go.uber.org/zap"

	"github.com/graph-gophers/bookshelf/playground"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	ContentTypeJSON           = "application/json"
	ContentTypeGraphQL        = "application/graphql"
	ContentTypeFormURLEncoded = "application/x-www-form-urlencoded"
)

type Handler struct {
	Schema   *graphql.Schema
	Logger   *zap.Logger
	pretty   bool
	graphiql bool
}

type RequestOptions struct {
	Query         string                 `json:"query"`
	Variables     map[string]interface{} `json:"variables"`
	OperationName string                 `json:"operationName"`
}

// A workaround for getting `variables` as a JSON string
type requestOptionsCompatibility struct {
	Query         string `json:"query"`
	Variables     string `json:"variables"`
	OperationName string `json:"operationName"`
}

func getFromForm(values url.Values) *RequestOptions {
	query := values.Get("query")
	if query == "" {
		return nil
	}
	var variables map[string]interface{}
	if s := values.Get("variables"); s != "" {
		json.Unmarshal([]byte(s), &variables)
	}
	return &RequestOptions{
		Query:         query,
		Variables:     variables,
		OperationName: values.Get("operationName"),
	}
}

// NewRequestOptions parses an http.Request into GraphQL request options.
func NewRequestOptions(r *http.Request) *RequestOptions {
	if reqOpt := getFromForm(r.URL.Query()); reqOpt != nil {
		return reqOpt
	}

	if r.Method != http.MethodPost || r.Body == nil {
		return &RequestOptions{}
	}

	contentType := strings.TrimSpace(strings.Split(r.Header.Get("Content-Type"), ";")[0])

	switch contentType {
	case ContentTypeGraphQL:
		body, err := io.ReadAll(r.Body)
		if err != nil {
			return &RequestOptions{}
		}
		return &RequestOptions{
			Query: string(body),
		}
	case ContentTypeFormURLEncoded:
		if err := r.ParseForm(); err != nil {
			return &RequestOptions{}
		}
		if reqOpt := getFromForm(r.PostForm); reqOpt != nil {
			return reqOpt
		}
		return &RequestOptions{}

	case ContentTypeJSON:
		fallthrough
	default:
		var opts RequestOptions
		body, err := io.ReadAll(r.Body)
		if err != nil {
			return &opts
		}
		if err := json.Unmarshal(body, &opts); err != nil {
			// Probably `variables` was sent as a string instead of an object.
			var optsCompatible requestOptionsCompatibility
			json.Unmarshal(body, &optsCompatible)
			opts = RequestOptions{
				Query:         optsCompatible.Query,
				OperationName: optsCompatible.OperationName,
			}
			json.Unmarshal([]byte(optsCompatible.Variables), &opts.Variables)
		}
		return &opts
	}
}

// wantsGraphiQL reports whether r comes from a browser asking for a page rather than data.
func wantsGraphiQL(r *http.Request) bool {
	if r.Method != http.MethodGet {
		return false
	}
	accept := r.Header.Get("Accept")
	_, raw := r.URL.Query()["raw"]
	return !raw && !strings.Contains(accept, ContentTypeJSON) && strings.Contains(accept, "text/html")
}

// isMutation reports whether the operation selected by operationName is a mutation.
// Unparseable documents report false and are left to the schema to reject.
func isMutation(query, operationName string) bool {
	doc, err := parser.ParseQuery(&ast.Source{Input: query})
	if err != nil || doc == nil {
		return false
	}
	if operationName == "" {
		return len(doc.Operations) == 1 && doc.Operations[0].Operation == ast.Mutation
	}
	for _, op := range doc.Operations {
		if op.Name == operationName {
			return op.Operation == ast.Mutation
		}
	}
	return false
}

// ContextHandler executes the GraphQL request in r with the given context.
func (h *Handler) ContextHandler(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	opts := NewRequestOptions(r)

	if h.graphiql && wantsGraphiQL(r) {
		h.renderGraphiQL(w, r, opts)
		return
	}

	var response *graphql.Response
	if strings.TrimSpace(opts.Query) == "" {
		response = &graphql.Response{Errors: []*errors.QueryError{errors.Errorf("must provide query string")}}
		h.write(w, http.StatusBadRequest, response)
		return
	}

	if r.Method == http.MethodGet && isMutation(opts.Query, opts.OperationName) {
		w.Header().Set("Allow", http.MethodPost)
		response = &graphql.Response{Errors: []*errors.QueryError{errors.Errorf("can only perform a mutation operation from a POST request")}}
		h.write(w, http.StatusMethodNotAllowed, response)
		return
	}

	response = h.Schema.Exec(ctx, opts.Query, opts.OperationName, opts.Variables)
	h.write(w, http.StatusOK, response)
}

func (h *Handler) renderGraphiQL(w http.ResponseWriter, r *http.Request, opts *RequestOptions) {
	var variables string
	if len(opts.Variables) > 0 {
		if b, err := json.MarshalIndent(opts.Variables, "", "  "); err == nil {
			variables = string(b)
		}
	}
	if err := playground.Render(w, r.URL.Path, opts.Query, variables); err != nil {
		h.logger().Error("render graphiql", zap.Error(err))
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) write(w http.ResponseWriter, status int, response *graphql.Response) {
	var (
		responseJSON []byte
		err          error
	)
	if h.pretty {
		responseJSON, err = json.MarshalIndent(response, "", "  ")
	} else {
		responseJSON, err = json.Marshal(response)
	}
	if err != nil {
		h.logger().Error("encode response", zap.Error(err))
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", ContentTypeJSON)
	w.WriteHeader(status)
	w.Write(responseJSON)
}

func (h *Handler) logger() *zap.Logger {
	if h.Logger == nil {
		return zap.NewNop()
	}
	return h.Logger
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.ContextHandler(r.Context(), w, r)
}

type Config struct {
	Schema   *graphql.Schema
	Logger   *zap.Logger
	Pretty   bool
	GraphiQL bool
}

func NewConfig() *Config {
	return &Config{
		Schema:   nil,
		Pretty:   false,
		GraphiQL: true,
	}
}

func New(p *Config) *Handler {
	if p == nil {
		p = NewConfig()
	}
	if p.Schema == nil {
		panic("Undefined GraphQL Schema")
	}

	return &Handler{
		Schema:   p.Schema,
		Logger:   p.Logger,
		pretty:   p.Pretty,
		graphiql: p.GraphiQL,
	}
}
