package relay_test

import (
	"context"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/graph-gophers/bookshelf"
	"github.com/graph-gophers/bookshelf/internal/dataset"
	"github.com/graph-gophers/bookshelf/relay"
)

func newHandler(graphiql bool) *relay.Handler {
	schema := bookshelf.MustNewSchema(bookshelf.NewResolver(dataset.NewSeeded(), nil))
	return relay.New(&relay.Config{Schema: schema, GraphiQL: graphiql})
}

const bookResponse = `{"data":{"book":{"name":"The Two Towers"}}}`

func TestServeHTTP(t *testing.T) {
	h := newHandler(true)

	tests := []struct {
		name        string
		method      string
		target      string
		contentType string
		body        string
	}{
		{
			name:        "json",
			method:      "POST",
			target:      "/graphql",
			contentType: "application/json",
			body:        `{"query":"query($id: Int) { book(id: $id) { name } }", "operationName":"", "variables": {"id": 5}}`,
		},
		{
			name:        "json with string variables",
			method:      "POST",
			target:      "/graphql",
			contentType: "application/json; charset=utf-8",
			body:        `{"query":"query($id: Int) { book(id: $id) { name } }", "variables": "{\"id\": 5}"}`,
		},
		{
			name:        "graphql",
			method:      "POST",
			target:      "/graphql",
			contentType: "application/graphql",
			body:        `{ book(id: 5) { name } }`,
		},
		{
			name:        "form",
			method:      "POST",
			target:      "/graphql",
			contentType: "application/x-www-form-urlencoded",
			body:        url.Values{"query": {"{ book(id: 5) { name } }"}}.Encode(),
		},
		{
			name:   "get",
			method: "GET",
			target: "/graphql?" + url.Values{"query": {"{ book(id: 5) { name } }"}}.Encode(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			r := httptest.NewRequest(tt.method, tt.target, strings.NewReader(tt.body))
			if tt.contentType != "" {
				r.Header.Set("Content-Type", tt.contentType)
			}
			h.ServeHTTP(w, r)

			assert.Equal(t, 200, w.Code)
			assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
			assert.JSONEq(t, bookResponse, w.Body.String())
		})
	}
}

func TestMutationOverHTTP(t *testing.T) {
	h := newHandler(false)

	w := httptest.NewRecorder()
	r := httptest.NewRequest("POST", "/graphql", strings.NewReader(
		`{"query":"mutation { addBook(name: \"New Book\", author: {name: \"New Author\"}) { ... on Book { id authorId } } }"}`))
	r.Header.Set("Content-Type", "application/json")
	h.ServeHTTP(w, r)

	require.Equal(t, 200, w.Code)
	assert.JSONEq(t, `{"data":{"addBook":{"id":9,"authorId":4}}}`, w.Body.String())
}

func TestMissingQuery(t *testing.T) {
	h := newHandler(true)

	w := httptest.NewRecorder()
	r := httptest.NewRequest("POST", "/graphql", strings.NewReader(`{}`))
	r.Header.Set("Content-Type", "application/json")
	h.ServeHTTP(w, r)

	assert.Equal(t, 400, w.Code)
	assert.Contains(t, w.Body.String(), "must provide query string")
}

func TestValidationErrorsAreReturned(t *testing.T) {
	h := newHandler(false)

	w := httptest.NewRecorder()
	r := httptest.NewRequest("POST", "/graphql", strings.NewReader(`{ shelf { name } }`))
	r.Header.Set("Content-Type", "application/graphql")
	h.ServeHTTP(w, r)

	assert.Equal(t, 200, w.Code)
	assert.Contains(t, w.Body.String(), `"errors"`)
}

func TestGraphiQL(t *testing.T) {
	browser := func(target string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		r := httptest.NewRequest("GET", target, nil)
		r.Header.Set("Accept", "text/html,application/xhtml+xml")
		newHandler(true).ServeHTTP(w, r)
		return w
	}

	w := browser("/graphql")
	assert.Equal(t, 200, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, w.Body.String(), "GraphiQL")

	w = browser("/graphql?raw&query=" + url.QueryEscape("{ book(id: 5) { name } }"))
	assert.JSONEq(t, bookResponse, w.Body.String())

	w = httptest.NewRecorder()
	r := httptest.NewRequest("GET", "/graphql?query="+url.QueryEscape("{ book(id: 5) { name } }"), nil)
	r.Header.Set("Accept", "text/html")
	newHandler(false).ServeHTTP(w, r)
	assert.JSONEq(t, bookResponse, w.Body.String())
}

func TestPretty(t *testing.T) {
	schema := bookshelf.MustNewSchema(bookshelf.NewResolver(dataset.NewSeeded(), nil))
	h := relay.New(&relay.Config{Schema: schema, Pretty: true})

	w := httptest.NewRecorder()
	r := httptest.NewRequest("POST", "/graphql", strings.NewReader(`{ book(id: 5) { name } }`))
	r.Header.Set("Content-Type", "application/graphql")
	h.ServeHTTP(w, r)

	require.Equal(t, 200, w.Code)
	assert.Contains(t, w.Body.String(), "\n  ")
	assert.JSONEq(t, bookResponse, w.Body.String())
}

func TestNewPanicsWithoutSchema(t *testing.T) {
	assert.Panics(t, func() { relay.New(nil) })
}

func TestGetMutationNotAllowed(t *testing.T) {
	schema := bookshelf.MustNewSchema(bookshelf.NewResolver(dataset.NewSeeded(), nil))
	h := relay.New(&relay.Config{Schema: schema})

	get := func(query, operationName string) *httptest.ResponseRecorder {
		v := url.Values{"query": {query}}
		if operationName != "" {
			v.Set("operationName", operationName)
		}
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest("GET", "/graphql?"+v.Encode(), nil))
		return w
	}

	w := get(`mutation { addBook(name: "Sneaky", authorId: 1) { __typename } }`, "")
	assert.Equal(t, 405, w.Code)
	assert.Equal(t, "POST", w.Header().Get("Allow"))
	assert.Contains(t, w.Body.String(), "can only perform a mutation operation from a POST request")

	w = get(`query Q { book(id: 5) { name } } mutation M { addBook(name: "Sneaky", authorId: 1) { __typename } }`, "M")
	assert.Equal(t, 405, w.Code)

	w = get(`query Q { book(id: 5) { name } } mutation M { addBook(name: "Sneaky", authorId: 1) { __typename } }`, "Q")
	assert.Equal(t, 200, w.Code)
	assert.JSONEq(t, bookResponse, w.Body.String())

	resp := schema.Exec(context.Background(), `{ books { id } }`, "", nil)
	assert.NotContains(t, string(resp.Data), `"id":9`)
}
