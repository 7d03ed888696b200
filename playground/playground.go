// Package playground serves the GraphiQL explorer page.
package playground

import (
	"bytes"
	"html/template"
	"net/http"
)

// Handler returns a handler serving the explorer page for the GraphQL endpoint.
func Handler(endpoint string, options ...Option) http.HandlerFunc {
	c := newConfig(options)

	var buff bytes.Buffer
	if err := c.execute(&buff, endpoint, "", ""); err != nil {
		panic(err)
	}
	out := buff.Bytes()

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write(out)
	}
}

// Render writes the explorer page prefilled with query and variables.
func Render(w http.ResponseWriter, endpoint, query, variables string, options ...Option) error {
	c := newConfig(options)

	var buff bytes.Buffer
	if err := c.execute(&buff, endpoint, query, variables); err != nil {
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, err := w.Write(buff.Bytes())
	return err
}

type Option func(*config)

type config struct {
	title           string
	graphiqlVersion string
}

func newConfig(options []Option) *config {
	c := &config{title: "GraphiQL", graphiqlVersion: "0.11.11"}
	for _, opt := range options {
		opt(c)
	}
	return c
}

func (c *config) execute(buff *bytes.Buffer, endpoint, query, variables string) error {
	return page.Execute(buff, map[string]string{
		"title":     c.title,
		"version":   c.graphiqlVersion,
		"endpoint":  endpoint,
		"query":     query,
		"variables": variables,
	})
}

func WithTitle(title string) Option {
	return func(config *config) {
		config.title = title
	}
}

func WithVersion(version string) Option {
	return func(config *config) {
		config.graphiqlVersion = version
	}
}

var page = template.Must(template.New("graphiql").Parse(`<!DOCTYPE html>
<html>
	<head>
		<meta charset="utf-8"/>
		<title>{{.title}}</title>
		<link href="https://cdnjs.cloudflare.com/ajax/libs/graphiql/{{.version}}/graphiql.min.css" rel="stylesheet" />
		<script src="https://cdnjs.cloudflare.com/ajax/libs/es6-promise/4.1.1/es6-promise.auto.min.js"></script>
		<script src="https://cdnjs.cloudflare.com/ajax/libs/fetch/2.0.3/fetch.min.js"></script>
		<script src="https://cdnjs.cloudflare.com/ajax/libs/react/16.2.0/umd/react.production.min.js"></script>
		<script src="https://cdnjs.cloudflare.com/ajax/libs/react-dom/16.2.0/umd/react-dom.production.min.js"></script>
		<script src="https://cdnjs.cloudflare.com/ajax/libs/graphiql/{{.version}}/graphiql.min.js"></script>
	</head>
	<body style="width: 100%; height: 100%; margin: 0; overflow: hidden;">
		<div id="graphiql" style="height: 100vh;">Loading...</div>
		<script>
			function graphQLFetcher(graphQLParams) {
				return fetch({{.endpoint}}, {
					method: "post",
					headers: {"Content-Type": "application/json", "Accept": "application/json"},
					body: JSON.stringify(graphQLParams),
					credentials: "include",
				}).then(function (response) {
					return response.text();
				}).then(function (responseBody) {
					try {
						return JSON.parse(responseBody);
					} catch (error) {
						return responseBody;
					}
				});
			}

			ReactDOM.render(
				React.createElement(GraphiQL, {
					fetcher: graphQLFetcher,
					query: {{.query}} || undefined,
					variables: {{.variables}} || undefined,
				}),
				document.getElementById("graphiql")
			);
		</script>
	</body>
</html>
`))
