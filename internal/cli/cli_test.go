package cli_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/graph-gophers/bookshelf"
	"github.com/graph-gophers/bookshelf/internal/cli"
)

func TestSchemaCommand(t *testing.T) {
	cmd := cli.NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"schema"})

	require.NoError(t, cmd.Execute())
	assert.Equal(t, bookshelf.Schema, out.String())
	assert.Contains(t, out.String(), "union AddBookResult = Book | AddBookError")
}

func TestServeRejectsInvalidConfig(t *testing.T) {
	cmd := cli.NewRootCmd()
	cmd.SetArgs([]string{"serve", "--path=graphql"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must start with /")
}

func TestUnknownArgs(t *testing.T) {
	cmd := cli.NewRootCmd()
	cmd.SetArgs([]string{"serve", "extra"})
	assert.Error(t, cmd.Execute())
}
