package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/deppfellow/animedb/internal/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandTree(t *testing.T) {
	root := newRootCmd(strings.NewReader(""), &bytes.Buffer{})

	for _, path := range [][]string{
		{"migrate"},
		{"health"},
		{"profiles", "list"},
		{"profiles", "count"},
		{"profiles", "name"},
		{"profiles", "taken"},
		{"profiles", "create"},
		{"profiles", "login"},
		{"anime", "score"},
		{"anime", "top"},
		{"anime", "genres"},
		{"anime", "by-genre"},
		{"favorites"},
		{"reviewers", "top"},
	} {
		cmd, _, err := root.Find(path)
		require.NoError(t, err, path)
		assert.Equal(t, path[len(path)-1], cmd.Name())
	}
}

func TestInvalidIDFailsBeforeConnecting(t *testing.T) {
	root := newRootCmd(strings.NewReader(""), &bytes.Buffer{})
	root.SetArgs([]string{"favorites", "seven"})

	err := root.Execute()
	require.Error(t, err)
	assert.ErrorIs(t, err, &errs.Error{Kind: errs.KindInvalid})
}

func TestCreateRequiresName(t *testing.T) {
	root := newRootCmd(strings.NewReader(""), &bytes.Buffer{})
	root.SetArgs([]string{"profiles", "create", "--password", "x"})

	err := root.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "name")
}

func TestParseID(t *testing.T) {
	id, err := parseID("42")
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)

	_, err = parseID("4.2")
	assert.Error(t, err)
}

func TestReadPassword(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "secret\n", want: "secret"},
		{in: "secret\r\nignored\n", want: "secret"},
		{in: "no newline", want: "no newline"},
		{in: "", want: ""},
	}

	for _, tt := range tests {
		got, err := readPassword(strings.NewReader(tt.in))
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}

func TestReportError(t *testing.T) {
	var buf bytes.Buffer
	reportError(&buf, errs.ErrUsernameTaken)
	assert.Contains(t, buf.String(), `"code": "PROFILE_ALREADY_EXISTS"`)
	assert.Contains(t, buf.String(), `"kind": "conflict"`)

	buf.Reset()
	reportError(&buf, errors.New("boom"))
	assert.Equal(t, "error: boom\n", buf.String())
}
