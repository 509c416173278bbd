// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package collect

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeIDsFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ids")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestParseIDFileType(t *testing.T) {
	cases := []struct {
		in      string
		want    IDFileType
		wantErr bool
	}{
		{in: "", want: IDsEvents},
		{in: "events", want: IDsEvents},
		{in: "plain", want: IDsPlain},
		{in: "csv", wantErr: true},
	}
	for _, tc := range cases {
		got, err := ParseIDFileType(tc.in)
		if tc.wantErr {
			assert.Error(t, err, "input %q", tc.in)
			continue
		}
		require.NoError(t, err, "input %q", tc.in)
		assert.Equal(t, tc.want, got)
	}
}

func TestReadEventIDsPlainSkipsBlankLines(t *testing.T) {
	path := writeIDsFile(t, "ev-a\n\n  ev-b  \n\n")
	ids, err := ReadEventIDs(path, IDsPlain)
	require.NoError(t, err)
	assert.Equal(t, []string{"ev-a", "ev-b"}, ids)
}

func TestReadEventIDsEventsExtractsURI(t *testing.T) {
	path := writeIDsFile(t, `{"uri":"ev-a","eventDate":"2023-06-01"}`+"\n"+`{"uri":" ev-b ","totalArticleCount":12}`+"\n")
	ids, err := ReadEventIDs(path, IDsEvents)
	require.NoError(t, err)
	assert.Equal(t, []string{"ev-a", "ev-b"}, ids)
}

func TestReadEventIDsEventsRejectsMalformedLine(t *testing.T) {
	path := writeIDsFile(t, `{"uri":"ev-a"}`+"\n"+`not json`+"\n")
	_, err := ReadEventIDs(path, IDsEvents)
	assert.Error(t, err)
}

func TestReadEventIDsMissingFile(t *testing.T) {
	_, err := ReadEventIDs(filepath.Join(t.TempDir(), "absent"), IDsPlain)
	assert.Error(t, err)
}

func TestReadEventIDsEmptyFile(t *testing.T) {
	path := writeIDsFile(t, "\n\n")
	_, err := ReadEventIDs(path, IDsPlain)
	assert.Error(t, err)
}
