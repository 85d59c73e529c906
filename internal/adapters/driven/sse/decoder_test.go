package sse

import (
	"io"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func frames(t *testing.T, r io.Reader) []string {
	t.Helper()
	dec := NewDecoder(r)
	var out []string
	for {
		payload, err := dec.Frame()
		if err == io.EOF {
			return out
		}
		require.NoError(t, err)
		out = append(out, string(payload))
	}
}

func TestDecoder_Frames(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "single frame",
			input: "data: {\"type\":\"search_started\"}\n\n",
			want:  []string{`{"type":"search_started"}`},
		},
		{
			name:  "two frames",
			input: "data: a\n\ndata: b\n\n",
			want:  []string{"a", "b"},
		},
		{
			name:  "comments and keepalives ignored",
			input: ": ping\n\n\n\ndata: a\n\n: ping\n\n",
			want:  []string{"a"},
		},
		{
			name:  "multiple data lines joined",
			input: "data: line1\ndata: line2\n\n",
			want:  []string{"line1\nline2"},
		},
		{
			name:  "crlf line endings",
			input: "data: a\r\n\r\ndata: b\r\n\r\n",
			want:  []string{"a", "b"},
		},
		{
			name:  "other fields ignored",
			input: "event: message\nid: 7\nretry: 100\ndata: a\n\n",
			want:  []string{"a"},
		},
		{
			name:  "no space after colon",
			input: "data:a\n\n",
			want:  []string{"a"},
		},
		{
			name:  "empty data frame dropped",
			input: "data:\n\ndata: a\n\n",
			want:  []string{"a"},
		},
		{
			name:  "trailing frame without blank line",
			input: "data: a\n\ndata: b",
			want:  []string{"a", "b"},
		},
		{
			name:  "empty stream",
			input: "",
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, frames(t, strings.NewReader(tt.input)))
		})
	}
}

func TestDecoder_SplitAcrossReads(t *testing.T) {
	input := "data: {\"type\":\"content_chunk\",\"text\":\"Prod\"}\n\n" +
		": keepalive\n\n" +
		"data: {\"type\":\"content_chunk\",\"text\":\"uctX\"}\n\n"

	got := frames(t, iotest.OneByteReader(strings.NewReader(input)))

	assert.Equal(t, []string{
		`{"type":"content_chunk","text":"Prod"}`,
		`{"type":"content_chunk","text":"uctX"}`,
	}, got)
}

func TestDecoder_ReadErrorSurfaces(t *testing.T) {
	r := io.MultiReader(strings.NewReader("data: a\n\ndata: par"), iotest.ErrReader(io.ErrUnexpectedEOF))
	dec := NewDecoder(r)

	payload, err := dec.Frame()
	require.NoError(t, err)
	assert.Equal(t, "a", string(payload))

	_, err = dec.Frame()
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
}
