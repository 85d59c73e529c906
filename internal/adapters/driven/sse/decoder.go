package sse

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"strings"
)

// Decoder splits an SSE byte stream into frame payloads.
// Frames may arrive split across any number of reads.
type Decoder struct {
	r       *bufio.Reader
	data    []string
	hasData bool
}

// NewDecoder creates a decoder reading from r.
func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{r: bufio.NewReader(r)}
}

// Frame returns the data payload of the next non-empty frame. Multiple data
// lines are joined with a newline. A final frame without a trailing blank
// line is returned before io.EOF.
func (d *Decoder) Frame() ([]byte, error) {
	for {
		line, err := d.r.ReadString('\n')
		complete := err == nil

		line = strings.TrimSuffix(line, "\n")
		line = strings.TrimSuffix(line, "\r")

		if line == "" && complete {
			if payload, ok := d.flush(); ok {
				return payload, nil
			}
			continue
		}
		if line != "" {
			d.field(line)
		}

		if err != nil {
			if errors.Is(err, io.EOF) {
				if payload, ok := d.flush(); ok {
					return payload, nil
				}
			}
			return nil, err
		}
	}
}

func (d *Decoder) field(line string) {
	if strings.HasPrefix(line, ":") {
		return
	}
	name, value, found := strings.Cut(line, ":")
	if !found {
		value = ""
	}
	value = strings.TrimPrefix(value, " ")

	if name == "data" {
		d.data = append(d.data, value)
		d.hasData = true
	}
}

// flush returns the buffered payload. Whitespace-only payloads are dropped.
func (d *Decoder) flush() ([]byte, bool) {
	if !d.hasData {
		return nil, false
	}
	payload := []byte(strings.Join(d.data, "\n"))
	d.data = d.data[:0]
	d.hasData = false

	if len(bytes.TrimSpace(payload)) == 0 {
		return nil, false
	}
	return payload, true
}
