// Package proto implements the client side of the generator tool's
// persistent server protocol: JSON payloads framed by magic marker lines on
// the subprocess's stdio. The framing and message vocabulary are an external
// fixed contract, not a design freedom.
package proto

import (
	"bufio"
	"encoding/json"
	"io"

	"go.trai.ch/mason/internal/core/domain"
	"go.trai.ch/zerr"
)

const (
	frameStart = `[== "CMake Server" ==[`
	frameEnd   = `]== "CMake Server" ==]`
)

// writeFrame encodes v as JSON and writes one framed message.
func writeFrame(w io.Writer, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return zerr.Wrap(err, "failed to encode protocol message")
	}
	msg := "\n" + frameStart + "\n" + string(payload) + "\n" + frameEnd + "\n"
	if _, err := io.WriteString(w, msg); err != nil {
		return zerr.Wrap(err, "failed to write protocol message")
	}
	return nil
}

// readFrame scans past any noise until a frame start marker, then collects
// payload lines until the end marker. Returns io.EOF when the stream ends
// outside a frame.
func readFrame(r *bufio.Reader) ([]byte, error) {
	inFrame := false
	var payload []byte
	for {
		line, err := r.ReadString('\n')
		if err != nil {
			if err == io.EOF && !inFrame {
				return nil, io.EOF
			}
			return nil, zerr.Wrap(err, domain.ErrProtocolMalformed.Error())
		}
		trimmed := trimEOL(line)
		switch {
		case !inFrame && trimmed == frameStart:
			inFrame = true
		case inFrame && trimmed == frameEnd:
			return payload, nil
		case inFrame:
			payload = append(payload, line...)
		}
	}
}

func trimEOL(line string) string {
	for len(line) > 0 && (line[len(line)-1] == '\n' || line[len(line)-1] == '\r') {
		line = line[:len(line)-1]
	}
	return line
}
