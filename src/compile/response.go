package compile

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrMalformedResponse reports a response body that does not match the
// compile response schema.
var ErrMalformedResponse = errors.New("malformed compile response")

// Message is one diagnostic line emitted by the compiler.
type Message struct {
	Text string `json:"text"`
}

// Response is the decoded body of a successful compile.
type Response struct {
	Messages []Message         `json:"messages"`
	Files    map[string]string `json:"files"`
}

// ConsoleText renders the messages the way the console shows them.
func (r Response) ConsoleText() string {
	lines := make([]string, len(r.Messages))
	for i, m := range r.Messages {
		lines[i] = m.Text
	}
	return strings.Join(lines, "\n")
}

type wireMessage struct {
	Text *string `json:"text"`
}

type wireResponse struct {
	Messages *[]*wireMessage    `json:"messages"`
	Files    *map[string]string `json:"files"`
}

// DecodeResponse parses and validates a response body. Both fields are
// required; every message needs a string text.
func DecodeResponse(data []byte) (Response, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return Response{}, fmt.Errorf("%w: body is not a JSON object", ErrMalformedResponse)
	}
	var w wireResponse
	if err := json.Unmarshal(trimmed, &w); err != nil {
		return Response{}, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if w.Messages == nil {
		return Response{}, fmt.Errorf("%w: missing messages", ErrMalformedResponse)
	}
	if w.Files == nil {
		return Response{}, fmt.Errorf("%w: missing files", ErrMalformedResponse)
	}

	resp := Response{
		Messages: make([]Message, 0, len(*w.Messages)),
		Files:    *w.Files,
	}
	for i, m := range *w.Messages {
		if m == nil || m.Text == nil {
			return Response{}, fmt.Errorf("%w: message %d has no text", ErrMalformedResponse, i)
		}
		resp.Messages = append(resp.Messages, Message{Text: *m.Text})
	}
	if resp.Files == nil {
		resp.Files = map[string]string{}
	}
	return resp, nil
}
