package compile

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDecodeResponse(t *testing.T) {
	resp, err := DecodeResponse([]byte(`{
		"messages": [{"text": "line one"}, {"text": "line two", "severity": "warning"}],
		"files": {"top.v": "module top; endmodule"}
	}`))
	require.NoError(t, err)
	require.Equal(t, "line one\nline two", resp.ConsoleText())
	require.Equal(t, map[string]string{"top.v": "module top; endmodule"}, resp.Files)
}

func TestDecodeResponseEmptyCollections(t *testing.T) {
	resp, err := DecodeResponse([]byte(`{"messages": [], "files": {}}`))
	require.NoError(t, err)
	require.Empty(t, resp.Messages)
	require.NotNil(t, resp.Files)
	require.Equal(t, "", resp.ConsoleText())
}

func TestDecodeResponseMalformed(t *testing.T) {
	bodies := map[string]string{
		"empty":            ``,
		"array":            `[]`,
		"not json":         `<html>oops</html>`,
		"missing files":    `{"messages": []}`,
		"missing messages": `{"files": {}}`,
		"null files":       `{"messages": [], "files": null}`,
		"text not string":  `{"messages": [{"text": 3}], "files": {}}`,
		"message no text":  `{"messages": [{}], "files": {}}`,
		"null message":     `{"messages": [null], "files": {}}`,
		"file not string":  `{"messages": [], "files": {"a.v": 1}}`,
		"truncated":        `{"messages": [], "files": {`,
	}
	for name, body := range bodies {
		_, err := DecodeResponse([]byte(body))
		require.ErrorIs(t, err, ErrMalformedResponse, name)
	}
}
