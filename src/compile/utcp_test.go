package compile

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type fakeCaller struct {
	tool string
	args map[string]any
	res  any
	err  error
}

func (f *fakeCaller) CallTool(ctx context.Context, toolName string, args map[string]any) (any, error) {
	f.tool, f.args = toolName, args
	return f.res, f.err
}

func TestUTCPTransportDecodesResultShapes(t *testing.T) {
	shapes := []any{
		`{"messages":[{"text":"ok"}],"files":{"top.v":"m"}}`,
		[]byte(`{"messages":[{"text":"ok"}],"files":{"top.v":"m"}}`),
		map[string]any{
			"messages": []any{map[string]any{"text": "ok"}},
			"files":    map[string]any{"top.v": "m"},
		},
	}
	for _, shape := range shapes {
		caller := &fakeCaller{res: shape}
		tr := &UTCPTransport{Client: caller}
		resp, err := tr.Compile(context.Background(), BuildRequest("-o out", []Input{{Title: "top.alogic", Text: "x"}}))
		require.NoError(t, err)
		require.Equal(t, "ok", resp.ConsoleText())
		require.Equal(t, "m", resp.Files["top.v"])

		require.Equal(t, DefaultUTCPTool, caller.tool)
		require.Equal(t, KindCompile, caller.args["request"])
		require.Equal(t, []any{"-o", "out"}, caller.args["args"])
		require.Equal(t, map[string]any{"top.alogic": "x"}, caller.args["files"])
	}
}

func TestUTCPTransportErrors(t *testing.T) {
	tr := &UTCPTransport{Client: &fakeCaller{res: nil}, Tool: "custom.compile"}
	_, err := tr.Compile(context.Background(), BuildRequest("", nil))
	require.ErrorIs(t, err, ErrMalformedResponse)

	tr = &UTCPTransport{Client: &fakeCaller{err: errors.New("provider down")}}
	_, err = tr.Compile(context.Background(), BuildRequest("", nil))
	require.Equal(t, KindNetwork, KindOf(err))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = tr.Compile(ctx, BuildRequest("", nil))
	require.Equal(t, KindCanceled, KindOf(err))
}
