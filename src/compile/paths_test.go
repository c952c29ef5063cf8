package compile

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResolveName(t *testing.T) {
	root := t.TempDir()

	got, err := ResolveName(root, "out/top.v")
	require.NoError(t, err)
	require.Equal(t, filepath.Join(root, "out", "top.v"), got)

	got, err = ResolveName(root, "out/../top.alogic")
	require.NoError(t, err)
	require.Equal(t, filepath.Join(root, "top.alogic"), got)

	for _, name := range []string{"", ".", "..", "../x", "out/../../x", "/etc/passwd", `out\top.v`} {
		_, err := ResolveName(root, name)
		require.ErrorIs(t, err, ErrUnsafeName, name)
	}
}
