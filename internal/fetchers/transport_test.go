package fetchers

import (
	"bytes"
	"compress/flate"
	"compress/gzip"
	"compress/zlib"
	"io"
	"testing"

	"github.com/andybalholm/brotli"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeBody(t *testing.T) {
	const plain = "<html><body>首页</body></html>"

	compress := map[string]func(w io.Writer) io.WriteCloser{
		"gzip": func(w io.Writer) io.WriteCloser { return gzip.NewWriter(w) },
		"br":   func(w io.Writer) io.WriteCloser { return brotli.NewWriter(w) },
		"deflate": func(w io.Writer) io.WriteCloser {
			zw, _ := flate.NewWriter(w, flate.DefaultCompression)
			return zw
		},
	}

	for enc, newWriter := range compress {
		t.Run(enc, func(t *testing.T) {
			var buf bytes.Buffer
			w := newWriter(&buf)
			_, err := w.Write([]byte(plain))
			require.NoError(t, err)
			require.NoError(t, w.Close())

			rc, err := decodeBody(enc, io.NopCloser(&buf))
			require.NoError(t, err)
			require.NotNil(t, rc)
			defer rc.Close()

			got, err := io.ReadAll(rc)
			require.NoError(t, err)
			assert.Equal(t, plain, string(got))
		})
	}

	t.Run("zlib封装的deflate", func(t *testing.T) {
		var buf bytes.Buffer
		zw := zlib.NewWriter(&buf)
		_, _ = zw.Write([]byte(plain))
		require.NoError(t, zw.Close())

		rc, err := decodeBody("deflate", io.NopCloser(&buf))
		require.NoError(t, err)
		got, err := io.ReadAll(rc)
		require.NoError(t, err)
		assert.Equal(t, plain, string(got))
	})

	t.Run("未压缩", func(t *testing.T) {
		rc, err := decodeBody("", io.NopCloser(bytes.NewReader([]byte(plain))))
		assert.NoError(t, err)
		assert.Nil(t, rc)
	})

	t.Run("损坏的gzip", func(t *testing.T) {
		_, err := decodeBody("gzip", io.NopCloser(bytes.NewReader([]byte("not gzip at all"))))
		assert.Error(t, err)
	})
}

func TestIsHTMLContentType(t *testing.T) {
	assert.True(t, isHTMLContentType("text/html"))
	assert.True(t, isHTMLContentType("TEXT/HTML; charset=ISO-8859-1"))
	assert.True(t, isHTMLContentType("application/xhtml+xml"))
	assert.False(t, isHTMLContentType("application/pdf"))
	assert.False(t, isHTMLContentType(""))
}
