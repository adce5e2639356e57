package tencent

import (
	"archive/zip"
	"bytes"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/require"
)

func archive(t *testing.T, files map[string]string) string {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, body := range files {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(body))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())

	return base64.StdEncoding.EncodeToString(buf.Bytes())
}

func TestExtractBundle(t *testing.T) {
	t.Parallel()

	t.Run("nginx layout", func(t *testing.T) {
		t.Parallel()

		b, err := ExtractBundle(archive(t, map[string]string{
			"example.com_nginx/example.com_bundle.crt": "CERT",
			"example.com_nginx/example.com.key":        "KEY",
			"example.com_nginx/example.com.csr":        "CSR",
		}))
		require.NoError(t, err)
		require.Equal(t, "CERT", string(b.Cert))
		require.Equal(t, "KEY", string(b.Key))
	})
	t.Run("missing key", func(t *testing.T) {
		t.Parallel()

		_, err := ExtractBundle(archive(t, map[string]string{"a.pem": "CERT"}))
		require.ErrorIs(t, err, errNoKey)
	})
	t.Run("missing cert", func(t *testing.T) {
		t.Parallel()

		_, err := ExtractBundle(archive(t, map[string]string{"a.key": "KEY"}))
		require.ErrorIs(t, err, errNoCert)
	})
	t.Run("not base64", func(t *testing.T) {
		t.Parallel()

		_, err := ExtractBundle("%%%")
		require.Error(t, err)
	})
}
