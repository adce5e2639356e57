package tencent

import (
	"archive/zip"
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"gitlab.lucky-team.pro/luckyads/go.proxy-admin/internal/cloud"
)

var (
	errNoCert = errors.New("certificate file not found in archive")
	errNoKey  = errors.New("private key file not found in archive")
)

// ExtractBundle decodes the base64 zip archive returned by the download API
// and picks the certificate (.crt, .pem, .cer) and key (.key) files.
func ExtractBundle(content string) (cloud.Bundle, error) {
	data, err := base64.StdEncoding.DecodeString(content)
	if err != nil {
		return cloud.Bundle{}, fmt.Errorf("failed to decode archive: %w", err)
	}

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return cloud.Bundle{}, fmt.Errorf("failed to open archive: %w", err)
	}

	var bundle cloud.Bundle
	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}

		var dst *[]byte
		switch strings.ToLower(path.Ext(f.Name)) {
		case ".crt", ".pem", ".cer":
			dst = &bundle.Cert
		case ".key":
			dst = &bundle.Key
		default:
			continue
		}

		rc, err := f.Open()
		if err != nil {
			return cloud.Bundle{}, fmt.Errorf("failed to open %s: %w", f.Name, err)
		}
		b, err := io.ReadAll(rc)
		rc.Close() //nolint:errcheck,gosec
		if err != nil {
			return cloud.Bundle{}, fmt.Errorf("failed to read %s: %w", f.Name, err)
		}
		*dst = b
	}

	if len(bundle.Cert) == 0 {
		return cloud.Bundle{}, errNoCert
	}
	if len(bundle.Key) == 0 {
		return cloud.Bundle{}, errNoKey
	}
	return bundle, nil
}
