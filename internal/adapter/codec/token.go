package codec

import (
	"bytes"
	"compress/gzip"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/iho/cashforecast/internal/domain"
)

// plainPrefix marks uncompressed CSV handed to DecodeToken directly.
var plainPrefix = strings.Join(Header, ",")

// EncodeToken packs a declaration table into a URL-safe share token:
// gzip-compressed CSV wrapped in URL-safe base64.
func EncodeToken(decls []domain.Declaration) (string, error) {
	raw, err := EncodeCSV(decls)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write(raw); err != nil {
		return "", fmt.Errorf("compress sheet: %w", err)
	}
	if err := zw.Close(); err != nil {
		return "", fmt.Errorf("compress sheet: %w", err)
	}

	return base64.URLEncoding.EncodeToString(buf.Bytes()), nil
}

// DecodeToken unpacks a share token produced by EncodeToken. Plain CSV text
// is accepted as-is so a pasted sheet works where a token is expected.
func DecodeToken(token string) ([]domain.Declaration, error) {
	if strings.HasPrefix(token, plainPrefix) {
		return DecodeCSV(strings.NewReader(token))
	}

	compressed, err := base64.URLEncoding.DecodeString(strings.TrimSpace(token))
	if err != nil {
		return nil, fmt.Errorf("decode token: %w", err)
	}
	zr, err := gzip.NewReader(bytes.NewReader(compressed))
	if err != nil {
		return nil, fmt.Errorf("decompress token: %w", err)
	}
	defer zr.Close()

	return DecodeCSV(zr)
}
