// Package codec converts declaration tables to and from their interchange
// forms: the four-column CSV sheet format and the compressed share token.
package codec

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"

	"github.com/iho/cashforecast/internal/domain"
)

// Header is the canonical CSV column order. Decoding requires these four
// columns; encoding always emits them in this order.
var Header = []string{"desc", "accounts", "dtstart", "rrule"}

// DecodeCSV parses a declaration table from CSV. Errors identify the
// offending row by its 1-based data row number.
func DecodeCSV(r io.Reader) ([]domain.Declaration, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("read header: %w", domain.ErrEmptySheet)
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if err := checkHeader(header); err != nil {
		return nil, err
	}

	var decls []domain.Declaration
	for row := 1; ; row++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", row, err)
		}

		accounts, err := domain.ParseAccounts(record[1])
		if err != nil {
			return nil, fmt.Errorf("row %d (%s): %w", row, record[0], err)
		}
		dtstart, err := domain.ParseDate(record[2])
		if err != nil {
			return nil, fmt.Errorf("row %d (%s): %w", row, record[0], err)
		}

		decls = append(decls, domain.Declaration{
			Desc:     record[0],
			Accounts: accounts,
			DTStart:  dtstart,
			RRule:    record[3],
		})
	}

	if len(decls) == 0 {
		return nil, domain.ErrEmptySheet
	}
	return decls, nil
}

// EncodeCSV writes a declaration table as CSV in the canonical column order.
func EncodeCSV(decls []domain.Declaration) ([]byte, error) {
	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)

	if err := cw.Write(Header); err != nil {
		return nil, err
	}
	for _, d := range decls {
		record := []string{d.Desc, domain.FormatAccounts(d.Accounts), d.DTStart.String(), d.RRule}
		if err := cw.Write(record); err != nil {
			return nil, err
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func checkHeader(header []string) error {
	if len(header) != len(Header) {
		return fmt.Errorf("header has %d columns, want %d", len(header), len(Header))
	}
	for i, name := range Header {
		if header[i] != name {
			return fmt.Errorf("header column %d is %q, want %q", i+1, header[i], name)
		}
	}
	return nil
}
