// Tokenatlas - Discord Token Validation and Account Analytics
// Copyright 2026 Tokenatlas Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tokenatlas/tokenatlas

// Package export renders validation results in the three supported download
// formats: plain text (one token per line), a verbatim JSON dump, and CSV
// with newline-joined multi-token cells.
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"

	"github.com/goccy/go-json"

	"github.com/tokenatlas/tokenatlas/internal/models"
)

// Format identifies an export format.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
)

// ParseFormat validates a format name from a request parameter.
func ParseFormat(name string) (Format, error) {
	switch Format(strings.ToLower(name)) {
	case FormatText:
		return FormatText, nil
	case FormatJSON:
		return FormatJSON, nil
	case FormatCSV:
		return FormatCSV, nil
	default:
		return "", fmt.Errorf("export: unknown format %q", name)
	}
}

// ContentType returns the MIME type served for the format.
func (f Format) ContentType() string {
	switch f {
	case FormatJSON:
		return "application/json"
	case FormatCSV:
		return "text/csv"
	default:
		return "text/plain; charset=utf-8"
	}
}

// Filename returns the suggested download filename for the format.
func (f Format) Filename() string {
	switch f {
	case FormatJSON:
		return "accounts.json"
	case FormatCSV:
		return "accounts.csv"
	default:
		return "tokens.txt"
	}
}

// Render serializes accounts in the given format.
func Render(f Format, accounts []models.Account) ([]byte, error) {
	switch f {
	case FormatText:
		return renderText(accounts), nil
	case FormatJSON:
		return renderJSON(accounts)
	case FormatCSV:
		return renderCSV(accounts)
	default:
		return nil, fmt.Errorf("export: unknown format %q", f)
	}
}

// renderText emits one token per line, accounts in order.
func renderText(accounts []models.Account) []byte {
	var b strings.Builder
	for _, acc := range accounts {
		for _, tok := range acc.Tokens {
			b.WriteString(tok)
			b.WriteByte('\n')
		}
	}
	return []byte(b.String())
}

// renderJSON dumps the account structures verbatim.
func renderJSON(accounts []models.Account) ([]byte, error) {
	if accounts == nil {
		accounts = []models.Account{}
	}
	out, err := json.MarshalIndent(accounts, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("export: encoding JSON: %w", err)
	}
	return out, nil
}

// renderCSV emits the Username,Discriminator,ID,Tokens table. Multi-token
// accounts join their tokens with newlines inside one quoted cell.
func renderCSV(accounts []models.Account) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write([]string{"Username", "Discriminator", "ID", "Tokens"}); err != nil {
		return nil, fmt.Errorf("export: writing CSV header: %w", err)
	}
	for _, acc := range accounts {
		record := []string{
			acc.User.Username,
			acc.User.Discriminator,
			acc.User.ID,
			strings.Join(acc.Tokens, "\n"),
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("export: writing CSV record: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("export: flushing CSV: %w", err)
	}
	return buf.Bytes(), nil
}
