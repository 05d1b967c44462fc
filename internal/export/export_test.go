// Tokenatlas - Discord Token Validation and Account Analytics
// Copyright 2026 Tokenatlas Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tokenatlas/tokenatlas

package export

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"

	"github.com/goccy/go-json"

	"github.com/tokenatlas/tokenatlas/internal/models"
)

func sampleAccounts() []models.Account {
	return []models.Account{
		{
			User:   models.User{ID: "1", Username: "wumpus", Discriminator: "0"},
			Tokens: []string{"tok-a", "tok-b"},
		},
		{
			User:   models.User{ID: "2", Username: "legacy", Discriminator: "0420"},
			Tokens: []string{"tok-c"},
		},
	}
}

func TestParseFormat(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"text", "json", "CSV"} {
		if _, err := ParseFormat(name); err != nil {
			t.Errorf("ParseFormat(%q) = %v, want nil", name, err)
		}
	}
	if _, err := ParseFormat("xml"); err == nil {
		t.Error("ParseFormat(xml) = nil error, want failure")
	}
}

func TestRenderText(t *testing.T) {
	t.Parallel()

	out, err := Render(FormatText, sampleAccounts())
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	want := "tok-a\ntok-b\ntok-c\n"
	if string(out) != want {
		t.Errorf("text export = %q, want %q", out, want)
	}
}

func TestRenderJSONRoundTrips(t *testing.T) {
	t.Parallel()

	out, err := Render(FormatJSON, sampleAccounts())
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	var decoded []models.Account
	if err := json.Unmarshal(out, &decoded); err != nil {
		t.Fatalf("JSON export is not valid JSON: %v", err)
	}
	if len(decoded) != 2 || decoded[0].User.Username != "wumpus" || len(decoded[0].Tokens) != 2 {
		t.Errorf("decoded = %+v", decoded)
	}
}

func TestRenderJSONEmpty(t *testing.T) {
	t.Parallel()

	out, err := Render(FormatJSON, nil)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if strings.TrimSpace(string(out)) != "[]" {
		t.Errorf("empty JSON export = %q, want []", out)
	}
}

func TestRenderCSV(t *testing.T) {
	t.Parallel()

	out, err := Render(FormatCSV, sampleAccounts())
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	records, err := csv.NewReader(bytes.NewReader(out)).ReadAll()
	if err != nil {
		t.Fatalf("CSV export does not parse: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("CSV has %d records, want header + 2 rows", len(records))
	}

	header := records[0]
	want := []string{"Username", "Discriminator", "ID", "Tokens"}
	for i := range want {
		if header[i] != want[i] {
			t.Errorf("header[%d] = %q, want %q", i, header[i], want[i])
		}
	}

	// Multi-token cell joins values with a newline inside one field.
	if records[1][3] != "tok-a\ntok-b" {
		t.Errorf("tokens cell = %q, want newline-joined", records[1][3])
	}
	if records[2][1] != "0420" {
		t.Errorf("discriminator cell = %q, want 0420", records[2][1])
	}
}

func TestContentTypeAndFilename(t *testing.T) {
	t.Parallel()

	if got := FormatCSV.ContentType(); got != "text/csv" {
		t.Errorf("CSV ContentType = %q", got)
	}
	if got := FormatJSON.Filename(); got != "accounts.json" {
		t.Errorf("JSON Filename = %q", got)
	}
	if got := FormatText.Filename(); got != "tokens.txt" {
		t.Errorf("text Filename = %q", got)
	}
}
