package db

import (
	"strings"
	"testing"
)

func TestQueryResultWrite(t *testing.T) {
	result := QueryResult{
		Columns:     []string{"id", "name"},
		Data:        [][]string{{"1", "Ann"}, {"2", "Bob"}},
		RecordsRead: 2,
	}

	var sb strings.Builder
	result.Write(&sb)
	out := sb.String()

	for _, want := range []string{"| id | name |", "| 1  | Ann  |", "2 row(s)"} {
		if !strings.Contains(out, want) {
			t.Errorf("Output missing %q:\n%s", want, out)
		}
	}
}

func TestQueryResultWriteEmpty(t *testing.T) {
	var sb strings.Builder
	QueryResult{}.Write(&sb)
	if !strings.Contains(sb.String(), "0 row(s)") {
		t.Errorf("Unexpected output: %s", sb.String())
	}
}

func TestCommitResultWrite(t *testing.T) {
	result := CommitResult{TablesCreated: 1, RecordsWritten: 3}

	var sb strings.Builder
	result.Write(&sb)
	out := sb.String()

	if !strings.Contains(out, "1 table(s) created") || !strings.Contains(out, "3 record(s) written") {
		t.Errorf("Unexpected summary: %s", out)
	}
}

func TestCommitResultWriteNoCounts(t *testing.T) {
	var sb strings.Builder
	CommitResult{}.Write(&sb)
	if !strings.Contains(sb.String(), "ok") {
		t.Errorf("Expected ok summary, got %s", sb.String())
	}
}

func TestResultTypes(t *testing.T) {
	if (QueryResult{}).Type() != QueryResultType {
		t.Error("Unexpected QueryResult type")
	}
	if (CommitResult{}).Type() != CommitResultType {
		t.Error("Unexpected CommitResult type")
	}
}

func TestFormatDuration(t *testing.T) {
	cases := []struct {
		secs float64
		want string
	}{
		{0.0001, "<1ms"},
		{0.25, "250ms"},
		{1.5, "1.50s"},
	}
	for _, c := range cases {
		if got := formatDuration(c.secs); got != c.want {
			t.Errorf("formatDuration(%v) = %s, want %s", c.secs, got, c.want)
		}
	}
}
