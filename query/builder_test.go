package query

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestBuildInsert(t *testing.T) {
	stmt, err := Build("users", Row{{"name", "Ann"}, {"age", 30}}, nil, Insert)
	if err != nil {
		t.Fatalf("Failed to build INSERT: %v", err)
	}

	want := `INSERT INTO "users" ("name", "age") VALUES (?, ?)`
	if stmt.SQL != want {
		t.Errorf("Expected %q, got %q", want, stmt.SQL)
	}

	wantArgs := []any{"Ann", int64(30)}
	if !reflect.DeepEqual(stmt.Args, wantArgs) {
		t.Errorf("Expected args %v, got %v", wantArgs, stmt.Args)
	}
}

func TestBuildSelectWithConditions(t *testing.T) {
	stmt, err := Build("users", nil, Filters{{"id", 5}}, Select)
	if err != nil {
		t.Fatalf("Failed to build SELECT: %v", err)
	}

	want := `SELECT * FROM "users" WHERE "id" = ?`
	if stmt.SQL != want {
		t.Errorf("Expected %q, got %q", want, stmt.SQL)
	}
	if len(stmt.Args) != 1 || stmt.Args[0] != int64(5) {
		t.Errorf("Expected args [5], got %v", stmt.Args)
	}
}

func TestBuildSelectUnfiltered(t *testing.T) {
	stmt, err := Build("users", nil, nil, Select)
	if err != nil {
		t.Fatalf("Failed to build SELECT: %v", err)
	}

	if stmt.SQL != `SELECT * FROM "users"` {
		t.Errorf("Unexpected SQL: %q", stmt.SQL)
	}
	if len(stmt.Args) != 0 {
		t.Errorf("Expected no args, got %v", stmt.Args)
	}
}

func TestBuildUpdateArgOrder(t *testing.T) {
	stmt, err := Build("t",
		Row{{"a", 1}, {"b", 2}},
		Filters{{"c", 3}},
		Update)
	if err != nil {
		t.Fatalf("Failed to build UPDATE: %v", err)
	}

	want := `UPDATE "t" SET "a" = ?, "b" = ? WHERE "c" = ?`
	if stmt.SQL != want {
		t.Errorf("Expected %q, got %q", want, stmt.SQL)
	}

	// Data values first, condition values after, in written order.
	wantArgs := []any{int64(1), int64(2), int64(3)}
	if !reflect.DeepEqual(stmt.Args, wantArgs) {
		t.Errorf("Expected args %v, got %v", wantArgs, stmt.Args)
	}
}

func TestBuildUpdateWithoutConditions(t *testing.T) {
	stmt, err := Build("t", Row{{"a", 1}}, nil, Update)
	if err != nil {
		t.Fatalf("Failed to build UPDATE: %v", err)
	}

	if strings.Contains(stmt.SQL, "WHERE") {
		t.Errorf("Expected no WHERE clause, got %q", stmt.SQL)
	}
}

func TestBuildDelete(t *testing.T) {
	stmt, err := Build("orders", nil, Filters{{"id", 7}, {"status", "void"}}, Delete)
	if err != nil {
		t.Fatalf("Failed to build DELETE: %v", err)
	}

	want := `DELETE FROM "orders" WHERE "id" = ? AND "status" = ?`
	if stmt.SQL != want {
		t.Errorf("Expected %q, got %q", want, stmt.SQL)
	}
}

func TestBuildDeleteRequiresConditions(t *testing.T) {
	if _, err := Build("t", nil, nil, Delete); !errors.Is(err, ErrNoConditions) {
		t.Errorf("Expected ErrNoConditions for nil conditions, got %v", err)
	}
	if _, err := Build("t", nil, Filters{}, Delete); !errors.Is(err, ErrNoConditions) {
		t.Errorf("Expected ErrNoConditions for empty conditions, got %v", err)
	}
}

func TestBuildInsertRequiresData(t *testing.T) {
	if _, err := Build("t", nil, nil, Insert); !errors.Is(err, ErrEmptyData) {
		t.Errorf("Expected ErrEmptyData, got %v", err)
	}
	if _, err := Build("t", Row{}, nil, Update); !errors.Is(err, ErrEmptyData) {
		t.Errorf("Expected ErrEmptyData, got %v", err)
	}
}

func TestBuildUnknownKind(t *testing.T) {
	_, err := Build("orders", nil, nil, Kind("PATCH"))
	if !errors.Is(err, ErrUnknownKind) {
		t.Fatalf("Expected ErrUnknownKind, got %v", err)
	}
	if !strings.Contains(err.Error(), "PATCH") {
		t.Errorf("Error should name the unrecognized kind: %v", err)
	}
}

// Placeholder count must equal the argument count for every valid build.
func TestPlaceholderParity(t *testing.T) {
	builds := []struct {
		name  string
		data  Row
		conds Filters
		kind  Kind
	}{
		{"select all", nil, nil, Select},
		{"select filtered", nil, Filters{{"a", 1}, {"b", 2}}, Select},
		{"insert", Row{{"a", 1}, {"b", "x"}, {"c", nil}}, nil, Insert},
		{"update", Row{{"a", 1}}, Filters{{"b", 2}, {"c", 3}}, Update},
		{"delete", nil, Filters{{"a", 1}}, Delete},
	}

	for _, b := range builds {
		stmt, err := Build("t", b.data, b.conds, b.kind)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", b.name, err)
		}
		placeholders := strings.Count(stmt.SQL, "?")
		if placeholders != len(stmt.Args) {
			t.Errorf("%s: %d placeholders but %d args in %q",
				b.name, placeholders, len(stmt.Args), stmt.SQL)
		}
	}
}

func TestBuildForPostgresDialect(t *testing.T) {
	stmt, err := BuildFor(PostgresDialect{}, "t",
		Row{{"a", 1}, {"b", 2}},
		Filters{{"c", 3}},
		Update)
	if err != nil {
		t.Fatalf("Failed to build UPDATE: %v", err)
	}

	want := `UPDATE "t" SET "a" = $1, "b" = $2 WHERE "c" = $3`
	if stmt.SQL != want {
		t.Errorf("Expected %q, got %q", want, stmt.SQL)
	}
}

func TestSanitizeIdentifierEscaping(t *testing.T) {
	got := SanitizeIdentifier(`a"b`)
	if got != `"a""b"` {
		t.Errorf(`Expected "a""b", got %s`, got)
	}

	// Stripped of doubled quotes, no bare quote may remain inside.
	inner := strings.TrimSuffix(strings.TrimPrefix(got, `"`), `"`)
	if strings.Contains(strings.ReplaceAll(inner, `""`, ``), `"`) {
		t.Errorf("Unescaped quote in %s", got)
	}
}

func TestSanitizeIdentifierTotal(t *testing.T) {
	inputs := []string{"", `"`, `""`, "users; DROP TABLE users--", "tábla", "\x00\n\t", "--"}
	for _, in := range inputs {
		out := SanitizeIdentifier(in)
		if !strings.HasPrefix(out, `"`) || !strings.HasSuffix(out, `"`) {
			t.Errorf("Identifier %q not wrapped: %s", in, out)
		}
		// Double application must also be safe.
		_ = SanitizeIdentifier(out)
	}
}

func TestMaliciousIdentifierCannotBreakOut(t *testing.T) {
	stmt, err := Build("users", nil, Filters{{`id" = "1" OR "1`, 1}}, Select)
	if err != nil {
		t.Fatalf("Failed to build SELECT: %v", err)
	}
	if strings.Count(stmt.SQL, "?") != 1 {
		t.Errorf("Injection altered placeholder count: %q", stmt.SQL)
	}
}

func TestRowSetAndFiltersWhere(t *testing.T) {
	row := Row{}.Set("a", 1).Set("b", 2)
	if len(row) != 2 || row[0].Column != "a" || row[1].Column != "b" {
		t.Errorf("Row.Set did not preserve order: %v", row)
	}

	f := Filters{}.Where("x", 1).Where("y", 2)
	if len(f) != 2 || f[0].Column != "x" || f[1].Column != "y" {
		t.Errorf("Filters.Where did not preserve order: %v", f)
	}
}
