package repository

import "testing"

func TestContainsClauseSkipsBlankColumns(t *testing.T) {
	clause, args := containsClause(false, "shirt", "name", " ", "slug")
	if clause != `name LIKE ? ESCAPE '\' OR slug LIKE ? ESCAPE '\'` {
		t.Fatalf("unexpected clause: %s", clause)
	}
	if len(args) != 2 || args[0] != "%shirt%" {
		t.Fatalf("unexpected args: %v", args)
	}
}

func TestContainsClausePostgresUsesILike(t *testing.T) {
	clause, _ := containsClause(true, "x", "name")
	if clause != `name ILIKE ? ESCAPE '\'` {
		t.Fatalf("postgres should use ILIKE, got %s", clause)
	}
	if isPostgres(nil) {
		t.Fatalf("nil db should default to sqlite")
	}
}

func TestContainsClauseEscapesWildcards(t *testing.T) {
	_, args := containsClause(false, `50%_off\`, "name")
	if args[0] != `%50\%\_off\\%` {
		t.Fatalf("wildcards should be escaped, got %v", args[0])
	}
}
