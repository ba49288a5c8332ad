package db

import "testing"

func TestRebind(t *testing.T) {
	q := "SELECT url FROM user_photos WHERE place_id = ? AND lat BETWEEN ? AND ?"

	if got := Rebind(DialectSQLite, q); got != q {
		t.Fatalf("sqlite rebind changed query: %q", got)
	}

	want := "SELECT url FROM user_photos WHERE place_id = $1 AND lat BETWEEN $2 AND $3"
	if got := Rebind(DialectPostgres, q); got != want {
		t.Fatalf("postgres rebind = %q, want %q", got, want)
	}
}

func TestOpenByDriver(t *testing.T) {
	conn, dialect, err := OpenByDriver("SQLite", ":memory:", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer conn.Close()
	if dialect != DialectSQLite {
		t.Fatalf("dialect = %s, want sqlite", dialect)
	}

	if _, _, err := OpenByDriver("pgx", "", " "); err == nil {
		t.Fatal("expected error for postgres without DATABASE_URL")
	}
	if _, _, err := OpenByDriver("mysql", "", ""); err == nil {
		t.Fatal("expected error for unsupported driver")
	}
}
