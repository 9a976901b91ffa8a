package database

import (
	"path/filepath"
	"testing"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	db, err := Initialize(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestExecReturningID(t *testing.T) {
	db := testDB(t)

	if _, err := db.Exec(`CREATE TABLE games (id INTEGER PRIMARY KEY AUTOINCREMENT, slug TEXT NOT NULL)`); err != nil {
		t.Fatalf("create table: %v", err)
	}

	id, err := db.ExecReturningID("INSERT INTO games (slug) VALUES (?)", "completa-la-palabra")
	if err != nil {
		t.Fatalf("ExecReturningID: %v", err)
	}
	if id != 1 {
		t.Errorf("first insert id = %d, want 1", id)
	}

	id, err = db.ExecReturningID("INSERT INTO games (slug) VALUES (?)", "encuentra-el-error")
	if err != nil {
		t.Fatalf("ExecReturningID: %v", err)
	}
	if id != 2 {
		t.Errorf("second insert id = %d, want 2", id)
	}
}

func TestUpsertTrialAccumulates(t *testing.T) {
	db := testDB(t)

	if _, err := db.Exec(`
		CREATE TABLE cognitive_trials (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id INTEGER NOT NULL,
			question_id INTEGER NOT NULL,
			level INTEGER NOT NULL,
			attempts INTEGER NOT NULL,
			is_correct BOOLEAN NOT NULL,
			response_time_ms INTEGER NOT NULL,
			points_earned INTEGER NOT NULL,
			selected_option TEXT NOT NULL DEFAULT '',
			hint_used BOOLEAN NOT NULL DEFAULT 0,
			audio_replays INTEGER NOT NULL DEFAULT 0,
			confusion_type TEXT NOT NULL DEFAULT '',
			UNIQUE (session_id, question_id)
		)`); err != nil {
		t.Fatalf("create table: %v", err)
	}

	upsert := db.Dialect.UpsertTrialQuery()
	if _, err := db.Exec(upsert, 1, 4, 1, 1, false, 8000, 0, "Z", false, 0, ""); err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	if _, err := db.Exec(upsert, 1, 4, 1, 2, true, 12000, 10, "PELOTA", true, 0, ""); err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	var count, attempts, points int
	var correct bool
	if err := db.QueryRow("SELECT COUNT(*) FROM cognitive_trials").Scan(&count); err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("row count = %d, want 1 (upsert should replace)", count)
	}
	err := db.QueryRow("SELECT attempts, is_correct, points_earned FROM cognitive_trials WHERE session_id = ? AND question_id = ?", 1, 4).
		Scan(&attempts, &correct, &points)
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if attempts != 2 || !correct || points != 10 {
		t.Errorf("trial = attempts %d correct %v points %d", attempts, correct, points)
	}
}

func TestTransactionRollback(t *testing.T) {
	db := testDB(t)

	if _, err := db.Exec(`CREATE TABLE games (id INTEGER PRIMARY KEY AUTOINCREMENT, slug TEXT NOT NULL)`); err != nil {
		t.Fatalf("create table: %v", err)
	}

	tx, err := db.Begin()
	if err != nil {
		t.Fatalf("Begin: %v", err)
	}
	if _, err := tx.ExecReturningID("INSERT INTO games (slug) VALUES (?)", "ordenar-palabras"); err != nil {
		t.Fatalf("insert in tx: %v", err)
	}
	if err := tx.Rollback(); err != nil {
		t.Fatalf("Rollback: %v", err)
	}

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM games").Scan(&count); err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 0 {
		t.Errorf("rolled-back insert persisted, count = %d", count)
	}
}
