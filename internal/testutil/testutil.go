// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package testutil provides shared test helpers for the agency site.
package testutil

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/alexedwards/scs/v2"
	_ "github.com/mattn/go-sqlite3"

	"github.com/olegiv/agency-go/internal/auth"
	"github.com/olegiv/agency-go/internal/model"
	"github.com/olegiv/agency-go/internal/session"
	"github.com/olegiv/agency-go/internal/store"
)

// TestLogger creates a test logger that only outputs warnings and errors.
func TestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))
}

// TestDB creates a migrated SQLite database file in a temp directory using
// the production driver. The database is closed when the test ends.
func TestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := store.NewDB(store.DriverSQLite, filepath.Join(t.TempDir(), "agency-test.db"))
	if err != nil {
		t.Fatalf("NewDB: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := store.Migrate(db, store.DriverSQLite); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	return db
}

// MemoryDB creates a migrated in-memory SQLite database. The pool is pinned
// to a single connection since every new connection would see an empty
// database.
func MemoryDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:?_foreign_keys=on")
	if err != nil {
		t.Fatalf("opening memory database: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	if err := store.Migrate(db, store.DriverSQLite); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	return db
}

// CreateAdmin inserts an admin user with the given password.
func CreateAdmin(t *testing.T, q *store.Queries, email, password string) model.User {
	t.Helper()
	return createUser(t, q, email, password, model.RoleAdmin)
}

// CreateEditor inserts a non-admin user with the given password.
func CreateEditor(t *testing.T, q *store.Queries, email, password string) model.User {
	t.Helper()
	return createUser(t, q, email, password, model.RoleEditor)
}

func createUser(t *testing.T, q *store.Queries, email, password string, role model.Role) model.User {
	t.Helper()

	hash, err := auth.HashPassword(password)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	u, err := q.CreateUser(context.Background(), model.UserInput{
		Email:        email,
		Name:         "Test " + string(role),
		PasswordHash: hash,
		Role:         role,
	})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	return u
}

// LoginCookie logs u in through sm and returns the issued session cookie.
func LoginCookie(t *testing.T, sm *scs.SessionManager, u model.User) *http.Cookie {
	t.Helper()

	h := sm.LoadAndSave(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := session.Login(r.Context(), sm, u); err != nil {
			t.Errorf("session.Login: %v", err)
		}
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/login", nil))

	for _, c := range rec.Result().Cookies() {
		if c.Name == sm.Cookie.Name {
			return c
		}
	}
	t.Fatal("login did not issue a session cookie")
	return nil
}
