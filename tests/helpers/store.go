// Package helpers holds constructors shared by package tests.
package helpers

import (
	"context"
	"testing"

	"github.com/xiaot623/gogo/lecturechat/internal/repository"
	"github.com/xiaot623/gogo/lecturechat/policy"
)

// NewTestSQLiteStore returns an in-memory SQLite store closed at test end.
func NewTestSQLiteStore(t *testing.T) *repository.SQLiteStore {
	t.Helper()
	db, err := repository.NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() {
		_ = db.Close()
	})
	return db
}

// NewTestPolicyEngine returns an engine loaded with the default policy.
func NewTestPolicyEngine(t *testing.T) *policy.Engine {
	t.Helper()
	engine, err := policy.NewEngine(context.Background(), policy.DefaultPolicy)
	if err != nil {
		t.Fatalf("NewEngine failed: %v", err)
	}
	return engine
}
