//go:build integration

// Package testdb connects integration tests to a real PostgreSQL database.
//
// Tests call GetTestDBWithT, which skips when no database URL is configured,
// applies the embedded migrations once per process and closes the pool on
// cleanup. Stores manage their own transactions, so tests isolate themselves
// by creating fresh users with CreateTestUser; deleting a user cascades to
// its avatar and tasks.
//
// The database URL is read from TODO_TEST_DATABASE_URL, then DATABASE_URL.
package testdb
