// Package store defines the persistence contracts of the todo API and the
// error vocabulary shared by every implementation, together with the
// transaction helper used by the SQL-backed stores.
package store
