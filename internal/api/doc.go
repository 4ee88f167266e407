// Package api holds the HTTP handlers for users, sessions and tasks. It
// decodes and validates requests, calls the services and maps their errors
// to status codes and client-safe messages.
package api
