// Package domain contains the core entities of the todo API: users, their
// avatars and tasks, together with the task status state machine and the
// validation rules every layer relies on.
package domain
