// Package mocks provides shared test doubles for the store, auth and avatar
// URL interfaces.
//
// Two styles are available. Testify mocks (MockTaskStore,
// TestifyMockUserStore) are used when a test needs to assert exact calls.
// Function-field mocks with in-memory defaults (InMemoryTaskStore,
// MockUserStore, MockJWTService, MockPasswordVerifier, MockAvatarURLs) are
// used when a test only needs plausible behavior:
//
//	tasks := mocks.NewInMemoryTaskStore()
//	tasks.AddUser(userID)
//	svc := service.NewTaskService(tasks, time.Now, nil)
package mocks
