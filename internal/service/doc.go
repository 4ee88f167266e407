// Package service contains the application use cases. It sits between the
// HTTP handlers and the store interfaces, applies the rules that span more
// than one call (ownership checks, skipped no-op writes, avatar URL
// provisioning) and translates store errors into the service vocabulary.
//
// Services receive their dependencies, including the clock, through their
// constructors and never depend on a concrete store implementation.
package service
