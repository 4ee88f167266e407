// Package config loads, defaults and validates the todo API settings from an
// optional YAML file and TODO_-prefixed environment variables.
package config
