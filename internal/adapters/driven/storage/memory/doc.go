// Package memory provides in-memory implementations of the driven ports.
// They back tests and `send --dry-run`, where nothing leaves the process.
package memory
