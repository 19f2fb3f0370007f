// Package logging provides concrete implementations of the teachload.Logger interface.
//
// Available implementations:
//   - ConsoleLogger: logrus-backed, writes tagged lines to stderr
//   - NullLogger: Discards all messages (useful for testing)
//
// All logger implementations are safe for concurrent use by multiple goroutines.
package logging
