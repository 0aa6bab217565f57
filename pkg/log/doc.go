// Package log provides named, leveled loggers on top of the standard
// library logger.
//
// Every component asks for its own logger with ForService and every line
// carries the level and the service name:
//
//	l := log.ForService("search")
//	l.Infof("searched %d sets", n)
//	l.Debugf("compiled %s", sql) // printed only when debug is on
//
// Debug output can be enabled for everything (SetGlobalDebug, wired to the
// --debug flag) or for single services (EnableDebugFor, or SetDebugServices
// fed by the [log] debug_services setting). SetOutput moves
// every logger, existing ones included, to another writer, which is what
// tests use to capture output.
//
// All functions are safe for concurrent use.
package log
