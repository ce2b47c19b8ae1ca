// Package logging provides structured logging for blkmenu.
//
// This package wraps zap with convenience functions for the logging
// patterns used throughout the program, plus specialized helpers for
// device actions and external command runs.
//
// Because the program owns the terminal, logging is disabled unless
// requested. Set BLKMENU_LOG_LEVEL to debug, info, warn or error to
// enable output on stderr:
//
//	BLKMENU_LOG_LEVEL=debug blkmenu 2>/tmp/blkmenu.log
//
// # Specialized Logging
//
// Device actions and subprocess invocations have dedicated helpers so
// every backend call leaves a queryable trace:
//
//	logging.LogAction("mount", "/dev/sdb1")
//	logging.LogCommand("udisksctl", args, exitCode)
//
// All logging functions are safe for concurrent use.
package logging
