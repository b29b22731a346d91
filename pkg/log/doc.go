// Package log is the structured logging facade used across ringwalk.
//
// Workers, transports and the simulation runner log through Logger so that
// library users can plug in their own backend. The CLI wraps a zerolog
// console logger with NewZerologAdapterWithLogger; code that is handed no
// logger falls back to NoopLogger.
package log
