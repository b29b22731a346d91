// Package ports defines the interfaces (ports) that connect the application
// layer to infrastructure adapters.
//
// # Port Interfaces
//
//   - [MigrationChannel]: moves walker batches between ring neighbors
//   - [ReportRepository]: persists the summary of a finished run
//
// # Usage
//
// The application layer (internal/app) depends only on these interfaces.
// Infrastructure adapters (internal/adapters) implement them with concrete
// transports (in-process channels, TCP) and storage (JSON files).
package ports
