// Package client contains client-side building blocks for FileVault.
//
// # Overview
//
//  1. A transport-agnostic API contract (see the Client interface) covering
//     registration, login, file upload/list/remove/download and share links.
//  2. A gRPC implementation (see GRPCClient) that injects the access token
//     through a unary interceptor and maps status codes to sentinel errors.
//  3. Local persistence bootstrap (InitDatabase, RunMigrations) wiring an
//     SQLite database and applying embedded goose migrations.
//
// # Error Handling
//
// Server conditions surface as sentinel errors matched with errors.Is:
// ErrUnavailable, ErrUnauthorized, ErrAccountLocked, ErrNotFound,
// ErrAlreadyExists and ErrInvalidArgument. The last one keeps the server's
// message so the CLI can show which field was rejected.
package client
