// Package cli implements the interactive FileVault command line: a small
// REPL over the auth and file services, with prompts read from stdin and
// passwords read without echo.
package cli
