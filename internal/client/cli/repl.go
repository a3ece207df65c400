package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output.
var printlnFn = fmt.Println

// execIface is the command surface the REPL dispatches to. App satisfies it.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Upload(ctx context.Context, args []string) error
	List(ctx context.Context) error
	Remove(ctx context.Context, args []string) error
	Download(ctx context.Context, args []string) error
	Share(ctx context.Context, args []string) error
	Links(ctx context.Context, args []string) error
	Revoke(ctx context.Context, args []string) error
	Fetch(ctx context.Context, args []string) error
}

// runREPL reads commands line by line from in and dispatches them to a.
// It returns on EOF or on "exit"/"quit". Handler errors are reported by the
// handlers themselves.
//
//	Not logged in: help, register, login, fetch, exit
//	Logged in:     help, upload, (l)ist, download, remove, share, links,
//	               revoke, fetch, logout, exit
func runREPL(ctx context.Context, a execIface, statusFn func() string, in *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("fv %s> ", statusFn()))
		line, err := readLine(in)
		if err != nil {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		if requiresLogin(cmd) && !a.isLoggedIn() {
			printlnFn("Please login first")
			continue
		}

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: upload <path>, (l)ist, download <id>, remove <id>, share <id> [expiry], links <id>, revoke <token>, fetch <token|url>, logout, exit")
			} else {
				printlnFn("Available commands: register, login, fetch <token|url>, exit")
			}

		case "register":
			_ = a.Register(ctx)

		case "login":
			_ = a.Login(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "upload":
			_ = a.Upload(ctx, args)

		case "l", "list":
			_ = a.List(ctx)

		case "remove", "rm":
			_ = a.Remove(ctx, args)

		case "download", "get":
			_ = a.Download(ctx, args)

		case "share":
			_ = a.Share(ctx, args)

		case "links":
			_ = a.Links(ctx, args)

		case "revoke":
			_ = a.Revoke(ctx, args)

		case "fetch":
			_ = a.Fetch(ctx, args)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}

func requiresLogin(cmd string) bool {
	switch cmd {
	case "upload", "l", "list", "remove", "rm", "download", "get", "share", "links", "revoke", "logout":
		return true
	}
	return false
}
