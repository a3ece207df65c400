package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/filevault/internal/client/client"
	"github.com/dmitrijs2005/filevault/internal/common"
)

func (a *App) Register(ctx context.Context) error {
	name, err := GetSimpleText(a.reader, "Enter your name", a.out)
	if err != nil {
		return err
	}
	email, err := GetSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := GetPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	ctx, cancel := a.callCtx(ctx)
	defer cancel()

	if err := a.auth.Register(ctx, name, email, password); err != nil {
		a.report(err)
		return err
	}
	printlnFn("Registered. You can login now.")
	return nil
}

func (a *App) Login(ctx context.Context) error {
	email, err := GetSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := GetPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	ctx, cancel := a.callCtx(ctx)
	defer cancel()

	if err := a.auth.Login(ctx, email, password); err != nil {
		a.report(err)
		return err
	}
	a.email = email
	printlnFn("Login successful")
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	if err := a.auth.Logout(ctx); err != nil {
		a.report(err)
		return err
	}
	a.email = ""
	printlnFn("Logged out")
	return nil
}

func (a *App) Upload(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usage("upload <path>")
	}
	ctx, cancel := a.callCtx(ctx)
	defer cancel()

	fi, err := a.files.Upload(ctx, args[0])
	if err != nil {
		return a.fail(err)
	}
	printlnFn(fmt.Sprintf("Uploaded %s (%s, %d bytes) id=%s", fi.OriginalName, fi.MimeType, fi.SizeBytes, fi.ID))
	return nil
}

func (a *App) List(ctx context.Context) error {
	ctx, cancel := a.callCtx(ctx)
	defer cancel()

	files, err := a.files.List(ctx)
	if err != nil {
		return a.fail(err)
	}
	if len(files) == 0 {
		printlnFn("No files")
		return nil
	}
	for _, f := range files {
		printlnFn(fmt.Sprintf("%s  %-30s %-20s %10d  %s  downloads=%d",
			f.ID, f.OriginalName, f.MimeType, f.SizeBytes, formatTime(f.UploadedAt), f.DownloadCount))
	}
	return nil
}

func (a *App) Remove(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usage("remove <id>")
	}
	ctx, cancel := a.callCtx(ctx)
	defer cancel()

	r, err := a.files.Remove(ctx, args[0])
	if err != nil {
		return a.fail(err)
	}
	printlnFn(fmt.Sprintf("Removed %s (%s, %d link(s) revoked)", r.FileID, r.Outcome, r.RevokedLinks))
	return nil
}

func (a *App) Download(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usage("download <id>")
	}
	ctx, cancel := a.callCtx(ctx)
	defer cancel()

	path, err := a.files.Download(ctx, args[0])
	if err != nil {
		return a.fail(err)
	}
	printlnFn("Saved to", path)
	return nil
}

// Share takes an optional expiry, e.g. "share <id> 2025-05-01 12:00:00".
func (a *App) Share(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return usage("share <id> [YYYY-MM-DD HH:MM:SS]")
	}
	expiry := strings.Join(args[1:], " ")

	ctx, cancel := a.callCtx(ctx)
	defer cancel()

	l, err := a.files.Share(ctx, args[0], expiry)
	if err != nil {
		return a.fail(err)
	}
	target := l.URL
	if target == "" {
		target = l.Token
	}
	printlnFn(fmt.Sprintf("Link: %s (expires %s UTC)", target, formatTime(l.ExpiresAt)))
	return nil
}

func (a *App) Links(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usage("links <id>")
	}
	ctx, cancel := a.callCtx(ctx)
	defer cancel()

	links, err := a.files.Links(ctx, args[0])
	if err != nil {
		return a.fail(err)
	}
	if len(links) == 0 {
		printlnFn("No active links")
		return nil
	}
	for _, l := range links {
		printlnFn(fmt.Sprintf("%s  expires %s UTC", l.Token, formatTime(l.ExpiresAt)))
	}
	return nil
}

func (a *App) Revoke(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usage("revoke <token>")
	}
	ctx, cancel := a.callCtx(ctx)
	defer cancel()

	if err := a.files.Revoke(ctx, args[0]); err != nil {
		return a.fail(err)
	}
	printlnFn("Link revoked")
	return nil
}

func (a *App) Fetch(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usage("fetch <token|url>")
	}
	ctx, cancel := a.callCtx(ctx)
	defer cancel()

	path, err := a.files.Fetch(ctx, args[0])
	if err != nil {
		return a.fail(err)
	}
	printlnFn("Saved to", path)
	return nil
}

// fail reports err and drops the local login when the server rejected the session.
func (a *App) fail(err error) error {
	a.report(err)
	if errors.Is(err, client.ErrUnauthorized) && a.email != "" {
		_ = a.auth.Logout(context.Background())
		a.email = ""
	}
	return err
}

func usage(u string) error {
	printlnFn("Usage:", u)
	return errUsage
}

var errUsage = errors.New("usage")
