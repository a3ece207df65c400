// Package filestore keeps uploaded bytes under server-generated names.
//
// Two backends exist: LocalStore writes into a single directory, S3Store
// writes into one bucket of an S3-compatible service. Neither overwrites an
// existing name.
package filestore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/filevault/internal/common"
)

// Store is the byte store used by the access services.
//
// Put fails with common.ErrorAlreadyExists if name is taken. Get and Delete
// fail with common.ErrorNotFound if name is absent. I/O failures are
// *common.StoreError.
type Store interface {
	Put(ctx context.Context, name string, r io.Reader) error
	Get(ctx context.Context, name string) (io.ReadCloser, error)
	Delete(ctx context.Context, name string) error
	Exists(ctx context.Context, name string) (bool, error)
}

var errBadName = errors.New("invalid stored name")

// checkName accepts a single opaque path element only.
func checkName(name string) error {
	switch {
	case name == "", name == ".", name == "..":
		return errBadName
	case strings.HasPrefix(name, "."):
		return errBadName
	case strings.ContainsAny(name, "/\\\x00"):
		return errBadName
	}
	return nil
}

func storeErr(op, name string, err error) error {
	return &common.StoreError{Op: op, Err: fmt.Errorf("%s: %w", name, err)}
}
