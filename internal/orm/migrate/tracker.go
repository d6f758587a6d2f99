// Package migrate tracks the schema version persisted with each collection
// and applies it to the collection metadata
package migrate

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/conduit-lang/jsondb/internal/orm/schema"
)

// CollectionFileExt is the extension of collection files
const CollectionFileExt = ".json"

// ErrMalformedHeader is returned when the first line of a collection file is
// not a schema header
var ErrMalformedHeader = errors.New("malformed collection header")

// header is the first line of every collection file
type header struct {
	SchemaVersion *string `json:"schemaVersion"`
}

// Tracker reads collection file headers from a directory
type Tracker struct {
	dir    string
	logger *zap.Logger
}

// NewTracker creates a tracker for the collection files in dir
func NewTracker(dir string, logger *zap.Logger) *Tracker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Tracker{dir: dir, logger: logger}
}

// CollectionPath returns the file holding a collection
func (t *Tracker) CollectionPath(collection string) string {
	return filepath.Join(t.dir, collection+CollectionFileExt)
}

// ReadVersion returns the schema version stored in a collection file's
// header. found is false when the file does not exist.
func (t *Tracker) ReadVersion(collection string) (version string, found bool, err error) {
	path := t.CollectionPath(collection)
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to open collection %s: %w", collection, err)
	}
	defer f.Close()

	line, err := bufio.NewReader(f).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", false, fmt.Errorf("failed to read collection %s: %w", collection, err)
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return "", false, fmt.Errorf("%w: %s is empty", ErrMalformedHeader, path)
	}

	var h header
	if err := json.Unmarshal([]byte(line), &h); err != nil {
		return "", false, fmt.Errorf("%w: %s: %v", ErrMalformedHeader, path, err)
	}
	if h.SchemaVersion == nil {
		return "", false, fmt.Errorf("%w: %s has no schemaVersion", ErrMalformedHeader, path)
	}

	return *h.SchemaVersion, true, nil
}

// Refresh reads the persisted schema version of d's collection and records
// it on d while holding the collection lock exclusively. A collection
// without a file is left untouched.
func (t *Tracker) Refresh(d *schema.Descriptor) error {
	collection := d.CollectionName()
	version, found, err := t.ReadVersion(collection)
	if err != nil {
		return err
	}
	if !found {
		t.logger.Debug("collection file not found",
			zap.String("collection", collection),
			zap.String("path", t.CollectionPath(collection)))
		return nil
	}

	lock := d.Lock()
	lock.Lock()
	wasReadOnly := d.IsReadOnly()
	d.SetActualSchemaVersion(version)
	readOnly := d.IsReadOnly()
	lock.Unlock()

	switch {
	case readOnly && !wasReadOnly:
		t.logger.Warn("collection schema version mismatch, collection is read-only",
			zap.String("collection", collection),
			zap.String("declared", d.SchemaVersion()),
			zap.String("actual", version))
	case !readOnly && wasReadOnly:
		t.logger.Info("collection schema version compatible again",
			zap.String("collection", collection),
			zap.String("actual", version))
	default:
		t.logger.Debug("collection schema version",
			zap.String("collection", collection),
			zap.String("actual", version),
			zap.Bool("read_only", readOnly))
	}
	return nil
}

// Sync refreshes every collection of reg in registry order. Errors from
// individual collections are collected; cancellation stops the walk.
func (t *Tracker) Sync(ctx context.Context, reg *schema.Registry) error {
	var errs []error
	for name, d := range reg.All() {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		if err := t.Refresh(d); err != nil {
			t.logger.Error("failed to refresh collection schema version",
				zap.String("collection", name), zap.Error(err))
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
