package repositories

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DiskBlobStore writes images into a local directory that the router serves
// under baseURL. Used when no bucket is configured.
type DiskBlobStore struct {
	dir     string
	baseURL string
	now     func() time.Time
	newID   func() string
}

func NewDiskBlobStore(dir, baseURL string) (*DiskBlobStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &DiskBlobStore{dir: dir, baseURL: strings.TrimRight(baseURL, "/"), now: time.Now, newID: uuid.NewString}, nil
}

func (d *DiskBlobStore) Dir() string {
	return d.dir
}

// Store saves the upload as <name>.<unix millis>-<uuid>.<ext>. Existing
// files are never overwritten.
func (d *DiskBlobStore) Store(ctx context.Context, upload Upload) (string, error) {
	var (
		name    string
		dstPath string
		dst     *os.File
		err     error
	)
	for attempt := 0; attempt < 3; attempt++ {
		name = d.fileName(upload.Filename)
		dstPath = filepath.Join(d.dir, name)
		dst, err = os.OpenFile(dstPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if !errors.Is(err, fs.ErrExist) {
			break
		}
	}
	if err != nil {
		return "", fmt.Errorf("create %s: %w", name, err)
	}

	if _, err := io.Copy(dst, upload.Body); err != nil {
		_ = dst.Close()
		_ = os.Remove(dstPath)
		return "", fmt.Errorf("write %s: %w", name, err)
	}
	if err := dst.Close(); err != nil {
		_ = os.Remove(dstPath)
		return "", fmt.Errorf("close %s: %w", name, err)
	}
	return d.baseURL + "/" + name, nil
}

// Delete removes the file behind url. A file that is already gone is not an
// error.
func (d *DiskBlobStore) Delete(ctx context.Context, url string) error {
	name, ok := strings.CutPrefix(url, d.baseURL+"/")
	if !ok || name == "" || strings.Contains(name, "/") || name == ".." {
		return fmt.Errorf("image url %q is not served by this store", url)
	}
	err := os.Remove(filepath.Join(d.dir, name))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove %s: %w", name, err)
	}
	return nil
}

func (d *DiskBlobStore) fileName(original string) string {
	base := path.Base(filepath.ToSlash(original))
	ext := strings.ToLower(path.Ext(base))
	if ext == "." {
		ext = ""
	}
	stem := strings.TrimSuffix(base, path.Ext(base))
	stem = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, stem)
	if stem == "" || stem == "." {
		stem = "image"
	}
	return stem + "." + strconv.FormatInt(d.now().UnixMilli(), 10) + "-" + d.newID() + ext
}
