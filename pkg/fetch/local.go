package fetch

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

type localFetcher struct{}

// NewLocal returns a Fetcher for locators that are already files on this
// machine (plain paths or file:// URLs). Remote acquisition is a separate
// collaborator deployed out of process.
func NewLocal() Fetcher {
	return localFetcher{}
}

func (localFetcher) Fetch(ctx context.Context, url, destDir string) (*Result, error) {
	src := strings.TrimPrefix(url, "file://")
	info, err := os.Stat(src)
	if err != nil {
		return nil, fmt.Errorf("locator %q is not a local file: %w", url, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("locator %q is a directory", url)
	}

	dst := filepath.Join(destDir, filepath.Base(src))
	if err := copyFile(src, dst); err != nil {
		return nil, err
	}

	name := filepath.Base(src)
	return &Result{
		FilePath: dst,
		Meta: Metadata{
			Title: strings.TrimSuffix(name, filepath.Ext(name)),
		},
	}, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("copy %s: %w", src, err)
	}
	return out.Close()
}
