package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// DiskOpener writes attachments to a directory and prints links.
type DiskOpener struct {
	dir string
	out io.Writer
}

func NewDiskOpener(dir string, out io.Writer) *DiskOpener {
	return &DiskOpener{dir: dir, out: out}
}

func (o *DiskOpener) OpenURL(_ context.Context, url string) error {
	_, err := fmt.Fprintf(o.out, "Open in a browser: %s\n", url)
	return err
}

func (o *DiskOpener) OpenFile(_ context.Context, fileName string, payload []byte) error {
	if err := os.MkdirAll(o.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", o.dir, err)
	}
	path := filepath.Join(o.dir, filepath.Base(fileName))
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	_, err := fmt.Fprintf(o.out, "Attachment saved to %s\n", path)
	return err
}
