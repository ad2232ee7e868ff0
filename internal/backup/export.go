// Package backup writes and restores passphrase-encrypted copies of the
// whole stored dataset.
package backup

import (
	"context"
	"fmt"
	"io"

	"github.com/dukerupert/nosso/internal/store"
)

// Export encrypts the stored blob and writes it to w. An empty store exports
// as an empty dataset.
func Export(ctx context.Context, blobs *store.BlobStore, w io.Writer, passphrase string) error {
	data, err := Snapshot(ctx, blobs, passphrase)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write export: %w", err)
	}
	return nil
}

// Snapshot returns the encrypted form of the stored blob.
func Snapshot(ctx context.Context, blobs *store.BlobStore, passphrase string) ([]byte, error) {
	if passphrase == "" {
		return nil, fmt.Errorf("backup passphrase is required")
	}
	raw, err := blobs.LoadRaw(ctx)
	if err != nil {
		return nil, err
	}
	if raw == "" {
		raw = `{"users":[],"couples":[],"tasks":[],"rewards":[],"vouchers":[],"activities":[]}`
	}
	return Encrypt([]byte(raw), passphrase)
}

// Import decrypts an export read from r and replaces the stored blob with
// it. Nothing is written unless the content decodes as a dataset.
func Import(ctx context.Context, blobs *store.BlobStore, r io.Reader, passphrase string) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("read export: %w", err)
	}
	return Restore(ctx, blobs, data, passphrase)
}

// Restore decrypts data and replaces the stored blob with it.
func Restore(ctx context.Context, blobs *store.BlobStore, data []byte, passphrase string) error {
	plaintext, err := Decrypt(data, passphrase)
	if err != nil {
		return err
	}
	if err := blobs.SaveRaw(ctx, string(plaintext)); err != nil {
		return fmt.Errorf("restore dataset: %w", err)
	}
	return nil
}
