// Package exporter writes enumerated artifacts as deterministic JSON files.
//
// Serialization is byte-stable: payloads are struct types with fixed field
// order, encoded with two-space indent, unescaped UTF-8, and a trailing
// newline. Two runs over identical input produce identical bytes per
// address. The writer also enforces the full-rebuild policy (stale *.json
// files are removed before a run) and treats a repeated address within one
// run as a fatal integrity defect rather than a silent overwrite.
package exporter

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	dberrors "dbdcli/internal/errors"
)

// Writer serializes artifacts into one output directory. It is not safe for
// concurrent use; the pipeline serializes all writes through it.
type Writer struct {
	outDir  string
	logger  *slog.Logger
	written map[string]bool
}

// NewWriter creates a writer rooted at outDir.
func NewWriter(outDir string, logger *slog.Logger) *Writer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Writer{
		outDir:  outDir,
		logger:  logger,
		written: make(map[string]bool),
	}
}

// Clean creates the output directory if needed and removes every *.json
// file in it. Addresses no longer enumerated must not survive from earlier
// runs; the pipeline never patches incrementally.
func (w *Writer) Clean() error {
	if err := os.MkdirAll(w.outDir, 0o755); err != nil {
		return dberrors.NewStorageError(
			fmt.Sprintf("create output directory %s", w.outDir), err)
	}

	stale, err := filepath.Glob(filepath.Join(w.outDir, "*.json"))
	if err != nil {
		return dberrors.NewStorageError("list stale artifacts", err)
	}
	for _, path := range stale {
		if err := os.Remove(path); err != nil {
			return dberrors.NewStorageError(
				fmt.Sprintf("remove stale artifact %s", filepath.Base(path)), err)
		}
	}
	if len(stale) > 0 {
		w.logger.Info("removed stale artifacts", slog.Int("count", len(stale)))
	}
	return nil
}

// Write serializes the payload to its address and returns the byte count.
// A repeated address within one run signals a sanitization defect and fails
// with an integrity error before anything is overwritten.
func (w *Writer) Write(address string, payload any) (int64, error) {
	if w.written[address] {
		return 0, dberrors.NewIntegrityError(
			fmt.Sprintf("address collision: %s written twice in one run", address), nil)
	}

	data, err := Marshal(payload)
	if err != nil {
		return 0, dberrors.NewStorageError(
			fmt.Sprintf("encode artifact %s", address), err)
	}
	if err := os.WriteFile(filepath.Join(w.outDir, address), data, 0o644); err != nil {
		return 0, dberrors.NewStorageError(
			fmt.Sprintf("write artifact %s", address), err)
	}

	w.written[address] = true
	return int64(len(data)), nil
}

// Addresses returns every address written so far, sorted.
func (w *Writer) Addresses() []string {
	out := make([]string, 0, len(w.written))
	for address := range w.written {
		out = append(out, address)
	}
	sort.Strings(out)
	return out
}

// Marshal encodes a payload in the artifact wire form: two-space indent,
// no HTML escaping, trailing newline.
func Marshal(payload any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(payload); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
