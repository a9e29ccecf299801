// Package validation checks run inputs before the pipeline touches them,
// so path mistakes fail fast with a clear error instead of surfacing as a
// parse failure mid-load.
package validation

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	dberrors "dbdcli/internal/errors"
)

// supported dataset extensions, matching the loader's dispatch.
var datasetExtensions = map[string]bool{
	".csv":  true,
	".xlsx": true,
}

// InputValidator validates dataset and output paths for one run.
type InputValidator struct {
	logger *slog.Logger
}

// NewInputValidator creates a validator.
func NewInputValidator(logger *slog.Logger) *InputValidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &InputValidator{logger: logger}
}

// ValidateDatasetFile checks that the dataset exists, is a regular
// non-empty file, and carries a loadable extension.
func (v *InputValidator) ValidateDatasetFile(path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return dberrors.NewStorageError(
			fmt.Sprintf("dataset file %s does not exist", path), err)
	}
	if err != nil {
		return dberrors.NewStorageError(
			fmt.Sprintf("stat dataset file %s", path), err)
	}
	if info.IsDir() {
		return dberrors.NewSchemaError(
			fmt.Sprintf("dataset path %s is a directory, not a file", path), nil)
	}
	if info.Size() == 0 {
		return dberrors.NewSchemaError(
			fmt.Sprintf("dataset file %s is empty", path), nil)
	}

	ext := strings.ToLower(filepath.Ext(path))
	if !datasetExtensions[ext] {
		return dberrors.NewSchemaError(
			fmt.Sprintf("dataset file %s has unsupported extension %q (want .csv or .xlsx)", path, ext), nil)
	}

	v.logger.Debug("dataset file validated",
		slog.String("path", path),
		slog.Int64("size_bytes", info.Size()))
	return nil
}

// ValidateOutputDir checks that the output path, if it already exists, is a
// directory. A missing path is fine; the exporter creates it.
func (v *InputValidator) ValidateOutputDir(dir string) error {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return dberrors.NewStorageError(
			fmt.Sprintf("stat output directory %s", dir), err)
	}
	if !info.IsDir() {
		return dberrors.NewStorageError(
			fmt.Sprintf("output path %s exists and is not a directory", dir), nil)
	}
	return nil
}
