// Package jsonfile reads and writes the JSON files exchanged between the
// discover and push commands.
package jsonfile

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"riskblock/pkg/serrors"
)

// Read decodes the file at path into v. A missing file is NOT_FOUND and
// malformed content is BAD_REQUEST, both naming the file.
func Read(path string, v any) error {
	b, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return serrors.Wrap(serrors.ErrNotFound, err, "file %s not found", path)
	}
	if err != nil {
		return fmt.Errorf("could not read %s: %w", path, err)
	}

	if err := json.Unmarshal(b, v); err != nil {
		return serrors.Wrap(serrors.ErrBadRequest, err, "file %s is not valid JSON", path)
	}

	return nil
}

// Write encodes v with four-space indentation and replaces the file at path.
// The content is written to a temporary file first so readers never see a
// partial document.
func Write(path string, v any) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("could not encode %s: %w", path, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("could not create %s: %w", path, err)
	}
	defer func() {
		_ = os.Remove(tmp.Name())
	}()

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		_ = tmp.Close()

		return fmt.Errorf("could not write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("could not write %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("could not write %s: %w", path, err)
	}

	return nil
}
