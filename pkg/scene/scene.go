package scene

import (
	"bytes"
	"encoding/json"
	"io"
	"os"

	"github.com/matzehuels/graphplane/pkg/errors"
)

// =============================================================================
// Scene Serialization API
// =============================================================================

// Marshal converts a document to indented JSON bytes.
func Marshal(doc *Document) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeSceneTo(doc, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes JSON bytes into a document.
func Unmarshal(data []byte) (*Document, error) {
	return readSceneFrom(bytes.NewReader(data))
}

// WriteFile writes a document to a JSON file.
// The file is created with 0644 permissions.
func WriteFile(doc *Document, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "create %s", path)
	}
	defer f.Close()
	return writeSceneTo(doc, f)
}

// Write writes a document as JSON to an io.Writer.
func Write(doc *Document, w io.Writer) error {
	return writeSceneTo(doc, w)
}

// ReadFile reads a JSON file and returns the decoded document.
func ReadFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "open %s", path)
	}
	defer f.Close()
	return readSceneFrom(f)
}

// Read decodes a JSON scene from an io.Reader.
func Read(r io.Reader) (*Document, error) {
	return readSceneFrom(r)
}

// =============================================================================
// Internal Implementation
// =============================================================================

func writeSceneTo(doc *Document, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(FromDocument(doc)); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode scene")
	}
	return nil
}

func readSceneFrom(r io.Reader) (*Document, error) {
	var data Scene
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode scene")
	}
	return ToDocument(data)
}
