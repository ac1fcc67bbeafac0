// Package datasets reads the offline JSON data files: the required interaction map and the
// optional dosage-limit and contraindication tables.
package datasets

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"time"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

const (
	InteractionsFile      = "drug_interactions.json"
	DosageLimitsFile      = "drug_dosage_limits.json"
	ContraindicationsFile = "drug_contraindications.json"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// readDataFile returns the file content as UTF-8 together with the fingerprint of the bytes
// that were read, so the drift baseline always matches the parsed data.
// Content that is not valid UTF-8 is treated as ISO-8859-1, the encoding of older exports.
// A missing file returns an error wrapping fs.ErrNotExist and a fingerprint with Missing set.
func readDataFile(path string) ([]byte, Fingerprint, error) {
	raw, fp, err := readRaw(path)
	if err != nil {
		return nil, fp, err
	}
	raw = bytes.TrimPrefix(raw, utf8BOM)

	if utf8.Valid(raw) {
		return raw, fp, nil
	}

	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(raw)
	if err != nil {
		return nil, fp, fmt.Errorf("failed to decode %s as ISO-8859-1: %w", path, err)
	}
	return decoded, fp, nil
}

// readRaw reads the file once through a single handle and fingerprints exactly those bytes.
func readRaw(path string) ([]byte, Fingerprint, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, Fingerprint{Path: path, Missing: true}, err
	}
	if err != nil {
		return nil, Fingerprint{Path: path}, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, Fingerprint{Path: path}, fmt.Errorf("failed to stat %s: %w", path, err)
	}

	content, err := io.ReadAll(f)
	if err != nil {
		return nil, Fingerprint{Path: path}, fmt.Errorf("failed to read %s: %w", path, err)
	}

	sum := sha256.Sum256(content)
	return content, Fingerprint{
		Path:    path,
		Size:    int64(len(content)),
		ModTime: info.ModTime(),
		SHA256:  hex.EncodeToString(sum[:]),
	}, nil
}

// Fingerprint identifies the content of a data file at load time.
type Fingerprint struct {
	Path    string    `json:"path"`
	Size    int64     `json:"size"`
	ModTime time.Time `json:"mod_time"`
	SHA256  string    `json:"sha256"`
	Missing bool      `json:"missing,omitempty"`
}

// Equal reports whether two fingerprints describe the same content.
func (f Fingerprint) Equal(other Fingerprint) bool {
	return f.Missing == other.Missing && f.SHA256 == other.SHA256
}

// FingerprintFile hashes the file at path. A missing file yields a fingerprint with Missing set.
func FingerprintFile(path string) (Fingerprint, error) {
	_, fp, err := readRaw(path)
	if errors.Is(err, fs.ErrNotExist) {
		return fp, nil
	}
	if err != nil {
		return Fingerprint{}, err
	}
	return fp, nil
}
