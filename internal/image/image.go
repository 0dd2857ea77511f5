// Package image opens LEGv8 program images and unwraps compressed or
// encrypted containers around the raw instruction stream.
package image

import (
	"archive/zip"
	"bytes"
	"compress/gzip"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"syscall"

	"github.com/xxtea/xxtea-go/xxtea"
)

// ErrDecrypt is returned when XXTEA decryption rejects the key.
var ErrDecrypt = errors.New("xxtea decryption failed")

type Image struct {
	Path string
	All  []byte // read-only mapping of the whole file
	f    *os.File
}

// Open maps the file at path read-only.
func Open(path string) (*Image, error) {
	of, err := os.OpenFile(path, os.O_RDONLY, 0)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}

	fi, err := of.Stat()
	if err != nil {
		of.Close()
		return nil, fmt.Errorf("stat file: %w", err)
	}

	im := &Image{Path: path, f: of}
	if fi.Size() == 0 {
		// mmap rejects zero-length mappings
		im.All = []byte{}
		return im, nil
	}

	all, err := syscall.Mmap(int(of.Fd()), 0, int(fi.Size()), syscall.PROT_READ, syscall.MAP_SHARED)
	if err != nil {
		of.Close()
		return nil, fmt.Errorf("mmap file: %w", err)
	}
	im.All = all
	return im, nil
}

// Close unmaps the memory and closes the underlying file.
func (im *Image) Close() error {
	var err1, err2 error
	if len(im.All) > 0 {
		err1 = syscall.Munmap(im.All)
	}
	im.All = nil
	if im.f != nil {
		err2 = im.f.Close()
		im.f = nil
	}
	if err1 != nil {
		return err1
	}
	return err2
}

// Digest returns the hex sha256 of the raw file contents.
func (im *Image) Digest() string {
	return fmt.Sprintf("%x", sha256.Sum256(im.All))
}

// Bytes returns a private copy of the file contents, safe to use after Close.
func (im *Image) Bytes() []byte {
	return bytes.Clone(im.All)
}

// Options selects the containers Unwrap strips. The zero value reads the
// image as a raw instruction stream.
type Options struct {
	Key        string // XXTEA key; decryption runs only when set
	Signature  string // prefix stripped before decryption, when present
	Decompress bool   // inflate gzip or zip containers
}

func (o Options) decompress() bool {
	return o.Decompress || o.Key != ""
}

// Unwrap returns the raw instruction stream inside data. With a key, data is
// XXTEA-decrypted first. Decompression runs only when requested or after
// decryption, so a raw image whose first bytes resemble gzip or zip magic is
// returned untouched.
func Unwrap(data []byte, opts Options) ([]byte, error) {
	if opts.Key != "" {
		if opts.Signature != "" && bytes.HasPrefix(data, []byte(opts.Signature)) {
			data = data[len(opts.Signature):]
		}
		decrypted := xxtea.Decrypt(data, []byte(opts.Key))
		if decrypted == nil {
			return nil, ErrDecrypt
		}
		slog.Debug("XXTEA decryption successful", "original_size", len(data), "decrypted_size", len(decrypted))
		data = decrypted
	}
	if !opts.decompress() {
		return data, nil
	}
	return decompress(data)
}

// decompress checks for gzip or zip magic and inflates; anything else is
// returned as-is.
func decompress(data []byte) ([]byte, error) {
	if len(data) < 2 {
		return data, nil
	}

	// gzip magic number (0x1F 0x8B)
	if data[0] == 0x1f && data[1] == 0x8b {
		reader, err := gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("gzip reader creation failed: %w", err)
		}
		defer reader.Close()

		decompressed, err := io.ReadAll(reader)
		if err != nil {
			return nil, fmt.Errorf("gzip decompression failed: %w", err)
		}
		slog.Debug("Gzip decompression successful",
			"original_size", len(data), "decompressed_size", len(decompressed))
		return decompressed, nil
	}

	// ZIP local file header "PK\x03\x04"
	if len(data) >= 4 && data[0] == 0x50 && data[1] == 0x4B && data[2] == 0x03 && data[3] == 0x04 {
		reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
		if err != nil {
			return nil, fmt.Errorf("zip reader creation failed: %w", err)
		}
		if len(reader.File) == 0 {
			return nil, fmt.Errorf("zip archive is empty")
		}

		// The first entry holds the program.
		file := reader.File[0]
		rc, err := file.Open()
		if err != nil {
			return nil, fmt.Errorf("failed to open file in zip: %w", err)
		}
		defer rc.Close()

		decompressed, err := io.ReadAll(rc)
		if err != nil {
			return nil, fmt.Errorf("failed to read file from zip: %w", err)
		}
		slog.Debug("ZIP decompression successful", "archive_file", file.Name,
			"original_size", len(data), "decompressed_size", len(decompressed))
		return decompressed, nil
	}

	return data, nil
}

// Load opens path, unwraps it and returns the instruction stream along with
// the digest of the file as stored on disk.
func Load(path string, opts Options) (data []byte, digest string, err error) {
	im, err := Open(path)
	if err != nil {
		return nil, "", err
	}
	defer im.Close()

	data, err = Unwrap(im.Bytes(), opts)
	if err != nil {
		return nil, "", fmt.Errorf("unwrap %s: %w", path, err)
	}
	return data, im.Digest(), nil
}
