package image

import (
	"archive/zip"
	"bytes"
	"compress/gzip"
	"crypto/sha256"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/xxtea/xxtea-go/xxtea"
)

var rawProgram = []byte{
	0x14, 0x00, 0x00, 0x02, // B instr2
	0xFF, 0xE0, 0x00, 0x00, // HALT
	0xFF, 0x80, 0x00, 0x00, // PRNL
}

func gzipped(t *testing.T, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	if _, err := w.Write(data); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func zipped(t *testing.T, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	f, err := w.Create("program.bin")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.Write(data); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestOpen(t *testing.T) {
	tmpDir := t.TempDir()

	tests := []struct {
		name    string
		content []byte
	}{
		{"program", rawProgram},
		{"empty", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(tmpDir, tt.name+".bin")
			if err := os.WriteFile(path, tt.content, 0644); err != nil {
				t.Fatal(err)
			}

			im, err := Open(path)
			if err != nil {
				t.Fatalf("Open failed: %v", err)
			}
			data := im.Bytes()
			digest := im.Digest()
			if err := im.Close(); err != nil {
				t.Fatalf("Close failed: %v", err)
			}

			if !bytes.Equal(data, tt.content) {
				t.Errorf("Bytes() = %x, want %x", data, tt.content)
			}
			if want := fmt.Sprintf("%x", sha256.Sum256(tt.content)); digest != want {
				t.Errorf("Digest() = %s, want %s", digest, want)
			}
		})
	}
}

func TestOpenMissingFile(t *testing.T) {
	if _, err := Open(filepath.Join(t.TempDir(), "missing.bin")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestUnwrap(t *testing.T) {
	key := "LEGV8KEY"
	encrypted := xxtea.Encrypt(rawProgram, []byte(key))

	tests := []struct {
		name string
		data []byte
		opts Options
	}{
		{"raw", rawProgram, Options{}},
		{"raw with decompress", rawProgram, Options{Decompress: true}},
		{"gzip", gzipped(t, rawProgram), Options{Decompress: true}},
		{"zip", zipped(t, rawProgram), Options{Decompress: true}},
		{"xxtea", encrypted, Options{Key: key}},
		{"xxtea with signature", append([]byte("SIG"), encrypted...), Options{Key: key, Signature: "SIG"}},
		{"xxtea then gzip", xxtea.Encrypt(gzipped(t, rawProgram), []byte(key)), Options{Key: key}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Unwrap(tt.data, tt.opts)
			if err != nil {
				t.Fatalf("Unwrap failed: %v", err)
			}
			if !bytes.Equal(got, rawProgram) {
				t.Errorf("Unwrap() = %x, want %x", got, rawProgram)
			}
		})
	}
}

func TestUnwrapWrongKey(t *testing.T) {
	encrypted := xxtea.Encrypt(rawProgram, []byte("right"))
	if _, err := Unwrap(encrypted, Options{Key: "wrong"}); !errors.Is(err, ErrDecrypt) {
		t.Errorf("Unwrap with wrong key error = %v, want ErrDecrypt", err)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "program.bin.gz")
	stored := gzipped(t, rawProgram)
	if err := os.WriteFile(path, stored, 0644); err != nil {
		t.Fatal(err)
	}

	data, digest, err := Load(path, Options{Decompress: true})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !bytes.Equal(data, rawProgram) {
		t.Errorf("Load() data = %x, want %x", data, rawProgram)
	}
	if want := fmt.Sprintf("%x", sha256.Sum256(stored)); digest != want {
		t.Errorf("Load() digest = %s, want digest of stored file %s", digest, want)
	}
}

func TestUnwrapKeepsRawImagesByDefault(t *testing.T) {
	// Unknown opcode 0x0FC then HALT: starts with the gzip magic.
	gzipLike := []byte{0x1F, 0x8B, 0x00, 0x00, 0xFF, 0xE0, 0x00, 0x00}
	// Unknown opcode 0x282 then HALT: starts with the zip magic.
	zipLike := []byte{0x50, 0x4B, 0x03, 0x04, 0xFF, 0xE0, 0x00, 0x00}

	for _, raw := range [][]byte{gzipLike, zipLike, gzipped(t, rawProgram)} {
		path := filepath.Join(t.TempDir(), "program.bin")
		if err := os.WriteFile(path, raw, 0644); err != nil {
			t.Fatal(err)
		}

		data, _, err := Load(path, Options{})
		if err != nil {
			t.Fatalf("Load(%x) failed: %v", raw, err)
		}
		if !bytes.Equal(data, raw) {
			t.Errorf("Load() = %x, want raw bytes %x", data, raw)
		}
	}

	if _, err := Unwrap(gzipLike, Options{Decompress: true}); err == nil {
		t.Error("expected gzip error when decompression is requested")
	}
}
