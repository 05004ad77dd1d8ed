package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestPhotoKey(t *testing.T) {
	key := PhotoKey("obr_1", "fachada.JPG")
	if !strings.HasPrefix(key, "obras/obr_1/") {
		t.Fatalf("unexpected key prefix: %q", key)
	}
	if !strings.HasSuffix(key, ".jpg") {
		t.Fatalf("extension not kept: %q", key)
	}
	if key == PhotoKey("obr_1", "fachada.JPG") {
		t.Fatal("keys must be unique per upload")
	}
}

func TestPhotoKeyNoExtension(t *testing.T) {
	key := PhotoKey("obr_1", "fachada")
	if strings.Contains(key, ".") {
		t.Fatalf("unexpected extension: %q", key)
	}
}

func TestContentTypeFor(t *testing.T) {
	if got := ContentTypeFor("obras/x/a.png"); got != "image/png" {
		t.Fatalf("png: got %q", got)
	}
	if got := ContentTypeFor("obras/x/a.jpeg"); got != "image/jpeg" {
		t.Fatalf("jpeg: got %q", got)
	}
	if got := ContentTypeFor("obras/x/a.bin"); got != "application/octet-stream" {
		t.Fatalf("fallback: got %q", got)
	}
}

func TestLocalDriverRoundTrip(t *testing.T) {
	dir := t.TempDir()
	d := NewLocalDriver(dir, "/uploads/")
	ctx := context.Background()

	url, err := d.Upload(ctx, strings.NewReader("fake-bytes"), "obras/obr_1/p.jpg", "image/jpeg")
	if err != nil {
		t.Fatalf("upload error: %v", err)
	}
	if url != "/uploads/obras/obr_1/p.jpg" {
		t.Fatalf("unexpected url: %q", url)
	}

	data, err := os.ReadFile(filepath.Join(dir, "obras", "obr_1", "p.jpg"))
	if err != nil {
		t.Fatalf("read error: %v", err)
	}
	if string(data) != "fake-bytes" {
		t.Fatalf("unexpected contents: %q", data)
	}

	if !d.Owns(url) {
		t.Fatal("driver must own its own url")
	}
	if d.Owns("https://elsewhere/p.jpg") {
		t.Fatal("driver must not own foreign urls")
	}

	if err := d.Delete(ctx, url); err != nil {
		t.Fatalf("delete error: %v", err)
	}
	// Idempotent on a missing file.
	if err := d.Delete(ctx, url); err != nil {
		t.Fatalf("second delete error: %v", err)
	}
}

func TestLocalDriverRejectsTraversal(t *testing.T) {
	d := NewLocalDriver(t.TempDir(), "/uploads/")
	if _, err := d.Upload(context.Background(), strings.NewReader("x"), "../escape.jpg", "image/jpeg"); err == nil {
		t.Fatal("expected traversal rejection")
	}
}
