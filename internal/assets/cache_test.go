package assets

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func writeAsset(t *testing.T, dir, bucket, name string, data []byte) {
	t.Helper()
	full := filepath.Join(dir, bucket)
	if err := os.MkdirAll(full, 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(full, name), data, 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestResolve_FallbackOrder(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeAsset(t, dir, "", "ad1.jpg", []byte("shared"))
	writeAsset(t, dir, "send01", "ad1.jpg", []byte("bucket"))

	c, err := New(dir)
	if err != nil {
		t.Fatalf("new cache: %v", err)
	}

	// 버킷 자산이 공용보다 우선
	if data, ok := c.Resolve("send01", "ad1.jpg"); !ok || string(data) != "bucket" {
		t.Fatalf("send01/ad1.jpg = %q ok=%v", data, ok)
	}
	// 버킷에 없으면 공용으로 폴백
	if data, ok := c.Resolve("send02", "ad1.jpg"); !ok || string(data) != "shared" {
		t.Fatalf("send02/ad1.jpg = %q ok=%v", data, ok)
	}
	// 저장소에 아예 없으면 내장 공용으로 폴백
	data, ok := c.Resolve("send02", "logo01.jpg")
	if !ok || len(data) == 0 {
		t.Fatalf("bundled fallback missed")
	}
}

func TestReplace_ReloadsWholeCache(t *testing.T) {
	t.Parallel()

	c, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("new cache: %v", err)
	}

	before, _ := c.Resolve("send01", "ad2.jpg")
	next := []byte("replaced-image-bytes")
	if err := c.Replace("send01", "ad2.jpg", next); err != nil {
		t.Fatalf("replace: %v", err)
	}

	after, ok := c.Resolve("send01", "ad2.jpg")
	if !ok || !bytes.Equal(after, next) {
		t.Fatalf("replace not visible: %q", after)
	}
	if bytes.Equal(before, after) {
		t.Fatalf("cache not reloaded")
	}
	// 다른 버킷은 여전히 내장 폴백
	if data, _ := c.Resolve("send02", "ad2.jpg"); bytes.Equal(data, next) {
		t.Fatalf("replacement leaked into other bucket")
	}
}

func TestReplace_RejectsUnknownTarget(t *testing.T) {
	t.Parallel()

	c, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("new cache: %v", err)
	}
	if err := c.Replace("send01", "evil.jpg", []byte("x")); err == nil {
		t.Fatalf("expected error for unknown asset")
	}
	if err := c.Replace("send99", "ad1.jpg", []byte("x")); err == nil {
		t.Fatalf("expected error for unknown bucket")
	}
}
