package db

import (
	"context"
	"io"
	"strings"
	"testing"
)

func TestDetectScheme(t *testing.T) {
	cases := []struct {
		path string
		want urlScheme
	}{
		{"s3://bucket/key.csv", schemeS3},
		{"S3://bucket/key.csv", schemeS3},
		{"https://example.com/data.csv", schemeHTTPS},
		{"http://example.com/data.csv", schemeHTTP},
		{"file:///tmp/data.csv", schemeFile},
		{"/tmp/data.csv", schemeLocal},
		{"data.csv", schemeLocal},
	}

	for _, c := range cases {
		if got := detectScheme(c.path); got != c.want {
			t.Errorf("detectScheme(%q) = %s, want %s", c.path, got, c.want)
		}
	}
}

func TestParseS3URL(t *testing.T) {
	bucket, key, err := parseS3URL("s3://mybucket/exports/users.csv")
	if err != nil {
		t.Fatalf("Failed to parse S3 URL: %v", err)
	}
	if bucket != "mybucket" || key != "exports/users.csv" {
		t.Errorf("Unexpected parse: %s / %s", bucket, key)
	}

	if _, _, err := parseS3URL("s3://bucketonly"); err == nil {
		t.Error("Expected error for URL without key")
	}
}

func TestOpenHTTPReaderHonorsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := openHTTPReader(ctx, "http://example.com/data.csv"); err == nil {
		t.Fatal("Expected error for canceled context")
	}
}

func TestOpenRemoteWriterRejectsHTTP(t *testing.T) {
	if _, err := openRemoteWriter(context.Background(), "https://example.com/data.csv", nil); err == nil {
		t.Fatal("Expected error for HTTP writer")
	}
}

type readCloser struct {
	io.Reader
	closed bool
}

func (r *readCloser) Close() error { r.closed = true; return nil }

func TestOpenRemoteReaderLocalAndFileURL(t *testing.T) {
	var opened []string
	restore := osOpen
	osOpen = func(path string) (io.ReadCloser, error) {
		opened = append(opened, path)
		return &readCloser{Reader: strings.NewReader("")}, nil
	}
	defer func() { osOpen = restore }()

	if _, err := openRemoteReader(context.Background(), "/tmp/data.csv", nil); err != nil {
		t.Fatalf("Failed to open local path: %v", err)
	}
	if _, err := openRemoteReader(context.Background(), "file:///tmp/data.csv", nil); err != nil {
		t.Fatalf("Failed to open file URL: %v", err)
	}

	if len(opened) != 2 || opened[0] != "/tmp/data.csv" || opened[1] != "/tmp/data.csv" {
		t.Errorf("file:// prefix must be stripped: %v", opened)
	}
}

func TestS3WriterClosedRejectsWrites(t *testing.T) {
	w := &s3Writer{closed: true}
	if _, err := w.Write([]byte("x")); err == nil {
		t.Error("Expected error writing to closed writer")
	}
}
