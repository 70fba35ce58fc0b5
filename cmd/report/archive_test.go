package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/andresuchdata/deliveryperf/backend-go/internal/storage"
)

// fakeStorage stands in for the bucket in tests.
type fakeStorage struct {
	objects map[string][]byte

	listedPrefix  string
	downloadedKey string
}

func (f *fakeStorage) ListObjects(ctx context.Context, prefix string) ([]storage.ObjectInfo, error) {
	f.listedPrefix = prefix
	var out []storage.ObjectInfo
	for key, data := range f.objects {
		if strings.HasPrefix(key, prefix) {
			out = append(out, storage.ObjectInfo{Key: key, Size: int64(len(data))})
		}
	}
	return out, nil
}

func (f *fakeStorage) DownloadObject(ctx context.Context, key, destPath string) error {
	f.downloadedKey = key
	return os.WriteFile(destPath, f.objects[key], 0o644)
}

func (f *fakeStorage) UploadObject(ctx context.Context, key, contentType string, data []byte) error {
	f.objects[key] = data
	return nil
}

func TestRunListExports(t *testing.T) {
	fake := &fakeStorage{objects: map[string][]byte{
		"reports/executive_kpi.json": []byte(`{}`),
		"other/ignored.txt":          []byte("x"),
	}}

	var sb strings.Builder
	if err := runListExports(context.Background(), fake, &sb); err != nil {
		t.Fatalf("runListExports: %v", err)
	}

	if fake.listedPrefix != exportPrefix {
		t.Errorf("listed prefix %q, want %q", fake.listedPrefix, exportPrefix)
	}
	if !strings.Contains(sb.String(), "reports/executive_kpi.json") {
		t.Errorf("output missing archived export:\n%s", sb.String())
	}
	if strings.Contains(sb.String(), "ignored.txt") {
		t.Errorf("output lists objects outside the export prefix:\n%s", sb.String())
	}
}

func TestRunListExportsEmpty(t *testing.T) {
	fake := &fakeStorage{objects: map[string][]byte{}}

	var sb strings.Builder
	if err := runListExports(context.Background(), fake, &sb); err != nil {
		t.Fatalf("runListExports: %v", err)
	}
	if !strings.Contains(sb.String(), "no archived exports") {
		t.Errorf("empty bucket output = %q", sb.String())
	}
}

func TestRunFetchExport(t *testing.T) {
	fake := &fakeStorage{objects: map[string][]byte{
		"reports/monthly_trend.csv": []byte("month,orders\n3,2\n"),
	}}
	dest := t.TempDir()

	path, err := runFetchExport(context.Background(), fake, "reports/monthly_trend.csv", dest)
	if err != nil {
		t.Fatalf("runFetchExport: %v", err)
	}
	if fake.downloadedKey != "reports/monthly_trend.csv" {
		t.Errorf("downloaded key = %q", fake.downloadedKey)
	}
	if path != filepath.Join(dest, "monthly_trend.csv") {
		t.Errorf("dest path = %q", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read fetched file: %v", err)
	}
	if string(data) != "month,orders\n3,2\n" {
		t.Errorf("fetched content = %q", data)
	}
}
