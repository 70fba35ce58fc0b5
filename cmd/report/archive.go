package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/andresuchdata/deliveryperf/backend-go/internal/config"
	"github.com/andresuchdata/deliveryperf/backend-go/internal/storage"
	"github.com/urfave/cli/v2"
)

// exportPrefix is where build --upload archives exports in the bucket.
const exportPrefix = "reports/"

func storageFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "storage-endpoint", EnvVars: []string{"STORAGE_ENDPOINT"}},
		&cli.StringFlag{Name: "storage-access-key", EnvVars: []string{"STORAGE_ACCESS_KEY"}},
		&cli.StringFlag{Name: "storage-secret-key", EnvVars: []string{"STORAGE_SECRET_KEY"}},
		&cli.StringFlag{Name: "storage-bucket", EnvVars: []string{"STORAGE_BUCKET"}},
		&cli.StringFlag{Name: "storage-region", Value: "us-east-1", EnvVars: []string{"STORAGE_REGION"}},
		&cli.BoolFlag{Name: "storage-use-ssl", Value: true, EnvVars: []string{"STORAGE_USE_SSL"}},
	}
}

func newStorageClient(c *cli.Context) (storage.ObjectStorage, error) {
	return storage.NewMinioClient(config.StorageConfig{
		Endpoint:  c.String("storage-endpoint"),
		AccessKey: c.String("storage-access-key"),
		SecretKey: c.String("storage-secret-key"),
		Bucket:    c.String("storage-bucket"),
		Region:    c.String("storage-region"),
		UseSSL:    c.Bool("storage-use-ssl"),
	})
}

func listExports(c *cli.Context) error {
	client, err := newStorageClient(c)
	if err != nil {
		return err
	}
	return runListExports(c.Context, client, os.Stdout)
}

func fetchExport(c *cli.Context) error {
	key := c.Args().First()
	if key == "" {
		return fmt.Errorf("an object key is required (see 'exports list')")
	}

	client, err := newStorageClient(c)
	if err != nil {
		return err
	}

	destPath, err := runFetchExport(c.Context, client, key, c.String("dest"))
	if err != nil {
		return err
	}
	fmt.Printf("downloaded %s to %s\n", key, destPath)
	return nil
}

func runListExports(ctx context.Context, client storage.ObjectStorage, out io.Writer) error {
	objects, err := client.ListObjects(ctx, exportPrefix)
	if err != nil {
		return err
	}
	if len(objects) == 0 {
		fmt.Fprintln(out, "no archived exports")
		return nil
	}
	for _, o := range objects {
		fmt.Fprintf(out, "%-40s %8d bytes\n", o.Key, o.Size)
	}
	return nil
}

func runFetchExport(ctx context.Context, client storage.ObjectStorage, key, destDir string) (string, error) {
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to ensure dest dir %s: %w", destDir, err)
	}

	destPath := filepath.Join(destDir, filepath.Base(key))
	if err := client.DownloadObject(ctx, key, destPath); err != nil {
		return "", err
	}
	return destPath, nil
}
