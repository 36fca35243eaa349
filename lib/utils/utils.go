// Package utils holds small helpers shared by the packages of rasterize.
package utils

import (
	"context"
	"os"
	"path/filepath"
	"time"
)

// E if the last arg is error, panic it
func E(args ...interface{}) []interface{} {
	err, ok := args[len(args)-1].(error)
	if ok {
		panic(err)
	}
	return args
}

// Mkdir makes dir recursively
func Mkdir(path string) error {
	return os.MkdirAll(path, 0o775)
}

// OutputFile auto creates the parent dirs if not exists
func OutputFile(p string, data []byte) error {
	err := Mkdir(filepath.Dir(p))
	if err != nil {
		return err
	}

	return os.WriteFile(p, data, 0o664)
}

// FileExists checks if file exists, only for file, not for dir
func FileExists(path string) bool {
	info, err := os.Stat(path)

	if err != nil {
		return false
	}

	if info.IsDir() {
		return false
	}

	return true
}

// Sleep for d, returns the ctx error if ctx is done before that
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
