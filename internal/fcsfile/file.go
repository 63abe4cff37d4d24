// Package fcsfile opens FCS files from disk for pkg/fcs.
package fcsfile

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/sys/unix"

	"github.com/samcharles93/flowfairy/pkg/fcs"
)

// Ext is the file extension Discover looks for.
const Ext = ".fcs"

// File is a read-only, seekable view of an FCS file.
type File struct {
	path    string
	data    []byte
	mmapped bool
	r       io.ReadSeeker
	f       *os.File
	size    int64
}

// Open maps path read-only. If mmap is unavailable it falls back to reading
// through the file handle. The returned File must be closed.
func Open(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	st, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	if st.IsDir() {
		_ = f.Close()
		return nil, fmt.Errorf("%s is a directory", path)
	}
	size := st.Size()
	if size > int64(int(^uint(0)>>1)) {
		_ = f.Close()
		return nil, fmt.Errorf("%s: file too large to map", path)
	}

	if size > 0 {
		data, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_SHARED)
		if err == nil {
			_ = f.Close()
			return &File{
				path:    path,
				data:    data,
				mmapped: true,
				r:       bytes.NewReader(data),
				size:    size,
			}, nil
		}
	}

	return &File{path: path, r: f, f: f, size: size}, nil
}

// Path returns the path the file was opened with.
func (f *File) Path() string { return f.path }

// Size is the file size in bytes.
func (f *File) Size() int64 { return f.size }

// Mapped reports whether the file is served from a memory mapping.
func (f *File) Mapped() bool { return f.mmapped }

func (f *File) Read(p []byte) (int, error) {
	if f.r == nil {
		return 0, os.ErrClosed
	}
	return f.r.Read(p)
}

func (f *File) Seek(offset int64, whence int) (int64, error) {
	if f.r == nil {
		return 0, os.ErrClosed
	}
	return f.r.Seek(offset, whence)
}

// Close releases the mapping or file handle. Decoded data does not alias the
// mapping, so it stays valid after Close.
func (f *File) Close() error {
	if f == nil || f.r == nil {
		return nil
	}
	var err error
	if f.mmapped {
		err = unix.Munmap(f.data)
	} else if f.f != nil {
		err = f.f.Close()
	}
	f.data = nil
	f.r = nil
	f.f = nil
	f.mmapped = false
	return err
}

// Decode opens path, decodes it and closes it again.
func Decode(ctx context.Context, path string, opts ...fcs.Option) (*fcs.FlowData, error) {
	f, err := Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	return fcs.DecodeContext(ctx, f, path, opts...)
}

// Discover lists the FCS files directly inside dir, sorted by name.
func Discover(dir string) ([]string, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, errors.New("directory is empty")
	}
	st, err := os.Stat(dir)
	if err != nil {
		return nil, err
	}
	if !st.IsDir() {
		return nil, fmt.Errorf("not a directory: %s", dir)
	}

	ents, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	files := make([]string, 0, len(ents))
	for _, e := range ents {
		if e.IsDir() {
			continue
		}
		if !strings.EqualFold(filepath.Ext(e.Name()), Ext) {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	sort.Strings(files)
	return files, nil
}

// Expand resolves a mix of file and directory arguments into FCS file paths.
// Directories contribute the files Discover finds; files are kept as given.
func Expand(args []string) ([]string, error) {
	var out []string
	for _, arg := range args {
		st, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !st.IsDir() {
			out = append(out, filepath.Clean(arg))
			continue
		}
		files, err := Discover(arg)
		if err != nil {
			return nil, err
		}
		out = append(out, files...)
	}
	return out, nil
}
