package assets

import (
	"io"
	"io/fs"
	"os"
)

// File is an open dashboard file that can be streamed with
// http.ServeContent.
type File interface {
	io.ReadSeekCloser
	Stat() (fs.FileInfo, error)
}

// FileSystem gives access to plugin dashboard directories by OS path.
type FileSystem interface {
	Open(name string) (File, error)
	Stat(name string) (fs.FileInfo, error)
}

// OS is the FileSystem backed by the local disk.
type OS struct{}

var _ FileSystem = OS{}

func (OS) Open(name string) (File, error) {
	return os.Open(name)
}

func (OS) Stat(name string) (fs.FileInfo, error) {
	return os.Stat(name)
}

// Exists reports whether name can be stat'ed. Any error, including
// permission errors, reads as "does not exist".
func Exists(fsys FileSystem, name string) bool {
	_, err := fsys.Stat(name)
	return err == nil
}

// ReadFile reads the whole file as a string.
func ReadFile(fsys FileSystem, name string) (string, error) {
	f, err := fsys.Open(name)
	if err != nil {
		return "", err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
