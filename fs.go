package fat12

import (
	"errors"
	"os"
	"strings"
	"time"

	"github.com/hwessel/fat12/checkpoint"
	"github.com/spf13/afero"
)

// ErrReadOnly is returned by every operation that would modify the
// filesystem.
var ErrReadOnly = errors.New("fat12 filesystems are read-only")

// Fs exposes the flat root directory of an Image as a read-only afero.Fs.
// Names are human 8.3 names like "TEST.TXT"; there are no subdirectories.
type Fs struct {
	img *Image
}

// NewFs wraps an opened Image as an afero.Fs.
func NewFs(img *Image) *Fs {
	return &Fs{img: img}
}

// Open opens the named file, or the root directory for "", "." and "/".
func (fs *Fs) Open(name string) (afero.File, error) {
	name = strings.Trim(name, "/")
	if name == "" || name == "." {
		return &File{
			fs:          fs.img,
			isDirectory: true,
			stat:        rootFileInfo{},
		}, nil
	}

	padded, err := shortName(name)
	if err != nil {
		return nil, checkpoint.Wrap(err, ErrNotFound)
	}

	entry, err := fs.img.Find(padded[:])
	if err != nil {
		return nil, checkpoint.From(err)
	}

	return &File{
		fs:           fs.img,
		path:         name,
		isDirectory:  entry.Attribute&AttrDirectory != 0,
		isReadOnly:   entry.Attribute&AttrReadOnly != 0,
		isHidden:     entry.Attribute&AttrHidden != 0,
		isSystem:     entry.Attribute&AttrSystem != 0,
		firstCluster: entry.FirstClusterLO,
		stat:         entry.FileInfo(),
	}, nil
}

// OpenFile supports only read-only flags.
func (fs *Fs) OpenFile(name string, flag int, perm os.FileMode) (afero.File, error) {
	if flag&(os.O_WRONLY|os.O_RDWR|os.O_APPEND|os.O_CREATE|os.O_TRUNC) != 0 {
		return nil, checkpoint.From(ErrReadOnly)
	}
	return fs.Open(name)
}

func (fs *Fs) Stat(name string) (os.FileInfo, error) {
	file, err := fs.Open(name)
	if err != nil {
		return nil, checkpoint.From(err)
	}
	defer file.Close()
	return file.Stat()
}

func (fs *Fs) Name() string {
	return "fat12"
}

func (fs *Fs) Create(name string) (afero.File, error) {
	return nil, checkpoint.From(ErrReadOnly)
}

func (fs *Fs) Mkdir(name string, perm os.FileMode) error {
	return checkpoint.From(ErrReadOnly)
}

func (fs *Fs) MkdirAll(path string, perm os.FileMode) error {
	return checkpoint.From(ErrReadOnly)
}

func (fs *Fs) Remove(name string) error {
	return checkpoint.From(ErrReadOnly)
}

func (fs *Fs) RemoveAll(path string) error {
	return checkpoint.From(ErrReadOnly)
}

func (fs *Fs) Rename(oldname, newname string) error {
	return checkpoint.From(ErrReadOnly)
}

func (fs *Fs) Chmod(name string, mode os.FileMode) error {
	return checkpoint.From(ErrReadOnly)
}

func (fs *Fs) Chown(name string, uid, gid int) error {
	return checkpoint.From(ErrReadOnly)
}

func (fs *Fs) Chtimes(name string, atime time.Time, mtime time.Time) error {
	return checkpoint.From(ErrReadOnly)
}
