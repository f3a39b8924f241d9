package fat12

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// FileInfo adapts the directory entry to an os.FileInfo.
func (h EntryHeader) FileInfo() os.FileInfo {
	return entryHeaderFileInfo{h}
}

type entryHeaderFileInfo struct {
	entry EntryHeader
}

// Name formats the padded 8.3 short name the usual way,
// "TEST    TXT" becomes "TEST.TXT".
func (e entryHeaderFileInfo) Name() string {
	name := strings.TrimRight(string(e.entry.Name[:8]), " ")
	ext := strings.TrimRight(string(e.entry.Name[8:11]), " ")

	if ext != "" {
		name += "."
	}

	return name + ext
}

func (e entryHeaderFileInfo) Size() int64 {
	return int64(e.entry.FileSize)
}

func (e entryHeaderFileInfo) Mode() os.FileMode {
	if e.IsDir() {
		return os.ModeDir
	}
	return 0
}

func (e entryHeaderFileInfo) ModTime() time.Time {
	writeDate := ParseDate(e.entry.WriteDate)
	writeTime := ParseTime(e.entry.WriteTime)

	// A zero date means the field held an invalid value. A zero time is
	// perfectly valid, so only the date decides.
	if writeDate.IsZero() {
		return time.Time{}
	}

	return time.Date(writeDate.Year(), writeDate.Month(), writeDate.Day(), writeTime.Hour(), writeTime.Minute(), writeTime.Second(), 0, time.UTC)
}

func (e entryHeaderFileInfo) IsDir() bool {
	return e.entry.Attribute&AttrDirectory != 0
}

func (e entryHeaderFileInfo) Sys() interface{} {
	return e.entry
}

// rootFileInfo describes the root directory itself, which has no entry of
// its own.
type rootFileInfo struct{}

func (rootFileInfo) Name() string       { return "." }
func (rootFileInfo) Size() int64        { return 0 }
func (rootFileInfo) Mode() os.FileMode  { return os.ModeDir }
func (rootFileInfo) ModTime() time.Time { return time.Time{} }
func (rootFileInfo) IsDir() bool        { return true }
func (rootFileInfo) Sys() interface{}   { return nil }

// shortName converts a human 8.3 name like "test.txt" into the space-padded
// 11-byte on-disk form. The name is folded to upper case.
func shortName(name string) ([11]byte, error) {
	var out [11]byte
	for i := range out {
		out[i] = ' '
	}

	base, ext := name, ""
	if i := strings.LastIndex(name, "."); i >= 0 {
		base, ext = name[:i], name[i+1:]
	}

	if base == "" || len(base) > 8 || len(ext) > 3 {
		return out, fmt.Errorf("%q is no valid 8.3 name", name)
	}

	copy(out[:8], strings.ToUpper(base))
	copy(out[8:], strings.ToUpper(ext))
	return out, nil
}
