package fat12

import (
	"errors"
	"io"
	"os"
	"reflect"
	"syscall"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/spf13/afero"
)

// fileTestFields is essentially a copy of the File struct used to fill the
// unit under test in test cases.
type fileTestFields struct {
	path         string
	isDirectory  bool
	isReadOnly   bool
	isHidden     bool
	isSystem     bool
	firstCluster uint16
	stat         os.FileInfo
	offset       int64
}

// fakeFileInfo is just a fake FileInfo which does nothing and contains only
// a size to have something to check against.
type fakeFileInfo struct {
	fileSize int64
}

func (f fakeFileInfo) Name() string       { return "" }
func (f fakeFileInfo) Size() int64        { return f.fileSize }
func (f fakeFileInfo) Mode() os.FileMode  { return 0 }
func (f fakeFileInfo) ModTime() time.Time { return time.Time{} }
func (f fakeFileInfo) IsDir() bool        { return false }
func (f fakeFileInfo) Sys() interface{}   { return nil }

// fileTestsError is just an error used in tests for File.
var fileTestsError = errors.New("a super error")

func TestFile_Close(t *testing.T) {
	f := &File{
		fs:           &Image{},
		path:         "any path",
		isDirectory:  true,
		isReadOnly:   true,
		isHidden:     true,
		isSystem:     true,
		firstCluster: 5,
		stat:         fakeFileInfo{},
		offset:       7,
	}

	if err := f.Close(); err != nil {
		t.Fatalf("File.Close() error = %v", err)
	}

	if *f != (File{}) {
		t.Errorf("File.Close() did not reset all fields: File = %v", *f)
	}
}

func TestFile_Read(t *testing.T) {
	type mock struct {
		expectCall   bool
		readAtResult []byte
		readAtError  error
	}
	tests := []struct {
		name     string
		mockData mock
		fields   fileTestFields
		sizeP    int
		wantN    int
		wantErr  error
	}{
		{
			name: "simple file",
			mockData: mock{
				expectCall:   true,
				readAtResult: []byte("Hello World"),
			},
			fields: fileTestFields{
				stat: fakeFileInfo{fileSize: 11},
			},
			sizeP: 11,
			wantN: 11,
		},
		{
			name: "simple file with offset",
			mockData: mock{
				expectCall:   true,
				readAtResult: []byte(" World"),
			},
			fields: fileTestFields{
				offset: 5,
				stat:   fakeFileInfo{fileSize: 11},
			},
			sizeP: 6,
			wantN: 6,
		},
		{
			name: "error while reading",
			mockData: mock{
				expectCall: true,
				// Simulate an error after some bytes are already read.
				readAtResult: []byte("H"),
				readAtError:  fileTestsError,
			},
			fields: fileTestFields{
				stat: fakeFileInfo{fileSize: 11},
			},
			sizeP:   11,
			wantN:   1,
			wantErr: fileTestsError,
		},
		{
			name: "offset at the end of the file",
			fields: fileTestFields{
				offset: 11,
				stat:   fakeFileInfo{fileSize: 11},
			},
			sizeP:   4,
			wantN:   0,
			wantErr: io.EOF,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockFs := NewMockfatFileFs(ctrl)
			if tt.mockData.expectCall {
				mockFs.EXPECT().
					readFileAt(tt.fields.firstCluster, tt.fields.stat.Size(), tt.fields.offset, int64(tt.sizeP)).
					Return(tt.mockData.readAtResult, tt.mockData.readAtError)
			}

			f := &File{
				fs:           mockFs,
				path:         tt.fields.path,
				firstCluster: tt.fields.firstCluster,
				stat:         tt.fields.stat,
				offset:       tt.fields.offset,
			}

			p := make([]byte, tt.sizeP)
			n, err := f.Read(p)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("File.Read() error = %v, want %v", err, tt.wantErr)
			}
			if n != tt.wantN {
				t.Errorf("File.Read() n = %v, want %v", n, tt.wantN)
			}
			if tt.wantN > 0 && !reflect.DeepEqual(p[:n], tt.mockData.readAtResult[:n]) {
				t.Errorf("File.Read() p = %q, want %q", p[:n], tt.mockData.readAtResult[:n])
			}
		})
	}
}

func TestFile_Read_AdvancesOffset(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockFs := NewMockfatFileFs(ctrl)
	mockFs.EXPECT().readFileAt(uint16(0), int64(10), int64(0), int64(4)).Return([]byte("ABCD"), nil)
	mockFs.EXPECT().readFileAt(uint16(0), int64(10), int64(4), int64(4)).Return([]byte("EFGH"), nil)

	f := &File{fs: mockFs, stat: fakeFileInfo{fileSize: 10}}

	p := make([]byte, 4)
	for _, want := range []string{"ABCD", "EFGH"} {
		n, err := f.Read(p)
		if err != nil {
			t.Fatalf("File.Read() error = %v", err)
		}
		if string(p[:n]) != want {
			t.Fatalf("File.Read() = %q, want %q", p[:n], want)
		}
	}
}

func TestFile_ReadAt(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockFs := NewMockfatFileFs(ctrl)
	mockFs.EXPECT().readFileAt(uint16(0), int64(11), int64(6), int64(5)).Return([]byte("World"), nil)

	f := &File{fs: mockFs, stat: fakeFileInfo{fileSize: 11}}

	p := make([]byte, 5)
	n, err := f.ReadAt(p, 6)
	if err != nil {
		t.Fatalf("File.ReadAt() error = %v", err)
	}
	if n != 5 || string(p) != "World" {
		t.Errorf("File.ReadAt() = %q (%d bytes), want %q", p, n, "World")
	}

	// ReadAt must not move the offset used by Read.
	if f.offset != 0 {
		t.Errorf("File.ReadAt() moved the offset to %d", f.offset)
	}

	if _, err := f.ReadAt(p, 11); err != io.EOF {
		t.Errorf("File.ReadAt() past the end, error = %v, want io.EOF", err)
	}
}

func TestFile_Seek(t *testing.T) {
	tests := []struct {
		name       string
		offset     int64
		whence     int
		fileOffset int64
		want       int64
		wantErr    error
	}{
		{
			name:   "seek from the start",
			offset: 5,
			whence: io.SeekStart,
			want:   5,
		},
		{
			name:       "seek from the current offset",
			offset:     2,
			whence:     io.SeekCurrent,
			fileOffset: 3,
			want:       5,
		},
		{
			name:   "seek from the end",
			offset: -1,
			whence: io.SeekEnd,
			want:   10,
		},
		{
			name:    "invalid whence",
			offset:  0,
			whence:  42,
			wantErr: syscall.EINVAL,
		},
		{
			name:    "negative result",
			offset:  -1,
			whence:  io.SeekStart,
			wantErr: afero.ErrOutOfRange,
		},
		{
			name:    "past the end",
			offset:  12,
			whence:  io.SeekStart,
			wantErr: afero.ErrOutOfRange,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &File{
				stat:   fakeFileInfo{fileSize: 11},
				offset: tt.fileOffset,
			}

			got, err := f.Seek(tt.offset, tt.whence)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("File.Seek() error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr == nil && got != tt.want {
				t.Errorf("File.Seek() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFile_Write(t *testing.T) {
	f := &File{stat: fakeFileInfo{}}

	if _, err := f.Write([]byte("nope")); !errors.Is(err, ErrReadOnly) {
		t.Errorf("File.Write() error = %v, want %v", err, ErrReadOnly)
	}
	if _, err := f.WriteAt([]byte("nope"), 3); !errors.Is(err, ErrReadOnly) {
		t.Errorf("File.WriteAt() error = %v, want %v", err, ErrReadOnly)
	}
	if _, err := f.WriteString("nope"); !errors.Is(err, ErrReadOnly) {
		t.Errorf("File.WriteString() error = %v, want %v", err, ErrReadOnly)
	}
	if err := f.Truncate(0); !errors.Is(err, ErrReadOnly) {
		t.Errorf("File.Truncate() error = %v, want %v", err, ErrReadOnly)
	}
}

func TestFile_Readdir(t *testing.T) {
	entries := []EntryHeader{
		{Name: name83("A.TXT"), FileSize: 1},
		{Name: name83("B.TXT"), FileSize: 2},
		{Name: name83("C.TXT"), FileSize: 3},
	}

	tests := []struct {
		name      string
		count     int
		offset    int64
		wantNames []string
		wantErr   error
	}{
		{
			name:      "all entries",
			count:     -1,
			wantNames: []string{"A.TXT", "B.TXT", "C.TXT"},
		},
		{
			name:      "first two",
			count:     2,
			wantNames: []string{"A.TXT", "B.TXT"},
		},
		{
			name:      "rest after an offset",
			count:     2,
			offset:    2,
			wantNames: []string{"C.TXT"},
			wantErr:   io.EOF,
		},
		{
			name:      "more than available",
			count:     5,
			wantNames: []string{"A.TXT", "B.TXT", "C.TXT"},
			wantErr:   io.EOF,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockFs := NewMockfatFileFs(ctrl)
			mockFs.EXPECT().readRoot().Return(entries, nil)

			f := &File{
				fs:          mockFs,
				isDirectory: true,
				stat:        rootFileInfo{},
				offset:      tt.offset,
			}

			infos, err := f.Readdir(tt.count)
			if err != tt.wantErr {
				t.Fatalf("File.Readdir() error = %v, want %v", err, tt.wantErr)
			}

			names := make([]string, len(infos))
			for i, info := range infos {
				names[i] = info.Name()
			}
			if !reflect.DeepEqual(names, tt.wantNames) {
				t.Errorf("File.Readdir() = %v, want %v", names, tt.wantNames)
			}
		})
	}
}

func TestFile_Readdir_NoDirectory(t *testing.T) {
	f := &File{stat: fakeFileInfo{}}

	if _, err := f.Readdir(-1); !errors.Is(err, syscall.ENOTDIR) {
		t.Errorf("File.Readdir() error = %v, want %v", err, syscall.ENOTDIR)
	}
}

func TestFile_Readdirnames(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockFs := NewMockfatFileFs(ctrl)
	mockFs.EXPECT().readRoot().Return([]EntryHeader{
		{Name: name83("A.TXT")},
		{Name: name83("B.TXT")},
	}, nil)

	f := &File{
		fs:          mockFs,
		isDirectory: true,
		stat:        rootFileInfo{},
	}

	names, err := f.Readdirnames(-1)
	if err != nil {
		t.Fatalf("File.Readdirnames() error = %v", err)
	}
	if !reflect.DeepEqual(names, []string{"A.TXT", "B.TXT"}) {
		t.Errorf("File.Readdirnames() = %v", names)
	}
}
