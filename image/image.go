package image

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path"
	"strings"
	"time"

	"github.com/go-git/go-billy/v5"
	"github.com/rstms/fatvol"
)

type FileRecord struct {
	Name     string
	Size     int64
	ModTime  time.Time
	Dir      bool
	Hidden   bool
	System   bool
	ReadOnly bool
}

func clean(name string) string {
	return strings.Trim(path.Clean("/"+name), "/")
}

// Scan returns a record for every file and directory on the volume,
// parents before their children.
func Scan(fsys fatvol.FileSystemLike) ([]FileRecord, error) {
	records, err := walk(fsys, "/")
	if err != nil {
		return []FileRecord{}, Fatal(err)
	}
	return records, nil
}

func walk(fsys fatvol.FileSystemLike, dirname string) ([]FileRecord, error) {
	dir, err := fsys.OpenDir(dirname)
	if err != nil {
		return nil, err
	}
	defer fsys.CloseDir(dir)
	records := []FileRecord{}
	var subdirs []string
	for {
		entry, err := dir.ReadDir()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if entry.Attr.Has(fatvol.AttrVolumeId) {
			continue
		}
		name := path.Join(dirname, entry.Name)
		records = append(records, FileRecord{
			Name:     name,
			Size:     entry.Size,
			ModTime:  entry.ModTime,
			Dir:      entry.IsDir(),
			Hidden:   entry.IsHidden(),
			System:   entry.IsSystem(),
			ReadOnly: entry.IsReadOnly(),
		})
		if entry.IsDir() {
			subdirs = append(subdirs, name)
		}
	}
	for _, sub := range subdirs {
		subRecords, err := walk(fsys, sub)
		if err != nil {
			return nil, err
		}
		records = append(records, subRecords...)
	}
	return records, nil
}

func IsDir(fsys fatvol.FileSystemLike, name string) (bool, error) {
	name = clean(name)
	if name == "" {
		return true, nil
	}
	entry, err := fsys.Stat(name)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, Fatal(err)
	}
	return entry.IsDir(), nil
}

func Mkdir(fsys fatvol.FileSystemLike, pathname string) error {
	exists, err := IsDir(fsys, pathname)
	if err != nil {
		return Fatal(err)
	}
	if exists {
		return Fatalf("directory exists: %s", pathname)
	}
	err = fsys.Mkdir(clean(pathname), 0700)
	if err != nil {
		return Fatal(err)
	}
	return nil
}

func copyTo(fsys fatvol.FileSystemLike, dstPathname string, src io.Reader) (int64, error) {
	dst, err := fsys.Open(clean(dstPathname), os.O_WRONLY|os.O_CREATE|os.O_TRUNC)
	if err != nil {
		return 0, err
	}
	count, err := io.Copy(dst, src)
	if err != nil {
		dst.Close()
		return count, err
	}
	return count, dst.Close()
}

// AddFile copies srcPathname from src to dstPathname on the volume,
// replacing any existing file.
func AddFile(fsys fatvol.FileSystemLike, dstPathname string, src billy.Filesystem, srcPathname string) error {
	srcInfo, err := src.Stat(srcPathname)
	if err != nil {
		return Fatal(err)
	}
	if srcInfo.IsDir() {
		return Fatalf("not a file: %s", srcPathname)
	}
	f, err := src.Open(srcPathname)
	if err != nil {
		return Fatal(err)
	}
	defer f.Close()
	count, err := copyTo(fsys, dstPathname, f)
	if err != nil {
		return Fatal(err)
	}
	if count != srcInfo.Size() {
		return Fatalf("write count mismatch; expected %d, wrote %d", srcInfo.Size(), count)
	}
	return nil
}

func ReadFile(fsys fatvol.FileSystemLike, filename string) ([]byte, error) {
	src, err := fsys.Open(clean(filename), os.O_RDONLY)
	if err != nil {
		return []byte{}, Fatal(err)
	}
	defer src.Close()
	data, err := io.ReadAll(src)
	if err != nil {
		return []byte{}, Fatal(err)
	}
	return data, nil
}

// Import writes every file and directory of src to the volume, keeping
// the directory layout. Existing files are replaced.
func Import(fsys fatvol.FileSystemLike, src billy.Filesystem) error {
	err := importDir(fsys, src, "/")
	if err != nil {
		return Fatal(err)
	}
	return nil
}

func importDir(fsys fatvol.FileSystemLike, src billy.Filesystem, dirname string) error {
	infos, err := src.ReadDir(dirname)
	if err != nil {
		return err
	}
	for _, info := range infos {
		name := path.Join(dirname, info.Name())
		if info.IsDir() {
			exists, err := IsDir(fsys, name)
			if err != nil {
				return err
			}
			if !exists {
				if err := fsys.Mkdir(clean(name), 0700); err != nil {
					return err
				}
			}
			if err := importDir(fsys, src, name); err != nil {
				return err
			}
			continue
		}
		if err := importFile(fsys, src, name); err != nil {
			return err
		}
	}
	return nil
}

func importFile(fsys fatvol.FileSystemLike, src billy.Filesystem, name string) error {
	f, err := src.Open(name)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = copyTo(fsys, name, f)
	return err
}

// Export writes every file and directory of the volume to dst.
func Export(fsys fatvol.FileSystemLike, dst billy.Filesystem) error {
	records, err := Scan(fsys)
	if err != nil {
		return Fatal(err)
	}
	for _, record := range records {
		if record.Dir {
			err := dst.MkdirAll(record.Name, 0700)
			if err != nil {
				return Fatal(err)
			}
			continue
		}
		err := exportFile(fsys, dst, record.Name)
		if err != nil {
			return Fatal(err)
		}
	}
	return nil
}

func exportFile(fsys fatvol.FileSystemLike, dst billy.Filesystem, name string) error {
	src, err := fsys.Open(clean(name), os.O_RDONLY)
	if err != nil {
		return err
	}
	defer src.Close()
	f, err := dst.OpenFile(name, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, src); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
