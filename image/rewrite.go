package image

import (
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/rstms/fatvol"
)

// Rewrite formats dst and fills it with the files and directories of
// src. src and dst must be different volumes.
func Rewrite(dst, src fatvol.FileSystemLike) error {
	if dst == src {
		return Fatalf("cannot rewrite %s onto itself", src.Name())
	}
	staging := memfs.New()
	err := Export(src, staging)
	if err != nil {
		return Fatal(err)
	}
	err = dst.Format()
	if err != nil {
		return Fatal(err)
	}
	err = Import(dst, staging)
	if err != nil {
		return Fatal(err)
	}
	return nil
}
