package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/rstms/fatvol"
	"github.com/rstms/fatvol/image"
	"github.com/spf13/cobra"
)

func printEntry(w io.Writer, name string, entry *fatvol.DirEntry) {
	fmt.Fprintf(w, "%s %10d %s %s\n", entry.Attr, entry.Size, entry.ModTime.Format("2006-01-02 15:04"), name)
}

func newLsCmd(s *session) *cobra.Command {
	var recursive bool
	cmd := &cobra.Command{
		Use:   "ls [/VOLUME[/PATH]]",
		Short: "List volumes or directory contents",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if len(args) == 0 || strings.Trim(args[0], "/") == "" {
				for _, name := range s.ns.Names() {
					fmt.Fprintln(out, name)
				}
				return nil
			}
			fsys, rest, err := s.resolve(args[0])
			if err != nil {
				return err
			}
			if recursive {
				return listRecursive(out, fsys, rest)
			}
			if rest != "" {
				entry, err := fsys.Stat(rest)
				if err != nil {
					return Fatal(err)
				}
				if !entry.IsDir() {
					printEntry(out, rest, entry)
					return nil
				}
			}
			dir, err := fsys.OpenDir(rest)
			if err != nil {
				return Fatal(err)
			}
			defer fsys.CloseDir(dir)
			for {
				entry, err := dir.ReadDir()
				if err == io.EOF {
					return nil
				}
				if err != nil {
					return Fatal(err)
				}
				printEntry(out, entry.Name, entry)
			}
		},
	}
	cmd.Flags().BoolVarP(&recursive, "recursive", "R", false, "list subdirectories recursively")
	return cmd
}

func listRecursive(out io.Writer, fsys fatvol.FileSystemLike, rest string) error {
	records, err := image.Scan(fsys)
	if err != nil {
		return err
	}
	base := "/" + rest
	for _, record := range records {
		if rest != "" && record.Name != base && !strings.HasPrefix(record.Name, base+"/") {
			continue
		}
		var attrs string
		if record.Dir {
			attrs += "d"
		}
		if record.ReadOnly {
			attrs += "r"
		}
		if record.Hidden {
			attrs += "h"
		}
		if record.System {
			attrs += "s"
		}
		fmt.Fprintf(out, "%-4s %10d %s\n", attrs, record.Size, record.Name)
	}
	return nil
}

func newMkdirCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "mkdir /VOLUME/PATH...",
		Short: "Create directories",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, arg := range args {
				fsys, rest, err := s.resolve(arg)
				if err != nil {
					return err
				}
				err = image.Mkdir(fsys, rest)
				if err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func newRmCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "rm /VOLUME/PATH...",
		Short: "Remove files and empty directories",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, arg := range args {
				fsys, rest, err := s.resolve(arg)
				if err != nil {
					return err
				}
				if rest == "" {
					return Fatalf("cannot remove volume root: %s", arg)
				}
				err = fsys.Remove(rest)
				if err != nil {
					return Fatal(err)
				}
			}
			return nil
		},
	}
}

func newMvCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "mv /VOLUME/SRC /VOLUME/DST",
		Short: "Rename a file or directory within a volume",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, srcPath, err := s.resolve(args[0])
			if err != nil {
				return err
			}
			dst, dstPath, err := s.resolve(args[1])
			if err != nil {
				return err
			}
			if src != dst {
				return Fatalf("cannot move between volumes: %s -> %s", src.Name(), dst.Name())
			}
			err = src.Rename(srcPath, dstPath)
			if err != nil {
				return Fatal(err)
			}
			return nil
		},
	}
}

func newPutCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "put FILE /VOLUME/PATH",
		Short: "Copy a host file onto a volume",
		Long: `Copy a host file onto a volume. When the destination is a directory
the file keeps its base name.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !IsFile(args[0]) {
				return Fatalf("not a file: %s", args[0])
			}
			fsys, rest, err := s.resolve(args[1])
			if err != nil {
				return err
			}
			isDir, err := image.IsDir(fsys, rest)
			if err != nil {
				return err
			}
			if isDir {
				rest = path.Join(rest, filepath.Base(args[0]))
			}
			abs, err := filepath.Abs(args[0])
			if err != nil {
				return Fatal(err)
			}
			return image.AddFile(fsys, rest, osfs.New(filepath.Dir(abs)), filepath.Base(abs))
		},
	}
}

func newCatCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "cat /VOLUME/PATH...",
		Short: "Write file contents to standard output",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, arg := range args {
				fsys, rest, err := s.resolve(arg)
				if err != nil {
					return err
				}
				data, err := image.ReadFile(fsys, rest)
				if err != nil {
					return err
				}
				_, err = cmd.OutOrStdout().Write(data)
				if err != nil {
					return Fatal(err)
				}
			}
			return nil
		},
	}
}

// hostDir returns dir after checking that it is an existing directory.
func hostDir(dir string) (string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return "", Fatal(err)
	}
	if !info.IsDir() {
		return "", Fatal(&os.PathError{Op: "stat", Path: dir, Err: errors.New("not a directory")})
	}
	return dir, nil
}
