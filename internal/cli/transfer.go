package cli

import (
	"os"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/rstms/fatvol/image"
	"github.com/spf13/cobra"
)

func newImportCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "import DIR VOLUME",
		Short: "Copy a host directory tree onto a volume",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := hostDir(args[0])
			if err != nil {
				return err
			}
			fsys, err := s.volume(args[1])
			if err != nil {
				return err
			}
			return image.Import(fsys, osfs.New(dir))
		},
	}
}

func newExportCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "export VOLUME DIR",
		Short: "Copy every file and directory of a volume into a host directory",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			fsys, err := s.volume(args[0])
			if err != nil {
				return err
			}
			err = os.MkdirAll(args[1], 0700)
			if err != nil {
				return Fatal(err)
			}
			return image.Export(fsys, osfs.New(args[1]))
		},
	}
}
