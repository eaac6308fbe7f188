package cli

import (
	"fmt"

	"github.com/rstms/fatvol/fat"
	"github.com/rstms/fatvol/ff"
	"github.com/rstms/fatvol/image"
	"github.com/spf13/cobra"
)

func newFormatCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "format VOLUME...",
		Short: "Create an empty FAT filesystem on each volume",
		Long: `Create an empty FAT filesystem on each named volume. Everything stored
on the volume is erased.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range args {
				fsys, err := s.volume(name)
				if err != nil {
					return err
				}
				err = fsys.Format()
				if err != nil {
					return Fatal(err)
				}
			}
			return nil
		},
	}
}

func newInfoCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "info [VOLUME...]",
		Short: "Show the slot, label and serial number of volumes",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				args = s.ns.Names()
			}
			out := cmd.OutOrStdout()
			for _, name := range args {
				fsys, err := s.volume(name)
				if err != nil {
					return err
				}
				label, serial, res := s.lib.GetLabel(fat.VolumeRoot(fsys.ID()))
				switch res {
				case ff.OK:
					fmt.Fprintf(out, "%s slot=%d label=%q serial=%08X\n", fsys.Name(), fsys.ID(), label, serial)
				case ff.NoFilesystem:
					fmt.Fprintf(out, "%s slot=%d unformatted\n", fsys.Name(), fsys.ID())
				default:
					return Fatalf("%s: %v", fsys.Name(), res)
				}
			}
			return nil
		},
	}
}

func newCopyCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "copy SRC_VOLUME DST_VOLUME",
		Short: "Rewrite a volume with the contents of another",
		Long: `Format DST_VOLUME and copy every file and directory of SRC_VOLUME onto
it.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := s.volume(args[0])
			if err != nil {
				return err
			}
			dst, err := s.volume(args[1])
			if err != nil {
				return err
			}
			return image.Rewrite(dst, src)
		},
	}
}
