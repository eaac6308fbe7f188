package cli

import (
	"io"
	"os"

	"github.com/spf13/cobra"
)

// Execute runs the root command
func Execute() error {
	return run(os.Args[1:], os.Stdout, os.Stderr)
}

func run(args []string, stdout, stderr io.Writer) error {
	s := newSession(stderr)
	cmd := newRootCmd(s)
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	err := cmd.Execute()
	if cerr := s.close(); err == nil {
		err = cerr
	}
	return err
}

func newRootCmd(s *session) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fatvol",
		Short: "Manage FAT volumes kept in a host media directory",
		Long: `fatvol manages a set of FAT volumes stored under a media directory on
the host. Each configured volume name is bound to a volume slot in order,
and volume paths on the command line take the form /<volume>/<path>.

Configuration is read from fatvol.yaml in the current directory or in
$HOME/.config/fatvol, from FATVOL_* environment variables, and from flags.

Keys:
  media    host directory holding the volumes
  volumes  ordered list of volume names
  debug    enable debug logging`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "help" {
				return nil
			}
			return s.open()
		},
	}
	cmd.CompletionOptions.DisableDefaultCmd = true

	flags := cmd.PersistentFlags()
	flags.StringVar(&s.configFile, "config", "", "config file (default is ./fatvol.yaml or $HOME/.config/fatvol/fatvol.yaml)")
	flags.String("media", "", "host directory holding the volumes")
	flags.StringSlice("volumes", []string{"sd"}, "volume names in slot order")
	flags.Bool("debug", false, "enable debug logging")
	for _, key := range []string{"media", "volumes", "debug"} {
		cobra.CheckErr(s.v.BindPFlag(key, flags.Lookup(key)))
	}

	cmd.AddCommand(
		newFormatCmd(s),
		newInfoCmd(s),
		newCopyCmd(s),
		newLsCmd(s),
		newMkdirCmd(s),
		newRmCmd(s),
		newMvCmd(s),
		newPutCmd(s),
		newCatCmd(s),
		newImportCmd(s),
		newExportCmd(s),
	)
	return cmd
}
