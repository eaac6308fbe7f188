package cli

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rstms/fatvol"
	"github.com/rstms/fatvol/fat"
	"github.com/rstms/fatvol/ff"
	"github.com/spf13/viper"
)

// session holds the volumes configured for one command invocation.
type session struct {
	v          *viper.Viper
	configFile string
	stderr     io.Writer
	log        zerolog.Logger
	lib        *ff.FS
	ns         *fatvol.Namespace
	volumes    []*fat.FileSystem
}

func newSession(stderr io.Writer) *session {
	return &session{
		v:      viper.New(),
		stderr: stderr,
		log:    zerolog.Nop(),
		ns:     fatvol.NewNamespace(),
	}
}

func (s *session) readConfig() error {
	if s.configFile != "" {
		s.v.SetConfigFile(s.configFile)
	} else {
		s.v.SetConfigName("fatvol")
		s.v.SetConfigType("yaml")
		s.v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			s.v.AddConfigPath(filepath.Join(home, ".config", "fatvol"))
		}
	}
	s.v.SetEnvPrefix("FATVOL")
	s.v.AutomaticEnv()
	if err := s.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if s.configFile != "" || !errors.As(err, &notFound) {
			return err
		}
	}
	return nil
}

func (s *session) open() error {
	if err := s.readConfig(); err != nil {
		return Fatal(err)
	}

	level := zerolog.WarnLevel
	if s.v.GetBool("debug") {
		level = zerolog.DebugLevel
	}
	s.log = zerolog.New(zerolog.ConsoleWriter{
		Out:        s.stderr,
		TimeFormat: "2006-01-02T15:04:05",
	}).Level(level).With().Timestamp().Logger()

	media := s.v.GetString("media")
	if media == "" {
		return Fatalf("no media directory configured")
	}
	names := s.v.GetStringSlice("volumes")
	if len(names) == 0 {
		return Fatalf("no volumes configured")
	}

	s.lib = ff.New(ff.NewHostMedia(media), ff.WithVolumes(len(names)), ff.WithLogger(s.log))
	reg := fat.NewRegistry(len(names))
	for i, name := range names {
		fsys, err := fat.New(name, s.lib, reg,
			fat.WithSlot(i),
			fat.WithLogger(s.log),
			fat.WithNamespace(s.ns),
		)
		if err != nil {
			return Fatal(err)
		}
		s.volumes = append(s.volumes, fsys)
	}
	s.log.Debug().Str("media", media).Strs("volumes", names).Msg("volumes ready")
	return nil
}

func (s *session) close() error {
	var first error
	for _, fsys := range s.volumes {
		if err := fsys.Close(); err != nil && first == nil {
			first = err
		}
	}
	s.volumes = nil
	return first
}

// volume returns the volume registered as name. A leading slash is
// accepted so that "/sd" and "sd" name the same volume.
func (s *session) volume(name string) (*fat.FileSystem, error) {
	fsys, ok := s.ns.Lookup(strings.Trim(name, "/"))
	if !ok {
		return nil, Fatalf("unknown volume: %s", name)
	}
	return fsys.(*fat.FileSystem), nil
}

// resolve splits a /<volume>/<path> argument.
func (s *session) resolve(arg string) (fatvol.FileSystemLike, string, error) {
	fsys, rest, err := s.ns.Resolve(arg)
	if err != nil {
		return nil, "", Fatal(err)
	}
	return fsys, rest, nil
}
