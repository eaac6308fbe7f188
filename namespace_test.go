package fatvol

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

type stubFS struct {
	name string
}

func (s *stubFS) Name() string { return s.name }
func (s *stubFS) Open(name string, flags int) (FileHandle, error) { return nil, os.ErrNotExist }
func (s *stubFS) Remove(name string) error { return nil }
func (s *stubFS) Rename(oldName, newName string) error { return nil }
func (s *stubFS) Stat(name string) (*DirEntry, error) { return nil, os.ErrNotExist }
func (s *stubFS) Mkdir(name string, perm os.FileMode) error { return nil }
func (s *stubFS) OpenDir(name string) (DirHandle, error) { return nil, os.ErrNotExist }
func (s *stubFS) CloseDir(dir DirHandle) error { return nil }
func (s *stubFS) Format() error { return nil }

func TestNamespaceRegister(t *testing.T) {
	ns := NewNamespace()
	sd := &stubFS{name: "sd"}
	require.Nil(t, ns.Register(sd))
	require.Nil(t, ns.Register(&stubFS{name: "flash"}))
	require.ErrorIs(t, ns.Register(&stubFS{name: "sd"}), ErrNameInUse)
	require.Error(t, ns.Register(&stubFS{name: ""}))
	require.Error(t, ns.Register(&stubFS{name: "a/b"}))
	require.Equal(t, []string{"flash", "sd"}, ns.Names())

	fsys, ok := ns.Lookup("sd")
	require.True(t, ok)
	require.Same(t, sd, fsys)

	// only the registered instance can unregister its name
	ns.Unregister(&stubFS{name: "sd"})
	_, ok = ns.Lookup("sd")
	require.True(t, ok)
	ns.Unregister(sd)
	_, ok = ns.Lookup("sd")
	require.False(t, ok)
}

func TestNamespaceResolve(t *testing.T) {
	ns := NewNamespace()
	sd := &stubFS{name: "sd"}
	require.Nil(t, ns.Register(sd))

	for _, tc := range []struct {
		in   string
		rest string
	}{
		{"/sd/boot/config.txt", "boot/config.txt"},
		{"sd/boot/", "boot"},
		{"/sd", ""},
		{"/sd/", ""},
		{"//sd//x", "x"},
	} {
		t.Run(tc.in, func(t *testing.T) {
			fsys, rest, err := ns.Resolve(tc.in)
			require.Nil(t, err)
			require.Same(t, sd, fsys)
			require.Equal(t, tc.rest, rest)
		})
	}

	_, _, err := ns.Resolve("/usb/x")
	require.ErrorIs(t, err, ErrUnknownFileSystem)
	_, _, err = ns.Resolve("/")
	require.ErrorIs(t, err, ErrUnknownFileSystem)
}

func TestDirectoryAttr(t *testing.T) {
	require.Equal(t, "d-----", AttrDirectory.String())
	require.Equal(t, "-arhs-", (AttrArchive | AttrReadOnly | AttrHidden | AttrSystem).String())
	require.True(t, AttrLongName.Has(AttrVolumeId))
	require.False(t, AttrReadOnly.Has(AttrLongName))

	e := &DirEntry{Name: "x", Attr: AttrDirectory | AttrHidden}
	require.True(t, e.IsDir())
	require.True(t, e.IsHidden())
	require.False(t, e.IsReadOnly())
	require.False(t, e.IsSystem())
}
