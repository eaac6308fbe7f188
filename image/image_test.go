package image

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/google/go-cmp/cmp"
	"github.com/rstms/fatvol/fat"
	"github.com/rstms/fatvol/ff"
	"github.com/stretchr/testify/require"
)

func newVolumes(t *testing.T, names ...string) []*fat.FileSystem {
	t.Helper()
	lib := ff.New(ff.NewMemoryMedia())
	reg := fat.NewRegistry(len(names))
	var volumes []*fat.FileSystem
	for _, name := range names {
		fsys, err := fat.New(name, lib, reg)
		require.Nil(t, err)
		require.Nil(t, fsys.Format())
		t.Cleanup(func() { fsys.Close() })
		volumes = append(volumes, fsys)
	}
	return volumes
}

func names(records []FileRecord) []string {
	ret := []string{}
	for _, record := range records {
		ret = append(ret, record.Name)
	}
	return ret
}

func TestImageMkdirIsDir(t *testing.T) {
	v := newVolumes(t, "sd")[0]

	ret, err := IsDir(v, "/")
	require.Nil(t, err)
	require.True(t, ret)

	ret, err = IsDir(v, "/foo")
	require.Nil(t, err)
	require.False(t, ret)

	require.Nil(t, Mkdir(v, "foo"))
	ret, err = IsDir(v, "/foo/")
	require.Nil(t, err)
	require.True(t, ret)

	require.Error(t, Mkdir(v, "/foo"))
	require.Error(t, Mkdir(v, "/missing/bar"))
}

func TestImageAddFiles(t *testing.T) {
	v := newVolumes(t, "sd")[0]
	src := memfs.New()
	files := map[string]string{
		"foo":   "foo data",
		"bar":   "bar data",
		"howdy": "howdy howdy howdy",
	}
	for name, data := range files {
		require.Nil(t, util.WriteFile(src, name, []byte(data), 0600))
	}
	require.Nil(t, src.MkdirAll("subdir", 0700))

	require.Nil(t, AddFile(v, "foo", src, "foo"))
	require.Nil(t, AddFile(v, "/bar", src, "bar"))
	require.Nil(t, Mkdir(v, "files"))
	require.Nil(t, AddFile(v, "files/howdy", src, "howdy"))
	require.Error(t, AddFile(v, "nodir/foo", src, "foo"))
	require.Error(t, AddFile(v, "baz", src, "baz"))
	require.Error(t, AddFile(v, "subdir", src, "subdir"))

	host := t.TempDir()
	require.Nil(t, os.WriteFile(filepath.Join(host, "hostfile"), []byte("from host"), 0600))
	require.Nil(t, AddFile(v, "hostfile", osfs.New(host), "hostfile"))
	data, err := ReadFile(v, "hostfile")
	require.Nil(t, err)
	require.Equal(t, "from host", string(data))
	require.Nil(t, v.Remove("hostfile"))

	data, err = ReadFile(v, "/files/howdy")
	require.Nil(t, err)
	require.Equal(t, "howdy howdy howdy", string(data))

	_, err = ReadFile(v, "missing")
	require.Error(t, err)

	records, err := Scan(v)
	require.Nil(t, err)
	require.Equal(t, []string{"/bar", "/files", "/foo", "/files/howdy"}, names(records))
	require.True(t, records[1].Dir)
	require.False(t, records[0].Dir)
	require.Equal(t, int64(8), records[0].Size)
}

func TestImageImportExport(t *testing.T) {
	v := newVolumes(t, "sd")[0]

	src := memfs.New()
	require.Nil(t, util.WriteFile(src, "boot.cfg", []byte("boot"), 0600))
	require.Nil(t, src.MkdirAll("lib/modules", 0700))
	require.Nil(t, util.WriteFile(src, "lib/modules/a.ko", []byte("module a"), 0600))
	require.Nil(t, util.WriteFile(src, "lib/b.so", []byte("library b"), 0600))

	require.Nil(t, Import(v, src))
	// a second import replaces files and keeps directories
	require.Nil(t, util.WriteFile(src, "boot.cfg", []byte("boot v2"), 0600))
	require.Nil(t, Import(v, src))

	data, err := ReadFile(v, "boot.cfg")
	require.Nil(t, err)
	require.Equal(t, "boot v2", string(data))

	dst := memfs.New()
	require.Nil(t, Export(v, dst))
	for _, name := range []string{"boot.cfg", "lib/b.so", "lib/modules/a.ko"} {
		want, err := util.ReadFile(src, name)
		require.Nil(t, err)
		got, err := util.ReadFile(dst, name)
		require.Nil(t, err)
		if diff := cmp.Diff(string(want), string(got)); diff != "" {
			t.Fatalf("%s: diff (-want +got):\n%s", name, diff)
		}
	}
}

func TestImageRewrite(t *testing.T) {
	volumes := newVolumes(t, "src", "dst")
	src, dst := volumes[0], volumes[1]

	require.Nil(t, Mkdir(src, "etc"))
	staging := memfs.New()
	require.Nil(t, util.WriteFile(staging, "etc/hosts", []byte("127.0.0.1 localhost"), 0600))
	require.Nil(t, util.WriteFile(staging, "kernel", []byte("vmlinuz"), 0600))
	require.Nil(t, Import(src, staging))

	stale := memfs.New()
	require.Nil(t, util.WriteFile(stale, "stale", []byte("old"), 0600))
	require.Nil(t, Import(dst, stale))

	require.Nil(t, Rewrite(dst, src))
	require.Error(t, Rewrite(src, src))

	srcRecords, err := Scan(src)
	require.Nil(t, err)
	dstRecords, err := Scan(dst)
	require.Nil(t, err)
	if diff := cmp.Diff(names(srcRecords), names(dstRecords)); diff != "" {
		t.Fatalf("records: diff (-src +dst):\n%s", diff)
	}

	data, err := ReadFile(dst, "etc/hosts")
	require.Nil(t, err)
	require.Equal(t, "127.0.0.1 localhost", string(data))
}
