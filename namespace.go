package fatvol

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

var (
	ErrNameInUse         = errors.New("filesystem name already registered")
	ErrUnknownFileSystem = errors.New("no filesystem registered under that name")
)

// Namespace maps filesystem names to filesystems so that paths of the
// form "/<name>/<path>" can be resolved to a filesystem and a path
// relative to it.
type Namespace struct {
	mu     sync.RWMutex
	byName map[string]FileSystemLike
}

func NewNamespace() *Namespace {
	return &Namespace{byName: make(map[string]FileSystemLike)}
}

func (n *Namespace) Register(fsys FileSystemLike) error {
	name := fsys.Name()
	if name == "" || strings.Contains(name, "/") {
		return fmt.Errorf("invalid filesystem name %q", name)
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	if _, ok := n.byName[name]; ok {
		return fmt.Errorf("%w: %s", ErrNameInUse, name)
	}
	n.byName[name] = fsys
	return nil
}

// Unregister removes fsys. A different filesystem registered under the
// same name is left alone.
func (n *Namespace) Unregister(fsys FileSystemLike) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if cur, ok := n.byName[fsys.Name()]; ok && cur == fsys {
		delete(n.byName, fsys.Name())
	}
}

func (n *Namespace) Lookup(name string) (FileSystemLike, bool) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	fsys, ok := n.byName[name]
	return fsys, ok
}

func (n *Namespace) Names() []string {
	n.mu.RLock()
	defer n.mu.RUnlock()
	names := make([]string, 0, len(n.byName))
	for name := range n.byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Resolve splits "/<name>/<rest>" and returns the filesystem registered
// as name together with rest. rest is empty for the volume root.
func (n *Namespace) Resolve(path string) (FileSystemLike, string, error) {
	trimmed := strings.TrimLeft(path, "/")
	name, rest, _ := strings.Cut(trimmed, "/")
	fsys, ok := n.Lookup(name)
	if !ok {
		return nil, "", fmt.Errorf("%w: %q", ErrUnknownFileSystem, path)
	}
	return fsys, strings.Trim(rest, "/"), nil
}
