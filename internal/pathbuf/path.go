// Package pathbuf implements a bounded, mutable, absolute path buffer with
// push/pop/normalize primitives, shared by the scanner, walker, and task
// engine. It models an always-absolute, mutable buffer instead of an
// immutable slash-separated string.
package pathbuf

import (
	"os"
	"os/user"
	"strings"

	"github.com/mxk/dpane/internal/fserr"
)

// PathMax and NameMax are the POSIX bounds this module enforces. They match
// the common Linux/glibc values; no third-party library in the pack exposes
// a portable PATH_MAX/NAME_MAX (golang.org/x/sys/unix defines platform-
// specific syscall flags but not these limits uniformly), so they are
// plain constants.
const (
	PathMax = 4096
	NameMax = 255
)

// Path is an absolute byte-string bounded by PathMax, never ending in '/'
// except for root "/". It tracks its own length to avoid repeated scans.
type Path struct {
	buf []byte
}

// New returns a Path initialized to root "/".
func New() *Path {
	return &Path{buf: []byte{'/'}}
}

// FromString returns a Path initialized to s, which must already be a clean
// absolute path (callers that need normalization should use Cd from root).
func FromString(s string) *Path {
	return &Path{buf: []byte(s)}
}

// String returns the current path as a string.
func (p *Path) String() string { return string(p.buf) }

// Len returns the current byte length.
func (p *Path) Len() int { return len(p.buf) }

// IsRoot reports whether the path is exactly "/".
func (p *Path) IsRoot() bool { return len(p.buf) == 1 && p.buf[0] == '/' }

// Push appends "/name" to the path (or just "name" when the path is root).
// It fails with fserr.NameTooLong if the result would exceed PathMax; on
// failure the buffer is left unchanged.
func (p *Path) Push(name string) error {
	if name == "" {
		return nil
	}
	if len(name) > NameMax {
		return fserr.New(fserr.NameTooLong, name, nil)
	}
	extra := len(name)
	if !p.IsRoot() {
		extra++ // separating '/'
	}
	if len(p.buf)+extra > PathMax {
		return fserr.New(fserr.NameTooLong, p.String()+"/"+name, nil)
	}
	if !p.IsRoot() {
		p.buf = append(p.buf, '/')
	}
	p.buf = append(p.buf, name...)
	return nil
}

// Pop removes the last segment and its leading '/', unless the path is
// already root, in which case it is a no-op.
func (p *Path) Pop() {
	if p.IsRoot() {
		return
	}
	i := lastSlash(p.buf)
	if i <= 0 {
		p.buf = p.buf[:1] // back to "/"
		return
	}
	p.buf = p.buf[:i]
}

// CurrentDirOffset returns the byte offset of the last segment's name
// within the buffer.
func (p *Path) CurrentDirOffset() int {
	if p.IsRoot() {
		return 1
	}
	i := lastSlash(p.buf)
	return i + 1
}

// Leaf returns the last path segment (the basename), or "/" for root.
func (p *Path) Leaf() string {
	if p.IsRoot() {
		return "/"
	}
	return string(p.buf[p.CurrentDirOffset():])
}

// Clone returns an independent copy of p.
func (p *Path) Clone() *Path {
	c := &Path{buf: make([]byte, len(p.buf))}
	copy(c.buf, p.buf)
	return c
}

// Cd reinterprets dest relative to cur, producing a normalized absolute
// path. If dest begins with '/', the result restarts from empty. A leading
// "~" segment is substituted with the user's home directory. On any
// NameTooLong failure, cur is left unchanged.
func (p *Path) Cd(dest string) error {
	orig := append([]byte(nil), p.buf...)
	if dest == "" {
		return nil
	}
	if strings.HasPrefix(dest, "/") {
		p.buf = []byte{'/'}
	}
	segs := strings.Split(dest, "/")
	for i, seg := range segs {
		if seg == "" {
			continue
		}
		if i == 0 && seg == "~" && !strings.HasPrefix(dest, "/") {
			home, err := homeDir()
			if err != nil {
				p.buf = orig
				return fserr.From("~", err)
			}
			p.buf = []byte{'/'}
			if err := p.cdPath(home); err != nil {
				p.buf = orig
				return err
			}
			continue
		}
		switch seg {
		case ".":
			// skip
		case "..":
			p.Pop()
		default:
			if err := p.Push(seg); err != nil {
				p.buf = orig
				return err
			}
		}
	}
	if len(p.buf) == 0 {
		p.buf = []byte{'/'}
	}
	return nil
}

// cdPath pushes every segment of an absolute path string onto p, used
// internally to splice in a home directory resolved from the environment.
func (p *Path) cdPath(abs string) error {
	for _, seg := range strings.Split(strings.TrimPrefix(abs, "/"), "/") {
		if seg == "" {
			continue
		}
		if err := p.Push(seg); err != nil {
			return err
		}
	}
	return nil
}

// homeDir resolves the current user's home directory via the environment,
// falling back to the system user database.
func homeDir() (string, error) {
	if h := os.Getenv("HOME"); h != "" {
		return h, nil
	}
	u, err := user.Current()
	if err != nil {
		return "", err
	}
	return u.HomeDir, nil
}

// lastSlash returns the index of the last '/' in b, or -1 if none.
func lastSlash(b []byte) int {
	for i := len(b) - 1; i >= 0; i-- {
		if b[i] == '/' {
			return i
		}
	}
	return -1
}
