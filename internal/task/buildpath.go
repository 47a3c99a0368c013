package task

import (
	"fmt"
	"strings"

	"github.com/mxk/dpane/internal/fserr"
	"github.com/mxk/dpane/internal/pathbuf"
)

// BuildPath translates a source-side path p (as produced by the tree
// walker) into a destination-side path. src and dst are the
// task's source and destination roots. srcLeaf/renamedLeaf are non-empty
// when the top-level entry itself is being renamed on the destination
// side; when srcLeaf is empty, BuildPath simply replaces the src prefix of
// p with dst.
func BuildPath(p, src, dst, srcLeaf, renamedLeaf string) (string, error) {
	var rem string
	if srcLeaf == "" {
		if !hasPathPrefix(p, src) {
			return "", fmt.Errorf("task: path %q is not under source root %q", p, src)
		}
		rem = strings.TrimPrefix(p, src)
		result := trimTrailingSlash(dst + rem)
		if len(result) > pathbuf.PathMax {
			return "", fserr.New(fserr.NameTooLong, result, nil)
		}
		return result, nil
	}
	prefix := src + "/" + srcLeaf
	if !hasPathPrefix(p, prefix) {
		return "", fmt.Errorf("task: path %q is not under %q", p, prefix)
	}
	rem = strings.TrimPrefix(p, prefix)
	result := trimTrailingSlash(dst + "/" + renamedLeaf + rem)
	if len(result) > pathbuf.PathMax {
		return "", fserr.New(fserr.NameTooLong, result, nil)
	}
	return result, nil
}

// hasPathPrefix reports whether p is prefix or prefix+"/"+... , so that a
// path like "/home/user/doc2" is not mistaken as being under "/home/user/doc".
func hasPathPrefix(p, prefix string) bool {
	if p == prefix {
		return true
	}
	return strings.HasPrefix(p, prefix+"/")
}

func trimTrailingSlash(p string) string {
	if len(p) > 1 {
		return strings.TrimSuffix(p, "/")
	}
	return p
}
