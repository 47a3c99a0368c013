package record

// Tag identifies a single comparator used by the order vector. The zero
// value, TagNone, is skipped by Sort.
type Tag int

const (
	TagNone Tag = iota
	TagName
	TagSize
	TagMTime
	TagIsDir
	TagPerm
	TagIsExe
)

// OrderVector is a fixed-length sequence of comparator tags, listed in
// increasing priority: the last non-zero tag dominates.
type OrderVector []Tag

// DefaultOrder sorts directories first, then by name, matching the common
// dual-pane file manager default.
func DefaultOrder() OrderVector {
	return OrderVector{TagName, TagIsDir}
}

// compare returns -1, 0, or +1 comparing a and b according to tag.
func compare(tag Tag, a, b *Record) int {
	switch tag {
	case TagName:
		switch {
		case a.Name < b.Name:
			return -1
		case a.Name > b.Name:
			return 1
		default:
			return 0
		}
	case TagSize:
		switch {
		case a.Size < b.Size:
			return -1
		case a.Size > b.Size:
			return 1
		default:
			return 0
		}
	case TagMTime:
		as, bs := a.Mtime.Unix(), b.Mtime.Unix()
		switch {
		case as < bs:
			return -1
		case as > bs:
			return 1
		default:
			return 0
		}
	case TagIsDir:
		ad, bd := a.IsDir(), b.IsDir()
		switch {
		case ad == bd:
			return 0
		case ad:
			return -1 // directories before non-directories
		default:
			return 1
		}
	case TagPerm:
		ap, bp := a.Perm(), b.Perm()
		switch {
		case ap < bp:
			return -1
		case ap > bp:
			return 1
		default:
			return 0
		}
	case TagIsExe:
		ae, be := a.IsExecutable(), b.IsExecutable()
		switch {
		case ae == be:
			return 0
		case ae:
			return -1 // executables before non-executables
		default:
			return 1
		}
	default:
		return 0
	}
}
