package search

const labelDefault = "FRR"

// LabelWidth is the length of a tag plus its separating space
const LabelWidth = len(labelDefault) + 1

// Tag builds the 3-character property tag of a record:
// [F|D][R|S][R|H] for kind, symlink and hidden state.
func Tag(rec MatchRecord) string {
	tag := []byte(labelDefault)
	if rec.Kind == KindDirectory {
		copy(tag[0:2], "D_")
	}
	if rec.Kind == KindSymlink {
		tag[1] = 'S'
	}
	if rec.Hidden {
		tag[2] = 'H'
	}
	return string(tag)
}

// Decorate attaches the tag of rec to its path at the given position
func Decorate(rec MatchRecord, pos LabelPosition) string {
	switch pos {
	case LabelPrefix:
		return Tag(rec) + " " + rec.Path
	case LabelSuffix:
		return rec.Path + " " + Tag(rec)
	default:
		return rec.Path
	}
}

// StripLabel removes a tag added by Decorate
func StripLabel(s string, pos LabelPosition) string {
	if pos == LabelNone || len(s) < LabelWidth {
		return s
	}
	if pos == LabelSuffix {
		return s[:len(s)-LabelWidth]
	}
	return s[LabelWidth:]
}
