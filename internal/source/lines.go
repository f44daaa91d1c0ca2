package source

import (
	"sort"
	"unicode/utf8"
)

// lineIndex maps byte offsets to 1-based line and column numbers.
type lineIndex struct {
	src    []byte
	starts []int
}

func newLineIndex(src []byte) *lineIndex {
	starts := []int{0}
	for i, c := range src {
		if c == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &lineIndex{src: src, starts: starts}
}

func (li *lineIndex) position(offset int) (line, column int) {
	if offset > len(li.src) {
		offset = len(li.src)
	}
	i := sort.Search(len(li.starts), func(i int) bool { return li.starts[i] > offset }) - 1
	return i + 1, utf8.RuneCount(li.src[li.starts[i]:offset]) + 1
}
