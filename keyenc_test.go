package ibl

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMakeChunkKeyDistinguishesKind(t *testing.T) {
	numKey := makeChunkKey([]Attr{{Name: "x", Value: Num(1)}}, 0)
	strKey := makeChunkKey([]Attr{{Name: "x", Value: Str("1")}}, 0)
	assert.NotEqual(t, numKey, strKey)
}

func TestMakeChunkKeyStableForEqualAttrs(t *testing.T) {
	a := makeChunkKey([]Attr{{Name: "x", Value: Num(1)}, {Name: "y", Value: Str("a")}}, 5)
	b := makeChunkKey([]Attr{{Name: "x", Value: Num(1)}, {Name: "y", Value: Str("a")}}, 5)
	assert.Equal(t, a, b)
}

func TestMakeChunkKeyDiffersOnUtility(t *testing.T) {
	a := makeChunkKey([]Attr{{Name: "x", Value: Num(1)}}, 1)
	b := makeChunkKey([]Attr{{Name: "x", Value: Num(1)}}, 2)
	assert.NotEqual(t, a, b)
}
