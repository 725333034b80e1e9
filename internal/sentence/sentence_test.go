package sentence

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSurfaceTokenParsesFactorsAndUsesSuppliedID(t *testing.T) {
	tok, err := NewSurfaceToken(4, "chien|chien|NOUN|0", 3)
	require.NoError(t, err)
	assert.Equal(t, 3, tok.ID())
	assert.Equal(t, "chien", tok.Factor(FORM))
	assert.Equal(t, "NOUN", tok.Factor(TAG))
}

func TestNewSurfaceTokenRejectsWrongFactorCount(t *testing.T) {
	_, err := NewSurfaceToken(4, "chien|chien|NOUN", 1)
	assert.Error(t, err)
}

func TestNewDependencyTokenParsesIDAndParentID(t *testing.T) {
	tok, err := NewDependencyToken(5, "chien|chien|NOUN|2|1")
	require.NoError(t, err)
	assert.Equal(t, 2, tok.ID())
	assert.Equal(t, 1, tok.ParentID())
}

func TestNewDependencyTokenRejectsNonNumericID(t *testing.T) {
	_, err := NewDependencyToken(5, "chien|chien|NOUN|x|1")
	assert.Error(t, err)
}

func TestFactorOutOfRangeReturnsEmptyString(t *testing.T) {
	tok, err := NewSurfaceToken(2, "chien|NOUN", 1)
	require.NoError(t, err)
	assert.Equal(t, "", tok.Factor(5))
	assert.Equal(t, "", tok.Factor(-1))
}

func TestNewRootTokenIsPositionZero(t *testing.T) {
	root := NewRootToken(4)
	assert.Equal(t, 0, root.ID())
	assert.Equal(t, 0, root.ParentID())
	assert.Len(t, root.Factors, 4)
}

func TestIDLessOrdersByPosition(t *testing.T) {
	a, _ := NewSurfaceToken(1, "a", 1)
	b, _ := NewSurfaceToken(1, "b", 2)
	assert.True(t, IDLess(a, b))
	assert.False(t, IDLess(b, a))
}

func TestTreeLinkWithFather(t *testing.T) {
	root := NewTree(0)
	child := NewTree(1)
	grandchild := NewTree(2)

	child.LinkWithFather(root)
	grandchild.LinkWithFather(child)

	assert.True(t, root.IsLeaf() == false)
	assert.Equal(t, 1, root.NumberOfChildren())
	assert.Same(t, root, child.Father())
	assert.Same(t, child, grandchild.Father())
	assert.True(t, grandchild.IsLeaf())
	assert.Nil(t, root.Father())
	assert.Equal(t, []*Tree[int]{child}, root.Children())
}
