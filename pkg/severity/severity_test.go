package severity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetect(t *testing.T) {
	t.Run("major keyword wins", func(t *testing.T) {
		triggers, s := Detect("Our Pricing has been updated with a new tier")
		assert.Equal(t, Major, s)
		assert.Contains(t, triggers, "pricing")
		// major 命中后不再收集 moderate 词
		assert.NotContains(t, triggers, "update")
	})

	t.Run("moderate only", func(t *testing.T) {
		triggers, s := Detect("A new feature was launched in beta")
		assert.Equal(t, Moderate, s)
		assert.Contains(t, triggers, "feature")
		assert.Contains(t, triggers, "beta")
	})

	t.Run("minor when nothing matches", func(t *testing.T) {
		triggers, s := Detect("lorem ipsum dolor sit amet")
		assert.Equal(t, Minor, s)
		assert.Empty(t, triggers)
	})

	t.Run("triggers are de-duplicated", func(t *testing.T) {
		triggers, s := Detect("price price price")
		assert.Equal(t, Major, s)
		assert.Equal(t, []string{"price"}, triggers)
	})

	t.Run("case insensitive", func(t *testing.T) {
		_, s := Detect("SECURITY BREACH")
		assert.Equal(t, Major, s)
	})
}

func TestMerge(t *testing.T) {
	// 合并结果永远不低于任一输入
	assert.Equal(t, Major, Merge(Major, Minor))
	assert.Equal(t, Major, Merge(Minor, Major))
	assert.Equal(t, Moderate, Merge(Moderate, Minor))
	assert.Equal(t, Moderate, Merge(Moderate, Moderate))
	assert.Equal(t, Minor, Merge(Minor, Minor))
}

func TestParse(t *testing.T) {
	s, ok := Parse("Major")
	assert.True(t, ok)
	assert.Equal(t, Major, s)

	s, ok = Parse(" moderate ")
	assert.True(t, ok)
	assert.Equal(t, Moderate, s)

	_, ok = Parse("catastrophic")
	assert.False(t, ok)
}

func TestMeets(t *testing.T) {
	assert.True(t, Major.Meets(Minor))
	assert.True(t, Moderate.Meets(Moderate))
	assert.False(t, Minor.Meets(Moderate))
}
