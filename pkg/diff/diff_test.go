package diff

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompute_IdenticalTexts(t *testing.T) {
	for _, text := range []string{"", "hello", "multi\nline\ntext", "中文内容"} {
		result := Compute(text, text)
		assert.False(t, result.Changed, "text=%q", text)
		assert.Empty(t, result.HTML)
		assert.Empty(t, result.Snippets)
	}
}

func TestCompute_Deterministic(t *testing.T) {
	oldText := "Price: $49/mo. Support included."
	newText := "Price: $39/mo. Support included."

	a := Compute(oldText, newText)
	b := Compute(oldText, newText)
	assert.Equal(t, a, b)
}

func TestCompute_PriceChange(t *testing.T) {
	result := Compute("Price: $49/mo", "Price: $39/mo")
	require.True(t, result.Changed)

	assert.Contains(t, result.HTML, `<ins class="diff-added">`)
	assert.Contains(t, result.HTML, `<del class="diff-removed">`)
	assert.Contains(t, result.HTML, `<span class="diff-equal">`)

	require.NotEmpty(t, result.Snippets)
	joined := ""
	for _, s := range result.Snippets {
		joined += s.Text + " " + s.Context + " "
	}
	assert.Contains(t, joined, "4")
	assert.Contains(t, joined, "3")
}

func TestCompute_AllInsertWhenOldEmpty(t *testing.T) {
	result := Compute("", "Brand new page content")
	require.True(t, result.Changed)
	assert.Contains(t, result.HTML, `<ins class="diff-added">`)
	assert.NotContains(t, result.HTML, `<del`)
	require.Len(t, result.Snippets, 1)
	assert.True(t, strings.HasPrefix(result.Snippets[0].Context, "Added:"))
}

func TestCompute_HTMLEscaped(t *testing.T) {
	result := Compute("safe text", `safe <script>alert("x")</script> text`)
	require.True(t, result.Changed)
	assert.NotContains(t, result.HTML, "<script>")
	assert.Contains(t, result.HTML, "&lt;script&gt;")
}

func TestCompute_SnippetBound(t *testing.T) {
	// 构造远超 5 处变更区域的输入
	var oldParts, newParts []string
	for i := 0; i < 12; i++ {
		oldParts = append(oldParts, fmt.Sprintf("section %d keeps STABLEBLOCK%d value alpha%d end.", i, i, i))
		newParts = append(newParts, fmt.Sprintf("section %d keeps STABLEBLOCK%d value omega%d end.", i, i, i))
	}
	result := Compute(strings.Join(oldParts, "\n"), strings.Join(newParts, "\n"))

	require.True(t, result.Changed)
	assert.Len(t, result.Snippets, 5)

	for _, s := range result.Snippets {
		assert.LessOrEqual(t, len([]rune(s.Text)), 140)
		assert.LessOrEqual(t, len([]rune(s.Context)), 200)
		assert.NotEmpty(t, s.Text)
	}
}

func TestCompute_SnippetTextCollapsesWhitespace(t *testing.T) {
	result := Compute("before same after", "before same   added\t\ttext\n\nhere after")
	require.True(t, result.Changed)
	require.NotEmpty(t, result.Snippets)
	for _, s := range result.Snippets {
		assert.NotContains(t, s.Text, "\n")
		assert.NotContains(t, s.Text, "\t")
		assert.NotContains(t, s.Text, "  ")
	}
}

func TestCompute_ContextMentionsNeighbors(t *testing.T) {
	result := Compute(
		"The quick brown fox jumps over the lazy dog",
		"The quick brown cat jumps over the lazy dog",
	)
	require.True(t, result.Changed)
	require.NotEmpty(t, result.Snippets)

	ctx := result.Snippets[0].Context
	assert.Contains(t, ctx, "→")
	assert.Contains(t, ctx, "quick brown")
}
