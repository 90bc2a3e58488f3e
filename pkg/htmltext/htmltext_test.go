package htmltext

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize_StripsNoiseNodes(t *testing.T) {
	raw := `<html><head><title>ignored</title></head><body>
		<script>alert("xss")</script>
		<style>body { color: red }</style>
		<noscript>enable js</noscript>
		<iframe src="https://evil.example"></iframe>
		<svg><circle/></svg>
		<p>Visible paragraph</p>
	</body></html>`

	text, err := Normalize(raw)
	require.NoError(t, err)

	assert.Contains(t, text, "Visible paragraph")
	assert.NotContains(t, text, "alert")
	assert.NotContains(t, text, "color: red")
	assert.NotContains(t, text, "enable js")
	assert.NotContains(t, text, "ignored")
}

func TestNormalize_BodyOnly(t *testing.T) {
	raw := `<html><head><meta name="description" content="meta text"></head><body><div>body text</div></body></html>`
	text, err := Normalize(raw)
	require.NoError(t, err)
	assert.Equal(t, "body text", text)
}

func TestNormalize_WhitespaceCanonicalization(t *testing.T) {
	raw := "<html><body><pre>a\tb</pre><pre>c      d</pre></body></html>"
	text, err := Normalize(raw)
	require.NoError(t, err)

	assert.NotContains(t, text, "\t")
	assert.NotContains(t, text, "  ")

	// 3 个以上换行折叠为 2 个
	assert.NotContains(t, text, "\n\n\n")
	assert.Equal(t, text, strings.TrimSpace(text))
}

func TestNormalize_EmptyContent(t *testing.T) {
	_, err := Normalize("<html><body>   </body></html>")
	assert.ErrorIs(t, err, ErrEmpty)

	_, err = Normalize("")
	assert.ErrorIs(t, err, ErrEmpty)
}

func TestFingerprint_Deterministic(t *testing.T) {
	raw := `<html><body><p>Price: $49/mo</p></body></html>`

	text1, err := Normalize(raw)
	require.NoError(t, err)
	text2, err := Normalize(raw)
	require.NoError(t, err)

	assert.Equal(t, Fingerprint(text1), Fingerprint(text2))
	assert.Len(t, Fingerprint(text1), 64)
}

func TestFingerprint_DiffersOnContentChange(t *testing.T) {
	a, err := Normalize(`<html><body><p>Price: $49/mo</p></body></html>`)
	require.NoError(t, err)
	b, err := Normalize(`<html><body><p>Price: $39/mo</p></body></html>`)
	require.NoError(t, err)

	assert.NotEqual(t, Fingerprint(a), Fingerprint(b))
}

func TestNormalize_MarkupChangeOnlyKeepsFingerprint(t *testing.T) {
	// style 属性与事件属性被剥离，不影响指纹
	a, err := Normalize(`<html><body><p>hello</p></body></html>`)
	assert.NoError(t, err)
	b, err := Normalize(`<html><body><p style="color:red" onclick="x()">hello</p></body></html>`)
	assert.NoError(t, err)

	assert.Equal(t, Fingerprint(a), Fingerprint(b))
}
