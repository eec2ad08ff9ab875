package cleanse_test

import (
	"strings"
	"testing"

	"github.com/justacman/cleanse"
	"github.com/stretchr/testify/require"
)

func TestParseFragment_NoPolicyLeavesTreeUnsanitized(t *testing.T) {
	doc, err := cleanse.ParseFragment(`<script>alert(1)</script>`)
	require.NoError(t, err)
	require.Len(t, doc.Root().Children, 1)
	require.Equal(t, "script", doc.Root().Children[0].Name())
}

func TestParseFragment_WithPolicySanitizes(t *testing.T) {
	p := basicPolicy()
	got := serialize(t, `<script>alert(1)</script><p>ok</p>`, p)
	require.NotContains(t, got, "script")
	require.Contains(t, got, "<p>ok</p>")
}

func TestParseFragment_UnknownElementKeepsTagName(t *testing.T) {
	doc, err := cleanse.ParseFragment(`<my-widget>x</my-widget>`)
	require.NoError(t, err)
	require.Len(t, doc.Root().Children, 1)
	widget := doc.Root().Children[0]
	require.Equal(t, "my-widget", widget.Name())
}

func TestPreprocess_DropsLoneInvalidBytes(t *testing.T) {
	input := "<p>hi\xffthere</p>"
	doc, err := cleanse.ParseFragment(input)
	require.NoError(t, err)
	got, err := cleanse.NewSerializer(doc).ToHTML()
	require.NoError(t, err)
	require.False(t, strings.ContainsRune(got, 0xFFFD))
}

func TestParseDocument_ExceedsMaxInputBytes(t *testing.T) {
	old := cleanse.MaxInputBytes
	cleanse.MaxInputBytes = 16
	defer func() { cleanse.MaxInputBytes = old }()

	_, err := cleanse.ParseDocument(strings.Repeat("a", 100))
	require.Error(t, err)
	var pe *cleanse.ParseError
	require.ErrorAs(t, err, &pe)
}
