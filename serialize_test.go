package cleanse_test

import (
	"testing"

	"github.com/justacman/cleanse"
	"github.com/stretchr/testify/require"
)

func TestSerialize_VoidElementNoCloseTag(t *testing.T) {
	p := cleanse.NewPolicy()
	require.NoError(t, p.SetFlag("br", cleanse.FlagAllow, true))
	got := serialize(t, `<br>`, p)
	require.Equal(t, "<br>", got)
}

func TestSerialize_TemplateSerializesEmptyButClosed(t *testing.T) {
	p := cleanse.NewPolicy()
	require.NoError(t, p.SetFlag("template", cleanse.FlagAllow, true))
	got := serialize(t, `<template><p>hidden</p></template>`, p)
	require.Equal(t, "<template></template>", got)
}

func TestSerialize_AttributeValueEscapesQuote(t *testing.T) {
	p := basicPolicy()
	require.NoError(t, p.SetAllowedAttribute("a", "title", true))
	got := serialize(t, `<a title='he said "hi"'>x</a>`, p)
	require.Contains(t, got, `&quot;hi&quot;`)
}

func TestSerialize_TextEscapesAmpAndAngleBrackets(t *testing.T) {
	p := basicPolicy()
	got := serialize(t, `<p>Tom &amp; Jerry &lt;3</p>`, p)
	require.Contains(t, got, "Tom &amp; Jerry &lt;3")
}

func TestSerialize_ScriptContentNotEscaped(t *testing.T) {
	p := cleanse.NewPolicy()
	require.NoError(t, p.SetFlag("script", cleanse.FlagAllow, true))
	got := serialize(t, `<script>if (1 < 2) { x(); }</script>`, p)
	require.Contains(t, got, "if (1 < 2)")
}

func TestSerialize_DocumentEmitsDoctype(t *testing.T) {
	p := basicPolicy()
	p.SetAllowDoctype(true)
	doc, err := cleanse.ParseDocument(`<!DOCTYPE html><html><body><p>hi</p></body></html>`, cleanse.WithPolicy(p))
	require.NoError(t, err)
	got, err := cleanse.NewSerializer(doc).ToHTML()
	require.NoError(t, err)
	require.Contains(t, got, "<!DOCTYPE html>")
	require.Contains(t, got, "<p>hi</p>")
}

func TestSerialize_DeeplyNestedDoesNotOverflowStack(t *testing.T) {
	p := basicPolicy()
	require.NoError(t, p.SetFlag("i", cleanse.FlagAllow, true))

	input := ""
	for i := 0; i < 5000; i++ {
		input += "<i>"
	}
	input += "deep"
	for i := 0; i < 5000; i++ {
		input += "</i>"
	}

	got := serialize(t, input, p)
	require.Contains(t, got, "deep")
}
