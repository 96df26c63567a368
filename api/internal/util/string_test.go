package util

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStripCodeFences(t *testing.T) {
	require.Equal(t, `{"a":1}`, StripCodeFences("```json\n{\"a\":1}\n```"))
	require.Equal(t, "plain", StripCodeFences("  plain  "))
}

func TestSanitizeReport(t *testing.T) {
	in := "```\n## ПЛАН\n**Skincare** и __mewing__\n# Заголовок\n```"
	out := SanitizeReport(in)
	require.NotContains(t, out, "**")
	require.NotContains(t, out, "__")
	require.NotContains(t, out, "##")
	require.Contains(t, out, "Skincare и mewing")
	require.Contains(t, out, "Заголовок")
}

func TestSniffMimeHTTP(t *testing.T) {
	require.Equal(t, "image/jpeg", SniffMimeHTTP([]byte{0xFF, 0xD8, 0x00}))
	require.Equal(t, "image/png", SniffMimeHTTP([]byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}))
	require.Equal(t, "application/octet-stream", SniffMimeHTTP([]byte("hello")))
}
