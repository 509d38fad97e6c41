package rope

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunks_RoundTripAndBounds(t *testing.T) {
	text := strings.Repeat("chunk walking text こんにちは ", 1500)
	r := FromString(text)
	var sb strings.Builder
	count := 0
	it := r.Chunks()
	for it.Next() {
		chunk := it.Current()
		require.NotEmpty(t, chunk)
		require.LessOrEqual(t, len(chunk), maxBytes)
		sb.WriteString(chunk)
		count++
	}
	assert.Equal(t, text, sb.String())
	assert.Greater(t, count, 1)
}

func TestChunks_EmptyRope(t *testing.T) {
	it := New().Chunks()
	assert.False(t, it.Next())
}

func TestIterBytes(t *testing.T) {
	text := "byte by byte 🌍"
	r := FromString(text)
	var got []byte
	it := r.IterBytes()
	for it.Next() {
		got = append(got, it.Current())
	}
	assert.Equal(t, []byte(text), got)
}

func TestIterRunes(t *testing.T) {
	text := strings.Repeat("aあ🌍", 500)
	r := FromString(text)
	var got []rune
	it := r.IterRunes()
	for it.Next() {
		got = append(got, it.Current())
	}
	assert.Equal(t, []rune(text), got)
}

func TestIterLines(t *testing.T) {
	r := FromString("one\ntwo\r\nthree\rfour")
	var got []string
	it := r.IterLines()
	for it.Next() {
		got = append(got, it.Current())
	}
	assert.Equal(t, []string{"one", "two", "three", "four"}, got)
}

func TestIterLines_TrailingBreak(t *testing.T) {
	r := FromString("one\ntwo\n")
	var got []string
	it := r.IterLines()
	for it.Next() {
		got = append(got, it.Current())
	}
	assert.Equal(t, []string{"one", "two", ""}, got)
}

func TestIterLines_EmptyRope(t *testing.T) {
	it := New().IterLines()
	assert.True(t, it.Next())
	assert.Equal(t, "", it.Current())
	assert.Equal(t, 0, it.LineIndex())
	assert.False(t, it.Next())
}

func TestLine_Access(t *testing.T) {
	r := FromString("alpha\nbeta\r\ngamma")
	assert.Equal(t, "alpha", r.Line(0))
	assert.Equal(t, "beta", r.Line(1))
	assert.Equal(t, "gamma", r.Line(2))
	assert.Equal(t, "", r.Line(3))
	assert.Equal(t, "", r.Line(-1))
}

func TestLine_LargeDocument(t *testing.T) {
	n := 5000
	var sb strings.Builder
	for i := 0; i < n; i++ {
		sb.WriteString("line payload with some width to force real tree depth\n")
	}
	r := FromString(sb.String())
	assert.Equal(t, n+1, r.LenLines())
	assert.Equal(t, "line payload with some width to force real tree depth", r.Line(0))
	assert.Equal(t, "line payload with some width to force real tree depth", r.Line(n-1))
	assert.Equal(t, "", r.Line(n))
}

func TestChunkAt(t *testing.T) {
	text := strings.Repeat("0123456789", 2000)
	r := FromString(text)

	chunk, startByte, startChar := r.ChunkAtByte(12345)
	assert.Equal(t, startByte, startChar, "pure ASCII")
	assert.LessOrEqual(t, startByte, 12345)
	assert.Greater(t, startByte+len(chunk), 12345)
	assert.Equal(t, text[startByte:startByte+len(chunk)], chunk)

	chunk2, sb2, sc2 := r.ChunkAtChar(12345)
	assert.Equal(t, chunk, chunk2)
	assert.Equal(t, startByte, sb2)
	assert.Equal(t, startChar, sc2)
}

func TestChunkAt_Seams(t *testing.T) {
	r := FromString(strings.Repeat("x", 5*maxBytes))
	it := r.Chunks()
	require.True(t, it.Next())
	first := it.Current()

	// A seam offset resolves to the chunk starting there.
	chunk, startByte, _ := r.ChunkAtByte(len(first))
	assert.Equal(t, len(first), startByte)
	require.True(t, it.Next())
	assert.Equal(t, it.Current(), chunk)
}
