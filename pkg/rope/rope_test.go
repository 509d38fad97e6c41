package rope

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// checkHealthy runs both debug assertions and the round-trip against the
// expected text. Most tests funnel through here after editing.
func checkHealthy(t *testing.T, r *Rope, want string) {
	t.Helper()
	assert.NotPanics(t, func() { r.AssertIntegrity() })
	assert.NotPanics(t, func() { r.AssertInvariants() })
	assert.Equal(t, want, r.String())
	assert.Equal(t, len(want), r.LenBytes())
	assert.Equal(t, len([]rune(want)), r.LenChars())
}

// ========== Construction ==========

func TestNew_Empty(t *testing.T) {
	r := New()
	assert.Equal(t, 0, r.LenBytes())
	assert.Equal(t, 0, r.LenChars())
	assert.Equal(t, 1, r.LenLines())
	assert.Equal(t, "", r.String())
}

func TestFromString_Simple(t *testing.T) {
	text := "Hello, World!"
	r := FromString(text)
	checkHealthy(t, r, text)
}

func TestFromString_Unicode(t *testing.T) {
	text := "Hello 世界 🌍🌎🌏"
	r := FromString(text)
	assert.Equal(t, 12, r.LenChars())
	checkHealthy(t, r, text)
}

func TestFromString_Large(t *testing.T) {
	text := strings.Repeat("All work and no play makes Jack a dull boy.\n", 4000)
	r := FromString(text)
	checkHealthy(t, r, text)
	assert.Equal(t, 4001, r.LenLines())
}

func TestFromString_LargeSingleLine(t *testing.T) {
	// Pathological shape: hundreds of kilobytes with no line break.
	text := strings.Repeat("abcdefghij", 50000)
	r := FromString(text)
	checkHealthy(t, r, text)
	assert.Equal(t, 1, r.LenLines())
}

func TestFromBytes(t *testing.T) {
	r := FromBytes([]byte("héllo"))
	checkHealthy(t, r, "héllo")
}

// ========== Insert ==========

func TestInsert_Scenario1(t *testing.T) {
	r := New()
	require.NoError(t, r.Insert(0, "Hello world!"))
	require.NoError(t, r.Insert(3, "zopter"))
	assert.Equal(t, "Helzopterlo world!", r.String())
	assert.Equal(t, 18, r.LenChars())
	checkHealthy(t, r, "Helzopterlo world!")
}

func TestInsert_Scenario2(t *testing.T) {
	r := New()
	chars := []string{"こ", "ん", "い", "ち", "は", "、", "み", "ん", "な", "さ", "ん"}
	for i, c := range chars {
		require.NoError(t, r.Insert(i, c))
	}
	require.NoError(t, r.Insert(7, "zopter"))
	checkHealthy(t, r, "こんいちは、みzopterんなさん")
}

func TestInsert_Empty(t *testing.T) {
	r := FromString("Hello")
	require.NoError(t, r.Insert(2, ""))
	checkHealthy(t, r, "Hello")
}

func TestInsert_OutOfBounds(t *testing.T) {
	r := FromString("Hello")
	err := r.Insert(6, "x")
	require.Error(t, err)
	var oob *ErrOutOfBounds
	assert.ErrorAs(t, err, &oob)
	checkHealthy(t, r, "Hello")
}

func TestInsert_GrowsPastLeafCapacity(t *testing.T) {
	r := New()
	var sb strings.Builder
	for i := 0; i < 500; i++ {
		require.NoError(t, r.Insert(r.LenChars(), "chunk of text "))
		sb.WriteString("chunk of text ")
	}
	checkHealthy(t, r, sb.String())
}

func TestInsert_MiddleOfDeepTree(t *testing.T) {
	base := strings.Repeat("0123456789", 2000)
	r := FromString(base)
	require.NoError(t, r.Insert(10000, "<INSERTED>"))
	want := base[:10000] + "<INSERTED>" + base[10000:]
	checkHealthy(t, r, want)
}

func TestInsert_LargeText(t *testing.T) {
	// Exercises the split-and-append strategy.
	base := strings.Repeat("base text here. ", 500)
	big := strings.Repeat("LARGE INSERT ", 300)
	r := FromString(base)
	require.NoError(t, r.Insert(100, big))
	want := base[:100] + big + base[100:]
	checkHealthy(t, r, want)
}

func TestInsert_LargeTextIntoSmallLeaf(t *testing.T) {
	// Exercises the rebuild-around strategy: leaf host, big insert.
	big := strings.Repeat("0123456789", 200)
	r := FromString("tiny")
	require.NoError(t, r.Insert(2, big))
	checkHealthy(t, r, "ti"+big+"ny")
}

func TestInsert_UnicodeAtEveryPosition(t *testing.T) {
	base := "aあbいc"
	for i := 0; i <= len([]rune(base)); i++ {
		r := FromString(base)
		require.NoError(t, r.Insert(i, "🌍"))
		runes := []rune(base)
		want := string(runes[:i]) + "🌍" + string(runes[i:])
		checkHealthy(t, r, want)
	}
}

// ========== Remove ==========

func TestRemove_Scenario3_CRLF(t *testing.T) {
	// "\r\n\r\n\r" followed by ten more pairs; removing chars [3,6) takes
	// the \n of the second pair, the lone \r, and the \r of the next pair,
	// leaving eleven intact pairs.
	r := FromString("\r\n\r\n\r" + strings.Repeat("\r\n", 10))
	require.NoError(t, r.Remove(3, 6))
	checkHealthy(t, r, strings.Repeat("\r\n", 11))
}

func TestRemove_Scenario6(t *testing.T) {
	r := FromString("Hello world! How are you doing? こんいちは、みんなさん！")
	require.NoError(t, r.Remove(5, 11))
	require.NoError(t, r.Remove(24, 31))
	require.NoError(t, r.Remove(19, 25))
	checkHealthy(t, r, "Hello! How are you みんなさん！")
}

func TestRemove_All(t *testing.T) {
	r := FromString(strings.Repeat("text ", 2000))
	require.NoError(t, r.Remove(0, r.LenChars()))
	checkHealthy(t, r, "")
	assert.Equal(t, 1, r.LenLines())
}

func TestRemove_EmptyRange(t *testing.T) {
	r := FromString("Hello")
	require.NoError(t, r.Remove(3, 3))
	checkHealthy(t, r, "Hello")
}

func TestRemove_InvalidRange(t *testing.T) {
	r := FromString("Hello")
	require.Error(t, r.Remove(3, 2))
	require.Error(t, r.Remove(0, 6))
	require.Error(t, r.Remove(-1, 2))
	checkHealthy(t, r, "Hello")
}

func TestRemove_LargeSpans(t *testing.T) {
	base := strings.Repeat("0123456789", 3000)
	runes := []rune(base)
	cases := [][2]int{{0, 15000}, {15000, 30000}, {1, 29999}, {12345, 23456}}
	for _, c := range cases {
		r := FromString(base)
		require.NoError(t, r.Remove(c[0], c[1]))
		want := string(runes[:c[0]]) + string(runes[c[1]:])
		checkHealthy(t, r, want)
	}
}

func TestRemove_RepeatedFrontAndBack(t *testing.T) {
	text := strings.Repeat("abcdefghij", 1000)
	r := FromString(text)
	want := []rune(text)
	for r.LenChars() > 20 {
		require.NoError(t, r.Remove(0, 7))
		want = want[7:]
		end := len(want)
		require.NoError(t, r.Remove(r.LenChars()-5, r.LenChars()))
		want = want[:end-5]
	}
	checkHealthy(t, r, string(want))
}

// ========== SplitOff ==========

func TestSplitOff_Scenario4(t *testing.T) {
	orig := "Hello world! How are you doing? こんいちは、みんなさん！"
	r := FromString(orig)
	r2, err := r.SplitOff(20)
	require.NoError(t, err)
	checkHealthy(t, r, "Hello world! How are")
	checkHealthy(t, r2, " you doing? こんいちは、みんなさん！")

	r = FromString(orig)
	r2, err = r.SplitOff(0)
	require.NoError(t, err)
	checkHealthy(t, r, "")
	checkHealthy(t, r2, orig)

	r = FromString(orig)
	r2, err = r.SplitOff(r.LenChars())
	require.NoError(t, err)
	checkHealthy(t, r, orig)
	checkHealthy(t, r2, "")
}

func TestSplitOff_EveryTenth(t *testing.T) {
	text := strings.Repeat("split me ", 900)
	runes := []rune(text)
	for pos := 0; pos <= len(runes); pos += len(runes) / 10 {
		r := FromString(text)
		r2, err := r.SplitOff(pos)
		require.NoError(t, err)
		checkHealthy(t, r, string(runes[:pos]))
		checkHealthy(t, r2, string(runes[pos:]))
	}
}

func TestSplitOff_OutOfBounds(t *testing.T) {
	r := FromString("Hello")
	_, err := r.SplitOff(9)
	require.Error(t, err)
	checkHealthy(t, r, "Hello")
}

// ========== Append ==========

func TestAppend_Scenario5(t *testing.T) {
	left := FromString("Hello world! How are")
	right := FromString(" you doing? こんいちは、みんなさん！")
	left.Append(right)
	checkHealthy(t, left, "Hello world! How are you doing? こんいちは、みんなさん！")
	checkHealthy(t, right, "")
}

func TestAppend_SplitThenReappend(t *testing.T) {
	// Splits at several positions and re-appends. The text fits one leaf,
	// so both halves have equal depth; TestAppend_DepthMismatch covers
	// grafts between trees of different depths.
	orig := "Hello world! How are you doing? こんいちは、みんなさん！"
	for _, pos := range []int{1, 10, 20, 32, 38, 43} {
		r := FromString(orig)
		r2, err := r.SplitOff(pos)
		require.NoError(t, err)
		r.Append(r2)
		checkHealthy(t, r, orig)
	}
}

func TestAppend_DepthMismatch(t *testing.T) {
	deep := strings.Repeat("deep tree contents here ", 2000)
	shallow := "short"

	r := FromString(deep)
	r.Append(FromString(shallow))
	checkHealthy(t, r, deep+shallow)

	r = FromString(shallow)
	r.Append(FromString(deep))
	checkHealthy(t, r, shallow+deep)
}

func TestAppend_Empty(t *testing.T) {
	r := FromString("Hello")
	r.Append(New())
	checkHealthy(t, r, "Hello")

	r = New()
	r.Append(FromString("Hello"))
	checkHealthy(t, r, "Hello")
}

func TestAppend_ManyPieces(t *testing.T) {
	var want strings.Builder
	r := New()
	for i := 0; i < 300; i++ {
		piece := strings.Repeat("piece! ", i%17+1)
		want.WriteString(piece)
		r.Append(FromString(piece))
	}
	checkHealthy(t, r, want.String())
}

// ========== Split-Append Identity ==========

func TestSplitAppend_Identity(t *testing.T) {
	text := strings.Repeat("Lorem ipsum dolor sit amet, こんにちは 🌍. ", 400)
	runes := []rune(text)
	for _, pos := range []int{0, 1, 7, len(runes) / 3, len(runes) / 2, len(runes) - 1, len(runes)} {
		r := FromString(text)
		r2, err := r.SplitOff(pos)
		require.NoError(t, err)
		r.Append(r2)
		checkHealthy(t, r, text)
	}
}

// ========== Clone Isolation ==========

func TestClone_Isolation(t *testing.T) {
	r := FromString(strings.Repeat("shared text ", 500))
	orig := r.String()
	r2 := r.Clone()

	require.NoError(t, r.Insert(100, "MUTATION"))
	require.NoError(t, r.Remove(0, 50))
	checkHealthy(t, r2, orig)

	// And the other direction.
	require.NoError(t, r2.Insert(0, "PREFIX"))
	assert.NotEqual(t, r.String(), r2.String())
	checkHealthy(t, r2, "PREFIX"+orig)
}

func TestClone_ChainsOfClones(t *testing.T) {
	r := FromString("base")
	var snapshots []string
	var clones []*Rope
	for i := 0; i < 10; i++ {
		c := r.Clone()
		clones = append(clones, c)
		snapshots = append(snapshots, c.String())
		require.NoError(t, r.Insert(r.LenChars(), " more"))
	}
	for i, c := range clones {
		checkHealthy(t, c, snapshots[i])
	}
}

// ========== Equality ==========

func TestEqual_DifferentShapes(t *testing.T) {
	text := strings.Repeat("same text, different trees. ", 300)
	a := FromString(text)
	b := New()
	for _, line := range strings.SplitAfter(text, " ") {
		require.NoError(t, b.Insert(b.LenChars(), line))
	}
	assert.True(t, a.Equal(b))
	assert.True(t, a.EqualString(text))
	assert.True(t, b.EqualString(text))

	require.NoError(t, b.Remove(17, 18))
	assert.False(t, a.Equal(b))
	assert.False(t, b.EqualString(text))
}

func TestEqual_Empty(t *testing.T) {
	assert.True(t, New().Equal(New()))
	assert.True(t, New().EqualString(""))
	assert.False(t, New().Equal(FromString("x")))
}
