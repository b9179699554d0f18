package annotation

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abdulachik/litminer/internal/profile"
)

const entitiesTSV = "COREF\tstart_token\tend_token\tprop\tcat\ttext\n" +
	"12\t0\t1\tPROP\tPER\tWinston Smith\n" +
	"12\t30\t30\tPRON\tPER\the\n" +
	"broken line\n" +
	"40\tx\t5\tPROP\tPER\tJulia\n" +
	"40\t5\t5\tPROP\tPER\tJulia\n"

const quotesTSV = "quote_start\tquote_end\tmention_start\tmention_end\tmention_phrase\tchar_id\tquote\n" +
	"3\t10\t1\t1\tJulia\t40\t“ I love you ”\n" +
	"300\t310\t0\t0\the\t12\tWe are the dead\n"

const tokensTSV = "paragraph_ID\tsentence_ID\ttoken_ID_within_sentence\ttoken_ID_within_document\tword\tlemma\n" +
	"0\t0\t0\t0\tWinston\twinston\n" +
	"0\t0\t1\t1\tSmith\tsmith\n" +
	"0\t0\t2\t2\twalked\twalk\n" +
	"1\t1\t0\t3\tJulia\tjulia\n" +
	"1\t1\t1\t4\tsmiled\tsmile\n" +
	"1\t1\t2\t5\tJulia\tjulia\n"

func TestReadEntities(t *testing.T) {
	mentions, res, err := ReadEntities(strings.NewReader(entitiesTSV))
	require.NoError(t, err)

	assert.Equal(t, 6, res.Lines)
	assert.Equal(t, 2, res.Skipped)
	require.Len(t, mentions, 3)

	assert.Equal(t, Mention{EntityID: "12", Start: 0, End: 1, Type: Proper, Category: "PER", Text: "Winston Smith"}, mentions[0])
	assert.Equal(t, Pronoun, mentions[1].Type)
	assert.False(t, mentions[1].Type.Named())
	assert.True(t, Nominal.Named())
}

func TestReadQuotes(t *testing.T) {
	quotes, res, err := ReadQuotes(strings.NewReader(quotesTSV))
	require.NoError(t, err)
	assert.Equal(t, 0, res.Skipped)
	require.Len(t, quotes, 2)
	assert.Equal(t, "40", quotes[0].SpeakerID)
	assert.Equal(t, 3, quotes[0].Start)
	assert.Equal(t, "We are the dead", quotes[1].Text)
}

func TestReadTokens(t *testing.T) {
	t.Run("with header", func(t *testing.T) {
		tokens, res, err := ReadTokens(strings.NewReader(tokensTSV))
		require.NoError(t, err)
		assert.Equal(t, 0, res.Skipped)
		require.Len(t, tokens, 6)
		assert.Equal(t, Token{Paragraph: 1, Sentence: 1, Index: 3, Word: "Julia"}, tokens[3])
	})

	t.Run("without header and short rows", func(t *testing.T) {
		tokens, res, err := ReadTokens(strings.NewReader("0\t0\t0\t0\tHello\n0\t0\t1\n"))
		require.NoError(t, err)
		assert.Len(t, tokens, 1)
		assert.Equal(t, 1, res.Skipped)
	})
}

func writeBook(t *testing.T, dir string, withTokens bool) {
	t.Helper()
	require.NoError(t, os.WriteFile(EntitiesPath(dir, "book"), []byte(entitiesTSV), 0644))
	require.NoError(t, os.WriteFile(QuotesPath(dir, "book"), []byte(quotesTSV), 0644))
	if withTokens {
		require.NoError(t, os.WriteFile(TokensPath(dir, "book"), []byte(tokensTSV), 0644))
	}
}

func TestBookNLPProvider(t *testing.T) {
	t.Run("with tokens", func(t *testing.T) {
		dir := t.TempDir()
		writeBook(t, dir, true)

		p, err := NewBookNLPProvider(dir, "book")
		require.NoError(t, err)
		assert.Equal(t, 2, p.Skipped())

		mentions := p.Mentions()
		require.Len(t, mentions, 3)
		assert.Equal(t, 0, mentions[0].Start)
		assert.Equal(t, 0, mentions[0].Unit)
		assert.Equal(t, "40", mentions[1].EntityID)
		assert.Equal(t, 1, mentions[1].Unit)
		// Token 30 is past the table; it takes the paragraph of token 5.
		assert.Equal(t, 1, mentions[2].Unit)

		quotes := p.Quotes()
		assert.Equal(t, 1, quotes[0].Unit)
		assert.Equal(t, 1, quotes[1].Unit)

		units := p.Units()
		require.Len(t, units, 2)
		assert.Equal(t, "0", units[0].Locator)
		assert.Equal(t, "Winston Smith walked", units[0].Text)
		assert.Equal(t, "Julia smiled Julia", units[1].Text)
	})

	t.Run("without tokens", func(t *testing.T) {
		dir := t.TempDir()
		writeBook(t, dir, false)

		p, err := NewBookNLPProvider(dir, "book")
		require.NoError(t, err)
		assert.Empty(t, p.Units())
		assert.Equal(t, 1, p.Quotes()[1].Unit)
	})

	t.Run("missing entities", func(t *testing.T) {
		_, err := NewBookNLPProvider(t.TempDir(), "book")
		require.Error(t, err)
		assert.True(t, errors.Is(err, fs.ErrNotExist))
	})
}

func TestTextProvider(t *testing.T) {
	text := "Winston Smith looked at O'Brien across the room.\n\n" +
		"\"We shall meet in the place where there is no darkness,\" said O'Brien to Winston.\n\n" +
		"Nobody said anything at all here. \"This line has no speaker at all anywhere.\"\n\n" +
		"Julia laughed. \"Too short.\""

	p := NewTextProvider(text, profile.Default())

	mentions := p.Mentions()
	var got []string
	for _, m := range mentions {
		got = append(got, m.EntityID+":"+m.Text)
	}
	assert.Equal(t, []string{"1:Winston Smith", "3:O'Brien", "3:O'Brien", "1:Winston", "2:Julia"}, got)
	assert.Equal(t, 0, mentions[0].Unit)
	assert.Equal(t, 1, mentions[2].Unit)
	assert.Equal(t, 3, mentions[4].Unit)

	quotes := p.Quotes()
	require.Len(t, quotes, 1)
	assert.Equal(t, "3", quotes[0].SpeakerID)
	assert.Equal(t, "We shall meet in the place where there is no darkness,", quotes[0].Text)
	assert.Equal(t, 1, quotes[0].Unit)

	units := p.Units()
	require.NotEmpty(t, units)
	assert.Equal(t, "0.0", units[0].Locator)
	assert.Equal(t, "Winston Smith looked at O'Brien across the room", units[0].Text)

	for i := 1; i < len(mentions); i++ {
		assert.LessOrEqual(t, mentions[i-1].Unit, mentions[i].Unit)
	}
}

func TestTextProvider_Offsets(t *testing.T) {
	text := "  Winston saw café lights.\n\n\n   \n" +
		"Julia said, \"We are the dead, you and I, tonight.\"\n \n" +
		"Later O'Brien came."

	p := NewTextProvider(text, profile.Default())
	runes := []rune(text)

	mentions := p.Mentions()
	require.Len(t, mentions, 3)
	for _, m := range mentions {
		assert.Equal(t, m.Text, string(runes[m.Start:m.End]))
	}

	quotes := p.Quotes()
	require.Len(t, quotes, 1)
	assert.Equal(t, `"We are the dead, you and I, tonight."`, string(runes[quotes[0].Start:quotes[0].End]))
}
