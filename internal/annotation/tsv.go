package annotation

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
)

const maxLineSize = 16 * 1024 * 1024

// Token is one row of a token table.
type Token struct {
	Paragraph int
	Sentence  int
	Index     int // position within the document
	Word      string
}

// ReadResult counts the lines a reader skipped.
type ReadResult struct {
	Lines   int
	Skipped int
}

// ReadEntities parses an entity table with the columns
// COREF, start_token, end_token, prop, cat, text.
func ReadEntities(r io.Reader) ([]Mention, ReadResult, error) {
	var out []Mention
	res, err := scanTSV(r, "entities", func(fields []string) error {
		if len(fields) != 6 {
			return fmt.Errorf("%w: want 6 columns, got %d", ErrMalformedRecord, len(fields))
		}
		start, end, err := span(fields[1], fields[2])
		if err != nil {
			return err
		}
		out = append(out, Mention{
			EntityID: strings.TrimSpace(fields[0]),
			Start:    start,
			End:      end,
			Type:     MentionType(strings.TrimSpace(fields[3])),
			Category: strings.TrimSpace(fields[4]),
			Text:     strings.TrimSpace(fields[5]),
		})
		return nil
	})
	return out, res, err
}

// ReadQuotes parses a quote table with the columns quote_start, quote_end,
// mention_start, mention_end, mention_phrase, char_id, quote.
func ReadQuotes(r io.Reader) ([]AttributedQuote, ReadResult, error) {
	var out []AttributedQuote
	res, err := scanTSV(r, "quotes", func(fields []string) error {
		if len(fields) != 7 {
			return fmt.Errorf("%w: want 7 columns, got %d", ErrMalformedRecord, len(fields))
		}
		start, end, err := span(fields[0], fields[1])
		if err != nil {
			return err
		}
		out = append(out, AttributedQuote{
			SpeakerID: strings.TrimSpace(fields[5]),
			Text:      strings.TrimSpace(fields[6]),
			Start:     start,
			End:       end,
		})
		return nil
	})
	return out, res, err
}

// ReadTokens parses a token table. Only the first five columns
// (paragraph_ID, sentence_ID, token_ID_within_sentence,
// token_ID_within_document, word) are used.
func ReadTokens(r io.Reader) ([]Token, ReadResult, error) {
	var out []Token
	res, err := scanTSV(r, "tokens", func(fields []string) error {
		if len(fields) < 5 {
			return fmt.Errorf("%w: want at least 5 columns, got %d", ErrMalformedRecord, len(fields))
		}
		nums := make([]int, 4)
		for i := range nums {
			n, err := strconv.Atoi(strings.TrimSpace(fields[i]))
			if err != nil {
				return fmt.Errorf("%w: column %d: %v", ErrMalformedRecord, i+1, err)
			}
			nums[i] = n
		}
		out = append(out, Token{
			Paragraph: nums[0],
			Sentence:  nums[1],
			Index:     nums[3],
			Word:      fields[4],
		})
		return nil
	})
	return out, res, err
}

// scanTSV feeds tab-separated lines to parse. A first line whose leading
// column is not numeric is treated as a header. Lines that fail to parse
// are skipped and counted.
func scanTSV(r io.Reader, name string, parse func([]string) error) (ReadResult, error) {
	var res ReadResult

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	for scanner.Scan() {
		res.Lines++
		line := strings.TrimRight(scanner.Text(), "\r")
		if line == "" {
			continue
		}
		fields := strings.Split(line, "\t")

		if res.Lines == 1 && !isNumber(fields[0]) {
			continue
		}

		if err := parse(fields); err != nil {
			res.Skipped++
			slog.Debug("skipping annotation line", "file", name, "line", res.Lines, "error", err)
		}
	}
	if err := scanner.Err(); err != nil {
		return res, fmt.Errorf("read %s: %w", name, err)
	}

	if res.Skipped > 0 {
		slog.Warn("skipped malformed annotation lines", "file", name, "skipped", res.Skipped, "lines", res.Lines)
	}

	return res, nil
}

func span(a, b string) (int, int, error) {
	start, err := strconv.Atoi(strings.TrimSpace(a))
	if err != nil {
		return 0, 0, fmt.Errorf("%w: start: %v", ErrMalformedRecord, err)
	}
	end, err := strconv.Atoi(strings.TrimSpace(b))
	if err != nil {
		return 0, 0, fmt.Errorf("%w: end: %v", ErrMalformedRecord, err)
	}
	return start, end, nil
}

func isNumber(s string) bool {
	_, err := strconv.Atoi(strings.TrimSpace(s))
	return err == nil
}
