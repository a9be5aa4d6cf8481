package summarizer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

const chunkRunes = 3000

const systemPrompt = `You summarize documents whose text was extracted from PDFs.
Return a concise, plain-language summary as 4-6 Markdown bullet points, each starting with "- ".
Ignore layout artifacts such as repeated headers, page numbers and broken lines.
Do not add preambles or disclaimers.`

// ChatClient is the part of *openai.Client the summarizer needs.
type ChatClient interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

type Summarizer struct {
	client ChatClient
	model  string
}

func New(client ChatClient, model string) *Summarizer {
	if model == "" {
		model = openai.GPT4oMini
	}
	return &Summarizer{client: client, model: model}
}

// NewOpenAI builds a Summarizer backed by the OpenAI API.
func NewOpenAI(apiKey, model string) *Summarizer {
	return New(openai.NewClient(apiKey), model)
}

// Summarize summarizes each chunk of text and then merges the partial
// summaries into one bullet list. Failures are not retried.
func (s *Summarizer) Summarize(ctx context.Context, text string) (string, error) {
	chunks := SplitTextIntoChunks(text, chunkRunes)
	if len(chunks) == 0 {
		return "", errors.New("nothing to summarize")
	}
	if len(chunks) == 1 {
		return s.complete(ctx, chunks[0])
	}

	var partials []string
	for i, chunk := range chunks {
		summary, err := s.complete(ctx, fmt.Sprintf("Section %d of %d:\n\n%s", i+1, len(chunks), chunk))
		if err != nil {
			return "", fmt.Errorf("chunk %d: %w", i+1, err)
		}
		partials = append(partials, summary)
	}

	var input strings.Builder
	input.WriteString("Merge these section summaries of one document into a single list of 4 to 6 bullet points.\n\n")
	for i, p := range partials {
		fmt.Fprintf(&input, "Section %d:\n%s\n\n", i+1, p)
	}
	return s.complete(ctx, input.String())
}

func (s *Summarizer) complete(ctx context.Context, prompt string) (string, error) {
	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("OpenAI summary error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("OpenAI returned no choices")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// SplitTextIntoChunks cuts text into pieces of at most maxRunes runes,
// preferring to cut at line breaks. Blank text yields no chunks.
func SplitTextIntoChunks(text string, maxRunes int) []string {
	var chunks []string
	var cur []rune
	flush := func() {
		if s := strings.TrimSpace(string(cur)); s != "" {
			chunks = append(chunks, s)
		}
		cur = cur[:0]
	}

	for _, line := range strings.SplitAfter(text, "\n") {
		r := []rune(line)
		if len(cur)+len(r) > maxRunes {
			flush()
		}
		for len(r) > maxRunes {
			cur = append(cur, r[:maxRunes]...)
			flush()
			r = r[maxRunes:]
		}
		cur = append(cur, r...)
	}
	flush()
	return chunks
}
