package insights

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/bookblend/bookblend/internal/blend"
)

// Classifier infers a reader's genre profile from their book list. Labels in
// the returned slice are canonical taxonomy strings, ranked by confidence,
// deduplicated and capped. Implementations own alias resolution; scoring
// never canonicalizes.
type Classifier interface {
	ClassifyGenres(ctx context.Context, readerID string, books []blend.RawBook) (blend.GenreProfile, error)
}

// OpenAIClassifier infers genres with a chat-completions model constrained to
// the canonical taxonomy.
type OpenAIClassifier struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
}

func NewOpenAIClassifier(baseURL, apiKey, model string) *OpenAIClassifier {
	return &OpenAIClassifier{
		baseURL:    baseURL,
		apiKey:     apiKey,
		model:      model,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

const systemPrompt = `You are an expert literary analyst. Given a reader's books, identify their top genres.
Choose ONLY from this taxonomy, do not invent labels, and return ONLY a JSON object of the form
{"genres": ["Genre1", "Genre2"]} ordered from strongest to weakest preference, at most %d entries.
TAXONOMY:
%s`

type chatRequest struct {
	Model          string        `json:"model"`
	Messages       []chatMessage `json:"messages"`
	Temperature    float64       `json:"temperature"`
	ResponseFormat struct {
		Type string `json:"type"`
	} `json:"response_format"`
	MaxTokens int `json:"max_tokens"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (c *OpenAIClassifier) ClassifyGenres(ctx context.Context, readerID string, books []blend.RawBook) (blend.GenreProfile, error) {
	// classify from completed reads only, matching the scoring engine's view
	var lines []string
	for _, b := range books {
		for _, shelf := range b.Shelves {
			if shelf == blend.ShelfRead {
				lines = append(lines, fmt.Sprintf("%s by %s", b.Title, b.Author))
				break
			}
		}
	}
	if len(lines) == 0 {
		return nil, nil
	}

	reqBody := chatRequest{
		Model:       c.model,
		Temperature: 0,
		MaxTokens:   300,
		Messages: []chatMessage{
			{Role: "system", Content: fmt.Sprintf(systemPrompt, MaxReaderGenres, strings.Join(Taxonomy, "\n"))},
			{Role: "user", Content: fmt.Sprintf("Reader %s has read:\n%s", readerID, strings.Join(lines, "\n"))},
		},
	}
	reqBody.ResponseFormat.Type = "json_object"

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/v1/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("classify genres for %s: %w", readerID, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("classifier: %d %s", resp.StatusCode, string(body))
	}

	var chat chatResponse
	if err := json.Unmarshal(body, &chat); err != nil {
		return nil, fmt.Errorf("decode classifier response: %w", err)
	}
	if len(chat.Choices) == 0 {
		return nil, fmt.Errorf("classifier returned no choices")
	}

	var parsed struct {
		Genres []string `json:"genres"`
	}
	if err := json.Unmarshal([]byte(chat.Choices[0].Message.Content), &parsed); err != nil {
		return nil, fmt.Errorf("decode genre list: %w", err)
	}

	return blend.GenreProfile(SanitizeGenres(parsed.Genres)), nil
}
