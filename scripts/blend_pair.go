// blend_pair.go — standalone script to compute and print a blend for two readers.
//
// Usage:
//
//	go run scripts/blend_pair.go -a 42944663 -b 48799880 -api http://localhost:8700 -key $BOOKBLEND_API_KEY
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
)

type component struct {
	Name     string  `json:"name"`
	Score    float64 `json:"score"`
	Weight   float64 `json:"weight"`
	Weighted float64 `json:"weighted"`
	Reason   string  `json:"reason"`
}

type blendResponse struct {
	ReaderA    string      `json:"reader_a"`
	ReaderB    string      `json:"reader_b"`
	GenresA    []string    `json:"genres_a"`
	GenresB    []string    `json:"genres_b"`
	Score      float64     `json:"score"`
	ScoreRaw   float64     `json:"score_raw"`
	Components []component `json:"components"`
}

func main() {
	readerA := flag.String("a", "", "first reader id")
	readerB := flag.String("b", "", "second reader id")
	apiURL := flag.String("api", "http://localhost:8700", "BookBlend API base URL")
	apiKey := flag.String("key", "", "X-API-Key header value")
	flag.Parse()

	if *readerA == "" || *readerB == "" {
		log.Fatal("both -a and -b are required")
	}

	u := fmt.Sprintf("%s/api/v1/blend?reader_a=%s&reader_b=%s",
		*apiURL, url.QueryEscape(*readerA), url.QueryEscape(*readerB))
	req, err := http.NewRequest("GET", u, nil)
	if err != nil {
		log.Fatal(err)
	}
	if *apiKey != "" {
		req.Header.Set("X-API-Key", *apiKey)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		log.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		log.Fatalf("blend failed: %d %s", resp.StatusCode, string(body))
	}

	var blend blendResponse
	if err := json.Unmarshal(body, &blend); err != nil {
		log.Fatalf("decode response: %v", err)
	}

	fmt.Printf("Blend for %s and %s\n", blend.ReaderA, blend.ReaderB)
	fmt.Printf("  score: %.1f (raw %.1f)\n", blend.Score, blend.ScoreRaw)
	fmt.Printf("  genres: %v vs %v\n\n", blend.GenresA, blend.GenresB)
	fmt.Printf("%-16s %7s %7s %9s  %s\n", "component", "score", "weight", "weighted", "reason")
	for _, c := range blend.Components {
		fmt.Printf("%-16s %7.3f %7.2f %9.3f  %s\n", c.Name, c.Score, c.Weight, c.Weighted, c.Reason)
	}
}
