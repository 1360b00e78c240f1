// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package corpus

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"path"
	"sort"
	"strings"

	"github.com/pdiddy/outreach-engine/internal/httputil"
)

// openAlexWorksBase is the OpenAlex Works endpoint. Declared as a var so
// tests can substitute an httptest server.
var openAlexWorksBase = "https://api.openalex.org/works"

// fetchPage requests one page of the filtered works listing. A transport
// failure, non-200 status, or undecodable body is fatal to the whole fetch.
func (f *Fetcher) fetchPage(ctx context.Context, page int) ([]openAlexWork, error) {
	params := url.Values{
		"filter":   {f.cfg.Filter},
		"page":     {fmt.Sprintf("%d", page)},
		"per_page": {fmt.Sprintf("%d", f.cfg.PerPage)},
	}
	if f.cfg.Mailto != "" {
		params.Set("mailto", f.cfg.Mailto)
	}

	var listing openAlexListing
	if err := f.getJSON(ctx, openAlexWorksBase+"?"+params.Encode(), &listing); err != nil {
		return nil, err
	}
	return listing.Results, nil
}

// fetchWork requests a single work by identifier for abstract backfill.
func (f *Fetcher) fetchWork(ctx context.Context, workID string) (openAlexWork, error) {
	// Work IDs arrive as full URLs (https://openalex.org/W123); the API
	// accepts the bare trailing segment.
	reqURL := openAlexWorksBase + "/" + path.Base(workID)
	if f.cfg.Mailto != "" {
		reqURL += "?mailto=" + url.QueryEscape(f.cfg.Mailto)
	}

	var work openAlexWork
	if err := f.getJSON(ctx, reqURL, &work); err != nil {
		return openAlexWork{}, err
	}
	return work, nil
}

// getJSON performs a rate-limited GET and decodes the JSON body into out.
func (f *Fetcher) getJSON(ctx context.Context, reqURL string, out any) error {
	if err := f.limiter.Wait(ctx); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", f.cfg.UserAgent)

	resp, err := httputil.DoWithRetry(ctx, f.client, req, 0)
	if err != nil {
		return fmt.Errorf("OpenAlex API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("OpenAlex API returned HTTP %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("parsing OpenAlex response: %w", err)
	}
	return nil
}

// reconstructAbstract converts OpenAlex's abstract_inverted_index back to
// plain text. The inverted index maps each word to a list of positions
// where that word appears.
func reconstructAbstract(invertedIndex map[string][]int) string {
	if len(invertedIndex) == 0 {
		return ""
	}

	type posWord struct {
		pos  int
		word string
	}
	var pairs []posWord
	for word, positions := range invertedIndex {
		for _, pos := range positions {
			pairs = append(pairs, posWord{pos: pos, word: word})
		}
	}

	sort.Slice(pairs, func(i, j int) bool {
		return pairs[i].pos < pairs[j].pos
	})

	words := make([]string, len(pairs))
	for i, p := range pairs {
		words[i] = p.word
	}
	return strings.Join(words, " ")
}

// OpenAlex API JSON structures.
type openAlexListing struct {
	Meta    openAlexMeta   `json:"meta"`
	Results []openAlexWork `json:"results"`
}

type openAlexMeta struct {
	Count   int `json:"count"`
	PerPage int `json:"per_page"`
	Page    int `json:"page"`
}

type openAlexWork struct {
	ID                    string               `json:"id"`
	Title                 string               `json:"title"`
	PublicationDate       string               `json:"publication_date"`
	PublicationYear       int                  `json:"publication_year"`
	PrimaryLocation       openAlexLocation     `json:"primary_location"`
	Authorships           []openAlexAuthorship `json:"authorships"`
	AbstractInvertedIndex map[string][]int     `json:"abstract_inverted_index"`
}

type openAlexLocation struct {
	Source openAlexSource `json:"source"`
}

type openAlexSource struct {
	DisplayName string `json:"display_name"`
}

type openAlexAuthorship struct {
	Author       openAlexAuthor        `json:"author"`
	Institutions []openAlexInstitution `json:"institutions"`
}

type openAlexAuthor struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

type openAlexInstitution struct {
	DisplayName string `json:"display_name"`
}
