package serpapi

import (
	"context"
	"net/url"
	"strings"

	"github.com/tripflow/server/internal/agent/model"
)

const maxSearchResults = 3

type webSearchResponse struct {
	OrganicResults []struct {
		Title   string `json:"title"`
		Snippet string `json:"snippet"`
		Link    string `json:"link"`
	} `json:"organic_results"`
}

// SearchWeb queries the plain google engine and renders the top organic
// results as a compact text block for the tool message.
func (c *Client) SearchWeb(ctx context.Context, query string) (string, error) {
	params := url.Values{}
	params.Set("engine", "google")
	params.Set("q", query)

	var resp webSearchResponse
	if err := c.get(ctx, params, &resp); err != nil {
		return "", err
	}

	var b strings.Builder
	for i, r := range resp.OrganicResults {
		if i >= maxSearchResults {
			break
		}
		b.WriteString(r.Title)
		if r.Snippet != "" {
			b.WriteString(": ")
			b.WriteString(r.Snippet)
		}
		if r.Link != "" {
			b.WriteString(" (")
			b.WriteString(r.Link)
			b.WriteString(")")
		}
		b.WriteString("\n")
	}
	if b.Len() == 0 {
		return "No results found.", nil
	}
	return strings.TrimSpace(b.String()), nil
}

var _ model.WebSearcher = (*Client)(nil)
