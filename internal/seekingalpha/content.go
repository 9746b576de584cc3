package seekingalpha

import (
	"context"
	"encoding/json"
	"net/url"
)

const detailPath = "/news/get-details"

// FetchContent returns the raw get-details payload for one article. The
// body is returned as-is; it is only checked to be JSON. There is no retry.
func (c *Client) FetchContent(ctx context.Context, articleID string) (string, error) {
	if !c.HasCredential() {
		return "", ErrMissingCredential
	}

	query := url.Values{}
	query.Set("id", articleID)

	body, err := c.get(ctx, detailPath, query)
	if err != nil {
		return "", &FetchError{ArticleID: articleID, Err: err}
	}

	if !json.Valid(body) {
		return "", &FetchError{ArticleID: articleID, Err: ErrInvalidPayload}
	}

	return string(body), nil
}
