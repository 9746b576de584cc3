package seekingalpha

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"newsfetch/internal/models"
)

const listPath = "/news/v2/list-by-symbol"

// flexID accepts IDs encoded either as JSON strings or numbers.
type flexID string

func (f *flexID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*f = ""
		return nil
	}

	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}

		*f = flexID(s)

		return nil
	}

	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("id is neither string nor number: %w", err)
	}

	*f = flexID(n.String())

	return nil
}

type listResponse struct {
	Data *[]listItem `json:"data"`
}

type listItem struct {
	ID         flexID `json:"id"`
	Attributes struct {
		PublishOn     string  `json:"publishOn"`
		Title         string  `json:"title"`
		CommentCount  int     `json:"commentCount"`
		GettyImageURL *string `json:"gettyImageUrl"`
	} `json:"attributes"`
	Relationships struct {
		Author struct {
			Data struct {
				ID flexID `json:"id"`
			} `json:"data"`
		} `json:"author"`
		PrimaryTickers   tickerRefs `json:"primaryTickers"`
		SecondaryTickers tickerRefs `json:"secondaryTickers"`
	} `json:"relationships"`
}

type tickerRefs struct {
	Data []struct {
		ID flexID `json:"id"`
	} `json:"data"`
}

func (t tickerRefs) ids() []string {
	out := make([]string, 0, len(t.Data))
	for _, ref := range t.Data {
		if ref.ID != "" {
			out = append(out, string(ref.ID))
		}
	}

	return out
}

func (it *listItem) record() models.ArticleRecord {
	image := models.NoImage
	if it.Attributes.GettyImageURL != nil {
		image = *it.Attributes.GettyImageURL
	}

	return models.ArticleRecord{
		ID:               string(it.ID),
		PublishDate:      it.Attributes.PublishOn,
		Title:            it.Attributes.Title,
		AuthorID:         string(it.Relationships.Author.Data.ID),
		CommentCount:     it.Attributes.CommentCount,
		PrimaryTickers:   it.Relationships.PrimaryTickers.ids(),
		SecondaryTickers: it.Relationships.SecondaryTickers.ids(),
		ImageURL:         image,
	}
}

// ListArticles pages through every article tagged with symbol and published
// in [since, until). Paging stops at the first empty page. Articles are
// returned in page order; an ID seen on an earlier page is skipped.
//
// Any failure discards the pages already read and returns a *FetchError.
func (c *Client) ListArticles(ctx context.Context, symbol string, since, until time.Time) ([]models.ArticleRecord, error) {
	if !c.HasCredential() {
		return nil, ErrMissingCredential
	}

	var records []models.ArticleRecord

	seen := map[string]bool{}

	for page := 1; ; page++ {
		items, err := c.listPage(ctx, symbol, since, until, page)
		if err != nil {
			return nil, &FetchError{Symbol: symbol, Page: page, Err: err}
		}

		if len(items) == 0 {
			break
		}

		for i := range items {
			id := string(items[i].ID)
			if seen[id] {
				continue
			}

			seen[id] = true
			records = append(records, items[i].record())
		}
	}

	return records, nil
}

func (c *Client) listPage(ctx context.Context, symbol string, since, until time.Time, page int) ([]listItem, error) {
	query := url.Values{}
	query.Set("size", strconv.Itoa(c.pageSize))
	query.Set("number", strconv.Itoa(page))
	query.Set("id", symbol)
	query.Set("since", strconv.FormatInt(since.Unix(), 10))
	query.Set("until", strconv.FormatInt(until.Unix(), 10))

	body, err := c.get(ctx, listPath, query)
	if err != nil {
		return nil, err
	}

	var resp listResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decode page: %w", err)
	}

	if resp.Data == nil {
		return nil, ErrMissingItems
	}

	for i, it := range *resp.Data {
		if it.ID == "" {
			return nil, fmt.Errorf("%w at index %d", ErrMissingID, i)
		}
	}

	return *resp.Data, nil
}
