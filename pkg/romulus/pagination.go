package romulus

import (
	"context"
	"net/http"
	"strconv"
)

// DefaultMaxPages is the pagination safety ceiling. The vendor API has no
// reliable total-count field, so FetchAll stops on the first short page; the
// ceiling only guards against a buggy endpoint returning full pages forever.
const DefaultMaxPages = 1000

const pageSize = 100

// FetchAll retrieves every record from a paginated list endpoint, in page
// order. It requests pages of 100 until a page comes back short or MaxPages
// is reached. A final page holding exactly 100 records is indistinguishable
// from a non-final one, so that case costs one extra empty fetch.
func (c *Client) FetchAll(ctx context.Context, endpoint string) ([]any, error) {
	records := []any{}

	for page := 0; ; page++ {
		if page >= c.MaxPages {
			c.logger.WarnContext(ctx, "Pagination safety ceiling reached, result may be truncated",
				"endpoint", endpoint, "max_pages", c.MaxPages)

			break
		}

		response, err := c.Do(ctx, http.MethodGet, endpoint, nil, map[string]string{
			"page": strconv.Itoa(page),
			"size": strconv.Itoa(pageSize),
		})
		if err != nil {
			return nil, err
		}

		items := NormalizeEnvelope(response)
		records = append(records, items...)

		if len(items) < pageSize {
			break
		}
	}

	return records, nil
}

// FetchPage retrieves a single page of up to limit records from a paginated
// list endpoint.
func (c *Client) FetchPage(ctx context.Context, endpoint string, limit int) ([]any, error) {
	response, err := c.Do(ctx, http.MethodGet, endpoint, nil, map[string]string{
		"page": "0",
		"size": strconv.Itoa(limit),
	})
	if err != nil {
		return nil, err
	}

	return NormalizeEnvelope(response), nil
}

// NormalizeEnvelope unwraps the vendor's list response conventions. List
// endpoints answer with {content: [...]}, {results: [...]}, or a bare
// array depending on the service; preference is content, then results,
// then the raw array, else empty.
func NormalizeEnvelope(response any) []any {
	switch value := response.(type) {
	case []any:
		return value
	case map[string]any:
		if content, ok := value["content"].([]any); ok {
			return content
		}

		if results, ok := value["results"].([]any); ok {
			return results
		}
	}

	return []any{}
}
