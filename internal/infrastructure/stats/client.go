// Package stats is the HTTP client for the external view-count service.
// Every call carries a bounded timeout; callers treat failures as
// best-effort and must not hold a write transaction open across a call.
package stats

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// timeLayout is the timestamp format the stats API speaks.
const timeLayout = "2006-01-02 15:04:05"

// viewsRangeStart is the open lower bound for view aggregation.
var viewsRangeStart = time.Date(1900, 1, 1, 0, 0, 0, 0, time.UTC)

type Client struct {
	base string
	app  string
	http *http.Client
}

func New(base, app string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return &Client{
		base: strings.TrimRight(base, "/"),
		app:  app,
		http: &http.Client{Timeout: timeout},
	}
}

type hitBody struct {
	App       string `json:"app"`
	URI       string `json:"uri"`
	IP        string `json:"ip"`
	Timestamp string `json:"timestamp"`
}

type viewRow struct {
	App  string `json:"app"`
	URI  string `json:"uri"`
	Hits int64  `json:"hits"`
}

// Hit registers one view of the given URI.
func (c *Client) Hit(ctx context.Context, uri, ip string, at time.Time) error {
	body, err := json.Marshal(hitBody{
		App:       c.app,
		URI:       uri,
		IP:        ip,
		Timestamp: at.UTC().Format(timeLayout),
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+"/hit", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return fmt.Errorf("stats hit: unexpected status %d", resp.StatusCode)
	}
	return nil
}

// Views returns unique-hit counts per URI for the whole recorded history up
// to end.
func (c *Client) Views(ctx context.Context, uris []string, end time.Time) (map[string]int64, error) {
	q := url.Values{}
	q.Set("start", viewsRangeStart.Format(timeLayout))
	q.Set("end", end.UTC().Format(timeLayout))
	q.Set("unique", "true")
	for _, u := range uris {
		q.Add("uris", u)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+"/stats?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("stats query: unexpected status %d", resp.StatusCode)
	}

	var rows []viewRow
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		return nil, err
	}
	out := make(map[string]int64, len(rows))
	for _, r := range rows {
		out[r.URI] = r.Hits
	}
	return out, nil
}
