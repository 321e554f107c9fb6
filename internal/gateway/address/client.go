// Package address looks postal codes up against an external 住所検索 API.
// 失敗しても住所の手入力で先に進めるため、このゲートウェイのエラーは致命的に扱わない。
package address

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Result is one resolved address candidate.
type Result struct {
	PostalCode string `json:"postalCode"`
	Prefecture string `json:"prefecture"`
	City       string `json:"city"`
	Street     string `json:"street"`
}

// ErrNotFound は該当する住所が見つからなかったことを表す。
var ErrNotFound = errors.New("該当する住所が見つかりません")

// Client calls the zipcloud-compatible lookup endpoint.
type Client struct {
	endpoint   string
	httpClient *http.Client
}

// New は検索エンドポイントとタイムアウトを固定した Client を返す。
func New(endpoint string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Client{
		endpoint:   strings.TrimRight(endpoint, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// lookupResponse は zipcloud 形式のレスポンス。
type lookupResponse struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
	Results []struct {
		Zipcode  string `json:"zipcode"`
		Address1 string `json:"address1"`
		Address2 string `json:"address2"`
		Address3 string `json:"address3"`
	} `json:"results"`
}

// Lookup resolves a 7-digit postal code into address candidates.
func (c *Client) Lookup(ctx context.Context, postalCode string) ([]Result, error) {
	code := strings.ReplaceAll(strings.TrimSpace(postalCode), "-", "")
	if len(code) != 7 {
		return nil, fmt.Errorf("郵便番号は7桁の数字で指定してください: %s", postalCode)
	}

	endpoint := c.endpoint + "?zipcode=" + url.QueryEscape(code)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("住所検索に失敗しました: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("住所検索に失敗しました: status=%d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, err
	}

	var payload lookupResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("住所検索レスポンスの解析に失敗しました: %w", err)
	}
	if payload.Status != 200 {
		return nil, fmt.Errorf("住所検索に失敗しました: %s", payload.Message)
	}
	if len(payload.Results) == 0 {
		return nil, ErrNotFound
	}

	results := make([]Result, 0, len(payload.Results))
	for _, row := range payload.Results {
		results = append(results, Result{
			PostalCode: row.Zipcode,
			Prefecture: row.Address1,
			City:       row.Address2,
			Street:     row.Address3,
		})
	}
	return results, nil
}
