package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/SergeyParamoshkin/articles/internal/articlerequest"
	"github.com/SergeyParamoshkin/articles/internal/articleresponse"
	"github.com/SergeyParamoshkin/articles/internal/model"
	"github.com/SergeyParamoshkin/articles/internal/validation"
)

type Client struct {
	http.Client
	Addr string
}

// ArticleInput is the payload of Create and Update.
type ArticleInput = articlerequest.ArticleRequest

// ArticlePage is the decoded list envelope.
type ArticlePage struct {
	Data  []model.Article       `json:"data"`
	Links articleresponse.Links `json:"links"`
	Meta  articleresponse.Meta  `json:"meta"`
}

// APIError is returned for any non-2xx response.
type APIError struct {
	StatusCode int
	Message    string             `json:"message"`
	Errors     *validation.Errors `json:"errors,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("articles api: %d %s", e.StatusCode, e.Message)
}

func (c *Client) Ping(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.Addr+"/ping", nil)
	if err != nil {
		return "", err
	}

	resp, err := c.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	return string(body), nil
}

func (c *Client) List(ctx context.Context, page int) (*ArticlePage, error) {
	var out ArticlePage
	if err := c.call(ctx, http.MethodGet, "/api/articles?page="+strconv.Itoa(page), nil, &out); err != nil {
		return nil, err
	}

	return &out, nil
}

func (c *Client) Get(ctx context.Context, id int64) (*model.Article, error) {
	var out struct {
		Data model.Article `json:"data"`
	}
	if err := c.call(ctx, http.MethodGet, articlePath(id), nil, &out); err != nil {
		return nil, err
	}

	return &out.Data, nil
}

func (c *Client) Create(ctx context.Context, in ArticleInput) error {
	var ack articleresponse.AckResponse
	if err := c.call(ctx, http.MethodPost, "/api/articles", in, &ack); err != nil {
		return err
	}
	if !ack.Created {
		return fmt.Errorf("articles api: create not acknowledged")
	}

	return nil
}

func (c *Client) Update(ctx context.Context, id int64, in ArticleInput) error {
	var ack articleresponse.AckResponse
	if err := c.call(ctx, http.MethodPut, articlePath(id), in, &ack); err != nil {
		return err
	}
	if !ack.Updated {
		return fmt.Errorf("articles api: update not acknowledged")
	}

	return nil
}

func (c *Client) Delete(ctx context.Context, id int64) error {
	var ack articleresponse.AckResponse
	if err := c.call(ctx, http.MethodDelete, articlePath(id), nil, &ack); err != nil {
		return err
	}
	if !ack.Deleted {
		return fmt.Errorf("articles api: delete not acknowledged")
	}

	return nil
}

func articlePath(id int64) string {
	return "/api/articles/" + strconv.FormatInt(id, 10)
}

func (c *Client) call(ctx context.Context, method, path string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.Addr+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		if err := json.NewDecoder(resp.Body).Decode(apiErr); err != nil {
			apiErr.Message = http.StatusText(resp.StatusCode)
		}

		return apiErr
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
