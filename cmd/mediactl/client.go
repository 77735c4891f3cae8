package main

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/go-resty/resty/v2"
)

func newClient(api string) *resty.Client {
	return resty.New().
		SetBaseURL(api).
		SetHeader("Accept", "application/json").
		SetTimeout(30 * time.Second)
}

func runGet(api, path string, query url.Values, out io.Writer) error {
	resp, err := newClient(api).R().
		SetQueryParamsFromValues(query).
		Get(path)
	if err != nil {
		return fmt.Errorf("GET %s: %w", path, err)
	}
	return writeBody(resp, out)
}

func runPostID(api, path string, id int64, out io.Writer) error {
	resp, err := newClient(api).R().
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]int64{"id": id}).
		Post(path)
	if err != nil {
		return fmt.Errorf("POST %s: %w", path, err)
	}
	return writeBody(resp, out)
}

func writeBody(resp *resty.Response, out io.Writer) error {
	if resp.StatusCode() != http.StatusOK {
		return fmt.Errorf("http %d: %s", resp.StatusCode(), resp.String())
	}
	_, err := fmt.Fprintln(out, resp.String())
	return err
}

func pageQuery(page, size int) url.Values {
	q := url.Values{}
	if page > 0 {
		q.Set("page", fmt.Sprint(page))
	}
	if size > 0 {
		q.Set("pageSize", fmt.Sprint(size))
	}
	return q
}
