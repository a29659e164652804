// Package directory talks to the random-person directory service that seeds
// the roster.
package directory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/staff-tracker/internal/config"
	apperrors "github.com/spec-kit/staff-tracker/pkg/util/errorutil"
)

// Person is one synthetic identity returned by the directory.
type Person struct {
	FirstName string
	LastName  string
	Email     string
	Thumbnail string
}

type peopleResponse struct {
	Results *[]personEntry `json:"results"`
}

type personEntry struct {
	Name struct {
		First string `json:"first"`
		Last  string `json:"last"`
	} `json:"name"`
	Email   string `json:"email"`
	Picture struct {
		Thumbnail string `json:"thumbnail"`
	} `json:"picture"`
}

// Client fetches people over HTTP using fiber's client agent.
type Client struct {
	baseURL string
	timeout time.Duration
	http    *fiber.Client
}

// NewClient builds a directory client.
func NewClient(cfg config.DirectoryConfig, userAgent string) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		timeout: cfg.Timeout(),
		http:    &fiber.Client{UserAgent: userAgent},
	}
}

type agentResult struct {
	code int
	body []byte
	errs []error
}

// FetchPeople requests n people. Every failure is returned as a FetchError.
func (c *Client) FetchPeople(ctx context.Context, n int) ([]Person, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperrors.NewFetchError(err)
	}

	timeout := c.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < timeout {
			timeout = remaining
		}
	}

	agent := c.http.Get(fmt.Sprintf("%s/api/?results=%d", c.baseURL, n)).
		Set(fiber.HeaderAccept, fiber.MIMEApplicationJSON).
		Timeout(timeout)

	done := make(chan agentResult, 1)
	go func() {
		code, body, errs := agent.Bytes()
		done <- agentResult{code: code, body: body, errs: errs}
	}()

	var res agentResult
	select {
	case <-ctx.Done():
		return nil, apperrors.NewFetchError(ctx.Err())
	case res = <-done:
	}

	if len(res.errs) > 0 {
		return nil, apperrors.NewFetchError(errors.Join(res.errs...))
	}
	if res.code != fiber.StatusOK {
		return nil, apperrors.NewFetchError(fmt.Errorf("unexpected status: %d", res.code))
	}
	return decodePeople(res.body)
}

func decodePeople(body []byte) ([]Person, error) {
	var payload peopleResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, apperrors.NewFetchError(fmt.Errorf("decode directory response: %w", err))
	}
	if payload.Results == nil {
		return nil, apperrors.NewFetchError(errors.New("directory response has no results"))
	}

	people := make([]Person, 0, len(*payload.Results))
	for _, entry := range *payload.Results {
		people = append(people, Person{
			FirstName: entry.Name.First,
			LastName:  entry.Name.Last,
			Email:     entry.Email,
			Thumbnail: entry.Picture.Thumbnail,
		})
	}
	return people, nil
}
