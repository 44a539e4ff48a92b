package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"voyage/pkg/catalogapi"
)

// Remote reads the catalog from the storefront HTTP backend. List endpoints
// may answer with a bare JSON array or with {"items": [...]}, the shape this
// service's own catalog routes use.
type Remote struct {
	Client catalogapi.Client
}

func NewRemote(c catalogapi.Client) *Remote {
	return &Remote{Client: c}
}

func (r *Remote) Destinations(ctx context.Context) ([]Destination, error) {
	out, err := getList[Destination](ctx, r.Client, "/destinations")
	if err != nil {
		return nil, fmt.Errorf("list destinations: %w", err)
	}
	return out, nil
}

func (r *Remote) Destination(ctx context.Context, id int) (*Destination, error) {
	var out Destination
	err := r.Client.GetJSON(ctx, fmt.Sprintf("/destinations/%d", id), &out)
	var se *catalogapi.StatusError
	if errors.As(err, &se) && se.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get destination %d: %w", id, err)
	}
	return &out, nil
}

func (r *Remote) Tours(ctx context.Context) ([]Tour, error) {
	out, err := getList[Tour](ctx, r.Client, "/tours")
	if err != nil {
		return nil, fmt.Errorf("list tours: %w", err)
	}
	return out, nil
}

func getList[T any](ctx context.Context, c catalogapi.Client, path string) ([]T, error) {
	var raw json.RawMessage
	if err := c.GetJSON(ctx, path, &raw); err != nil {
		return nil, err
	}
	return decodeList[T](raw)
}

func decodeList[T any](raw json.RawMessage) ([]T, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) > 0 && raw[0] == '[' {
		var out []T
		if err := json.Unmarshal(raw, &out); err != nil {
			return nil, err
		}
		return out, nil
	}
	var env struct {
		Items []T `json:"items"`
	}
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, err
	}
	return env.Items, nil
}
