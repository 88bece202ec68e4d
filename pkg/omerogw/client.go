package omerogw

import (
	"bytes"
	"context"
	"encoding/json"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/materials-commons/tagsearch/pkg/omerodb/omodel"
	"github.com/pkg/errors"
)

// SessionHeader carries the OMERO session key on every gateway request.
const SessionHeader = "X-OMERO-Session"

// Params are the named HQL parameters of a projection. Values are int64,
// string or []int64.
type Params map[string]any

// Client talks to an OMERO query gateway: a small HTTP service in front of
// the OMERO query service that runs HQL projections and loads objects by id.
type Client struct {
	client *resty.Client
}

func NewClient(baseURL, session string) *Client {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(time.Minute).
		SetHeader("Accept", "application/json").
		SetJSONUnmarshaler(unmarshalWithNumbers)

	if session != "" {
		client.SetHeader(SessionHeader, session)
	}

	return &Client{client: client}
}

// unmarshalWithNumbers keeps ids as json.Number so large OMERO ids do not
// lose precision as float64.
func unmarshalWithNumbers(data []byte, v interface{}) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	return dec.Decode(v)
}

type projectionRequest struct {
	Query  string `json:"query"`
	Params Params `json:"params"`
	Group  int64  `json:"group"`
}

type projectionResponse struct {
	Rows [][]any `json:"rows"`
}

// Projection runs an HQL projection and returns its rows. Each row holds one
// value per selected expression.
func (c *Client) Projection(ctx context.Context, hql string, params Params, opts omodel.ServiceOpts) ([][]any, error) {
	if params == nil {
		params = Params{}
	}

	var result projectionResponse
	req := projectionRequest{Query: hql, Params: params, Group: opts.Group}

	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&result).
		Post("/api/query/projection")

	switch {
	case err != nil:
		return nil, errors.Wrap(err, "projection request failed")
	case resp.IsError():
		_, err := ToErrorFromResponse(resp)
		return nil, err
	}

	return result.Rows, nil
}

type objectsRequest struct {
	IDs   []int64 `json:"ids"`
	Group int64   `json:"group"`
}

type objectsResponse struct {
	Objects []map[string]any `json:"objects"`
}

// GetObjects loads the objects of an OMERO class by id. Ids that do not exist
// or are not readable in opts.Group are left out of the result.
func (c *Client) GetObjects(ctx context.Context, class string, ids []int64, opts omodel.ServiceOpts) ([]map[string]any, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var result objectsResponse
	req := objectsRequest{IDs: ids, Group: opts.Group}

	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&result).
		SetPathParam("class", class).
		Post("/api/objects/{class}")

	switch {
	case err != nil:
		return nil, errors.Wrapf(err, "loading %s objects failed", class)
	case resp.IsError():
		_, err := ToErrorFromResponse(resp)
		return nil, err
	}

	return result.Objects, nil
}
