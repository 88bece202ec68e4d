package omerogw

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-resty/resty/v2"
)

var ErrGatewayAPI = errors.New("omero gateway api")

// ErrorResponse describes the JSON that the gateway responds with when a call fails.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func ToErrorFromResponse(resp *resty.Response) (*ErrorResponse, error) {
	var errorResponse ErrorResponse
	if err := json.Unmarshal(resp.Body(), &errorResponse); err != nil {
		return nil, errors.Join(ErrGatewayAPI, fmt.Errorf("(HTTP Status: %d)- unable to parse json error response: %s", resp.StatusCode(), err))
	}

	return &errorResponse, errors.Join(ErrGatewayAPI, fmt.Errorf("(HTTP Status: %d)- %s: %s", resp.StatusCode(), errorResponse.Code, errorResponse.Message))
}
