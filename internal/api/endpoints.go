package api

import (
	"context"
	"encoding/json"
	"fmt"
)

// NewTest creates an attempt for the authenticated user. When the server had
// content prepared the sections come back inline; otherwise they are empty
// and the caller follows up with TestData.
func (c *Client) NewTest(ctx context.Context) (*NewTestResult, error) {
	raw, err := c.post(ctx, "/newtest", struct{}{})
	if err != nil {
		return nil, err
	}
	var res NewTestResult
	if err := json.Unmarshal(raw, &res); err != nil {
		return nil, &TransportError{Err: fmt.Errorf("decode newtest response: %w", err)}
	}
	return &res, nil
}

// TestData fetches the full content tree for an attempt. The body is
// schema-validated before decoding so a malformed server payload surfaces
// as one clear error instead of a half-built tree.
func (c *Client) TestData(ctx context.Context, testID int) ([]Section, error) {
	raw, err := c.post(ctx, "/test-data", map[string]int{"test_id": testID})
	if err != nil {
		return nil, err
	}
	if err := validateTestData(raw); err != nil {
		return nil, &TransportError{Err: err}
	}
	var res testDataResponse
	if err := json.Unmarshal(raw, &res); err != nil {
		return nil, &TransportError{Err: fmt.Errorf("decode test-data response: %w", err)}
	}
	return res.Sections, nil
}

// FinishTest submits the complete per-question payload and returns the
// server's confirmation message. The server is authoritative for scoring
// and for rejecting incomplete or malformed payloads.
func (c *Client) FinishTest(ctx context.Context, testID int, details []AnswerDetail) (string, error) {
	body := struct {
		TestID   int            `json:"test_id"`
		Detalles []AnswerDetail `json:"detalles"`
	}{TestID: testID, Detalles: details}

	raw, err := c.post(ctx, "/finish-test", body)
	if err != nil {
		return "", err
	}
	var res finishResponse
	if err := json.Unmarshal(raw, &res); err != nil {
		return "", &TransportError{Err: fmt.Errorf("decode finish-test response: %w", err)}
	}
	return res.Message, nil
}

// TestAnalysis fetches the post-completion scoring breakdown. Only valid
// once the attempt is COMPLETED.
func (c *Client) TestAnalysis(ctx context.Context, testID int) (*Analysis, error) {
	raw, err := c.post(ctx, "/test-analysis", map[string]int{"test_id": testID})
	if err != nil {
		return nil, err
	}
	var res Analysis
	if err := json.Unmarshal(raw, &res); err != nil {
		return nil, &TransportError{Err: fmt.Errorf("decode test-analysis response: %w", err)}
	}
	return &res, nil
}
