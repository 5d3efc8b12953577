package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *Credentials, *bool) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	creds := &Credentials{Access: "access-0", Refresh: "refresh-0"}
	loggedOut := false
	cfg := DefaultConfig()
	cfg.BaseURL = srv.URL
	c := New(cfg, creds, nil, func() { loggedOut = true })
	return c, creds, &loggedOut
}

func TestClient_SendsBearerAndRequestID(t *testing.T) {
	var gotAuth, gotReqID string
	c, _, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotReqID = r.Header.Get("X-Request-ID")
		json.NewEncoder(w).Encode(NewTestResult{TestID: 7})
	}))

	res, err := c.NewTest(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 7, res.TestID)
	assert.Equal(t, "Bearer access-0", gotAuth)
	assert.NotEmpty(t, gotReqID)
}

func TestClient_RefreshOnceThenRetry(t *testing.T) {
	calls := 0
	refreshes := 0
	c, creds, loggedOut := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/refresh-token":
			refreshes++
			json.NewEncoder(w).Encode(map[string]string{
				"access_token":  "access-1",
				"refresh_token": "refresh-1",
			})
		case "/newtest":
			calls++
			if r.Header.Get("Authorization") != "Bearer access-1" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			json.NewEncoder(w).Encode(NewTestResult{TestID: 3})
		}
	}))

	res, err := c.NewTest(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, res.TestID)
	assert.Equal(t, 2, calls, "original call retried exactly once")
	assert.Equal(t, 1, refreshes)
	assert.Equal(t, "access-1", creds.Access)
	assert.Equal(t, "refresh-1", creds.Refresh)
	assert.False(t, *loggedOut)
}

func TestClient_RefreshFailureForcesLogout(t *testing.T) {
	c, creds, loggedOut := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))

	_, err := c.NewTest(context.Background())
	require.Error(t, err)

	var te *TransportError
	require.True(t, errors.As(err, &te))
	var lo *ErrLoggedOut
	assert.True(t, errors.As(err, &lo))
	assert.True(t, *loggedOut)
	assert.True(t, creds.Empty())
}

func TestClient_SecondUnauthorizedForcesLogout(t *testing.T) {
	c, creds, loggedOut := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/refresh-token" {
			json.NewEncoder(w).Encode(map[string]string{"access_token": "access-1"})
			return
		}
		// Server refuses even the refreshed token.
		w.WriteHeader(http.StatusUnauthorized)
	}))

	_, err := c.NewTest(context.Background())
	require.Error(t, err)
	assert.True(t, *loggedOut)
	assert.True(t, creds.Empty())
}

func TestClient_ValidationError(t *testing.T) {
	c, _, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		json.NewEncoder(w).Encode(map[string]string{"message": "unknown question reference"})
	}))

	_, err := c.FinishTest(context.Background(), 1, nil)
	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Contains(t, ve.Message, "unknown question reference")
}

func TestClient_FinishTestPayloadShape(t *testing.T) {
	var body map[string]json.RawMessage
	c, _, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		json.NewEncoder(w).Encode(map[string]string{"message": "ok"})
	}))

	opt := 42
	details := []AnswerDetail{
		{QuestionID: 1, TitleID: 10, UserAnswerID: &opt},
		{QuestionID: 2, TitleID: 10, UserAnswerID: nil},
	}
	msg, err := c.FinishTest(context.Background(), 5, details)
	require.NoError(t, err)
	assert.Equal(t, "ok", msg)

	require.Contains(t, body, "test_id")
	require.Contains(t, body, "detalles")

	var decoded []map[string]any
	require.NoError(t, json.Unmarshal(body["detalles"], &decoded))
	require.Len(t, decoded, 2)
	assert.Equal(t, float64(42), decoded[0]["user_answer_id"])
	assert.Nil(t, decoded[1]["user_answer_id"], "unanswered question serialized as explicit null")
}

func TestClient_TestDataSchemaRejectsMalformed(t *testing.T) {
	c, _, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// kind outside the enum, question missing options.
		w.Write([]byte(`{"sections":[{"id":1,"kind":"WRITING","titles":[]}]}`))
	}))

	_, err := c.TestData(context.Background(), 1)
	var te *TransportError
	require.True(t, errors.As(err, &te))
	assert.Contains(t, err.Error(), "schema validation")
}

func TestClient_TestDataDecodesTree(t *testing.T) {
	c, _, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"sections":[{"id":1,"description":"Reading part","kind":"READING","titles":[
			{"id":10,"name":"Passage A","passage":"Once upon a time...","questions":[
				{"id":100,"question":"What happened?","user_answer_id":3,"options":[
					{"id":3,"option":"It began"},{"id":4,"option":"It ended"}]}]}]}]}`))
	}))

	sections, err := c.TestData(context.Background(), 9)
	require.NoError(t, err)
	require.Len(t, sections, 1)
	require.Len(t, sections[0].Titles, 1)
	q := sections[0].Titles[0].Questions[0]
	require.NotNil(t, q.UserAnswerID)
	assert.Equal(t, 3, *q.UserAnswerID)
}
