package exam

import (
	"context"
	"testing"

	"github.com/nmoreno/examterm/internal/api"
	"github.com/nmoreno/examterm/internal/content"
)

// fixtureSections builds 2 sections, each with 1 title and 2 questions
// (4 questions total), matching the end-to-end scenario layout.
func fixtureSections() []api.Section {
	return []api.Section{
		{
			ID: 1, Description: "Reading", Kind: "READING",
			Titles: []api.Title{
				{
					ID: 10, Name: "Passage A", Passage: "text",
					Questions: []api.Question{
						{ID: 100, Text: "Q1", Options: []api.Option{{ID: 1, Text: "a"}, {ID: 2, Text: "b"}}},
						{ID: 101, Text: "Q2", Options: []api.Option{{ID: 3, Text: "a"}, {ID: 4, Text: "b"}}},
					},
				},
			},
		},
		{
			ID: 2, Description: "Listening", Kind: "LISTENING",
			Titles: []api.Title{
				{
					ID: 20, Name: "Clip A", AudioURL: "https://cdn/a.mp3",
					Questions: []api.Question{
						{ID: 102, Text: "Q3", Options: []api.Option{{ID: 5, Text: "a"}, {ID: 6, Text: "b"}}},
						{ID: 103, Text: "Q4", Options: []api.Option{{ID: 7, Text: "a"}, {ID: 8, Text: "b"}}},
					},
				},
			},
		},
	}
}

func fixtureTree(t *testing.T) *content.Tree {
	t.Helper()
	tree, err := content.FromSections(1, fixtureSections())
	if err != nil {
		t.Fatalf("build fixture tree: %v", err)
	}
	return tree
}

// fakeClient implements Client with scripted responses and call counting.
type fakeClient struct {
	newTestResult *api.NewTestResult
	newTestErr    error
	sections      []api.Section
	testDataErr   error
	finishErr     error
	finishCalls   int
	lastDetails   []api.AnswerDetail
}

func (f *fakeClient) NewTest(_ context.Context) (*api.NewTestResult, error) {
	if f.newTestErr != nil {
		return nil, f.newTestErr
	}
	if f.newTestResult != nil {
		return f.newTestResult, nil
	}
	return &api.NewTestResult{TestID: 1}, nil
}

func (f *fakeClient) TestData(_ context.Context, _ int) ([]api.Section, error) {
	if f.testDataErr != nil {
		return nil, f.testDataErr
	}
	return f.sections, nil
}

func (f *fakeClient) FinishTest(_ context.Context, _ int, details []api.AnswerDetail) (string, error) {
	f.finishCalls++
	f.lastDetails = details
	if f.finishErr != nil {
		return "", f.finishErr
	}
	return "ok", nil
}
