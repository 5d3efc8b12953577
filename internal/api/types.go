package api

// Wire types for the assessment backend. Field names follow the server's
// JSON contract; the content package converts these into its own tree model.

// Section groups titles of one comprehension kind.
type Section struct {
	ID          int     `json:"id"`
	Description string  `json:"description"`
	Kind        string  `json:"kind"` // "READING" or "LISTENING"
	Titles      []Title `json:"titles"`
}

// Title is the unit of on-screen pagination: a passage or audio reference
// with its questions.
type Title struct {
	ID        int        `json:"id"`
	Name      string     `json:"name"`
	Passage   string     `json:"passage,omitempty"`
	AudioURL  string     `json:"audio_url,omitempty"`
	Questions []Question `json:"questions"`
}

// Question carries the prompt, its options, and any previously selected
// option recorded on the server. The correct option is never present while
// the attempt is open.
type Question struct {
	ID           int      `json:"id"`
	Text         string   `json:"question"`
	UserAnswerID *int     `json:"user_answer_id"`
	Options      []Option `json:"options"`
}

// Option is one selectable answer.
type Option struct {
	ID   int    `json:"id"`
	Text string `json:"option"`
}

// AnswerDetail is one per-question record of the submission payload.
// UserAnswerID is nil for unanswered questions; the server requires one
// detail per question either way.
type AnswerDetail struct {
	QuestionID   int  `json:"question_id"`
	TitleID      int  `json:"title_id"`
	UserAnswerID *int `json:"user_answer_id"`
}

// NewTestResult is the response to POST /newtest. Sections may already be
// populated when the server had content prepared; otherwise the client
// follows up with POST /test-data.
type NewTestResult struct {
	TestID   int       `json:"test_id"`
	Sections []Section `json:"sections"`
}

// testDataResponse is the response to POST /test-data.
type testDataResponse struct {
	Sections []Section `json:"sections"`
}

// finishResponse is the response to POST /finish-test.
type finishResponse struct {
	Message string `json:"message"`
}

// Analysis is the post-completion scoring breakdown from POST /test-analysis.
type Analysis struct {
	Passed          *bool    `json:"passed"`
	Score           *float64 `json:"score"`
	Summary         string   `json:"summary"`
	Strengths       []string `json:"strengths"`
	Weaknesses      []string `json:"weaknesses"`
	Recommendations []string `json:"recommendations"`
}

// refreshRequest / refreshResponse cover the credential exchange.
type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type refreshResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
}

// errorResponse is the server's error envelope.
type errorResponse struct {
	Message string `json:"message"`
}
