package exam

// AnswerStore maps question ids to selected option ids for one attempt.
// It is owned by the session controller and survives transport failures
// untouched, so a failed submission never loses captured answers.
type AnswerStore struct {
	selected map[int]int
}

// NewAnswerStore creates an empty store.
func NewAnswerStore() *AnswerStore {
	return &AnswerStore{selected: make(map[int]int)}
}

// Seed loads previously recorded selections, used when resuming an attempt.
func (s *AnswerStore) Seed(prev map[int]int) {
	for q, o := range prev {
		s.selected[q] = o
	}
}

// Set records the selected option for a question. Last write wins; the
// option is not checked against the question (trusted caller).
func (s *AnswerStore) Set(questionID, optionID int) {
	s.selected[questionID] = optionID
}

// Get returns the selected option for a question, if any.
func (s *AnswerStore) Get(questionID int) (int, bool) {
	o, ok := s.selected[questionID]
	return o, ok
}

// AnsweredCount returns the number of questions with a recorded selection.
func (s *AnswerStore) AnsweredCount() int {
	return len(s.selected)
}
