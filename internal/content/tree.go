package content

import "github.com/nmoreno/examterm/internal/api"

// Kind distinguishes the two comprehension section types.
type Kind string

const (
	KindReading   Kind = "READING"
	KindListening Kind = "LISTENING"
)

// Option is one selectable answer for a question.
type Option struct {
	ID   int
	Text string
}

// Question is a single prompt with its options. Ordinal is the 1-based
// position of the question across the whole attempt, independent of which
// title it belongs to, so "Question 7 of 40" stays stable under pagination.
type Question struct {
	ID       int
	Text     string
	Ordinal  int
	Options  []Option
	Previous *int // previously selected option id, from a resumed attempt
}

// Title is the unit of on-screen pagination: one passage or audio reference
// and its questions, annotated with the section it came from.
type Title struct {
	ID          int
	Name        string
	Kind        Kind
	SectionDesc string
	Passage     string
	AudioURL    string
	Questions   []Question
}

// Tree is the immutable content snapshot for one attempt: the flattened
// title sequence in document order. It is never mutated after load; resume
// and retry re-fetch a fresh snapshot.
type Tree struct {
	AttemptID int
	Titles    []Title

	totalQuestions int
}

// flatten converts the wire sections into the navigable title sequence,
// assigning global ordinals by summing question counts of preceding titles.
func flatten(attemptID int, sections []api.Section) *Tree {
	tree := &Tree{AttemptID: attemptID}
	ordinal := 0

	for _, sec := range sections {
		for _, t := range sec.Titles {
			title := Title{
				ID:          t.ID,
				Name:        t.Name,
				Kind:        Kind(sec.Kind),
				SectionDesc: sec.Description,
				Passage:     t.Passage,
				AudioURL:    t.AudioURL,
			}
			for _, q := range t.Questions {
				ordinal++
				opts := make([]Option, 0, len(q.Options))
				for _, o := range q.Options {
					opts = append(opts, Option{ID: o.ID, Text: o.Text})
				}
				title.Questions = append(title.Questions, Question{
					ID:       q.ID,
					Text:     q.Text,
					Ordinal:  ordinal,
					Options:  opts,
					Previous: q.UserAnswerID,
				})
			}
			tree.Titles = append(tree.Titles, title)
		}
	}

	tree.totalQuestions = ordinal
	return tree
}

// TotalQuestions returns the number of questions across all titles.
func (t *Tree) TotalQuestions() int {
	return t.totalQuestions
}

// TotalTitles returns the length of the flattened title sequence.
func (t *Tree) TotalTitles() int {
	return len(t.Titles)
}

// PreviousAnswers returns the recorded selections carried by the snapshot,
// keyed by question id. Used to seed the answer store on resume.
func (t *Tree) PreviousAnswers() map[int]int {
	prev := make(map[int]int)
	for _, title := range t.Titles {
		for _, q := range title.Questions {
			if q.Previous != nil {
				prev[q.ID] = *q.Previous
			}
		}
	}
	return prev
}
