package exam

import (
	"github.com/nmoreno/examterm/internal/api"
	"github.com/nmoreno/examterm/internal/content"
)

// BuildPayload emits one detail per question in the tree, answered or not.
// The scoring contract requires a complete per-question record: unanswered
// questions go out with an explicit null, never as a sparse omission. The
// forced-submission path on timeout uses this same builder, so captured
// answers are never discarded by expiry.
func BuildPayload(tree *content.Tree, answers *AnswerStore) []api.AnswerDetail {
	details := make([]api.AnswerDetail, 0, tree.TotalQuestions())
	for _, title := range tree.Titles {
		for _, q := range title.Questions {
			d := api.AnswerDetail{QuestionID: q.ID, TitleID: title.ID}
			if opt, ok := answers.Get(q.ID); ok {
				v := opt
				d.UserAnswerID = &v
			}
			details = append(details, d)
		}
	}
	return details
}

// UnansweredCount returns how many details carry a null selection.
func UnansweredCount(details []api.AnswerDetail) int {
	n := 0
	for _, d := range details {
		if d.UserAnswerID == nil {
			n++
		}
	}
	return n
}
