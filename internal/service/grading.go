package service

import (
	"math"
	"shikkha_backend/internal/model"
	"shikkha_backend/internal/util"
	"strings"
)

// AnswerInput is one submitted answer, keyed by position in the
// exam's ordered question list. Answers arrive as a batch; a missing
// index is a valid (blank) answer scored as zero.
type AnswerInput struct {
	QuestionIndex int    `json:"questionIndex"`
	AnswerText    string `json:"answerText"`
}

type QuestionScore struct {
	QuestionIndex int  `json:"questionIndex"`
	Marks         int  `json:"marks"`
	IsCorrect     bool `json:"isCorrect"`
	// Ungraded marks short/long answers awaiting a manual pass; their
	// marks stay zero until then.
	Ungraded bool `json:"ungraded"`
}

type GradingResult struct {
	PerQuestion   []QuestionScore `json:"perQuestion"`
	ObtainedMarks int             `json:"obtainedMarks"`
	TotalMarks    int             `json:"totalMarks"`
	Percentage    int             `json:"percentage"`
	Passed        bool            `json:"passed"`
	NeedsManual   bool            `json:"needsManual"`
}

// NormalizeAnswer makes MCQ comparison robust to whitespace and case
// drift between authored options and the stored correct answer.
func NormalizeAnswer(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Percentage rounds obtained/total to a whole percent, clamped to
// [0,100]. total must be positive; callers validate that first.
func Percentage(obtained, total int) int {
	if total <= 0 {
		return 0
	}
	p := int(math.Round(float64(obtained) / float64(total) * 100))
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

// ValidateExamIntegrity fails closed on authoring bugs: a gradable
// exam must have a positive total that equals the sum of its question
// marks.
func ValidateExamIntegrity(exam *model.Exam, questions []model.ExamQuestion) error {
	if exam.TotalMarks <= 0 {
		return util.ErrNoQuestions
	}
	sum := 0
	for _, q := range questions {
		sum += q.Marks
	}
	if sum != exam.TotalMarks {
		return util.ErrMarksMismatch
	}
	return nil
}

// Grade scores a batch of answers against an exam. It is a pure
// function: grading the same (exam, answers) twice yields the same
// result.
//
// MCQ answers score full marks on a normalized exact match, zero
// otherwise. Short/long answers are not auto-gradable: they score
// zero and are flagged Ungraded for the manual pass. Pass/fail is
// obtainedMarks >= passMarks; the percentage is informational only.
func Grade(exam *model.Exam, questions []model.ExamQuestion, answers []AnswerInput) (*GradingResult, error) {
	if err := ValidateExamIntegrity(exam, questions); err != nil {
		return nil, err
	}

	byIndex := make(map[int]string, len(answers))
	for _, a := range answers {
		if a.QuestionIndex < 0 || a.QuestionIndex >= len(questions) {
			return nil, util.ErrBadQuestionIndex
		}
		byIndex[a.QuestionIndex] = a.AnswerText
	}

	result := &GradingResult{
		PerQuestion: make([]QuestionScore, len(questions)),
		TotalMarks:  exam.TotalMarks,
	}

	for i, q := range questions {
		score := QuestionScore{QuestionIndex: i}
		answer, answered := byIndex[i]

		switch {
		case !q.AutoGradable():
			score.Ungraded = true
			result.NeedsManual = true
		case answered && NormalizeAnswer(answer) == NormalizeAnswer(q.CorrectAnswer):
			score.IsCorrect = true
			score.Marks = q.Marks
		}

		result.ObtainedMarks += score.Marks
		result.PerQuestion[i] = score
	}

	result.Percentage = Percentage(result.ObtainedMarks, result.TotalMarks)
	result.Passed = result.ObtainedMarks >= exam.PassMarks
	return result, nil
}

// Aggregate recomputes an attempt's totals from its stored answers.
// This is the re-aggregation trigger behind manual grading: when a
// grader scores a short/long answer, the attempt's obtained marks,
// percentage and pass flag are derived again from the answer rows.
func Aggregate(exam *model.Exam, answers []model.AttemptAnswer) (obtained, percentage int, passed, needsManual bool) {
	for _, a := range answers {
		obtained += a.AwardedMarks
		if a.Ungraded {
			needsManual = true
		}
	}
	percentage = Percentage(obtained, exam.TotalMarks)
	passed = obtained >= exam.PassMarks
	return obtained, percentage, passed, needsManual
}
