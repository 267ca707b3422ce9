package service

import (
	"context"
	"encoding/json"
	"shikkha_backend/internal/model"
	"shikkha_backend/internal/repository"
	"shikkha_backend/internal/util"
	"shikkha_backend/pkg/monitoring"
	"time"

	"gorm.io/gorm"
)

// ExamSessionService orchestrates one exam attempt: eligibility,
// time-boxing, answer collection, grading and result persistence.
type ExamSessionService struct {
	ExamRepo    *repository.ExamRepository
	SessionRepo *repository.SessionRepository
	AttemptRepo *repository.AttemptRepository
	RetakeRepo  *repository.RetakeRepository
	Content     *ContentService
	DB          *gorm.DB
}

func NewExamSessionService(
	examRepo *repository.ExamRepository,
	sessionRepo *repository.SessionRepository,
	attemptRepo *repository.AttemptRepository,
	retakeRepo *repository.RetakeRepository,
	content *ContentService,
	db *gorm.DB,
) *ExamSessionService {
	return &ExamSessionService{
		ExamRepo:    examRepo,
		SessionRepo: sessionRepo,
		AttemptRepo: attemptRepo,
		RetakeRepo:  retakeRepo,
		Content:     content,
		DB:          db,
	}
}

// StudentQuestion is a question as shown to the student taking the
// exam: the correct answer is stripped, options are decoded.
type StudentQuestion struct {
	Index        int      `json:"index"`
	QuestionType string   `json:"questionType"`
	TextBn       string   `json:"textBn"`
	Options      []string `json:"options,omitempty"`
	Marks        int      `json:"marks"`
}

// ExamView is the fetch-for-taking response: either the sanitized
// definition, or the already-recorded result for this student.
type ExamView struct {
	Exam      *model.Exam        `json:"exam"`
	Questions []StudentQuestion  `json:"questions,omitempty"`
	Result    *model.ExamAttempt `json:"result,omitempty"`
	Session   *model.ExamSession `json:"session,omitempty"`
}

func sanitizeQuestions(questions []model.ExamQuestion) []StudentQuestion {
	out := make([]StudentQuestion, 0, len(questions))
	for i, q := range questions {
		sq := StudentQuestion{
			Index:        i,
			QuestionType: q.QuestionType,
			TextBn:       q.TextBn,
			Marks:        q.Marks,
		}
		if q.QuestionType == model.QuestionTypeMCQ && q.Options != "" {
			_ = json.Unmarshal([]byte(q.Options), &sq.Options)
		}
		out = append(out, sq)
	}
	return out
}

// FetchForTaking returns the exam definition without correct answers,
// or the student's existing result when the latest attempt stands and
// no usable retake approval reopens the exam.
func (s *ExamSessionService) FetchForTaking(ctx context.Context, studentID, examID uint) (*ExamView, error) {
	exam, err := s.ExamRepo.FindByID(examID)
	if err != nil {
		return nil, util.ErrExamNotFound
	}
	if exam.Status == model.ExamStatusDraft {
		return nil, util.ErrExamNotPublished
	}

	latest, err := s.AttemptRepo.LatestAttempt(studentID, examID)
	if err != nil {
		return nil, err
	}
	if latest != nil {
		retake, err := s.RetakeRepo.FindUsableApproved(studentID, examID)
		if err != nil {
			return nil, err
		}
		if latest.Passed || retake == nil {
			return &ExamView{Exam: exam, Result: latest}, nil
		}
	}

	questions, err := s.ExamRepo.GetQuestions(examID)
	if err != nil {
		return nil, err
	}
	view := &ExamView{Exam: exam, Questions: sanitizeQuestions(questions)}
	if open, err := s.SessionRepo.FindOpen(studentID, examID); err == nil && open != nil {
		view.Session = open
	}
	return view, nil
}

// Start opens a timed session. StartedAt and Deadline are recorded
// server-side; the client countdown is advisory. A still-open session
// for the pair is resumed rather than replaced, which keeps Start
// idempotent across reconnects.
func (s *ExamSessionService) Start(ctx context.Context, studentID, examID uint) (*model.ExamSession, error) {
	exam, err := s.ExamRepo.FindByID(examID)
	if err != nil {
		return nil, util.ErrExamNotFound
	}
	if exam.Status != model.ExamStatusPublished {
		return nil, util.ErrExamNotPublished
	}

	now := time.Now()
	if !exam.InWindow(now) {
		return nil, util.ErrOutsideWindow
	}

	questions, err := s.ExamRepo.GetQuestions(examID)
	if err != nil {
		return nil, err
	}
	if err := ValidateExamIntegrity(exam, questions); err != nil {
		return nil, err
	}

	unlocked, err := s.Content.IsExamUnlocked(ctx, studentID, exam)
	if err != nil {
		return nil, err
	}
	if !unlocked {
		return nil, util.ErrExamLocked
	}

	if open, err := s.SessionRepo.FindOpen(studentID, examID); err != nil {
		return nil, err
	} else if open != nil {
		return open, nil
	}

	session := &model.ExamSession{
		StudentID: studentID,
		ExamID:    examID,
		Status:    model.SessionInProgress,
		StartedAt: now,
		Deadline:  now.Add(time.Duration(exam.DurationMinutes) * time.Minute),
	}

	latest, err := s.AttemptRepo.LatestAttempt(studentID, examID)
	if err != nil {
		return nil, err
	}
	if latest != nil {
		if latest.Passed {
			return nil, util.ErrAlreadyPassed
		}
		retake, err := s.RetakeRepo.FindUsableApproved(studentID, examID)
		if err != nil {
			return nil, err
		}
		if retake == nil {
			return nil, util.ErrRetakeRequired
		}
		session.RetakeRequestID = &retake.ID
	}

	if err := s.SessionRepo.Create(session); err != nil {
		return nil, err
	}
	return session, nil
}

// SubmitResult pairs the persisted attempt with the per-question
// scoring of this grading run.
type SubmitResult struct {
	Attempt *model.ExamAttempt `json:"attempt"`
	Grading *GradingResult     `json:"grading"`
}

// Submit grades a batch of answers and records the attempt as the
// latest for the pair. The expiry auto-submit uses this same path
// with auto=true, which turns a duplicate submission into a no-op
// instead of a conflict. A submission after the deadline is accepted
// but flagged late for audit.
func (s *ExamSessionService) Submit(ctx context.Context, studentID, sessionID uint, answers []AnswerInput, auto bool) (*SubmitResult, error) {
	session, err := s.SessionRepo.FindByID(sessionID)
	if err != nil {
		return nil, util.ErrSessionNotFound
	}
	if session.StudentID != studentID {
		return nil, util.ErrSessionNotFound
	}
	if !session.Open() {
		if auto && session.AttemptID != nil {
			attempt, err := s.AttemptRepo.FindByID(*session.AttemptID)
			if err != nil {
				return nil, err
			}
			return &SubmitResult{Attempt: attempt}, nil
		}
		return nil, util.ErrAlreadySubmitted
	}

	exam, err := s.ExamRepo.FindByID(session.ExamID)
	if err != nil {
		return nil, util.ErrExamNotFound
	}
	questions, err := s.ExamRepo.GetQuestions(session.ExamID)
	if err != nil {
		return nil, err
	}

	grading, err := Grade(exam, questions, answers)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	attempt := &model.ExamAttempt{
		StudentID:     studentID,
		ExamID:        session.ExamID,
		SessionID:     session.ID,
		ObtainedMarks: grading.ObtainedMarks,
		TotalMarks:    grading.TotalMarks,
		Percentage:    grading.Percentage,
		Passed:        grading.Passed,
		NeedsManual:   grading.NeedsManual,
		IsLate:        now.After(session.Deadline),
		SubmittedAt:   now,
	}

	submitted := make(map[int]string, len(answers))
	for _, a := range answers {
		submitted[a.QuestionIndex] = a.AnswerText
	}
	answerRows := make([]model.AttemptAnswer, len(questions))
	for i := range questions {
		answerRows[i] = model.AttemptAnswer{
			QuestionIndex: i,
			AnswerText:    submitted[i],
			AwardedMarks:  grading.PerQuestion[i].Marks,
			IsCorrect:     grading.PerQuestion[i].IsCorrect,
			Ungraded:      grading.PerQuestion[i].Ungraded,
		}
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := s.AttemptRepo.RecordIn(tx, attempt, answerRows); err != nil {
			return err
		}

		session.Status = model.SessionGraded
		session.SubmittedAt = &now
		session.AttemptID = &attempt.ID
		if err := tx.Save(session).Error; err != nil {
			return err
		}

		if session.RetakeRequestID != nil {
			if err := tx.Model(&model.RetakeRequest{}).
				Where("id = ? AND consumed_at IS NULL", *session.RetakeRequestID).
				Update("consumed_at", now).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	outcome := "failed"
	if attempt.Passed {
		outcome = "passed"
	}
	monitoring.ExamSubmissions.WithLabelValues(outcome).Inc()
	if attempt.IsLate {
		monitoring.ExamSubmissions.WithLabelValues("late").Inc()
	}

	return &SubmitResult{Attempt: attempt, Grading: grading}, nil
}

// SessionState reports the session with lazy expiry applied: an
// in-progress session past its deadline reads as expired so the UI
// can force a submit.
type SessionState struct {
	Session *model.ExamSession `json:"session"`
	Status  string             `json:"status"`
}

func (s *ExamSessionService) GetState(studentID, sessionID uint) (*SessionState, error) {
	session, err := s.SessionRepo.FindByID(sessionID)
	if err != nil {
		return nil, util.ErrSessionNotFound
	}
	if session.StudentID != studentID {
		return nil, util.ErrSessionNotFound
	}
	return &SessionState{
		Session: session,
		Status:  session.EffectiveStatus(time.Now()),
	}, nil
}

// ManualScore is a grader's score for one short/long answer.
type ManualScore struct {
	QuestionIndex int `json:"questionIndex"`
	Marks         int `json:"marks"`
}

// ManualGrade stores grader scores for short/long answers and
// re-aggregates the attempt's totals from the answer rows.
func (s *ExamSessionService) ManualGrade(graderID, attemptID uint, scores []ManualScore) (*model.ExamAttempt, error) {
	attempt, err := s.AttemptRepo.FindByID(attemptID)
	if err != nil {
		return nil, util.ErrAttemptNotFound
	}

	exam, err := s.ExamRepo.FindByID(attempt.ExamID)
	if err != nil {
		return nil, util.ErrExamNotFound
	}
	questions, err := s.ExamRepo.GetQuestions(attempt.ExamID)
	if err != nil {
		return nil, err
	}

	for _, sc := range scores {
		if sc.QuestionIndex < 0 || sc.QuestionIndex >= len(questions) {
			return nil, util.ErrBadQuestionIndex
		}
		q := questions[sc.QuestionIndex]
		if q.AutoGradable() {
			return nil, util.ErrNotManualGradable
		}
		if sc.Marks < 0 || sc.Marks > q.Marks {
			return nil, util.ErrMarksOutOfRange
		}
	}

	now := time.Now()
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		for _, sc := range scores {
			if err := tx.Model(&model.AttemptAnswer{}).
				Where("attempt_id = ? AND question_index = ?", attemptID, sc.QuestionIndex).
				Updates(map[string]interface{}{
					"awarded_marks": sc.Marks,
					"ungraded":      false,
					"grader_id":     graderID,
					"graded_at":     now,
				}).Error; err != nil {
				return err
			}
		}

		var answerRows []model.AttemptAnswer
		if err := tx.Where("attempt_id = ?", attemptID).Find(&answerRows).Error; err != nil {
			return err
		}

		obtained, percentage, passed, needsManual := Aggregate(exam, answerRows)
		attempt.ObtainedMarks = obtained
		attempt.Percentage = percentage
		attempt.Passed = passed
		attempt.NeedsManual = needsManual
		return tx.Save(attempt).Error
	})
	if err != nil {
		return nil, err
	}
	return attempt, nil
}

// ListNeedingManual returns attempts for an exam awaiting a manual
// grading pass.
func (s *ExamSessionService) ListNeedingManual(examID uint) ([]model.ExamAttempt, error) {
	return s.AttemptRepo.ListNeedingManual(examID)
}

// MyResults returns the student's attempt history, latest first.
func (s *ExamSessionService) MyResults(studentID uint) ([]model.ExamAttempt, error) {
	return s.AttemptRepo.ListByStudent(studentID)
}
