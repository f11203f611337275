package app

import "quiz-helper/internal/domain"

// QuestionView is the question under the cursor as shown to a player.
type QuestionView struct {
	Index    int              `json:"index"`
	Label    string           `json:"label,omitempty"`
	Text     string           `json:"text"`
	Answers  []string         `json:"answers"`
	Selected domain.Selection `json:"selected"`
	Marks    []string         `json:"marks,omitempty"` // only while reviewing the correction
}

// Snapshot is a read-only view of a session for transports and UIs.
type Snapshot struct {
	SessionID string                `json:"sessionId"`
	State     string                `json:"state"`
	QuizID    string                `json:"quizId,omitempty"`
	Total     int                   `json:"total"`
	Question  *QuestionView         `json:"question,omitempty"`
	Summary   *domain.ResultSummary `json:"summary,omitempty"`
}

// Snapshot captures the current state of the session.
func (s *Session) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := Snapshot{
		SessionID: s.id,
		State:     s.state.String(),
	}
	if s.state == StateStart {
		return snap
	}
	snap.QuizID = s.quiz.ID
	snap.Total = s.quiz.Len()
	if s.summary != nil {
		summary := *s.summary
		snap.Summary = &summary
	}
	if s.state != StateInProgress && s.state != StateCorrection {
		return snap
	}

	question := s.quiz.Questions[s.cursor]
	view := &QuestionView{
		Index:    s.cursor,
		Label:    question.Label,
		Text:     question.Text,
		Answers:  append([]string(nil), question.Answers...),
		Selected: append(domain.Selection{}, s.answers[s.cursor]...),
	}
	if s.state == StateCorrection {
		for _, mark := range reviewMarks(question, s.answers[s.cursor]) {
			view.Marks = append(view.Marks, mark.String())
		}
	}
	snap.Question = view
	return snap
}
