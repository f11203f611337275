package app

import (
	"fmt"

	"quiz-helper/internal/domain"
)

// ComputeResults scores the user answers against the quiz. Each question
// is totally correct when the selection equals the correct set, partially
// correct when they overlap, and totally wrong otherwise.
func ComputeResults(quiz domain.Quiz, answers domain.UserAnswers) (domain.ResultSummary, error) {
	if len(answers) != quiz.Len() {
		return domain.ResultSummary{}, &domain.ValidationError{
			Msg: fmt.Sprintf("wrong number of answers: got %d, quiz has %d questions", len(answers), quiz.Len()),
		}
	}

	summary := domain.ResultSummary{Results: make([]domain.Outcome, 0, quiz.Len())}
	for qidx, question := range quiz.Questions {
		selected := domain.NewSelection(answers[qidx]...)
		for _, idx := range selected {
			if idx < 0 || idx >= question.NumAnswers() {
				return domain.ResultSummary{}, &domain.ValidationError{
					Msg: fmt.Sprintf("question %d: answer index %d out of range [0, %d)", qidx+1, idx, question.NumAnswers()),
				}
			}
		}

		correct := question.Correct()
		summary.Total += question.NumAnswers()
		summary.OnlyCorrectTotal += len(correct)

		if selected.Equal(correct) {
			summary.Results = append(summary.Results, domain.TotallyCorrect)
			summary.Correct += question.NumAnswers()
			summary.OnlyCorrect += len(correct)
			continue
		}

		for aidx := range question.Answers {
			isCorrect, isSelected := correct.Contains(aidx), selected.Contains(aidx)
			switch {
			case isCorrect && isSelected:
				summary.Correct++
				summary.OnlyCorrect++
			case !isCorrect && !isSelected:
				summary.Correct++
			}
		}
		if selected.Overlaps(correct) {
			summary.Results = append(summary.Results, domain.PartiallyCorrect)
		} else {
			summary.Results = append(summary.Results, domain.TotallyWrong)
		}
	}

	for _, outcome := range summary.Results {
		switch outcome {
		case domain.TotallyCorrect:
			summary.TotallyCorrect++
		case domain.PartiallyCorrect:
			summary.PartiallyCorrect++
		case domain.TotallyWrong:
			summary.TotallyWrong++
		}
	}
	summary.Ratio = ratio(summary.Correct, summary.Total)
	summary.OnlyCorrectRatio = ratio(summary.OnlyCorrect, summary.OnlyCorrectTotal)
	summary.TotallyCorrectRatio = ratio(summary.TotallyCorrect, quiz.Len())
	return summary, nil
}

func ratio(num, den int) float64 {
	if den == 0 {
		return 0
	}
	return float64(num) / float64(den)
}
