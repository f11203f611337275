package domain

import "fmt"

// Outcome classifies the answer given to a single question.
type Outcome int

const (
	TotallyWrong     Outcome = -1
	PartiallyCorrect Outcome = 0
	TotallyCorrect   Outcome = 1
)

func (o Outcome) String() string {
	switch o {
	case TotallyCorrect:
		return "totally correct"
	case PartiallyCorrect:
		return "partially correct"
	case TotallyWrong:
		return "totally wrong"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// ResultSummary is the read-only scoring output of a submitted quiz.
type ResultSummary struct {
	Results             []Outcome `json:"results" yaml:"results"`
	Correct             int       `json:"correct" yaml:"correct"`
	Total               int       `json:"total" yaml:"total"`
	Ratio               float64   `json:"ratio" yaml:"ratio"`
	OnlyCorrect         int       `json:"onlyCorrect" yaml:"only_correct"`
	OnlyCorrectTotal    int       `json:"onlyCorrectTotal" yaml:"only_correct_total"`
	OnlyCorrectRatio    float64   `json:"onlyCorrectRatio" yaml:"only_correct_ratio"`
	TotallyCorrect      int       `json:"totallyCorrect" yaml:"totally_correct"`
	PartiallyCorrect    int       `json:"partiallyCorrect" yaml:"partially_correct"`
	TotallyWrong        int       `json:"totallyWrong" yaml:"totally_wrong"`
	TotallyCorrectRatio float64   `json:"totallyCorrectRatio" yaml:"totally_correct_ratio"`
}

// SummaryRow is one header/value pair of the results table.
type SummaryRow struct {
	Header string
	Value  string
}

// Rows renders the summary as the header/value table shown after submission.
func (s ResultSummary) Rows() []SummaryRow {
	return []SummaryRow{
		{Header: "Correct Answers", Value: fmt.Sprint(s.Correct)},
		{Header: "Total Answers", Value: fmt.Sprint(s.Total)},
		{Header: "Correct Answer %", Value: percent(s.Ratio)},
		{Header: "Only Correct", Value: fmt.Sprint(s.OnlyCorrect)},
		{Header: "Only Correct Total", Value: fmt.Sprint(s.OnlyCorrectTotal)},
		{Header: "Only Correct %", Value: percent(s.OnlyCorrectRatio)},
		{Header: "Totally Correct", Value: fmt.Sprint(s.TotallyCorrect)},
		{Header: "Partially Correct", Value: fmt.Sprint(s.PartiallyCorrect)},
		{Header: "Totally Wrong", Value: fmt.Sprint(s.TotallyWrong)},
		{Header: "Totally Correct %", Value: percent(s.TotallyCorrectRatio)},
	}
}

func percent(ratio float64) string {
	return fmt.Sprintf("%.2f%%", ratio*100)
}
