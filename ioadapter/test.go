package ioadapter

// Test collects tell output into a slice and answers ask prompts from
// a pre-scripted list, for use in headless test harnesses.
type Test struct {
	Output  []string
	Answers []string
	idx     int
}

// NewTest builds a Test adapter that answers successive Prompt calls
// with answers in order; a Prompt call past the end of answers returns
// an empty string rather than erroring, matching the permissive style
// of a test double.
func NewTest(answers ...string) *Test {
	return &Test{Answers: answers}
}

func (a *Test) WriteLine(text string) {
	a.Output = append(a.Output, text)
}

func (a *Test) Prompt(string) (string, error) {
	if a.idx >= len(a.Answers) {
		return "", nil
	}
	answer := a.Answers[a.idx]
	a.idx++
	return answer, nil
}
