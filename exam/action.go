package exam

// Action is one change to an in-progress attempt.
type Action interface {
	apply(a *Attempt) error
}

// Select records option as the answer to the question keyed questionID,
// replacing any earlier choice.
type Select struct {
	QuestionID string
	Option     string
}

func (s Select) apply(a *Attempt) error {
	for i, key := range a.keys {
		if key != s.QuestionID {
			continue
		}
		if !a.questions[i].HasOption(s.Option) {
			return ErrUnknownOption
		}
		a.answers[key] = s.Option
		return nil
	}
	return ErrUnknownQuestion
}

type Next struct{}

func (Next) apply(a *Attempt) error {
	if a.index < len(a.questions)-1 {
		a.index++
	}
	return nil
}

type Prev struct{}

func (Prev) apply(a *Attempt) error {
	if a.index > 0 {
		a.index--
	}
	return nil
}

// Goto jumps straight to a question, as the side grid does.
type Goto struct {
	Index int
}

func (g Goto) apply(a *Attempt) error {
	if g.Index < 0 || g.Index >= len(a.questions) {
		return ErrIndexOutOfRange
	}
	a.index = g.Index
	return nil
}
