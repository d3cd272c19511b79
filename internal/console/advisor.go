package console

import "context"

// Advisor produces optional natural-language advisory text after structured
// actions run. The real implementation lives outside this orchestrator; the
// default is a no-op.
type Advisor interface {
	Advise(ctx context.Context, prompt string) (text string, tokens int, err error)
}

type NoopAdvisor struct{}

func (NoopAdvisor) Advise(context.Context, string) (string, int, error) {
	return "", 0, nil
}
