package report

// failurePresenter decides where a failing suite's body goes. One is picked
// at run start and used for every suite of the run.
type failurePresenter interface {
	present(r *Reporter, agg *AggregatedResults, header, body string) error
}

func presenterFor(cfg Config) failurePresenter {
	if cfg.Verbose {
		return deferredPresenter{}
	}
	return immediatePresenter{}
}

// immediatePresenter writes the body right away and drains the sink so the
// text survives an exit that follows.
type immediatePresenter struct{}

func (immediatePresenter) present(r *Reporter, _ *AggregatedResults, _, body string) error {
	if body == "" {
		return nil
	}
	if _, err := r.out.WriteString(body + "\n"); err != nil {
		return err
	}
	return r.drain()
}

// deferredPresenter holds the header and body until the run completes so
// they do not interleave with other suites' verbose output.
type deferredPresenter struct{}

func (deferredPresenter) present(_ *Reporter, agg *AggregatedResults, header, body string) error {
	agg.PostSuiteHeaders = append(agg.PostSuiteHeaders, PostSuiteHeader{Header: header, Body: body})
	return nil
}
