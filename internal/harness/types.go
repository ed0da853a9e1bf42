package harness

import "github.com/roach88/docql/internal/exec"

// Result is the outcome of a scenario execution.
type Result struct {
	// Name is the scenario name.
	Name string `json:"name"`

	// Pass indicates that every expectation held.
	Pass bool `json:"pass"`

	// Statement is the compiled statement, empty if compilation failed.
	Statement string `json:"statement,omitempty"`

	// ErrorCode is the compile error code, empty if compilation succeeded.
	ErrorCode string `json:"error_code,omitempty"`

	// Receipt is the recorder's acknowledgement of the statement.
	Receipt *exec.Receipt `json:"receipt,omitempty"`

	// Errors contains expectation failures.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult(name string) *Result {
	return &Result{
		Name:   name,
		Pass:   true,
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// Summary aggregates the results of a scenario suite.
type Summary struct {
	Passed  int       `json:"passed"`
	Failed  int       `json:"failed"`
	Results []*Result `json:"results"`
}

// Add records a result in the summary.
func (s *Summary) Add(r *Result) {
	s.Results = append(s.Results, r)
	if r.Pass {
		s.Passed++
	} else {
		s.Failed++
	}
}

// Pass reports whether every scenario passed.
func (s *Summary) Pass() bool {
	return s.Failed == 0
}
