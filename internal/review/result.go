package review

// Result associates one model identifier with its generated review text.
// When generation failed, Err is set and Text holds the error placeholder
// that flows into the meta-review in place of a review. Results are
// recorded once and never partially overwritten.
type Result struct {
	Model string
	Text  string
	Err   error
}

// Failed reports whether this result records a generation failure.
func (r Result) Failed() bool {
	return r.Err != nil
}

// Set is an insertion-ordered collection of Results keyed by model
// identifier. Order matters: reviewer aliases are assigned positionally
// from it, so the Set preserves the order models were requested in.
type Set struct {
	order   []string
	results map[string]Result
}

func NewSet() *Set {
	return &Set{results: make(map[string]Result)}
}

// Add records a result, keeping the position of an already-present model.
func (s *Set) Add(r Result) {
	if _, ok := s.results[r.Model]; !ok {
		s.order = append(s.order, r.Model)
	}
	s.results[r.Model] = r
}

func (s *Set) Get(model string) (Result, bool) {
	r, ok := s.results[model]
	return r, ok
}

// Models returns the model identifiers in insertion order.
func (s *Set) Models() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Texts returns the review texts in insertion order.
func (s *Set) Texts() []string {
	out := make([]string, 0, len(s.order))
	for _, model := range s.order {
		out = append(out, s.results[model].Text)
	}
	return out
}

func (s *Set) Len() int {
	return len(s.order)
}
