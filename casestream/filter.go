package casestream

// FilterComplete wraps r so that cases with a missing value among vars are
// dropped (listwise deletion). Clones of the returned reader keep the filter.
func FilterComplete(r Reader, vars []Variable, policy ExcludePolicy) Reader {
	return &completeFilter{r: r, vars: vars, policy: policy}
}

type completeFilter struct {
	r      Reader
	vars   []Variable
	policy ExcludePolicy
}

func (f *completeFilter) Read() (Case, error) {
	for {
		c, err := f.r.Read()
		if err != nil {
			return nil, err
		}
		if Complete(c, f.vars, f.policy) {
			return c, nil
		}
	}
}

func (f *completeFilter) Clone() Reader {
	return &completeFilter{r: f.r.Clone(), vars: f.vars, policy: f.policy}
}

func (f *completeFilter) Close() error {
	return f.r.Close()
}
