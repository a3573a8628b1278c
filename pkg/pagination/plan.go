package pagination

// MaxPageSize is the upstream ceiling for one match id page.
const MaxPageSize = 100

// Window is one (start, count) query against a paged endpoint.
type Window struct {
	Offset int `json:"offset"`
	Count  int `json:"count"`
}

// End returns the exclusive end offset.
func (w Window) End() int {
	return w.Offset + w.Count
}

// Plan partitions [0, total) into contiguous windows of pageSize, with a
// shorter trailing window for the remainder. Zero-length windows are never
// emitted, so total <= 0 or pageSize <= 0 yields an empty plan.
func Plan(total, pageSize int) []Window {
	if total <= 0 || pageSize <= 0 {
		return nil
	}

	fullPages := total / pageSize
	remainder := total % pageSize

	plan := make([]Window, 0, fullPages+1)
	for i := 0; i < fullPages; i++ {
		plan = append(plan, Window{Offset: i * pageSize, Count: pageSize})
	}
	if remainder > 0 {
		plan = append(plan, Window{Offset: fullPages * pageSize, Count: remainder})
	}
	return plan
}

// Total returns the number of items a plan covers.
func Total(plan []Window) int {
	n := 0
	for _, w := range plan {
		n += w.Count
	}
	return n
}
