package state

// PushRecent puts name first, drops any earlier exact duplicate and truncates to limit
func PushRecent(recent []string, name string, limit int) []string {
	next := make([]string, 0, limit)
	next = append(next, name)
	for _, r := range recent {
		if len(next) >= limit {
			break
		}
		if r != name {
			next = append(next, r)
		}
	}
	return next
}
