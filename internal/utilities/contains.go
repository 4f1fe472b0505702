package utilities

// Contains reports whether s is one of the values in slice.
func Contains(slice []string, s string) bool {
	for _, candidate := range slice {
		if candidate == s {
			return true
		}
	}
	return false
}
