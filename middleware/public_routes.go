package middleware

// IsOperationalRoute reports whether path belongs to probes and scrapers
// rather than API clients. Such requests are logged at debug level.
func IsOperationalRoute(path string) bool {
	operationalRoutes := []string{
		"/health",
		"/metrics",
	}

	for _, route := range operationalRoutes {
		if path == route {
			return true
		}
	}

	return false
}
