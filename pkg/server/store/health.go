package store

// HealthStore provides health check operations for the status endpoint
type HealthStore interface {
	// CheckConnectivity verifies metadata database connectivity
	CheckConnectivity() error
}
