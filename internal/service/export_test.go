package service

// InFlight exposes the per-key action tracker to the service_test package.
type InFlight = inflight
