// Package provider is the data facade the dashboard depends on.
//
// Every query goes to the remote equipment API first. Any remote failure
// (network error, timeout, non-2xx status, undecodable body) is logged, reported
// to the optional fallback hook, and answered from the local dataset with the
// same filtering and statistics semantics. There is a single attempt per call:
// no retries, backoff or caching.
//
// Only when the local path also fails does an operation return an error, a
// *DataUnavailableError that matches ErrDataUnavailable.
//
// GetEquipmentTypes, GetLocations and GetStatuses are lookup lists for filter
// pickers and never touch the network. TestConnection reports the health probe
// outcome as a ConnectionResult instead of an error.
package provider
