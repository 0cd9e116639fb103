// Package equipment models factory equipment status and provides the two ways
// Linewatch can answer a status query.
//
// # Overview
//
// A Record describes one physical asset: identity, placement, maintenance
// schedule and the latest sensor readings. Queries are expressed as Filters and
// answered with a StatusResponse carrying the matching records and, usually, a
// Statistics block computed over them.
//
// # Architecture
//
//   - types.go: Record, Status, Date, Filters, Statistics and the response envelope
//   - stats.go: Summarize and the one-decimal rounding the API publishes
//   - dataset.go: Dataset, an immutable in-memory Source with local filtering
//   - sample.go: the embedded fixture and JSON dataset loading
//   - client.go: Client, the HTTP Source backed by the remote API
//   - errors.go: TransportError, the single failure type the Client returns
//
// # Sources
//
// Both *Client and *Dataset implement Source:
//
//	client, err := equipment.NewClient("http://localhost:7071/api")
//	if err != nil {
//		log.Fatalf("create client: %v", err)
//	}
//	resp, err := client.FetchEquipmentStatus(ctx, equipment.Filters{Status: "Active"})
//
//	local, err := equipment.SampleDataset()
//	resp, err = local.FetchEquipmentStatus(ctx, equipment.Filters{Location: "第1工場"})
//
// # Filtering
//
// Filters combine with AND. Status and type match exactly. Location is a
// case-insensitive substring match. A positive Limit keeps the first Limit
// matches in dataset order. Empty or whitespace-only values impose no constraint.
//
// # API Endpoints
//
//   - GET {base}/v1/equipment-status?status=&equipmentType=&location=&limit=
//   - GET {base}/health
//
// Only filters that are set are encoded into the query string. Every request
// sends Accept: application/json, a linewatch User-Agent and a fresh
// X-Request-ID so server logs can be correlated with client logs.
//
// # Error Handling
//
// Every Client failure is a *TransportError: the request could not be built or
// sent, it timed out, the server answered outside 2xx, or the body did not
// decode. TransportError.Timeout distinguishes deadline failures. Dataset
// validation failures are plain wrapped errors naming the offending record.
//
// # Statistics
//
// The average efficiency is the arithmetic mean over Active records only. It is
// an explicit optional: nil when the set has no Active records, never a
// misleading zero. Statistics.Rounded applies the one-decimal precision used on
// the wire.
//
// # Thread Safety
//
// Client is safe for concurrent use. Dataset is never mutated after
// construction and every accessor returns copies.
package equipment
