// Package server exposes a dataset over the equipment status HTTP API, the
// backend the dashboard talks to during local development.
//
// Routes, all under /api:
//
//   - GET /v1/equipment-status?status=&equipmentType=&location=&limit=
//   - GET /health
//   - OPTIONS on any route (CORS preflight)
package server
