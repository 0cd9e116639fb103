package provider

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/five82/linewatch/internal/equipment"
)

// HealthChecker probes the remote API.
type HealthChecker interface {
	HealthCheck(ctx context.Context) (equipment.HealthPayload, error)
}

// Origin identifies which path served a result.
type Origin string

const (
	OriginRemote Origin = "remote"
	OriginLocal  Origin = "local"
)

// ConnectionResult is the outcome of TestConnection.
type ConnectionResult struct {
	Connected bool
	Message   string
}

// FallbackEvent describes a remote failure that was answered from local data.
type FallbackEvent struct {
	Op   string
	Err  error
	Time time.Time
}

// Result is a filtered record set with its statistics and provenance.
type Result struct {
	Records    []equipment.Record
	Statistics equipment.Statistics
	Origin     Origin
	// RemoteErr is the swallowed remote failure when Origin is OriginLocal.
	RemoteErr error
}

// Option customizes a Provider.
type Option func(*Provider)

// WithLogger sets the logger used to report fallbacks.
func WithLogger(l zerolog.Logger) Option {
	return func(p *Provider) { p.log = l }
}

// WithFallbackHook registers fn to be called every time an operation falls back.
func WithFallbackHook(fn func(FallbackEvent)) Option {
	return func(p *Provider) { p.onFallback = fn }
}

// Provider answers equipment queries from the remote API and falls back to the
// local dataset when the remote call fails for any reason.
type Provider struct {
	remote     equipment.Source
	local      equipment.Source
	health     HealthChecker
	log        zerolog.Logger
	onFallback func(FallbackEvent)
	now        func() time.Time
}

var errNoRemote = errors.New("no remote source configured")

// New builds a Provider. remote and health may be nil, in which case every query
// is served locally and TestConnection reports not connected.
func New(remote, local equipment.Source, health HealthChecker, opts ...Option) *Provider {
	p := &Provider{
		remote: remote,
		local:  local,
		health: health,
		log:    zerolog.Nop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// GetAll returns every record.
func (p *Provider) GetAll(ctx context.Context) ([]equipment.Record, error) {
	resp, _, _, err := p.query(ctx, "get all", equipment.Filters{})
	if err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// GetFiltered returns the records matching filters.
func (p *Provider) GetFiltered(ctx context.Context, filters equipment.Filters) ([]equipment.Record, error) {
	resp, _, _, err := p.query(ctx, "get filtered", filters)
	if err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// GetStatistics returns site-wide statistics. A remote response without a
// statistics block is summarized from its records.
func (p *Provider) GetStatistics(ctx context.Context) (equipment.Statistics, error) {
	resp, _, _, err := p.query(ctx, "get statistics", equipment.Filters{})
	if err != nil {
		return equipment.Statistics{}, err
	}
	return statisticsOf(resp), nil
}

// Fetch returns records and statistics for filters from a single query, along
// with which path served them.
func (p *Provider) Fetch(ctx context.Context, filters equipment.Filters) (Result, error) {
	resp, origin, remoteErr, err := p.query(ctx, "fetch", filters)
	if err != nil {
		return Result{}, err
	}
	return Result{
		Records:    resp.Data,
		Statistics: statisticsOf(resp),
		Origin:     origin,
		RemoteErr:  remoteErr,
	}, nil
}

// GetEquipmentTypes returns the distinct equipment types present in the local
// dataset, in first-seen order. It never calls the remote API.
func (p *Provider) GetEquipmentTypes(ctx context.Context) ([]string, error) {
	records, err := p.localRecords(ctx, "get equipment types")
	if err != nil {
		return nil, err
	}
	return equipment.DistinctTypes(records), nil
}

// GetLocations returns the distinct locations of the local dataset, sorted.
func (p *Provider) GetLocations(ctx context.Context) ([]string, error) {
	records, err := p.localRecords(ctx, "get locations")
	if err != nil {
		return nil, err
	}
	return equipment.Locations(records), nil
}

// GetStatuses returns the fixed status domain.
func (p *Provider) GetStatuses() []equipment.Status {
	return equipment.Statuses()
}

// TestConnection probes the remote health endpoint. Failures are reported in the
// result, never as an error.
func (p *Provider) TestConnection(ctx context.Context) ConnectionResult {
	if p.health == nil {
		return ConnectionResult{Connected: false, Message: "API connection error: " + errNoRemote.Error()}
	}
	if _, err := p.health.HealthCheck(ctx); err != nil {
		p.log.Debug().Err(err).Msg("connection test failed")
		return ConnectionResult{Connected: false, Message: "API connection error: " + err.Error()}
	}
	return ConnectionResult{Connected: true, Message: "API server connection confirmed"}
}

// query tries the remote source once and falls back to the local source on any
// failure. remoteErr carries the swallowed failure on the local path.
func (p *Provider) query(ctx context.Context, op string, filters equipment.Filters) (resp *equipment.StatusResponse, origin Origin, remoteErr error, err error) {
	resp, remoteErr = p.fetchRemote(ctx, filters)
	if remoteErr == nil {
		return resp, OriginRemote, nil, nil
	}

	p.log.Warn().Err(remoteErr).Str("op", op).Msg("remote equipment api failed, using local data")
	if p.onFallback != nil {
		p.onFallback(FallbackEvent{Op: op, Err: remoteErr, Time: p.now()})
	}

	// the local path must still answer when ctx expired during the remote call
	resp, localErr := fetchFrom(context.WithoutCancel(ctx), p.local, filters)
	if localErr != nil {
		p.log.Error().Err(localErr).Str("op", op).Msg("local equipment data failed")
		return nil, "", remoteErr, &DataUnavailableError{Op: op, Remote: remoteErr, Local: localErr}
	}
	return resp, OriginLocal, remoteErr, nil
}

func (p *Provider) fetchRemote(ctx context.Context, filters equipment.Filters) (*equipment.StatusResponse, error) {
	if p.remote == nil {
		return nil, errNoRemote
	}
	return fetchFrom(ctx, p.remote, filters)
}

func (p *Provider) localRecords(ctx context.Context, op string) ([]equipment.Record, error) {
	resp, err := fetchFrom(context.WithoutCancel(ctx), p.local, equipment.Filters{})
	if err != nil {
		return nil, &DataUnavailableError{Op: op, Local: err}
	}
	return resp.Data, nil
}

func fetchFrom(ctx context.Context, src equipment.Source, filters equipment.Filters) (*equipment.StatusResponse, error) {
	if src == nil {
		return nil, fmt.Errorf("source is nil")
	}
	resp, err := src.FetchEquipmentStatus(ctx, filters)
	if err != nil {
		return nil, err
	}
	if resp == nil {
		return nil, fmt.Errorf("empty response")
	}
	return resp, nil
}

func statisticsOf(resp *equipment.StatusResponse) equipment.Statistics {
	if resp.Statistics != nil {
		return *resp.Statistics
	}
	return equipment.Summarize(resp.Data)
}
