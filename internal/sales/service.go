package sales

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Service runs the filter and aggregation pipeline over one cached source.
type Service struct {
	storage Storage
	logger  *zap.Logger
	source  string
}

// Dashboard bundles the KPIs and every summary table for one set of criteria.
type Dashboard struct {
	KPIs    KPIs     `json:"kpis"`
	Reports []Report `json:"reports"`
}

// NewService creates a new Service.
func NewService(storage Storage, logger *zap.Logger, source string) *Service {
	if logger == nil {
		logger, _ = zap.NewProduction()
		defer logger.Sync() // flushes buffer, if any
	}

	return &Service{
		storage: storage,
		logger:  logger,
		source:  source,
	}
}

// Source returns the path the service reads from.
func (s *Service) Source() string {
	return s.source
}

// Dataset returns the current snapshot of the source.
func (s *Service) Dataset() (*Dataset, error) {
	ds, err := s.storage.Get(s.source)
	if err != nil {
		s.logger.Error("failed to load dataset", zap.String("source", s.source), zap.Error(err))
		return nil, err
	}
	return ds, nil
}

// Reload purges every cached dataset and loads the source again.
func (s *Service) Reload() (*Dataset, error) {
	s.storage.Purge()
	ds, err := s.Dataset()
	if err != nil {
		return nil, err
	}

	s.logger.Info("dataset reloaded",
		zap.String("source", s.source),
		zap.String("identity", ds.Identity),
		zap.Int("records", len(ds.Records)),
	)
	return ds, nil
}

// Options lists the distinct filter values and the invoice date span.
func (s *Service) Options() (FilterOptions, error) {
	ds, err := s.Dataset()
	if err != nil {
		return FilterOptions{}, err
	}

	opts := FilterOptions{
		Regions:   distinct(ds, FieldRegion),
		Retailers: distinct(ds, FieldRetailer),
		States:    distinct(ds, FieldState),
	}
	var lo, hi time.Time
	for _, r := range ds.Records {
		if !r.HasDate {
			continue
		}
		if lo.IsZero() || r.InvoiceDate.Before(lo) {
			lo = r.InvoiceDate
		}
		if hi.IsZero() || r.InvoiceDate.After(hi) {
			hi = r.InvoiceDate
		}
	}
	if !lo.IsZero() {
		opts.MinDate, opts.MaxDate = &lo, &hi
	}
	return opts, nil
}

func distinct(ds *Dataset, f Field) []string {
	out := []string{}
	if !ds.Schema.Has(f) {
		return out
	}
	seen := make(map[string]bool)
	for _, r := range ds.Records {
		v := r.Value(f)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// Records returns the records matching c, with the schema they were read with.
func (s *Service) Records(c Criteria) (Schema, []Record, error) {
	ds, err := s.Dataset()
	if err != nil {
		return Schema{}, nil, err
	}

	filtered := Apply(ds.Records, c.restrictTo(ds.Schema))
	s.logger.Debug("records filtered",
		zap.Int("total", len(ds.Records)),
		zap.Int("matched", len(filtered)),
	)
	return ds.Schema, filtered, nil
}

// KPIs computes the headline totals for c.
func (s *Service) KPIs(c Criteria) (KPIs, error) {
	_, records, err := s.Records(c)
	if err != nil {
		return KPIs{}, err
	}
	return ComputeKPIs(records), nil
}

// Report builds the named summary table for c.
func (s *Service) Report(name ReportName, c Criteria) (Report, error) {
	d, err := Definition(name)
	if err != nil {
		s.logger.Warn("unknown report requested", zap.String("report", string(name)))
		return Report{}, fmt.Errorf("%w: '%s'", ErrUnknownReport, name)
	}

	schema, records, err := s.Records(c)
	if err != nil {
		return Report{}, err
	}

	report := d.Build(schema, records)
	if !report.Available {
		s.logger.Info("report unavailable for source columns", zap.String("report", string(name)))
	}
	return report, nil
}

// Dashboard builds the KPIs and all summary tables for c. The tables are
// computed concurrently over the same filtered records.
func (s *Service) Dashboard(ctx context.Context, c Criteria) (Dashboard, error) {
	schema, records, err := s.Records(c)
	if err != nil {
		return Dashboard{}, err
	}

	defs := Definitions()
	reports := make([]Report, len(defs))
	g, ctx := errgroup.WithContext(ctx)
	for i, d := range defs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			reports[i] = d.Build(schema, records)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Dashboard{}, err
	}

	s.logger.Info("dashboard computed",
		zap.Int("records", len(records)),
		zap.Int("reports", len(reports)),
	)
	return Dashboard{KPIs: ComputeKPIs(records), Reports: reports}, nil
}
