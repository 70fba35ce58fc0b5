// internal/service/report_service.go
package service

import (
	"context"
	"fmt"

	"github.com/andresuchdata/deliveryperf/backend-go/internal/cache"
	"github.com/andresuchdata/deliveryperf/backend-go/internal/report"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// Source is anything that can produce the raw fact and customer tables:
// the Postgres repository or the CSV source.
type Source interface {
	Load(ctx context.Context) (report.Input, error)
	DateLayout() string
}

type ReportService struct {
	source    Source
	cache     cache.ReportCache
	assembler *report.Assembler
	snapshot  string
}

func NewReportService(source Source, reportCache cache.ReportCache, snapshot string) *ReportService {
	return &ReportService{
		source:    source,
		cache:     reportCache,
		assembler: report.NewAssembler(source.DateLayout()),
		snapshot:  snapshot,
	}
}

// ViewNames lists the available views.
func (s *ReportService) ViewNames() []string {
	return report.ViewNames()
}

// View returns one computed view, cache-first. Cache failures degrade to
// recomputation instead of failing the request.
func (s *ReportService) View(ctx context.Context, view string) (*report.Result, error) {
	if cached, ok, err := s.cache.Get(ctx, view, s.snapshot); err != nil {
		log.Warn().Err(err).Str("view", view).Msg("report cache read failed")
	} else if ok {
		return cached, nil
	}

	in, err := s.source.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load report input: %w", err)
	}

	result, err := s.assembler.Build(view, in)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, view, s.snapshot, result); err != nil {
		log.Warn().Err(err).Str("view", view).Msg("report cache write failed")
	}
	return result, nil
}

// Batch computes several views over a single load of the inputs. Builds
// run concurrently; each Build call is an independent pure computation.
// One failing view fails the batch, matching the all-or-nothing contract
// of individual reports.
func (s *ReportService) Batch(ctx context.Context, views []string) (map[string]*report.Result, error) {
	if len(views) == 0 {
		views = report.ViewNames()
	}

	in, err := s.source.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load report input: %w", err)
	}

	results := make([]*report.Result, len(views))
	g, gctx := errgroup.WithContext(ctx)
	for i, view := range views {
		i, view := i, view
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			r, err := s.assembler.Build(view, in)
			if err != nil {
				return err
			}
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make(map[string]*report.Result, len(views))
	for i, view := range views {
		out[view] = results[i]
		if err := s.cache.Set(ctx, view, s.snapshot, results[i]); err != nil {
			log.Warn().Err(err).Str("view", view).Msg("report cache write failed")
		}
	}
	return out, nil
}

// Invalidate drops every cached view.
func (s *ReportService) Invalidate(ctx context.Context) error {
	return s.cache.InvalidateAll(ctx)
}
