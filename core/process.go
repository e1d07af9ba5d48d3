package core

import (
	"context"
	"errors"
	"fmt"
	"math"
	"runtime"
	"slices"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/huangsam/xmr/core/algo"
	"github.com/huangsam/xmr/schema"
)

// Processing errors surfaced in ProcessingResult.Error.
var (
	ErrNoValidData   = errors.New("no valid data points")
	ErrNoGroupResult = errors.New("no group could be processed")
	ErrInvalidParams = errors.New("invalid engine parameters")
)

// ProcessOptions controls a single Process call.
type ProcessOptions struct {
	Params  algo.Params
	Workers int         // concurrent groups, values below 1 mean one
	Logger  *zap.Logger // nil uses the global logger
}

// DefaultProcessOptions returns the canonical engine constants and one worker per CPU.
func DefaultProcessOptions() ProcessOptions {
	return ProcessOptions{
		Params:  algo.DefaultParams(),
		Workers: runtime.GOMAXPROCS(0),
	}
}

func (o ProcessOptions) logger() *zap.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return zap.L()
}

// recordGroup is every record of one (entity, metric) pair in input order.
type recordGroup struct {
	entity  string
	metric  string
	records []schema.MeasurementRecord
}

type groupOutcome struct {
	result schema.GroupResult
	err    error
}

// Process groups records by (entity, metric) and builds the individuals,
// moving range and distribution charts of every group.
//
// Groups are processed concurrently; a failing group is reported in Failures
// and never affects its siblings. Entities keep their first-seen order, as do
// the metrics of each entity, so equal input always yields equal output.
func Process(ctx context.Context, records []schema.MeasurementRecord, opts ProcessOptions) schema.ProcessingResult {
	logger := opts.logger()
	if err := opts.Params.Validate(); err != nil {
		return schema.Failed(fmt.Errorf("%w: %w", ErrInvalidParams, err).Error())
	}
	groups, warnings := groupRecords(records)
	for _, w := range warnings {
		logger.Warn("skipping malformed record", zap.String("reason", w))
	}
	if len(groups) == 0 {
		res := schema.Failed(ErrNoValidData.Error())
		res.Warnings = warnings
		return res
	}

	outcomes := make([]groupOutcome, len(groups))
	var g errgroup.Group
	g.SetLimit(max(1, opts.Workers))
	for i, grp := range groups {
		if err := ctx.Err(); err != nil {
			outcomes[i] = groupOutcome{err: err}
			continue
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				outcomes[i] = groupOutcome{err: err}
				return nil
			}
			res, err := processGroup(grp, opts.Params, logger)
			outcomes[i] = groupOutcome{result: res, err: err}
			return nil
		})
	}
	_ = g.Wait()

	result := assemble(groups, outcomes)
	result.Warnings = warnings
	for _, f := range result.Failures {
		logger.Warn("group failed",
			zap.String("entity", f.Entity),
			zap.String("metric", f.Metric),
			zap.String("reason", f.Reason))
	}
	logger.Debug("processing finished",
		zap.Int("groups", len(groups)),
		zap.Int("failures", len(result.Failures)),
		zap.Int("warnings", len(warnings)))
	return result
}

// groupRecords drops malformed records and buckets the rest, keeping
// first-seen order for entities and for metrics within an entity.
func groupRecords(records []schema.MeasurementRecord) ([]recordGroup, []string) {
	var warnings []string
	var entities []string
	metricOrder := make(map[string][]string)
	buckets := make(map[[2]string][]schema.MeasurementRecord)

	for i, r := range records {
		switch {
		case r.Entity == "" || r.Metric == "":
			warnings = append(warnings, fmt.Sprintf("record %d: missing entity or metric", i))
			continue
		case strings.TrimSpace(r.Date) == "":
			warnings = append(warnings, fmt.Sprintf("record %d: missing date for %s/%s", i, r.Entity, r.Metric))
			continue
		case math.IsNaN(r.Value) || math.IsInf(r.Value, 0):
			warnings = append(warnings, fmt.Sprintf("record %d: non-finite value for %s/%s", i, r.Entity, r.Metric))
			continue
		}

		key := [2]string{r.Entity, r.Metric}
		if _, seen := metricOrder[r.Entity]; !seen {
			entities = append(entities, r.Entity)
		}
		if _, ok := buckets[key]; !ok {
			metricOrder[r.Entity] = append(metricOrder[r.Entity], r.Metric)
		}
		buckets[key] = append(buckets[key], r)
	}

	groups := make([]recordGroup, 0, len(buckets))
	for _, entity := range entities {
		for _, metric := range metricOrder[entity] {
			groups = append(groups, recordGroup{
				entity:  entity,
				metric:  metric,
				records: buckets[[2]string{entity, metric}],
			})
		}
	}
	return groups, warnings
}

type datedRecord struct {
	at     time.Time
	record schema.MeasurementRecord
}

// processGroup runs the full chart pipeline for one group.
func processGroup(grp recordGroup, p algo.Params, logger *zap.Logger) (schema.GroupResult, error) {
	dated := make([]datedRecord, len(grp.records))
	for i, r := range grp.records {
		t, err := ParseDate(r.Date)
		if err != nil {
			return schema.GroupResult{}, err
		}
		dated[i] = datedRecord{at: t, record: r}
	}
	slices.SortStableFunc(dated, func(a, b datedRecord) int {
		return a.at.Compare(b.at)
	})

	points := make([]schema.AnnotatedPoint, len(dated))
	values := make([]float64, len(dated))
	for i, d := range dated {
		points[i] = schema.AnnotatedPoint{MeasurementRecord: d.record}
		values[i] = d.record.Value
	}

	xPoints, xPhases := SegmentPhases(points, p)
	x := schema.ChartResult{Kind: schema.IndividualsChart, Points: xPoints, Phases: xPhases}
	mr := schema.ChartResult{Kind: schema.MovingRangeChart}
	if len(points) >= 2 {
		mr.Points, mr.Phases = ApplyXPhasesToMR(DeriveMovingRange(xPoints), xPhases, p)
		if !PhasesSynchronized(xPhases, mr.Phases) {
			logger.Debug("moving range phases out of order",
				zap.String("entity", grp.entity),
				zap.String("metric", grp.metric),
				zap.Int("x_phases", len(xPhases)),
				zap.Int("mr_phases", len(mr.Phases)))
		}
	}
	x, mr, _ = Coordinate(x, mr)

	dist := algo.Histogram(values, p.Bins)
	res := schema.GroupResult{
		Entity:       grp.entity,
		Metric:       grp.metric,
		X:            &x,
		Distribution: &dist,
	}
	if len(points) >= 2 {
		res.MR = &mr
	}
	return res, nil
}

// assemble folds per-group outcomes into the public result in group order.
func assemble(groups []recordGroup, outcomes []groupOutcome) schema.ProcessingResult {
	result := schema.ProcessingResult{
		ChartData: make(map[string]map[string]schema.ChartPayload),
	}
	for i, grp := range groups {
		out := outcomes[i]
		if out.err != nil {
			result.Failures = append(result.Failures, schema.GroupFailure{
				Entity: grp.entity,
				Metric: grp.metric,
				Reason: out.err.Error(),
			})
			continue
		}

		charts, ok := result.ChartData[grp.entity]
		if !ok {
			charts = make(map[string]schema.ChartPayload)
			result.ChartData[grp.entity] = charts
			result.Entities = append(result.Entities, grp.entity)
		}
		gr := out.result
		charts[grp.metric] = schema.ChartPayload{ChartResult: gr.X}
		if gr.MR != nil {
			charts[schema.MovingRangeLabel(grp.metric)] = schema.ChartPayload{ChartResult: gr.MR}
		}
		charts[schema.DistributionLabel(grp.metric)] = schema.ChartPayload{DistributionResult: gr.Distribution}
		result.Groups = append(result.Groups, gr)
	}

	if len(result.Groups) == 0 {
		result.Success = false
		result.Error = ErrNoGroupResult.Error()
		result.ChartData = nil
		return result
	}
	result.Success = true
	return result
}
