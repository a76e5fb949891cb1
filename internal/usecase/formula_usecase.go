package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/AlahmadiQ8/coda-pack-azure-cogtinive-services/internal/domain/entity"
	"github.com/AlahmadiQ8/coda-pack-azure-cogtinive-services/internal/domain/repository"
	"github.com/AlahmadiQ8/coda-pack-azure-cogtinive-services/internal/domain/service"
	"github.com/AlahmadiQ8/coda-pack-azure-cogtinive-services/internal/infrastructure/metrics"
	"github.com/AlahmadiQ8/coda-pack-azure-cogtinive-services/internal/pack"
)

// Error definitions for formula usecase
var (
	ErrFormulaNotFound      = errors.New("formula not found")
	ErrColumnFormatNotFound = errors.New("column format not found")
	ErrMissingCredentials   = errors.New("endpoint URL and API key are required")
	ErrHistoryUnavailable   = errors.New("invocation history is not configured")
	ErrInvalidRequest       = errors.New("invalid request")
)

// Column format limits
const (
	DefaultCellConcurrency = 4
	MaxColumnCells         = 1000
)

// ExecuteInput represents the input for executing a formula
type ExecuteInput struct {
	Text      string `json:"text"`
	RequestID string `json:"-"`
}

// FormulaOutput represents the output of a formula execution
type FormulaOutput struct {
	Formula   string      `json:"formula"`
	Result    interface{} `json:"result"`
	LatencyMs int64       `json:"latency_ms"`
}

// ColumnInput represents the cells a column format is applied to
type ColumnInput struct {
	Cells     []string `json:"cells" binding:"required"`
	RequestID string   `json:"-"`
}

// ColumnOutput represents per-cell results, in cell order
type ColumnOutput struct {
	ColumnFormat string        `json:"column_format"`
	Formula      string        `json:"formula"`
	Results      []interface{} `json:"results"`
}

// InvocationListOutput represents paginated invocation history
type InvocationListOutput struct {
	Invocations []*entity.InvocationLog `json:"invocations"`
	Total       int64                   `json:"total"`
	Limit       int                     `json:"limit"`
	Offset      int                     `json:"offset"`
	HasMore     bool                    `json:"has_more"`
}

// FormulaUsecase defines the host-side formula runtime
type FormulaUsecase interface {
	Execute(ctx context.Context, name string, creds *entity.Credentials, input *ExecuteInput) (*FormulaOutput, error)
	ApplyColumnFormat(ctx context.Context, name string, creds *entity.Credentials, input *ColumnInput) (*ColumnOutput, error)
	ListInvocations(ctx context.Context, formula string, limit, offset int) (*InvocationListOutput, error)
}

type formulaFunc func(ctx context.Context, inv service.Invocation, text string) (interface{}, error)

type formulaUsecase struct {
	pack            *pack.Pack
	formulas        map[string]formulaFunc
	broker          service.CredentialBroker
	invocationRepo  repository.InvocationRepository
	metrics         *metrics.Metrics
	logger          *zap.Logger
	cellConcurrency int
}

// NewFormulaUsecase creates a new formula usecase.
// invocationRepo and m may be nil.
func NewFormulaUsecase(
	p *pack.Pack,
	analysis AnalysisUsecase,
	broker service.CredentialBroker,
	invocationRepo repository.InvocationRepository,
	m *metrics.Metrics,
	logger *zap.Logger,
	cellConcurrency int,
) FormulaUsecase {
	if cellConcurrency <= 0 {
		cellConcurrency = DefaultCellConcurrency
	}

	return &formulaUsecase{
		pack: p,
		formulas: map[string]formulaFunc{
			pack.FormulaAnalyzeSentiment: func(ctx context.Context, inv service.Invocation, text string) (interface{}, error) {
				return analysis.AnalyzeSentiment(ctx, inv, text)
			},
			pack.FormulaDetectLanguage: func(ctx context.Context, inv service.Invocation, text string) (interface{}, error) {
				return analysis.DetectLanguage(ctx, inv, text)
			},
		},
		broker:          broker,
		invocationRepo:  invocationRepo,
		metrics:         m,
		logger:          logger,
		cellConcurrency: cellConcurrency,
	}
}

func (u *formulaUsecase) Execute(ctx context.Context, name string, creds *entity.Credentials, input *ExecuteInput) (*FormulaOutput, error) {
	fn, err := u.lookupFormula(name)
	if err != nil {
		return nil, err
	}
	if err := validateCredentials(creds); err != nil {
		return nil, err
	}

	start := time.Now()
	result, err := u.execute(ctx, name, fn, creds, input.Text, input.RequestID)
	if err != nil {
		return nil, err
	}

	return &FormulaOutput{
		Formula:   name,
		Result:    result,
		LatencyMs: time.Since(start).Milliseconds(),
	}, nil
}

func (u *formulaUsecase) ApplyColumnFormat(ctx context.Context, name string, creds *entity.Credentials, input *ColumnInput) (*ColumnOutput, error) {
	cf, ok := u.pack.ColumnFormat(name)
	if !ok {
		return nil, ErrColumnFormatNotFound
	}
	fn, err := u.lookupFormula(cf.FormulaName)
	if err != nil {
		return nil, err
	}
	if err := validateCredentials(creds); err != nil {
		return nil, err
	}
	if len(input.Cells) > MaxColumnCells {
		return nil, fmt.Errorf("%w: at most %d cells per request", ErrInvalidRequest, MaxColumnCells)
	}

	results := make([]interface{}, len(input.Cells))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(u.cellConcurrency)
	for i, cell := range input.Cells {
		i, cell := i, cell
		g.Go(func() error {
			result, err := u.execute(gctx, cf.FormulaName, fn, creds, cell, input.RequestID)
			if err != nil {
				return fmt.Errorf("cell %d: %w", i, err)
			}
			results[i] = result
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	u.metrics.ObserveCells(cf.Name, len(input.Cells))

	return &ColumnOutput{
		ColumnFormat: cf.Name,
		Formula:      cf.FormulaName,
		Results:      results,
	}, nil
}

func (u *formulaUsecase) ListInvocations(ctx context.Context, formula string, limit, offset int) (*InvocationListOutput, error) {
	if u.invocationRepo == nil {
		return nil, ErrHistoryUnavailable
	}

	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	var (
		logs  []*entity.InvocationLog
		total int64
		err   error
	)
	if formula != "" {
		logs, total, err = u.invocationRepo.ListByFormula(ctx, formula, limit, offset)
	} else {
		logs, total, err = u.invocationRepo.List(ctx, limit, offset)
	}
	if err != nil {
		return nil, err
	}

	return &InvocationListOutput{
		Invocations: logs,
		Total:       total,
		Limit:       limit,
		Offset:      offset,
		HasMore:     int64(offset+limit) < total,
	}, nil
}

// execute runs one formula invocation inside its own credential session
func (u *formulaUsecase) execute(ctx context.Context, name string, fn formulaFunc, creds *entity.Credentials, text, requestID string) (interface{}, error) {
	inv, err := u.broker.Open(ctx, creds)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := u.broker.Close(context.WithoutCancel(ctx), inv.Token()); err != nil {
			u.logger.Warn("Failed to close credential session", zap.String("formula", name), zap.Error(err))
		}
	}()

	start := time.Now()
	result, err := fn(ctx, inv, text)
	elapsed := time.Since(start)

	u.metrics.ObserveInvocation(name, elapsed, err)
	u.record(ctx, requestID, name, utf8.RuneCountInString(text), err, elapsed)

	if err != nil {
		u.logger.Warn("Formula failed",
			zap.String("formula", name),
			zap.String("request_id", requestID),
			zap.Int("text_length", utf8.RuneCountInString(text)),
			zap.Error(err),
		)
		return nil, err
	}

	return result, nil
}

func (u *formulaUsecase) record(ctx context.Context, requestID, formula string, textLength int, err error, elapsed time.Duration) {
	if u.invocationRepo == nil {
		return
	}

	log := entity.NewInvocationLog(requestID, formula, textLength)
	log.SetResult(err, elapsed.Milliseconds())
	if err := u.invocationRepo.Create(context.WithoutCancel(ctx), log); err != nil {
		u.logger.Error("Failed to record invocation", zap.String("formula", formula), zap.Error(err))
	}
}

func (u *formulaUsecase) lookupFormula(name string) (formulaFunc, error) {
	if _, ok := u.pack.Formula(name); !ok {
		return nil, ErrFormulaNotFound
	}
	fn, ok := u.formulas[name]
	if !ok {
		return nil, ErrFormulaNotFound
	}
	return fn, nil
}

func validateCredentials(creds *entity.Credentials) error {
	if creds == nil || creds.EndpointURL == "" || creds.Secrets[entity.SecretKey] == "" {
		return ErrMissingCredentials
	}
	return nil
}
