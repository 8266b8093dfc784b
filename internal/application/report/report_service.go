package report

import (
	"context"

	apptrade "github.com/erp/stockledger/internal/application/trade"
	"github.com/erp/stockledger/internal/domain/report"
)

// ReportService builds read-model snapshots over the current ledger state
type ReportService struct {
	scope apptrade.TransactionScope
}

// NewReportService creates a new ReportService
func NewReportService(scope apptrade.TransactionScope) *ReportService {
	return &ReportService{scope: scope}
}

// StockValuation returns the current inventory valuation snapshot. Both
// reads run in one scope so the report never mixes states from either side
// of a concurrent order save.
func (s *ReportService) StockValuation(ctx context.Context) (report.StockValuationReport, error) {
	var rep report.StockValuationReport
	err := s.scope.Execute(ctx, func(repos apptrade.TransactionalRepositories) error {
		products, err := repos.Products().FindAll(ctx)
		if err != nil {
			return err
		}
		warehouses, err := repos.Warehouses().FindAll(ctx)
		if err != nil {
			return err
		}
		rep = report.BuildStockValuation(products, warehouses)
		return nil
	})
	if err != nil {
		return report.StockValuationReport{}, err
	}
	return rep, nil
}
