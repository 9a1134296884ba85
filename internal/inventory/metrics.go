package inventory

import (
	"github.com/prometheus/client_golang/prometheus"
)

// RegisterMetrics exposes the ledger aggregates as gauges evaluated at gather time.
func (s *Store) RegisterMetrics(reg prometheus.Registerer) error {
	gauges := []prometheus.Collector{
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "store_sales_total_amount",
			Help: "Sum of sale price times quantity over all sales",
		}, s.TotalSales),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "store_purchases_total_cost",
			Help: "Sum of purchase price times quantity over all purchases",
		}, s.TotalPurchasesCost),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "store_profit",
			Help: "Total sales minus total purchase cost",
		}, s.Profit),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "store_products",
			Help: "Products currently in the catalog",
		}, func() float64 {
			s.mu.RLock()
			defer s.mu.RUnlock()
			return float64(len(s.products))
		}),
	}

	for _, g := range gauges {
		if err := reg.Register(g); err != nil {
			return err
		}
	}
	return nil
}
