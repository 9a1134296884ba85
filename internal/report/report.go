// Package report renders the console reports over a store's catalog and ledgers.
package report

import (
	"fmt"
	"io"
	"time"

	"StoreLedger/internal/inventory"
)

const timeLayout = "2006-01-02 15:04:05 -07:00"

// Ledger is the read side of inventory.Store used by the reports.
type Ledger interface {
	Products() []inventory.Product
	Sales() []inventory.Sale
	Purchases() []inventory.Purchase
	FindProduct(id uint32) (inventory.Product, bool)
	TotalSales() float64
	TotalPurchasesCost() float64
	Profit() float64
}

func ProductList(w io.Writer, l Ledger) {
	fmt.Fprintln(w, "\nInventory:")
	for _, p := range l.Products() {
		fmt.Fprintf(w, "[%d] %s - %s | $%.2f | qty: %d\n", p.ID, p.Name, p.Description, p.Price, p.Quantity)
	}
}

func Inventory(w io.Writer, l Ledger) {
	fmt.Fprintln(w, "\nInventory Report:")
	fmt.Fprintf(w, "%-5s %-20s %-8s %-6s %s\n", "ID", "Name", "Price", "Qty", "Description")
	for _, p := range l.Products() {
		fmt.Fprintf(w, "%-5d %-20s $%-7.2f %-6d %s\n", p.ID, p.Name, p.Price, p.Quantity, p.Description)
	}
}

// SalesHistory lists sales by product name. Sales of deleted products are skipped.
func SalesHistory(w io.Writer, l Ledger) {
	fmt.Fprintln(w, "\nSales history:")
	for _, s := range l.Sales() {
		p, ok := l.FindProduct(s.ProductID)
		if !ok {
			continue
		}
		fmt.Fprintf(w, "[%d] %s x%d @ $%.2f each = $%.2f at %s\n",
			s.ID, p.Name, s.Quantity, s.SalePrice, s.Total(), formatTime(s.Time))
	}
	fmt.Fprintf(w, "Total sales: $%.2f\n", l.TotalSales())
}

// PurchaseHistory lists purchases by product name. Purchases of deleted products are skipped.
func PurchaseHistory(w io.Writer, l Ledger) {
	fmt.Fprintln(w, "\nPurchase history:")
	for _, p := range l.Purchases() {
		prod, ok := l.FindProduct(p.ProductID)
		if !ok {
			continue
		}
		fmt.Fprintf(w, "[%d] %s x%d @ $%.2f each = $%.2f at %s\n",
			p.ID, prod.Name, p.Quantity, p.PurchasePrice, p.Total(), formatTime(p.Time))
	}
	fmt.Fprintf(w, "Total purchases cost: $%.2f\n", l.TotalPurchasesCost())
}

// Purchases lists every purchase by product id, including those of deleted products.
func Purchases(w io.Writer, l Ledger) {
	fmt.Fprintln(w, "\nPurchases:")
	for _, p := range l.Purchases() {
		fmt.Fprintf(w, "[%d] Product %d qty %d @ $%.2f on %s\n",
			p.ID, p.ProductID, p.Quantity, p.PurchasePrice, formatTime(p.Time))
	}
}

func Summary(w io.Writer, l Ledger) {
	fmt.Fprintln(w, "\nSales Summary:")
	fmt.Fprintf(w, "Total Sales: $%.2f\n", l.TotalSales())
	fmt.Fprintf(w, "Total Purchases Cost: $%.2f\n", l.TotalPurchasesCost())
	fmt.Fprintf(w, "Estimated Profit: $%.2f\n", l.Profit())
}

func Full(w io.Writer, l Ledger) {
	fmt.Fprintln(w, "\n--- FULL REPORT ---")

	fmt.Fprintln(w, "Inventory:")
	for _, p := range l.Products() {
		fmt.Fprintf(w, "[%d] %s - $%.2f - qty %d\n", p.ID, p.Name, p.Price, p.Quantity)
	}

	fmt.Fprintln(w, "\nSales:")
	for _, s := range l.Sales() {
		fmt.Fprintf(w, "[%d] product %d qty %d @ $%.2f each - total $%.2f - %s\n",
			s.ID, s.ProductID, s.Quantity, s.SalePrice, s.Total(), formatTime(s.Time))
	}

	fmt.Fprintln(w, "\nPurchases:")
	for _, p := range l.Purchases() {
		fmt.Fprintf(w, "[%d] product %d qty %d @ $%.2f each - total $%.2f - %s\n",
			p.ID, p.ProductID, p.Quantity, p.PurchasePrice, p.Total(), formatTime(p.Time))
	}

	fmt.Fprintln(w, "\nSummary:")
	fmt.Fprintf(w, "Total Sales: $%.2f\n", l.TotalSales())
	fmt.Fprintf(w, "Total Purchases Cost: $%.2f\n", l.TotalPurchasesCost())
	fmt.Fprintf(w, "Profit: $%.2f\n", l.Profit())
}

func formatTime(t time.Time) string {
	return t.Format(timeLayout)
}
