package console

import (
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"StoreLedger/internal/inventory"
	"StoreLedger/internal/report"
)

type productForm struct {
	Name        string
	Description string
	Price       float64 `validate:"gte=0"`
	Quantity    int32   `validate:"gte=0"`
}

type editForm struct {
	Price    *float64 `validate:"omitempty,gte=0"`
	Quantity *int32   `validate:"omitempty,gte=0"`
}

type ledgerForm struct {
	UnitPrice float64 `validate:"gte=0"`
}

// Run drives the main menu until "Save & Exit" or the end of input, which is
// treated the same way. It returns the save error, if any.
func (c *Console) Run() error {
	c.init()

	for {
		fmt.Fprintln(c.Out, "\n--- Main Menu ---")
		fmt.Fprintln(c.Out, "1. Inventory Management")
		fmt.Fprintln(c.Out, "2. Sales Management")
		fmt.Fprintln(c.Out, "3. Purchase Management")
		fmt.Fprintln(c.Out, "4. Reports")
		fmt.Fprintln(c.Out, "5. Save & Exit")

		choice, ok := c.prompt("Select option: ")
		if !ok {
			choice = "5"
		}

		switch choice {
		case "1":
			c.inventoryMenu()
		case "2":
			c.salesMenu()
		case "3":
			c.purchasesMenu()
		case "4":
			c.reportsMenu()
		case "5":
			return c.saveAndExit()
		default:
			fmt.Fprintln(c.Out, "Invalid selection.")
		}
	}
}

func (c *Console) saveAndExit() error {
	if c.Save != nil && c.OverwriteWarning != "" && !c.confirmOverwrite() {
		c.Log.Warn("save skipped, previous data kept", zap.String("location", c.Location))
		fmt.Fprintf(c.Out, "Save skipped, %s left untouched.\n", c.Location)
		fmt.Fprintln(c.Out, "Goodbye!")
		return nil
	}

	var err error
	if c.Save != nil {
		start := time.Now()
		err = c.Save()
		c.observe("save", start, err)
	}

	if err != nil {
		fmt.Fprintf(c.Out, "Error saving: %v\n", err)
	} else {
		fmt.Fprintf(c.Out, "Data saved to %s\n", c.Location)
	}
	fmt.Fprintln(c.Out, "Goodbye!")
	return err
}

func (c *Console) confirmOverwrite() bool {
	fmt.Fprintln(c.Out, c.OverwriteWarning)
	answer, ok := c.prompt(fmt.Sprintf("Overwrite %s with the current data? (y/N): ", c.Location))
	return ok && strings.EqualFold(answer, "y")
}

func (c *Console) inventoryMenu() {
	for {
		fmt.Fprintln(c.Out, "\n--- Inventory Menu ---")
		fmt.Fprintln(c.Out, "1. List products")
		fmt.Fprintln(c.Out, "2. Add product")
		fmt.Fprintln(c.Out, "3. Edit product")
		fmt.Fprintln(c.Out, "4. Delete product")
		fmt.Fprintln(c.Out, "5. Back")

		choice, ok := c.prompt("Select option: ")
		if !ok {
			return
		}

		switch choice {
		case "1":
			report.ProductList(c.Out, c.Store)
		case "2":
			c.addProduct()
		case "3":
			c.editProduct()
		case "4":
			c.deleteProduct()
		case "5":
			return
		default:
			fmt.Fprintln(c.Out, "Invalid selection")
			continue
		}
		c.pause()
	}
}

func (c *Console) addProduct() {
	name, _ := c.prompt("Name: ")
	desc, _ := c.prompt("Description: ")
	priceS, _ := c.prompt("Price: ")
	qtyS, _ := c.prompt("Quantity: ")

	price, perr := parsePrice(priceS)
	qty, qerr := parseQty(qtyS)
	if perr != nil || qerr != nil {
		fmt.Fprintln(c.Out, "Invalid price or quantity.")
		return
	}

	form := productForm{Name: name, Description: desc, Price: price, Quantity: qty}
	if err := c.check(form); err != nil {
		c.printErr(err)
		return
	}

	start := time.Now()
	p, err := c.Store.AddProduct(form.Name, form.Description, form.Price, form.Quantity)
	c.observe("add_product", start, err)
	if err != nil {
		c.printErr(err)
		return
	}

	fmt.Fprintf(c.Out, "Product added: [%d] %s | $%.2f | qty: %d\n", p.ID, p.Name, p.Price, p.Quantity)
}

func (c *Console) editProduct() {
	idS, _ := c.prompt("Product id to edit: ")
	id, err := parseID(idS)
	if err != nil {
		fmt.Fprintln(c.Out, "Invalid id")
		return
	}

	name, _ := c.prompt("New name (or empty to skip): ")
	desc, _ := c.prompt("New description (or empty to skip): ")
	priceS, _ := c.prompt("New price (or empty to skip): ")
	qtyS, _ := c.prompt("New quantity (or empty to skip): ")

	price, err := optional(priceS, parsePrice)
	if err != nil {
		fmt.Fprintln(c.Out, "Invalid price")
		return
	}
	qty, err := optional(qtyS, parseQty)
	if err != nil {
		fmt.Fprintln(c.Out, "Invalid quantity")
		return
	}
	if err := c.check(editForm{Price: price, Quantity: qty}); err != nil {
		c.printErr(err)
		return
	}

	patch := inventory.ProductPatch{Price: price, Quantity: qty}
	if name != "" {
		patch.Name = &name
	}
	if desc != "" {
		patch.Description = &desc
	}

	start := time.Now()
	p, err := c.Store.EditProduct(id, patch)
	c.observe("edit_product", start, err)
	if err != nil {
		c.printErr(err)
		return
	}
	fmt.Fprintf(c.Out, "Updated: [%d] %s - %s | $%.2f | qty: %d\n", p.ID, p.Name, p.Description, p.Price, p.Quantity)
}

func (c *Console) deleteProduct() {
	idS, _ := c.prompt("Product id to delete: ")
	id, err := parseID(idS)
	if err != nil {
		fmt.Fprintln(c.Out, "Invalid id")
		return
	}

	start := time.Now()
	err = c.Store.DeleteProduct(id)
	c.observe("delete_product", start, err)
	if err != nil {
		c.printErr(err)
		return
	}
	fmt.Fprintf(c.Out, "Deleted product %d\n", id)
}

func (c *Console) salesMenu() {
	for {
		fmt.Fprintln(c.Out, "\n--- Sales Menu ---")
		fmt.Fprintln(c.Out, "1. Record sale")
		fmt.Fprintln(c.Out, "2. List sales")
		fmt.Fprintln(c.Out, "3. Back")

		choice, ok := c.prompt("Select option: ")
		if !ok {
			return
		}

		switch choice {
		case "1":
			c.recordSale()
		case "2":
			report.SalesHistory(c.Out, c.Store)
		case "3":
			return
		default:
			fmt.Fprintln(c.Out, "Invalid selection")
			continue
		}
		c.pause()
	}
}

func (c *Console) purchasesMenu() {
	for {
		fmt.Fprintln(c.Out, "\n--- Purchases Menu ---")
		fmt.Fprintln(c.Out, "1. Record purchase")
		fmt.Fprintln(c.Out, "2. List purchases")
		fmt.Fprintln(c.Out, "3. Back")

		choice, ok := c.prompt("Select option: ")
		if !ok {
			return
		}

		switch choice {
		case "1":
			c.recordPurchase()
		case "2":
			report.PurchaseHistory(c.Out, c.Store)
		case "3":
			return
		default:
			fmt.Fprintln(c.Out, "Invalid selection")
			continue
		}
		c.pause()
	}
}

// readLedgerLine collects product id, quantity and unit price for a sale or purchase.
func (c *Console) readLedgerLine(priceLabel string) (id uint32, qty int32, price float64, ok bool) {
	idS, _ := c.prompt("Product id: ")
	qtyS, _ := c.prompt("Quantity: ")
	priceS, _ := c.prompt(priceLabel)

	id, ierr := parseID(idS)
	qty, qerr := parseQty(qtyS)
	price, perr := parsePrice(priceS)
	if ierr != nil || qerr != nil || perr != nil {
		fmt.Fprintln(c.Out, "Invalid input")
		return 0, 0, 0, false
	}
	if err := c.check(ledgerForm{UnitPrice: price}); err != nil {
		c.printErr(err)
		return 0, 0, 0, false
	}
	return id, qty, price, true
}

func (c *Console) recordSale() {
	id, qty, price, ok := c.readLedgerLine("Sale price per unit: ")
	if !ok {
		return
	}

	start := time.Now()
	sale, err := c.Store.RecordSale(id, qty, price)
	c.observe("record_sale", start, err)
	if err != nil {
		c.printErr(err)
		return
	}

	fmt.Fprintf(c.Out, "Recorded sale: [%d] product %d x%d @ $%.2f\n", sale.ID, sale.ProductID, sale.Quantity, sale.SalePrice)
	fmt.Fprintf(c.Out, "Total sale amount: $%.2f\n", sale.Total())
}

func (c *Console) recordPurchase() {
	id, qty, price, ok := c.readLedgerLine("Purchase price per unit: ")
	if !ok {
		return
	}

	start := time.Now()
	pur, err := c.Store.RecordPurchase(id, qty, price)
	c.observe("record_purchase", start, err)
	if err != nil {
		c.printErr(err)
		return
	}

	fmt.Fprintf(c.Out, "Recorded purchase: [%d] product %d x%d @ $%.2f\n", pur.ID, pur.ProductID, pur.Quantity, pur.PurchasePrice)
	fmt.Fprintf(c.Out, "Total cost: $%.2f\n", pur.Total())
}

func (c *Console) reportsMenu() {
	for {
		fmt.Fprintln(c.Out, "\n--- Reports Menu ---")
		fmt.Fprintln(c.Out, "1. Inventory report")
		fmt.Fprintln(c.Out, "2. Sales & Profit summary")
		fmt.Fprintln(c.Out, "3. Purchase history")
		fmt.Fprintln(c.Out, "4. Full report (all)")
		fmt.Fprintln(c.Out, "5. Back")

		choice, ok := c.prompt("Select option: ")
		if !ok {
			return
		}

		switch choice {
		case "1":
			report.Inventory(c.Out, c.Store)
		case "2":
			report.Summary(c.Out, c.Store)
		case "3":
			report.Purchases(c.Out, c.Store)
		case "4":
			report.Full(c.Out, c.Store)
		case "5":
			return
		default:
			fmt.Fprintln(c.Out, "Invalid selection")
			continue
		}
		c.pause()
	}
}
