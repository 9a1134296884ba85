package console

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"StoreLedger/internal/inventory"
	"StoreLedger/pkg/kit"
)

type harness struct {
	c     *Console
	out   *bytes.Buffer
	store *inventory.Store
	saves int
}

func newHarness(t *testing.T, lines ...string) *harness {
	t.Helper()

	s, err := inventory.New(inventory.WithHashCost(bcrypt.MinCost))
	require.NoError(t, err)

	h := &harness{out: &bytes.Buffer{}, store: s}
	h.c = &Console{
		Store:    s,
		In:       strings.NewReader(strings.Join(lines, "\n") + "\n"),
		Out:      h.out,
		Log:      zap.NewNop(),
		Location: "test.json",
		Save: func() error {
			h.saves++
			return nil
		},
	}
	return h
}

func TestLogin(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
		want  bool
		out   string
	}{
		{name: "default admin", lines: []string{"admin", "password"}, want: true, out: "Login success. Welcome, admin!"},
		{name: "wrong password", lines: []string{"admin", "nope"}, want: false, out: "Login failed."},
		{name: "unknown user", lines: []string{"ghost", "password"}, want: false, out: "Login failed."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, tt.lines...)
			assert.Equal(t, tt.want, h.c.Login())
			assert.Contains(t, h.out.String(), tt.out)
		})
	}
}

func TestLoginUsesPasswordReader(t *testing.T) {
	h := newHarness(t, "admin")
	h.c.ReadPassword = func() (string, error) { return "password", nil }
	assert.True(t, h.c.Login())

	h = newHarness(t, "admin")
	h.c.ReadPassword = func() (string, error) { return "", errors.New("no tty") }
	assert.False(t, h.c.Login())
}

func TestLoginClosedInput(t *testing.T) {
	h := newHarness(t)
	h.c.In = strings.NewReader("")
	assert.False(t, h.c.Login())
}

func TestRunWidgetScenario(t *testing.T) {
	h := newHarness(t,
		"1", "2", "Widget", "desc", "5.0", "10", "", "5",
		"2", "1", "1", "4", "7.0", "",
		"1", "1", "10", "7.0", "", "3",
		"5",
	)

	require.NoError(t, h.c.Run())
	out := h.out.String()

	assert.Contains(t, out, "Product added: [1] Widget | $5.00 | qty: 10")
	assert.Contains(t, out, "Total sale amount: $28.00")
	assert.Contains(t, out, "Error: insufficient stock: Widget has only 6 in stock")
	assert.Contains(t, out, "Data saved to test.json")
	assert.Contains(t, out, "Goodbye!")
	assert.Equal(t, 1, h.saves)

	p, ok := h.store.FindProduct(1)
	require.True(t, ok)
	assert.Equal(t, int32(6), p.Quantity)
	assert.InDelta(t, 28.0, h.store.TotalSales(), 1e-9)
}

func TestRunEditAndDelete(t *testing.T) {
	h := newHarness(t,
		"1",
		"2", "Widget", "desc", "5", "10", "",
		"3", "1", "", "new desc", "", "3", "",
		"4", "1", "",
		"4", "1", "",
		"5", "5",
	)

	require.NoError(t, h.c.Run())
	out := h.out.String()

	assert.Contains(t, out, "Updated: [1] Widget - new desc | $5.00 | qty: 3")
	assert.Contains(t, out, "Deleted product 1")
	assert.Contains(t, out, "Error: not found: product 1")
	assert.Empty(t, h.store.Products())
}

func TestRunRejectsBadInputWithoutMutation(t *testing.T) {
	h := newHarness(t,
		"1",
		"2", "Widget", "desc", "abc", "10", "",
		"2", "Widget", "desc", "-1", "10", "",
		"2", "Widget", "desc", "5", "-2", "",
		"3", "x", "",
		"3", "1", "", "", "NaN", "", "",
		"5",
		"3", "1", "1", "0", "2", "", "3",
		"5",
	)

	require.NoError(t, h.c.Run())
	out := h.out.String()

	assert.Contains(t, out, "Invalid price or quantity.")
	assert.Contains(t, out, "Error: invalid input: price must be gte 0")
	assert.Contains(t, out, "Error: invalid input: quantity must be gte 0")
	assert.Contains(t, out, "Invalid id")
	assert.Contains(t, out, "Invalid price")
	assert.Contains(t, out, "Error: invalid input: quantity must be positive")

	assert.Empty(t, h.store.Products())
	assert.Empty(t, h.store.Purchases())
	assert.Equal(t, uint32(1), h.store.Snapshot().NextProductID)
}

func TestRunPurchaseAndReports(t *testing.T) {
	h := newHarness(t,
		"1", "2", "Gadget", "red", "2.5", "0", "", "5",
		"3", "1", "1", "4", "1.5", "", "2", "", "3",
		"4", "2", "", "4", "", "9", "5",
		"5",
	)

	require.NoError(t, h.c.Run())
	out := h.out.String()

	assert.Contains(t, out, "Total cost: $6.00")
	assert.Contains(t, out, "[1] Gadget x4 @ $1.50 each = $6.00")
	assert.Contains(t, out, "Estimated Profit: $-6.00")
	assert.Contains(t, out, "--- FULL REPORT ---")
	assert.Contains(t, out, "Invalid selection")
}

func TestRunEndOfInputSaves(t *testing.T) {
	h := newHarness(t, "1", "2", "Widget", "desc", "5", "10")

	require.NoError(t, h.c.Run())
	assert.Equal(t, 1, h.saves)
	assert.Len(t, h.store.Products(), 1)
}

func TestRunReportsSaveError(t *testing.T) {
	h := newHarness(t, "5")
	h.c.Save = func() error { return inventory.ErrIO }

	err := h.c.Run()
	require.ErrorIs(t, err, inventory.ErrIO)
	assert.Contains(t, h.out.String(), "Error saving: io error")
	assert.Contains(t, h.out.String(), "Goodbye!")
}

func TestRunRecordsMetrics(t *testing.T) {
	h := newHarness(t,
		"2", "1", "9", "1", "1", "", "3",
		"5",
	)
	reg := prometheus.NewRegistry()
	h.c.Metrics = kit.NewMetrics(reg, "test")

	require.NoError(t, h.c.Run())

	assert.Equal(t, 1.0, testutil.ToFloat64(h.c.Metrics.Operations.WithLabelValues("test", "record_sale", "not_found")))
	assert.Equal(t, 1.0, testutil.ToFloat64(h.c.Metrics.Operations.WithLabelValues("test", "save", "ok")))
}

func TestRunAfterFailedLoadAsksBeforeOverwrite(t *testing.T) {
	tests := []struct {
		name      string
		lines     []string
		wantSaves int
		wantOut   string
	}{
		{name: "confirmed", lines: []string{"5", "y"}, wantSaves: 1, wantOut: "Data saved to test.json"},
		{name: "declined", lines: []string{"5", "n"}, wantSaves: 0, wantOut: "Save skipped, test.json left untouched."},
		{name: "empty answer", lines: []string{"5", ""}, wantSaves: 0, wantOut: "Save skipped"},
		{name: "input closed", lines: []string{"5"}, wantSaves: 0, wantOut: "Save skipped"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, tt.lines...)
			h.c.OverwriteWarning = "Could not load test.json."

			require.NoError(t, h.c.Run())
			assert.Equal(t, tt.wantSaves, h.saves)
			assert.Contains(t, h.out.String(), "Could not load test.json.")
			assert.Contains(t, h.out.String(), tt.wantOut)
			assert.Contains(t, h.out.String(), "Goodbye!")
		})
	}
}
