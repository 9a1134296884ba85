// Package console is the line-oriented front-end of the store: login, menus and
// input parsing. Every action reads its arguments, calls exactly one Store
// operation and prints the result or the error.
package console

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"StoreLedger/internal/inventory"
	"StoreLedger/pkg/kit"
)

var (
	errBadNumber = fmt.Errorf("%w: not a number", inventory.ErrInvalidInput)
	errNoInput   = errors.New("input closed")
)

type Console struct {
	Store *inventory.Store
	In    io.Reader
	Out   io.Writer
	Log   *zap.Logger

	// Metrics is optional.
	Metrics *kit.Metrics

	// Save persists the store on "Save & Exit"; Location names the target in messages.
	Save     func() error
	Location string

	// OverwriteWarning is set when the existing data could not be loaded. Save then
	// runs only after the operator confirms replacing it.
	OverwriteWarning string

	// ReadPassword reads a password without echo. When nil the password is read
	// as a plain input line.
	ReadPassword func() (string, error)

	lines    *bufio.Scanner
	validate *validator.Validate
}

func (c *Console) init() {
	if c.lines == nil {
		c.lines = bufio.NewScanner(c.In)
	}
	if c.validate == nil {
		c.validate = validator.New()
	}
	if c.Log == nil {
		c.Log = zap.NewNop()
	}
}

// prompt prints msg and returns the next trimmed input line. ok is false once the
// input is exhausted.
func (c *Console) prompt(msg string) (line string, ok bool) {
	fmt.Fprint(c.Out, msg)
	if !c.lines.Scan() {
		fmt.Fprintln(c.Out)
		return "", false
	}
	return strings.TrimSpace(c.lines.Text()), true
}

func (c *Console) pause() {
	_, _ = c.prompt("\nPress Enter to continue...")
}

func (c *Console) printErr(err error) {
	fmt.Fprintf(c.Out, "Error: %v\n", err)
}

func (c *Console) observe(op string, start time.Time, err error) {
	kind := inventory.Kind(err)
	c.Metrics.Observe(op, kind, time.Since(start))

	if err != nil {
		c.Log.Info("operation rejected", zap.String("op", op), zap.String("kind", kind), zap.Error(err))
	}
}

func parseID(s string) (uint32, error) {
	v, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, errBadNumber
	}
	return uint32(v), nil
}

func parseQty(s string) (int32, error) {
	v, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		return 0, errBadNumber
	}
	return int32(v), nil
}

func parsePrice(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, errBadNumber
	}
	return v, nil
}

// optional parses s with parse unless it is empty, in which case it returns nil.
func optional[T any](s string, parse func(string) (T, error)) (*T, error) {
	if s == "" {
		return nil, nil
	}
	v, err := parse(s)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (c *Console) check(form any) error {
	err := c.validate.Struct(form)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return fmt.Errorf("%w: %s must be %s %s", inventory.ErrInvalidInput, strings.ToLower(fe.Field()), fe.Tag(), fe.Param())
	}
	return fmt.Errorf("%w: %v", inventory.ErrInvalidInput, err)
}
