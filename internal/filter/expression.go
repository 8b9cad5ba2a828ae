package filter

import (
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"

	"github.com/jaylee/storepulse/internal/contracts"
)

var (
	// celEnv is the shared CEL environment; thread-safe and reusable.
	celEnv     *cel.Env
	celEnvOnce sync.Once
	celEnvErr  error
)

func getCELEnv() (*cel.Env, error) {
	celEnvOnce.Do(func() {
		celEnv, celEnvErr = cel.NewEnv(
			cel.Variable("order", cel.DynType),
		)
	})
	return celEnv, celEnvErr
}

// Expression is a compiled CEL (Common Expression Language) predicate over
// a single order row. The expression sees one variable, `order`, with the
// row's JSON field names:
//
//   - order.category == "Books"
//   - order.revenue > 50.0 && order.region in ["EU", "US"]
//   - order.channel != "marketplace"
//
// Compilation happens once in New; Matches only evaluates.
type Expression struct {
	source string
	prg    cel.Program
}

// New compiles a CEL predicate. An empty source yields a nil Expression,
// which Apply treats as "match everything". Non-boolean expressions are
// rejected at compile time.
func New(source string) (*Expression, error) {
	if source == "" {
		return nil, nil
	}

	env, err := getCELEnv()
	if err != nil {
		return nil, fmt.Errorf("cel environment: %w", err)
	}

	ast, issues := env.Compile(source)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compile expression: %w", issues.Err())
	}

	prg, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("build program: %w", err)
	}

	return &Expression{source: source, prg: prg}, nil
}

// Source returns the original expression text.
func (e *Expression) Source() string {
	return e.source
}

// Matches evaluates the predicate against one order row.
func (e *Expression) Matches(o *contracts.OrderRecord) (bool, error) {
	out, _, err := e.prg.Eval(map[string]interface{}{
		"order": map[string]interface{}{
			"order_id":    o.OrderID,
			"order_date":  o.OrderDate,
			"customer_id": o.CustomerID,
			"revenue":     o.Revenue,
			"category":    o.Category,
			"region":      o.Region,
			"channel":     o.Channel,
		},
	})
	if err != nil {
		return false, fmt.Errorf("eval expression: %w", err)
	}

	result, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("expression must return boolean, got %T", out.Value())
	}

	return result, nil
}
