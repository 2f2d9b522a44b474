package providers

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/sony/gobreaker"

	"github.com/weatherdesk/weatherdesk/internal/weather"
)

// newCircuit builds the per-provider circuit breaker. The trip threshold is
// well above the forecast retry budget, so a single analysis cycle can never
// open the circuit on its own.
func newCircuit(name string) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})
}

// doRequest executes the request through the circuit breaker and classifies
// transport failures into the domain error kinds. Non-2xx responses are NOT
// treated as breaker failures here; callers need the body to surface the
// upstream message.
func doRequest(ctx context.Context, client *http.Client, cb *gobreaker.CircuitBreaker, req *http.Request) (*http.Response, error) {
	req = req.WithContext(ctx)

	result, err := cb.Execute(func() (interface{}, error) {
		return client.Do(req)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%w: %v", weather.ErrNetwork, err)
		}
		return nil, classifyTransportError(err)
	}

	resp, ok := result.(*http.Response)
	if !ok {
		return nil, fmt.Errorf("%w: unexpected circuit breaker result", weather.ErrNetwork)
	}
	return resp, nil
}

// classifyTransportError folds the many shapes of net/http failures into the
// two domain kinds callers care about: timeout or not.
func classifyTransportError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", weather.ErrTimeout, err)
	}
	var nerr net.Error
	if errors.As(err, &nerr) && nerr.Timeout() {
		return fmt.Errorf("%w: %v", weather.ErrTimeout, err)
	}
	return fmt.Errorf("%w: %v", weather.ErrNetwork, err)
}
