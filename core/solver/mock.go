package solver

import "context"

// MockSolver returns a canned response, or an error, for tests.
type MockSolver struct {
	Response Response
	Err      error

	// Requests records every request seen, in order.
	Requests []Request
}

// Solve implements Solver.
func (m *MockSolver) Solve(_ context.Context, req Request) (Response, error) {
	m.Requests = append(m.Requests, req)
	if m.Err != nil {
		return Response{}, m.Err
	}
	return m.Response, nil
}
