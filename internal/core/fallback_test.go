package core

import (
	"context"
	"errors"
	"testing"
)

func TestRunChain(t *testing.T) {
	errFirst := errors.New("first failed")
	errFatal := errors.New("fatal")

	tests := []struct {
		name         string
		strategies   []Strategy[string]
		wantResult   string
		wantName     string
		wantFailures int
	}{
		{
			name: "First Wins",
			strategies: []Strategy[string]{
				{Name: "a", Run: func(context.Context) (string, Outcome, error) { return "ra", OutcomeSuccess, nil }},
				{Name: "b", Run: func(context.Context) (string, Outcome, error) {
					panic("must not be reached")
				}},
			},
			wantResult: "ra",
			wantName:   "a",
		},
		{
			name: "Falls Through To Second",
			strategies: []Strategy[string]{
				{Name: "a", Run: func(context.Context) (string, Outcome, error) { return "", OutcomeRetryable, errFirst }},
				{Name: "b", Run: func(context.Context) (string, Outcome, error) { return "rb", OutcomeSuccess, nil }},
			},
			wantResult: "rb",
			wantName:   "b",
		},
		{
			name: "All Fail",
			strategies: []Strategy[string]{
				{Name: "a", Run: func(context.Context) (string, Outcome, error) { return "", OutcomeRetryable, errFirst }},
				{Name: "b", Run: func(context.Context) (string, Outcome, error) { return "", OutcomeRetryable, errFatal }},
			},
			wantFailures: 2,
		},
		{
			name: "Fatal Stops The Chain",
			strategies: []Strategy[string]{
				{Name: "a", Run: func(context.Context) (string, Outcome, error) { return "", OutcomeFatal, errFatal }},
				{Name: "b", Run: func(context.Context) (string, Outcome, error) {
					panic("must not be reached")
				}},
			},
			wantFailures: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, name, failures := RunChain(context.Background(), tt.strategies)
			if result != tt.wantResult {
				t.Errorf("result = %q, want %q", result, tt.wantResult)
			}
			if name != tt.wantName {
				t.Errorf("name = %q, want %q", name, tt.wantName)
			}
			if len(failures) != tt.wantFailures {
				t.Errorf("failures = %v, want %d of them", failures, tt.wantFailures)
			}
		})
	}
}
