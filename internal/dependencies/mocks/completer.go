package mocks

import (
	"context"
	"errors"
	"sync"
)

// ErrNoScriptedResponse is returned when MockCompleter has nothing queued
var ErrNoScriptedResponse = errors.New("no scripted completion")

// MockCompleter returns scripted completions and records the prompts it saw
type MockCompleter struct {
	mu        sync.Mutex
	responses []string
	errs      []error
	prompts   []string

	// Block, when set, makes Complete wait until it is closed or ctx ends
	Block chan struct{}
}

// NewMockCompleter creates a MockCompleter with optional queued responses
func NewMockCompleter(responses ...string) *MockCompleter {
	return &MockCompleter{responses: responses}
}

// QueueResponse adds a completion to return
func (c *MockCompleter) QueueResponse(text string) {
	c.mu.Lock()
	c.responses = append(c.responses, text)
	c.mu.Unlock()
}

// QueueError makes the next call fail with err
func (c *MockCompleter) QueueError(err error) {
	c.mu.Lock()
	c.errs = append(c.errs, err)
	c.mu.Unlock()
}

// Prompts returns every prompt received so far
func (c *MockCompleter) Prompts() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.prompts...)
}

// Complete pops a queued error, then a queued response
func (c *MockCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	c.mu.Lock()
	c.prompts = append(c.prompts, prompt)
	block := c.Block
	c.mu.Unlock()

	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.errs) > 0 {
		err := c.errs[0]
		c.errs = c.errs[1:]
		return "", err
	}
	if len(c.responses) == 0 {
		return "", ErrNoScriptedResponse
	}
	text := c.responses[0]
	c.responses = c.responses[1:]
	return text, nil
}
