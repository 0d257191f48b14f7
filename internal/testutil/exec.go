package testutil

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/hbjs97/fzi/internal/cmdexec"
)

// Response represents a pre-configured command response for FakeCommander.
type Response struct {
	Output []byte
	Err    error
}

// FakeCommander returns pre-configured responses for testing.
// Responses are keyed by "name arg1 arg2 ..." format.
// If no exact match is found, it tries prefix matching.
type FakeCommander struct {
	mu sync.Mutex

	// Responses maps command strings to their responses.
	// Key format: "command arg1 arg2" (e.g., "fd --version", "git -C")
	Responses map[string]Response

	// Calls records all commands that were executed, in order.
	Calls []string

	// Argv records the unjoined argv of every call, in order.
	// Useful when arguments contain spaces (preview expressions).
	Argv [][]string

	// EnvCalls records the environment variable maps passed to
	// RunInteractive, in order.
	EnvCalls []map[string]string

	// DefaultResponse is returned when no matching response is found.
	// If nil, an error is returned for unmatched commands.
	DefaultResponse *Response
}

var _ cmdexec.Commander = (*FakeCommander)(nil)

// NewFakeCommander creates a FakeCommander with an empty response map.
func NewFakeCommander() *FakeCommander {
	return &FakeCommander{
		Responses: make(map[string]Response),
	}
}

// Register adds a response for the given command key.
func (c *FakeCommander) Register(key string, output string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Responses[key] = Response{
		Output: []byte(output),
		Err:    err,
	}
}

// Run looks up the command in Responses and returns the matching response.
func (c *FakeCommander) Run(_ context.Context, name string, args ...string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lookup(name, args)
}

// RunInteractive records the call and writes the matching response output to stdio.Out.
func (c *FakeCommander) RunInteractive(_ context.Context, stdio cmdexec.Stdio, env map[string]string, name string, args ...string) error {
	c.mu.Lock()
	c.EnvCalls = append(c.EnvCalls, env)
	out, err := c.lookup(name, args)
	c.mu.Unlock()

	if len(out) > 0 && stdio.Out != nil {
		if _, werr := stdio.Out.Write(out); werr != nil {
			return werr
		}
	}
	return err
}

func (c *FakeCommander) lookup(name string, args []string) ([]byte, error) {
	fullCmd := name
	if len(args) > 0 {
		fullCmd = name + " " + strings.Join(args, " ")
	}

	c.Calls = append(c.Calls, fullCmd)
	c.Argv = append(c.Argv, append([]string{name}, args...))

	// Exact match first.
	if resp, ok := c.Responses[fullCmd]; ok {
		return resp.Output, resp.Err
	}

	// Try prefix matching (longest prefix wins).
	bestKey := ""
	for key := range c.Responses {
		if strings.HasPrefix(fullCmd, key) && len(key) > len(bestKey) {
			bestKey = key
		}
	}
	if bestKey != "" {
		resp := c.Responses[bestKey]
		return resp.Output, resp.Err
	}

	// Default response.
	if c.DefaultResponse != nil {
		return c.DefaultResponse.Output, c.DefaultResponse.Err
	}

	return nil, fmt.Errorf("FakeCommander: no response registered for %q", fullCmd)
}

// Called returns true if a command matching the given prefix was executed.
func (c *FakeCommander) Called(prefix string) bool {
	return c.CallCount(prefix) > 0
}

// CallCount returns the number of times a command matching the given prefix was executed.
func (c *FakeCommander) CallCount(prefix string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	count := 0
	for _, call := range c.Calls {
		if strings.HasPrefix(call, prefix) {
			count++
		}
	}
	return count
}

// LastArgv returns the argv of the most recent call whose program is name, or nil.
func (c *FakeCommander) LastArgv(name string) []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := len(c.Argv) - 1; i >= 0; i-- {
		if c.Argv[i][0] == name {
			return c.Argv[i]
		}
	}
	return nil
}
