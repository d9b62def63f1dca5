package command

import (
	"fmt"
	"strings"
)

const DefaultMaxTokens = 4096

// Command is an ordered, shell-tagged list of argument tokens.
type Command struct {
	args      *List
	shell     Shell
	maxTokens int
}

type Option func(*options)

type options struct {
	capacity    int
	capacitySet bool
	maxTokens   int
}

// WithCapacity sets the initial token capacity. It must be positive and no
// larger than the token limit.
func WithCapacity(n int) Option {
	return func(o *options) {
		o.capacity = n
		o.capacitySet = true
	}
}

// WithMaxTokens bounds how many tokens the command may ever hold.
func WithMaxTokens(n int) Option {
	return func(o *options) { o.maxTokens = n }
}

// New creates an empty command run through shell.
func New(shell Shell, opts ...Option) (*Command, error) {
	o := options{maxTokens: DefaultMaxTokens}
	for _, opt := range opts {
		opt(&o)
	}
	if o.maxTokens <= 0 {
		return nil, fmt.Errorf("%w: max_tokens=%d", ErrAllocation, o.maxTokens)
	}
	if !o.capacitySet {
		o.capacity = min(minListCap, o.maxTokens)
	}
	if o.capacity <= 0 {
		return nil, fmt.Errorf("%w: capacity=%d", ErrAllocation, o.capacity)
	}
	if o.capacity > o.maxTokens {
		return nil, fmt.Errorf("%w: capacity=%d exceeds max_tokens=%d", ErrAllocation, o.capacity, o.maxTokens)
	}
	args, err := NewList(o.capacity)
	if err != nil {
		return nil, err
	}
	return &Command{args: args, shell: shell, maxTokens: o.maxTokens}, nil
}

// From creates a command holding tokens.
func From(shell Shell, tokens ...string) (*Command, error) {
	cmd, err := New(shell)
	if err != nil {
		return nil, err
	}
	if err := cmd.Append(tokens...); err != nil {
		cmd.Release()
		return nil, err
	}
	return cmd, nil
}

func (c *Command) Shell() Shell {
	return c.shell
}

func (c *Command) Len() int {
	if c == nil {
		return 0
	}
	return c.args.Len()
}

// Append adds tokens in order. On failure none of this call's tokens are kept.
func (c *Command) Append(tokens ...string) error {
	if c == nil || c.args == nil || c.args.released {
		return fmt.Errorf("%w: command released", ErrAllocation)
	}
	before := c.args.Len()
	if before+len(tokens) > c.maxTokens {
		return fmt.Errorf("%w: %d tokens exceed max_tokens=%d", ErrAllocation, before+len(tokens), c.maxTokens)
	}
	for _, token := range tokens {
		if err := c.args.Append(token); err != nil {
			c.args.truncate(before)
			return err
		}
	}
	return nil
}

// Tokens returns a copy of the stored tokens.
func (c *Command) Tokens() []string {
	if c == nil || c.args == nil {
		return nil
	}
	out := make([]string, c.args.Len())
	copy(out, c.args.items)
	return out
}

// Render joins every token followed by a single space, trailing space included.
func (c *Command) Render() (string, error) {
	if c == nil || c.args == nil || c.args.released {
		return "", fmt.Errorf("%w: invalid command or args", ErrRender)
	}

	var builder strings.Builder
	for i := 0; i < c.args.Len(); i++ {
		token, err := c.args.Get(i)
		if err != nil {
			return "", fmt.Errorf("%w: token %d: %v", ErrRender, i, err)
		}
		builder.WriteString(token)
		builder.WriteByte(' ')
	}
	return builder.String(), nil
}

// Release frees the tokens. The command must not be used afterwards.
func (c *Command) Release() {
	if c == nil || c.args == nil {
		return
	}
	c.args.Release()
}
