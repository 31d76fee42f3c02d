package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"focusos/internal/logger"
)

// ErrLLMOutputInvalid means the reply was not JSON or broke its contract.
var ErrLLMOutputInvalid = errors.New("LLM output invalid")

// checker is implemented by contracts with rules struct tags cannot express.
type checker interface {
	Check() error
}

// Gateway turns a prompt into a validated value. Nothing unvalidated leaves it.
type Gateway struct {
	client   Client
	validate *validator.Validate
	timeout  time.Duration
	logger   *logger.Logger
}

func NewGateway(client Client, timeout time.Duration, logger *logger.Logger) *Gateway {
	return &Gateway{
		client:   client,
		validate: validator.New(),
		timeout:  timeout,
		logger:   logger,
	}
}

// Generate calls the model and decodes its reply into out, which must be a pointer.
func (g *Gateway) Generate(ctx context.Context, prompt string, out interface{}) error {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	start := time.Now()
	reply, err := g.client.Complete(ctx, prompt)
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("llm call: %w", ctx.Err())
		}
		return fmt.Errorf("llm call: %w", err)
	}
	g.logger.Debugf("LLM replied in %s (%d bytes)", time.Since(start).Round(time.Millisecond), len(reply))

	if err := g.decode(reply, out); err != nil {
		g.logger.Warnf("Rejected LLM reply: %v", err)
		return fmt.Errorf("%w: %v", ErrLLMOutputInvalid, err)
	}
	return nil
}

func (g *Gateway) decode(reply string, out interface{}) error {
	dec := json.NewDecoder(strings.NewReader(StripFences(reply)))
	dec.DisallowUnknownFields()
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return errors.New("trailing content after JSON value")
	}

	if err := g.validateValue(reflect.ValueOf(out)); err != nil {
		return err
	}
	if c, ok := out.(checker); ok {
		return c.Check()
	}
	return nil
}

// validateValue runs struct validation on a struct or on every element of a slice.
func (g *Gateway) validateValue(v reflect.Value) error {
	for v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return errors.New("null value")
		}
		v = v.Elem()
	}

	switch v.Kind() {
	case reflect.Struct:
		return g.validate.Struct(v.Addr().Interface())
	case reflect.Slice:
		if v.IsNil() {
			return errors.New("expected an array")
		}
		for i := 0; i < v.Len(); i++ {
			if err := g.validateValue(v.Index(i).Addr()); err != nil {
				return fmt.Errorf("item %d: %w", i, err)
			}
		}
	}
	return nil
}

// StripFences removes a surrounding markdown code fence if the model added one.
func StripFences(reply string) string {
	s := strings.TrimSpace(reply)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	} else {
		s = strings.TrimPrefix(s, "json")
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
