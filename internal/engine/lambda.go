package engine

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	lambdasdk "github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/aws/aws-sdk-go-v2/service/lambda/types"

	"github.com/mutarjim/translation-service/internal/lang"
)

// translatorRequest is the request format for translator Lambdas (chunked
// mode).
type translatorRequest struct {
	Chunks [][]string `json:"chunks"`
}

// translatorResponse is the response format from translator Lambdas
// (chunked mode).
type translatorResponse struct {
	Translations [][]string `json:"translations"`
	Error        string     `json:"error,omitempty"`
}

// lambdaInvoker is the subset of the Lambda client the engine uses.
// *lambdasdk.Client implements this implicitly; tests inject fakes.
type lambdaInvoker interface {
	Invoke(ctx context.Context, params *lambdasdk.InvokeInput, optFns ...func(*lambdasdk.Options)) (*lambdasdk.InvokeOutput, error)
}

var _ lambdaInvoker = (*lambdasdk.Client)(nil)

// Lambda translates by invoking per-direction AWS Lambda functions that host
// the seq2seq translation models.
type Lambda struct {
	client      lambdaInvoker
	environment string
	functions   map[lang.Direction]string
}

var _ Engine = (*Lambda)(nil)

// LambdaOption configures a Lambda engine.
type LambdaOption func(*Lambda)

// WithEnvironment sets the deploy environment used in default function
// names ("{environment}-translator-{direction}").
func WithEnvironment(env string) LambdaOption {
	return func(e *Lambda) {
		if env != "" {
			e.environment = env
		}
	}
}

// WithFunctionNames overrides the translator function name per direction.
func WithFunctionNames(functions map[lang.Direction]string) LambdaOption {
	return func(e *Lambda) {
		for dir, name := range functions {
			if name != "" {
				e.functions[dir] = name
			}
		}
	}
}

// WithInvoker sets a custom Lambda client (for testing).
func WithInvoker(client lambdaInvoker) LambdaOption {
	return func(e *Lambda) {
		e.client = client
	}
}

// NewLambda creates a Lambda engine. Unless WithInvoker is given, the AWS
// client is built from the default config chain.
func NewLambda(ctx context.Context, opts ...LambdaOption) (*Lambda, error) {
	e := &Lambda{
		environment: "dev",
		functions:   make(map[lang.Direction]string),
	}
	for _, opt := range opts {
		opt(e)
	}

	if e.client == nil {
		cfg, err := config.LoadDefaultConfig(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to load AWS config: %w", err)
		}
		e.client = lambdasdk.NewFromConfig(cfg)
	}

	return e, nil
}

// Name identifies the engine.
func (e *Lambda) Name() string {
	return "lambda"
}

// Translate invokes the translator function for the direction with a single
// one-text chunk and unwraps the result.
func (e *Lambda) Translate(ctx context.Context, text string, direction lang.Direction) (string, error) {
	functionName, err := e.functionFor(direction)
	if err != nil {
		return "", err
	}

	payload, err := json.Marshal(translatorRequest{Chunks: [][]string{{text}}})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	result, err := e.client.Invoke(ctx, &lambdasdk.InvokeInput{
		FunctionName: aws.String(functionName),
		Payload:      payload,
	})
	if err != nil {
		return "", classifyLambdaError(fmt.Errorf("failed to invoke %s: %w", functionName, err))
	}

	// Check for Lambda errors
	if result.FunctionError != nil {
		return "", fmt.Errorf("lambda error from %s: %s: %w", functionName, aws.ToString(result.FunctionError), ErrUnavailable)
	}

	// Parse response
	var resp translatorResponse
	if err := json.Unmarshal(result.Payload, &resp); err != nil {
		return "", fmt.Errorf("failed to parse response from %s: %w", functionName, err)
	}

	if resp.Error != "" {
		return "", fmt.Errorf("translator error: %s", resp.Error)
	}

	if len(resp.Translations) != 1 || len(resp.Translations[0]) != 1 {
		return "", fmt.Errorf("unexpected translation shape from %s: %d chunks", functionName, len(resp.Translations))
	}

	return resp.Translations[0][0], nil
}

// functionFor resolves the translator function name for a direction:
// the configured override if present, otherwise the environment-prefixed
// default.
func (e *Lambda) functionFor(direction lang.Direction) (string, error) {
	if !direction.Valid() {
		return "", fmt.Errorf("direction %q: %w", direction, lang.ErrUnsupportedDirection)
	}
	if name, ok := e.functions[direction]; ok {
		return name, nil
	}
	return fmt.Sprintf("%s-translator-%s", e.environment, direction), nil
}

// classifyLambdaError maps AWS Lambda errors onto the engine sentinels.
func classifyLambdaError(err error) error {
	var tooMany *types.TooManyRequestsException
	if errors.As(err, &tooMany) {
		return fmt.Errorf("%s: %w", tooMany.ErrorMessage(), ErrRateLimit)
	}

	var svcErr *types.ServiceException
	if errors.As(err, &svcErr) {
		return fmt.Errorf("%s: %w", svcErr.ErrorMessage(), ErrUnavailable)
	}

	var notFound *types.ResourceNotFoundException
	if errors.As(err, &notFound) {
		return fmt.Errorf("%s: %w", notFound.ErrorMessage(), ErrBadRequest)
	}

	var badContent *types.InvalidRequestContentException
	if errors.As(err, &badContent) {
		return fmt.Errorf("%s: %w", badContent.ErrorMessage(), ErrBadRequest)
	}

	var tooLarge *types.RequestTooLargeException
	if errors.As(err, &tooLarge) {
		return fmt.Errorf("%s: %w", tooLarge.ErrorMessage(), ErrBadRequest)
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("request timed out: %w", ErrTimeout)
	}

	return err
}
