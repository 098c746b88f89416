package main

import (
	"context"
	"encoding/json"
	"os"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	lambdasdk "github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/aws/aws-sdk-go-v2/service/lambda/types"
	"golang.org/x/sync/errgroup"
)

const (
	// warmupSource marks scheduled keep-warm events.
	warmupSource = "warmup"

	// warmupHold keeps this instance busy long enough that concurrent
	// pings land on distinct instances.
	warmupHold = 75 * time.Millisecond
)

// WarmupEvent is the scheduled keep-warm payload. Concurrency asks this
// instance to spin up that many additional warm instances.
type WarmupEvent struct {
	Source      string `json:"source"`
	Concurrency int    `json:"concurrency"`
}

// WarmupResponse reports how many instances a warmup event reached.
type WarmupResponse struct {
	Status          string `json:"status"`
	InstancesWarmed int    `json:"instancesWarmed"`
}

// ParseWarmupEvent reports whether event is a warmup ping rather than a
// translation request.
func ParseWarmupEvent(event json.RawMessage) (WarmupEvent, bool) {
	var w WarmupEvent
	if err := json.Unmarshal(event, &w); err != nil || w.Source != warmupSource {
		return WarmupEvent{}, false
	}
	return w, true
}

// HandleWarmup answers a warmup ping, optionally fanning out async
// self-invocations to hold extra instances warm.
func HandleWarmup(ctx context.Context, w WarmupEvent) (WarmupResponse, error) {
	warmed := 1
	if w.Concurrency > 0 {
		if err := selfInvoke(ctx, w.Concurrency); err == nil {
			warmed += w.Concurrency
		}
	}

	time.Sleep(warmupHold)

	return WarmupResponse{Status: "warm", InstancesWarmed: warmed}, nil
}

// selfInvoke asynchronously invokes this function count times. Child events
// carry zero concurrency so they cannot recurse.
func selfInvoke(ctx context.Context, count int) error {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return err
	}
	client := lambdasdk.NewFromConfig(awsCfg)
	functionName := os.Getenv("AWS_LAMBDA_FUNCTION_NAME")

	payload, err := json.Marshal(WarmupEvent{Source: warmupSource})
	if err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < count; i++ {
		g.Go(func() error {
			_, err := client.Invoke(ctx, &lambdasdk.InvokeInput{
				FunctionName:   aws.String(functionName),
				InvocationType: types.InvocationTypeEvent,
				Payload:        payload,
			})
			return err
		})
	}
	return g.Wait()
}
