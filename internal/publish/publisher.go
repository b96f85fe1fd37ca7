package publish

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/umati-tools/machineid-publisher/pkg/mqtt"
)

// Status is the outcome of one machine's publish
type Status string

const (
	// StatusSuccess means the payload reached the broker (or would have,
	// in dry-run)
	StatusSuccess Status = "success"
	// StatusFailed means the payload could not be published
	StatusFailed Status = "failed"
)

// Result records the outcome of one machine in a run. Body always carries
// the final publish body so dry-run output can be inspected.
type Result struct {
	MachineType  string
	Topic        string
	Status       Status
	AttemptsUsed int
	Body         []byte
	Err          error
}

// Summary aggregates a run's results
type Summary struct {
	RunID     string
	Total     int
	Succeeded int
	Failed    int
}

// AllSucceeded reports whether every machine in the run published
func (s Summary) AllSucceeded() bool {
	return s.Failed == 0
}

// Summarize counts outcomes over a result sequence
func Summarize(runID string, results []Result) Summary {
	summary := Summary{RunID: runID, Total: len(results)}
	for _, r := range results {
		if r.Status == StatusSuccess {
			summary.Succeeded++
		} else {
			summary.Failed++
		}
	}
	return summary
}

// Publisher publishes one payload per configured machine, in order, over a
// single broker connection
type Publisher struct {
	cfg       *Config
	source    PayloadSource
	connector mqtt.Connector
	logger    *slog.Logger
	runID     string

	// sleep is swapped out in tests to avoid real retry delays
	sleep func(time.Duration)
}

// New creates a publisher for cfg
func New(cfg *Config, source PayloadSource, connector mqtt.Connector, logger *slog.Logger) *Publisher {
	return &Publisher{
		cfg:       cfg,
		source:    source,
		connector: connector,
		logger:    logger,
		runID:     uuid.NewString(),
		sleep:     time.Sleep,
	}
}

// RunID identifies this publisher's run in logs and summaries
func (p *Publisher) RunID() string { return p.runID }

// Run processes every configured machine in listed order and returns one
// Result per machine. A failing machine never prevents the machines after
// it from being processed; only a connection failure aborts the run.
//
// In dry-run mode no broker connection is established and every publish is
// a no-op recorded as one successful attempt.
func (p *Publisher) Run(ctx context.Context, dryRun bool) ([]Result, error) {
	var conn mqtt.Connection
	if !dryRun {
		connectCtx, cancel := context.WithTimeout(ctx, p.cfg.GlobalSettings.PublishTimeoutDuration())
		c, err := p.connector.Connect(connectCtx)
		cancel()
		if err != nil {
			return nil, fmt.Errorf("failed to connect to MQTT broker: %w", err)
		}
		conn = c
		defer conn.Disconnect()
	}

	p.logger.Info("Starting publish run",
		"run_id", p.runID,
		"machines", len(p.cfg.Machines),
		"dry_run", dryRun)

	results := make([]Result, 0, len(p.cfg.Machines))
	for i, binding := range p.cfg.Machines {
		p.logger.Debug("Processing machine",
			"machine_type", binding.Type,
			"position", fmt.Sprintf("%d/%d", i+1, len(p.cfg.Machines)))
		results = append(results, p.publishOne(ctx, conn, binding, dryRun))
	}

	return results, nil
}

func (p *Publisher) publishOne(ctx context.Context, conn mqtt.Connection, binding MachineBinding, dryRun bool) Result {
	result := Result{MachineType: binding.Type, Topic: binding.Topic, Status: StatusFailed}

	payload, err := p.source.Payload(binding.Type)
	if err != nil {
		result.Err = err
		p.logger.Error("No payload for machine", "machine_type", binding.Type, "error", err)
		return result
	}

	body, err := ResolveBody(binding.Topic, payload)
	if err != nil {
		result.Err = err
		p.logger.Error("Failed to resolve publish body", "machine_type", binding.Type, "error", err)
		return result
	}
	result.Body = body

	qos := binding.EffectiveQoS(p.cfg.MQTTBroker.QoS)
	retain := binding.EffectiveRetain(p.cfg.MQTTBroker.Retain)

	if dryRun {
		result.Status = StatusSuccess
		result.AttemptsUsed = 1
		p.logger.Info("Would publish",
			"machine_type", binding.Type,
			"topic", binding.Topic,
			"qos", qos,
			"retain", retain,
			"body", string(body))
		return result
	}

	totalAttempts := p.cfg.GlobalSettings.RetryAttempts + 1
	timeout := p.cfg.GlobalSettings.PublishTimeoutDuration()
	delay := p.cfg.GlobalSettings.RetryDelayDuration()

	var lastErr error
	for attempt := 1; attempt <= totalAttempts; attempt++ {
		attemptCtx, cancel := context.WithTimeout(ctx, timeout)
		err := conn.Publish(attemptCtx, binding.Topic, qos, retain, body)
		cancel()

		if err == nil {
			result.Status = StatusSuccess
			result.AttemptsUsed = attempt
			p.logger.Info("Published machine payload",
				"machine_type", binding.Type,
				"topic", binding.Topic,
				"attempt", attempt)
			return result
		}

		lastErr = err
		p.logger.Warn("Publish attempt failed",
			"machine_type", binding.Type,
			"topic", binding.Topic,
			"attempt", fmt.Sprintf("%d/%d", attempt, totalAttempts),
			"error", err)

		if attempt < totalAttempts {
			p.sleep(delay)
		}
	}

	result.AttemptsUsed = totalAttempts
	result.Err = lastErr
	p.logger.Error("Giving up on machine",
		"machine_type", binding.Type,
		"topic", binding.Topic,
		"attempts", totalAttempts,
		"error", lastErr)
	return result
}
