// Package subscriber provisions fee configuration received over NATS.
package subscriber

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/akashipov/feeservice/internal/feeconfig"
	"github.com/akashipov/feeservice/internal/metrics"
	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

const DefaultSubject = "fees.configuration"

type Subscriber struct {
	Store   feeconfig.Replacer
	Log     *zap.SugaredLogger
	Timeout time.Duration
}

type payload struct {
	FeeConfigurationSpec string `json:"FeeConfigurationSpec"`
}

// Subscribe registers the subscriber on subject. Messages carry either the
// raw configuration text or {"FeeConfigurationSpec": "..."}.
func (s *Subscriber) Subscribe(nc *nats.Conn, subject string) (*nats.Subscription, error) {
	sub, err := nc.Subscribe(subject, s.Handle)
	if err != nil {
		return nil, fmt.Errorf("Problem with subscription to '%s': %w", subject, err)
	}
	s.Log.Infof("Subscribed to '%s'", subject)
	return sub, nil
}

func (s *Subscriber) Handle(m *nats.Msg) {
	ctx := context.Background()
	if s.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}
	n, err := s.HandleData(ctx, m.Data)
	reply := fmt.Sprintf("applied %d", n)
	if err != nil {
		metrics.ConfigurationUpdates.WithLabelValues("nats", "rejected").Inc()
		s.Log.Errorf("Some error with applying fee configuration: %s", err.Error())
		reply = "error: " + err.Error()
	} else {
		metrics.ConfigurationUpdates.WithLabelValues("nats", "applied").Inc()
		s.Log.Infof("Fee configuration with %d specifications was applied", n)
	}
	if m.Reply != "" {
		err = m.Respond([]byte(reply))
		if err != nil {
			s.Log.Warnf("Problem with reply to '%s': %s", m.Reply, err.Error())
		}
	}
}

func (s *Subscriber) HandleData(ctx context.Context, data []byte) (int, error) {
	return feeconfig.Apply(ctx, s.Store, Text(data))
}

// Text extracts the configuration text from a message body.
func Text(data []byte) string {
	var p payload
	if json.Unmarshal(data, &p) == nil && p.FeeConfigurationSpec != "" {
		return p.FeeConfigurationSpec
	}
	return string(data)
}
