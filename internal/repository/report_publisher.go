package repository

import (
	"context"

	"HurstLab/internal/domain/models"
	domrepo "HurstLab/internal/domain/repository"
	pkgkafka "HurstLab/pkg/kafka"

	"github.com/segmentio/kafka-go"
)

// KafkaReportPublisher publishes analysis reports keyed by symbol.
type KafkaReportPublisher struct {
	producer *pkgkafka.Producer
}

var _ domrepo.ReportPublisher = (*KafkaReportPublisher)(nil)

func NewKafkaReportPublisher(p *pkgkafka.Producer) *KafkaReportPublisher {
	return &KafkaReportPublisher{producer: p}
}

func (p *KafkaReportPublisher) Publish(ctx context.Context, r *models.AnalysisReport) error {
	return p.producer.Publish(ctx, []byte(r.Symbol), r,
		kafka.Header{Key: "kind", Value: []byte(r.Kind)})
}

func (p *KafkaReportPublisher) Close() error {
	return p.producer.Close()
}

// NopReportPublisher discards reports when no broker is configured.
type NopReportPublisher struct{}

func (NopReportPublisher) Publish(context.Context, *models.AnalysisReport) error { return nil }
func (NopReportPublisher) Close() error                                          { return nil }
