package server

import (
	"context"

	"github.com/segmentio/kafka-go"
)

const ReportTopic = "payid_validation_report"

type KWriter struct {
	w *kafka.Writer
}

func NewKWriter(topic string, uri string) (*KWriter, error) {
	w := &kafka.Writer{
		Addr:     kafka.TCP(uri),
		Topic:    topic,
		Balancer: &kafka.LeastBytes{},
	}

	return &KWriter{
		w: w,
	}, nil
}

func (kw *KWriter) Write(body []byte) error {
	return kw.w.WriteMessages(
		context.Background(),
		kafka.Message{
			Value: body,
		},
	)
}

func (kw *KWriter) Close() {
	if err := kw.w.Close(); err != nil {
		log.Warn("close kafka writer", "err", err)
	}
}
