package metrics

import (
	"context"
	"io"
	"time"

	ticketusecases "github.com/bagcheck-inc/bagcheck/internal/application/ticket/usecases"
)

type instrumentedStore struct {
	next    ticketusecases.ImageStore
	metrics *Metrics
}

// InstrumentImageStore counts uploads and uploaded bytes.
func InstrumentImageStore(next ticketusecases.ImageStore, m *Metrics) ticketusecases.ImageStore {
	return &instrumentedStore{next: next, metrics: m}
}

func (s *instrumentedStore) Upload(ctx context.Context, ticketID, fileName, contentType string, r io.Reader, size int64) (*ticketusecases.StoredObject, error) {
	obj, err := s.next.Upload(ctx, ticketID, fileName, contentType, r, size)
	s.metrics.Uploads.WithLabelValues(result(err == nil)).Inc()
	if err == nil && size > 0 {
		s.metrics.UploadBytes.Add(float64(size))
	}
	return obj, err
}

func (s *instrumentedStore) Delete(ctx context.Context, key string) error {
	return s.next.Delete(ctx, key)
}

type instrumentedRenderer struct {
	next    ticketusecases.CertificateRenderer
	metrics *Metrics
}

// InstrumentRenderer times certificate rendering.
func InstrumentRenderer(next ticketusecases.CertificateRenderer, m *Metrics) ticketusecases.CertificateRenderer {
	return &instrumentedRenderer{next: next, metrics: m}
}

func (r *instrumentedRenderer) Render(ctx context.Context, data ticketusecases.CertificateData) (*ticketusecases.CertificateDocument, error) {
	start := time.Now()
	doc, err := r.next.Render(ctx, data)
	r.metrics.RenderDuration.Observe(time.Since(start).Seconds())
	r.metrics.CertificateRenders.WithLabelValues(result(err == nil)).Inc()
	return doc, err
}
