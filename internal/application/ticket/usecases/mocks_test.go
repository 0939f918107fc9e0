package usecases

import (
	"context"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/bagcheck-inc/bagcheck/internal/application/ticket/dto"
	"github.com/bagcheck-inc/bagcheck/internal/domain/ticket"
	vo "github.com/bagcheck-inc/bagcheck/internal/domain/ticket/valueobjects"
	"github.com/bagcheck-inc/bagcheck/internal/shared/logger"
)

// memoryTicketRepository stores copies of tickets so tests observe only what was written.
type memoryTicketRepository struct {
	mu      sync.Mutex
	tickets map[string]*ticket.Ticket

	CreateFunc       func(ctx context.Context, t *ticket.Ticket) error
	UpdateStatusFunc func(ctx context.Context, t *ticket.Ticket, expected vo.TicketStatus) error
	AppendImagesFunc func(ctx context.Context, ticketID string, images []*ticket.Image) error

	createCalls int
}

func newMemoryTicketRepository() *memoryTicketRepository {
	return &memoryTicketRepository{tickets: make(map[string]*ticket.Ticket)}
}

func (r *memoryTicketRepository) Create(ctx context.Context, t *ticket.Ticket) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.createCalls++
	if r.CreateFunc != nil {
		if err := r.CreateFunc(ctx, t); err != nil {
			return err
		}
	}
	r.tickets[t.ID()] = clone(t, t, t.Images(), t.PhotoRequests(), t.Certificate())
	return nil
}

func (r *memoryTicketRepository) GetByID(_ context.Context, ticketID string) (*ticket.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.tickets[ticketID]
	if !ok {
		return nil, ticket.ErrTicketNotFound
	}
	return clone(stored, stored, stored.Images(), stored.PhotoRequests(), stored.Certificate()), nil
}

func (r *memoryTicketRepository) List(_ context.Context, filter ticket.Filter) ([]*ticket.Ticket, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*ticket.Ticket
	for _, t := range r.matching(filter) {
		out = append(out, clone(t, t, t.Images(), t.PhotoRequests(), t.Certificate()))
	}
	total := int64(len(out))
	if filter.Offset >= len(out) {
		return []*ticket.Ticket{}, total, nil
	}
	out = out[filter.Offset:]
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, total, nil
}

func (r *memoryTicketRepository) CountByStatus(_ context.Context, filter ticket.Filter) (ticket.StatusCounts, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var counts ticket.StatusCounts
	for _, t := range r.matching(filter) {
		counts.Add(t.Status(), 1)
	}
	return counts, nil
}

func (r *memoryTicketRepository) matching(filter ticket.Filter) []*ticket.Ticket {
	var out []*ticket.Ticket
	for _, t := range r.tickets {
		if filter.Status != nil && t.Status() != *filter.Status {
			continue
		}
		if filter.ClientEmail != "" && t.ClientEmail() != filter.ClientEmail {
			continue
		}
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt().After(out[j].CreatedAt()) })
	return out
}

func (r *memoryTicketRepository) UpdateStatus(ctx context.Context, t *ticket.Ticket, expected vo.TicketStatus) error {
	if r.UpdateStatusFunc != nil {
		if err := r.UpdateStatusFunc(ctx, t, expected); err != nil {
			return err
		}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.tickets[t.ID()]
	if !ok {
		return ticket.ErrTicketNotFound
	}
	if stored.Status() != expected {
		return ticket.ErrStatusConflict
	}
	r.tickets[t.ID()] = clone(stored, t, stored.Images(), stored.PhotoRequests(), stored.Certificate())
	return nil
}

func (r *memoryTicketRepository) AppendImages(ctx context.Context, ticketID string, images []*ticket.Image) error {
	if r.AppendImagesFunc != nil {
		if err := r.AppendImagesFunc(ctx, ticketID, images); err != nil {
			return err
		}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.tickets[ticketID]
	if !ok {
		return ticket.ErrTicketNotFound
	}
	r.tickets[ticketID] = clone(stored, stored, append(stored.Images(), images...), stored.PhotoRequests(), stored.Certificate())
	return nil
}

func (r *memoryTicketRepository) CreatePhotoRequest(_ context.Context, pr *ticket.PhotoRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.tickets[pr.TicketID()]
	if !ok {
		return ticket.ErrTicketNotFound
	}
	r.tickets[pr.TicketID()] = clone(stored, stored, stored.Images(), append(stored.PhotoRequests(), pr), stored.Certificate())
	return nil
}

func (r *memoryTicketRepository) FulfillOldestPendingPhotoRequest(_ context.Context, ticketID string, at time.Time) (*ticket.PhotoRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.tickets[ticketID]
	if !ok {
		return nil, ticket.ErrTicketNotFound
	}
	prs := stored.PhotoRequests()
	for i, pr := range prs {
		if pr.IsPending() {
			fulfilled := ticket.ReconstructPhotoRequest(pr.ID(), pr.TicketID(), pr.Description(), vo.PhotoRequestFulfilled, pr.CreatedAt(), &at)
			prs[i] = fulfilled
			r.tickets[ticketID] = clone(stored, stored, stored.Images(), prs, stored.Certificate())
			return fulfilled, nil
		}
	}
	return nil, ticket.ErrNoPendingRequest
}

func (r *memoryTicketRepository) CreateCertificateIfAbsent(_ context.Context, c *ticket.Certificate) (*ticket.Certificate, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.tickets[c.TicketID()]
	if !ok {
		return nil, false, ticket.ErrTicketNotFound
	}
	if existing := stored.Certificate(); existing != nil {
		return existing, false, nil
	}
	r.tickets[c.TicketID()] = clone(stored, stored, stored.Images(), stored.PhotoRequests(), c)
	return c, true, nil
}

func (r *memoryTicketRepository) GetCertificateByToken(_ context.Context, token string) (*ticket.Certificate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.tickets {
		if c := t.Certificate(); c != nil && c.QRCode() == token {
			return c, nil
		}
	}
	return nil, ticket.ErrCertificateNotFound
}

func (r *memoryTicketRepository) Delete(_ context.Context, ticketID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tickets[ticketID]; !ok {
		return ticket.ErrTicketNotFound
	}
	delete(r.tickets, ticketID)
	return nil
}

func (r *memoryTicketRepository) stored(ticketID string) *ticket.Ticket {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.tickets[ticketID]
}

func (r *memoryTicketRepository) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.tickets)
}

// clone copies identity from base, scalar state from state and the given children.
func clone(base, state *ticket.Ticket, images []*ticket.Image, prs []*ticket.PhotoRequest, cert *ticket.Certificate) *ticket.Ticket {
	copied := make([]*ticket.PhotoRequest, 0, len(prs))
	for _, pr := range prs {
		copied = append(copied, ticket.ReconstructPhotoRequest(pr.ID(), pr.TicketID(), pr.Description(), pr.Status(), pr.CreatedAt(), pr.FulfilledAt()))
	}
	t, err := ticket.ReconstructTicket(
		base.ID(), base.ClientEmail(), base.Brand(), base.ItemType(),
		state.Status(), state.Result(), state.Comment(), state.ExpertName(), state.Version(),
		base.CreatedAt(), state.UpdatedAt(),
		append([]*ticket.Image(nil), images...), copied, cert,
	)
	if err != nil {
		panic(err)
	}
	return t
}

type passthroughTx struct {
	calls int
}

func (p *passthroughTx) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	p.calls++
	return fn(ctx)
}

type mockImageStore struct {
	mu       sync.Mutex
	uploaded []string
	deleted  []string

	UploadFunc func(ctx context.Context, ticketID, fileName string) (*StoredObject, error)
	DeleteFunc func(ctx context.Context, key string) error
}

func (m *mockImageStore) Upload(ctx context.Context, ticketID, fileName, contentType string, r io.Reader, size int64) (*StoredObject, error) {
	if _, err := io.ReadAll(r); err != nil {
		return nil, err
	}
	if m.UploadFunc != nil {
		obj, err := m.UploadFunc(ctx, ticketID, fileName)
		if err != nil {
			return nil, err
		}
		m.record(&m.uploaded, obj.Key)
		return obj, nil
	}
	key := fmt.Sprintf("tickets/%s/%s", ticketID, fileName)
	m.record(&m.uploaded, key)
	return &StoredObject{URL: "https://cdn.example.com/" + key, Key: key}, nil
}

func (m *mockImageStore) Delete(ctx context.Context, key string) error {
	if m.DeleteFunc != nil {
		if err := m.DeleteFunc(ctx, key); err != nil {
			return err
		}
	}
	m.record(&m.deleted, key)
	return nil
}

func (m *mockImageStore) record(list *[]string, key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	*list = append(*list, key)
}

func (m *mockImageStore) uploads() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.uploaded...)
}

func (m *mockImageStore) deletes() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.deleted...)
}

type mockInspector struct {
	InspectFunc func(data []byte) (string, error)
}

func (m *mockInspector) Inspect(data []byte) (string, error) {
	if m.InspectFunc != nil {
		return m.InspectFunc(data)
	}
	return "image/jpeg", nil
}

type mockRenderer struct {
	mu    sync.Mutex
	calls []CertificateData
	Err   error
}

func (m *mockRenderer) Render(_ context.Context, data CertificateData) (*CertificateDocument, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, data)
	if m.Err != nil {
		return nil, m.Err
	}
	return &CertificateDocument{
		Content:     []byte("%PDF-1.4 " + data.QRToken),
		ContentType: "application/pdf",
		FileName:    "certificate-" + data.TicketID + ".pdf",
	}, nil
}

type sequenceTokens struct {
	tokens []string
	next   int
}

func (s *sequenceTokens) Generate() (string, error) {
	if s.next >= len(s.tokens) {
		return "", fmt.Errorf("token sequence exhausted")
	}
	tok := s.tokens[s.next]
	s.next++
	return tok, nil
}

type mockNotifier struct {
	mu   sync.Mutex
	sent []LifecycleNotification
	Err  error
}

func (m *mockNotifier) Dispatch(_ context.Context, n LifecycleNotification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, n)
	return m.Err
}

func (m *mockNotifier) notifications() []LifecycleNotification {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]LifecycleNotification(nil), m.sent...)
}

type mockLocker struct {
	LockFunc func(ctx context.Context, ticketID string) (func(), error)
	locked   int
	unlocked int
}

func (m *mockLocker) Lock(ctx context.Context, ticketID string) (func(), error) {
	if m.LockFunc != nil {
		return m.LockFunc(ctx, ticketID)
	}
	m.locked++
	return func() { m.unlocked++ }, nil
}

type memoryIdempotencyStore struct {
	mu     sync.Mutex
	values map[string]string
}

func newMemoryIdempotencyStore() *memoryIdempotencyStore {
	return &memoryIdempotencyStore{values: make(map[string]string)}
}

func (m *memoryIdempotencyStore) Reserve(_ context.Context, key string, _ time.Duration) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if v, ok := m.values[key]; ok {
		return v, false, nil
	}
	m.values[key] = ""
	return "", true, nil
}

func (m *memoryIdempotencyStore) Complete(_ context.Context, key, value string, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *memoryIdempotencyStore) Release(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}

type countingObserver struct {
	transitions []string
}

func (o *countingObserver) ObserveTransition(from, to vo.TicketStatus) {
	o.transitions = append(o.transitions, from.String()+"->"+to.String())
}

// harness wires every lifecycle use case against in-memory collaborators.
type harness struct {
	repo      *memoryTicketRepository
	tx        *passthroughTx
	store     *mockImageStore
	inspector *mockInspector
	renderer  *mockRenderer
	tokens    *sequenceTokens
	notifier  *mockNotifier
	locker    *mockLocker
	idem      *memoryIdempotencyStore
	observer  *countingObserver
	settings  LifecycleSettings
	log       logger.Interface
}

func newHarness() *harness {
	return &harness{
		repo:      newMemoryTicketRepository(),
		tx:        &passthroughTx{},
		store:     &mockImageStore{},
		inspector: &mockInspector{},
		renderer:  &mockRenderer{},
		tokens:    &sequenceTokens{tokens: []string{"Tok3nAAAAAAAAAA1", "Tok3nAAAAAAAAAA2", "Tok3nAAAAAAAAAA3", "Tok3nAAAAAAAAAA4"}},
		notifier:  &mockNotifier{},
		locker:    &mockLocker{},
		idem:      newMemoryIdempotencyStore(),
		observer:  &countingObserver{},
		settings: LifecycleSettings{
			MaxFiles:          3,
			MaxFileBytes:      1024,
			DefaultBrand:      "Designer Bag",
			DefaultItemType:   "Bag",
			DefaultExpertName: "BagCheck Expert",
			URLs:              dto.URLBuilder{BaseURL: "https://bagcheck.example.com"},
		},
		log: logger.NewNopLogger(),
	}
}

func (h *harness) deps() LifecycleDeps {
	return LifecycleDeps{
		Repo:     h.repo,
		Tx:       h.tx,
		Locker:   h.locker,
		Notifier: h.notifier,
		Observer: h.observer,
		Logger:   h.log,
		Settings: h.settings,
	}
}

func (h *harness) submit() *SubmitTicketUseCase {
	return NewSubmitTicketUseCase(h.repo, h.store, h.inspector, h.idem, h.settings, h.log)
}

func (h *harness) complete() *CompleteTicketUseCase {
	return NewCompleteTicketUseCase(h.deps(), NewCertificateIssuer(h.repo, h.renderer, h.tokens, h.settings, h.log))
}

func (h *harness) requestPhotos() *RequestPhotosUseCase {
	return NewRequestPhotosUseCase(h.deps())
}

func (h *harness) uploadAdditional() *UploadAdditionalPhotosUseCase {
	return NewUploadAdditionalPhotosUseCase(h.deps(), h.store, h.inspector)
}

func (h *harness) startReview() *StartReviewUseCase {
	return NewStartReviewUseCase(h.deps())
}

func (h *harness) getTicket() *GetTicketUseCase {
	return NewGetTicketUseCase(h.repo, h.settings.URLs, h.log)
}

func (h *harness) updateStatus() *UpdateTicketStatusUseCase {
	return NewUpdateTicketStatusUseCase(h.startReview(), h.requestPhotos(), h.complete(), h.getTicket())
}

func jpeg(name string) ImageFile {
	return ImageFile{Name: name, Data: []byte("\xff\xd8\xff\xe0 fake jpeg " + name)}
}

// seedTicket submits a ticket with n images and returns its ID.
func (h *harness) seedTicket(n int) string {
	files := make([]ImageFile, 0, n)
	for i := 0; i < n; i++ {
		files = append(files, jpeg(fmt.Sprintf("photo-%d.jpg", i)))
	}
	res, err := h.submit().Execute(context.Background(), SubmitTicketCommand{
		ClientEmail: "a@b.com",
		Files:       files,
	})
	if err != nil {
		panic(err)
	}
	return res.Ticket.ID
}
