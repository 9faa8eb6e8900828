package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/streetfare/booking-api/internal/core/domain"
	"github.com/streetfare/booking-api/internal/core/ports"
)

var discardLogger = zerolog.Nop()

// ---------------------------------------------------------------------------
// In-memory stub repositories
// ---------------------------------------------------------------------------

// stubRequestRepo guards its map with a mutex and implements AcceptPending
// and CancelPending as a check-and-set under the lock, mirroring the real
// repo's single conditional update.
type stubRequestRepo struct {
	mu        sync.Mutex
	byID      map[string]*domain.TruckRequest
	createErr error
}

func newStubRequestRepo() *stubRequestRepo {
	return &stubRequestRepo{byID: make(map[string]*domain.TruckRequest)}
}

func (r *stubRequestRepo) put(req *domain.TruckRequest) {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *req
	r.byID[req.ID] = &clone
}

func (r *stubRequestRepo) get(id string) *domain.TruckRequest {
	r.mu.Lock()
	defer r.mu.Unlock()
	req, ok := r.byID[id]
	if !ok {
		return nil
	}
	clone := *req
	return &clone
}

func (r *stubRequestRepo) Create(_ context.Context, req *domain.TruckRequest) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.put(req)
	return nil
}

func (r *stubRequestRepo) FindByID(_ context.Context, id string) (*domain.TruckRequest, error) {
	req := r.get(id)
	if req == nil {
		return nil, domain.ErrRequestNotFound
	}
	return req, nil
}

func (r *stubRequestRepo) AcceptPending(_ context.Context, requestID, truckID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	req, ok := r.byID[requestID]
	if !ok {
		return domain.ErrRequestNotFound
	}
	if req.Status != domain.StatusPending {
		return domain.ErrRequestNotAvailable
	}
	req.Status = domain.StatusAccepted
	req.AcceptedTruckID = truckID
	return nil
}

func (r *stubRequestRepo) CancelPending(_ context.Context, requestID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	req, ok := r.byID[requestID]
	if !ok {
		return domain.ErrRequestNotFound
	}
	if req.Status != domain.StatusPending {
		return domain.ErrRequestNotAvailable
	}
	req.Status = domain.StatusCancelled
	return nil
}

func (r *stubRequestRepo) MarkIgnored(_ context.Context, requestID, truckID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	req, ok := r.byID[requestID]
	if !ok {
		return domain.ErrRequestNotFound
	}
	if !req.IgnoredByTruck(truckID) {
		req.IgnoredBy = append(req.IgnoredBy, truckID)
	}
	return nil
}

// ListInbox applies the same filters the real Mongo query would use.
func (r *stubRequestRepo) ListInbox(_ context.Context, truckID string, includeBlanket bool) ([]*domain.TruckRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.TruckRequest
	for _, req := range r.byID {
		if req.Status != domain.StatusPending {
			continue
		}
		if req.IgnoredByTruck(truckID) {
			continue
		}
		if req.RequestedTruckID == truckID || (includeBlanket && req.BlanketRequest) {
			clone := *req
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	return out, nil
}

func (r *stubRequestRepo) ListByBusiness(_ context.Context, businessID string) ([]*domain.TruckRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.TruckRequest
	for _, req := range r.byID {
		if req.BusinessID == businessID {
			clone := *req
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *stubRequestRepo) ListAcceptedBetween(_ context.Context, start, end time.Time) ([]*domain.TruckRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.TruckRequest
	for _, req := range r.byID {
		if req.Status != domain.StatusAccepted {
			continue
		}
		if req.StartTime.Before(start) || !req.StartTime.Before(end) {
			continue
		}
		clone := *req
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	return out, nil
}

type stubTruckRepo struct {
	byID    map[string]*domain.Truck
	byOwner map[string]*domain.Truck
	listErr error
}

func newStubTruckRepo(trucks ...*domain.Truck) *stubTruckRepo {
	r := &stubTruckRepo{
		byID:    make(map[string]*domain.Truck),
		byOwner: make(map[string]*domain.Truck),
	}
	for _, t := range trucks {
		clone := *t
		r.byID[t.ID] = &clone
		r.byOwner[t.OwnerID] = &clone
	}
	return r
}

func (r *stubTruckRepo) Create(_ context.Context, t *domain.Truck) error {
	clone := *t
	r.byID[t.ID] = &clone
	r.byOwner[t.OwnerID] = &clone
	return nil
}

func (r *stubTruckRepo) FindByID(_ context.Context, id string) (*domain.Truck, error) {
	t, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrTruckNotFound
	}
	clone := *t
	return &clone, nil
}

func (r *stubTruckRepo) FindByOwner(_ context.Context, ownerID string) (*domain.Truck, error) {
	t, ok := r.byOwner[ownerID]
	if !ok {
		return nil, domain.ErrTruckNotFound
	}
	clone := *t
	return &clone, nil
}

func (r *stubTruckRepo) ListActive(_ context.Context) ([]*domain.Truck, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	var out []*domain.Truck
	for _, t := range r.byID {
		if t.IsActive {
			clone := *t
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *stubTruckRepo) List(_ context.Context, limit int) ([]*domain.Truck, error) {
	var out []*domain.Truck
	for _, t := range r.byID {
		clone := *t
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *stubTruckRepo) SetActive(_ context.Context, id string, active bool) error {
	t, ok := r.byID[id]
	if !ok {
		return domain.ErrTruckNotFound
	}
	t.IsActive = active
	r.byOwner[t.OwnerID].IsActive = active
	return nil
}

type stubProfileRepo struct {
	byID      map[string]*domain.Profile
	createErr error
}

func newStubProfileRepo(profiles ...*domain.Profile) *stubProfileRepo {
	r := &stubProfileRepo{byID: make(map[string]*domain.Profile)}
	for _, p := range profiles {
		clone := *p
		r.byID[p.ID] = &clone
	}
	return r
}

func (r *stubProfileRepo) Create(_ context.Context, p *domain.Profile) error {
	if r.createErr != nil {
		return r.createErr
	}
	clone := *p
	r.byID[p.ID] = &clone
	return nil
}

func (r *stubProfileRepo) FindByID(_ context.Context, id string) (*domain.Profile, error) {
	p, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrProfileNotFound
	}
	clone := *p
	return &clone, nil
}

func (r *stubProfileRepo) List(_ context.Context, limit int) ([]*domain.Profile, error) {
	var out []*domain.Profile
	for _, p := range r.byID {
		clone := *p
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *stubProfileRepo) UpdateRole(_ context.Context, id, role string) error {
	p, ok := r.byID[id]
	if !ok {
		return domain.ErrProfileNotFound
	}
	p.Role = role
	return nil
}

type stubNotificationRepo struct {
	inserted  []*domain.Notification
	insertErr error
}

func (r *stubNotificationRepo) InsertMany(_ context.Context, ns []*domain.Notification) error {
	if r.insertErr != nil {
		return r.insertErr
	}
	r.inserted = append(r.inserted, ns...)
	return nil
}

func (r *stubNotificationRepo) ListByRecipient(_ context.Context, recipientID string, limit int) ([]*domain.Notification, error) {
	var out []*domain.Notification
	for _, n := range r.inserted {
		if n.RecipientID == recipientID {
			out = append(out, n)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type stubCredentialRepo struct {
	byEmail map[string]*domain.Credential
}

func newStubCredentialRepo() *stubCredentialRepo {
	return &stubCredentialRepo{byEmail: make(map[string]*domain.Credential)}
}

func (r *stubCredentialRepo) Create(_ context.Context, c *domain.Credential) error {
	if _, exists := r.byEmail[c.Email]; exists {
		return domain.ErrEmailExists
	}
	clone := *c
	r.byEmail[c.Email] = &clone
	return nil
}

func (r *stubCredentialRepo) FindByEmail(_ context.Context, email string) (*domain.Credential, error) {
	c, ok := r.byEmail[email]
	if !ok {
		return nil, domain.ErrProfileNotFound
	}
	clone := *c
	return &clone, nil
}

// stubReleaseRepo mirrors the real repo's Activate semantics: the flip is a
// single locked swap, so every interleaving leaves exactly one release active.
type stubReleaseRepo struct {
	mu   sync.Mutex
	byID map[string]*domain.Release
}

func newStubReleaseRepo() *stubReleaseRepo {
	return &stubReleaseRepo{byID: make(map[string]*domain.Release)}
}

func (r *stubReleaseRepo) Create(_ context.Context, rel *domain.Release) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *rel
	r.byID[rel.ID] = &clone
	return nil
}

func (r *stubReleaseRepo) Activate(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	target, ok := r.byID[id]
	if !ok {
		return domain.ErrReleaseNotFound
	}
	for _, rel := range r.byID {
		rel.IsActive = false
	}
	target.IsActive = true
	return nil
}

func (r *stubReleaseRepo) FindActive(_ context.Context) (*domain.Release, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rel := range r.byID {
		if rel.IsActive {
			clone := *rel
			return &clone, nil
		}
	}
	return nil, domain.ErrReleaseNotFound
}

func (r *stubReleaseRepo) List(_ context.Context, limit int) ([]*domain.Release, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Release
	for _, rel := range r.byID {
		clone := *rel
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// ---------------------------------------------------------------------------
// Side-effect stubs
// ---------------------------------------------------------------------------

// captureFanout records enqueued events instead of dispatching them.
type captureFanout struct {
	mu     sync.Mutex
	events []ports.FanoutEvent
}

func (f *captureFanout) Enqueue(event ports.FanoutEvent) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, event)
}

func (f *captureFanout) all() []ports.FanoutEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]ports.FanoutEvent, len(f.events))
	copy(out, f.events)
	return out
}

type stubEmail struct {
	sent    []sentEmail
	sendErr error
}

type sentEmail struct {
	To      []string
	Subject string
	Body    string
}

func (e *stubEmail) Send(_ context.Context, to []string, subject, body string) error {
	if e.sendErr != nil {
		return e.sendErr
	}
	e.sent = append(e.sent, sentEmail{To: to, Subject: subject, Body: body})
	return nil
}

type stubDedup struct {
	seen     map[string]bool
	checkErr error
}

func newStubDedup() *stubDedup {
	return &stubDedup{seen: make(map[string]bool)}
}

func (d *stubDedup) key(requestID string, kind domain.FanoutKind) string {
	return requestID + ":" + string(kind)
}

func (d *stubDedup) IsDuplicate(_ context.Context, requestID string, kind domain.FanoutKind) (bool, error) {
	if d.checkErr != nil {
		return false, d.checkErr
	}
	return d.seen[d.key(requestID, kind)], nil
}

func (d *stubDedup) Mark(_ context.Context, requestID string, kind domain.FanoutKind) error {
	d.seen[d.key(requestID, kind)] = true
	return nil
}
