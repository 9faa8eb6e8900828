package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/streetfare/booking-api/internal/core/domain"
	"github.com/streetfare/booking-api/internal/core/ports"
)

func businessCaller(id string) ports.Caller {
	return ports.Caller{ProfileID: id, Role: domain.RoleBusinessOwner}
}

func truckCaller(id string) ports.Caller {
	return ports.Caller{ProfileID: id, Role: domain.RoleTruckOwner}
}

func adminCaller() ports.Caller {
	return ports.Caller{ProfileID: "admin_1", Role: domain.RoleAdmin}
}

func blanketInput(caller ports.Caller) ports.CreateRequestInput {
	start := time.Now().Add(24 * time.Hour)
	return ports.CreateRequestInput{
		Caller:         caller,
		BlanketRequest: true,
		StartTime:      start,
		EndTime:        start.Add(3 * time.Hour),
		LocationName:   "Main St Plaza",
	}
}

// ---------------------------------------------------------------------------
// Create
// ---------------------------------------------------------------------------

func TestRequestService_Create_Blanket(t *testing.T) {
	repo := newStubRequestRepo()
	fanout := &captureFanout{}
	svc := NewRequestService(repo, newStubTruckRepo(), fanout, discardLogger)

	created, err := svc.Create(context.Background(), blanketInput(businessCaller("biz_1")))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if created.Status != domain.StatusPending {
		t.Errorf("new request must be pending, got %q", created.Status)
	}
	if created.BusinessID != "biz_1" {
		t.Errorf("business_id = %q, want biz_1", created.BusinessID)
	}
	if created.ID == "" {
		t.Error("id must be assigned")
	}

	events := fanout.all()
	if len(events) != 1 {
		t.Fatalf("expected 1 fan-out event, got %d", len(events))
	}
	if events[0].Kind != domain.FanoutNewRequest || events[0].RequestID != created.ID {
		t.Errorf("unexpected fan-out event: %+v", events[0])
	}
}

func TestRequestService_Create_BlanketDiscardsTruckID(t *testing.T) {
	repo := newStubRequestRepo()
	svc := NewRequestService(repo, newStubTruckRepo(), &captureFanout{}, discardLogger)

	input := blanketInput(businessCaller("biz_1"))
	input.RequestedTruckID = "t_ignored"

	created, err := svc.Create(context.Background(), input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.RequestedTruckID != "" {
		t.Errorf("blanket request must discard the supplied truck id, got %q", created.RequestedTruckID)
	}
	if !created.BlanketRequest {
		t.Error("blanket flag must survive")
	}
}

func TestRequestService_Create_SpecificRequiresExistingTruck(t *testing.T) {
	repo := newStubRequestRepo()
	svc := NewRequestService(repo, newStubTruckRepo(), &captureFanout{}, discardLogger)

	input := blanketInput(businessCaller("biz_1"))
	input.BlanketRequest = false
	input.RequestedTruckID = "nope"

	_, err := svc.Create(context.Background(), input)
	if !errors.Is(err, domain.ErrTruckNotFound) {
		t.Fatalf("expected ErrTruckNotFound, got %v", err)
	}
}

func TestRequestService_Create_NeitherTargetNorBlanket(t *testing.T) {
	svc := NewRequestService(newStubRequestRepo(), newStubTruckRepo(), &captureFanout{}, discardLogger)

	input := blanketInput(businessCaller("biz_1"))
	input.BlanketRequest = false

	_, err := svc.Create(context.Background(), input)
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestRequestService_Create_EndBeforeStart(t *testing.T) {
	svc := NewRequestService(newStubRequestRepo(), newStubTruckRepo(), &captureFanout{}, discardLogger)

	input := blanketInput(businessCaller("biz_1"))
	input.EndTime = input.StartTime.Add(-time.Hour)

	_, err := svc.Create(context.Background(), input)
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestRequestService_Create_AdminMustNameBusiness(t *testing.T) {
	svc := NewRequestService(newStubRequestRepo(), newStubTruckRepo(), &captureFanout{}, discardLogger)

	_, err := svc.Create(context.Background(), blanketInput(adminCaller()))
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for admin without business_id, got %v", err)
	}

	input := blanketInput(adminCaller())
	input.BusinessID = "biz_7"
	created, err := svc.Create(context.Background(), input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.BusinessID != "biz_7" {
		t.Errorf("business_id = %q, want biz_7", created.BusinessID)
	}
}

func TestRequestService_Create_BusinessCannotActForAnother(t *testing.T) {
	svc := NewRequestService(newStubRequestRepo(), newStubTruckRepo(), &captureFanout{}, discardLogger)

	input := blanketInput(businessCaller("biz_1"))
	input.BusinessID = "biz_2"

	_, err := svc.Create(context.Background(), input)
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestRequestService_Create_TruckOwnerForbidden(t *testing.T) {
	svc := NewRequestService(newStubRequestRepo(), newStubTruckRepo(), &captureFanout{}, discardLogger)

	_, err := svc.Create(context.Background(), blanketInput(truckCaller("owner_1")))
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestRequestService_Create_RepoErrorSkipsFanout(t *testing.T) {
	repo := newStubRequestRepo()
	repo.createErr = errors.New("db unavailable")
	fanout := &captureFanout{}
	svc := NewRequestService(repo, newStubTruckRepo(), fanout, discardLogger)

	_, err := svc.Create(context.Background(), blanketInput(businessCaller("biz_1")))
	if err == nil {
		t.Fatal("expected error when repo fails")
	}
	if len(fanout.all()) != 0 {
		t.Error("fan-out must not fire for an uncommitted request")
	}
}

// ---------------------------------------------------------------------------
// Accept
// ---------------------------------------------------------------------------

func seedPending(repo *stubRequestRepo, id string, blanket bool, truckID string) *domain.TruckRequest {
	start := time.Now().Add(24 * time.Hour)
	req := &domain.TruckRequest{
		ID:               id,
		BusinessID:       "biz_1",
		BlanketRequest:   blanket,
		RequestedTruckID: truckID,
		StartTime:        start,
		EndTime:          start.Add(2 * time.Hour),
		LocationName:     "Main St Plaza",
		Status:           domain.StatusPending,
		CreatedAt:        time.Now().UTC(),
	}
	repo.put(req)
	return req
}

func TestRequestService_Accept_Success(t *testing.T) {
	repo := newStubRequestRepo()
	seedPending(repo, "r1", true, "")
	trucks := newStubTruckRepo(&domain.Truck{ID: "t1", OwnerID: "owner_1", IsActive: true})
	fanout := &captureFanout{}
	svc := NewRequestService(repo, trucks, fanout, discardLogger)

	accepted, err := svc.Accept(context.Background(), ports.ActAsTruckInput{
		Caller:    truckCaller("owner_1"),
		RequestID: "r1",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if accepted.Status != domain.StatusAccepted {
		t.Errorf("status = %q, want accepted", accepted.Status)
	}
	if accepted.AcceptedTruckID != "t1" {
		t.Errorf("accepted_truck_id = %q, want t1", accepted.AcceptedTruckID)
	}

	stored := repo.get("r1")
	if stored.Status != domain.StatusAccepted {
		t.Errorf("stored status = %q, want accepted", stored.Status)
	}

	events := fanout.all()
	if len(events) != 1 || events[0].Kind != domain.FanoutAccepted {
		t.Fatalf("expected one accepted fan-out event, got %+v", events)
	}
}

func TestRequestService_Accept_InactiveTruckOnBlanket(t *testing.T) {
	repo := newStubRequestRepo()
	seedPending(repo, "r1", true, "")
	trucks := newStubTruckRepo(&domain.Truck{ID: "t1", OwnerID: "owner_1", IsActive: false})
	svc := NewRequestService(repo, trucks, &captureFanout{}, discardLogger)

	_, err := svc.Accept(context.Background(), ports.ActAsTruckInput{
		Caller:    truckCaller("owner_1"),
		RequestID: "r1",
	})
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("inactive truck must not accept a blanket request, got %v", err)
	}
}

func TestRequestService_Accept_NamedTruckWhileInactive(t *testing.T) {
	repo := newStubRequestRepo()
	seedPending(repo, "r1", false, "t1")
	trucks := newStubTruckRepo(&domain.Truck{ID: "t1", OwnerID: "owner_1", IsActive: false})
	svc := NewRequestService(repo, trucks, &captureFanout{}, discardLogger)

	accepted, err := svc.Accept(context.Background(), ports.ActAsTruckInput{
		Caller:    truckCaller("owner_1"),
		RequestID: "r1",
	})
	if err != nil {
		t.Fatalf("named truck must accept while inactive: %v", err)
	}
	if accepted.AcceptedTruckID != "t1" {
		t.Errorf("accepted_truck_id = %q, want t1", accepted.AcceptedTruckID)
	}
}

func TestRequestService_Accept_WrongTruckForbidden(t *testing.T) {
	repo := newStubRequestRepo()
	seedPending(repo, "r1", false, "t9")
	trucks := newStubTruckRepo(&domain.Truck{ID: "t1", OwnerID: "owner_1", IsActive: true})
	svc := NewRequestService(repo, trucks, &captureFanout{}, discardLogger)

	_, err := svc.Accept(context.Background(), ports.ActAsTruckInput{
		Caller:    truckCaller("owner_1"),
		RequestID: "r1",
	})
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for a request naming another truck, got %v", err)
	}
}

func TestRequestService_Accept_NotFound(t *testing.T) {
	trucks := newStubTruckRepo(&domain.Truck{ID: "t1", OwnerID: "owner_1", IsActive: true})
	svc := NewRequestService(newStubRequestRepo(), trucks, &captureFanout{}, discardLogger)

	_, err := svc.Accept(context.Background(), ports.ActAsTruckInput{
		Caller:    truckCaller("owner_1"),
		RequestID: "missing",
	})
	if !errors.Is(err, domain.ErrRequestNotFound) {
		t.Fatalf("expected ErrRequestNotFound, got %v", err)
	}
}

func TestRequestService_Accept_AlreadyAccepted(t *testing.T) {
	repo := newStubRequestRepo()
	req := seedPending(repo, "r1", true, "")
	req.Status = domain.StatusAccepted
	req.AcceptedTruckID = "t9"
	repo.put(req)

	trucks := newStubTruckRepo(&domain.Truck{ID: "t1", OwnerID: "owner_1", IsActive: true})
	fanout := &captureFanout{}
	svc := NewRequestService(repo, trucks, fanout, discardLogger)

	_, err := svc.Accept(context.Background(), ports.ActAsTruckInput{
		Caller:    truckCaller("owner_1"),
		RequestID: "r1",
	})
	if !errors.Is(err, domain.ErrRequestNotAvailable) {
		t.Fatalf("expected ErrRequestNotAvailable, got %v", err)
	}
	if len(fanout.all()) != 0 {
		t.Error("losing accept must not fire a fan-out")
	}

	stored := repo.get("r1")
	if stored.AcceptedTruckID != "t9" {
		t.Errorf("winner must not be overwritten, got %q", stored.AcceptedTruckID)
	}
}

// Two owners race for the same blanket request; exactly one wins and the
// loser observes a conflict, never a silent overwrite.
func TestRequestService_Accept_ConcurrentRace(t *testing.T) {
	repo := newStubRequestRepo()
	seedPending(repo, "r1", true, "")
	trucks := newStubTruckRepo(
		&domain.Truck{ID: "t1", OwnerID: "owner_1", IsActive: true},
		&domain.Truck{ID: "t2", OwnerID: "owner_2", IsActive: true},
	)
	svc := NewRequestService(repo, trucks, &captureFanout{}, discardLogger)

	owners := []string{"owner_1", "owner_2"}
	errs := make([]error, len(owners))
	var wg sync.WaitGroup
	for i, owner := range owners {
		wg.Add(1)
		go func(i int, owner string) {
			defer wg.Done()
			_, errs[i] = svc.Accept(context.Background(), ports.ActAsTruckInput{
				Caller:    truckCaller(owner),
				RequestID: "r1",
			})
		}(i, owner)
	}
	wg.Wait()

	var wins, conflicts int
	for _, err := range errs {
		switch {
		case err == nil:
			wins++
		case errors.Is(err, domain.ErrRequestNotAvailable):
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if wins != 1 || conflicts != 1 {
		t.Fatalf("expected exactly one winner and one conflict, got %d wins, %d conflicts", wins, conflicts)
	}

	stored := repo.get("r1")
	if stored.Status != domain.StatusAccepted || stored.AcceptedTruckID == "" {
		t.Fatalf("request must end accepted by one truck, got %+v", stored)
	}
}

func TestRequestService_Accept_AdminNeedsActingTruck(t *testing.T) {
	repo := newStubRequestRepo()
	seedPending(repo, "r1", true, "")
	trucks := newStubTruckRepo(&domain.Truck{ID: "t1", OwnerID: "owner_1", IsActive: true})
	svc := NewRequestService(repo, trucks, &captureFanout{}, discardLogger)

	_, err := svc.Accept(context.Background(), ports.ActAsTruckInput{
		Caller:    adminCaller(),
		RequestID: "r1",
	})
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}

	accepted, err := svc.Accept(context.Background(), ports.ActAsTruckInput{
		Caller:        adminCaller(),
		RequestID:     "r1",
		ActingTruckID: "t1",
	})
	if err != nil {
		t.Fatalf("admin with acting truck must succeed: %v", err)
	}
	if accepted.AcceptedTruckID != "t1" {
		t.Errorf("accepted_truck_id = %q, want t1", accepted.AcceptedTruckID)
	}
}

// ---------------------------------------------------------------------------
// Ignore
// ---------------------------------------------------------------------------

func TestRequestService_Ignore_KeepsRequestPending(t *testing.T) {
	repo := newStubRequestRepo()
	seedPending(repo, "r1", true, "")
	trucks := newStubTruckRepo(
		&domain.Truck{ID: "t1", OwnerID: "owner_1", IsActive: true},
		&domain.Truck{ID: "t2", OwnerID: "owner_2", IsActive: true},
	)
	svc := NewRequestService(repo, trucks, &captureFanout{}, discardLogger)

	if err := svc.Ignore(context.Background(), ports.ActAsTruckInput{
		Caller:    truckCaller("owner_1"),
		RequestID: "r1",
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	stored := repo.get("r1")
	if stored.Status != domain.StatusPending {
		t.Errorf("ignore must leave the request pending, got %q", stored.Status)
	}
	if !stored.IgnoredByTruck("t1") {
		t.Error("ignore must be recorded for t1")
	}

	// Another eligible truck can still accept.
	if _, err := svc.Accept(context.Background(), ports.ActAsTruckInput{
		Caller:    truckCaller("owner_2"),
		RequestID: "r1",
	}); err != nil {
		t.Fatalf("other truck must still be able to accept: %v", err)
	}
}

func TestRequestService_Ignore_HidesFromInbox(t *testing.T) {
	repo := newStubRequestRepo()
	seedPending(repo, "r1", true, "")
	seedPending(repo, "r2", true, "")
	trucks := newStubTruckRepo(&domain.Truck{ID: "t1", OwnerID: "owner_1", IsActive: true})
	svc := NewRequestService(repo, trucks, &captureFanout{}, discardLogger)

	if err := svc.Ignore(context.Background(), ports.ActAsTruckInput{
		Caller:    truckCaller("owner_1"),
		RequestID: "r1",
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	inbox, err := svc.Inbox(context.Background(), truckCaller("owner_1"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(inbox) != 1 || inbox[0].ID != "r2" {
		t.Fatalf("inbox must hide the ignored request, got %+v", inbox)
	}
}

// ---------------------------------------------------------------------------
// Cancel
// ---------------------------------------------------------------------------

func TestRequestService_Cancel_OwnRequest(t *testing.T) {
	repo := newStubRequestRepo()
	seedPending(repo, "r1", true, "")
	svc := NewRequestService(repo, newStubTruckRepo(), &captureFanout{}, discardLogger)

	if err := svc.Cancel(context.Background(), ports.CancelRequestInput{
		Caller:    businessCaller("biz_1"),
		RequestID: "r1",
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := repo.get("r1").Status; got != domain.StatusCancelled {
		t.Errorf("status = %q, want cancelled", got)
	}
}

func TestRequestService_Cancel_ForeignRequestForbidden(t *testing.T) {
	repo := newStubRequestRepo()
	seedPending(repo, "r1", true, "")
	svc := NewRequestService(repo, newStubTruckRepo(), &captureFanout{}, discardLogger)

	err := svc.Cancel(context.Background(), ports.CancelRequestInput{
		Caller:    businessCaller("biz_other"),
		RequestID: "r1",
	})
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestRequestService_Cancel_AfterAcceptConflicts(t *testing.T) {
	repo := newStubRequestRepo()
	req := seedPending(repo, "r1", true, "")
	req.Status = domain.StatusAccepted
	repo.put(req)
	svc := NewRequestService(repo, newStubTruckRepo(), &captureFanout{}, discardLogger)

	err := svc.Cancel(context.Background(), ports.CancelRequestInput{
		Caller:    businessCaller("biz_1"),
		RequestID: "r1",
	})
	if !errors.Is(err, domain.ErrRequestNotAvailable) {
		t.Fatalf("expected ErrRequestNotAvailable, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// Inbox / ListByBusiness
// ---------------------------------------------------------------------------

func TestRequestService_Inbox_InactiveTruckSeesOnlyNamedRequests(t *testing.T) {
	repo := newStubRequestRepo()
	seedPending(repo, "r_blanket", true, "")
	seedPending(repo, "r_named", false, "t1")
	trucks := newStubTruckRepo(&domain.Truck{ID: "t1", OwnerID: "owner_1", IsActive: false})
	svc := NewRequestService(repo, trucks, &captureFanout{}, discardLogger)

	inbox, err := svc.Inbox(context.Background(), truckCaller("owner_1"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(inbox) != 1 || inbox[0].ID != "r_named" {
		t.Fatalf("inactive truck must only see requests naming it, got %+v", inbox)
	}
}

func TestRequestService_Inbox_RequiresTruckOwner(t *testing.T) {
	svc := NewRequestService(newStubRequestRepo(), newStubTruckRepo(), &captureFanout{}, discardLogger)

	_, err := svc.Inbox(context.Background(), businessCaller("biz_1"))
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestRequestService_ListByBusiness_ScopesToCaller(t *testing.T) {
	repo := newStubRequestRepo()
	seedPending(repo, "r1", true, "")
	other := seedPending(repo, "r2", true, "")
	other.BusinessID = "biz_2"
	repo.put(other)
	svc := NewRequestService(repo, newStubTruckRepo(), &captureFanout{}, discardLogger)

	own, err := svc.ListByBusiness(context.Background(), businessCaller("biz_1"), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(own) != 1 || own[0].ID != "r1" {
		t.Fatalf("business must only see its own requests, got %+v", own)
	}

	// Admin may name any business.
	theirs, err := svc.ListByBusiness(context.Background(), adminCaller(), "biz_2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(theirs) != 1 || theirs[0].ID != "r2" {
		t.Fatalf("admin listing for biz_2 must return r2, got %+v", theirs)
	}
}
