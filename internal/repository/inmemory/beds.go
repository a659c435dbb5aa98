package inmemory

import (
	"sort"
	"time"

	"hospital-management-api/internal/domain/entity"
	domainRepo "hospital-management-api/internal/domain/repository"
	"hospital-management-api/internal/infrastructure/database"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type wardRepository struct{ s *Store }

func (s *Store) Wards() domainRepo.WardRepository { return &wardRepository{s: s} }

func (r *wardRepository) Create(_ *gorm.DB, ward *entity.Ward) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if ward.ID == uuid.Nil {
		ward.ID = uuid.New()
	}
	ward.CreatedAt = r.s.stamp()
	ward.UpdatedAt = ward.CreatedAt
	r.s.data.wards[ward.ID] = *ward
	return nil
}

func (r *wardRepository) FindSummaryByID(_ *gorm.DB, id uuid.UUID) (*entity.WardSummary, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	ward, ok := r.s.data.wards[id]
	if !ok {
		return nil, nil
	}
	summary := r.summarize(ward)
	return &summary, nil
}

func (r *wardRepository) FindAllSummaries(_ *gorm.DB) ([]entity.WardSummary, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	summaries := make([]entity.WardSummary, 0, len(r.s.data.wards))
	for _, ward := range r.s.data.wards {
		summaries = append(summaries, r.summarize(ward))
	}
	sort.Slice(summaries, func(i, j int) bool { return summaries[i].Name < summaries[j].Name })
	return summaries, nil
}

func (r *wardRepository) summarize(ward entity.Ward) entity.WardSummary {
	summary := entity.WardSummary{Ward: ward}
	for _, bed := range r.s.data.beds {
		if bed.WardID != ward.ID {
			continue
		}
		summary.Capacity++
		if bed.Status == entity.BedStatusAvailable {
			summary.AvailableBeds++
		}
	}
	return summary
}

type bedRepository struct{ s *Store }

func (s *Store) Beds() domainRepo.BedRepository { return &bedRepository{s: s} }

func (r *bedRepository) Create(_ *gorm.DB, bed *entity.Bed) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.data.wards[bed.WardID]; !ok {
		return foreignKeyViolation(database.ConstraintBedWard)
	}
	for _, existing := range r.s.data.beds {
		if existing.WardID == bed.WardID && existing.BedNumber == bed.BedNumber {
			return uniqueViolation(database.ConstraintWardBedNumber)
		}
	}
	if bed.ID == uuid.Nil {
		bed.ID = uuid.New()
	}
	if bed.Status == "" {
		bed.Status = entity.BedStatusAvailable
	}
	bed.CreatedAt = r.s.stamp()
	bed.UpdatedAt = bed.CreatedAt
	r.s.data.beds[bed.ID] = *bed
	return nil
}

func (r *bedRepository) FindByID(_ *gorm.DB, id uuid.UUID) (*entity.Bed, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if err := r.s.injected("beds.FindByID"); err != nil {
		return nil, err
	}
	bed, ok := r.s.data.beds[id]
	if !ok {
		return nil, nil
	}
	return &bed, nil
}

func (r *bedRepository) FindAll(_ *gorm.DB, filter entity.BedFilter) ([]entity.Bed, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var beds []entity.Bed
	for _, bed := range r.s.data.beds {
		if filter.WardID != nil && bed.WardID != *filter.WardID {
			continue
		}
		if filter.Status != nil && bed.Status != *filter.Status {
			continue
		}
		beds = append(beds, bed)
	}
	sort.Slice(beds, func(i, j int) bool { return beds[i].BedNumber < beds[j].BedNumber })
	return beds, nil
}

func (r *bedRepository) MarkOccupied(_ *gorm.DB, id uuid.UUID) (int64, error) {
	return r.transition(id, entity.BedStatusOccupied, func(b entity.Bed) bool {
		return b.Status == entity.BedStatusAvailable && b.IsActive
	})
}

func (r *bedRepository) MarkAvailable(_ *gorm.DB, id uuid.UUID) (int64, error) {
	return r.transition(id, entity.BedStatusAvailable, func(b entity.Bed) bool {
		return b.Status == entity.BedStatusOccupied
	})
}

func (r *bedRepository) SetStatus(_ *gorm.DB, id uuid.UUID, status entity.BedStatus) (int64, error) {
	return r.transition(id, status, func(b entity.Bed) bool {
		return b.Status != entity.BedStatusOccupied
	})
}

func (r *bedRepository) Delete(_ *gorm.DB, id uuid.UUID) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	bed, ok := r.s.data.beds[id]
	if !ok || bed.Status == entity.BedStatusOccupied {
		return 0, nil
	}
	for _, allocation := range r.s.data.allocations {
		if allocation.BedID == id {
			return 0, foreignKeyViolation(database.ConstraintAllocationBed)
		}
	}
	delete(r.s.data.beds, id)
	return 1, nil
}

func (r *bedRepository) transition(id uuid.UUID, to entity.BedStatus, guard func(entity.Bed) bool) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if err := r.s.injected("beds." + string(to)); err != nil {
		return 0, err
	}
	bed, ok := r.s.data.beds[id]
	if !ok || !guard(bed) {
		return 0, nil
	}
	bed.Status = to
	bed.UpdatedAt = r.s.stamp()
	r.s.data.beds[id] = bed
	return 1, nil
}

type bedAllocationRepository struct{ s *Store }

func (s *Store) BedAllocations() domainRepo.BedAllocationRepository {
	return &bedAllocationRepository{s: s}
}

func (r *bedAllocationRepository) Create(_ *gorm.DB, allocation *entity.BedAllocation) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if err := r.s.injected("bedAllocations.Create"); err != nil {
		return err
	}
	if _, ok := r.s.data.beds[allocation.BedID]; !ok {
		return foreignKeyViolation(database.ConstraintAllocationBed)
	}
	if _, ok := r.s.data.users[allocation.PatientID]; !ok {
		return foreignKeyViolation(database.ConstraintAllocationPatient)
	}
	if allocation.Status == "" {
		allocation.Status = entity.AllocationStatusActive
	}
	if allocation.PaymentStatus == "" {
		allocation.PaymentStatus = entity.AllocationPaymentPending
	}
	if allocation.Status == entity.AllocationStatusActive {
		for _, existing := range r.s.data.allocations {
			if existing.BedID == allocation.BedID && existing.IsActive() {
				return uniqueViolation(database.ConstraintActiveBedAllocation)
			}
		}
	}
	if allocation.ID == uuid.Nil {
		allocation.ID = uuid.New()
	}
	allocation.CreatedAt = r.s.stamp()
	allocation.UpdatedAt = allocation.CreatedAt
	r.s.data.allocations[allocation.ID] = *allocation
	return nil
}

func (r *bedAllocationRepository) FindByID(_ *gorm.DB, id uuid.UUID) (*entity.BedAllocation, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	allocation, ok := r.s.data.allocations[id]
	if !ok {
		return nil, nil
	}
	return &allocation, nil
}

func (r *bedAllocationRepository) FindAll(_ *gorm.DB, status *entity.AllocationStatus) ([]entity.BedAllocation, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var allocations []entity.BedAllocation
	for _, allocation := range r.s.data.allocations {
		if status != nil && allocation.Status != *status {
			continue
		}
		allocations = append(allocations, allocation)
	}
	sortAllocationsLatestFirst(allocations)
	return allocations, nil
}

func (r *bedAllocationRepository) FindLatestUnpaidByPatient(_ *gorm.DB, patientID uuid.UUID) (*entity.BedAllocation, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if err := r.s.injected("bedAllocations.FindLatestUnpaidByPatient"); err != nil {
		return nil, err
	}
	var candidates []entity.BedAllocation
	for _, allocation := range r.s.data.allocations {
		if allocation.PatientID == patientID && allocation.PaymentStatus == entity.AllocationPaymentPending {
			candidates = append(candidates, allocation)
		}
	}
	if len(candidates) == 0 {
		return nil, nil
	}
	sortAllocationsLatestFirst(candidates)
	return &candidates[0], nil
}

func (r *bedAllocationRepository) Discharge(_ *gorm.DB, id uuid.UUID, dischargeDate time.Time) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if err := r.s.injected("bedAllocations.Discharge"); err != nil {
		return 0, err
	}
	allocation, ok := r.s.data.allocations[id]
	if !ok || !allocation.IsActive() {
		return 0, nil
	}
	allocation.Status = entity.AllocationStatusDischarged
	allocation.DischargeDate = &dischargeDate
	allocation.UpdatedAt = r.s.stamp()
	r.s.data.allocations[id] = allocation
	return 1, nil
}

func (r *bedAllocationRepository) MarkPaid(_ *gorm.DB, id uuid.UUID) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if err := r.s.injected("bedAllocations.MarkPaid"); err != nil {
		return 0, err
	}
	allocation, ok := r.s.data.allocations[id]
	if !ok || allocation.PaymentStatus != entity.AllocationPaymentPending {
		return 0, nil
	}
	allocation.PaymentStatus = entity.AllocationPaymentPaid
	allocation.UpdatedAt = r.s.stamp()
	r.s.data.allocations[id] = allocation
	return 1, nil
}

func sortAllocationsLatestFirst(allocations []entity.BedAllocation) {
	sort.Slice(allocations, func(i, j int) bool {
		if !allocations[i].AdmissionDate.Equal(allocations[j].AdmissionDate) {
			return allocations[i].AdmissionDate.After(allocations[j].AdmissionDate)
		}
		return allocations[i].CreatedAt.After(allocations[j].CreatedAt)
	})
}

type bedRequestRepository struct{ s *Store }

func (s *Store) BedRequests() domainRepo.BedRequestRepository {
	return &bedRequestRepository{s: s}
}

func (r *bedRequestRepository) Create(_ *gorm.DB, request *entity.BedRequest) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if err := r.s.injected("bedRequests.Create"); err != nil {
		return err
	}
	if request.ID == uuid.Nil {
		request.ID = uuid.New()
	}
	if request.Status == "" {
		request.Status = entity.BedRequestStatusPending
	}
	request.CreatedAt = r.s.stamp()
	request.UpdatedAt = request.CreatedAt
	r.s.data.bedRequests[request.ID] = *request
	return nil
}

func (r *bedRequestRepository) FindByID(_ *gorm.DB, id uuid.UUID) (*entity.BedRequest, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	request, ok := r.s.data.bedRequests[id]
	if !ok {
		return nil, nil
	}
	return &request, nil
}

// FindByIDForUpdate relies on the transactor serializing units of work
func (r *bedRequestRepository) FindByIDForUpdate(db *gorm.DB, id uuid.UUID) (*entity.BedRequest, error) {
	return r.FindByID(db, id)
}

func (r *bedRequestRepository) FindAll(_ *gorm.DB, status *entity.BedRequestStatus) ([]entity.BedRequest, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var requests []entity.BedRequest
	for _, request := range r.s.data.bedRequests {
		if status != nil && request.Status != *status {
			continue
		}
		requests = append(requests, request)
	}
	sort.Slice(requests, func(i, j int) bool { return requests[i].CreatedAt.After(requests[j].CreatedAt) })
	return requests, nil
}

func (r *bedRequestRepository) Decide(_ *gorm.DB, id uuid.UUID, status entity.BedRequestStatus, allocationID *uuid.UUID) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if err := r.s.injected("bedRequests.Decide"); err != nil {
		return 0, err
	}
	request, ok := r.s.data.bedRequests[id]
	if !ok || !request.IsPending() {
		return 0, nil
	}
	request.Status = status
	request.AllocationID = allocationID
	request.UpdatedAt = r.s.stamp()
	r.s.data.bedRequests[id] = request
	return 1, nil
}
