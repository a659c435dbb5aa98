package inmemory

import (
	"sort"

	"hospital-management-api/internal/domain/entity"
	domainRepo "hospital-management-api/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type userRepository struct{ s *Store }

func (s *Store) Users() domainRepo.UserRepository { return &userRepository{s: s} }

func (r *userRepository) FindByID(_ *gorm.DB, id uuid.UUID) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if err := r.s.injected("users.FindByID"); err != nil {
		return nil, err
	}
	user, ok := r.s.data.users[id]
	if !ok {
		return nil, nil
	}
	return &user, nil
}

func (r *userRepository) FindActiveIDsByRole(_ *gorm.DB, roleID int) ([]uuid.UUID, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if err := r.s.injected("users.FindActiveIDsByRole"); err != nil {
		return nil, err
	}
	var ids []uuid.UUID
	for _, u := range r.s.data.users {
		if u.RoleID == roleID && u.IsActive != nil && *u.IsActive {
			ids = append(ids, u.ID)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })
	return ids, nil
}

type doctorProfileRepository struct{ s *Store }

func (s *Store) DoctorProfiles() domainRepo.DoctorProfileRepository {
	return &doctorProfileRepository{s: s}
}

func (r *doctorProfileRepository) FindByUserID(_ *gorm.DB, userID uuid.UUID) (*entity.DoctorProfile, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if err := r.s.injected("doctorProfiles.FindByUserID"); err != nil {
		return nil, err
	}
	profile, ok := r.s.data.doctors[userID]
	if !ok {
		return nil, nil
	}
	return &profile, nil
}

type patientProfileRepository struct{ s *Store }

func (s *Store) PatientProfiles() domainRepo.PatientProfileRepository {
	return &patientProfileRepository{s: s}
}

func (r *patientProfileRepository) FindByUserID(_ *gorm.DB, userID uuid.UUID) (*entity.PatientProfile, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	profile, ok := r.s.data.patients[userID]
	if !ok {
		return nil, nil
	}
	return &profile, nil
}

type notificationRepository struct{ s *Store }

func (s *Store) Notifications() domainRepo.NotificationRepository {
	return &notificationRepository{s: s}
}

func (r *notificationRepository) Create(_ *gorm.DB, notification *entity.Notification) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if err := r.s.injected("notifications.Create"); err != nil {
		return err
	}
	if _, ok := r.s.data.users[notification.UserID]; !ok {
		return foreignKeyViolation("notifications_user_id_fkey")
	}
	r.s.data.nextNotifyID++
	notification.ID = r.s.data.nextNotifyID
	notification.CreatedAt = r.s.stamp()
	r.s.data.notifications = append(r.s.data.notifications, *notification)
	return nil
}

func (r *notificationRepository) FindByUserID(_ *gorm.DB, userID uuid.UUID) ([]entity.Notification, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var result []entity.Notification
	for i := len(r.s.data.notifications) - 1; i >= 0; i-- {
		if n := r.s.data.notifications[i]; n.UserID == userID {
			result = append(result, n)
		}
	}
	return result, nil
}

func (r *notificationRepository) MarkRead(_ *gorm.DB, id int64, userID uuid.UUID) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for i, n := range r.s.data.notifications {
		if n.ID == id && n.UserID == userID {
			r.s.data.notifications[i].IsRead = true
			return 1, nil
		}
	}
	return 0, nil
}
