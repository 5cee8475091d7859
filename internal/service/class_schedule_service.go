package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/stemsi/unirecords-backend/internal/model"
	"github.com/stemsi/unirecords-backend/internal/repository"
)

var ErrScheduleNotFound = fmt.Errorf("class schedule: %w", repository.ErrNotFound)

// ClassScheduleService manages the weekly timetable.
type ClassScheduleService struct {
	scheduleRepo repository.ClassScheduleRepository
}

func NewClassScheduleService(scheduleRepo repository.ClassScheduleRepository) *ClassScheduleService {
	return &ClassScheduleService{scheduleRepo: scheduleRepo}
}

// List returns the whole timetable ordered by weekday and time.
func (s *ClassScheduleService) List(ctx context.Context) ([]model.ClassSchedule, error) {
	slots, err := s.scheduleRepo.List(ctx, 0)
	if slots == nil && err == nil {
		slots = []model.ClassSchedule{}
	}
	return slots, err
}

func (s *ClassScheduleService) Create(ctx context.Context, req model.ClassScheduleRequest) (*model.ClassSchedule, error) {
	slot := &model.ClassSchedule{
		CourseID: req.CourseID,
		Weekday:  req.Weekday,
		TimeSlot: strings.TrimSpace(req.TimeSlot),
		Room:     trimOptional(req.Room),
	}
	if err := s.scheduleRepo.Create(ctx, slot); err != nil {
		return nil, err
	}
	return s.reload(ctx, slot.ID)
}

func (s *ClassScheduleService) Update(ctx context.Context, id int, req model.ClassScheduleRequest) (*model.ClassSchedule, error) {
	slot := &model.ClassSchedule{
		ID:       id,
		CourseID: req.CourseID,
		Weekday:  req.Weekday,
		TimeSlot: strings.TrimSpace(req.TimeSlot),
		Room:     trimOptional(req.Room),
	}
	if err := s.scheduleRepo.Update(ctx, slot); err != nil {
		return nil, notFoundAs(err, ErrScheduleNotFound)
	}
	return s.reload(ctx, id)
}

func (s *ClassScheduleService) Delete(ctx context.Context, id int) error {
	return notFoundAs(s.scheduleRepo.Delete(ctx, id), ErrScheduleNotFound)
}

func (s *ClassScheduleService) reload(ctx context.Context, id int) (*model.ClassSchedule, error) {
	slot, err := s.scheduleRepo.GetByID(ctx, id)
	return slot, notFoundAs(err, ErrScheduleNotFound)
}
