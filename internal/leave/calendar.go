package leave

import (
	"context"
	"fmt"
	"time"

	"go-leave/internal/shared/apperror"
	"go-leave/internal/user"

	ics "github.com/arran4/golang-ical"
	"go.uber.org/zap"
)

const calendarProductID = "-//go-leave//Approved Leave//EN"

// CalendarFeed renders approved leave in [from, to] as an iCalendar
// document. Admins see everyone, HODs their scope, employees themselves.
func (s *service) CalendarFeed(ctx context.Context, actor Actor, from, to time.Time) ([]byte, error) {
	if to.Before(from) {
		return nil, apperror.InvalidField("to")
	}

	rows, err := s.visibleApproved(ctx, actor, from, to)
	if err != nil {
		s.log(ctx).Error("calendar feed query failed", zap.Error(err))
		return nil, err
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(calendarProductID)

	names := make(map[int64]string)
	stamp := time.Now().UTC()
	for _, l := range rows {
		name, ok := names[l.EmployeeID]
		if !ok {
			name = s.person(ctx, l.EmployeeID).Name
			names[l.EmployeeID] = name
		}

		ev := cal.AddEvent(fmt.Sprintf("leave-%d@go-leave", l.ID))
		ev.SetDtStampTime(stamp)
		ev.SetAllDayStartAt(l.StartDate)
		// DTEND is exclusive for all-day events
		ev.SetAllDayEndAt(l.EndDate.AddDate(0, 0, 1))
		ev.SetSummary(fmt.Sprintf("%s - %s", name, l.LeaveType))
		if l.Reason != nil {
			ev.SetDescription(*l.Reason)
		}
	}

	return []byte(cal.Serialize()), nil
}

func (s *service) visibleApproved(ctx context.Context, actor Actor, from, to time.Time) ([]LeaveRequest, error) {
	switch actor.Role {
	case user.RoleAdmin:
		return s.repo.FindApprovedBetween(ctx, from, to)

	case user.RoleHod:
		me, err := s.directory.GetByID(ctx, actor.EmployeeID)
		if err != nil {
			return nil, err
		}
		rows, err := s.repo.FindForHod(ctx, HodScope{
			EmployeeID:   me.ID,
			DepartmentID: me.DepartmentID,
			LocationID:   me.LocationID,
		}, ListFilter{Status: StatusApproved})
		if err != nil {
			return nil, err
		}
		return overlapping(rows, from, to), nil

	default:
		if actor.EmployeeID == 0 {
			return nil, nil
		}
		rows, err := s.repo.FindByEmployee(ctx, actor.EmployeeID)
		if err != nil {
			return nil, err
		}
		approved := rows[:0]
		for _, l := range rows {
			if l.Status == StatusApproved {
				approved = append(approved, l)
			}
		}
		return overlapping(approved, from, to), nil
	}
}
