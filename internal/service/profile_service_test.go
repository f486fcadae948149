package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/estate-agency/internal/domain"
	apperrors "github.com/spec-kit/estate-agency/pkg/util/errorutil"
)

func strp(s string) *string { return &s }

func TestUpdateClientProfile(t *testing.T) {
	f := newFixture(t)
	user, _ := f.client("anna")
	pt := &domain.PropertyType{Title: "Flat"}
	require.NoError(t, f.repos.PropertyTypes.Create(f.ctx, pt))
	svc := NewProfileService(ProfileDependencies{Store: f.store, Now: clock})

	_, err := svc.Update(f.ctx, user, ProfileUpdate{PhoneNumber: strp("12345")})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeValidation))

	minor := fixedNow.AddDate(-17, 0, 0)
	_, err = svc.Update(f.ctx, user, ProfileUpdate{BirthDate: &minor})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeValidation))

	_, err = svc.Update(f.ctx, user, ProfileUpdate{PreferredPropertyTypes: []string{"missing"}})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeValidation))

	birth := time.Date(1990, 5, 1, 0, 0, 0, 0, time.UTC)
	profile, err := svc.Update(f.ctx, user, ProfileUpdate{
		FirstName:              strp(" Anna "),
		PhoneNumber:            strp("+375(29)123-45-67"),
		BirthDate:              &birth,
		Preferences:            strp("quiet, balcony"),
		PreferredPropertyTypes: []string{pt.ID},
	})
	require.NoError(t, err)
	assert.Equal(t, "Anna", profile.User.FirstName)
	require.NotNil(t, profile.Client)
	assert.Equal(t, "+375(29)123-45-67", profile.Client.PhoneNumber)
	assert.Equal(t, []string{"quiet", "balcony"}, profile.Client.PreferencesList())
	assert.Equal(t, []string{pt.ID}, profile.Client.PreferredPropertyTypes)
}

func TestUpdateEmployeeRating(t *testing.T) {
	f := newFixture(t)
	admin := f.user("root", domain.RoleAdmin)
	staff, employee := f.employee("agent")
	svc := NewProfileService(ProfileDependencies{Store: f.store, Now: clock})

	tooHigh := dec("5.5")
	_, err := svc.UpdateEmployee(f.ctx, admin, employee.ID, EmployeeUpdate{PerformanceRating: &tooHigh})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeValidation))

	rating := dec("4.5")
	_, err = svc.UpdateEmployee(f.ctx, staff, employee.ID, EmployeeUpdate{PerformanceRating: &rating})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeForbidden))

	updated, err := svc.UpdateEmployee(f.ctx, admin, employee.ID, EmployeeUpdate{PerformanceRating: &rating, Department: strp("Sales")})
	require.NoError(t, err)
	assert.True(t, rating.Equal(*updated.PerformanceRating))

	staffList, err := svc.ListEmployees(f.ctx, staff, "Sales", "", 0, 0)
	require.NoError(t, err)
	require.Len(t, staffList, 1)
	assert.Equal(t, employee.ID, staffList[0].ID)
}
