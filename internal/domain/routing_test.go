package domain_test

import (
	"testing"
	"time"

	"topjob-gateway/internal/domain"

	"github.com/stretchr/testify/assert"
)

var now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func identity(role domain.Role, status domain.EmployerStatus) *domain.Identity {
	return &domain.Identity{
		SubjectID: "subject-1",
		Email:     "user@example.com",
		Role:      role,
		Status:    status,
		IssuedAt:  now.Add(-time.Hour),
		ExpiresAt: now.Add(time.Hour),
	}
}

func TestResolveDestinationNoIdentity(t *testing.T) {
	for _, area := range []domain.Area{domain.AreaAdmin, domain.AreaEmployer, domain.AreaCandidate} {
		assert.Equal(t, domain.DestinationLogin, domain.ResolveDestination(nil, area, now))
	}
}

func TestResolveDestinationExpired(t *testing.T) {
	for _, role := range []domain.Role{domain.RoleAdmin, domain.RoleEmployer, domain.RoleCandidate} {
		id := identity(role, domain.StatusActive)
		id.ExpiresAt = now.Add(-time.Minute)
		for _, area := range []domain.Area{domain.AreaAdmin, domain.AreaEmployer, domain.AreaCandidate} {
			assert.Equal(t, domain.DestinationLogin, domain.ResolveDestination(id, area, now))
		}
	}

	t.Run("Expiry boundary is strict", func(t *testing.T) {
		id := identity(domain.RoleCandidate, domain.StatusNone)
		id.ExpiresAt = now
		assert.Equal(t, domain.DestinationLogin, domain.ResolveDestination(id, domain.AreaCandidate, now))
	})
}

func TestResolveDestinationAdminArea(t *testing.T) {
	assert.Equal(t, domain.DestinationAllow,
		domain.ResolveDestination(identity(domain.RoleAdmin, domain.StatusNone), domain.AreaAdmin, now))
	assert.Equal(t, domain.DestinationPublicRoot,
		domain.ResolveDestination(identity(domain.RoleCandidate, domain.StatusNone), domain.AreaAdmin, now))
	assert.Equal(t, domain.DestinationPublicRoot,
		domain.ResolveDestination(identity(domain.RoleEmployer, domain.StatusActive), domain.AreaAdmin, now))
}

func TestResolveDestinationEmployerArea(t *testing.T) {
	cases := []struct {
		name   string
		status domain.EmployerStatus
		want   domain.Destination
	}{
		{"Pending profile completion", domain.StatusPendingProfileCompletion, domain.DestinationCompleteProfile},
		{"Pending approval", domain.StatusPendingApproval, domain.DestinationPendingApproval},
		{"Active", domain.StatusActive, domain.DestinationAllow},
		{"Missing status", domain.StatusNone, domain.DestinationPublicRoot},
		{"Unrecognized status falls back to public root", domain.EmployerStatus("REJECTED"), domain.DestinationPublicRoot},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := domain.ResolveDestination(identity(domain.RoleEmployer, tc.status), domain.AreaEmployer, now)
			assert.Equal(t, tc.want, got)
		})
	}

	t.Run("Non-employers never enter the employer area", func(t *testing.T) {
		assert.Equal(t, domain.DestinationPublicRoot,
			domain.ResolveDestination(identity(domain.RoleCandidate, domain.StatusNone), domain.AreaEmployer, now))
		assert.Equal(t, domain.DestinationPublicRoot,
			domain.ResolveDestination(identity(domain.RoleAdmin, domain.StatusNone), domain.AreaEmployer, now))
	})
}

func TestResolveDestinationCandidateArea(t *testing.T) {
	// Status carries no meaning for candidates; any value allows entry.
	for _, status := range []domain.EmployerStatus{domain.StatusNone, domain.StatusPendingApproval, domain.EmployerStatus("WHATEVER")} {
		got := domain.ResolveDestination(identity(domain.RoleCandidate, status), domain.AreaCandidate, now)
		assert.Equal(t, domain.DestinationAllow, got)
	}

	assert.Equal(t, domain.DestinationAllow,
		domain.ResolveDestination(identity(domain.RoleAdmin, domain.StatusNone), domain.AreaCandidate, now))
	assert.Equal(t, domain.DestinationAllow,
		domain.ResolveDestination(identity(domain.RoleEmployer, domain.StatusActive), domain.AreaCandidate, now))
}

func TestResolveDestinationDeterministic(t *testing.T) {
	id := identity(domain.RoleEmployer, domain.StatusPendingApproval)
	first := domain.ResolveDestination(id, domain.AreaEmployer, now)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, domain.ResolveDestination(id, domain.AreaEmployer, now))
	}
}

func TestParseRole(t *testing.T) {
	cases := map[string]domain.Role{
		"candidate": domain.RoleCandidate,
		"EMPLOYER":  domain.RoleEmployer,
		" Admin ":   domain.RoleAdmin,
	}
	for raw, want := range cases {
		role, ok := domain.ParseRole(raw)
		assert.True(t, ok, raw)
		assert.Equal(t, want, role)
	}

	_, ok := domain.ParseRole("moderator")
	assert.False(t, ok)
	_, ok = domain.ParseRole("")
	assert.False(t, ok)
}

func TestParseStatus(t *testing.T) {
	assert.Equal(t, domain.StatusActive, domain.ParseStatus("active"))
	assert.Equal(t, domain.StatusPendingApproval, domain.ParseStatus(" pending_approval "))
	assert.True(t, domain.ParseStatus("ACTIVE").Known())

	// Unknown values pass through for the router's safe default.
	unknown := domain.ParseStatus("rejected")
	assert.Equal(t, domain.EmployerStatus("REJECTED"), unknown)
	assert.False(t, unknown.Known())
}
