package session

import (
	"errors"
	"testing"
)

func TestParseRole(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input   string
		want    Role
		wantErr bool
	}{
		{"AGENCY_OWNER", RoleAgencyOwner, false},
		{"agency_admin", RoleAgencyAdmin, false},
		{" SUBACCOUNT_USER ", RoleSubAccountUser, false},
		{"subaccount_guest", RoleSubAccountGuest, false},
		{"ROOT", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseRole(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrUnknownRole) {
					t.Errorf("Expected ErrUnknownRole, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestSession_Permissions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		session    *Session
		subAccount string
		canView    bool
		canMutate  bool
	}{
		{"owner without list sees all", New("u1", RoleAgencyOwner, nil), "sub-9", true, true},
		{"admin with list is scoped", New("u1", RoleAgencyAdmin, []string{"sub-1"}), "sub-2", false, false},
		{"user in sub-account", New("u1", RoleSubAccountUser, []string{"sub-1"}), "sub-1", true, true},
		{"user outside sub-account", New("u1", RoleSubAccountUser, []string{"sub-1"}), "sub-2", false, false},
		{"user without list sees nothing", New("u1", RoleSubAccountUser, nil), "sub-1", false, false},
		{"guest may only view", New("u1", RoleSubAccountGuest, []string{"sub-1"}), "sub-1", true, false},
		{"nil session", nil, "sub-1", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.session.CanView(tt.subAccount); got != tt.canView {
				t.Errorf("CanView: expected %v, got %v", tt.canView, got)
			}
			if got := tt.session.CanMutate(tt.subAccount); got != tt.canMutate {
				t.Errorf("CanMutate: expected %v, got %v", tt.canMutate, got)
			}
		})
	}
}

func TestNew_AssignsUniqueIDs(t *testing.T) {
	t.Parallel()

	a := New("u1", RoleAgencyOwner, nil)
	b := New("u1", RoleAgencyOwner, nil)
	if a.ID == "" || a.ID == b.ID {
		t.Errorf("Expected distinct non-empty session IDs, got %q and %q", a.ID, b.ID)
	}
}

func TestNew_FallsBackToUsername(t *testing.T) {
	t.Parallel()

	s := New("", RoleAgencyOwner, nil)
	if s.UserID == "" {
		t.Error("Expected a non-empty fallback user ID")
	}
}

func TestNew_CopiesSubAccounts(t *testing.T) {
	t.Parallel()

	subs := []string{"sub-1"}
	s := New("u1", RoleSubAccountUser, subs)
	subs[0] = "sub-2"
	if !s.CanView("sub-1") {
		t.Error("Session should keep its own copy of the sub-account list")
	}
}

func TestCurrentUsername(t *testing.T) {
	t.Parallel()

	if CurrentUsername() == "" {
		t.Error("CurrentUsername should never return an empty string")
	}
}
