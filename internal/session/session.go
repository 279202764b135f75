// Package session carries the identity of the user driving a board.
// Every board, engine and service call receives the session explicitly.
package session

import (
	"errors"
	"fmt"
	"os"
	"os/user"
	"slices"
	"strings"

	"github.com/google/uuid"
)

// Role is the membership role of the user inside the agency
type Role string

const (
	RoleAgencyOwner     Role = "AGENCY_OWNER"
	RoleAgencyAdmin     Role = "AGENCY_ADMIN"
	RoleSubAccountUser  Role = "SUBACCOUNT_USER"
	RoleSubAccountGuest Role = "SUBACCOUNT_GUEST"
)

var ErrUnknownRole = errors.New("unknown role")

// ParseRole converts a configuration value into a Role. Matching is case
// insensitive.
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToUpper(strings.TrimSpace(s)))
	switch r {
	case RoleAgencyOwner, RoleAgencyAdmin, RoleSubAccountUser, RoleSubAccountGuest:
		return r, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownRole, s)
}

// Session identifies one running client. ID is unique per process so that
// events published by this session can be told apart from other sessions.
type Session struct {
	ID          string
	UserID      string
	Role        Role
	SubAccounts []string
}

// New creates a session with a fresh ID. An empty userID falls back to the
// operating system username.
func New(userID string, role Role, subAccounts []string) *Session {
	if userID == "" {
		userID = CurrentUsername()
	}
	return &Session{
		ID:          uuid.NewString(),
		UserID:      userID,
		Role:        role,
		SubAccounts: slices.Clone(subAccounts),
	}
}

func (s *Session) isAgency() bool {
	return s.Role == RoleAgencyOwner || s.Role == RoleAgencyAdmin
}

// CanView reports whether the session may read boards of the sub-account.
// Agency roles without an explicit sub-account list see every sub-account.
func (s *Session) CanView(subAccountID string) bool {
	if s == nil {
		return false
	}
	if s.isAgency() && len(s.SubAccounts) == 0 {
		return true
	}
	return slices.Contains(s.SubAccounts, subAccountID)
}

// CanMutate reports whether the session may change boards of the sub-account
func (s *Session) CanMutate(subAccountID string) bool {
	if s == nil || s.Role == RoleSubAccountGuest {
		return false
	}
	return s.CanView(subAccountID)
}

// CurrentUsername returns the operating system username, then $USER, then
// "unknown".
func CurrentUsername() string {
	currentUser, err := user.Current()
	if err != nil {
		username := os.Getenv("USER")
		if username == "" {
			return "unknown"
		}
		return username
	}
	return currentUser.Username
}
