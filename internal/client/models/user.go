// Package models defines the client-side data model: the user record owned by
// the session manager, its subscription/trial sub-records, and the health
// profile persisted server-side per user.
package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Role of a user account.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// PlanPremium is the only paid plan.
const PlanPremium = "premium"

// FlexID is a user identifier that tolerates both numeric and string wire
// representations. The backend is known to return the id as a numeric string
// in some responses; FlexID always normalizes to an integer and always
// marshals back as a number.
type FlexID int64

func (f *FlexID) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if strings.HasPrefix(s, `"`) {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		if str == "" {
			*f = 0
			return nil
		}
		n, err := strconv.ParseInt(str, 10, 64)
		if err != nil {
			return fmt.Errorf("user id %q is not numeric: %w", str, err)
		}
		*f = FlexID(n)
		return nil
	}
	var n int64
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = FlexID(n)
	return nil
}

func (f FlexID) MarshalJSON() ([]byte, error) {
	return json.Marshal(int64(f))
}

func (f FlexID) Int64() int64 {
	return int64(f)
}

// Subscription is a paid-access window attached to a user.
type Subscription struct {
	Active    bool      `json:"active"`
	ExpiresAt time.Time `json:"expiresAt"`
	Plan      string    `json:"plan"`
}

// TrialPeriod is a free-access window attached to a user.
type TrialPeriod struct {
	Active    bool      `json:"active"`
	StartedAt time.Time `json:"startedAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// HealthProfile is the per-user dietary/health sub-record. It is persisted
// server-side keyed by user id and cached locally inside the user record.
type HealthProfile struct {
	Conditions          []string `json:"conditions"`
	DietaryRestrictions []string `json:"dietaryRestrictions"`
	Allergies           []string `json:"allergies"`
	Notes               string   `json:"notes"`
}

// DefaultHealthProfile returns the empty profile used when the server copy
// cannot be fetched.
func DefaultHealthProfile() *HealthProfile {
	return &HealthProfile{
		Conditions:          []string{},
		DietaryRestrictions: []string{},
		Allergies:           []string{},
		Notes:               "",
	}
}

// User is the session-owned user record. Optional sub-records are pointers;
// nil means absent.
type User struct {
	ID            FlexID         `json:"id"`
	Email         string         `json:"email"`
	Name          string         `json:"name,omitempty"`
	Role          Role           `json:"role"`
	HealthProfile *HealthProfile `json:"healthProfile,omitempty"`
	Subscription  *Subscription  `json:"subscription,omitempty"`
	TrialPeriod   *TrialPeriod   `json:"trialPeriod,omitempty"`
}

// IsAdmin reports whether the record carries the admin role.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// Clone returns a deep copy of the record, so callers can hand out snapshots
// without aliasing the session-owned cell.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	c := *u
	if u.HealthProfile != nil {
		hp := *u.HealthProfile
		hp.Conditions = append([]string(nil), u.HealthProfile.Conditions...)
		hp.DietaryRestrictions = append([]string(nil), u.HealthProfile.DietaryRestrictions...)
		hp.Allergies = append([]string(nil), u.HealthProfile.Allergies...)
		c.HealthProfile = &hp
	}
	if u.Subscription != nil {
		s := *u.Subscription
		c.Subscription = &s
	}
	if u.TrialPeriod != nil {
		t := *u.TrialPeriod
		c.TrialPeriod = &t
	}
	return &c
}

// UserPatch is a partial user record for shallow merges. Nil fields are left
// untouched; non-nil fields replace the current value wholesale.
type UserPatch struct {
	Email         *string
	Name          *string
	Role          *Role
	HealthProfile *HealthProfile
	Subscription  *Subscription
	TrialPeriod   *TrialPeriod
}

// Apply shallow-merges the patch into the record.
func (u *User) Apply(p UserPatch) {
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.Role != nil {
		u.Role = *p.Role
	}
	if p.HealthProfile != nil {
		u.HealthProfile = p.HealthProfile
	}
	if p.Subscription != nil {
		u.Subscription = p.Subscription
	}
	if p.TrialPeriod != nil {
		u.TrialPeriod = p.TrialPeriod
	}
}

// MergeRemote combines a locally held record with the authority's current one.
// Remote identity fields win; optional sub-records absent from the remote
// response do not clobber local ones, and the health profile is kept from the
// local record whenever it is already present.
func MergeRemote(local, remote *User) *User {
	if remote == nil {
		return local.Clone()
	}
	if local == nil {
		return remote.Clone()
	}
	merged := local.Clone()
	merged.ID = remote.ID
	merged.Email = remote.Email
	if remote.Name != "" {
		merged.Name = remote.Name
	}
	merged.Role = remote.Role
	if remote.Subscription != nil {
		s := *remote.Subscription
		merged.Subscription = &s
	}
	if remote.TrialPeriod != nil {
		t := *remote.TrialPeriod
		merged.TrialPeriod = &t
	}
	if merged.HealthProfile == nil && remote.HealthProfile != nil {
		hp := *remote.HealthProfile
		merged.HealthProfile = &hp
	}
	return merged
}
