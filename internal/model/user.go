package model

// Preferences are the per-user display settings.
type Preferences struct {
	Currency      string `json:"currency"`
	Notifications bool   `json:"notifications"`
}

// User is the single active user of a session.
type User struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Email       string      `json:"email"`
	Preferences Preferences `json:"preferences"`
}

// PreferencesPatch updates a subset of Preferences.
type PreferencesPatch struct {
	Currency      *string
	Notifications *bool
}

// ProfilePatch updates a subset of the user profile.
type ProfilePatch struct {
	Name        *string
	Email       *string
	Preferences *PreferencesPatch
}

// Apply merges the patch into u.
func (p ProfilePatch) Apply(u User) User {
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.Preferences != nil {
		if p.Preferences.Currency != nil {
			u.Preferences.Currency = *p.Preferences.Currency
		}
		if p.Preferences.Notifications != nil {
			u.Preferences.Notifications = *p.Preferences.Notifications
		}
	}
	return u
}

// Empty reports whether the patch changes nothing.
func (p ProfilePatch) Empty() bool {
	return p.Name == nil && p.Email == nil &&
		(p.Preferences == nil || (p.Preferences.Currency == nil && p.Preferences.Notifications == nil))
}
