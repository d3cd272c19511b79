package profile

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrNotFound      = errors.New("profile_not_found")
	ErrUsernameTaken = errors.New("username_taken")
	ErrInvalidName   = errors.New("invalid_username")
)

type Profile struct {
	ID          string    `json:"id"`
	Username    string    `json:"username"`
	DisplayName string    `json:"display_name"`
	WalletID    string    `json:"wallet_id"`
	BotIDs      []string  `json:"bot_ids"`
	CreatedAt   time.Time `json:"created_at"`
}

// Directory indexes profiles by id, case-insensitive username, and the
// external subject id used by idempotent provisioning. Not goroutine safe.
type Directory struct {
	profiles   map[string]*Profile
	byUsername map[string]string
	bySubject  map[string]string
}

func NewDirectory() *Directory {
	return &Directory{
		profiles:   map[string]*Profile{},
		byUsername: map[string]string{},
		bySubject:  map[string]string{},
	}
}

func (d *Directory) Get(id string) (*Profile, bool) {
	p, ok := d.profiles[id]
	return p, ok
}

func (d *Directory) ByUsername(username string) (*Profile, bool) {
	id, ok := d.byUsername[strings.ToLower(username)]
	if !ok {
		return nil, false
	}
	return d.profiles[id], true
}

func (d *Directory) BySubject(subjectID string) (*Profile, bool) {
	id, ok := d.bySubject[subjectID]
	if !ok {
		return nil, false
	}
	return d.profiles[id], true
}

func (d *Directory) All() []*Profile {
	out := make([]*Profile, 0, len(d.profiles))
	for _, p := range d.profiles {
		out = append(out, p)
	}
	return out
}

func (d *Directory) Subjects() map[string]string {
	out := make(map[string]string, len(d.bySubject))
	for k, v := range d.bySubject {
		out[k] = v
	}
	return out
}

func (d *Directory) Create(id, username, displayName, walletID string) (*Profile, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, ErrInvalidName
	}
	if _, taken := d.byUsername[strings.ToLower(username)]; taken {
		return nil, ErrUsernameTaken
	}
	if displayName == "" {
		displayName = username
	}
	p := &Profile{
		ID:          id,
		Username:    username,
		DisplayName: displayName,
		WalletID:    walletID,
		CreatedAt:   time.Now().UTC(),
	}
	d.profiles[p.ID] = p
	d.byUsername[strings.ToLower(username)] = p.ID
	return p, nil
}

func (d *Directory) LinkSubject(subjectID, profileID string) {
	d.bySubject[subjectID] = profileID
}

func (d *Directory) AttachBot(profileID, botID string) error {
	p, ok := d.profiles[profileID]
	if !ok {
		return ErrNotFound
	}
	for _, id := range p.BotIDs {
		if id == botID {
			return nil
		}
	}
	p.BotIDs = append(p.BotIDs, botID)
	return nil
}

func (d *Directory) Restore(p Profile, subjects map[string]string) {
	cp := p
	d.profiles[cp.ID] = &cp
	d.byUsername[strings.ToLower(cp.Username)] = cp.ID
	for subject, id := range subjects {
		if id == cp.ID {
			d.bySubject[subject] = id
		}
	}
}

func (d *Directory) Reset() {
	d.profiles = map[string]*Profile{}
	d.byUsername = map[string]string{}
	d.bySubject = map[string]string{}
}
