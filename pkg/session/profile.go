package session

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrUnknownField is returned by UpdateProfile for an unknown field name.
var ErrUnknownField = errors.New("session: unknown profile field")

// Profile is the user's editable profile card.
type Profile struct {
	Nickname          string `json:"nickname" yaml:"nickname" msgpack:"nickname"`
	Hometown          string `json:"hometown" yaml:"hometown" msgpack:"hometown"`
	Bio               string `json:"bio" yaml:"bio" msgpack:"bio"`
	JoinedDate        string `json:"joinedDate" yaml:"joined_date" msgpack:"joinedDate"`
	DialectPreference string `json:"dialectPreference" yaml:"dialect_preference" msgpack:"dialectPreference"`
	IdentityVerified  bool   `json:"identityVerified" yaml:"identity_verified" msgpack:"identityVerified"`
	Avatar            string `json:"avatar" yaml:"avatar" msgpack:"avatar"`
}

// DefaultProfile returns the profile used until the user edits one.
func DefaultProfile() Profile {
	return Profile{
		Nickname:          "乡音守护人",
		Hometown:          "四川成都",
		Bio:               "寻根乡土，话出精彩。",
		JoinedDate:        "2025.05.20",
		DialectPreference: "四川话",
		IdentityVerified:  true,
		Avatar:            "🏮",
	}
}

// ProfileFields lists the editable field names.
var ProfileFields = []string{
	"nickname", "hometown", "bio", "joinedDate", "dialectPreference", "identityVerified", "avatar",
}

// Set assigns value to the named field. Names match ProfileFields,
// case-insensitively; snake_case spellings are accepted too.
func (p *Profile) Set(field, value string) error {
	switch strings.ToLower(strings.ReplaceAll(field, "_", "")) {
	case "nickname":
		p.Nickname = value
	case "hometown":
		p.Hometown = value
	case "bio":
		p.Bio = value
	case "joineddate":
		p.JoinedDate = value
	case "dialectpreference":
		p.DialectPreference = value
	case "identityverified":
		v, err := strconv.ParseBool(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("session: identityVerified: %w", err)
		}
		p.IdentityVerified = v
	case "avatar":
		p.Avatar = value
	default:
		return fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	return nil
}
