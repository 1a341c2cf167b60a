package discord

import (
	"bytes"
	"errors"
	"fmt"

	jsoniter "github.com/json-iterator/go"
)

// json matches object keys exactly, a key in another case is an unknown field.
var json = jsoniter.Config{
	EscapeHTML:             true,
	SortMapKeys:            true,
	ValidateJsonRawMessage: true,
	CaseSensitive:          true,
}.Froze()

type Guild struct {
	Banner            *string `json:"banner,omitempty"`
	Description       *string `json:"description,omitempty"`
	ID                string  `json:"id"`
	Icon              *string `json:"icon,omitempty"`
	Name              string  `json:"name"`
	Splash            *string `json:"splash,omitempty"`
	VanityURLCode     *string `json:"vanity_url_code,omitempty"`
	VerificationLevel uint8   `json:"verification_level"`
}

type Channel struct {
	ID   string  `json:"id"`
	Name *string `json:"name,omitempty"`
	Type uint    `json:"type"`
}

type User struct {
	ID            string  `json:"id"`
	Username      string  `json:"username"`
	Avatar        *string `json:"avatar,omitempty"`
	Discriminator string  `json:"discriminator"`
}

// Invite is the metadata of a single invite as returned by the discord api.
type Invite struct {
	Code                     string  `json:"code"`
	Guild                    *Guild  `json:"guild,omitempty"`
	Channel                  Channel `json:"channel"`
	Inviter                  *User   `json:"inviter,omitempty"`
	ApproximateMemberCount   uint64  `json:"approximate_member_count"`
	ApproximatePresenceCount uint64  `json:"approximate_presence_count"`
}

// URL returns the canonical invite url of the invite.
func (i Invite) URL() string {
	return InviteURL(i.Code)
}

// the wire types mirror the public ones but keep required fields as pointers,
// so that a missing or null required field can be told apart from a zero value.

type wireGuild struct {
	Banner            *string `json:"banner"`
	Description       *string `json:"description"`
	ID                *string `json:"id"`
	Icon              *string `json:"icon"`
	Name              *string `json:"name"`
	Splash            *string `json:"splash"`
	VanityURLCode     *string `json:"vanity_url_code"`
	VerificationLevel *uint8  `json:"verification_level"`
}

type wireChannel struct {
	ID   *string `json:"id"`
	Name *string `json:"name"`
	Type *uint   `json:"type"`
}

type wireUser struct {
	ID            *string `json:"id"`
	Username      *string `json:"username"`
	Avatar        *string `json:"avatar"`
	Discriminator *string `json:"discriminator"`
}

type wireInvite struct {
	Code                     *string      `json:"code"`
	Guild                    *wireGuild   `json:"guild"`
	Channel                  *wireChannel `json:"channel"`
	Inviter                  *wireUser    `json:"inviter"`
	ApproximateMemberCount   *uint64      `json:"approximate_member_count"`
	ApproximatePresenceCount *uint64      `json:"approximate_presence_count"`
}

type missingFieldError struct {
	field string
}

func (e missingFieldError) Error() string {
	return fmt.Sprintf("missing field `%s`", e.field)
}

func required[T any](field string, value *T, errs *[]error) T {
	if value == nil {
		*errs = append(*errs, missingFieldError{field: field})
		var zero T
		return zero
	}
	return *value
}

// DecodeInvite decodes an api response body into an Invite. Unknown fields are ignored,
// optional fields stay nil when absent, and a missing required field is an error.
func DecodeInvite(body []byte) (Invite, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return Invite{}, errors.New("empty body")
	}

	var wire wireInvite
	err := json.Unmarshal(body, &wire)
	if err != nil {
		return Invite{}, err
	}

	var errs []error
	invite := Invite{
		Code:                     required("code", wire.Code, &errs),
		ApproximateMemberCount:   required("approximate_member_count", wire.ApproximateMemberCount, &errs),
		ApproximatePresenceCount: required("approximate_presence_count", wire.ApproximatePresenceCount, &errs),
	}

	if wire.Channel == nil {
		errs = append(errs, missingFieldError{field: "channel"})
	} else {
		invite.Channel = Channel{
			ID:   required("channel.id", wire.Channel.ID, &errs),
			Name: wire.Channel.Name,
			Type: required("channel.type", wire.Channel.Type, &errs),
		}
	}

	if wire.Guild != nil {
		invite.Guild = &Guild{
			Banner:            wire.Guild.Banner,
			Description:       wire.Guild.Description,
			ID:                required("guild.id", wire.Guild.ID, &errs),
			Icon:              wire.Guild.Icon,
			Name:              required("guild.name", wire.Guild.Name, &errs),
			Splash:            wire.Guild.Splash,
			VanityURLCode:     wire.Guild.VanityURLCode,
			VerificationLevel: required("guild.verification_level", wire.Guild.VerificationLevel, &errs),
		}
	}

	if wire.Inviter != nil {
		invite.Inviter = &User{
			ID:            required("inviter.id", wire.Inviter.ID, &errs),
			Username:      required("inviter.username", wire.Inviter.Username, &errs),
			Avatar:        wire.Inviter.Avatar,
			Discriminator: required("inviter.discriminator", wire.Inviter.Discriminator, &errs),
		}
	}

	if len(errs) > 0 {
		return Invite{}, errors.Join(errs...)
	}
	return invite, nil
}
