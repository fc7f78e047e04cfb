package uuid

import "github.com/gofrs/uuid/v5"

type UUID uuid.UUID

var Nil = UUID(uuid.Nil)

func NewV4() UUID {
	return UUID(uuid.Must(uuid.NewV4()))
}

func FromString(s string) (UUID, error) {
	u, err := uuid.FromString(s)
	return UUID(u), err
}

func (u UUID) IsNil() bool { return uuid.UUID(u) == uuid.Nil }

func (u UUID) String() string { return uuid.UUID(u).String() }

func (u UUID) MarshalText() ([]byte, error) { return uuid.UUID(u).MarshalText() }

func (u *UUID) UnmarshalText(b []byte) error {
	return (*uuid.UUID)(u).UnmarshalText(b)
}
