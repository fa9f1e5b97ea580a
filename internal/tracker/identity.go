package tracker

// Identity is the read-only input from the auth layer: an opaque user handle
// (empty when anonymous) and a flag that is true while identity resolution is
// still in flight. Controllers never select a backing store while Loading is
// true, which closes the race where anonymous local data would be read or
// migrated against a half-resolved session.
type Identity struct {
	UID     string
	Loading bool
}

func (i Identity) Present() bool {
	return i.UID != ""
}

// Anonymous is the settled identity of a logged-out session.
var Anonymous = Identity{}
