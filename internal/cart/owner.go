package cart

type ownerKind string

const (
	kindUser    ownerKind = "user"
	kindSession ownerKind = "session"
)

// Owner is exactly one of: a registered user, or an anonymous session token.
// The unexported fields keep the two variants mutually exclusive.
type Owner struct {
	kind ownerKind
	id   string
}

func UserOwner(userID string) Owner { return Owner{kind: kindUser, id: userID} }

func SessionOwner(token string) Owner { return Owner{kind: kindSession, id: token} }

func (o Owner) IsUser() bool { return o.kind == kindUser && o.id != "" }

func (o Owner) Kind() string { return string(o.kind) }

func (o Owner) ID() string { return o.id }

// Key identifies the owner across store and cache, e.g. "session:s1".
func (o Owner) Key() string { return string(o.kind) + ":" + o.id }

// Identity carries what the edge resolved from a request: the verified user
// (if authenticated upstream) and the anonymous cart token (if supplied).
type Identity struct {
	UserID    string
	SessionID string
}

// Owner picks the acting owner. An authenticated user always takes
// precedence over a session token carried in the same request.
func (id Identity) Owner() (Owner, bool) {
	switch {
	case id.UserID != "":
		return UserOwner(id.UserID), true
	case id.SessionID != "":
		return SessionOwner(id.SessionID), true
	}
	return Owner{}, false
}
