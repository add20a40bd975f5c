package types

// Profile is the authenticated user's record as mirrored from the
// identity provider session. It is stored under the `user` key while a
// session is active and removed on logout.
type Profile struct {
	ID          string `json:"uid"`
	DisplayName string `json:"displayName"`
	Email       string `json:"email"`
	PhotoURL    string `json:"photoURL,omitempty"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
}
