package model

// Profile is the public view of a user as seen by another (possibly
// anonymous) viewer.  Following is always false for anonymous viewers.
type Profile struct {
	Username  string  `json:"username"`
	Bio       string  `json:"bio"`
	Image     *string `json:"image"`
	Following bool    `json:"following"`
}
